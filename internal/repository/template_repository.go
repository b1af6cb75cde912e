package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// TemplateRepository persists reply templates. T-ids are assigned next
// after the current maximum, like ticket ids.
type TemplateRepository interface {
	List(ctx context.Context) ([]domain.Template, error)
	GetByID(ctx context.Context, id string) (*domain.Template, error)
	Append(ctx context.Context, template *domain.Template) (string, error)
	Delete(ctx context.Context, id string) error
}

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository instantiates the repository.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

func (r *templateRepository) List(ctx context.Context) ([]domain.Template, error) {
	const query = `SELECT id, category, name, body, created_at FROM templates ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Template
	for rows.Next() {
		var tpl domain.Template
		if err := rows.Scan(&tpl.ID, &tpl.Category, &tpl.Name, &tpl.Body, &tpl.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, tpl)
	}
	return result, rows.Err()
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	const query = `SELECT id, category, name, body, created_at FROM templates WHERE id=$1`
	var tpl domain.Template
	if err := r.pool.QueryRow(ctx, query, id).Scan(&tpl.ID, &tpl.Category, &tpl.Name, &tpl.Body, &tpl.CreatedAt); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) Append(ctx context.Context, template *domain.Template) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var maxNum int
	const nextQuery = `
        SELECT COALESCE(MAX(CAST(SUBSTRING(id FROM 2) AS INTEGER)), 0)
        FROM templates WHERE id ~ '^T[0-9]+$'`
	if err := tx.QueryRow(ctx, nextQuery).Scan(&maxNum); err != nil {
		return "", err
	}
	id := fmt.Sprintf("T%03d", maxNum+1)

	const insertQuery = `
        INSERT INTO templates (id, category, name, body)
        VALUES ($1,$2,$3,$4)`
	if _, err := tx.Exec(ctx, insertQuery, id, template.Category, template.Name, template.Body); err != nil {
		return "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	template.ID = id
	return id, nil
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
