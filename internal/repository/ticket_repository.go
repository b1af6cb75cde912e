package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

// TicketUpdate carries the mutable fields written back by the lifecycle
// manager. Nil pointers leave the column untouched.
type TicketUpdate struct {
	Status     *domain.TicketStatus
	Assignee   *string
	Response   *string
	ResolvedAt *time.Time
}

// TicketRepository is the storage collaborator for tickets. The backing
// store owns id assignment: Append computes the next Q-id from the
// existing maximum.
type TicketRepository interface {
	Append(ctx context.Context, ticket *domain.Ticket) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, id string, update TicketUpdate) error
	ListReceivedBetween(ctx context.Context, from, to time.Time) ([]domain.Ticket, error)
	Search(ctx context.Context, keyword string, limit int) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, received_at, platform, author, author_id, content, category, status, assignee, response, resolved_at, source_id, source_url`

func (r *ticketRepository) Append(ctx context.Context, ticket *domain.Ticket) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var maxNum int
	const nextQuery = `
        SELECT COALESCE(MAX(CAST(SUBSTRING(id FROM 2) AS INTEGER)), 0)
        FROM tickets WHERE id ~ '^Q[0-9]+$'`
	if err := tx.QueryRow(ctx, nextQuery).Scan(&maxNum); err != nil {
		return "", err
	}
	id := fmt.Sprintf("Q%03d", maxNum+1)

	const insertQuery = `
        INSERT INTO tickets (id, received_at, platform, author, author_id, content, category, status, assignee, response, resolved_at, source_id, source_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`
	if _, err := tx.Exec(ctx, insertQuery,
		id,
		ticket.ReceivedAt,
		ticket.Platform,
		ticket.Author,
		ticket.AuthorID,
		ticket.Content,
		ticket.Category,
		ticket.Status,
		ticket.Assignee,
		ticket.Response,
		ticket.ResolvedAt,
		ticket.SourceID,
		ticket.SourceURL,
	); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	ticket.ID = id
	return id, nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) Update(ctx context.Context, id string, update TicketUpdate) error {
	sets := []string{}
	args := []any{}

	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if update.Assignee != nil {
		args = append(args, *update.Assignee)
		sets = append(sets, fmt.Sprintf("assignee=$%d", len(args)))
	}
	if update.Response != nil {
		args = append(args, *update.Response)
		sets = append(sets, fmt.Sprintf("response=$%d", len(args)))
	}
	if update.ResolvedAt != nil {
		args = append(args, *update.ResolvedAt)
		sets = append(sets, fmt.Sprintf("resolved_at=$%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tickets SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListReceivedBetween(ctx context.Context, from, to time.Time) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets
        WHERE received_at >= $1 AND received_at <= $2
        ORDER BY received_at ASC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Search(ctx context.Context, keyword string, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
	query := `SELECT ` + ticketColumns + ` FROM tickets
        WHERE LOWER(content) LIKE $1 OR LOWER(author) LIKE $1 OR LOWER(category) LIKE $1
        ORDER BY received_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.ReceivedAt,
		&ticket.Platform,
		&ticket.Author,
		&ticket.AuthorID,
		&ticket.Content,
		&ticket.Category,
		&ticket.Status,
		&ticket.Assignee,
		&ticket.Response,
		&ticket.ResolvedAt,
		&ticket.SourceID,
		&ticket.SourceURL,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.ReceivedAt,
			&ticket.Platform,
			&ticket.Author,
			&ticket.AuthorID,
			&ticket.Content,
			&ticket.Category,
			&ticket.Status,
			&ticket.Assignee,
			&ticket.Response,
			&ticket.ResolvedAt,
			&ticket.SourceID,
			&ticket.SourceURL,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
