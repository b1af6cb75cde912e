package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/config"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

type memTemplateRepo struct {
	templates []domain.Template
	nextID    int
	listCalls int
}

func (r *memTemplateRepo) List(context.Context) ([]domain.Template, error) {
	r.listCalls++
	return append([]domain.Template{}, r.templates...), nil
}

func (r *memTemplateRepo) GetByID(_ context.Context, id string) (*domain.Template, error) {
	for i := range r.templates {
		if r.templates[i].ID == id {
			return &r.templates[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTemplateRepo) Append(_ context.Context, template *domain.Template) (string, error) {
	r.nextID++
	template.ID = fmt.Sprintf("T%03d", r.nextID)
	r.templates = append(r.templates, *template)
	return template.ID, nil
}

func (r *memTemplateRepo) Delete(_ context.Context, id string) error {
	for i := range r.templates {
		if r.templates[i].ID == id {
			r.templates = append(r.templates[:i], r.templates[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type mapCache struct {
	entries map[string]string
}

func newMapCache() *mapCache { return &mapCache{entries: make(map[string]string)} }

func (c *mapCache) Get(_ context.Context, key string) (string, bool) {
	val, ok := c.entries[key]
	return val, ok
}

func (c *mapCache) Set(_ context.Context, key, value string, _ time.Duration) {
	c.entries[key] = value
}

func (c *mapCache) Delete(_ context.Context, key string) {
	delete(c.entries, key)
}

func newTemplateFixture(t *testing.T) (*TemplateService, *memTemplateRepo, *mapCache) {
	t.Helper()
	repo := &memTemplateRepo{}
	cache := newMapCache()
	support := config.SupportConfig{
		CompanyName: "株式会社サンプル",
		Email:       "support@example.com",
		Phone:       "03-1234-5678",
	}
	svc := NewTemplateService(repo, cache, support, time.Hour, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC) }
	return svc, repo, cache
}

func TestTemplateListServedFromCache(t *testing.T) {
	svc, repo, _ := newTemplateFixture(t)
	_, err := svc.Add(context.Background(), domain.CategoryBilling, "返金案内", "ご案内します。")
	require.NoError(t, err)
	repo.listCalls = 0

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	list, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.Len(t, list, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestTemplateAddInvalidatesCache(t *testing.T) {
	svc, _, cache := newTemplateFixture(t)
	_, err := svc.Add(context.Background(), domain.CategoryGeneral, "一次回答", "確認します。")
	require.NoError(t, err)

	_, err = svc.List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, cache.entries)

	_, err = svc.Add(context.Background(), domain.CategoryGeneral, "二次回答", "少々お待ちください。")
	require.NoError(t, err)
	assert.Empty(t, cache.entries)
}

func TestTemplateAddRejectsUnknownCategory(t *testing.T) {
	svc, _, _ := newTemplateFixture(t)
	_, err := svc.Add(context.Background(), domain.Category("spam"), "x", "y")
	require.Error(t, err)

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_ARGUMENT", domainErr.Code)
}

func TestTemplateListByCategory(t *testing.T) {
	svc, _, _ := newTemplateFixture(t)
	_, err := svc.Add(context.Background(), domain.CategoryBilling, "返金案内", "a")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), domain.CategoryTechnical, "障害一次報", "b")
	require.NoError(t, err)

	list, err := svc.ListByCategory(context.Background(), domain.CategoryBilling)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "返金案内", list[0].Name)
}

func TestTemplateApplyFillsPlaceholders(t *testing.T) {
	svc, _, _ := newTemplateFixture(t)
	tpl, err := svc.Add(context.Background(), domain.CategoryBilling, "返金案内",
		"{username} 様\nお問い合わせ番号 {query_id}（{category}）を {date} {time} に承りました。\n{company_name} / {support_email} / {support_phone}")
	require.NoError(t, err)

	ticket := &domain.Ticket{
		ID:       "Q042",
		Author:   "@taro",
		Category: domain.CategoryBilling,
	}
	body, err := svc.Apply(context.Background(), tpl.ID, ticket)
	require.NoError(t, err)

	assert.Contains(t, body, "@taro 様")
	assert.Contains(t, body, "お問い合わせ番号 Q042（請求に関する問い合わせ）")
	assert.Contains(t, body, "2024-05-01 14:30")
	assert.Contains(t, body, "株式会社サンプル / support@example.com / 03-1234-5678")
}

func TestTemplateDeleteUnknownID(t *testing.T) {
	svc, _, _ := newTemplateFixture(t)
	err := svc.Delete(context.Background(), "T999")
	assert.True(t, apperrors.IsNotFound(err))
}
