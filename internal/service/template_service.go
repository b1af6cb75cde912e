package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/config"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/repository"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

const templateCacheKey = "support-hub:templates"

// TemplateCache is a freshness-bounded cache for the full template list.
type TemplateCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// RedisTemplateCache backs TemplateCache with Redis. Cache failures are
// treated as misses so the service falls back to storage.
type RedisTemplateCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTemplateCache constructs the cache.
func NewRedisTemplateCache(client *redis.Client, logger *zap.Logger) *RedisTemplateCache {
	return &RedisTemplateCache{client: client, logger: logger}
}

func (c *RedisTemplateCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("template cache read failed", zap.Error(err))
		}
		return "", false
	}
	return val, true
}

func (c *RedisTemplateCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("template cache write failed", zap.Error(err))
	}
}

func (c *RedisTemplateCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("template cache invalidation failed", zap.Error(err))
	}
}

// TemplateService serves reply templates through a read-through cache and
// fills template placeholders from ticket data.
type TemplateService struct {
	templates repository.TemplateRepository
	cache     TemplateCache
	support   config.SupportConfig
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewTemplateService constructs the service.
func NewTemplateService(templates repository.TemplateRepository, cache TemplateCache, support config.SupportConfig, ttl time.Duration, logger *zap.Logger) *TemplateService {
	return &TemplateService{
		templates: templates,
		cache:     cache,
		support:   support,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns all templates, served from cache while fresh.
func (s *TemplateService) List(ctx context.Context) ([]domain.Template, error) {
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, templateCacheKey); ok {
			var cached []domain.Template
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			s.cache.Delete(ctx, templateCacheKey)
		}
	}

	list, err := s.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if raw, err := json.Marshal(list); err == nil {
			s.cache.Set(ctx, templateCacheKey, string(raw), s.ttl)
		}
	}
	return list, nil
}

// ListByCategory filters the template list to one category.
func (s *TemplateService) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Template, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var result []domain.Template
	for _, tpl := range all {
		if tpl.Category == category {
			result = append(result, tpl)
		}
	}
	return result, nil
}

// Get returns a single template by id, served through the cached list.
func (s *TemplateService) Get(ctx context.Context, id string) (*domain.Template, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, apperrors.NewNotFound("template", map[string]any{"id": id})
}

// Add appends a template and returns its assigned T-id.
func (s *TemplateService) Add(ctx context.Context, category domain.Category, name, body string) (*domain.Template, error) {
	if !domain.IsValidCategory(category) {
		return nil, apperrors.NewInvalidArgument("invalid category", map[string]any{"category": string(category)})
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("template name and body required", nil)
	}

	tpl := &domain.Template{Category: category, Name: name, Body: body}
	if _, err := s.templates.Append(ctx, tpl); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return tpl, nil
}

// Delete removes a template by id.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("template", map[string]any{"id": id})
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Apply fills the template's placeholders from the ticket and the support
// desk configuration.
func (s *TemplateService) Apply(ctx context.Context, templateID string, ticket *domain.Ticket) (string, error) {
	tpl, err := s.Get(ctx, templateID)
	if err != nil {
		return "", err
	}

	now := s.now()
	replacer := strings.NewReplacer(
		"{username}", ticket.Author,
		"{query_id}", ticket.ID,
		"{category}", domain.CategoryLabels[ticket.Category],
		"{timestamp}", now.Format("2006-01-02 15:04:05"),
		"{date}", now.Format("2006-01-02"),
		"{time}", now.Format("15:04"),
		"{company_name}", s.support.CompanyName,
		"{support_email}", s.support.Email,
		"{support_phone}", s.support.Phone,
	)
	return replacer.Replace(tpl.Body), nil
}

func (s *TemplateService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Delete(ctx, templateCacheKey)
	}
}
