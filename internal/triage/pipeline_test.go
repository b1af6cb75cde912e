package triage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
)

type fakeResolver struct {
	profile domain.AuthorProfile
	err     error
	calls   int
}

func (f *fakeResolver) ResolveAuthor(ctx context.Context, authorID string) (domain.AuthorProfile, error) {
	f.calls++
	return f.profile, f.err
}

func TestPipelineTriage(t *testing.T) {
	resolver := &fakeResolver{profile: domain.AuthorProfile{ID: "42", Username: "taro"}}
	p := NewPipeline(newTestClassifier(t), resolver, zap.NewNop(), nil)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ticket := p.Triage(context.Background(), domain.RawMessage{
		ID:        "111",
		AuthorID:  "42",
		Text:      "製品の使い方がわかりません",
		CreatedAt: created,
	})

	require.NotNil(t, ticket)
	assert.Equal(t, "@taro", ticket.Author)
	assert.Equal(t, domain.CategoryProduct, ticket.Category)
	assert.Equal(t, domain.TicketStatusUnassigned, ticket.Status)
	assert.Equal(t, created, ticket.ReceivedAt)
	assert.Equal(t, domain.PlatformX, ticket.Platform)
	assert.Equal(t, "https://twitter.com/user/status/111", ticket.SourceURL)
	assert.Nil(t, ticket.Assignee)
	assert.Nil(t, ticket.Response)
	assert.Nil(t, ticket.ResolvedAt)
}

func TestPipelineTriageNeverFails(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("api down")}
	fixed := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	p := NewPipeline(newTestClassifier(t), resolver, zap.NewNop(), func() time.Time { return fixed })

	ticket := p.Triage(context.Background(), domain.RawMessage{ID: "7", AuthorID: "9", Text: ""})

	require.NotNil(t, ticket)
	assert.Equal(t, "unknown user", ticket.Author)
	assert.Equal(t, domain.CategoryGeneral, ticket.Category)
	assert.Equal(t, fixed, ticket.ReceivedAt)
}

func TestPipelineTriageWithoutResolver(t *testing.T) {
	p := NewPipeline(newTestClassifier(t), nil, zap.NewNop(), nil)
	ticket := p.Triage(context.Background(), domain.RawMessage{Text: "hello"})
	require.NotNil(t, ticket)
	assert.Equal(t, "unknown user", ticket.Author)
}
