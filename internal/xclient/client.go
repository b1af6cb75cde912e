package xclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/saihakukei971/Discord-X-Support-Hub/internal/config"
	"github.com/saihakukei971/Discord-X-Support-Hub/internal/domain"
	apperrors "github.com/saihakukei971/Discord-X-Support-Hub/pkg/util"
)

// Client is a thin wrapper over the X (Twitter) v2 API. All calls go
// through a local rate limiter so a busy cycle cannot trip the remote
// limits.
type Client struct {
	http      *resty.Client
	limiter   *rate.Limiter
	accountID string
	logger    *zap.Logger
}

type tweetPayload struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

type mentionsResponse struct {
	Data []tweetPayload `json:"data"`
}

type userResponse struct {
	Data struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
}

type createTweetRequest struct {
	Text  string `json:"text"`
	Reply *struct {
		InReplyToTweetID string `json:"in_reply_to_tweet_id"`
	} `json:"reply,omitempty"`
}

type createTweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// NewClient configures the API client from env settings.
func NewClient(cfg config.XConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.BearerToken).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	perMin := cfg.RequestsPerMin
	if perMin <= 0 {
		perMin = 60
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin)

	return &Client{
		http:      httpClient,
		limiter:   limiter,
		accountID: cfg.AccountID,
		logger:    logger,
	}
}

// FetchNewMessages returns mentions of the configured account created
// after since.
func (c *Client) FetchNewMessages(ctx context.Context, since time.Time) ([]domain.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var parsed mentionsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"start_time":   since.UTC().Format("2006-01-02T15:04:05Z"),
			"tweet.fields": "created_at,text,author_id,conversation_id",
		}).
		SetResult(&parsed).
		Get(fmt.Sprintf("/users/%s/mentions", c.accountID))
	if err != nil {
		return nil, apperrors.NewTransportError("x api", err)
	}
	if resp.IsError() {
		return nil, apperrors.NewTransportError("x api", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	messages := make([]domain.RawMessage, 0, len(parsed.Data))
	for _, tweet := range parsed.Data {
		messages = append(messages, domain.RawMessage{
			ID:        tweet.ID,
			AuthorID:  tweet.AuthorID,
			Text:      tweet.Text,
			CreatedAt: tweet.CreatedAt,
		})
	}
	c.logger.Debug("fetched mentions", zap.Int("count", len(messages)))
	return messages, nil
}

// ResolveAuthor looks up the profile behind an author id.
func (c *Client) ResolveAuthor(ctx context.Context, authorID string) (domain.AuthorProfile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.AuthorProfile{}, err
	}

	var parsed userResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&parsed).
		Get(fmt.Sprintf("/users/%s", authorID))
	if err != nil {
		return domain.AuthorProfile{}, apperrors.NewTransportError("x api", err)
	}
	if resp.IsError() {
		return domain.AuthorProfile{}, apperrors.NewTransportError("x api", fmt.Errorf("status %d", resp.StatusCode()))
	}

	return domain.AuthorProfile{
		ID:          parsed.Data.ID,
		Username:    parsed.Data.Username,
		DisplayName: parsed.Data.Name,
	}, nil
}

// Reply posts text as a reply to the given tweet and returns the new
// tweet id.
func (c *Client) Reply(ctx context.Context, tweetID, text string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body := createTweetRequest{Text: text}
	body.Reply = &struct {
		InReplyToTweetID string `json:"in_reply_to_tweet_id"`
	}{InReplyToTweetID: tweetID}

	var parsed createTweetResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&parsed).
		Post("/tweets")
	if err != nil {
		return "", apperrors.NewTransportError("x api", err)
	}
	if resp.IsError() {
		return "", apperrors.NewTransportError("x api", fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()))
	}

	c.logger.Info("replied on x", zap.String("in_reply_to", tweetID), zap.String("tweet_id", parsed.Data.ID))
	return parsed.Data.ID, nil
}
