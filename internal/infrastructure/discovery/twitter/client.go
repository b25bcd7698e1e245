// Package twitter provides a Discovery implementation over a
// Twitter-API-shaped HTTP endpoint.
package twitter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tagline/internal/domain/entities"
	"tagline/internal/infrastructure/config"
	"tagline/internal/infrastructure/httpclient"
)

// createdAtLayout is the timestamp format tweets carry.
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Client implements ports.Discovery against the configured tweet API.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	logger  *zap.Logger
}

// NewClient creates a discovery client.
func NewClient(cfg config.DiscoveryConfig, client *httpclient.Client, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("discovery base url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    client,
		logger:  logger,
	}, nil
}

// tweet is the subset of the platform's tweet object this client reads.
type tweet struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	CreatedAt      string `json:"created_at"`
	IsQuoteTweet   bool   `json:"is_quote_tweet"`
	QuotedStatusID string `json:"quoted_status_id"`
	User           struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

// GetPost fetches a tweet by ID and converts it to a domain post.
func (c *Client) GetPost(ctx context.Context, postID string) (*entities.Post, error) {
	url := fmt.Sprintf("%s/tweets/%s", c.baseURL, postID)
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	resp, err := c.http.Request(ctx, http.MethodGet, url, headers, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching post %s: %w", postID, err)
	}

	var tw tweet
	if err := resp.DecodeJSON(&tw); err != nil {
		return nil, fmt.Errorf("parsing post %s: %w", postID, err)
	}

	c.logger.Debug("fetched post",
		zap.String("post_id", tw.ID),
		zap.String("username", tw.User.Username),
	)
	return tweetToPost(&tw), nil
}

// tweetToPost converts the platform's tweet object into a domain post.
func tweetToPost(tw *tweet) *entities.Post {
	extra := map[string]any{}
	if tw.IsQuoteTweet {
		extra[entities.ExtraKeyIsQuoteTweet] = true
		extra[entities.ExtraKeyQuotedStatusID] = tw.QuotedStatusID
	}

	createdAt, err := time.Parse(createdAtLayout, tw.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}

	return &entities.Post{
		PostID:           tw.ID,
		PlatformType:     entities.PlatformTwitter,
		AccountID:        tw.User.ID,
		Content:          tw.Text,
		ExtraData:        extra,
		ProcessingStatus: entities.ProcessingStatusNew,
		CreatedAt:        createdAt,
	}
}
