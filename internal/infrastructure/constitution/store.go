// Package constitution fetches topic relevance prompt templates from a
// remote store, caching them for a configured interval.
package constitution

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"tagline/internal/domain/ports"
	"tagline/internal/infrastructure/config"
	"tagline/internal/infrastructure/httpclient"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Store implements ports.ConstitutionStore over a remote file store laid
// out as <base_url>/topic_relevance_prompts/<topic>_prompt.txt. Prompts
// are cached and refreshed only when older than the update interval; a
// failed refresh with a warm cache serves the stale prompts.
type Store struct {
	baseURL        string
	topics         []string
	updateInterval time.Duration
	http           *httpclient.Client
	logger         *zap.Logger

	mu          sync.RWMutex
	cached      []ports.TopicPrompt
	lastUpdated time.Time
}

// NewStore creates a store for the configured topics.
func NewStore(cfg config.ConstitutionConfig, client *httpclient.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		topics:         cfg.Topics,
		updateInterval: cfg.UpdateInterval(),
		http:           client,
		logger:         logger,
	}
}

// TopicPrompts returns the prompt templates in configured topic order,
// refreshing the cache when it is stale. Concurrent refreshes collapse
// into one fetch behind the write lock.
func (s *Store) TopicPrompts(ctx context.Context) ([]ports.TopicPrompt, error) {
	s.mu.RLock()
	if s.fresh() {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check after acquiring the lock; another caller may have
	// refreshed meanwhile.
	if s.fresh() {
		return s.cached, nil
	}

	prompts, err := s.fetch(ctx)
	if err != nil {
		if s.lastUpdated.IsZero() {
			return nil, fmt.Errorf("fetching topic prompts: %w", err)
		}
		s.logger.Warn("topic prompt refresh failed, serving cached prompts", zap.Error(err))
		return s.cached, nil
	}

	s.cached = prompts
	s.lastUpdated = timeNow()
	s.logger.Info("topic prompts updated", zap.Int("count", len(prompts)))
	return s.cached, nil
}

func (s *Store) fresh() bool {
	return !s.lastUpdated.IsZero() && timeNow().Sub(s.lastUpdated) <= s.updateInterval
}

// fetch downloads every configured topic's prompt. A topic whose prompt
// file is missing is skipped with a warning; other failures abort the
// fetch.
func (s *Store) fetch(ctx context.Context) ([]ports.TopicPrompt, error) {
	prompts := make([]ports.TopicPrompt, 0, len(s.topics))
	for _, topic := range s.topics {
		url := fmt.Sprintf("%s/topic_relevance_prompts/%s_prompt.txt", s.baseURL, topic)

		resp, err := s.http.Request(ctx, http.MethodGet, url, nil, nil)
		if err != nil {
			var statusErr *httpclient.StatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
				s.logger.Warn("no prompt available for topic", zap.String("topic", topic))
				continue
			}
			return nil, fmt.Errorf("fetching prompt for topic %q: %w", topic, err)
		}

		prompts = append(prompts, ports.TopicPrompt{
			Topic:    topic,
			Template: strings.TrimSpace(resp.Text()),
		})
	}
	return prompts, nil
}
