// Package chute provides the LLM completion service backed by a
// chat-completions endpoint, with a process-wide singleton lifecycle.
package chute

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"tagline/internal/domain/ports"
	"tagline/internal/infrastructure/config"
	"tagline/internal/infrastructure/httpclient"
)

const (
	defaultModel     = "Qwen/Qwen3-8B"
	defaultMaxTokens = 1024
	defaultTopP      = 0.5
)

// chatRequest is the request body for the chat-completions endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the response body this service reads.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Service implements ports.LLMClient against the configured endpoint.
// It is immutable after construction and safe for concurrent use.
type Service struct {
	url       string
	apiKey    string
	model     string
	maxTokens int
	http      *httpclient.Client
	logger    *zap.Logger
}

var (
	instanceMu sync.Mutex
	instance   *Service
)

// newService builds a Service (var so tests can observe construction).
var newService = NewService

// Instance returns the process-wide Service, constructing it on first
// call. Construction runs exactly once under a lock; concurrent callers
// block until the instance is published, then reuse it. Arguments of
// later calls are ignored. There is no teardown.
func Instance(cfg config.LLMConfig, client *httpclient.Client, logger *zap.Logger) (*Service, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance != nil {
		return instance, nil
	}
	svc, err := newService(cfg, client, logger)
	if err != nil {
		return nil, err
	}
	instance = svc
	svc.logger.Info("llm service initialized", zap.String("model", svc.model))
	return instance, nil
}

// NewService creates an unshared Service. Most callers want Instance.
func NewService(cfg config.LLMConfig, client *httpclient.Client, logger *zap.Logger) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key is required")
	}
	if cfg.URL == "" {
		return nil, errors.New("llm endpoint url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Service{
		url:       cfg.URL,
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		http:      client,
		logger:    logger,
	}, nil
}

// Query sends a single-turn prompt and returns the generated text. The
// credential in opts is accepted for transports that sign requests; this
// endpoint authenticates with the bearer token alone. Transport failures
// propagate unchanged from the retry client.
func (s *Service) Query(ctx context.Context, prompt string, opts ports.QueryOptions) (string, error) {
	if prompt == "" {
		return "", errors.New("prompt is required")
	}

	model := opts.Model
	if model == "" {
		model = s.model
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.maxTokens
	}
	topP := opts.TopP
	if topP == 0 {
		topP = defaultTopP
	}

	payload := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Stream:      false,
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
		TopP:        topP,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + s.apiKey,
		"Content-Type":  "application/json",
	}

	s.logger.Debug("sending payload to llm", zap.ByteString("payload", body))

	resp, err := s.http.Request(ctx, http.MethodPost, s.url, headers, body)
	if err != nil {
		return "", err
	}

	s.logger.Debug("received raw response from llm", zap.ByteString("response", resp.Body))

	var parsed chatResponse
	if err := resp.DecodeJSON(&parsed); err != nil {
		return "", fmt.Errorf("parsing llm response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("no completion choices in llm response")
	}

	s.logger.Info("received response from llm", zap.String("model", model))
	return parsed.Choices[0].Message.Content, nil
}
