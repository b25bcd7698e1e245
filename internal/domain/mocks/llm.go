// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"tagline/internal/domain/ports"
)

// LLMClient is a mock implementation of ports.LLMClient. Responses are
// served per prompt via Respond; unmatched prompts fall back to Response.
type LLMClient struct {
	// Response is returned for any prompt not handled by Respond.
	Response string
	// Respond, if set, maps a prompt to its response.
	Respond map[string]string
	// Err is returned for every query when set.
	Err error

	// Prompts records every prompt queried, in order.
	Prompts []string
	// Opts records the options of every query, in order.
	Opts []ports.QueryOptions
}

// Query returns the configured response or error.
func (m *LLMClient) Query(ctx context.Context, prompt string, opts ports.QueryOptions) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	m.Opts = append(m.Opts, opts)
	if m.Err != nil {
		return "", m.Err
	}
	if resp, ok := m.Respond[prompt]; ok {
		return resp, nil
	}
	return m.Response, nil
}
