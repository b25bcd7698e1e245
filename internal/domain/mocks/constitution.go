package mocks

import (
	"context"

	"tagline/internal/domain/ports"
)

// ConstitutionStore is a mock implementation of ports.ConstitutionStore.
type ConstitutionStore struct {
	// Prompts are returned from TopicPrompts in order.
	Prompts []ports.TopicPrompt
	// Err is returned when set.
	Err error

	// Calls counts TopicPrompts invocations.
	Calls int
}

// TopicPrompts returns the configured prompts or error.
func (m *ConstitutionStore) TopicPrompts(ctx context.Context) ([]ports.TopicPrompt, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Prompts, nil
}
