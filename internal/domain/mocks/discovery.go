package mocks

import (
	"context"
	"fmt"

	"tagline/internal/domain/entities"
)

// Discovery is a mock implementation of ports.Discovery.
type Discovery struct {
	// Posts maps post IDs to the posts GetPost returns.
	Posts map[string]*entities.Post
	// Err is returned for every lookup when set.
	Err error

	// Requested records every post ID looked up, in order.
	Requested []string
}

// GetPost returns the configured post or error.
func (m *Discovery) GetPost(ctx context.Context, postID string) (*entities.Post, error) {
	m.Requested = append(m.Requested, postID)
	if m.Err != nil {
		return nil, m.Err
	}
	post, ok := m.Posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %s not found", postID)
	}
	return post, nil
}
