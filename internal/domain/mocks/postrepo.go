package mocks

import (
	"context"

	"tagline/internal/domain/entities"
)

// PostRepository is an in-memory mock of ports.PostRepository.
type PostRepository struct {
	// Saved holds every post passed to SavePost, in order.
	Saved []*entities.Post
	// SaveErr is returned from SavePost when set.
	SaveErr error
	// GetErr is returned from GetPost when set.
	GetErr error
}

// EnsureSchema is a no-op.
func (m *PostRepository) EnsureSchema(ctx context.Context) error { return nil }

// SavePost records the post or returns the configured error.
func (m *PostRepository) SavePost(ctx context.Context, post *entities.Post) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, post)
	return nil
}

// GetPost returns the last saved post with a matching key.
func (m *PostRepository) GetPost(ctx context.Context, platform entities.PlatformType, postID string) (*entities.Post, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for i := len(m.Saved) - 1; i >= 0; i-- {
		if m.Saved[i].PlatformType == platform && m.Saved[i].PostID == postID {
			return m.Saved[i], nil
		}
	}
	return nil, nil
}

// ListPostsByStatus returns saved posts with the given status.
func (m *PostRepository) ListPostsByStatus(ctx context.Context, status entities.ProcessingStatus, limit int) ([]*entities.Post, error) {
	var out []*entities.Post
	for _, p := range m.Saved {
		if p.ProcessingStatus == status {
			out = append(out, p)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Close is a no-op.
func (m *PostRepository) Close() error { return nil }
