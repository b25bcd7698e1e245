package ports

import (
	"context"

	"tagline/internal/domain/entities"
)

// Discovery looks up posts on a social platform.
type Discovery interface {
	// GetPost fetches a post by its platform ID. Returns an error on
	// lookup failure (network, not found).
	GetPost(ctx context.Context, postID string) (*entities.Post, error)
}
