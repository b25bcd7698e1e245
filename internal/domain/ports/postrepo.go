package ports

import (
	"context"

	"tagline/internal/domain/entities"
)

// PostRepository persists posts and their processing outcomes.
type PostRepository interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// SavePost inserts or updates a post keyed by (platform_type, post_id).
	SavePost(ctx context.Context, post *entities.Post) error

	// GetPost fetches a stored post by platform and platform ID.
	// Returns nil without error when the post is not stored.
	GetPost(ctx context.Context, platform entities.PlatformType, postID string) (*entities.Post, error)

	// ListPostsByStatus lists stored posts with the given processing
	// status, most recently updated first.
	ListPostsByStatus(ctx context.Context, status entities.ProcessingStatus, limit int) ([]*entities.Post, error)

	// Close closes the underlying connection.
	Close() error
}
