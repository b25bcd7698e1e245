// Package sqlite provides a SQLite implementation of the PostRepository
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"tagline/internal/domain/entities"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.PostRepository using SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite repository at the given path.
func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Posts and their processing outcomes
	CREATE TABLE IF NOT EXISTS posts (
		platform_type TEXT NOT NULL,
		post_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		content TEXT NOT NULL,
		topics TEXT NOT NULL DEFAULT '[]',
		extra_data TEXT NOT NULL DEFAULT '{}',
		processing_status TEXT NOT NULL DEFAULT 'new',
		processing_note TEXT,
		created_at TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (platform_type, post_id)
	);
	CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(processing_status);
	CREATE INDEX IF NOT EXISTS idx_posts_updated ON posts(updated_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SavePost inserts or updates a post keyed by (platform_type, post_id).
func (r *Repository) SavePost(ctx context.Context, post *entities.Post) error {
	topics, err := json.Marshal(post.Topics)
	if err != nil {
		return fmt.Errorf("marshaling topics: %w", err)
	}
	extraData, err := json.Marshal(post.ExtraData)
	if err != nil {
		return fmt.Errorf("marshaling extra data: %w", err)
	}

	query := `
		INSERT INTO posts (platform_type, post_id, account_id, content, topics, extra_data, processing_status, processing_note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(platform_type, post_id) DO UPDATE SET
			account_id = excluded.account_id,
			content = excluded.content,
			topics = excluded.topics,
			extra_data = excluded.extra_data,
			processing_status = excluded.processing_status,
			processing_note = excluded.processing_note,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		post.PlatformType,
		post.PostID,
		post.AccountID,
		post.Content,
		string(topics),
		string(extraData),
		post.ProcessingStatus,
		post.ProcessingNote,
		post.CreatedAt,
		timeNow(),
	)
	if err != nil {
		return fmt.Errorf("saving post: %w", err)
	}
	return nil
}

// GetPost fetches a stored post by platform and platform ID.
func (r *Repository) GetPost(ctx context.Context, platform entities.PlatformType, postID string) (*entities.Post, error) {
	query := `
		SELECT platform_type, post_id, account_id, content, topics, extra_data, processing_status, processing_note, created_at, updated_at
		FROM posts
		WHERE platform_type = ? AND post_id = ?
	`
	row := r.db.QueryRowContext(ctx, query, platform, postID)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}
	return post, nil
}

// ListPostsByStatus lists stored posts with the given processing status,
// most recently updated first.
func (r *Repository) ListPostsByStatus(ctx context.Context, status entities.ProcessingStatus, limit int) ([]*entities.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT platform_type, post_id, account_id, content, topics, extra_data, processing_status, processing_note, created_at, updated_at
		FROM posts
		WHERE processing_status = ?
		ORDER BY updated_at DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []*entities.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}
	return posts, nil
}

// scanner abstracts sql.Row and sql.Rows for scanPost.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*entities.Post, error) {
	var (
		post      entities.Post
		topics    string
		extraData string
		note      sql.NullString
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)
	err := s.Scan(
		&post.PlatformType,
		&post.PostID,
		&post.AccountID,
		&post.Content,
		&topics,
		&extraData,
		&post.ProcessingStatus,
		&note,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(topics), &post.Topics); err != nil {
		return nil, fmt.Errorf("unmarshaling topics: %w", err)
	}
	if err := json.Unmarshal([]byte(extraData), &post.ExtraData); err != nil {
		return nil, fmt.Errorf("unmarshaling extra data: %w", err)
	}
	post.ProcessingNote = note.String
	post.CreatedAt = createdAt.Time
	post.UpdatedAt = updatedAt.Time
	return &post, nil
}
