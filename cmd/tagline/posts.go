package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tagline/internal/domain/entities"
)

var validStatuses = []string{"new", "processed", "rejected"}

func newPostsCmd() *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List stored posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidStatus(status) {
				return fmt.Errorf("invalid status %q, valid statuses: %v", status, validStatuses)
			}
			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				return runPosts(ctx, d, cmd.OutOrStdout(), entities.ProcessingStatus(status), limit)
			})
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "processed", "Filter by processing status (new, processed, rejected)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of posts")

	return cmd
}

func runPosts(ctx context.Context, d *Deps, out io.Writer, status entities.ProcessingStatus, limit int) error {
	posts, err := d.Repo.ListPostsByStatus(ctx, status, limit)
	if err != nil {
		return fmt.Errorf("listing posts: %w", err)
	}

	if len(posts) == 0 {
		fmt.Fprintln(out, "No posts found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d posts:\n\n", len(posts))
	for i, post := range posts {
		topics := "-"
		if len(post.Topics) > 0 {
			topics = strings.Join(post.Topics, ", ")
		}
		fmt.Fprintf(out, "%d. [%s] %s\n", i+1, post.PlatformType, post.PostID)
		fmt.Fprintf(out, "   Topics: %s\n", topics)
		if post.ProcessingNote != "" {
			fmt.Fprintf(out, "   Note: %s\n", post.ProcessingNote)
		}
		fmt.Fprintln(out)
	}

	return nil
}

func isValidStatus(s string) bool {
	for _, valid := range validStatuses {
		if s == valid {
			return true
		}
	}
	return false
}
