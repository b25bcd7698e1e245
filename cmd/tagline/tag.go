package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tagline/internal/domain/entities"
	"tagline/internal/domain/processing"
)

func newTagCmd() *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "tag [post-id]",
		Short: "Tag a post with relevant topics",
		Long: "Fetches the post via the discovery endpoint, runs the topic tagging " +
			"pipeline, and stores the result. With --content, tags ad-hoc text " +
			"without fetching or storing anything.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if content == "" && len(args) == 0 {
				return errors.New("provide a post ID or --content")
			}
			return withDeps(cmd.Context(), func(ctx context.Context, d *Deps) error {
				if content != "" {
					return runTagContent(ctx, d, cmd.OutOrStdout(), content)
				}
				return runTagPost(ctx, d, cmd.OutOrStdout(), args[0])
			})
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "Tag ad-hoc content instead of fetching a post")

	return cmd
}

func runTagPost(ctx context.Context, d *Deps, out io.Writer, postID string) error {
	if d.Discovery == nil {
		return errors.New("no discovery endpoint configured (set discovery.base_url)")
	}

	post, err := d.Discovery.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("fetching post %s: %w", postID, err)
	}

	result := d.Pipeline.Run(ctx, post)

	if err := d.Repo.SavePost(ctx, result.Output); err != nil {
		return fmt.Errorf("storing post %s: %w", postID, err)
	}

	printResult(out, result)
	return nil
}

func runTagContent(ctx context.Context, d *Deps, out io.Writer, content string) error {
	post := &entities.Post{
		PostID:           uuid.NewString(),
		PlatformType:     entities.PlatformTwitter,
		Content:          content,
		ProcessingStatus: entities.ProcessingStatusNew,
		CreatedAt:        time.Now(),
	}

	printResult(out, d.Pipeline.Run(ctx, post))
	return nil
}

func printResult(out io.Writer, result processing.Result[*entities.Post]) {
	post := result.Output
	if result.Status == processing.StatusError {
		fmt.Fprintf(out, "Post %s rejected: %s\n", post.PostID, result.Reason)
		return
	}

	if len(post.Topics) == 0 {
		fmt.Fprintf(out, "Post %s matched no topics.\n", post.PostID)
		return
	}
	fmt.Fprintf(out, "Post %s tagged with %d topics: %s\n", post.PostID, len(post.Topics), strings.Join(post.Topics, ", "))
}
