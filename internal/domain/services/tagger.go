package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tagline/internal/domain/entities"
	"tagline/internal/domain/ports"
	"tagline/internal/domain/processing"
)

const taggerName = "topic_tagger"

// contentPlaceholder is the single substitution point every prompt
// template carries for the post content.
const contentPlaceholder = "{tweet_text}"

// TopicTagger tags posts with relevant topics using per-topic LLM
// relevance checks, plus one structural check: Twitter posts quoting the
// announcement account get the sentinel topic appended.
type TopicTagger struct {
	constitution ports.ConstitutionStore
	llm          ports.LLMClient
	discovery    ports.Discovery

	announcementAccountID string
	sentinelTopic         string

	logger *zap.Logger
}

// NewTopicTagger creates a topic tagger. announcementAccountID may be
// empty, which disables the quote-tweet check.
func NewTopicTagger(constitution ports.ConstitutionStore, llm ports.LLMClient, discovery ports.Discovery, announcementAccountID, sentinelTopic string, logger *zap.Logger) *TopicTagger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TopicTagger{
		constitution:          constitution,
		llm:                   llm,
		discovery:             discovery,
		announcementAccountID: announcementAccountID,
		sentinelTopic:         sentinelTopic,
		logger:                logger,
	}
}

// Name identifies the processor in logs and processing notes.
func (t *TopicTagger) Name() string { return taggerName }

// Process tags the post with every relevant topic, in prompt order, with
// the sentinel topic last if its structural check matches. Zero topics is
// an accepted outcome. Only a failure outside the per-topic loop (the
// prompt fetch, or a panic) yields an error result; nothing propagates
// out of Process.
func (t *TopicTagger) Process(ctx context.Context, post *entities.Post) (result processing.Result[*entities.Post]) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("panic while tagging topics",
				zap.String("post_id", post.PostID),
				zap.Any("panic", r),
			)
			result = processing.Errored(taggerName, post, fmt.Sprintf("tagging topics: %v", r))
		}
	}()

	prompts, err := t.constitution.TopicPrompts(ctx)
	if err != nil {
		t.logger.Error("fetching topic prompts failed",
			zap.String("post_id", post.PostID),
			zap.Error(err),
		)
		return processing.Errored(taggerName, post, fmt.Sprintf("tagging topics: %v", err))
	}

	identified := []string{}
	for _, tp := range prompts {
		if t.isRelevant(ctx, post, tp) {
			t.logger.Info("post matches topic",
				zap.String("post_id", post.PostID),
				zap.String("topic", tp.Topic),
			)
			identified = append(identified, tp.Topic)
		} else {
			t.logger.Debug("post does not match topic",
				zap.String("post_id", post.PostID),
				zap.String("topic", tp.Topic),
			)
		}
	}

	if sentinel, ok := t.quoteSentinel(ctx, post); ok {
		t.logger.Info("post quotes the announcement account",
			zap.String("post_id", post.PostID),
			zap.String("topic", sentinel),
		)
		identified = append(identified, sentinel)
	}

	post.Topics = identified

	t.logger.Info("post tagged",
		zap.String("post_id", post.PostID),
		zap.Int("topic_count", len(identified)),
	)
	return processing.Accepted(taggerName, post, map[string]any{
		"topics":      identified,
		"topic_count": len(identified),
	})
}

// isRelevant asks the LLM whether the post is about the topic. The post
// is relevant only when the sanitized, lower-cased output is exactly
// "true"; anything else, including malformed output or a failed query,
// counts as not relevant.
func (t *TopicTagger) isRelevant(ctx context.Context, post *entities.Post, tp ports.TopicPrompt) bool {
	prompt := strings.ReplaceAll(tp.Template, contentPlaceholder, post.Content)

	response, err := t.llm.Query(ctx, prompt, ports.QueryOptions{Temperature: 0.0})
	if err != nil {
		t.logger.Warn("topic relevance query failed",
			zap.String("post_id", post.PostID),
			zap.String("topic", tp.Topic),
			zap.Error(err),
		)
		return false
	}

	verdict := StripReasoning(response)
	return strings.ToLower(strings.TrimSpace(verdict)) == "true"
}

// quoteSentinel runs the structural quote-tweet check. Every failure path
// (missing data, lookup error, account mismatch) resolves to no sentinel;
// it never aborts processing.
func (t *TopicTagger) quoteSentinel(ctx context.Context, post *entities.Post) (string, bool) {
	if t.discovery == nil || t.announcementAccountID == "" || t.sentinelTopic == "" {
		return "", false
	}
	if post.PlatformType != entities.PlatformTwitter {
		return "", false
	}
	quotedID, ok := post.QuotedStatusID()
	if !ok {
		return "", false
	}

	quoted, err := t.discovery.GetPost(ctx, quotedID)
	if err != nil {
		t.logger.Warn("quoted post lookup failed",
			zap.String("post_id", post.PostID),
			zap.String("quoted_status_id", quotedID),
			zap.Error(err),
		)
		return "", false
	}
	if quoted == nil || quoted.AccountID != t.announcementAccountID {
		return "", false
	}
	return t.sentinelTopic, true
}
