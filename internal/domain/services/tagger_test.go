package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagline/internal/domain/entities"
	"tagline/internal/domain/mocks"
	"tagline/internal/domain/ports"
	"tagline/internal/domain/processing"
)

const (
	testAnnouncementAccount = "acct-announce"
	testSentinelTopic       = "announcement"
)

func testPost() *entities.Post {
	return &entities.Post{
		PostID:       "post-1",
		PlatformType: entities.PlatformTwitter,
		AccountID:    "acct-1",
		Content:      "some post content",
	}
}

func promptFor(topic string) string {
	return "Is this post about " + topic + "? {tweet_text}"
}

func renderedPrompt(topic, content string) string {
	return "Is this post about " + topic + "? " + content
}

func TestTopicTagger_AggregationOrder(t *testing.T) {
	post := testPost()
	store := &mocks.ConstitutionStore{
		Prompts: []ports.TopicPrompt{
			{Topic: "A", Template: promptFor("A")},
			{Topic: "B", Template: promptFor("B")},
			{Topic: "C", Template: promptFor("C")},
		},
	}
	llm := &mocks.LLMClient{
		Respond: map[string]string{
			renderedPrompt("A", post.Content): "true",
			renderedPrompt("B", post.Content): "false",
			renderedPrompt("C", post.Content): "true",
		},
	}

	tagger := NewTopicTagger(store, llm, nil, "", "", nil)
	result := tagger.Process(context.Background(), post)

	require.Equal(t, processing.StatusAccepted, result.Status)
	assert.Equal(t, []string{"A", "C"}, result.Output.Topics)
	assert.Equal(t, 2, result.Details["topic_count"])
}

func TestTopicTagger_VerdictExactness(t *testing.T) {
	tests := []struct {
		name     string
		response string
		relevant bool
	}{
		{name: "exact true", response: "true", relevant: true},
		{name: "capitalized", response: "True", relevant: true},
		{name: "padded", response: " true ", relevant: true},
		{name: "uppercase", response: "TRUE", relevant: true},
		{name: "with reasoning", response: "<think>because...</think>true", relevant: true},
		{name: "false", response: "false", relevant: false},
		{name: "free text", response: "maybe", relevant: false},
		{name: "empty", response: "", relevant: false},
		{name: "true with trailing prose", response: "true, definitely", relevant: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := testPost()
			store := &mocks.ConstitutionStore{
				Prompts: []ports.TopicPrompt{{Topic: "sports", Template: promptFor("sports")}},
			}
			llm := &mocks.LLMClient{Response: tt.response}

			tagger := NewTopicTagger(store, llm, nil, "", "", nil)
			result := tagger.Process(context.Background(), post)

			require.Equal(t, processing.StatusAccepted, result.Status)
			if tt.relevant {
				assert.Equal(t, []string{"sports"}, result.Output.Topics)
			} else {
				assert.Empty(t, result.Output.Topics)
			}
		})
	}
}

func TestTopicTagger_QueriesUseDeterministicTemperature(t *testing.T) {
	store := &mocks.ConstitutionStore{
		Prompts: []ports.TopicPrompt{{Topic: "a", Template: promptFor("a")}},
	}
	llm := &mocks.LLMClient{Response: "false"}

	tagger := NewTopicTagger(store, llm, nil, "", "", nil)
	tagger.Process(context.Background(), testPost())

	require.Len(t, llm.Opts, 1)
	assert.Zero(t, llm.Opts[0].Temperature)
}

func TestTopicTagger_EmptyMapping(t *testing.T) {
	store := &mocks.ConstitutionStore{}
	llm := &mocks.LLMClient{Response: "true"}

	tagger := NewTopicTagger(store, llm, nil, "", "", nil)
	result := tagger.Process(context.Background(), testPost())

	require.Equal(t, processing.StatusAccepted, result.Status)
	assert.Empty(t, result.Output.Topics)
	assert.NotNil(t, result.Output.Topics)
	assert.Empty(t, llm.Prompts, "no LLM calls expected for an empty mapping")
}

func TestTopicTagger_PromptFetchFailure(t *testing.T) {
	post := testPost()
	store := &mocks.ConstitutionStore{Err: errors.New("store unreachable")}
	llm := &mocks.LLMClient{Response: "true"}

	tagger := NewTopicTagger(store, llm, nil, "", "", nil)
	result := tagger.Process(context.Background(), post)

	require.Equal(t, processing.StatusError, result.Status)
	assert.NotEmpty(t, result.Reason)
	assert.Contains(t, result.Reason, "store unreachable")
	assert.Same(t, post, result.Output)
	assert.Nil(t, post.Topics, "post must not be mutated on error")
}

func TestTopicTagger_QueryFailureIsNotRelevant(t *testing.T) {
	store := &mocks.ConstitutionStore{
		Prompts: []ports.TopicPrompt{{Topic: "a", Template: promptFor("a")}},
	}
	llm := &mocks.LLMClient{Err: errors.New("endpoint down")}

	tagger := NewTopicTagger(store, llm, nil, "", "", nil)
	result := tagger.Process(context.Background(), testPost())

	require.Equal(t, processing.StatusAccepted, result.Status)
	assert.Empty(t, result.Output.Topics)
}

func quotePost(quotedID string) *entities.Post {
	post := testPost()
	post.ExtraData = map[string]any{
		entities.ExtraKeyIsQuoteTweet:   true,
		entities.ExtraKeyQuotedStatusID: quotedID,
	}
	return post
}

func TestTopicTagger_SentinelAppendedLast(t *testing.T) {
	post := quotePost("quoted-1")
	store := &mocks.ConstitutionStore{
		Prompts: []ports.TopicPrompt{{Topic: "A", Template: promptFor("A")}},
	}
	llm := &mocks.LLMClient{Response: "true"}
	discovery := &mocks.Discovery{
		Posts: map[string]*entities.Post{
			"quoted-1": {PostID: "quoted-1", AccountID: testAnnouncementAccount},
		},
	}

	tagger := NewTopicTagger(store, llm, discovery, testAnnouncementAccount, testSentinelTopic, nil)
	result := tagger.Process(context.Background(), post)

	require.Equal(t, processing.StatusAccepted, result.Status)
	assert.Equal(t, []string{"A", testSentinelTopic}, result.Output.Topics)
	assert.Equal(t, []string{"quoted-1"}, discovery.Requested)
}

func TestTopicTagger_SentinelAccountMismatch(t *testing.T) {
	post := quotePost("quoted-1")
	store := &mocks.ConstitutionStore{}
	discovery := &mocks.Discovery{
		Posts: map[string]*entities.Post{
			"quoted-1": {PostID: "quoted-1", AccountID: "someone-else"},
		},
	}

	tagger := NewTopicTagger(store, &mocks.LLMClient{}, discovery, testAnnouncementAccount, testSentinelTopic, nil)
	result := tagger.Process(context.Background(), post)

	require.Equal(t, processing.StatusAccepted, result.Status)
	assert.Empty(t, result.Output.Topics)
}

func TestTopicTagger_SentinelLookupFailureIsContained(t *testing.T) {
	post := quotePost("quoted-1")
	store := &mocks.ConstitutionStore{
		Prompts: []ports.TopicPrompt{{Topic: "A", Template: promptFor("A")}},
	}
	llm := &mocks.LLMClient{Response: "true"}
	discovery := &mocks.Discovery{Err: errors.New("lookup failed")}

	tagger := NewTopicTagger(store, llm, discovery, testAnnouncementAccount, testSentinelTopic, nil)
	result := tagger.Process(context.Background(), post)

	require.Equal(t, processing.StatusAccepted, result.Status)
	assert.Equal(t, []string{"A"}, result.Output.Topics, "topics already determined must survive a lookup failure")
}

func TestTopicTagger_SentinelSkippedCases(t *testing.T) {
	discovery := &mocks.Discovery{
		Posts: map[string]*entities.Post{
			"quoted-1": {PostID: "quoted-1", AccountID: testAnnouncementAccount},
		},
	}

	tests := []struct {
		name string
		post *entities.Post
	}{
		{
			name: "no quote data",
			post: testPost(),
		},
		{
			name: "quote flag without target id",
			post: func() *entities.Post {
				p := testPost()
				p.ExtraData = map[string]any{entities.ExtraKeyIsQuoteTweet: true}
				return p
			}(),
		},
		{
			name: "quote flag false",
			post: func() *entities.Post {
				p := testPost()
				p.ExtraData = map[string]any{
					entities.ExtraKeyIsQuoteTweet:   false,
					entities.ExtraKeyQuotedStatusID: "quoted-1",
				}
				return p
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tagger := NewTopicTagger(&mocks.ConstitutionStore{}, &mocks.LLMClient{}, discovery, testAnnouncementAccount, testSentinelTopic, nil)
			result := tagger.Process(context.Background(), tt.post)

			require.Equal(t, processing.StatusAccepted, result.Status)
			assert.Empty(t, result.Output.Topics)
			assert.Empty(t, discovery.Requested)
		})
	}
}

func TestTopicTagger_SentinelDisabledWithoutAccount(t *testing.T) {
	post := quotePost("quoted-1")
	discovery := &mocks.Discovery{
		Posts: map[string]*entities.Post{
			"quoted-1": {PostID: "quoted-1", AccountID: testAnnouncementAccount},
		},
	}

	tagger := NewTopicTagger(&mocks.ConstitutionStore{}, &mocks.LLMClient{}, discovery, "", testSentinelTopic, nil)
	result := tagger.Process(context.Background(), post)

	require.Equal(t, processing.StatusAccepted, result.Status)
	assert.Empty(t, result.Output.Topics)
	assert.Empty(t, discovery.Requested)
}
