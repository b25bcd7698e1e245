package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagline/internal/domain/entities"
	"tagline/internal/domain/mocks"
	"tagline/internal/domain/ports"
	"tagline/internal/domain/processing"
	"tagline/internal/domain/services"
)

func taggingDeps(store *mocks.ConstitutionStore, llm *mocks.LLMClient) *Deps {
	tagger := services.NewTopicTagger(store, llm, nil, "", "", nil)
	return &Deps{Pipeline: processing.NewPipeline(nil, tagger)}
}

func TestRunTagPost(t *testing.T) {
	store := &mocks.ConstitutionStore{Prompts: []ports.TopicPrompt{
		{Topic: "golang", Template: "Is this post about golang? {tweet_text}"},
	}}
	llm := &mocks.LLMClient{Response: "true"}
	discovery := &mocks.Discovery{Posts: map[string]*entities.Post{
		"42": {
			PostID:           "42",
			PlatformType:     entities.PlatformTwitter,
			AccountID:        "acct-1",
			Content:          "generics landed",
			ProcessingStatus: entities.ProcessingStatusNew,
		},
	}}
	repo := &mocks.PostRepository{}

	d := taggingDeps(store, llm)
	d.Discovery = discovery
	d.Repo = repo

	var buf bytes.Buffer
	err := runTagPost(context.Background(), d, &buf, "42")
	require.NoError(t, err)

	assert.Equal(t, []string{"42"}, discovery.Requested)
	require.Len(t, repo.Saved, 1)
	assert.Equal(t, entities.ProcessingStatusProcessed, repo.Saved[0].ProcessingStatus)
	assert.Equal(t, []string{"golang"}, repo.Saved[0].Topics)
	assert.Contains(t, buf.String(), "Post 42 tagged with 1 topics: golang")
}

func TestRunTagPost_NoDiscoveryConfigured(t *testing.T) {
	d := taggingDeps(&mocks.ConstitutionStore{}, &mocks.LLMClient{})
	d.Repo = &mocks.PostRepository{}

	var buf bytes.Buffer
	err := runTagPost(context.Background(), d, &buf, "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no discovery endpoint configured")
}

func TestRunTagPost_FetchFailure(t *testing.T) {
	repo := &mocks.PostRepository{}

	d := taggingDeps(&mocks.ConstitutionStore{}, &mocks.LLMClient{})
	d.Discovery = &mocks.Discovery{Err: errors.New("api down")}
	d.Repo = repo

	var buf bytes.Buffer
	err := runTagPost(context.Background(), d, &buf, "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching post 42")
	assert.Empty(t, repo.Saved)
}

func TestRunTagPost_StoresRejectedPost(t *testing.T) {
	store := &mocks.ConstitutionStore{Err: errors.New("store unreachable")}
	discovery := &mocks.Discovery{Posts: map[string]*entities.Post{
		"42": {PostID: "42", PlatformType: entities.PlatformTwitter},
	}}
	repo := &mocks.PostRepository{}

	d := taggingDeps(store, &mocks.LLMClient{})
	d.Discovery = discovery
	d.Repo = repo

	var buf bytes.Buffer
	err := runTagPost(context.Background(), d, &buf, "42")
	require.NoError(t, err)

	require.Len(t, repo.Saved, 1)
	assert.Equal(t, entities.ProcessingStatusRejected, repo.Saved[0].ProcessingStatus)
	assert.Contains(t, buf.String(), "Post 42 rejected:")
}

func TestRunTagPost_SaveFailure(t *testing.T) {
	discovery := &mocks.Discovery{Posts: map[string]*entities.Post{
		"42": {PostID: "42", PlatformType: entities.PlatformTwitter},
	}}

	d := taggingDeps(&mocks.ConstitutionStore{}, &mocks.LLMClient{})
	d.Discovery = discovery
	d.Repo = &mocks.PostRepository{SaveErr: errors.New("disk full")}

	var buf bytes.Buffer
	err := runTagPost(context.Background(), d, &buf, "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storing post 42")
}

func TestRunTagContent(t *testing.T) {
	store := &mocks.ConstitutionStore{Prompts: []ports.TopicPrompt{
		{Topic: "golang", Template: "Is this post about golang? {tweet_text}"},
	}}
	llm := &mocks.LLMClient{Response: "true"}

	d := taggingDeps(store, llm)

	var buf bytes.Buffer
	err := runTagContent(context.Background(), d, &buf, "generics landed")
	require.NoError(t, err)

	require.Len(t, llm.Prompts, 1)
	assert.Equal(t, "Is this post about golang? generics landed", llm.Prompts[0])
	assert.Contains(t, buf.String(), "tagged with 1 topics: golang")
}

func TestRunTagContent_NoTopics(t *testing.T) {
	store := &mocks.ConstitutionStore{Prompts: []ports.TopicPrompt{
		{Topic: "golang", Template: "Is this post about golang? {tweet_text}"},
	}}
	llm := &mocks.LLMClient{Response: "false"}

	d := taggingDeps(store, llm)

	var buf bytes.Buffer
	err := runTagContent(context.Background(), d, &buf, "lunch thread")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "matched no topics")
}
