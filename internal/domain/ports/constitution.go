package ports

import "context"

// TopicPrompt pairs a topic name with its relevance prompt template. The
// template contains a single {tweet_text} placeholder for post content.
type TopicPrompt struct {
	Topic    string
	Template string
}

// ConstitutionStore supplies topic relevance prompt templates.
type ConstitutionStore interface {
	// TopicPrompts returns the templates in the store's configured topic
	// order. Topics the store has no template for are simply absent.
	TopicPrompts(ctx context.Context) ([]TopicPrompt, error)
}
