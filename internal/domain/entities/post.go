// Package entities contains core domain data structures.
package entities

import "time"

// PlatformType identifies the social platform a post originates from.
type PlatformType string

// Supported platforms.
const (
	PlatformTwitter PlatformType = "twitter"
)

// ProcessingStatus tracks where a post sits in the processing lifecycle.
type ProcessingStatus string

const (
	ProcessingStatusNew       ProcessingStatus = "new"
	ProcessingStatusProcessed ProcessingStatus = "processed"
	ProcessingStatusRejected  ProcessingStatus = "rejected"
)

// Extra-data keys populated by platform adapters.
const (
	// ExtraKeyIsQuoteTweet marks a Twitter post that quotes another post.
	ExtraKeyIsQuoteTweet = "is_quote_tweet"
	// ExtraKeyQuotedStatusID holds the platform ID of the quoted post.
	ExtraKeyQuotedStatusID = "quoted_status_id"
)

// SocialAccount represents an account on a social platform.
type SocialAccount struct {
	PlatformType PlatformType   `json:"platform_type"`
	AccountID    string         `json:"account_id"`
	Username     string         `json:"username"`
	ExtraData    map[string]any `json:"extra_data,omitempty"`
}

// Post represents a social-media post. Topics is populated by the topic
// tagging process; ExtraData carries platform-specific fields verbatim.
type Post struct {
	PostID           string           `json:"post_id"`
	PlatformType     PlatformType     `json:"platform_type"`
	AccountID        string           `json:"account_id"`
	Content          string           `json:"content"`
	Topics           []string         `json:"topics,omitempty"`
	ExtraData        map[string]any   `json:"extra_data,omitempty"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	ProcessingNote   string           `json:"processing_note,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// QuotedStatusID returns the quoted post's platform ID if this post is
// marked as a quote tweet, and whether such a reference exists.
func (p *Post) QuotedStatusID() (string, bool) {
	isQuote, ok := p.ExtraData[ExtraKeyIsQuoteTweet].(bool)
	if !ok || !isQuote {
		return "", false
	}
	id, ok := p.ExtraData[ExtraKeyQuotedStatusID].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
