package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RawArticle is the payload shape delivered by the news fetch collaborator.
type RawArticle struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Language    string    `json:"language,omitempty"`
}

// NormalizedArticle is a validated article with its canonical identity key.
// IdentityKey is the dedup/uniqueness key derived from the URL; two payloads
// with the same key are the same article.
type NormalizedArticle struct {
	IdentityKey string
	Title       string
	Body        string
	Source      string
	PublishedAt time.Time
	WordCount   int
}

// AnalysisText returns the text handed to the sentiment scorer.
// The title is weighted by repetition, matching how headlines carry most
// of the sentiment signal in short financial news items.
func (a NormalizedArticle) AnalysisText() string {
	parts := make([]string, 0, 3)
	if a.Title != "" {
		parts = append(parts, a.Title, a.Title)
	}
	if a.Body != "" {
		parts = append(parts, a.Body)
	}
	return strings.Join(parts, " ")
}

// Article is a persisted article row.
type Article struct {
	ID          uuid.UUID
	URL         string
	Title       string
	Body        string
	Source      string
	PublishedAt time.Time
	EntityID    uuid.UUID
	WordCount   int
	CreatedAt   time.Time
}

// UpsertResult reports whether an idempotent create found an existing row
// or created a new one. Modeled as a value instead of a caught constraint
// violation so callers can branch without inspecting errors.
type UpsertResult struct {
	ID      uuid.UUID
	Created bool
}
