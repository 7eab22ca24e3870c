package domain

import "context"

// Stage identifies where in the per-article state machine an article
// currently is, or where it failed.
type Stage string

const (
	StageFetched    Stage = "fetched"
	StageNormalized Stage = "normalized"
	StageDeduped    Stage = "deduped"
	StageScored     Stage = "scored"
	StagePersisted  Stage = "persisted"
)

// Failure records one article dropped from a batch.
type Failure struct {
	IdentityKey string `json:"identityKey"`
	Stage       Stage  `json:"stage"`
	Reason      string `json:"reason"`
}

// BatchSummary is the sole externally visible outcome of a pipeline run.
type BatchSummary struct {
	Processed int       `json:"processed"`
	Persisted int       `json:"persisted"`
	Skipped   int       `json:"skipped"`
	Failed    []Failure `json:"failed"`
}

// Store is the persistence contract the pipeline depends on. Implementations
// must make PersistScored atomic: either the entity, article, and all
// sentiment results land, or none do.
type Store interface {
	// Health verifies the store is reachable before a batch starts.
	Health(ctx context.Context) error

	// ExistingKeys returns the subset of keys already stored, in one
	// round trip.
	ExistingKeys(ctx context.Context, keys []string) (map[string]struct{}, error)

	// PersistScored resolves the entity, upserts the article, and writes
	// every sentiment result as a single unit of work. Re-running with
	// the same article overwrites its results instead of duplicating them.
	PersistScored(ctx context.Context, article NormalizedArticle, entity TrackedEntity, results []SentimentResult) (UpsertResult, error)
}
