package app

import (
	"context"
	"fmt"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

// Deduplicator partitions a batch into new and already-stored articles
// using one batched existence check against the store. It is a pure
// filter: it never enlarges the set and is stable under repeated runs.
type Deduplicator struct {
	store domain.Store
}

func NewDeduplicator(store domain.Store) *Deduplicator {
	return &Deduplicator{store: store}
}

// Partition splits articles into fresh (not yet stored) and known
// (identity key already present), preserving order.
func (d *Deduplicator) Partition(ctx context.Context, articles []domain.NormalizedArticle) (fresh, known []domain.NormalizedArticle, err error) {
	if len(articles) == 0 {
		return nil, nil, nil
	}

	keys := make([]string, 0, len(articles))
	for _, a := range articles {
		keys = append(keys, a.IdentityKey)
	}

	existing, err := d.store.ExistingKeys(ctx, keys)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing keys: %w", err)
	}

	for _, a := range articles {
		if _, ok := existing[a.IdentityKey]; ok {
			known = append(known, a)
		} else {
			fresh = append(fresh, a)
		}
	}

	return fresh, known, nil
}
