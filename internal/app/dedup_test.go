package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

func normArticle(key string) domain.NormalizedArticle {
	return domain.NormalizedArticle{IdentityKey: key, Title: "t", Body: "b"}
}

func TestPartition_SplitsKnownFromFresh(t *testing.T) {
	store := newFakeStore()
	store.articles["k1"] = uuid.New()
	store.articles["k3"] = uuid.New()
	store.articles["k4"] = uuid.New()

	d := NewDeduplicator(store)

	batch := []domain.NormalizedArticle{
		normArticle("k1"), normArticle("k2"), normArticle("k3"),
		normArticle("k4"), normArticle("k5"),
	}

	fresh, known, err := d.Partition(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, fresh, 2)
	assert.Equal(t, "k2", fresh[0].IdentityKey)
	assert.Equal(t, "k5", fresh[1].IdentityKey)

	require.Len(t, known, 3)
	assert.Equal(t, "k1", known[0].IdentityKey)
}

func TestPartition_EmptyBatch(t *testing.T) {
	d := NewDeduplicator(newFakeStore())

	fresh, known, err := d.Partition(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, fresh)
	assert.Empty(t, known)
}

func TestPartition_AllFresh(t *testing.T) {
	d := NewDeduplicator(newFakeStore())

	fresh, known, err := d.Partition(context.Background(), []domain.NormalizedArticle{
		normArticle("a"), normArticle("b"),
	})
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Empty(t, known)
}
