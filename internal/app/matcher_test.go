package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

var testEntities = []domain.TrackedEntity{
	{Name: "Apple Inc.", Sector: "Technology", Symbol: "AAPL"},
	{Name: "JPMorgan Chase & Co.", Sector: "Financial Services", Symbol: "JPM"},
	{Name: "Tesla Inc.", Sector: "Automotive", Symbol: "TSLA"},
}

func TestMatch_ByName(t *testing.T) {
	m := NewMatcher(testEntities)

	entity, ok := m.Match(domain.NormalizedArticle{
		Title: "Apple unveils new chip",
		Body:  "The device ships next quarter.",
	})
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", entity.Name)
}

func TestMatch_BySymbol(t *testing.T) {
	m := NewMatcher(testEntities)

	entity, ok := m.Match(domain.NormalizedArticle{
		Title: "TSLA shares slide after recall",
		Body:  "Regulators opened an inquiry.",
	})
	require.True(t, ok)
	assert.Equal(t, "Tesla Inc.", entity.Name)
}

func TestMatch_MultiWordNameAnyKeyword(t *testing.T) {
	m := NewMatcher(testEntities)

	entity, ok := m.Match(domain.NormalizedArticle{
		Body: "Analysts at JPMorgan raised their price target.",
	})
	require.True(t, ok)
	assert.Equal(t, "JPMorgan Chase & Co.", entity.Name)
}

func TestMatch_CaseInsensitive(t *testing.T) {
	m := NewMatcher(testEntities)

	_, ok := m.Match(domain.NormalizedArticle{Title: "APPLE beats estimates"})
	assert.True(t, ok)
}

func TestMatch_WordBoundaries(t *testing.T) {
	m := NewMatcher(testEntities)

	// "pineapple" contains "apple" but not on a word boundary.
	_, ok := m.Match(domain.NormalizedArticle{
		Title: "Pineapple imports rise",
		Body:  "Tropical fruit demand grows.",
	})
	assert.False(t, ok)
}

func TestMatch_StopwordsDoNotMatch(t *testing.T) {
	m := NewMatcher(testEntities)

	// "Inc" and "Co" alone must never attribute an article.
	_, ok := m.Match(domain.NormalizedArticle{
		Title: "Startup Inc. and Widget Co. announce merger",
	})
	assert.False(t, ok)
}

func TestMatch_NoEntity(t *testing.T) {
	m := NewMatcher(testEntities)

	_, ok := m.Match(domain.NormalizedArticle{
		Title: "Commodity prices steady",
		Body:  "Oil traded flat on Tuesday.",
	})
	assert.False(t, ok)
}

func TestMatch_FirstConfiguredWins(t *testing.T) {
	m := NewMatcher(testEntities)

	entity, ok := m.Match(domain.NormalizedArticle{
		Title: "Apple and Tesla both rallied",
	})
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", entity.Name)
}
