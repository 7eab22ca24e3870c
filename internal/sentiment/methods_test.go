package sentiment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreKeywords_HitBalance(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"all positive", "profit growth surge", 1.0},
		{"all negative", "loss decline crash", -1.0},
		{"balanced", "profit loss", 0.0},
		{"two to one", "profit growth loss", 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := scoreKeywords(tokenize(tt.text))
			require.True(t, r.signal)
			assert.InDelta(t, tt.want, r.score, 1e-9)
		})
	}
}

func TestScoreKeywords_PhraseConsumesTokens(t *testing.T) {
	// "beats estimates" is one positive hit, not a hit per token.
	r := scoreKeywords(tokenize("beats estimates"))
	require.True(t, r.signal)
	assert.InDelta(t, 1.0, r.score, 1e-9)

	// A negative phrase next to a positive unigram nets out to zero.
	r = scoreKeywords(tokenize("profit missed guidance"))
	require.True(t, r.signal)
	assert.InDelta(t, 0.0, r.score, 1e-9)
}

func TestScoreKeywords_NoSignal(t *testing.T) {
	r := scoreKeywords(tokenize("the meeting was rescheduled to tuesday"))
	assert.False(t, r.signal)
}

// Holding the text structure fixed, more keyword density must never lower
// the method's confidence.
func TestScoreKeywords_ConfidenceMonotoneInDensity(t *testing.T) {
	filler := strings.Fields(strings.Repeat("company report quarter ", 10))

	prev := -1.0
	for hits := 1; hits <= 10; hits++ {
		tokens := append([]string{}, filler...)
		for i := 0; i < hits; i++ {
			tokens[i] = "profit"
		}

		r := scoreKeywords(tokens)
		require.True(t, r.signal, "hits %d", hits)
		assert.GreaterOrEqual(t, r.confidence, prev, "hits %d", hits)
		prev = r.confidence
	}
}

func TestScoreLexical_Negation(t *testing.T) {
	plain := scoreLexical(tokenize("the results were good"))
	negated := scoreLexical(tokenize("the results were not good"))

	require.True(t, plain.signal)
	require.True(t, negated.signal)
	assert.Greater(t, plain.score, 0.0)
	assert.Less(t, negated.score, 0.0)
}

func TestScoreLexical_ReportsSubjectivity(t *testing.T) {
	r := scoreLexical(tokenize("an excellent and impressive quarter"))
	require.True(t, r.signal)
	require.NotNil(t, r.subjectivity)
	assert.GreaterOrEqual(t, *r.subjectivity, 0.0)
	assert.LessOrEqual(t, *r.subjectivity, 1.0)
	assert.InDelta(t, 1-*r.subjectivity, r.confidence, 1e-9)
}

func TestScoreValence_CompoundSign(t *testing.T) {
	pos := scoreValence(tokenize("investors love the amazing results"))
	neg := scoreValence(tokenize("panic and fear grip the market"))

	require.True(t, pos.signal)
	require.True(t, neg.signal)
	assert.Greater(t, pos.score, 0.0)
	assert.Less(t, neg.score, 0.0)
}

func TestScoreValence_BoosterAmplifies(t *testing.T) {
	plain := scoreValence(tokenize("a good quarter"))
	boosted := scoreValence(tokenize("a really good quarter"))

	require.True(t, plain.signal)
	require.True(t, boosted.signal)
	assert.Greater(t, boosted.score, plain.score)
}

func TestScoreValence_NegationFlips(t *testing.T) {
	plain := scoreValence(tokenize("the outlook is good"))
	negated := scoreValence(tokenize("the outlook is not good"))

	require.True(t, plain.signal)
	require.True(t, negated.signal)
	assert.Greater(t, plain.score, 0.0)
	assert.Less(t, negated.score, 0.0)
}

func TestScoreValence_NoSignal(t *testing.T) {
	r := scoreValence(tokenize("the filing was submitted on schedule"))
	assert.False(t, r.signal)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"company", "x", "beats", "estimates", "stock", "surges"},
		tokenize("Company X beats estimates, stock surges"))
	assert.Empty(t, tokenize("!!! ... ---"))
	assert.Empty(t, tokenize(""))
}
