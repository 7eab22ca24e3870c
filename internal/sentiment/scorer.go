// Package sentiment scores article text with three independent methods
// and combines them into one canonical result.
package sentiment

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

// Label thresholds are a fixed property of the score scale, not tuning
// knobs: boundaries are inclusive.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// Config holds the injected combiner parameters.
type Config struct {
	WeightLexical float64
	WeightValence float64
	WeightKeyword float64

	// ConfidenceFloor replaces a zero-signal method's confidence so a
	// single silent method cannot drag the combined confidence to zero
	// or let the others dominate via false certainty.
	ConfidenceFloor float64

	// MinTokens is the length below which confidence is scaled down
	// proportionally. Short texts still score normally.
	MinTokens int
}

// DefaultConfig returns the production weighting.
func DefaultConfig() Config {
	return Config{
		WeightLexical:   0.4,
		WeightValence:   0.4,
		WeightKeyword:   0.2,
		ConfidenceFloor: 0.1,
		MinTokens:       20,
	}
}

// Scorer implements domain.Scorer over the three embedded-lexicon methods.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	// A zero-valued Config would divide the combined score by zero.
	// Fall back to the default weighting rather than emit NaN.
	if cfg.WeightLexical+cfg.WeightValence+cfg.WeightKeyword <= 0 {
		def := DefaultConfig()
		cfg.WeightLexical = def.WeightLexical
		cfg.WeightValence = def.WeightValence
		cfg.WeightKeyword = def.WeightKeyword
	}
	return &Scorer{cfg: cfg}
}

// Score runs the three methods in parallel and combines them. It fails
// with domain.ErrInsufficientText when the text holds no word tokens.
func (s *Scorer) Score(ctx context.Context, text string) (domain.Scored, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return domain.Scored{}, domain.ErrInsufficientText
	}

	var lexical, valence, keywords methodResult

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { lexical = scoreLexical(tokens); return nil })
	g.Go(func() error { valence = scoreValence(tokens); return nil })
	g.Go(func() error { keywords = scoreKeywords(tokens); return nil })
	if err := g.Wait(); err != nil {
		return domain.Scored{}, err
	}

	weightSum := s.cfg.WeightLexical + s.cfg.WeightValence + s.cfg.WeightKeyword
	combinedScore := clamp(
		(s.cfg.WeightLexical*lexical.score+
			s.cfg.WeightValence*valence.score+
			s.cfg.WeightKeyword*keywords.score)/weightSum,
		-1, 1,
	)

	// Confidence for short texts is scaled down proportionally to length.
	scale := 1.0
	if len(tokens) < s.cfg.MinTokens {
		scale = float64(len(tokens)) / float64(s.cfg.MinTokens)
	}

	combinedConfidence := clamp(
		(s.effectiveConfidence(lexical)+
			s.effectiveConfidence(valence)+
			s.effectiveConfidence(keywords))/3*scale,
		0, 1,
	)

	return domain.Scored{
		Combined: domain.SentimentResult{
			Method:     domain.MethodCombined,
			Score:      combinedScore,
			Confidence: combinedConfidence,
			Label:      labelFor(combinedScore),
		},
		Methods: []domain.SentimentResult{
			s.methodResult(domain.MethodLexical, lexical, scale),
			s.methodResult(domain.MethodValence, valence, scale),
			s.methodResult(domain.MethodKeywords, keywords, scale),
		},
	}, nil
}

func (s *Scorer) effectiveConfidence(r methodResult) float64 {
	if !r.signal {
		return s.cfg.ConfidenceFloor
	}
	return r.confidence
}

func (s *Scorer) methodResult(method string, r methodResult, scale float64) domain.SentimentResult {
	return domain.SentimentResult{
		Method:       method,
		Score:        r.score,
		Confidence:   clamp(s.effectiveConfidence(r)*scale, 0, 1),
		Label:        labelFor(r.score),
		Subjectivity: r.subjectivity,
	}
}

// labelFor maps a score to its label. Pure function of the score with
// inclusive boundaries.
func labelFor(score float64) domain.Label {
	switch {
	case score >= positiveThreshold:
		return domain.LabelPositive
	case score <= negativeThreshold:
		return domain.LabelNegative
	default:
		return domain.LabelNeutral
	}
}
