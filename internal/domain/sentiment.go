package domain

import (
	"context"
	"fmt"
)

// Label is the categorical sentiment derived from a score.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
	LabelNeutral  Label = "neutral"
)

// Processing-method identifiers. At most one SentimentResult exists per
// (article, method) pair; re-scoring overwrites.
const (
	MethodLexical  = "lexical_polarity"
	MethodValence  = "valence_lexicon"
	MethodKeywords = "finance_keywords"
	MethodCombined = "combined"
)

// SentimentResult is one method's verdict on an article.
type SentimentResult struct {
	Method       string
	Score        float64 // in [-1, 1]
	Confidence   float64 // in [0, 1]
	Label        Label
	Subjectivity *float64 // in [0, 1] when the method produces one
}

// Validate checks the numeric bounds before anything reaches the store.
func (r SentimentResult) Validate() error {
	if r.Method == "" {
		return fmt.Errorf("%w: empty method", ErrConstraintViolated)
	}
	if r.Score < -1 || r.Score > 1 {
		return fmt.Errorf("%w: score %v out of [-1, 1]", ErrConstraintViolated, r.Score)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of [0, 1]", ErrConstraintViolated, r.Confidence)
	}
	if r.Subjectivity != nil && (*r.Subjectivity < 0 || *r.Subjectivity > 1) {
		return fmt.Errorf("%w: subjectivity %v out of [0, 1]", ErrConstraintViolated, *r.Subjectivity)
	}
	switch r.Label {
	case LabelPositive, LabelNegative, LabelNeutral:
	default:
		return fmt.Errorf("%w: unknown label %q", ErrConstraintViolated, r.Label)
	}
	return nil
}

// Scored bundles the combined result with the per-method results that
// produced it. The combined result is authoritative; the individual
// methods are persisted alongside it for auditability.
type Scored struct {
	Combined SentimentResult
	Methods  []SentimentResult
}

// All returns every result to persist, combined last.
func (s Scored) All() []SentimentResult {
	out := make([]SentimentResult, 0, len(s.Methods)+1)
	out = append(out, s.Methods...)
	out = append(out, s.Combined)
	return out
}

// Scorer turns article text into sentiment results.
type Scorer interface {
	Score(ctx context.Context, text string) (Scored, error)
}
