package sentiment

import "math"

// methodResult is one method's raw verdict before combination. signal is
// false when the method found nothing to go on; the combiner substitutes
// the configured floor confidence for such methods.
type methodResult struct {
	score        float64
	confidence   float64
	subjectivity *float64
	signal       bool
}

// scoreLexical estimates polarity and objectivity from the general-purpose
// polarity lexicon. Confidence is the complement of subjectivity: the more
// objective the matched vocabulary, the more the estimate is trusted.
func scoreLexical(tokens []string) methodResult {
	var polaritySum, subjectivitySum float64
	matched := 0

	for i, tok := range tokens {
		entry, ok := polarityLexicon[tok]
		if !ok {
			continue
		}
		p := entry.polarity
		if i > 0 && negations[tokens[i-1]] {
			p *= -0.5
		}
		polaritySum += p
		subjectivitySum += entry.subjectivity
		matched++
	}

	if matched == 0 {
		return methodResult{}
	}

	subjectivity := subjectivitySum / float64(matched)
	return methodResult{
		score:        clamp(polaritySum/float64(matched), -1, 1),
		confidence:   clamp(1-subjectivity, 0, 1),
		subjectivity: &subjectivity,
		signal:       true,
	}
}

// valenceAlpha normalizes the valence sum into a compound score in (-1, 1).
const valenceAlpha = 15.0

// scoreValence is a rule-based method tuned for informal, short text:
// a valence lexicon with booster and negation handling, summed and
// normalized into a compound score. Confidence is the strongest of the
// positive/neutral/negative proportions.
func scoreValence(tokens []string) methodResult {
	var sum, posSum, negSum float64
	neutral := 0
	hits := 0

	for i, tok := range tokens {
		v, ok := valenceLexicon[tok]
		if !ok {
			neutral++
			continue
		}
		hits++

		if i > 0 {
			if boost, ok := boosters[tokens[i-1]]; ok {
				if v > 0 {
					v += boost
				} else {
					v -= boost
				}
			}
		}

		for j := max(0, i-3); j < i; j++ {
			if negations[tokens[j]] {
				v *= -0.74
				break
			}
		}

		sum += v
		if v > 0 {
			posSum += v + 1
		} else if v < 0 {
			negSum += -v + 1
		}
	}

	if hits == 0 {
		return methodResult{}
	}

	compound := sum / math.Sqrt(sum*sum+valenceAlpha)

	total := posSum + negSum + float64(neutral)
	confidence := 0.0
	if total > 0 {
		confidence = math.Max(posSum/total, math.Max(negSum/total, float64(neutral)/total))
	}

	return methodResult{
		score:      clamp(compound, -1, 1),
		confidence: clamp(confidence, 0, 1),
		signal:     true,
	}
}

// keywordDensityGain converts keyword density (hits per token) into
// confidence: density of 1/gain tokens already yields full trust.
const keywordDensityGain = 10.0

// scoreKeywords scans for curated finance-specific terms. Score is the
// normalized hit balance; confidence grows with keyword density and is
// capped at 1.
func scoreKeywords(tokens []string) methodResult {
	positive, negative := 0, 0

	for i := 0; i < len(tokens); i++ {
		if i+1 < len(tokens) {
			if matchPhrase(positivePhrases, tokens[i], tokens[i+1]) {
				positive++
				i++
				continue
			}
			if matchPhrase(negativePhrases, tokens[i], tokens[i+1]) {
				negative++
				i++
				continue
			}
		}
		if positiveKeywords[tokens[i]] {
			positive++
		} else if negativeKeywords[tokens[i]] {
			negative++
		}
	}

	hits := positive + negative
	if hits == 0 {
		return methodResult{}
	}

	score := float64(positive-negative) / float64(hits)
	density := float64(hits) / float64(max(len(tokens), 1))

	return methodResult{
		score:      clamp(score, -1, 1),
		confidence: clamp(density*keywordDensityGain, 0, 1),
		signal:     true,
	}
}

func matchPhrase(phrases []phrase, first, second string) bool {
	for _, p := range phrases {
		if p.first == first && p.second == second {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
