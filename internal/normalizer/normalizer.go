// Package normalizer canonicalizes raw article payloads before scoring
// and persistence.
package normalizer

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

// Normalize validates a raw payload and produces the canonical record.
// It fails with domain.ErrInvalidPayload when the URL is absent or
// malformed, or when both title and body are empty after trimming.
func (n *Normalizer) Normalize(raw domain.RawArticle) (domain.NormalizedArticle, error) {
	key, err := CanonicalKey(raw.URL)
	if err != nil {
		return domain.NormalizedArticle{}, err
	}

	title := strings.TrimSpace(raw.Title)
	body := strings.TrimSpace(raw.Body)
	if title == "" && body == "" {
		return domain.NormalizedArticle{}, fmt.Errorf("%w: no title or body", domain.ErrInvalidPayload)
	}

	return domain.NormalizedArticle{
		IdentityKey: key,
		Title:       title,
		Body:        body,
		Source:      strings.TrimSpace(raw.Source),
		PublishedAt: raw.PublishedAt,
		WordCount:   WordCount(body),
	}, nil
}

// CanonicalKey derives the article's stable identity key from its URL:
// lowercase scheme and host, default port and fragment stripped, trailing
// slash trimmed from the path. Deterministic, so repeated fetches of the
// same article always map to the same key.
func CanonicalKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: missing URL", domain.ErrInvalidPayload)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: malformed URL %q: %v", domain.ErrInvalidPayload, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported URL scheme %q", domain.ErrInvalidPayload, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: URL %q has no host", domain.ErrInvalidPayload, raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	if len(u.Path) > 1 {
		u.Path = strings.TrimSuffix(u.Path, "/")
	}

	return u.String(), nil
}

// WordCount counts Unicode words in text (tokens that carry at least one
// letter or digit).
func WordCount(text string) int {
	count := 0
	tokens := words.FromString(text)
	for tokens.Next() {
		if isWord(tokens.Value()) {
			count++
		}
	}
	return count
}

func isWord(token string) bool {
	for i := 0; i < len(token); {
		r, size := utf8.DecodeRuneInString(token[i:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		i += size
	}
	return false
}
