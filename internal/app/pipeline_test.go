package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/losthumanity/SentimentFinance/internal/adapter/metrics"
	"github.com/losthumanity/SentimentFinance/internal/domain"
	"github.com/losthumanity/SentimentFinance/internal/sentiment"
)

// --- Fakes ---

// fakeStore implements domain.Store in memory with the same atomicity
// contract as the Postgres coordinator: PersistScored either lands the
// article with all its results, or nothing at all.
type fakeStore struct {
	mu        sync.Mutex
	healthErr error

	articles map[string]uuid.UUID                       // identity key -> article id
	results  map[uuid.UUID]map[string]domain.SentimentResult // article id -> method -> result
	entities map[string]uuid.UUID

	// persistErrs is consumed one error per PersistScored call, allowing
	// transient-then-success sequences.
	persistErrs []error
	persistCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		articles: make(map[string]uuid.UUID),
		results:  make(map[uuid.UUID]map[string]domain.SentimentResult),
		entities: make(map[string]uuid.UUID),
	}
}

func (s *fakeStore) Health(ctx context.Context) error {
	return s.healthErr
}

func (s *fakeStore) ExistingKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{})
	for _, k := range keys {
		if _, ok := s.articles[k]; ok {
			existing[k] = struct{}{}
		}
	}
	return existing, nil
}

func (s *fakeStore) PersistScored(ctx context.Context, article domain.NormalizedArticle, entity domain.TrackedEntity, results []domain.SentimentResult) (domain.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.persistCalls++
	if len(s.persistErrs) > 0 {
		err := s.persistErrs[0]
		s.persistErrs = s.persistErrs[1:]
		if err != nil {
			return domain.UpsertResult{}, err
		}
	}

	for _, r := range results {
		if err := r.Validate(); err != nil {
			return domain.UpsertResult{}, err
		}
	}

	if _, ok := s.entities[entity.Name]; !ok {
		s.entities[entity.Name] = uuid.New()
	}

	id, existed := s.articles[article.IdentityKey]
	if !existed {
		id = uuid.New()
		s.articles[article.IdentityKey] = id
	}

	methods := make(map[string]domain.SentimentResult, len(results))
	for _, r := range results {
		methods[r.Method] = r // replace semantics per (article, method)
	}
	s.results[id] = methods

	return domain.UpsertResult{ID: id, Created: !existed}, nil
}

func (s *fakeStore) resultCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, methods := range s.results {
		n += len(methods)
	}
	return n
}

// --- Helpers ---

func testPipeline(t *testing.T, store domain.Store) *Pipeline {
	t.Helper()
	m := metrics.NewPipelineMetrics(prometheus.NewRegistry())
	matcher := NewMatcher([]domain.TrackedEntity{
		{Name: "Acme Corp", Sector: "Industrials", Symbol: "ACME"},
	})
	opts := Options{StoreRetryBackoff: time.Millisecond}
	return NewPipeline(sentiment.NewScorer(sentiment.DefaultConfig()), store, matcher, m, opts)
}

func rawArticle(n int) domain.RawArticle {
	return domain.RawArticle{
		Title:       "Acme beats estimates",
		Body:        "Acme Corp reported a record profit and the stock surged.",
		URL:         fmt.Sprintf("https://news.example.com/acme-%d", n),
		Source:      "newswire",
		PublishedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// --- Tests ---

func TestRun_PersistsScoredArticles(t *testing.T) {
	store := newFakeStore()
	p := testPipeline(t, store)

	summary, err := p.Run(context.Background(), []domain.RawArticle{rawArticle(1), rawArticle(2)})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Persisted)
	assert.Equal(t, 0, summary.Skipped)
	assert.Empty(t, summary.Failed)

	// One row per method plus the combined row, per article.
	assert.Equal(t, 2*4, store.resultCount())
}

func TestRun_SecondRunOverwritesNotDuplicates(t *testing.T) {
	store := newFakeStore()
	p := testPipeline(t, store)

	first, err := p.Run(context.Background(), []domain.RawArticle{rawArticle(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Persisted)

	// Same payload again: the dedup stage filters it before scoring.
	second, err := p.Run(context.Background(), []domain.RawArticle{rawArticle(1)})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Persisted)
	assert.Equal(t, 1, second.Skipped)

	assert.Len(t, store.articles, 1)
	assert.Equal(t, 4, store.resultCount())
}

func TestRun_ValidationFailureRecordedNotFatal(t *testing.T) {
	store := newFakeStore()
	p := testPipeline(t, store)

	batch := []domain.RawArticle{
		{Title: "no url"},
		rawArticle(1),
	}

	summary, err := p.Run(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Persisted)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, domain.StageNormalized, summary.Failed[0].Stage)
}

// insufficientScorer always reports that there is nothing to score.
type insufficientScorer struct{}

func (insufficientScorer) Score(ctx context.Context, text string) (domain.Scored, error) {
	return domain.Scored{}, domain.ErrInsufficientText
}

func TestRun_InsufficientTextSkippedWithoutWrites(t *testing.T) {
	store := newFakeStore()
	m := metrics.NewPipelineMetrics(prometheus.NewRegistry())
	matcher := NewMatcher([]domain.TrackedEntity{
		{Name: "Acme Corp", Sector: "Industrials", Symbol: "ACME"},
	})
	p := NewPipeline(insufficientScorer{}, store, matcher, m, Options{StoreRetryBackoff: time.Millisecond})

	summary, err := p.Run(context.Background(), []domain.RawArticle{rawArticle(1)})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Persisted)
	assert.Empty(t, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Empty(t, store.articles)
	assert.Equal(t, 0, store.resultCount())
}

func TestRun_UnmatchedEntitySkipped(t *testing.T) {
	store := newFakeStore()
	p := testPipeline(t, store)

	batch := []domain.RawArticle{{
		Title: "Unrelated startup raises funding",
		Body:  "A company nobody tracks did something.",
		URL:   "https://news.example.com/other",
	}}

	summary, err := p.Run(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Persisted)
	assert.Empty(t, store.articles)
}

func TestRun_TransientErrorRetriedThenSucceeds(t *testing.T) {
	store := newFakeStore()
	store.persistErrs = []error{
		&domain.TransientStoreError{Op: "persist", Err: errors.New("connection reset")},
		&domain.TransientStoreError{Op: "persist", Err: errors.New("connection reset")},
	}
	p := testPipeline(t, store)

	summary, err := p.Run(context.Background(), []domain.RawArticle{rawArticle(1)})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Persisted)
	assert.Empty(t, summary.Failed)
	assert.Equal(t, 3, store.persistCalls)
}

func TestRun_TransientErrorExhaustsRetries(t *testing.T) {
	store := newFakeStore()
	transient := &domain.TransientStoreError{Op: "persist", Err: errors.New("connection reset")}
	store.persistErrs = []error{transient, transient, transient}
	p := testPipeline(t, store)

	summary, err := p.Run(context.Background(), []domain.RawArticle{rawArticle(1)})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Persisted)
	require.Len(t, summary.Failed, 1)
	assert.Equal(t, domain.StagePersisted, summary.Failed[0].Stage)
	assert.Equal(t, 3, store.persistCalls)
	assert.Empty(t, store.articles, "failed persist must leave no article behind")
	assert.Equal(t, 0, store.resultCount())
}

func TestRun_PermanentErrorNotRetried(t *testing.T) {
	store := newFakeStore()
	store.persistErrs = []error{errors.New("schema mismatch")}
	p := testPipeline(t, store)

	summary, err := p.Run(context.Background(), []domain.RawArticle{rawArticle(1)})
	require.NoError(t, err)

	require.Len(t, summary.Failed, 1)
	assert.Equal(t, 1, store.persistCalls)
}

func TestRun_StoreUnavailableFailsFast(t *testing.T) {
	store := newFakeStore()
	store.healthErr = errors.New("connection refused")
	p := testPipeline(t, store)

	_, err := p.Run(context.Background(), []domain.RawArticle{rawArticle(1)})
	require.Error(t, err)
	assert.Equal(t, 0, store.persistCalls)
}

func TestRun_IntraBatchDuplicatesCollapse(t *testing.T) {
	store := newFakeStore()
	p := testPipeline(t, store)

	a := rawArticle(1)
	summary, err := p.Run(context.Background(), []domain.RawArticle{a, a, a})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 1, summary.Persisted)
	assert.Equal(t, 2, summary.Skipped)
	assert.Len(t, store.articles, 1)
}

func TestRun_CancelledBetweenArticles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore()
	p := testPipeline(t, store)

	_, err := p.Run(ctx, []domain.RawArticle{rawArticle(1), rawArticle(2)})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
