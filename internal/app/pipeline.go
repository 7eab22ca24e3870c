// Package app is the application layer: it orchestrates normalization,
// deduplication, scoring, and persistence for one batch of articles.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/losthumanity/SentimentFinance/internal/adapter/metrics"
	"github.com/losthumanity/SentimentFinance/internal/domain"
	"github.com/losthumanity/SentimentFinance/internal/normalizer"
	"github.com/losthumanity/SentimentFinance/internal/platform/retry"
)

// Options tune a Pipeline. Zero values fall back to sane defaults.
type Options struct {
	Concurrency       int
	StoreMaxRetries   int
	StoreRetryBackoff time.Duration
	Clock             clockwork.Clock
}

func (o *Options) withDefaults() {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.StoreMaxRetries < 1 {
		o.StoreMaxRetries = 3
	}
	if o.StoreRetryBackoff <= 0 {
		o.StoreRetryBackoff = 200 * time.Millisecond
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
}

// Pipeline sequences the per-article state machine
// Fetched -> Normalized -> Deduped -> Scored -> Persisted and accumulates
// a batch summary. One article's failure never aborts the batch.
type Pipeline struct {
	normalizer *normalizer.Normalizer
	dedup      *Deduplicator
	matcher    *Matcher
	scorer     domain.Scorer
	store      domain.Store
	metrics    *metrics.PipelineMetrics
	opts       Options
}

func NewPipeline(scorer domain.Scorer, store domain.Store, matcher *Matcher, m *metrics.PipelineMetrics, opts Options) *Pipeline {
	opts.withDefaults()
	return &Pipeline{
		normalizer: normalizer.New(),
		dedup:      NewDeduplicator(store),
		matcher:    matcher,
		scorer:     scorer,
		store:      store,
		metrics:    m,
		opts:       opts,
	}
}

// Run processes one batch. It fails fast with an error only when the
// store is unreachable before any article is attempted or when ctx is
// cancelled; every per-article error is converted into a summary entry.
func (p *Pipeline) Run(ctx context.Context, batch []domain.RawArticle) (*domain.BatchSummary, error) {
	start := p.opts.Clock.Now()

	if err := p.store.Health(ctx); err != nil {
		return nil, fmt.Errorf("store unavailable, aborting batch: %w", err)
	}

	summary := &domain.BatchSummary{Processed: len(batch)}
	var mu sync.Mutex

	normalized := p.normalizeBatch(batch, summary, &mu)

	fresh, known, err := p.dedup.Partition(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("deduplication failed: %w", err)
	}
	for _, a := range known {
		p.recordSkip(summary, &mu, a.IdentityKey, "already stored")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for _, article := range fresh {
		g.Go(func() error {
			// Cancellation is cooperative at article boundaries, never
			// mid-unit-of-work.
			if err := gctx.Err(); err != nil {
				return err
			}
			p.processArticle(gctx, article, summary, &mu)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, fmt.Errorf("batch cancelled: %w", err)
	}

	if p.metrics != nil {
		p.metrics.BatchDuration.Observe(p.opts.Clock.Since(start).Seconds())
	}

	slog.Info("batch complete",
		"processed", summary.Processed,
		"persisted", summary.Persisted,
		"skipped", summary.Skipped,
		"failed", len(summary.Failed),
		"duration", p.opts.Clock.Since(start),
	)

	return summary, nil
}

func (p *Pipeline) normalizeBatch(batch []domain.RawArticle, summary *domain.BatchSummary, mu *sync.Mutex) []domain.NormalizedArticle {
	normalized := make([]domain.NormalizedArticle, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))

	for _, raw := range batch {
		rec, err := p.normalizer.Normalize(raw)
		if err != nil {
			p.recordFailure(summary, mu, raw.URL, domain.StageNormalized, err)
			continue
		}
		// Intra-batch duplicates collapse to the first occurrence.
		if _, dup := seen[rec.IdentityKey]; dup {
			p.recordSkip(summary, mu, rec.IdentityKey, "duplicate within batch")
			continue
		}
		seen[rec.IdentityKey] = struct{}{}
		normalized = append(normalized, rec)
	}

	return normalized
}

func (p *Pipeline) processArticle(ctx context.Context, article domain.NormalizedArticle, summary *domain.BatchSummary, mu *sync.Mutex) {
	entity, ok := p.matcher.Match(article)
	if !ok {
		p.recordSkip(summary, mu, article.IdentityKey, domain.ErrEntityNotMatched.Error())
		return
	}

	scoreStart := p.opts.Clock.Now()
	scored, err := p.scorer.Score(ctx, article.AnalysisText())
	if p.metrics != nil {
		p.metrics.ScoringDuration.Observe(p.opts.Clock.Since(scoreStart).Seconds())
	}
	if errors.Is(err, domain.ErrInsufficientText) {
		p.recordSkip(summary, mu, article.IdentityKey, err.Error())
		return
	}
	if err != nil {
		p.recordFailure(summary, mu, article.IdentityKey, domain.StageScored, err)
		return
	}

	policy := retry.Policy{
		MaxAttempts:    p.opts.StoreMaxRetries,
		InitialBackoff: p.opts.StoreRetryBackoff,
		Clock:          p.opts.Clock,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			if p.metrics != nil {
				p.metrics.StoreRetries.Inc()
			}
			slog.Warn("retrying persistence",
				"identity_key", article.IdentityKey,
				"attempt", attempt,
				"backoff", backoff,
				"error", err,
			)
		},
	}

	// Only transient store errors are retried; everything else fails the
	// article immediately.
	classify := func(err error) retry.Action {
		if domain.IsTransient(err) {
			return retry.Retry
		}
		return retry.Stop
	}

	up, err := retry.Do(ctx, policy, classify, func() (domain.UpsertResult, error) {
		return p.store.PersistScored(ctx, article, entity, scored.All())
	})
	if err != nil {
		p.recordFailure(summary, mu, article.IdentityKey, domain.StagePersisted, err)
		return
	}

	mu.Lock()
	summary.Persisted++
	mu.Unlock()
	if p.metrics != nil {
		p.metrics.ArticlesProcessed.WithLabelValues("persisted").Inc()
	}

	slog.Debug("article persisted",
		"identity_key", article.IdentityKey,
		"entity", entity.Name,
		"created", up.Created,
		"label", scored.Combined.Label,
		"score", scored.Combined.Score,
	)
}

func (p *Pipeline) recordSkip(summary *domain.BatchSummary, mu *sync.Mutex, key, reason string) {
	mu.Lock()
	summary.Skipped++
	mu.Unlock()
	if p.metrics != nil {
		p.metrics.ArticlesProcessed.WithLabelValues("skipped").Inc()
	}
	slog.Debug("article skipped", "identity_key", key, "reason", reason)
}

func (p *Pipeline) recordFailure(summary *domain.BatchSummary, mu *sync.Mutex, key string, stage domain.Stage, err error) {
	mu.Lock()
	summary.Failed = append(summary.Failed, domain.Failure{
		IdentityKey: key,
		Stage:       stage,
		Reason:      err.Error(),
	})
	mu.Unlock()
	if p.metrics != nil {
		p.metrics.ArticlesProcessed.WithLabelValues("failed").Inc()
		p.metrics.StageFailures.WithLabelValues(string(stage)).Inc()
	}
	slog.Warn("article failed", "identity_key", key, "stage", stage, "error", err)
}
