package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

const defaultOpTimeout = 5 * time.Second

// db is the slice of pgxpool.Pool the coordinator needs. Kept as an
// interface so transaction sequencing is testable without a server.
type db interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Coordinator implements domain.Store. Every PersistScored call runs as a
// single transaction: entity resolution, article upsert, and all sentiment
// rows commit together or roll back together.
type Coordinator struct {
	db        db
	opTimeout time.Duration
}

func NewCoordinator(pool *pgxpool.Pool, opTimeout time.Duration) *Coordinator {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &Coordinator{db: pool, opTimeout: opTimeout}
}

func (c *Coordinator) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	if err := c.db.Ping(ctx); err != nil {
		return classify("health check", err)
	}
	return nil
}

func (c *Coordinator) ExistingKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(keys))
	if len(keys) == 0 {
		return existing, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	rows, err := c.db.Query(ctx, `SELECT url FROM articles WHERE url = ANY($1)`, keys)
	if err != nil {
		return nil, classify("existing keys", err)
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, classify("existing keys", err)
		}
		existing[url] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, classify("existing keys", err)
	}

	return existing, nil
}

// PersistScored writes one article's unit of work. Numeric bounds are
// checked before any SQL executes, so a malformed result never opens a
// transaction. Re-persisting the same article replaces its sentiment rows
// per (article, method) instead of duplicating them.
func (c *Coordinator) PersistScored(ctx context.Context, article domain.NormalizedArticle, entity domain.TrackedEntity, results []domain.SentimentResult) (domain.UpsertResult, error) {
	for _, r := range results {
		if err := r.Validate(); err != nil {
			return domain.UpsertResult{}, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return domain.UpsertResult{}, classify("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	entityID, err := resolveEntityTx(ctx, tx, entity)
	if err != nil {
		return domain.UpsertResult{}, classify("resolve entity", err)
	}

	up, err := upsertArticleTx(ctx, tx, article, entityID)
	if err != nil {
		return domain.UpsertResult{}, classify("upsert article", err)
	}

	for _, r := range results {
		if err := writeSentimentTx(ctx, tx, up.ID, r); err != nil {
			return domain.UpsertResult{}, classify("write sentiment", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.UpsertResult{}, classify("commit", err)
	}

	return up, nil
}

// resolveEntityTx finds or creates the entity row by name. A concurrent
// creator winning the insert race is fine: DO NOTHING returns no row and
// the follow-up select reads the winner. Sector and symbol are refreshed
// only when the tracked entry carries non-empty values, so a sparse
// configuration never blanks an existing profile.
func resolveEntityTx(ctx context.Context, tx pgx.Tx, entity domain.TrackedEntity) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO entities (name, sector, symbol)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`, entity.Name, entity.Sector, entity.Symbol).Scan(&id)

	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("failed to insert entity: %w", err)
	}

	err = tx.QueryRow(ctx, `SELECT id FROM entities WHERE name = $1`, entity.Name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// The competing insert won the conflict arbitration but rolled
		// back before our re-read. Retrying the unit of work resolves it.
		return uuid.Nil, fmt.Errorf("%w: entity %q", domain.ErrConflict, entity.Name)
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read existing entity: %w", err)
	}

	if entity.Sector != "" || entity.Symbol != "" {
		_, err = tx.Exec(ctx, `
			UPDATE entities
			SET sector = CASE WHEN $2 <> '' THEN $2 ELSE sector END,
			    symbol = CASE WHEN $3 <> '' THEN $3 ELSE symbol END,
			    updated_at = NOW()
			WHERE id = $1
		`, id, entity.Sector, entity.Symbol)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to refresh entity profile: %w", err)
		}
	}

	return id, nil
}

func upsertArticleTx(ctx context.Context, tx pgx.Tx, article domain.NormalizedArticle, entityID uuid.UUID) (domain.UpsertResult, error) {
	var publishedAt *time.Time
	if !article.PublishedAt.IsZero() {
		publishedAt = &article.PublishedAt
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO articles (url, title, body, source, published_at, entity_id, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (url) DO NOTHING
		RETURNING id
	`, article.IdentityKey, article.Title, article.Body, article.Source, publishedAt, entityID, article.WordCount).Scan(&id)

	if err == nil {
		return domain.UpsertResult{ID: id, Created: true}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.UpsertResult{}, fmt.Errorf("failed to insert article: %w", err)
	}

	// Lost the insert: the row already exists, re-read its id.
	err = tx.QueryRow(ctx, `SELECT id FROM articles WHERE url = $1`, article.IdentityKey).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UpsertResult{}, fmt.Errorf("%w: article %q", domain.ErrConflict, article.IdentityKey)
	}
	if err != nil {
		return domain.UpsertResult{}, fmt.Errorf("failed to read existing article: %w", err)
	}
	return domain.UpsertResult{ID: id, Created: false}, nil
}

func writeSentimentTx(ctx context.Context, tx pgx.Tx, articleID uuid.UUID, r domain.SentimentResult) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO sentiment_results (article_id, method, score, confidence, label, subjectivity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (article_id, method) DO UPDATE SET
			score = EXCLUDED.score,
			confidence = EXCLUDED.confidence,
			label = EXCLUDED.label,
			subjectivity = EXCLUDED.subjectivity,
			updated_at = NOW()
	`, articleID, r.Method, r.Score, r.Confidence, string(r.Label), r.Subjectivity)
	if err != nil {
		return fmt.Errorf("failed to write %s result: %w", r.Method, err)
	}
	return nil
}

// GetEntityByName reads one entity row.
func (c *Coordinator) GetEntityByName(ctx context.Context, name string) (*domain.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	var e domain.Entity
	err := c.db.QueryRow(ctx, `
		SELECT id, name, sector, symbol, created_at, updated_at
		FROM entities
		WHERE name = $1
	`, name).Scan(&e.ID, &e.Name, &e.Sector, &e.Symbol, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntityNotFound
	}
	if err != nil {
		return nil, classify("get entity", err)
	}
	return &e, nil
}

// GetArticleByKey reads one article row by its identity key.
func (c *Coordinator) GetArticleByKey(ctx context.Context, key string) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	var (
		a           domain.Article
		publishedAt *time.Time
	)
	err := c.db.QueryRow(ctx, `
		SELECT id, url, title, body, source, published_at, entity_id, word_count, created_at
		FROM articles
		WHERE url = $1
	`, key).Scan(&a.ID, &a.URL, &a.Title, &a.Body, &a.Source, &publishedAt, &a.EntityID, &a.WordCount, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, classify("get article", err)
	}
	if publishedAt != nil {
		a.PublishedAt = *publishedAt
	}
	return &a, nil
}

// GetResults returns every sentiment row stored for an article, combined
// method included.
func (c *Coordinator) GetResults(ctx context.Context, articleID uuid.UUID) ([]domain.SentimentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	rows, err := c.db.Query(ctx, `
		SELECT method, score, confidence, label, subjectivity
		FROM sentiment_results
		WHERE article_id = $1
		ORDER BY method
	`, articleID)
	if err != nil {
		return nil, classify("get results", err)
	}
	defer rows.Close()

	var out []domain.SentimentResult
	for rows.Next() {
		var r domain.SentimentResult
		if err := rows.Scan(&r.Method, &r.Score, &r.Confidence, &r.Label, &r.Subjectivity); err != nil {
			return nil, classify("get results", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("get results", err)
	}
	return out, nil
}
