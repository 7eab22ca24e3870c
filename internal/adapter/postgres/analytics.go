package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/losthumanity/SentimentFinance/internal/domain"
)

// Analytics serves aggregate reads over persisted sentiment. All queries
// aggregate the combined method only, so per-method audit rows never skew
// the averages.
type Analytics struct {
	pool      *pgxpool.Pool
	opTimeout time.Duration
}

func NewAnalytics(pool *pgxpool.Pool, opTimeout time.Duration) *Analytics {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &Analytics{pool: pool, opTimeout: opTimeout}
}

// DailyEntityReport is one day of an entity's trailing-week report.
type DailyEntityReport struct {
	EntityName    string    `json:"entityName"`
	Sector        string    `json:"sector"`
	Date          time.Time `json:"date"`
	ArticleCount  int       `json:"articleCount"`
	AvgScore      float64   `json:"avgScore"`
	MinScore      float64   `json:"minScore"`
	MaxScore      float64   `json:"maxScore"`
	AvgConfidence float64   `json:"avgConfidence"`
	PositiveCount int       `json:"positiveCount"`
	NegativeCount int       `json:"negativeCount"`
	NeutralCount  int       `json:"neutralCount"`
}

// WeeklyEntityReport aggregates the last seven days of combined sentiment
// for one entity, grouped per publication day, newest first.
func (a *Analytics) WeeklyEntityReport(ctx context.Context, entityName string) ([]DailyEntityReport, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opTimeout)
	defer cancel()

	rows, err := a.pool.Query(ctx, `
		SELECT
			e.name,
			e.sector,
			DATE(ar.published_at) AS day,
			COUNT(ar.id),
			AVG(s.score),
			MIN(s.score),
			MAX(s.score),
			AVG(s.confidence),
			COUNT(*) FILTER (WHERE s.label = 'positive'),
			COUNT(*) FILTER (WHERE s.label = 'negative'),
			COUNT(*) FILTER (WHERE s.label = 'neutral')
		FROM entities e
		JOIN articles ar ON e.id = ar.entity_id
		JOIN sentiment_results s ON ar.id = s.article_id
		WHERE e.name = $1
		  AND s.method = $2
		  AND ar.published_at >= NOW() - INTERVAL '7 days'
		GROUP BY e.name, e.sector, DATE(ar.published_at)
		ORDER BY DATE(ar.published_at) DESC
	`, entityName, domain.MethodCombined)
	if err != nil {
		return nil, classify("weekly entity report", err)
	}
	defer rows.Close()

	var out []DailyEntityReport
	for rows.Next() {
		var r DailyEntityReport
		if err := rows.Scan(
			&r.EntityName, &r.Sector, &r.Date, &r.ArticleCount,
			&r.AvgScore, &r.MinScore, &r.MaxScore, &r.AvgConfidence,
			&r.PositiveCount, &r.NegativeCount, &r.NeutralCount,
		); err != nil {
			return nil, classify("weekly entity report", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("weekly entity report", err)
	}
	return out, nil
}

// SectorReport summarizes one sector over a lookback window, including its
// best-scoring entity.
type SectorReport struct {
	Sector         string  `json:"sector"`
	TotalArticles  int     `json:"totalArticles"`
	AvgScore       float64 `json:"avgScore"`
	Trend          string  `json:"trend"`
	TopEntity      string  `json:"topEntity"`
	TopEntityScore float64 `json:"topEntityScore"`
}

// SectorSentiment aggregates combined sentiment across every entity in a
// sector over the last daysBack days. Trend buckets use a tighter band
// than article labels because sector averages pull toward zero.
func (a *Analytics) SectorSentiment(ctx context.Context, sector string, daysBack int) (*SectorReport, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opTimeout)
	defer cancel()

	var r SectorReport
	err := a.pool.QueryRow(ctx, `
		WITH sector_data AS (
			SELECT
				e.sector,
				COUNT(ar.id) AS total_articles,
				AVG(s.score) AS avg_score
			FROM entities e
			JOIN articles ar ON e.id = ar.entity_id
			JOIN sentiment_results s ON ar.id = s.article_id
			WHERE e.sector = $1
			  AND s.method = $2
			  AND ar.published_at >= NOW() - make_interval(days => $3)
			GROUP BY e.sector
		),
		rankings AS (
			SELECT
				e.sector,
				e.name,
				AVG(s.score) AS entity_score,
				ROW_NUMBER() OVER (PARTITION BY e.sector ORDER BY AVG(s.score) DESC) AS rn
			FROM entities e
			JOIN articles ar ON e.id = ar.entity_id
			JOIN sentiment_results s ON ar.id = s.article_id
			WHERE e.sector = $1
			  AND s.method = $2
			  AND ar.published_at >= NOW() - make_interval(days => $3)
			GROUP BY e.sector, e.name
		)
		SELECT
			sd.sector,
			sd.total_articles,
			sd.avg_score,
			CASE
				WHEN sd.avg_score > 0.1 THEN 'positive'
				WHEN sd.avg_score < -0.1 THEN 'negative'
				ELSE 'neutral'
			END,
			COALESCE(r.name, ''),
			COALESCE(r.entity_score, 0)
		FROM sector_data sd
		LEFT JOIN rankings r ON sd.sector = r.sector AND r.rn = 1
	`, sector, domain.MethodCombined, daysBack).Scan(
		&r.Sector, &r.TotalArticles, &r.AvgScore, &r.Trend, &r.TopEntity, &r.TopEntityScore,
	)
	if err != nil {
		return nil, classify("sector sentiment", err)
	}
	return &r, nil
}

// TrendingEntity is an entity ranked by article volume in the last day.
type TrendingEntity struct {
	Name         string  `json:"name"`
	Sector       string  `json:"sector"`
	ArticleCount int     `json:"articleCount"`
	AvgScore     float64 `json:"avgScore"`
}

// TrendingEntities returns the entities with the most articles published
// in the last 24 hours, ties broken by average score.
func (a *Analytics) TrendingEntities(ctx context.Context, limit int) ([]TrendingEntity, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opTimeout)
	defer cancel()

	rows, err := a.pool.Query(ctx, `
		SELECT e.name, e.sector, COUNT(ar.id), AVG(s.score)
		FROM entities e
		JOIN articles ar ON e.id = ar.entity_id
		JOIN sentiment_results s ON ar.id = s.article_id
		WHERE s.method = $1
		  AND ar.published_at >= NOW() - INTERVAL '1 day'
		GROUP BY e.id, e.name, e.sector
		ORDER BY COUNT(ar.id) DESC, AVG(s.score) DESC
		LIMIT $2
	`, domain.MethodCombined, limit)
	if err != nil {
		return nil, classify("trending entities", err)
	}
	defer rows.Close()

	var out []TrendingEntity
	for rows.Next() {
		var t TrendingEntity
		if err := rows.Scan(&t.Name, &t.Sector, &t.ArticleCount, &t.AvgScore); err != nil {
			return nil, classify("trending entities", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("trending entities", err)
	}
	return out, nil
}

// CleanupOldArticles deletes articles older than daysToKeep along with
// their sentiment rows (via cascade) and returns the number removed.
func (a *Analytics) CleanupOldArticles(ctx context.Context, daysToKeep int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opTimeout)
	defer cancel()

	tag, err := a.pool.Exec(ctx, `
		DELETE FROM articles
		WHERE published_at < NOW() - make_interval(days => $1)
	`, daysToKeep)
	if err != nil {
		return 0, classify("cleanup old articles", err)
	}
	return tag.RowsAffected(), nil
}
