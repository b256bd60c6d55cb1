package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/romangod6/newslens/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS articles (
            id UUID PRIMARY KEY,
            seq BIGINT NOT NULL,
            title TEXT NOT NULL,
            source VARCHAR(255) NOT NULL,
            country VARCHAR(255) NOT NULL,
            keyword VARCHAR(255),
            sentiment VARCHAR(64) NOT NULL,
            published_date DATE,
            published_time VARCHAR(8),
            relevance_score DOUBLE PRECISION,
            latitude DOUBLE PRECISION,
            longitude DOUBLE PRECISION
        )`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_country ON articles(country)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_sentiment ON articles(sentiment)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_keyword ON articles(keyword)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published_date ON articles(published_date)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) ImportArticles(ctx context.Context, articles []*models.Article) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Each process start re-ingests the dataset file from scratch.
	if _, err := tx.ExecContext(ctx, `TRUNCATE articles`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO articles (id, seq, title, source, country, keyword, sentiment,
            published_date, published_time, relevance_score, latitude, longitude)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, article := range articles {
		_, err := stmt.ExecContext(ctx,
			article.ID,
			article.Seq,
			article.Title,
			article.Source,
			article.Country,
			article.Keyword,
			article.Sentiment,
			article.PublishedDate,
			article.PublishedTime,
			article.RelevanceScore,
			article.Latitude,
			article.Longitude,
		)
		if err != nil {
			return fmt.Errorf("error inserting article %s: %w", article.ID, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) Summary(ctx context.Context) (*models.Summary, error) {
	query := `
        SELECT COUNT(*), COUNT(DISTINCT source), COUNT(DISTINCT country)
        FROM articles
    `

	summary := &models.Summary{}
	err := s.db.QueryRowContext(ctx, query).Scan(
		&summary.TotalArticles,
		&summary.UniqueSources,
		&summary.UniqueCountries,
	)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *PostgresStore) SentimentDistribution(ctx context.Context) ([]*models.NameCount, error) {
	query := `
        SELECT sentiment, COUNT(*) AS cnt
        FROM articles
        GROUP BY sentiment
        ORDER BY cnt DESC, sentiment ASC
    `

	return s.queryNameCounts(ctx, query)
}

func (s *PostgresStore) TopCountries(ctx context.Context, limit int) ([]*models.NameCount, error) {
	query := `
        SELECT country, COUNT(*) AS cnt
        FROM articles
        GROUP BY country
        ORDER BY cnt DESC, country ASC
        LIMIT $1
    `

	return s.queryNameCounts(ctx, query, limit)
}

func (s *PostgresStore) ArticlesPerDay(ctx context.Context) ([]*models.TimeBucket, error) {
	query := `
        SELECT to_char(published_date, 'YYYY-MM-DD') AS day, COUNT(*)
        FROM articles
        WHERE published_date IS NOT NULL
        GROUP BY day
        ORDER BY day ASC
    `

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*models.TimeBucket
	for rows.Next() {
		var bucket models.TimeBucket
		if err := rows.Scan(&bucket.Date, &bucket.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, &bucket)
	}

	return buckets, rows.Err()
}

func (s *PostgresStore) TopKeywords(ctx context.Context, limit int) ([]*models.NameCount, error) {
	query := `
        SELECT keyword, COUNT(*) AS cnt
        FROM articles
        WHERE keyword <> ''
        GROUP BY keyword
        ORDER BY cnt DESC, MIN(seq) ASC
        LIMIT $1
    `

	return s.queryNameCounts(ctx, query, limit)
}

func (s *PostgresStore) ListArticles(ctx context.Context, filter models.ArticleFilter, sortBy, order string, limit, offset int) ([]*models.Article, int, error) {
	where, args := buildFilter(filter, dollarPlaceholder)

	var total int
	countQuery := "SELECT COUNT(*) FROM articles" + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
        SELECT id, seq, title, source, country, keyword, sentiment,
            published_date, published_time, relevance_score, latitude, longitude
        FROM articles%s
        %s
        LIMIT $%d OFFSET $%d
    `, where, orderClause(sortBy, order), len(args)+1, len(args)+2)

	articles, err := s.queryArticles(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func (s *PostgresStore) ListFilterOptions(ctx context.Context) (*models.FilterOptions, error) {
	options := &models.FilterOptions{}

	for _, part := range []struct {
		query string
		dest  *[]string
	}{
		{`SELECT DISTINCT source FROM articles ORDER BY source`, &options.Sources},
		{`SELECT DISTINCT country FROM articles ORDER BY country`, &options.Countries},
		{`SELECT DISTINCT sentiment FROM articles ORDER BY sentiment`, &options.Sentiments},
	} {
		values, err := s.queryStrings(ctx, part.query)
		if err != nil {
			return nil, err
		}
		*part.dest = values
	}

	return options, nil
}

func (s *PostgresStore) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	query := `
        SELECT id, seq, title, source, country, keyword, sentiment,
            published_date, published_time, relevance_score, latitude, longitude
        FROM articles
        WHERE id = $1
    `

	articles, err := s.queryArticles(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}

	return articles[0], nil
}

func (s *PostgresStore) queryNameCounts(ctx context.Context, query string, args ...interface{}) ([]*models.NameCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*models.NameCount
	for rows.Next() {
		var count models.NameCount
		if err := rows.Scan(&count.Name, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, &count)
	}

	return counts, rows.Err()
}

func (s *PostgresStore) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	return values, rows.Err()
}

func (s *PostgresStore) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*models.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		var article models.Article
		var idStr string
		var keyword, publishedTime sql.NullString
		var publishedDate sql.NullTime
		var relevance, latitude, longitude sql.NullFloat64

		err := rows.Scan(
			&idStr,
			&article.Seq,
			&article.Title,
			&article.Source,
			&article.Country,
			&keyword,
			&article.Sentiment,
			&publishedDate,
			&publishedTime,
			&relevance,
			&latitude,
			&longitude,
		)
		if err != nil {
			return nil, err
		}

		article.ID, _ = uuid.Parse(idStr)
		article.Keyword = keyword.String
		if publishedDate.Valid {
			t := publishedDate.Time
			article.PublishedDate = &t
		}
		article.PublishedTime = publishedTime.String
		article.RelevanceScore = nullFloat(relevance)
		article.Latitude = nullFloat(latitude)
		article.Longitude = nullFloat(longitude)

		articles = append(articles, &article)
	}

	return articles, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
