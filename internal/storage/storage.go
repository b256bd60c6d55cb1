package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/romangod6/newslens/config"
	"github.com/romangod6/newslens/internal/models"
)

type Store interface {
	Initialize() error
	Close() error

	// Ingest. Called once at startup; the dataset is read-only afterwards.
	ImportArticles(ctx context.Context, articles []*models.Article) error

	// Aggregations
	Summary(ctx context.Context) (*models.Summary, error)
	SentimentDistribution(ctx context.Context) ([]*models.NameCount, error)
	TopCountries(ctx context.Context, limit int) ([]*models.NameCount, error)
	ArticlesPerDay(ctx context.Context) ([]*models.TimeBucket, error)
	TopKeywords(ctx context.Context, limit int) ([]*models.NameCount, error)

	// Table view
	ListArticles(ctx context.Context, filter models.ArticleFilter, sortBy, order string, limit, offset int) ([]*models.Article, int, error)
	ListFilterOptions(ctx context.Context) (*models.FilterOptions, error)
	GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error)
}

// NewStore picks a backend from configuration. SQLite with an in-memory
// path is the default and needs no external services.
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.Storage.Type {
	case "sqlite":
		return NewSQLiteStore(cfg.Storage.Path)
	case "postgres":
		return NewPostgresStore(cfg.Storage.URL)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Storage.Type)
	}
}

// sortColumns whitelists the table's sortable columns. Anything else falls
// back to file order.
var sortColumns = map[string]string{
	"title":           "title",
	"source":          "source",
	"country":         "country",
	"keyword":         "keyword",
	"sentiment":       "sentiment",
	"published_date":  "published_date",
	"relevance_score": "relevance_score",
}

func orderClause(sortBy, order string) string {
	column, ok := sortColumns[sortBy]
	if !ok {
		return "ORDER BY seq ASC"
	}

	direction := "ASC"
	if order == "desc" {
		direction = "DESC"
	}

	// Ties fall back to file order so pagination stays stable.
	return fmt.Sprintf("ORDER BY %s %s, seq ASC", column, direction)
}
