package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is one row of the news dataset. The dataset is loaded once at
// startup and never mutated, so there are no updated-at style fields.
type Article struct {
	ID             uuid.UUID  `json:"id"`
	Seq            int64      `json:"seq"`
	Title          string     `json:"title"`
	Source         string     `json:"source"`
	Country        string     `json:"country"`
	Keyword        string     `json:"keyword"`
	Sentiment      string     `json:"sentiment"`
	PublishedDate  *time.Time `json:"published_date,omitempty"`
	PublishedTime  string     `json:"published_time,omitempty"`
	RelevanceScore *float64   `json:"relevance_score,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
}

type Summary struct {
	TotalArticles   int `json:"total_articles"`
	UniqueSources   int `json:"unique_sources"`
	UniqueCountries int `json:"unique_countries"`
}

// NameCount is one bucket of a grouped count: a pie slice, a bar, or a
// ranked keyword.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TimeBucket is one point of the articles-over-time series. Date is the
// calendar day in YYYY-MM-DD form.
type TimeBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// FilterOptions holds the distinct column values the dashboard offers as
// dropdown filters.
type FilterOptions struct {
	Sources    []string `json:"sources"`
	Countries  []string `json:"countries"`
	Sentiments []string `json:"sentiments"`
}

// ArticleFilter narrows the table view. Zero-value fields are ignored.
// Query matches article titles as a substring.
type ArticleFilter struct {
	Source    string
	Country   string
	Sentiment string
	Keyword   string
	Query     string
}

// LoadReport describes one dataset ingest.
type LoadReport struct {
	Path           string    `json:"path"`
	TotalRows      int       `json:"total_rows"`
	Imported       int       `json:"imported"`
	Skipped        int       `json:"skipped"`
	SkippedReasons []string  `json:"skipped_reasons,omitempty"`
	LoadedAt       time.Time `json:"loaded_at"`
}
