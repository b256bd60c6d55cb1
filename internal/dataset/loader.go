package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/romangod6/newslens/internal/models"
)

// Column names expected in the dataset file. Header names are matched after
// trimming surrounding whitespace.
const (
	ColTitle          = "title"
	ColSource         = "source"
	ColCountry        = "country"
	ColPublishedDate  = "published_date"
	ColPublishedTime  = "published_time"
	ColKeyword        = "keyword"
	ColSentiment      = "sentiment"
	ColRelevanceScore = "relevance_score"
	ColLatitude       = "latitude"
	ColLongitude      = "longitude"
)

var requiredColumns = []string{
	ColTitle, ColSource, ColCountry, ColPublishedDate, ColKeyword, ColSentiment,
}

// Source dates are day-first. ISO is accepted as a fallback.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
}

const timeLayout = "15:04:05"

// Fill values for blank cells, matching the upstream dataset conventions.
const (
	unknownSentiment = "unknown"
	unknownCountry   = "Unknown"
)

type Loader struct {
	path     string
	encoding string
}

func NewLoader(path, encoding string) *Loader {
	return &Loader{path: path, encoding: encoding}
}

// Load reads and cleans the dataset file. Rows with a missing title or
// source, or with a malformed record, are skipped and counted in the
// report. An empty or header-only file yields zero articles without error.
func (l *Loader) Load() ([]*models.Article, *models.LoadReport, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset %s: %w", l.path, err)
	}
	defer f.Close()

	articles, report, err := l.parse(f)
	if err != nil {
		return nil, nil, err
	}
	report.Path = l.path

	return articles, report, nil
}

func (l *Loader) parse(r io.Reader) ([]*models.Article, *models.LoadReport, error) {
	if l.encoding == "latin1" {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &models.LoadReport{LoadedAt: time.Now()}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, nil, err
	}

	report := &models.LoadReport{LoadedAt: time.Now()}
	var articles []*models.Article
	var seq int64

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.TotalRows++
			report.Skipped++
			report.SkippedReasons = append(report.SkippedReasons,
				fmt.Sprintf("row %d: %v", report.TotalRows, err))
			continue
		}

		report.TotalRows++

		article, reason := buildArticle(columns, record, seq)
		if article == nil {
			report.Skipped++
			report.SkippedReasons = append(report.SkippedReasons,
				fmt.Sprintf("row %d: %s", report.TotalRows, reason))
			continue
		}

		articles = append(articles, article)
		seq++
	}

	report.Imported = len(articles)

	return articles, report, nil
}

// mapColumns resolves header names to indexes, trimming whitespace the way
// the upstream file needs. Every required column must be present.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("dataset is missing required column %q", name)
		}
	}

	return columns, nil
}

func buildArticle(columns map[string]int, record []string, seq int64) (*models.Article, string) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	title := field(ColTitle)
	if title == "" {
		return nil, "blank title"
	}
	source := field(ColSource)
	if source == "" {
		return nil, "blank source"
	}

	article := models.NewArticle(seq)
	article.Title = title
	article.Source = source
	article.Keyword = field(ColKeyword)

	if article.Country = field(ColCountry); article.Country == "" {
		article.Country = unknownCountry
	}
	if article.Sentiment = field(ColSentiment); article.Sentiment == "" {
		article.Sentiment = unknownSentiment
	}

	article.PublishedDate = parseDate(field(ColPublishedDate))
	article.PublishedTime = parseTime(field(ColPublishedTime))
	article.RelevanceScore = parseFloat(field(ColRelevanceScore))
	article.Latitude = parseFloat(field(ColLatitude))
	article.Longitude = parseFloat(field(ColLongitude))

	return article, ""
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func parseTime(value string) string {
	if value == "" {
		return ""
	}
	if _, err := time.Parse(timeLayout, value); err != nil {
		return ""
	}
	return value
}

func parseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}
