package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/romangod6/newslens/internal/api"
	"github.com/romangod6/newslens/internal/models"
	"github.com/romangod6/newslens/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, articles []*models.Article) http.Handler {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Initialize())
	require.NoError(t, store.ImportArticles(context.Background(), articles))

	report := &models.LoadReport{
		Path:      "test.csv",
		TotalRows: len(articles),
		Imported:  len(articles),
		LoadedAt:  time.Now(),
	}

	return api.NewServer(0, store, report, 5, 10).Router()
}

func fixtureArticles() []*models.Article {
	rows := []struct {
		title     string
		source    string
		country   string
		keyword   string
		sentiment string
	}{
		{"Markets rally", "Reuters", "USA", "economy", "positive"},
		{"Protests erupt", "BBC", "UK", "politics", "negative"},
		{"Accord signed", "AP", "Switzerland", "climate", "positive"},
		{"Layoffs announced", "Reuters", "USA", "economy", "negative"},
		{"Talks resume", "Al Jazeera", "Qatar", "politics", "neutral"},
	}

	articles := make([]*models.Article, 0, len(rows))
	for i, r := range rows {
		article := models.NewArticle(int64(i))
		article.Title = r.title
		article.Source = r.source
		article.Country = r.country
		article.Keyword = r.keyword
		article.Sentiment = r.sentiment
		date := time.Date(2024, 3, 12+i%3, 0, 0, 0, 0, time.UTC)
		article.PublishedDate = &date
		articles = append(articles, article)
	}

	return articles
}

func doRequest(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.SummaryResponse
	decode(t, rec, &body)
	require.Equal(t, 5, body.Summary.TotalArticles)
	require.Equal(t, 4, body.Summary.UniqueSources)
	require.Equal(t, 4, body.Summary.UniqueCountries)
	require.Equal(t, "test.csv", body.Dataset.Path)
}

func TestSummaryEndpointEmptyDataset(t *testing.T) {
	router := newTestServer(t, nil)

	rec := doRequest(t, router, "/api/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var body api.SummaryResponse
	decode(t, rec, &body)
	require.Equal(t, 0, body.Summary.TotalArticles)
	require.Equal(t, 0, body.Summary.UniqueSources)
	require.Equal(t, 0, body.Summary.UniqueCountries)
}

func TestSentimentChartSumsToTotal(t *testing.T) {
	articles := fixtureArticles()
	router := newTestServer(t, articles)

	rec := doRequest(t, router, "/api/charts/sentiment")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []models.NameCount
	decode(t, rec, &counts)

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	require.Equal(t, len(articles), total)
}

func TestTimelineEndpoint(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/api/charts/timeline")
	require.Equal(t, http.StatusOK, rec.Code)

	var buckets []models.TimeBucket
	decode(t, rec, &buckets)
	require.NotEmpty(t, buckets)
	for i := 1; i < len(buckets); i++ {
		require.Less(t, buckets[i-1].Date, buckets[i].Date)
	}
}

func TestKeywordsEndpoint(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/api/keywords")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts []models.NameCount
	decode(t, rec, &counts)
	require.LessOrEqual(t, len(counts), 5)
	require.Equal(t, "economy", counts[0].Name)
	for i := 1; i < len(counts); i++ {
		require.GreaterOrEqual(t, counts[i-1].Count, counts[i].Count)
	}
}

func TestKeywordsEndpointInvalidLimit(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	for _, path := range []string{
		"/api/keywords?limit=0",
		"/api/keywords?limit=-1",
		"/api/keywords?limit=abc",
		"/api/keywords?limit=9999",
	} {
		rec := doRequest(t, router, path)
		require.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestArticlesFilterBySource(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/api/articles?source=Reuters")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []models.Article `json:"data"`
		TotalCount int              `json:"total_count"`
	}
	decode(t, rec, &body)
	require.Equal(t, 2, body.TotalCount)
	require.Len(t, body.Data, 2)
	for _, a := range body.Data {
		require.Equal(t, "Reuters", a.Source)
	}
}

func TestArticlesPaginationEnvelope(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/api/articles?page=2&limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []models.Article `json:"data"`
		Page       int              `json:"page"`
		Limit      int              `json:"limit"`
		TotalCount int              `json:"total_count"`
	}
	decode(t, rec, &body)
	require.Equal(t, 2, body.Page)
	require.Equal(t, 2, body.Limit)
	require.Equal(t, 5, body.TotalCount)
	require.Len(t, body.Data, 2)
	require.Equal(t, int64(2), body.Data[0].Seq)
}

func TestArticlesEmptyDataset(t *testing.T) {
	router := newTestServer(t, nil)

	rec := doRequest(t, router, "/api/articles")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data       []models.Article `json:"data"`
		TotalCount int              `json:"total_count"`
	}
	decode(t, rec, &body)
	require.Empty(t, body.Data)
	require.Equal(t, 0, body.TotalCount)
}

func TestGetArticleByID(t *testing.T) {
	articles := fixtureArticles()
	router := newTestServer(t, articles)

	rec := doRequest(t, router, "/api/articles/"+articles[0].ID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Article
	decode(t, rec, &got)
	require.Equal(t, articles[0].Title, got.Title)
}

func TestGetArticleInvalidID(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/api/articles/not-a-uuid")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetArticleNotFound(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/api/articles/"+uuid.NewString())
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFilterOptionsEndpoint(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/api/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	var options models.FilterOptions
	decode(t, rec, &options)
	require.Contains(t, options.Sources, "BBC")
	require.Contains(t, options.Countries, "Qatar")
	require.Contains(t, options.Sentiments, "neutral")
}

func TestServerStopsCleanlyOnShutdown(t *testing.T) {
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Initialize())

	server := api.NewServer(0, store, &models.LoadReport{}, 5, 10)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	// Give ListenAndServe a moment to bind before shutting down.
	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(ctx))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}

func TestDashboardPage(t *testing.T) {
	router := newTestServer(t, fixtureArticles())

	rec := doRequest(t, router, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Global News Dashboard")
}
