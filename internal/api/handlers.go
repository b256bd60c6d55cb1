package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/romangod6/newslens/internal/models"
	"github.com/romangod6/newslens/internal/storage"
)

const maxChartLimit = 50

type Handler struct {
	store        storage.Store
	report       *models.LoadReport
	topKeywords  int
	topCountries int
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int         `json:"total_count"`
}

type SummaryResponse struct {
	Summary *models.Summary    `json:"summary"`
	Dataset *models.LoadReport `json:"dataset"`
}

func NewHandler(store storage.Store, report *models.LoadReport, topKeywords, topCountries int) *Handler {
	return &Handler{
		store:        store,
		report:       report,
		topKeywords:  topKeywords,
		topCountries: topCountries,
	}
}

func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.store.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Summary: summary,
		Dataset: h.report,
	})
}

func (h *Handler) GetSentimentDistribution(c *gin.Context) {
	counts, err := h.store.SentimentDistribution(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute sentiment distribution"})
		return
	}

	if counts == nil {
		counts = []*models.NameCount{}
	}

	c.JSON(http.StatusOK, counts)
}

func (h *Handler) GetTopCountries(c *gin.Context) {
	limit, ok := getLimitParam(c, h.topCountries)
	if !ok {
		return
	}

	counts, err := h.store.TopCountries(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute country counts"})
		return
	}

	if counts == nil {
		counts = []*models.NameCount{}
	}

	c.JSON(http.StatusOK, counts)
}

func (h *Handler) GetTimeline(c *gin.Context) {
	buckets, err := h.store.ArticlesPerDay(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute timeline"})
		return
	}

	if buckets == nil {
		buckets = []*models.TimeBucket{}
	}

	c.JSON(http.StatusOK, buckets)
}

func (h *Handler) GetTopKeywords(c *gin.Context) {
	limit, ok := getLimitParam(c, h.topKeywords)
	if !ok {
		return
	}

	counts, err := h.store.TopKeywords(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute top keywords"})
		return
	}

	if counts == nil {
		counts = []*models.NameCount{}
	}

	c.JSON(http.StatusOK, counts)
}

func (h *Handler) GetFilterOptions(c *gin.Context) {
	options, err := h.store.ListFilterOptions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch filter options"})
		return
	}

	c.JSON(http.StatusOK, options)
}

func (h *Handler) ListArticles(c *gin.Context) {
	page, limit := getPaginationParams(c)
	offset := (page - 1) * limit

	filter := models.ArticleFilter{
		Source:    c.Query("source"),
		Country:   c.Query("country"),
		Sentiment: c.Query("sentiment"),
		Keyword:   c.Query("keyword"),
		Query:     c.Query("q"),
	}

	articles, total, err := h.store.ListArticles(c.Request.Context(), filter,
		c.Query("sort"), c.DefaultQuery("order", "asc"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch articles"})
		return
	}

	if articles == nil {
		articles = []*models.Article{}
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Data:       articles,
		Page:       page,
		Limit:      limit,
		TotalCount: total,
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid article ID"})
		return
	}

	article, err := h.store.GetArticle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch article"})
		return
	}

	if article == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Article not found"})
		return
	}

	c.JSON(http.StatusOK, article)
}

// Utility functions
func getPaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}

func getLimitParam(c *gin.Context, fallback int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxChartLimit {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit parameter"})
		return 0, false
	}

	return limit, true
}
