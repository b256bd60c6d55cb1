package api

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/romangod6/newslens/internal/models"
	"github.com/romangod6/newslens/internal/storage"
	"github.com/romangod6/newslens/web"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

func NewServer(port int, store storage.Store, report *models.LoadReport, topKeywords, topCountries int) *Server {
	router := gin.Default()

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Create handler
	handler := NewHandler(store, report, topKeywords, topCountries)

	// Setup routes
	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		api.GET("/summary", handler.GetSummary)
		api.GET("/keywords", handler.GetTopKeywords)
		api.GET("/filters", handler.GetFilterOptions)

		// Chart data
		charts := api.Group("/charts")
		{
			charts.GET("/sentiment", handler.GetSentimentDistribution)
			charts.GET("/countries", handler.GetTopCountries)
			charts.GET("/timeline", handler.GetTimeline)
		}

		// Article table
		articles := api.Group("/articles")
		{
			articles.GET("", handler.ListArticles)
			articles.GET("/:id", handler.GetArticle)
		}
	}

	// Dashboard page
	static, _ := fs.Sub(web.Static, "static")
	router.StaticFS("/static", http.FS(static))
	router.GET("/", func(c *gin.Context) {
		page, err := fs.ReadFile(static, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "dashboard page unavailable")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})

	return &Server{
		router: router,
		port:   port,
	}
}

// Router exposes the gin engine for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Shutdown surfaces as ErrServerClosed here; that is a clean stop,
	// not a startup failure.
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
