package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"GameNewsBot/internal/domain"
)

// StatsProvider exposes pipeline observability to the HTTP surface.
type StatsProvider interface {
	LastOutcome() domain.TickOutcome
	ReserveCount(ctx context.Context) (int, error)
}

// Server hosts the health and stats endpoints. It stays responsive no
// matter what the pipeline is doing.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer registers routes on a fresh gin engine.
func NewServer(port string, stats StatsProvider, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "running",
			"service":   "Telegram News Bot",
			"timestamp": time.Now().Unix(),
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	r.GET("/stats", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := stats.ReserveCount(ctx)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":       "active",
			"reserve_news": count,
			"last_tick":    string(stats.LastOutcome()),
		})
	})

	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background; listen errors are logged, not fatal to
// the pipeline.
func (s *Server) Start() {
	go func() {
		s.logger.Info("http server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "error", err)
		}
	}()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
