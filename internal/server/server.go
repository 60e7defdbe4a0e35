// Package server exposes the advisory HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"StockAdvisor/internal/metrics"
	"StockAdvisor/internal/model"
)

// Predictor serves the probability of a price rise.
type Predictor interface {
	Predict() model.Prediction
	Ready() bool
}

// PriceSource returns the latest traded price, or nil when unknown.
type PriceSource interface {
	LivePrice(ctx context.Context) *float64
}

// Server is the advisory HTTP service.
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig describes the server's dependencies.
type ServerConfig struct {
	Addr           string
	Predictor      Predictor
	Prices         PriceSource // optional
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer // defaults to prometheus.DefaultGatherer
	Currency       string
	DefaultCapital int64
}

// NewServer builds the router and registers all routes.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Predictor == nil {
		return nil, errors.New("server requires a predictor")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8000"
	}
	if cfg.DefaultCapital <= 0 {
		cfg.DefaultCapital = 10000
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), cors())

	h := &chatHandler{
		predictor:      cfg.Predictor,
		prices:         cfg.Prices,
		metrics:        cfg.Metrics,
		currency:       cfg.Currency,
		defaultCapital: cfg.DefaultCapital,
	}
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "AI Stock Advisory API is running"})
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "model_ready": cfg.Predictor.Ready()})
	})
	router.POST("/chat", h.handleChat)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	return &Server{addr: cfg.Addr, router: router}, nil
}

// requestLogger tags each request with an ID and logs its outcome.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
		log.Debug().
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("ip", c.ClientIP()).
			Dur("dur", time.Since(start)).
			Msg("http request")
	}
}

// cors allows any origin, method and header.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start serves HTTP until ctx is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Info().Str("addr", s.addr).Msg("http server listening")

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
