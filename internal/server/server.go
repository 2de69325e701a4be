package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"chatpulse/internal/analytics"
	"chatpulse/internal/filter"
	"chatpulse/internal/metrics"
	"chatpulse/internal/model"
	"chatpulse/internal/rank"
)

// Source loads the rows a refresh analyzes.
type Source interface {
	LoadRows(ctx context.Context) ([]model.Row, error)
}

// Analyzer turns rows into a report.
type Analyzer func(rows []model.Row, opts filter.Options) (*analytics.Report, error)

// Service serves the current report over HTTP. The report is replaced whole
// on every refresh; readers never see a partially built one.
type Service struct {
	src     Source
	analyze Analyzer
	loc     *time.Location

	current atomic.Pointer[analytics.Report]
	opts    atomic.Pointer[filter.Options]

	router  *gin.Engine
	limiter *rate.Limiter
	server  *http.Server
}

func New(src Source, analyze Analyzer, opts filter.Options) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Err(err).Msg("failed to set trusted proxies")
	}
	s := &Service{
		src:     src,
		analyze: analyze,
		loc:     opts.Location,
		router:  router,
		limiter: newDefaultLimiter(),
	}
	s.opts.Store(&opts)
	router.Use(gin.Recovery(), gin.LoggerWithWriter(log.Logger, "/health", "/metrics"), s.countRequests)
	s.initRouter()
	return s
}

func (s *Service) initRouter() {
	s.router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	api := s.router.Group("/api", limit(s.limiter))
	{
		api.GET("/stats", s.handleStats)
		api.GET("/authors", s.handleAuthors)
		api.POST("/refresh", s.handleRefresh)
	}
}

func (s *Service) Router() *gin.Engine { return s.router }

// Current returns the report being served, or nil before the first refresh.
func (s *Service) Current() *analytics.Report { return s.current.Load() }

// Refresh rebuilds the report with the stored filter options. The previous
// report stays in place when the refresh fails.
func (s *Service) Refresh(ctx context.Context) error {
	return s.refreshWith(ctx, *s.opts.Load())
}

func (s *Service) refreshWith(ctx context.Context, opts filter.Options) error {
	rows, err := s.src.LoadRows(ctx)
	if err != nil {
		return err
	}
	rep, err := s.analyze(rows, opts)
	if err != nil {
		return err
	}
	s.opts.Store(&opts)
	s.current.Store(rep)
	return nil
}

func (s *Service) countRequests(c *gin.Context) {
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
}

func (s *Service) handleStats(c *gin.Context) {
	rep := s.Current()
	if rep == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report loaded"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Service) handleAuthors(c *gin.Context) {
	rep := s.Current()
	if rep == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report loaded"})
		return
	}
	metric, err := rank.ParseMetric(c.DefaultQuery("sort", rank.Messages.String()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort", "detail": err.Error()})
		return
	}
	dir := metric.DefaultDirection()
	if v := c.Query("order"); v != "" {
		if dir, err = rank.ParseDirection(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order", "detail": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"sort":    metric.String(),
		"order":   dir.String(),
		"total":   rep.TotalMessages,
		"authors": rep.Rank(metric, dir),
	})
}

type refreshRequest struct {
	After       string `json:"after"`
	Before      string `json:"before"`
	ExcludeBots bool   `json:"excludeBots"`
}

func (s *Service) handleRefresh(c *gin.Context) {
	var req refreshRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
			return
		}
	}
	opts := filter.Options{After: req.After, Before: req.Before, ExcludeBots: req.ExcludeBots, Location: s.loc}
	err := s.refreshWith(c.Request.Context(), opts)
	switch {
	case errors.Is(err, filter.ErrNoData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "no_data"})
	case errors.Is(err, filter.ErrNoDataInRange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "no_data_in_range"})
	case errors.Is(err, filter.ErrBadDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "detail": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed", "detail": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"filter": s.Current().Filter})
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Service) ListenAndServe(ctx context.Context, addr string) error {
	s.server = &http.Server{Addr: addr, Handler: s.router}
	errc := make(chan error, 1)
	go func() { errc <- s.server.ListenAndServe() }()
	log.Info().Msg("starting HTTP server on " + addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		log.Debug().Err(err).Msg("failed to shutdown HTTP server")
	}
	log.Info().Msg("HTTP server stopped")
	return nil
}
