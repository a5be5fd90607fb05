// Package server exposes the document engine over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/facturx/internal/license"
	"github.com/rezonia/facturx/internal/logger"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/quota"
	"github.com/rezonia/facturx/pkg/facturx"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool

	// Optional generation gating. With a verifier and a valid token the
	// quota is bypassed; otherwise the daily tracker applies.
	Verifier     *license.Verifier
	LicenseToken string
	Quota        *quota.Tracker
}

// Server represents the HTTP API server
type Server struct {
	config *Config
	router *gin.Engine
	log    zerolog.Logger
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config: config,
		router: router,
		log:    logger.WithComponent("server"),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/generate", s.handleGenerate)
		v1.POST("/parse", s.handleParse)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/totals", s.handleTotals)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// allowGeneration applies the license/quota gate. It returns false after
// writing the refusal response.
func (s *Server) allowGeneration(c *gin.Context) bool {
	if s.config.Verifier != nil {
		if status := s.config.Verifier.Check(s.config.LicenseToken); status.Valid {
			return true
		}
	}
	if s.config.Quota == nil {
		return true
	}

	ok, _, err := s.config.Quota.Allow()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":     "daily generation quota exhausted",
			"limit":     s.config.Quota.Limit(),
			"remaining": 0,
		})
		return false
	}
	return true
}

func (s *Server) handleGenerate(c *gin.Context) {
	if !s.allowGeneration(c) {
		return
	}

	var inv facturx.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice payload: " + err.Error()})
		return
	}

	result := facturx.Validate(&inv)
	if !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"validation": result})
		return
	}

	xml, err := facturx.Generate(&inv)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if s.config.Quota != nil {
		if err := s.config.Quota.Consume(); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist quota state")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"xml":        xml,
		"profile":    inv.Profile,
		"validation": result,
	})
}

func (s *Server) handleParse(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty request body"})
		return
	}

	inv, err := facturx.Parse(string(body))
	if err != nil {
		status := http.StatusBadRequest
		if _, ok := err.(*model.ParseError); !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": inv})
}

func (s *Server) handleValidate(c *gin.Context) {
	var inv facturx.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice payload: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, facturx.Validate(&inv))
}

func (s *Server) handleTotals(c *gin.Context) {
	var req struct {
		Lines []facturx.InvoiceLine `json:"lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lines payload: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, facturx.Totals(req.Lines))
}
