package server

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "crosscheck/internal/api/v1"
	"crosscheck/internal/config"
	"crosscheck/internal/exporter"
	"crosscheck/internal/importer"
	"crosscheck/internal/store"
)

// Server is the HTTP front end over the reconciliation coordinator and the
// run store.
type Server struct {
	router *gin.Engine
	store  *store.Store
	v1     *v1.Handler
	logger *zap.Logger
}

// NewServer wires the store, coordinator, and API handler.
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dataDir, "crosscheck.db")

	st, err := store.New(dbPath)
	if err != nil {
		return nil, err
	}

	coordinator := importer.NewCoordinator(cfg, st, logger)
	filingsDir := filepath.Join(dataDir, "filings")
	handler := v1.NewHandler(st, coordinator, exporter.NewExporter(), filingsDir)

	s := &Server{
		router: gin.Default(),
		store:  st,
		v1:     handler,
		logger: logger,
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api/v1")
	{
		s.v1.RegisterRoutes(api)
	}
}

// Run starts the HTTP server on addr, blocking until it exits.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the server's store.
func (s *Server) Close() error {
	return s.store.Close()
}
