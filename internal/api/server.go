package api

import (
	"goentropy/internal/container"
	"goentropy/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// Server exposes the audit, lottery, demo, pool and export endpoints
type Server struct {
	router    *gin.Engine
	container *container.Container
	events    *EventHub
}

// NewServer creates the router and registers every route
func NewServer(c *container.Container) *Server {
	if c.Config.Server.GinMode != "" {
		gin.SetMode(c.Config.Server.GinMode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = c.Config.Server.MaxUploadBytes

	s := &Server{router: router, container: c, events: NewEventHub(c.Logger)}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	auditGroup := s.router.Group("/audit")
	auditGroup.Use(s.limitBody())
	auditGroup.POST("/upload", s.handleAuditUpload)
	auditGroup.POST("/batch", s.handleAuditBatch)

	lottery := s.router.Group("/lottery")
	lottery.POST("/draw", s.handleLotteryDraw)
	lottery.POST("/verify", s.handleLotteryVerify)

	s.router.GET("/demo/generate", s.handleDemo)

	pool := s.router.Group("/entropy")
	pool.GET("/status", s.handleEntropyStatus)
	pool.POST("/feed", s.handleEntropyFeed)
	pool.GET("/events", s.events.HandleSSE)

	s.router.POST("/api/generate_nist_data", s.handleNISTExport)

	if s.container.Config.Server.MetricsEnabled {
		s.router.GET("/metrics", gin.WrapH(telemetry.Handler()))
	}
}

// Events returns the hub behind /entropy/events
func (s *Server) Events() *EventHub {
	return s.events
}

// Router returns the underlying gin engine
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the HTTP server on addr
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}
