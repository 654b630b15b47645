package server

import (
	"log/slog"
	"net/http"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/liuhuapiaoyuan/activepieces/internal/events"
	"github.com/liuhuapiaoyuan/activepieces/internal/flow"
	"github.com/liuhuapiaoyuan/activepieces/internal/project"
)

// Server implements the HTTP API server for flow management
type Server struct {
	flows    *flow.Service
	projects *project.Service
	hub      *events.Hub
	secret   []byte
}

// NewServer creates a new HTTP API server. The hub feeds the WebSocket
// event stream and may be nil when streaming is disabled
func NewServer(
	flows *flow.Service, projects *project.Service, hub *events.Hub,
	secret []byte,
) *Server {
	return &Server{
		flows:    flows,
		projects: projects,
		hub:      hub,
		secret:   secret,
	}
}

// SetupRoutes configures and returns the HTTP router with all API endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods",
			"GET, POST, PUT, DELETE, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", s.handleHealth)

	// Flow endpoints
	flows := router.Group("/v1/flows", s.requireAuth)
	{
		flows.POST("", s.createFlow)
		flows.POST("/:flowID", s.applyOperation)
		flows.GET("", s.listFlows)
		flows.GET("/count", s.countFlows)
		flows.GET("/:flowID/template", s.getFlowTemplate)
		flows.GET("/:flowID", s.getFlow)
		flows.DELETE("/:flowID", s.deleteFlow)
	}

	// WebSocket event stream
	router.GET("/ws", s.handleWebSocket)

	return router
}
