package server

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"pigdevice/src/interfaces"
	"pigdevice/src/logger"
	"pigdevice/src/models"
	"pigdevice/src/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed templates/device.html
var templateFS embed.FS

// -----------------------------------------------------------------------------
// WebServer
// -----------------------------------------------------------------------------

type WebServer struct {
	Config  *models.MConfig
	Logger  *logger.Logger
	engine  *gin.Engine
	store   interfaces.IDeviceStore
	adapter interfaces.ITelemetryAdapter
	metrics *observability.Metrics

	// WebSocket clients and per-device watches (owned by the hub loop)
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	broadcast  chan models.MStatePush // Buffered Queue

	startedAt time.Time
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewWebServer(
	cfg *models.MConfig,
	log *logger.Logger,
	store interfaces.IDeviceStore,
	adapter interfaces.ITelemetryAdapter,
	metrics *observability.Metrics,
) *WebServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &WebServer{
		Config:     cfg,
		Logger:     log,
		engine:     gin.Default(),
		store:      store,
		adapter:    adapter,
		metrics:    metrics,
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		// Buffered so mutation handlers never block on fan-out bursts
		broadcast: make(chan models.MStatePush, 256),
		startedAt: time.Now(),
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/device.html")))

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *WebServer) setupRoutes() {
	// REST API endpoints
	s.engine.POST("/api/publish", s.publishTelemetry)
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	// Device mutation endpoints
	s.engine.POST("/api/:deviceId/add/:cents", s.addCents)
	s.engine.POST("/api/:deviceId/set/:cents", s.setCents)
	s.engine.POST("/api/:deviceId/simulate", s.simulateTelemetry)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)

	// Device balance page (kept last: the bare path parameter would
	// otherwise shadow fixed routes)
	s.engine.GET("/:deviceId", s.devicePage)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("pigdevice listening on http://%s/<DEVICE_ID>", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *WebServer) Stop() error {
	// Clean shutdown
	close(s.broadcast)
	close(s.register)
	close(s.unregister)
	return nil
}

// -----------------------------------------------------------------------------

// Engine exposes the router for httptest-based tests.
func (s *WebServer) Engine() *gin.Engine {
	return s.engine
}
