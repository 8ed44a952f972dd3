package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"planner/internal/analytics"
	"planner/internal/auth"
	"planner/internal/ids"
	"planner/internal/metrics"
	"planner/internal/resources"
	"planner/internal/storage"
)

// Options configures a Server.
type Options struct {
	Store       storage.Store
	Tokens      *auth.Tokens
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	StaticDir   string
	CORSOrigins []string
}

// Server provides HTTP handlers for the planner backend.
type Server struct {
	engine    *gin.Engine
	handler   http.Handler
	auth      *auth.Service
	resources *resources.Service
	analytics *analytics.Aggregator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	idgen := ids.New()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	srv := &Server{
		engine:    router,
		auth:      auth.NewService(opts.Store, opts.Tokens, idgen, logger),
		resources: resources.NewService(opts.Store, idgen, logger),
		analytics: analytics.New(opts.Store),
		metrics:   m,
		logger:    logger,
		staticDir: opts.StaticDir,
	}
	router.Use(srv.requestID(), srv.accessLog(), srv.instrument())

	srv.registerRoutes()

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	srv.handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(router)

	return srv
}

// Handler returns the engine wrapped with CORS handling; serve this one.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.POST("/register", s.handleRegister)
		api.POST("/login", s.handleLogin)
		api.GET("/analytics", s.handleGlobalAnalytics)

		private := api.Group("", s.requireAuth())
		{
			private.GET("/user-analytics", s.handleUserAnalytics)

			projects := private.Group("/projects")
			{
				projects.GET("", s.handleListProjects)
				projects.POST("", s.handleCreateProject)
				projects.PUT(":id", s.handleUpdateProject)
				projects.DELETE(":id", s.handleDeleteProject)
			}

			tasks := private.Group("/tasks")
			{
				tasks.GET("", s.handleListTasks)
				tasks.POST("", s.handleCreateTask)
				tasks.PUT(":id", s.handleUpdateTask)
				tasks.DELETE(":id", s.handleDeleteTask)
			}
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondSuccess writes payload as JSON, or just the status when payload is nil.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// respondMessage writes the {"message": ...} body used for confirmations and errors.
func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
