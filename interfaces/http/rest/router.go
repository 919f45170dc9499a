package rest

import (
	"net/http"
	"time"

	"github.com/RithishKumarK/supreme/interfaces/http/rest/handlers"
	"github.com/RithishKumarK/supreme/interfaces/http/rest/middleware"
	"github.com/RithishKumarK/supreme/interfaces/websocket"
	"github.com/RithishKumarK/supreme/internal/infrastructure/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig selects the optional parts of the HTTP surface
type RouterConfig struct {
	AllowedOrigins []string
	ServiceName    string
	EnableTracing  bool
}

// Router creates and configures the HTTP router
type Router struct {
	sessions  *handlers.SessionHandler
	websocket *websocket.Server
	metrics   *observability.Collector
	config    RouterConfig
	logger    *zap.Logger
	started   time.Time
}

// NewRouter creates a new router instance. ws and metrics may be nil to
// leave those endpoints out.
func NewRouter(
	sessions *handlers.SessionHandler,
	ws *websocket.Server,
	metrics *observability.Collector,
	config RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		sessions:  sessions,
		websocket: ws,
		metrics:   metrics,
		config:    config,
		logger:    logger,
		started:   time.Now(),
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(observability.MetricsMiddleware(rt.metrics))
	}
	if rt.config.EnableTracing {
		router.Use(observability.TracingMiddleware(rt.config.ServiceName))
	}

	origins := rt.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Location"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", rt.sessions.CreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", rt.sessions.GetSession)
			r.Delete("/", rt.sessions.DeleteSession)
			r.Post("/nodes", rt.sessions.AddNode)
			r.Post("/edges", rt.sessions.AddEdge)
			r.Post("/prompt", rt.sessions.SubmitPrompt)
			r.Post("/generate", rt.sessions.GenerateCode)
			r.Get("/artifact", rt.sessions.GetArtifact)
		})
	})

	if rt.websocket != nil {
		router.Get("/ws/sessions/{sessionID}", rt.websocket.HandleWebSocket)
	}

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","uptime":"` + time.Since(rt.started).Round(time.Second).String() + `"}`))
}
