package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	applog "numus/internal/log"
	"numus/internal/middleware/ratelimit"
	"numus/internal/middleware/security"
	"numus/internal/middleware/trace"
	"numus/internal/render"
	"numus/internal/services"
	appweb "numus/web"
)

// HealthChecker is implemented by stores that can report readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps are the collaborators of the server. Dashboard and Formatter are
// required.
type Deps struct {
	Dashboard *services.Dashboard
	Formatter *render.Formatter
	Logger    *applog.Logger
	Health    HealthChecker
	RateLimit ratelimit.Config
}

type Server struct {
	http.Server
	templates *template.Template
	dashboard *services.Dashboard
	formatter *render.Formatter
	surfaces  *render.Surfaces
	logger    *applog.Logger
	health    HealthChecker

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. A template parse failure is logged and every page then
// answers 500.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		dashboard: deps.Dashboard,
		formatter: deps.Formatter,
		surfaces:  render.NewSurfaces(),
		logger:    logger,
		health:    deps.Health,
		limiter:   ratelimit.NewLimiter(deps.RateLimit),
		detector:  detector,
		tracer:    trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	t, err := template.New("").Funcs(templateFuncs(deps.Formatter)).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	} else {
		s.templates = t
	}

	mux := http.NewServeMux()

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Dashboard
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/dashboard", s.handleDashboardPartial)

	// Objective editor
	mux.HandleFunc("GET /objective", s.handleObjective)
	mux.HandleFunc("GET /objective/edit", s.handleObjectiveEdit)
	mux.HandleFunc("POST /objective", s.handleObjectiveSave)

	// Goals
	mux.HandleFunc("GET /goals/new", s.handleGoalModalOpen)
	mux.HandleFunc("GET /goals/close", s.handleGoalModalClose)
	mux.HandleFunc("POST /goals", s.handleCreateGoal)
	mux.HandleFunc("POST /goals/{id}/contribute", s.handleContribute)

	// Reports
	mux.HandleFunc("GET /reports", s.handleReports)
	mux.HandleFunc("GET /reports/export.csv", s.handleReportsCSV)

	// Account forms
	mux.HandleFunc("GET /account", s.handleAccount)
	mux.HandleFunc("POST /account/signup/validate", s.handleSignupValidate)
	mux.HandleFunc("POST /account/signup", s.handleSignup)
	mux.HandleFunc("POST /account/login/validate", s.handleLoginValidate)
	mux.HandleFunc("POST /account/login", s.handleLogin)

	// JSON API
	mux.HandleFunc("POST /api/transactions", s.handleAPIAddTransaction)
	mux.HandleFunc("/api/records/{name}", s.handleAPIRecord)
	mux.HandleFunc("POST /api/refresh", s.handleAPIRefresh)

	limited := s.limiter.Middleware(detector.ExtractClientIP,
		http.MethodPost, http.MethodPut)(mux)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(limited)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(detector.Middleware(headers)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter cleanup and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Surfaces exposes the chart surfaces, for inspection in tests and
// the refresh endpoint.
func (s *Server) Surfaces() *render.Surfaces { return s.surfaces }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"requests": s.tracer.GetMetrics().TotalRequests,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.health.HealthCheck(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
