// Package server serves the dashboard page, its JSON API and the health and
// metrics endpoints.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ecomdash/ecomdash/internal/analytics"
	"github.com/ecomdash/ecomdash/internal/dashboard"
	"github.com/ecomdash/ecomdash/internal/experiment"
	"github.com/ecomdash/ecomdash/internal/format"
	"github.com/ecomdash/ecomdash/internal/metrics"
	"github.com/ecomdash/ecomdash/internal/observability"
	"github.com/ecomdash/ecomdash/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server. Zero values select the defaults.
type Options struct {
	Addr         string
	Token        string
	TokenFile    string
	Locale       *format.Locale
	Logger       *slog.Logger
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// ActionRateLimit caps POST requests per client IP per minute.
	ActionRateLimit int
	Production      bool
}

type Server struct {
	data    store.Store
	reports *analytics.Service
	live    *metrics.Store
	runner  *experiment.Runner
	metrics *observability.Metrics

	addr         string
	token        string
	tokenFile    string
	locale       *format.Locale
	log          *slog.Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
	rateLimit    int
	production   bool

	templates *template.Template
	css       template.CSS
	router    chi.Router
	startTime time.Time
}

// New wires the server around the dataset store, the live metrics store and
// the experiment runner. The server owns live and runner and closes them when
// Run returns.
func New(data store.Store, live *metrics.Store, runner *experiment.Runner, opts Options) (*Server, error) {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.Token == "" {
		opts.Token = generateToken()
	}
	if opts.Locale == nil {
		opts.Locale = format.MustNew(format.DefaultLocale)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ActionRateLimit <= 0 {
		opts.ActionRateLimit = 30
	}

	tmpl, err := template.ParseFS(dashboard.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	css, err := dashboard.Assets.ReadFile("assets/style.css")
	if err != nil {
		return nil, fmt.Errorf("failed to load styles: %w", err)
	}

	s := &Server{
		data:         data,
		reports:      analytics.NewService(data),
		live:         live,
		runner:       runner,
		metrics:      observability.New(),
		addr:         opts.Addr,
		token:        opts.Token,
		tokenFile:    opts.TokenFile,
		locale:       opts.Locale,
		log:          opts.Logger,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
		rateLimit:    opts.ActionRateLimit,
		production:   opts.Production,
		templates:    tmpl,
		css:          template.CSS(css),
		startTime:    time.Now(),
	}
	s.metrics.TrackState(live.IsRefreshing, func() int { return int(runner.State()) })
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, s.logRequests, chimw.Recoverer, s.secureHeaders(), s.metrics.Middleware)

	// Public endpoints
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Dashboard endpoints (protected)
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/", s.handleDashboard)
		r.Get("/api/summary", s.handleSummaryAPI)
		r.Get("/api/metrics", s.handleMetricsAPI)
		r.Get("/api/funnel", s.handleFunnelAPI)
		r.Get("/api/products", s.handleProductsAPI)
		r.Get("/api/categories", s.handleCategoriesAPI)
		r.Get("/api/activity", s.handleActivityAPI)
		r.Get("/api/pipeline", s.handlePipelineAPI)
		r.Get("/api/experiment", s.handleExperimentAPI)

		r.Group(func(r chi.Router) {
			r.Use(s.actionLimiter())
			r.Post("/refresh", s.handleDashboardRefresh)
			r.Post("/experiment", s.handleDashboardExperiment)
			r.Post("/api/metrics/refresh", s.handleRefreshAPI)
			r.Post("/api/experiment/start", s.handleStartAPI)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		problem(w, http.StatusNotFound, "Not Found", "no route for "+r.URL.Path)
	})
	s.router = r
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully and closes the live store and the runner.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()

	// Write token to file for the token command
	if s.tokenFile != "" {
		if err := os.WriteFile(s.tokenFile, []byte(s.token), 0600); err != nil {
			s.log.Warn("failed to write token file", slog.String("path", s.tokenFile), slog.Any("error", err))
		}
	}

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("server listening", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close suppresses pending refreshes and experiment runs.
func (s *Server) Close() {
	s.live.Close()
	s.runner.Close()
}

func (s *Server) Token() string {
	return s.token
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Metrics() *observability.Metrics {
	return s.metrics
}

func generateToken() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a simple token if crypto/rand fails
		return "a1b2c3d4e5f60718"
	}
	return hex.EncodeToString(bytes)
}
