package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"farmbook/internal/cache"
	"farmbook/internal/core"
	"farmbook/internal/log"
	"farmbook/internal/middleware/ratelimit"
	"farmbook/internal/middleware/security"
	"farmbook/internal/middleware/trace"
	"farmbook/internal/services"
	"farmbook/internal/store"
	"farmbook/internal/weather"
	appweb "farmbook/web"
)

type Server struct {
	http.Server
	logger    *log.Logger
	templates *template.Template

	farms     *services.FarmService
	crops     *services.CropService
	tasks     *services.TaskService
	expenses  *services.ExpenseService
	income    *services.IncomeService
	reports   *services.ReportsService
	dashboard *services.DashboardService
	forecast  weather.Provider

	// reportSeq orders report range changes. A partial request carrying
	// an older sequence number gets 204 so HTMX leaves the DOM alone.
	reportSeq atomic.Int64

	reportCache *cache.LRUCache[reportView]
	statsCache  *cache.LRUCache[services.DashboardStats]
	cacheMgr    *cache.Manager

	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	headersMW   *security.HeadersMiddleware
	tracer      *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires stores, services, caches and middleware into a
// ready-to-run http.Server.
func NewServer(addr string, stores store.Stores, publisher services.SyncPublisher, forecast weather.Provider, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: nil, // set below once the middleware chain is built
		},
		logger:    logger,
		farms:     services.NewFarmService(stores),
		crops:     services.NewCropService(stores),
		tasks:     services.NewTaskService(stores),
		expenses:  services.NewExpenseService(stores, publisher),
		income:    services.NewIncomeService(stores, publisher),
		reports:   services.NewReportsService(stores, stores),
		dashboard: services.NewDashboardService(stores),
		forecast:  forecast,

		reportCache: cache.NewLRUCache[reportView](100, 5*time.Minute),
		statsCache:  cache.NewLRUCache[services.DashboardStats](10, time.Minute),
		cacheMgr:    cache.NewManager(),

		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector:    security.NewDetector(),
		headersMW:   security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	s.cacheMgr.Register(s.reportCache)
	s.cacheMgr.Register(s.statsCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(template.FuncMap{
		"currency": core.FormatCurrency,
		"percent":  core.FormatPercentage,
	}).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Dashboard partials
	mux.HandleFunc("/ui/stats", s.handleStats)
	mux.HandleFunc("/ui/upcoming-tasks", s.handleUpcomingTasks)
	mux.HandleFunc("/ui/recent-expenses", s.handleRecentExpenses)
	mux.HandleFunc("/ui/weather", s.handleWeather)

	// Reports
	mux.HandleFunc("/ui/report", s.handleReport)
	mux.HandleFunc("/reports/range", s.handleReportRange)

	// Record lists
	mux.HandleFunc("/ui/farms", s.handleFarmList)
	mux.HandleFunc("/ui/crops", s.handleCropList)
	mux.HandleFunc("/ui/tasks", s.handleTaskList)
	mux.HandleFunc("/ui/expenses", s.handleExpenseList)
	mux.HandleFunc("/ui/income", s.handleIncomeList)

	// Record mutations
	mux.HandleFunc("/farms", s.handleCreateFarm)
	mux.HandleFunc("/farms/update", s.handleUpdateFarm)
	mux.HandleFunc("/farms/delete", s.handleDeleteFarm)
	mux.HandleFunc("/crops", s.handleCreateCrop)
	mux.HandleFunc("/crops/update", s.handleUpdateCrop)
	mux.HandleFunc("/crops/advance", s.handleAdvanceCrop)
	mux.HandleFunc("/crops/delete", s.handleDeleteCrop)
	mux.HandleFunc("/tasks", s.handleCreateTask)
	mux.HandleFunc("/tasks/update", s.handleUpdateTask)
	mux.HandleFunc("/tasks/toggle", s.handleToggleTask)
	mux.HandleFunc("/tasks/delete", s.handleDeleteTask)
	mux.HandleFunc("/expenses", s.handleCreateExpense)
	mux.HandleFunc("/expenses/update", s.handleUpdateExpense)
	mux.HandleFunc("/expenses/delete", s.handleDeleteExpense)
	mux.HandleFunc("/income", s.handleCreateIncome)
	mux.HandleFunc("/income/update", s.handleUpdateIncome)
	mux.HandleFunc("/income/delete", s.handleDeleteIncome)

	s.Server.Handler = s.tracer.Middleware(s.headersMW.Middleware(s.guard(mux)))

	return s
}

// guard applies rate limiting to mutations and logs suspicious requests.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			s.logger.WarnContext(r.Context(), "Suspicious request detected",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ExtractClientIP(r))
		}

		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			clientIP := s.detector.ExtractClientIP(r)
			if !s.rateLimiter.Allow(clientIP) {
				s.logger.WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// purgeFinancialCaches drops cached reports and dashboard numbers after
// any expense or income write.
func (s *Server) purgeFinancialCaches() {
	s.reportCache.Purge()
	s.statsCache.Purge()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("templates not loaded"))
		return
	}
	if _, err := s.farms.List(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Readiness store check failed", log.FieldError, err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err, "template", name, log.FieldPath, r.URL.Path)
		_, _ = w.Write([]byte(`<div class="error">Rendering failed</div>`))
	}
}
