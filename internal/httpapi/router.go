// Package httpapi serves the dashboard's JSON API and entry page.
package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vburojevic/sysdash/internal/dispatch"
	"github.com/vburojevic/sysdash/internal/domain"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Aggregator provides the read views
type Aggregator interface {
	Status(ctx context.Context) domain.StatusSnapshot
	Alerts() domain.AlertSummary
	Recommendations() domain.RecommendationSet
	Apps() domain.MonitoredApps
	Activity(lines int) []string
	Logs(logType domain.LogType, lines int) []string
	Report() domain.ReportDocument
}

// Launcher starts maintenance jobs
type Launcher interface {
	Launch(name string) (domain.JobLaunchResult, error)
}

// Options configures the router
type Options struct {
	Hostname string
	// Command is the operator hint shown on the entry page
	Command  string
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
}

// NewRouter wires every route
func NewRouter(agg Aggregator, launcher Launcher, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &handlers{agg: agg, launcher: launcher, opts: opts, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/status", h.status)
		api.Get("/alerts", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, agg.Alerts())
		})
		api.Get("/activity", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string][]string{"activity": agg.Activity(linesParam(r))})
		})
		api.Get("/recommendations", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, agg.Recommendations())
		})
		api.Get("/apps", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, agg.Apps())
		})
		api.Get("/report", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, agg.Report())
		})
		api.Get("/logs", func(w http.ResponseWriter, r *http.Request) {
			logType := domain.ParseLogType(r.URL.Query().Get("type"))
			writeJSON(w, http.StatusOK, map[string][]string{"lines": agg.Logs(logType, linesParam(r))})
		})
		api.Post("/trigger/{job}", h.trigger)
	})

	return r
}

type handlers struct {
	agg      Aggregator
	launcher Launcher
	opts     Options
	log      *zap.Logger
}

func (h *handlers) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]string{"Hostname": h.opts.Hostname, "Command": h.opts.Command}
	if err := indexTemplate.Execute(w, data); err != nil {
		h.log.Error("render index", zap.Error(err))
	}
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	snap := h.agg.Status(r.Context())
	if r.Context().Err() != nil {
		// Client went away mid-collection; drop the partial snapshot.
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type triggerResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	LaunchID  string     `json:"launch_id,omitempty"`
	Error     string     `json:"error,omitempty"`
}

func (h *handlers) trigger(w http.ResponseWriter, r *http.Request) {
	res, err := h.launcher.Launch(chi.URLParam(r, "job"))
	if err != nil {
		writeJSON(w, triggerStatus(err), triggerResponse{Success: false, Error: err.Error()})
		return
	}
	ts := res.Timestamp
	writeJSON(w, http.StatusOK, triggerResponse{Success: true, Message: res.Message, Timestamp: &ts, LaunchID: res.LaunchID})
}

// triggerStatus maps a launch error to an HTTP status
func triggerStatus(err error) int {
	switch dispatch.KindOf(err) {
	case dispatch.KindInvalidJob:
		return http.StatusBadRequest
	case dispatch.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// linesParam returns the lines query value, or 0 when absent or not an
// integer. The aggregator maps 0 to the default count.
func linesParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("lines"))
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
