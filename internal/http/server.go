package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
	"github.com/denisok6893-rgb/property-call-search/internal/logging"
	"github.com/denisok6893-rgb/property-call-search/internal/matching"
	"github.com/denisok6893-rgb/property-call-search/internal/metrics"
)

const defaultInventoryTimeout = 2 * time.Second

// PropertyStore is the read side of the property inventory.
type PropertyStore interface {
	GetAllProperties(ctx context.Context) ([]domain.Property, error)
	GetProperty(ctx context.Context, id string) (domain.Property, bool, error)
	// ListProperties returns one page and the total number of properties.
	ListProperties(ctx context.Context, limit, offset int) ([]domain.Property, int, error)
}

// CallUpdater attaches search metadata to an in-progress call.
type CallUpdater interface {
	UpdateCall(ctx context.Context, u domain.CallUpdate) error
}

type Server struct {
	Engine *matching.Engine
	Store  PropertyStore
	// Calls is optional; without it webhook results are not attached anywhere.
	Calls            CallUpdater
	Metrics          *metrics.Metrics
	Gatherer         prometheus.Gatherer
	Logger           zerolog.Logger
	InventoryTimeout time.Duration
	CORSOrigins      []string
}

// NewServer returns a server with its own metrics registry and a disabled
// logger. Callers override the exported fields before calling Routes.
func NewServer(engine *matching.Engine, store PropertyStore) *Server {
	reg := prometheus.NewRegistry()
	return &Server{
		Engine:           engine,
		Store:            store,
		Metrics:          metrics.New(reg),
		Gatherer:         reg,
		Logger:           zerolog.Nop(),
		InventoryTimeout: defaultInventoryTimeout,
		CORSOrigins:      []string{"*"},
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(logging.HTTPMiddleware(s.Logger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/demo", s.handleDemo)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/webhooks/call-search", s.handleCallSearch)
		r.Get("/properties", s.handlePropertiesList)
		r.Get("/properties/{propertyID}", s.handlePropertiesGetByID)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
