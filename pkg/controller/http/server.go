package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/riskregister/pkg/usecase"
	"github.com/secmon-lab/riskregister/pkg/utils/logging"
)

type Server struct {
	router      *chi.Mux
	uc          *usecase.UseCases
	corsOrigins []string
}

type Options func(*Server)

// WithCORSOrigins sets the origins allowed to call the API from a browser
func WithCORSOrigins(origins []string) Options {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		uc:          uc,
		corsOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	r.Use(metricsRecorder)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", listCategoriesHandler(uc.Category))
			r.Post("/", createCategoryHandler(uc.Category))
			r.Get("/stats", categoryStatsHandler(uc.Category))
			r.Get("/{id}", getCategoryHandler(uc.Category))
			r.Get("/{id}/hazards", getCategoryHazardsHandler(uc.Category))
			r.Put("/{id}", updateCategoryHandler(uc.Category))
			r.Delete("/{id}", deleteCategoryHandler(uc.Category))
		})

		r.Route("/hazards", func(r chi.Router) {
			r.Get("/", listHazardsHandler(uc.Hazard))
			r.Post("/", createHazardHandler(uc.Hazard))
			r.Get("/search", searchHazardsHandler(uc.Hazard))
			r.Get("/filter", filterHazardsHandler(uc.Hazard))
			r.Get("/category/{categoryId}", listCategoryHazardsHandler(uc.Hazard))
			r.Get("/{id}", getHazardHandler(uc.Hazard))
			r.Put("/{id}", updateHazardHandler(uc.Hazard))
			r.Delete("/{id}", deleteHazardHandler(uc.Hazard))
		})

		r.Route("/risks", func(r chi.Router) {
			r.Get("/", listRisksHandler(uc.Risk))
			r.Post("/", createRiskHandler(uc.Risk))
			r.Get("/top", topRisksHandler(uc.Risk))
			r.Get("/summary", riskSummaryHandler(uc.Risk))
			r.Get("/export", exportRisksHandler(uc.Risk))
			r.Get("/{id}", getRiskHandler(uc.Risk))
			r.Put("/{id}", updateRiskHandler(uc.Risk))
			r.Delete("/{id}", deleteRiskHandler(uc.Risk))
		})

		r.Get("/departments", listDepartmentsHandler(uc.Reference))
		r.Get("/groups", listGroupsHandler(uc.Reference))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger logs every request and stores a request scoped logger
// carrying the request ID in the context
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		ctx := logging.With(r.Context(), logger)

		defer func() {
			logger.Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r.WithContext(ctx))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
