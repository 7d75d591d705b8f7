package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/gaiashield/gaiashield/internal/application/analyze"
	"github.com/gaiashield/gaiashield/internal/domain/analysis"
	"github.com/gaiashield/gaiashield/internal/middleware"
)

type Router struct {
	svc *analyze.Service
}

// Options carries the handlers and policies wired in by main.
type Options struct {
	Health      http.HandlerFunc
	Metrics     http.HandlerFunc
	CORSOrigins []string
	RateLimit   int // requests per minute per client IP; 0 disables
}

func NewRouter(svc *analyze.Service, opts Options) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}))
	}
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if opts.RateLimit > 0 {
		mux.Use(middleware.RateLimitMiddleware(opts.RateLimit, opts.RateLimit/60+1))
	}

	if opts.Health != nil {
		mux.Get("/health", opts.Health)
	} else {
		mux.Get("/health", middleware.LivenessHandler)
	}
	if opts.Metrics != nil {
		mux.Get("/metrics", opts.Metrics)
	}

	mux.Route("/api/analyze", func(rt chi.Router) {
		rt.Post("/climate_guard", r.wrap(r.handleClimate))
		rt.Post("/business_shield", r.wrap(r.handleBusiness))
		rt.Post("/cyberprotect", r.wrap(r.handleCyber))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type errorBody struct {
	Error      string               `json:"error"`
	Message    string               `json:"message"`
	Violations []analysis.Violation `json:"violations,omitempty"`
}

// wrap converts the closed error taxonomy into HTTP statuses. Validation is
// the caller's fault (400); model unavailability is a retryable upstream
// failure (503); a schema violation means the model broke its contract (500).
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var (
			valErr    *analysis.ValidationError
			confErr   *analysis.ConfigurationError
			modelErr  *analysis.ModelUnavailableError
			schemaErr *analysis.SchemaError
		)
		switch {
		case errors.As(err, &valErr):
			writeError(w, http.StatusBadRequest, errorBody{
				Error:      "validation_error",
				Message:    "request validation failed",
				Violations: valErr.Violations,
			})
		case errors.As(err, &modelErr):
			writeError(w, http.StatusServiceUnavailable, errorBody{
				Error:   "model_unavailable",
				Message: modelErr.Error(),
			})
		case errors.As(err, &confErr):
			writeError(w, http.StatusServiceUnavailable, errorBody{
				Error:   "configuration_error",
				Message: confErr.Error(),
			})
		case errors.As(err, &schemaErr):
			writeError(w, http.StatusInternalServerError, errorBody{
				Error:      "schema_error",
				Message:    "model response failed schema validation",
				Violations: schemaErr.Violations,
			})
		default:
			writeError(w, http.StatusInternalServerError, errorBody{
				Error:   "internal_error",
				Message: err.Error(),
			})
		}
	}
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}

// POST /api/analyze/climate_guard
func (r *Router) handleClimate(w http.ResponseWriter, req *http.Request) error {
	var body analysis.ClimateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &analysis.ValidationError{Violations: []analysis.Violation{{Field: "", Message: "malformed JSON body: " + err.Error()}}}
	}
	body.ApplyDefaults()
	if err := body.Validate(); err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	resp, err := r.svc.Climate(req.Context(), body)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	return writeJSON(w, resp)
}

// POST /api/analyze/business_shield
func (r *Router) handleBusiness(w http.ResponseWriter, req *http.Request) error {
	var body analysis.BusinessRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &analysis.ValidationError{Violations: []analysis.Violation{{Field: "", Message: "malformed JSON body: " + err.Error()}}}
	}
	body.ApplyDefaults()
	if err := body.Validate(); err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	resp, err := r.svc.Business(req.Context(), body)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	return writeJSON(w, resp)
}

// POST /api/analyze/cyberprotect
func (r *Router) handleCyber(w http.ResponseWriter, req *http.Request) error {
	var body analysis.CyberRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &analysis.ValidationError{Violations: []analysis.Violation{{Field: "", Message: "malformed JSON body: " + err.Error()}}}
	}
	body.ApplyDefaults()
	if err := body.Validate(); err != nil {
		return err
	}

	middleware.IncrementAnalyses()
	resp, err := r.svc.Cyber(req.Context(), body)
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	return writeJSON(w, resp)
}
