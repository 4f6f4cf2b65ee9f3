package main

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"circle-planner/config"
	"circle-planner/errors"
	"circle-planner/geometry"
	"circle-planner/layout"
	"circle-planner/planner"
)

const maxBodyBytes = 4 << 20

// RouteRequest is the body of /route and /route.geojson. Sort orders the
// circles by y before validation. MaxExpansions can only lower the configured
// search.max_expansions.
type RouteRequest struct {
	Circles       []geometry.Circle `json:"circles"`
	Sort          bool              `json:"sort,omitempty"`
	MaxExpansions int               `json:"maxExpansions,omitempty"`
	Sequential    bool              `json:"sequential,omitempty"`
}

type RouteResponse struct {
	*planner.Solution
	Waypoints []geometry.Point `json:"waypoints"`
}

type GenerateRequest struct {
	layout.Options
	Seed int64 `json:"seed,omitempty"`
}

type QueryRequest struct {
	Circles []geometry.Circle `json:"circles"`
	MinX    float64           `json:"minX"`
	MinY    float64           `json:"minY"`
	MaxX    float64           `json:"maxX"`
	MaxY    float64           `json:"maxY"`
}

type QueryResponse struct {
	Indices []int `json:"indices"`
}

type server struct {
	cfg    config.Config
	logger *log.Logger
}

// newServer wires the HTTP routes.
func newServer(cfg config.Config, logger *log.Logger) http.Handler {
	s := &server{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(corsMiddleware(cfg.Server.CORSOrigin))

	r.Post("/route", s.routeHandler)
	r.Post("/route.geojson", s.routeGeoJSONHandler)
	r.Post("/generate", s.generateHandler)
	r.Post("/circles/query", s.queryHandler)
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			// Handle preflight
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger tags every request with a uuid and logs one line when it
// completes.
func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), s.logger.With("request", id))))

		s.logger.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// POST /route - plan the cheapest tangent path through a layout
func (s *server) routeHandler(w http.ResponseWriter, r *http.Request) {
	sol, _, err := s.plan(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, RouteResponse{Solution: sol, Waypoints: sol.Waypoints()})
}

// POST /route.geojson - same as /route, rendered as a FeatureCollection
func (s *server) routeGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	sol, l, err := s.plan(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	fc := geometry.FeatureCollection(l, sol.Path)
	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		loggerFromContext(r.Context()).Error("failed to encode response", "err", err)
	}
}

func (s *server) plan(w http.ResponseWriter, r *http.Request) (*planner.Solution, *geometry.Layout, error) {
	var req RouteRequest
	if err := decodeBody(w, r, &req); err != nil {
		return nil, nil, err
	}
	if req.Sort {
		layout.SortByY(req.Circles)
	}
	l, err := geometry.NewLayout(req.Circles)
	if err != nil {
		return nil, nil, err
	}

	opts := []planner.Option{
		planner.WithLogger(loggerFromContext(r.Context())),
		planner.WithTimeout(s.cfg.Search.Timeout.Duration),
		planner.WithMaxExpansions(expansionLimit(s.cfg.Search.MaxExpansions, req.MaxExpansions)),
	}
	if req.Sequential || s.cfg.Search.Sequential {
		opts = append(opts, planner.WithSequential())
	}

	sol, err := planner.Plan(r.Context(), l, opts...)
	if err != nil {
		return nil, nil, err
	}
	return sol, l, nil
}

// POST /generate - build a random layout; zero fields take the configured
// generator values
func (s *server) generateHandler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	opts := s.cfg.Generator.Options
	if req.Count > 0 {
		opts.Count = req.Count
	}
	if req.CoordRange > 0 {
		opts.CoordRange = req.CoordRange
	}
	if req.RadiusRange > 0 {
		opts.RadiusRange = req.RadiusRange
	}
	if req.MinRadius > 0 {
		opts.MinRadius = req.MinRadius
	}
	seed := req.Seed
	if seed == 0 {
		seed = s.cfg.Generator.Seed
	}

	circles, err := layout.Generate(opts, newRand(seed))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, layout.File{Circles: circles})
}

// POST /circles/query - indices of the circles whose bounds meet a region
func (s *server) queryHandler(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.MinX > req.MaxX || req.MinY > req.MaxY {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "region min corner exceeds max corner"))
		return
	}

	l, err := geometry.NewLayout(req.Circles)
	if err != nil {
		writeError(w, r, err)
		return
	}
	indices := geometry.NewSpatialIndex(l).QueryRegion(req.MinX, req.MinY, req.MaxX, req.MaxY)
	if indices == nil {
		indices = []int{}
	}
	writeJSON(w, r, http.StatusOK, QueryResponse{Indices: indices})
}

// GET /health - Health check endpoint
func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "ready",
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		loggerFromContext(r.Context()).Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, r, statusFor(code), map[string]string{
		"code":  string(code),
		"error": errors.UserMessage(err),
	})
}

// expansionLimit returns the cap for one request. A requested cap applies
// only when it is tighter than the configured one; zero means no cap.
func expansionLimit(configured, requested int) int {
	if requested <= 0 {
		return configured
	}
	if configured > 0 && requested > configured {
		return configured
	}
	return requested
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidCircle,
		errors.ErrCodeUnsortedLayout, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeCanceled, errors.ErrCodeIterationLimit:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// newRand seeds from the clock when seed is 0.
func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
