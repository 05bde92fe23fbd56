// Package api provides REST API endpoints for parsed navigation data.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"cifparse/internal/storage"
)

// Server provides REST API access to the parsed record store.
type Server struct {
	db          *storage.DB
	port        int
	authEnabled bool
	apiKeys     map[string]bool // Simple API key auth (when enabled).
}

// Config holds configuration for the API server.
type Config struct {
	Port        int
	AuthEnabled bool
	APIKeys     []string // List of valid API keys.
}

// NewServer creates a new API server over the given store.
func NewServer(db *storage.DB, cfg Config) *Server {
	keys := make(map[string]bool)
	for _, k := range cfg.APIKeys {
		if k != "" {
			keys[k] = true
		}
	}

	return &Server{
		db:          db,
		port:        cfg.Port,
		authEnabled: cfg.AuthEnabled,
		apiKeys:     keys,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for browser access.
	r.Use(corsMiddleware)

	r.Mount("/api/v1", s.Router())

	addr := ":" + strconv.Itoa(s.port)
	slog.Info("navdata API starting", "addr", addr, "auth", s.authEnabled)

	return http.ListenAndServe(addr, r)
}

// Router returns the configured chi router for embedding in other servers.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Health check (no auth required).
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.authEnabled {
			r.Use(s.authMiddleware)
		}

		r.Get("/navaids/{id}", s.handleGetNavaids)
		r.Get("/airports/{id}", s.handleGetAirport)
		r.Get("/waypoints/{id}", s.handleGetWaypoints)
		r.Get("/stats", s.handleGetStats)

		// Batch lookup for multiple navaids.
		r.Post("/navaids/batch", s.handleBatchNavaids)
	})

	return r
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware validates API key authentication.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check X-API-Key header first.
		apiKey := r.Header.Get("X-API-Key")

		// Fall back to Authorization: Bearer <key>.
		if apiKey == "" {
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				apiKey = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		// Fall back to query parameter (for simple testing).
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if apiKey == "" {
			writeError(w, http.StatusUnauthorized, "API key required")
			return
		}

		if !s.apiKeys[apiKey] {
			writeError(w, http.StatusForbidden, "Invalid API key")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetNavaids(w http.ResponseWriter, r *http.Request) {
	id := strings.ToUpper(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	limit, offset := pagination(r)
	navaids, err := s.db.Navaids(storage.NavaidQuery{
		ID:     id,
		Region: strings.ToUpper(r.URL.Query().Get("region")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if len(navaids) == 0 {
		writeError(w, http.StatusNotFound, "No navaid found")
		return
	}

	writeJSON(w, http.StatusOK, navaids)
}

func (s *Server) handleGetAirport(w http.ResponseWriter, r *http.Request) {
	id := strings.ToUpper(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	airport, err := s.db.AirportByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if airport == nil {
		writeError(w, http.StatusNotFound, "No airport found")
		return
	}

	writeJSON(w, http.StatusOK, airport)
}

func (s *Server) handleGetWaypoints(w http.ResponseWriter, r *http.Request) {
	id := strings.ToUpper(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	limit, offset := pagination(r)
	waypoints, err := s.db.Waypoints(storage.WaypointQuery{
		ID:     id,
		Region: strings.ToUpper(r.URL.Query().Get("region")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if len(waypoints) == 0 {
		writeError(w, http.StatusNotFound, "No waypoint found")
		return
	}

	writeJSON(w, http.StatusOK, waypoints)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// BatchRequest is the request body for batch navaid lookups.
type BatchRequest struct {
	Navaids []BatchNavaidQuery `json:"navaids"`
}

// BatchNavaidQuery represents a single navaid query in a batch request.
type BatchNavaidQuery struct {
	ID     string `json:"id"`
	Region string `json:"region,omitempty"` // Optional ICAO region filter.
}

// BatchResponse is the response for batch navaid lookups.
type BatchResponse struct {
	Results map[string][]storage.Navaid `json:"results"` // Keyed by identifier.
	Errors  map[string]string           `json:"errors,omitempty"`
}

func (s *Server) handleBatchNavaids(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if len(req.Navaids) == 0 {
		writeError(w, http.StatusBadRequest, "No navaids specified")
		return
	}

	if len(req.Navaids) > 100 {
		writeError(w, http.StatusBadRequest, "Maximum 100 navaids per batch request")
		return
	}

	resp := BatchResponse{
		Results: make(map[string][]storage.Navaid),
		Errors:  make(map[string]string),
	}

	for _, q := range req.Navaids {
		id := strings.ToUpper(q.ID)
		if id == "" {
			continue
		}

		navaids, err := s.db.Navaids(storage.NavaidQuery{
			ID:     id,
			Region: strings.ToUpper(q.Region),
		})
		if err != nil {
			resp.Errors[id] = err.Error()
			continue
		}
		if len(navaids) > 0 {
			resp.Results[id] = navaids
		}
	}

	// Remove empty errors map for cleaner output.
	if len(resp.Errors) == 0 {
		resp.Errors = nil
	}

	writeJSON(w, http.StatusOK, resp)
}

// Helper functions.

// pagination reads limit/offset query parameters, ignoring bad values.
func pagination(r *http.Request) (limit, offset int) {
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
