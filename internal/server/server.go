package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kiesman99/herobanner/internal/composer"
	"github.com/kiesman99/herobanner/pkg/banner"
)

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    int       `json:"uptime"`
	Version   string    `json:"version"`
}

// CategoryResponse describes one category and its selectable images
type CategoryResponse struct {
	Name   string   `json:"name"`
	Dir    string   `json:"dir"`
	Images []string `json:"images"`
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Config holds the rendering settings shared by all requests
type Config struct {
	Categories   [banner.CategoryCount]banner.Category
	TargetHeight int
	Quality      int
	Version      string
}

// Server renders hero banner previews over HTTP
type Server struct {
	startTime time.Time
	cfg       Config
	composer  *composer.Composer
}

// NewServer creates a new server instance
func NewServer(cfg Config) *Server {
	return &Server{
		startTime: time.Now(),
		cfg:       cfg,
		composer:  composer.New(),
	}
}

// Routes mounts the API endpoints on r
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.GetHealth)
	r.Get("/categories", s.ListCategories)
	r.Get("/hero", s.RenderHero)
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int(time.Since(s.startTime).Seconds()),
		Version:   s.cfg.Version,
	}
	s.writeJSON(w, http.StatusOK, response)
}

// ListCategories returns each category's sorted candidates
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()

	response := make([]CategoryResponse, 0, banner.CategoryCount)
	for _, cat := range s.cfg.Categories {
		paths, err := banner.Candidates(cat.Dir)
		if err != nil {
			log.Printf("Error listing %s: %v", cat.Dir, err)
			s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"Failed to list category images", requestID, nil)
			return
		}
		if paths == nil {
			paths = []string{}
		}
		response = append(response, CategoryResponse{Name: cat.Name, Dir: cat.Dir, Images: paths})
	}
	s.writeJSON(w, http.StatusOK, response)
}

// RenderHero composites the requested selection and returns it as JPEG
func (s *Server) RenderHero(w http.ResponseWriter, r *http.Request) {
	requestID := generateRequestID()

	opts, err := s.parseOptions(r)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), requestID, nil)
		return
	}

	result, err := s.composer.Compose(r.Context(), opts)
	if err != nil {
		s.handleComposeError(w, err, requestID)
		return
	}

	var buf bytes.Buffer
	if err := banner.EncodeJPEG(&buf, result.Image, s.cfg.Quality); err != nil {
		log.Printf("Error encoding hero image: %v", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Failed to encode image", requestID, nil)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("X-Image-Width", strconv.Itoa(result.Width))
	w.Header().Set("X-Image-Height", strconv.Itoa(result.Height))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// parseOptions reads indexes and mode from the query string
func (s *Server) parseOptions(r *http.Request) (*composer.Options, error) {
	opts := &composer.Options{
		Categories:   s.cfg.Categories,
		Mode:         banner.ModeSideBySide,
		TargetHeight: s.cfg.TargetHeight,
	}

	q := r.URL.Query()
	if m := q.Get("mode"); m != "" {
		mode, err := banner.ParseMode(m)
		if err != nil {
			return nil, err
		}
		opts.Mode = mode
	}

	if raw := q.Get("indexes"); raw != "" {
		parts := strings.Split(raw, ",")
		if len(parts) != banner.CategoryCount {
			return nil, fmt.Errorf("indexes must contain %d comma-separated integers", banner.CategoryCount)
		}
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("invalid index %q: %v", p, err)
			}
			opts.Indexes[i] = n
		}
	}

	return opts, nil
}

// handleComposeError maps composition failures to HTTP responses
func (s *Server) handleComposeError(w http.ResponseWriter, err error, requestID string) {
	var missing *composer.MissingError
	if errors.As(err, &missing) {
		names := make([]string, len(missing.Missing))
		for i, c := range missing.Missing {
			names[i] = c.Name
		}
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, "MISSING_CATEGORY",
			"Need one image from each folder", requestID, map[string]interface{}{
				"missing": names,
			})
		return
	}

	var indexErr *banner.IndexError
	if errors.As(err, &indexErr) {
		s.writeErrorResponse(w, http.StatusBadRequest, "INDEX_OUT_OF_RANGE",
			indexErr.Error(), requestID, map[string]interface{}{
				"index": indexErr.Index,
				"count": indexErr.Count,
			})
		return
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.writeErrorResponse(w, http.StatusGatewayTimeout, "TIMEOUT",
			"Composition did not finish in time", requestID, nil)
		return
	}

	log.Printf("Error composing hero image: %v", err)
	s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
		"Internal server error", requestID, nil)
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message, requestID string, details map[string]interface{}) {
	s.writeJSON(w, statusCode, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}
