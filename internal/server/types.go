// Package server exposes the barcode codec over HTTP: JSON endpoints for
// encoding and decoding symbol sequences, a multipart endpoint that scans
// uploaded images, a PNG render endpoint, and a WebSocket stream for
// interactive decoding.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soundtag-tech/soundtag/internal/detect"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	detector    *detect.Detector // optional, used when direct scanning fails
	corsOrigin  string
	maxUploadMB int64
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	CORSOrigin  string
	MaxUploadMB int64
	TimeoutSec  int

	// LogoPath optionally enables barcode detection inside larger images
	// on the scan endpoint.
	LogoPath          string
	MinLogoConfidence float64
}

// NewServer creates a new barcode API server instance.
func NewServer(config Config) (*Server, error) {
	s := &Server{
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
	}
	if config.LogoPath != "" {
		d, err := detect.NewFromFile(config.LogoPath, config.MinLogoConfidence)
		if err != nil {
			return nil, err
		}
		s.detector = d
	}
	return s, nil
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type EncodeRequest struct {
	MediaRef uint64 `json:"media_ref"`
}

type EncodeResponse struct {
	Success bool   `json:"success"`
	Symbols []int  `json:"symbols,omitempty"`
	Error   string `json:"error,omitempty"`
}

type DecodeRequest struct {
	Symbols []int `json:"symbols"`
}

type DecodeResponse struct {
	Success  bool   `json:"success"`
	MediaRef uint64 `json:"media_ref,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ScanResponse struct {
	Success  bool   `json:"success"`
	MediaRef uint64 `json:"media_ref,omitempty"`
	Symbols  []int  `json:"symbols,omitempty"`
	Detected bool   `json:"detected,omitempty"` // true when the detector located the code
	Error    string `json:"error,omitempty"`
}

type RenderRequest struct {
	MediaRef   uint64 `json:"media_ref"`
	Background string `json:"background,omitempty"`
	Bar        string `json:"bar,omitempty"`
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/codes/encode", s.corsMiddleware(s.encodeHandler))
	mux.HandleFunc("/codes/decode", s.corsMiddleware(s.decodeHandler))
	mux.HandleFunc("/codes/render", s.corsMiddleware(s.renderHandler))
	mux.HandleFunc("/codes/scan", s.corsMiddleware(s.scanHandler))
	mux.HandleFunc("/codes/ws", s.decodeWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
