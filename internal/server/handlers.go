package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/soundtag-tech/soundtag/internal/codec"
	"github.com/soundtag-tech/soundtag/internal/render"
	"github.com/soundtag-tech/soundtag/internal/scan"
	"github.com/soundtag-tech/soundtag/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	writeJSON(w, http.StatusOK, response)
}

// encodeHandler turns a media reference into its 23-bar symbol sequence.
func (s *Server) encodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EncodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		codecRequestsTotal.WithLabelValues("encode", "error").Inc()
		writeJSON(w, http.StatusBadRequest, EncodeResponse{Error: "invalid JSON body"})
		return
	}

	symbols, err := codec.Encode(req.MediaRef)
	if err != nil {
		codecRequestsTotal.WithLabelValues("encode", "error").Inc()
		writeJSON(w, codecStatus(err), EncodeResponse{Error: err.Error()})
		return
	}

	codecRequestsTotal.WithLabelValues("encode", "ok").Inc()
	writeJSON(w, http.StatusOK, EncodeResponse{Success: true, Symbols: symbols})
}

// decodeHandler recovers a media reference from a symbol sequence.
func (s *Server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req DecodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		codecRequestsTotal.WithLabelValues("decode", "error").Inc()
		writeJSON(w, http.StatusBadRequest, DecodeResponse{Error: "invalid JSON body"})
		return
	}

	mediaRef, err := codec.Decode(req.Symbols)
	if err != nil {
		codecRequestsTotal.WithLabelValues("decode", "error").Inc()
		writeJSON(w, codecStatus(err), DecodeResponse{Error: err.Error()})
		return
	}

	codecRequestsTotal.WithLabelValues("decode", "ok").Inc()
	writeJSON(w, http.StatusOK, DecodeResponse{Success: true, MediaRef: mediaRef})
}

// renderHandler encodes a reference and returns the barcode as PNG.
func (s *Server) renderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		codecRequestsTotal.WithLabelValues("render", "error").Inc()
		writeJSON(w, http.StatusBadRequest, EncodeResponse{Error: "invalid JSON body"})
		return
	}

	symbols, err := codec.Encode(req.MediaRef)
	if err != nil {
		codecRequestsTotal.WithLabelValues("render", "error").Inc()
		writeJSON(w, codecStatus(err), EncodeResponse{Error: err.Error()})
		return
	}

	opts := render.DefaultOptions()
	if req.Background != "" {
		opts.Background = req.Background
	}
	if req.Bar != "" {
		opts.Bar = req.Bar
	}

	img, err := render.Render(symbols, opts)
	if err != nil {
		codecRequestsTotal.WithLabelValues("render", "error").Inc()
		writeJSON(w, http.StatusBadRequest, EncodeResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding rendered barcode: %v\n", err)
		return
	}
	codecRequestsTotal.WithLabelValues("render", "ok").Inc()
}

// scanHandler extracts and decodes a barcode from an uploaded image.
// The image is scanned directly first; when that fails and a detector is
// configured the barcode is located inside the image and the cropped
// region rescanned.
func (s *Server) scanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, ScanResponse{Error: "failed to parse form data"})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ScanResponse{Error: "no image file provided"})
		return
	}
	defer func() { _ = file.Close() }()

	uploadSizeBytes.Observe(float64(header.Size))

	imageData, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ScanResponse{Error: "failed to read image data"})
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ScanResponse{Error: "invalid image format"})
		return
	}

	start := time.Now()
	symbols, detected, err := s.scanImage(img)
	scanDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		codecRequestsTotal.WithLabelValues("scan", "error").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, ScanResponse{Error: err.Error()})
		return
	}

	mediaRef, err := codec.Decode(symbols)
	if err != nil {
		codecRequestsTotal.WithLabelValues("scan", "error").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, ScanResponse{
			Symbols:  symbols,
			Detected: detected,
			Error:    err.Error(),
		})
		return
	}

	codecRequestsTotal.WithLabelValues("scan", "ok").Inc()
	writeJSON(w, http.StatusOK, ScanResponse{
		Success:  true,
		MediaRef: mediaRef,
		Symbols:  symbols,
		Detected: detected,
	})
}

func (s *Server) scanImage(img image.Image) ([]int, bool, error) {
	symbols, err := scan.Symbols(img)
	if err == nil {
		return symbols, false, nil
	}
	if s.detector == nil {
		return nil, false, err
	}

	result := s.detector.Detect(img)
	if !result.Found {
		return nil, false, fmt.Errorf("scan failed (%w) and %s", err, result.Reason)
	}

	roi := imaging.Crop(img, result.Region)
	symbols, err = scan.Symbols(roi)
	if err != nil {
		return nil, true, err
	}
	return symbols, true, nil
}

// codecStatus maps codec errors to HTTP status codes: contract violations
// are client errors; a checksum mismatch is a well-formed request whose
// content could not be processed.
func codecStatus(err error) int {
	if errors.Is(err, codec.ErrChecksum) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding response: %v\n", err)
	}
}
