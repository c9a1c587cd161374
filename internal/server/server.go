package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/kiesman99/gridmark/internal/api"
	"github.com/kiesman99/gridmark/internal/watermark"
	"github.com/kiesman99/gridmark/pkg/layout"
)

// Request limits
const (
	DefaultMaxUploadSize = 32 << 20
	DefaultUploadMemory  = 8 << 20

	maxCount    = 1000
	maxTextLen  = 256
	maxFontSize = 1000
	maxStretch  = 100
)

// Config holds the server settings
type Config struct {
	Version string

	// Defaults are used for every parameter a request leaves out
	Defaults watermark.Options

	// MaxUploadSize bounds the request body in bytes
	MaxUploadSize int64

	// UploadMemory is the part of an upload kept in memory; the rest
	// spills to temporary files that are removed after each request
	UploadMemory int64

	// MaxConcurrent bounds the number of renders in flight
	MaxConcurrent int64

	Logger *log.Logger
}

// Server implements the ServerInterface from the generated API
type Server struct {
	startTime    time.Time
	version      string
	defaults     watermark.Options
	maxUpload    int64
	uploadMemory int64
	renders      *semaphore.Weighted
	compositor   *watermark.Compositor
	logger       *log.Logger
}

var _ api.ServerInterface = (*Server)(nil)

// NewServer creates a new server instance
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = DefaultMaxUploadSize
	}
	if cfg.UploadMemory <= 0 {
		cfg.UploadMemory = DefaultUploadMemory
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = int64(runtime.NumCPU())
	}
	if cfg.Defaults.Style.Font.Size == 0 {
		cfg.Defaults = watermark.DefaultOptions()
	}

	return &Server{
		startTime:    time.Now(),
		version:      cfg.Version,
		defaults:     cfg.Defaults,
		maxUpload:    cfg.MaxUploadSize,
		uploadMemory: cfg.UploadMemory,
		renders:      semaphore.NewWeighted(cfg.MaxConcurrent),
		compositor:   watermark.New(cfg.Logger),
		logger:       cfg.Logger,
	}
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	uptime := int(time.Since(s.startTime).Seconds())

	response := api.HealthResponse{
		Status:    api.Healthy,
		Timestamp: time.Now(),
		Uptime:    &uptime,
		Version:   &s.version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Error encoding health response", "err", err)
	}
}

// Upload serves the legacy upload route with the configured defaults
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	s.CreateWatermarkedImage(w, r, api.CreateWatermarkedImageParams{})
}

// CreateWatermarkedImage implements the main watermarking endpoint
func (s *Server) CreateWatermarkedImage(w http.ResponseWriter, r *http.Request, params api.CreateWatermarkedImageParams) {
	requestID := requestIDFrom(r)

	opts, err := s.optionsFromParams(params)
	if err != nil {
		s.writeValidationErrorResponse(w, err.Error(), "query", &requestID)
		return
	}

	data, uerr := s.readUpload(w, r)
	if uerr != nil {
		s.writeErrorResponse(w, uerr.status, uerr.code, uerr.message, &requestID, nil)
		return
	}

	if err := s.renders.Acquire(r.Context(), 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.writeTimeoutResponse(w, &requestID)
			return
		}
		s.writeErrorResponse(w, http.StatusServiceUnavailable, "SERVER_BUSY",
			"Request cancelled while waiting for a render slot", &requestID, nil)
		return
	}
	defer s.renders.Release(1)

	result, err := s.compositor.RenderBytes(r.Context(), data, opts)
	if err != nil {
		s.handleWatermarkError(w, err, &requestID)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("Content-Length", strconv.Itoa(len(result)))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result); err != nil {
		s.logger.Error("Error writing response", "err", err, "request_id", requestID)
	}
}

// uploadError describes a rejected upload
type uploadError struct {
	status  int
	code    string
	message string
}

// readUpload reads the "image" form file into memory. Temporary files
// created while parsing the form are removed before it returns.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, *uploadError) {
	if r.ContentLength > s.maxUpload {
		return nil, &uploadError{http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE",
			fmt.Sprintf("Upload exceeds %d bytes", s.maxUpload)}
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.uploadMemory); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, &uploadError{http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE",
				fmt.Sprintf("Upload exceeds %d bytes", maxErr.Limit)}
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, &uploadError{http.StatusBadRequest, "NO_IMAGE", "No image provided"}
		}
		return nil, &uploadError{http.StatusBadRequest, "INVALID_UPLOAD", "Invalid multipart body"}
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Warn("Failed to remove upload files", "err", err)
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, "NO_IMAGE", "No image provided"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, "INVALID_UPLOAD", "Failed to read uploaded file"}
	}

	s.logger.Debug("Received upload", "filename", header.Filename, "size", header.Size)
	return data, nil
}

// optionsFromParams overlays request parameters on the server defaults
func (s *Server) optionsFromParams(params api.CreateWatermarkedImageParams) (watermark.Options, error) {
	opts := s.defaults

	if params.Text != nil {
		if len(*params.Text) > maxTextLen {
			return opts, fmt.Errorf("text must be at most %d bytes", maxTextLen)
		}
		opts.Style.Text = *params.Text
	}

	if params.Count != nil {
		if *params.Count < 0 || *params.Count > maxCount {
			return opts, fmt.Errorf("count must be between 0 and %d", maxCount)
		}
		opts.Count = *params.Count
	}

	if params.Stretch != nil {
		if !(*params.Stretch > 0) || *params.Stretch > maxStretch {
			return opts, fmt.Errorf("stretch must be greater than 0 and at most %d", maxStretch)
		}
		opts.StretchFactor = *params.Stretch
	}

	switch {
	case params.Fill != nil:
		opacity := 1.0
		if params.Opacity != nil {
			opacity = *params.Opacity
		}
		fill, err := watermark.ParseColor(*params.Fill, opacity)
		if err != nil {
			return opts, err
		}
		opts.Style.Fill = fill
	case params.Opacity != nil:
		if !(*params.Opacity >= 0 && *params.Opacity <= 1) {
			return opts, fmt.Errorf("opacity must be between 0 and 1")
		}
		opts.Style.Fill.A = watermark.Alpha8(*params.Opacity)
	}

	if params.FontSize != nil {
		if !(*params.FontSize > 0) || *params.FontSize > maxFontSize {
			return opts, fmt.Errorf("font_size must be greater than 0 and at most %d", maxFontSize)
		}
		opts.Style.Font.Size = *params.FontSize
	}

	if params.FontFamily != nil {
		family := *params.FontFamily
		if strings.ContainsAny(family, `/\`) || filepath.Ext(family) != "" {
			return opts, fmt.Errorf("font_family must be a family name, not a file")
		}
		opts.Style.Font.Family = family
	}

	if params.Align != nil {
		align, err := watermark.ParseAlign(string(*params.Align))
		if err != nil {
			return opts, err
		}
		opts.Style.Align = align
	}

	if params.Seed != nil {
		opts.Rand = layout.Seeded(*params.Seed)
	}

	return opts, nil
}

// handleWatermarkError maps watermarking failures to responses
func (s *Server) handleWatermarkError(w http.ResponseWriter, err error, requestID *string) {
	kind := watermark.KindOf(err)
	s.logger.Error("Watermarking failed", "kind", kind, "err", err, "request_id", *requestID)

	switch {
	case kind == watermark.KindInvalidArgument:
		s.writeValidationErrorResponse(w, err.Error(), "request", requestID)

	case kind == watermark.KindDecode:
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, kind.Code(),
			"Uploaded file is not a decodable image", requestID, nil)

	case errors.Is(err, watermark.ErrImageTooLarge):
		s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE",
			"Image dimensions are too large", requestID, map[string]interface{}{
				"max_pixels": watermark.MaxPixels,
			})

	case errors.Is(err, context.DeadlineExceeded):
		s.writeTimeoutResponse(w, requestID)

	case kind == watermark.KindRender || kind == watermark.KindEncode:
		s.writeErrorResponse(w, http.StatusInternalServerError, kind.Code(),
			"Failed to produce watermarked image", requestID, nil)

	default:
		s.writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"Internal server error", requestID, nil)
	}
}

// handleParamError reports query parameters the generated wrapper could not bind
func (s *Server) handleParamError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestIDFrom(r)

	field := "query"
	var paramErr *api.InvalidParamFormatError
	if errors.As(err, &paramErr) {
		field = paramErr.ParamName
	}
	s.writeValidationErrorResponse(w, err.Error(), field, &requestID)
}

// writeErrorResponse writes a standard error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string, requestID *string, details map[string]interface{}) {
	response := api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestId: requestID,
	}

	if details != nil {
		response.Details = &details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// writeTimeoutResponse reports a request that ran past the router timeout
func (s *Server) writeTimeoutResponse(w http.ResponseWriter, requestID *string) {
	s.writeErrorResponse(w, http.StatusGatewayTimeout, "RENDER_TIMEOUT",
		"Rendering timed out", requestID, nil)
}

// writeValidationErrorResponse writes a validation error response
func (s *Server) writeValidationErrorResponse(w http.ResponseWriter, message, field string, requestID *string) {
	s.writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", message, requestID,
		map[string]interface{}{"field": field})
}

// requestIDFrom returns the id assigned by the RequestID middleware, or a fresh one
func requestIDFrom(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return "req_" + uuid.NewString()
}
