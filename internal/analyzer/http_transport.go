package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/Bahjat/seo-analyzer/internal/model"
	"github.com/Bahjat/seo-analyzer/internal/platform/errs"
)

const analyzeTimeout = 60 * time.Second

var (
	errURLRequired = errors.New("the \"url\" field is required")
	errURLInvalid  = errors.New("the \"url\" field must be an absolute http or https URL (e.g. https://example.com)")
)

// Transport handles HTTP requests for page analysis.
type Transport struct {
	service   *Service
	logger    *slog.Logger
	dashboard *dashboard
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	return &Transport{
		service:   service,
		logger:    logger,
		dashboard: newDashboard(),
	}
}

// RegisterRoutes attaches the transport's handlers to the given mux.
func (t *Transport) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /analyze", t.handleAnalyze)
	mux.HandleFunc("GET /healthz", t.handleHealth)
	mux.HandleFunc("GET /{$}", t.handleDashboard)
	mux.HandleFunc("POST /{$}", t.handleDashboardSubmit)
}

// validateURL checks the requested URL before any fetch. Failures are
// *errs.AppError of kind InvalidInput.
func validateURL(raw string) error {
	if raw == "" {
		return invalidInput(errURLRequired)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalidInput(errURLInvalid)
	}
	return nil
}

func invalidInput(cause error) *errs.AppError {
	return &errs.AppError{
		Kind:    errs.InvalidInput,
		Message: cause.Error(),
		Cause:   cause,
	}
}

func (t *Transport) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const maxRequestBody = 1 << 20 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req model.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.renderError(w, http.StatusBadRequest, "Invalid request body. Please send a JSON object with a \"url\" field.")
		return
	}

	if err := validateURL(req.URL); err != nil {
		t.handleServiceError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	result, err := t.service.Analyze(ctx, req.URL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderJSON(w, http.StatusOK, result)
}

func (t *Transport) handleHealth(w http.ResponseWriter, _ *http.Request) {
	t.renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps an application error to the HTTP status and message shown
// to the caller.
func statusFor(err error) (int, string) {
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "An unexpected error occurred."
	}

	switch appErr.Kind {
	case errs.InvalidInput:
		return http.StatusBadRequest, appErr.Message
	case errs.FetchFailed:
		return http.StatusBadGateway, appErr.Message
	case errs.Unknown:
	}
	return http.StatusInternalServerError, appErr.Message
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	status, message := statusFor(err)
	t.renderError(w, status, message)
}

func (t *Transport) renderJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		t.logger.Error("failed to encode response", "error", err)
		http.Error(w, `{"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (t *Transport) renderError(w http.ResponseWriter, status int, message string) {
	t.renderJSON(w, status, model.ErrorResponse{
		Error:      http.StatusText(status),
		StatusCode: status,
		Message:    message,
	})
}
