package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/arezooghiami/pahbar/internal/auth"
	"github.com/arezooghiami/pahbar/internal/models"
	"github.com/arezooghiami/pahbar/internal/repository"
	"github.com/arezooghiami/pahbar/internal/services"
	"github.com/arezooghiami/pahbar/pkg/logging"
	"github.com/arezooghiami/pahbar/pkg/metrics"
)

// maxUploadBytes caps xlsx uploads.
const maxUploadBytes = 16 << 20

// LoadHandler handles hourly load API endpoints
type LoadHandler struct {
	ingestionService *services.IngestionService
	loadService      *services.LoadService
	windowService    *services.WindowService
	repo             repository.LoadRepository
	logger           *logging.StructuredLogger
	metrics          *metrics.Collector
}

// NewLoadHandler creates a new load handler
func NewLoadHandler(
	ingestionService *services.IngestionService,
	loadService *services.LoadService,
	windowService *services.WindowService,
	repo repository.LoadRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *LoadHandler {
	return &LoadHandler{
		ingestionService: ingestionService,
		loadService:      loadService,
		windowService:    windowService,
		repo:             repo,
		logger:           logger,
		metrics:          metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// UploadExcel handles POST /api/loads/excel
func (h *LoadHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/loads/excel").Observe(duration.Seconds())
	}()

	discoID, ctx, ok := h.resolveDisco(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		h.sendError(w, r, "missing workbook: expected multipart field 'file'", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result, err := h.ingestionService.IngestWorkbook(ctx, discoID, file)
	if err != nil {
		var workbookErr *services.WorkbookError
		var batchErr *models.BatchError
		switch {
		case errors.As(err, &workbookErr), errors.As(err, &batchErr):
			h.sendError(w, r, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error(ctx, "[UPLOAD_EXCEL] Ingestion failed", logging.Fields{
				"disco_id": discoID,
			}, err)
			h.sendError(w, r, "failed to ingest workbook", http.StatusInternalServerError)
		}
		return
	}

	h.metrics.RecordAPIRequest("/api/loads/excel", r.Method, "200")
	h.sendJSON(w, result, http.StatusOK)
}

// GetLoads handles GET /api/loads
func (h *LoadHandler) GetLoads(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/loads").Observe(duration.Seconds())
	}()

	discoID, ctx, ok := h.resolveDisco(w, r)
	if !ok {
		return
	}

	// dates may repeat or hold comma-separated unix timestamps
	var timestamps []int64
	for _, param := range r.URL.Query()["dates"] {
		for _, part := range strings.Split(param, ",") {
			ts, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				h.sendError(w, r, "invalid dates parameter, expected unix timestamps", http.StatusBadRequest)
				return
			}
			timestamps = append(timestamps, ts)
		}
	}
	if len(timestamps) == 0 {
		h.sendError(w, r, "missing dates parameter, expected unix timestamps", http.StatusBadRequest)
		return
	}

	days, err := h.loadService.FetchDays(ctx, discoID, timestamps)
	if err != nil {
		h.logger.Error(ctx, "[GET_LOADS] Fetch failed", logging.Fields{
			"disco_id": discoID,
		}, err)
		h.sendError(w, r, "failed to retrieve loads", http.StatusInternalServerError)
		return
	}
	if days == nil {
		days = []*models.DayLoads{}
	}

	h.metrics.RecordAPIRequest("/api/loads", r.Method, "200")
	h.sendJSON(w, days, http.StatusOK)
}

// GetNextDates handles GET /api/loads/next-dates
func (h *LoadHandler) GetNextDates(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	defer func() {
		duration := time.Since(startTime)
		h.metrics.APIRequestDuration.WithLabelValues("/api/loads/next-dates").Observe(duration.Seconds())
	}()

	discoID, ctx, ok := h.resolveDisco(w, r)
	if !ok {
		return
	}

	window, err := h.windowService.NextDates(ctx, discoID)
	if err != nil {
		h.sendError(w, r, "failed to compute next dates", http.StatusInternalServerError)
		return
	}
	if window == nil {
		h.metrics.RecordAPIRequest("/api/loads/next-dates", r.Method, "204")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.metrics.RecordAPIRequest("/api/loads/next-dates", r.Method, "200")
	h.sendJSON(w, window, http.StatusOK)
}

// GetLastDate handles GET /api/loads/last-date
func (h *LoadHandler) GetLastDate(w http.ResponseWriter, r *http.Request) {
	discoID, ctx, ok := h.resolveDisco(w, r)
	if !ok {
		return
	}

	lastDate, err := h.loadService.LastAvailableDate(ctx, discoID)
	if err != nil {
		h.sendError(w, r, "failed to retrieve last date", http.StatusInternalServerError)
		return
	}
	if lastDate == "" {
		h.metrics.RecordAPIRequest("/api/loads/last-date", r.Method, "204")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.metrics.RecordAPIRequest("/api/loads/last-date", r.Method, "200")
	h.sendJSON(w, map[string]string{"last_date": lastDate}, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *LoadHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.repo.HealthCheck(r.Context()); err != nil {
		status["status"] = "unhealthy"
		h.sendJSON(w, status, http.StatusServiceUnavailable)
		return
	}

	h.sendJSON(w, status, http.StatusOK)
}

// resolveDisco maps the authenticated user to their disco and returns a
// context tagged with the disco id for log correlation. It writes the error
// response itself when resolution fails.
func (h *LoadHandler) resolveDisco(w http.ResponseWriter, r *http.Request) (int, context.Context, bool) {
	username := auth.UsernameFromContext(r.Context())
	if username == "" {
		h.sendError(w, r, "unauthorized", http.StatusUnauthorized)
		return 0, nil, false
	}

	discoID, err := h.repo.GetUserDisco(r.Context(), username)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			h.sendError(w, r, "no disco assigned to user", http.StatusForbidden)
			return 0, nil, false
		}
		h.logger.Error(r.Context(), "[RESOLVE_DISCO] Lookup failed", logging.Fields{
			"username": username,
		}, err)
		h.sendError(w, r, "failed to resolve disco", http.StatusInternalServerError)
		return 0, nil, false
	}

	return discoID, logging.WithDiscoID(r.Context(), discoID), true
}

// sendJSON sends a JSON response
func (h *LoadHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *LoadHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))
	if statusCode >= 500 {
		h.metrics.RecordAPIError("server", r.URL.Path)
	}

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all load API routes
func (h *LoadHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/loads/excel", h.UploadExcel).Methods("POST")
	router.HandleFunc("/api/loads/next-dates", h.GetNextDates).Methods("GET")
	router.HandleFunc("/api/loads/last-date", h.GetLastDate).Methods("GET")
	router.HandleFunc("/api/loads", h.GetLoads).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}

// RequestIDMiddleware tags every request with an id for log correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
