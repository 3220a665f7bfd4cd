// Package handler exposes the public intake API: the authoritative
// submission endpoint, the deprecated flat endpoint, and the aggregate
// insights read.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hireline/internal/insights"
	"hireline/internal/platform/metrics"
	"hireline/internal/platform/middleware"
	"hireline/internal/report/fieldmap"
	"hireline/internal/report/models"
	"hireline/internal/report/schema"
	"hireline/internal/report/store"
	"hireline/pkg/platform/httputil"
)

// SubmitService persists a validated submission.
type SubmitService interface {
	Submit(ctx context.Context, sub models.ValidatedSubmission) (models.Receipt, error)
}

// InsightsService serves the aggregate counts.
type InsightsService interface {
	Overview(ctx context.Context) (insights.Overview, error)
}

// Handler handles the report intake endpoints.
type Handler struct {
	logger      *slog.Logger
	submit      SubmitService
	insights    InsightsService
	experiences store.ExperienceStore
	metrics     *metrics.Metrics
	rateLimit   func(http.Handler) http.Handler
}

// Option configures a Handler.
type Option func(*Handler)

// WithRateLimit applies a rate-limiting middleware to the write endpoints.
func WithRateLimit(mw func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.rateLimit = mw
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// New creates a report Handler.
func New(submit SubmitService, insightsSvc InsightsService, experiences store.ExperienceStore, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		logger:      logger,
		submit:      submit,
		insights:    insightsSvc,
		experiences: experiences,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the intake routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	write := func(next http.Handler) http.Handler {
		next = middleware.ContentTypeJSON(next)
		if h.rateLimit != nil {
			next = h.rateLimit(next)
		}
		return next
	}

	r.Method(http.MethodPost, "/api/submit", write(http.HandlerFunc(h.handleSubmit)))
	// Deprecated v0 intake path, kept for old clients.
	r.Method(http.MethodPost, "/api/experiences", write(http.HandlerFunc(h.handleLegacyExperience)))
	r.Get("/api/insights", h.handleInsights)
}

// handleSubmit validates and persists one submission.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.logger.WarnContext(ctx, "unparseable submission body",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteJSON(w, http.StatusBadRequest, errorResponse{
			OK:      false,
			Error:   "BadRequest",
			Message: "Request body must be valid JSON.",
		})
		return
	}

	validated, issues := schema.Validate(raw)
	if len(issues) > 0 {
		h.metrics.IncValidationFailures()
		h.logger.InfoContext(ctx, "submission failed validation",
			"request_id", requestID,
			"issue_count", len(issues),
		)
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
			OK:          false,
			Error:       "ValidationError",
			Message:     "Please correct the highlighted fields.",
			FieldErrors: fieldmap.ToFieldErrors(issues),
		})
		return
	}

	receipt, err := h.submit.Submit(ctx, validated)
	if err != nil {
		h.logger.ErrorContext(ctx, "submission persistence failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			OK:      false,
			Error:   "ServerError",
			Message: "Something went wrong while saving your report.",
		})
		return
	}

	resp := submitResponse{OK: true}
	if !receipt.Suppressed {
		resp.ReportID = receipt.ReportID.String()
		if receipt.ConfirmationRequired {
			resp.Contact = &contactResponse{ConfirmationRequired: true}
		}
	}
	if receipt.Suppressed && middleware.IsCrawler(ctx) {
		h.logger.InfoContext(ctx, "honeypot trip from crawler user agent",
			"request_id", requestID,
			"user_agent", middleware.GetUserAgent(ctx),
		)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// legacyExperienceRequest is the flat v0 payload.
type legacyExperienceRequest struct {
	Company      string `json:"company"`
	Agency       string `json:"agency"`
	Role         string `json:"role"`
	Country      string `json:"country"`
	Happened     string `json:"happened"`
	Evidence     string `json:"evidence"`
	ContactEmail string `json:"contact_email"`
	Consent      bool   `json:"consent"`
}

// handleLegacyExperience applies the v0 endpoint's minimal checks and writes
// a single flat record. Deprecated; unchanged on purpose.
func (h *Handler) handleLegacyExperience(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req legacyExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, legacyResponse{OK: false, Error: "Bad request."})
		return
	}

	company := strings.TrimSpace(req.Company)
	role := strings.TrimSpace(req.Role)
	country := strings.TrimSpace(req.Country)
	happened := strings.TrimSpace(req.Happened)

	if company == "" || role == "" || country == "" || len(happened) < 50 {
		httputil.WriteJSON(w, http.StatusBadRequest, legacyResponse{OK: false, Error: "Validation failed."})
		return
	}

	exp := models.Experience{
		ID:           uuid.New(),
		Company:      company,
		Agency:       strings.TrimSpace(req.Agency),
		Role:         role,
		Country:      country,
		Happened:     happened,
		Evidence:     strings.TrimSpace(req.Evidence),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		Consent:      req.Consent,
		Source:       "dev",
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.experiences.Save(ctx, exp); err != nil {
		h.logger.ErrorContext(ctx, "legacy experience insert failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, legacyResponse{OK: false, Error: "Storage failed."})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, legacyResponse{OK: true, ID: exp.ID.String()})
}

// handleInsights serves the aggregate counts for the public stats page.
func (h *Handler) handleInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	overview, err := h.insights.Overview(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "insights query failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, errorResponse{
			OK:      false,
			Error:   "ServerError",
			Message: "Failed to load insights.",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, overview)
}
