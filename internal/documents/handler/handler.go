// Package handler exposes the documents feature over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"docmint/internal/documents/models"
	"docmint/internal/documents/service"
	"docmint/internal/documents/store"
	"docmint/internal/platform/metrics"
	"docmint/internal/platform/middleware"
	"docmint/internal/records"
	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
	"docmint/pkg/platform/httputil"
)

// Service is the orchestrator surface the handlers depend on.
type Service interface {
	RequestDocument(ctx context.Context, input service.RequestDocumentInput) (*models.Document, error)
	ApproveAndSign(ctx context.Context, input service.ApproveInput) (*models.Document, error)
	GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	ListStudentDocuments(ctx context.Context, userID id.UserID) ([]*models.Document, error)
	ListDocuments(ctx context.Context, filter store.ListFilter) ([]*models.Document, int, error)
	ListDocumentTypes(ctx context.Context) ([]*records.DocumentType, error)
	StudentTokens(ctx context.Context, userID id.UserID) ([]string, error)
	DocumentPDF(ctx context.Context, docID id.DocumentID) ([]byte, string, error)
	VerifyDocument(ctx context.Context, tokenID string) (*service.VerificationView, error)
	RevokeDocument(ctx context.Context, docID id.DocumentID, actorID id.UserID) (*models.Document, error)
	RejectDocument(ctx context.Context, docID id.DocumentID, actorID id.UserID, reason string) (*models.Document, error)
}

// Handler handles document endpoints.
type Handler struct {
	logger       *slog.Logger
	documents    Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(
	documents Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator,
) *Handler {
	return &Handler{
		logger:       logger,
		documents:    documents,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the document routes with the chi router. Verification is
// public so third parties can check a token without an account; everything
// else requires authentication, and the issuance/lifecycle mutations require
// the manager or admin role.
func (h *Handler) Register(r chi.Router) {
	docs := chi.NewRouter()
	docs.Use(middleware.Recovery(h.logger))
	docs.Use(middleware.RequestID)
	docs.Use(middleware.Logger(h.logger))
	docs.Use(middleware.Timeout(60 * time.Second))
	docs.Use(middleware.ContentTypeJSON)
	docs.Use(middleware.LatencyMiddleware(h.metrics))

	// The verification endpoint has no auth gate, so it gets its own per-IP
	// rate limit.
	verifyLimiter := middleware.NewRateLimiter(60, time.Minute)
	docs.Group(func(public chi.Router) {
		public.Use(verifyLimiter.Limit)
		public.Get("/documents/verify/{tokenID}", h.handleVerify)
	})

	docs.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth(h.jwtValidator, h.logger))

		authed.Post("/documents/request", h.handleRequest)
		authed.Get("/documents/types", h.handleListTypes)
		authed.Get("/documents/my", h.handleListMine)
		authed.Get("/documents/my/tokens", h.handleMyTokens)
		authed.Get("/documents/{documentID}", h.handleGet)
		authed.Get("/documents/{documentID}/pdf", h.handleDownloadPDF)

		authed.Group(func(privileged chi.Router) {
			privileged.Use(middleware.RequireRole("manager", "admin"))
			privileged.Get("/documents", h.handleList)
			privileged.Get("/documents/student/{userID}", h.handleListStudent)
			privileged.Post("/documents/{documentID}/approve", h.handleApprove)
			privileged.Post("/documents/{documentID}/reject", h.handleReject)
			privileged.Post("/documents/{documentID}/revoke", h.handleRevoke)
		})
	})

	r.Mount("/", docs)
}

// writeServiceError logs and renders a service failure. Coded domain errors
// pass through; anything uncoded is masked as internal.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op+" failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, op+" failed"))
		return
	}
	h.logger.WarnContext(ctx, op+" rejected",
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
	httputil.WriteError(w, err)
}
