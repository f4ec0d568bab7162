package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docmint/internal/documents/service"
	"docmint/internal/platform/middleware"
	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
	"docmint/pkg/platform/httputil"
)

// handleRequest opens a new issuance request for the authenticated user.
func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req requestDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	typeID, err := id.ParseDocumentTypeID(req.DocumentTypeID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document_type_id"))
		return
	}
	certID, err := parseCertificateID(req.CertificateID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid certificate_id"))
		return
	}
	if req.MFACode == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "mfa_code is required"))
		return
	}

	doc, err := h.documents.RequestDocument(ctx, service.RequestDocumentInput{
		UserID:         userID,
		DocumentTypeID: typeID,
		MFACode:        req.MFACode,
		Metadata:       req.Metadata,
		CertificateID:  certID,
	})
	if err != nil {
		h.writeServiceError(w, r, "request document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, doc)
}

// handleApprove drives the approval saga for one document.
func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return
	}

	var req approveDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.MFACode == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "mfa_code is required"))
		return
	}

	doc, err := h.documents.ApproveAndSign(ctx, service.ApproveInput{
		DocumentID:       docID,
		ApproverID:       middleware.GetUserID(ctx),
		MFACode:          req.MFACode,
		OverrideTemplate: req.OverrideTemplate,
	})
	if err != nil {
		h.writeServiceError(w, r, "approve document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return
	}
	var req rejectDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	doc, err := h.documents.RejectDocument(ctx, docID, middleware.GetUserID(ctx), req.Reason)
	if err != nil {
		h.writeServiceError(w, r, "reject document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return
	}

	doc, err := h.documents.RevokeDocument(ctx, docID, middleware.GetUserID(ctx))
	if err != nil {
		h.writeServiceError(w, r, "revoke document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	tokenID := chi.URLParam(r, "tokenID")
	if tokenID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "token id is required"))
		return
	}

	view, err := h.documents.VerifyDocument(r.Context(), tokenID)
	if err != nil {
		h.writeServiceError(w, r, "verify document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return
	}

	doc, err := h.documents.GetDocument(r.Context(), docID)
	if err != nil {
		h.writeServiceError(w, r, "get document", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

// handleDownloadPDF streams a minted document's rendered PDF from the
// content store.
func (h *Handler) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid document id"))
		return
	}

	data, cid, err := h.documents.DocumentPDF(r.Context(), docID)
	if err != nil {
		h.writeServiceError(w, r, "download pdf", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="document-`+docID.String()+`.pdf"`)
	w.Header().Set("X-IPFS-Hash", cid)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleListStudent is the manager/admin view of one student's documents.
func (h *Handler) handleListStudent(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}

	docs, err := h.documents.ListStudentDocuments(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, "list documents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, docs)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.ListStudentDocuments(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, "list documents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, docs)
}

func (h *Handler) handleMyTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.documents.StudentTokens(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, "list tokens", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tokenListResponse{Tokens: tokens})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, ok := parseListFilter(q.Get("status"), q.Get("sort_by"), q.Get("order"), q.Get("page"), q.Get("per_page"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unknown status filter"))
		return
	}
	filter = filter.Normalize()

	docs, total, err := h.documents.ListDocuments(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, "list documents", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listDocumentsResponse{
		Documents: docs,
		Total:     total,
		Page:      filter.Page,
		PerPage:   filter.PerPage,
	})
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.documents.ListDocumentTypes(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list document types", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types)
}
