package handler

import (
	"encoding/json"
	"strconv"

	"docmint/internal/documents/models"
	"docmint/internal/documents/store"
	id "docmint/pkg/domain"
)

type requestDocumentRequest struct {
	DocumentTypeID string         `json:"document_type_id"`
	MFACode        string         `json:"mfa_code"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CertificateID  string         `json:"certificate_id,omitempty"`
}

type approveDocumentRequest struct {
	MFACode          string          `json:"mfa_code"`
	OverrideTemplate json.RawMessage `json:"override_template,omitempty"`
}

type rejectDocumentRequest struct {
	Reason string `json:"reason"`
}

type listDocumentsResponse struct {
	Documents []*models.Document `json:"documents"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	PerPage   int                `json:"per_page"`
}

type tokenListResponse struct {
	Tokens []string `json:"tokens"`
}

// parseListFilter reads the admin listing query parameters. Unknown values
// fall back to defaults rather than erroring; a malformed status is reported.
func parseListFilter(status, sortBy, order, page, perPage string) (store.ListFilter, bool) {
	filter := store.ListFilter{
		Page:      atoiOr(page, 1),
		PerPage:   atoiOr(perPage, 20),
		Ascending: order == "asc",
	}
	switch store.SortField(sortBy) {
	case store.SortCreatedAt, store.SortUpdatedAt, store.SortIssuedAt:
		filter.SortBy = store.SortField(sortBy)
	}
	if status != "" {
		st := models.DocumentStatus(status)
		if !st.Valid() {
			return filter, false
		}
		filter.Status = &st
	}
	return filter, true
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseCertificateID(s string) (*id.CertificateID, error) {
	if s == "" {
		return nil, nil
	}
	certID, err := id.ParseCertificateID(s)
	if err != nil {
		return nil, err
	}
	return &certID, nil
}
