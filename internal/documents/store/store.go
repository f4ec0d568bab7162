// Package store persists Document rows. The documents service is the only
// writer; verification/query paths read through the same interface.
package store

import (
	"context"
	"time"

	"docmint/internal/documents/models"
	id "docmint/pkg/domain"
)

// SortField selects the timestamp used to order document listings.
type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortUpdatedAt SortField = "updated_at"
	SortIssuedAt  SortField = "issued_at"
)

// ListFilter narrows and pages the admin listing. Defaults: newest-first by
// created_at, page 1, 20 per page.
type ListFilter struct {
	Status    *models.DocumentStatus
	SortBy    SortField
	Ascending bool
	Page      int
	PerPage   int
}

// Normalize fills defaults in place and returns the filter for chaining.
func (f ListFilter) Normalize() ListFilter {
	if f.SortBy == "" {
		f.SortBy = SortCreatedAt
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	return f
}

// Store is the Document repository. Lookups return sentinel.ErrNotFound when
// no row matches.
type Store interface {
	Create(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	FindByTokenID(ctx context.Context, tokenID string) (*models.Document, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Document, error)
	List(ctx context.Context, filter ListFilter) ([]*models.Document, int, error)

	// TransitionToPendingBlockchain atomically flips a document from an
	// approvable status to pending_blockchain and sets the issuer, using a
	// conditional update so two concurrent approvals cannot both pass the
	// status check. Returns sentinel.ErrConflict when the document exists but
	// is no longer approvable, sentinel.ErrNotFound when it does not exist.
	TransitionToPendingBlockchain(ctx context.Context, docID id.DocumentID, issuerID id.UserID, now time.Time) (*models.Document, error)
}
