package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"docmint/internal/documents/models"
	id "docmint/pkg/domain"
	"docmint/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for unit tests and local development.
// The mutex covers the whole conditional transition, giving the same
// at-most-one-approval guarantee the Postgres CAS update gives.
type InMemory struct {
	mu   sync.RWMutex
	docs map[id.DocumentID]*models.Document
}

func NewInMemory() *InMemory {
	return &InMemory{docs: make(map[id.DocumentID]*models.Document)}
}

func (s *InMemory) Create(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return sentinel.ErrConflict
	}
	s.docs[doc.ID] = doc.Clone()
	return nil
}

func (s *InMemory) Update(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.docs[doc.ID] = doc.Clone()
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return doc.Clone(), nil
}

func (s *InMemory) FindByTokenID(ctx context.Context, tokenID string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.docs {
		if doc.TokenID != nil && *doc.TokenID == tokenID {
			return doc.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Document
	for _, doc := range s.docs {
		if doc.UserID == userID {
			out = append(out, doc.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) List(ctx context.Context, filter ListFilter) ([]*models.Document, int, error) {
	filter = filter.Normalize()

	s.mu.RLock()
	var matched []*models.Document
	for _, doc := range s.docs {
		if filter.Status != nil && doc.Status != *filter.Status {
			continue
		}
		matched = append(matched, doc.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		ti, tj := sortTime(matched[i], filter.SortBy), sortTime(matched[j], filter.SortBy)
		if filter.Ascending {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.PerPage
	if start >= total {
		return nil, total, nil
	}
	end := min(start+filter.PerPage, total)
	return matched[start:end], total, nil
}

func (s *InMemory) TransitionToPendingBlockchain(ctx context.Context, docID id.DocumentID, issuerID id.UserID, now time.Time) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !doc.Status.IsApprovable() {
		return nil, sentinel.ErrConflict
	}
	doc.ApplyPendingBlockchain(issuerID, now)
	return doc.Clone(), nil
}

func sortTime(doc *models.Document, field SortField) time.Time {
	switch field {
	case SortUpdatedAt:
		return doc.UpdatedAt
	case SortIssuedAt:
		if doc.IssuedAt != nil {
			return *doc.IssuedAt
		}
		return time.Time{}
	default:
		return doc.CreatedAt
	}
}
