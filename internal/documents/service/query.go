package service

import (
	"context"
	"errors"

	"docmint/internal/documents/models"
	"docmint/internal/documents/store"
	"docmint/internal/records"
	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
	"docmint/pkg/platform/sentinel"
)

// GetDocument returns a document by id.
func (s *Service) GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	doc, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return nil, lookupError(err, "document not found")
	}
	return doc, nil
}

// ListStudentDocuments returns all documents owned by a user, newest first.
func (s *Service) ListStudentDocuments(ctx context.Context, userID id.UserID) ([]*models.Document, error) {
	docs, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list documents")
	}
	return docs, nil
}

// ListDocuments returns a filtered, sorted, paginated listing with the total
// match count.
func (s *Service) ListDocuments(ctx context.Context, filter store.ListFilter) ([]*models.Document, int, error) {
	docs, total, err := s.docs.List(ctx, filter)
	if err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "list documents")
	}
	return docs, total, nil
}

// ListDocumentTypes returns the document type catalog.
func (s *Service) ListDocumentTypes(ctx context.Context) ([]*records.DocumentType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list document types")
	}
	return types, nil
}

// DocumentPDF fetches the rendered PDF for a minted document from the
// content store. Returns the bytes and the CID they were pinned under.
func (s *Service) DocumentPDF(ctx context.Context, docID id.DocumentID) ([]byte, string, error) {
	doc, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return nil, "", lookupError(err, "document not found")
	}
	if doc.FileCID == nil || *doc.FileCID == "" {
		return nil, "", dErrors.New(dErrors.CodeNotFound, "document has no stored pdf")
	}

	fetchCtx, cancel := s.stepCtx(ctx)
	defer cancel()
	data, err := s.content.FetchFile(fetchCtx, *doc.FileCID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, "", dErrors.Wrap(err, dErrors.CodeNotFound, "stored pdf not retrievable")
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeUnavailable, "fetch stored pdf")
	}
	return data, *doc.FileCID, nil
}

// StudentTokens lists the on-chain token ids held by a user's wallet.
func (s *Service) StudentTokens(ctx context.Context, userID id.UserID) ([]string, error) {
	wallet, err := s.wallets.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "wallet not found")
	}

	chainCtx, cancel := s.stepCtx(ctx)
	defer cancel()
	chainID, err := s.ledger.ResolveChainID(chainCtx, wallet.Address)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "resolve blockchain identity")
	}
	tokens, err := s.ledger.StudentTokens(chainCtx, chainID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "list on-chain tokens")
	}
	return tokens, nil
}
