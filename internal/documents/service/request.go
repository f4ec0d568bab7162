package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"docmint/internal/audit"
	"docmint/internal/documents/models"
	"docmint/internal/records"
	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
	"docmint/pkg/platform/sentinel"
	"docmint/pkg/requestcontext"
)

// RequestDocumentInput carries everything needed to open an issuance request.
type RequestDocumentInput struct {
	UserID         id.UserID
	DocumentTypeID id.DocumentTypeID
	MFACode        string
	Metadata       map[string]any
	CertificateID  *id.CertificateID
}

// RequestDocument validates the request and persists a new draft document.
// Every gate is checked before any write, so a failure leaves no partial
// state behind.
func (s *Service) RequestDocument(ctx context.Context, input RequestDocumentInput) (*models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "documents.request")
	defer span.End()
	now := requestcontext.Now(ctx)

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		s.metrics.ObserveOutcome("request", "failure")
		return nil, lookupError(err, "user not found")
	}

	if err := s.checkMFA(ctx, input.UserID, input.MFACode, false); err != nil {
		s.metrics.ObserveOutcome("request", "failure")
		return nil, err
	}

	docType, err := s.types.FindByID(ctx, input.DocumentTypeID)
	if err != nil {
		s.metrics.ObserveOutcome("request", "failure")
		return nil, lookupError(err, "document type not found")
	}

	payload, err := s.buildRequestPayload(ctx, user, docType, input)
	if err != nil {
		s.metrics.ObserveOutcome("request", "failure")
		return nil, err
	}

	doc, err := models.NewDocument(
		id.DocumentID(uuid.New()),
		input.UserID,
		input.DocumentTypeID,
		s.contractAddress,
		input.Metadata,
		payload,
		now,
	)
	if err != nil {
		s.metrics.ObserveOutcome("request", "failure")
		return nil, err
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		s.metrics.ObserveOutcome("request", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist document request")
	}

	s.logger.InfoContext(ctx, "document requested",
		"document_id", doc.ID.String(),
		"user_id", input.UserID.String(),
		"document_type", docType.Name)
	s.metrics.ObserveOutcome("request", "success")
	s.emit(audit.Event{
		Type:       audit.EventDocumentRequested,
		DocumentID: doc.ID,
		UserID:     doc.UserID,
		ActorID:    input.UserID,
		Status:     string(doc.Status),
	})
	return doc, nil
}

// buildRequestPayload derives the render-payload snapshot for the document's
// category. General documents defer payload construction to approval time.
func (s *Service) buildRequestPayload(
	ctx context.Context,
	user *records.User,
	docType *records.DocumentType,
	input RequestDocumentInput,
) (*models.RenderPayload, error) {
	category := models.CategoryOf(docType.Name)
	switch category {
	case models.CategoryCertificate, models.CategoryDiploma:
		return s.buildCertificatePayload(ctx, user, docType, input.CertificateID)
	case models.CategoryTranscript:
		return s.buildTranscriptPayload(ctx, user, docType)
	default:
		return nil, nil
	}
}

func (s *Service) buildCertificatePayload(
	ctx context.Context,
	user *records.User,
	docType *records.DocumentType,
	certID *id.CertificateID,
) (*models.RenderPayload, error) {
	if certID == nil || certID.IsZero() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest,
			"%s documents require a certificate reference", docType.Name)
	}

	cert, err := s.certs.FindByID(ctx, *certID)
	if err != nil {
		return nil, lookupError(err, "certificate not found")
	}
	certType, err := s.types.FindByID(ctx, cert.DocumentTypeID)
	if err != nil {
		return nil, lookupError(err, "certificate document type not found")
	}

	bindings := []models.FieldBinding{
		{Name: models.BindingNameStudent, Kind: models.BindingText, Value: user.FullName},
		{Name: "certificate_type", Kind: models.BindingText, Value: certType.Name},
		{Name: models.BindingNameDetails, Kind: models.BindingText, Value: cert.Description},
		{Name: "issued_date", Kind: models.BindingDate, Value: cert.IssuedDate.Format("2006-01-02")},
	}
	if cert.ExpiryDate != nil {
		bindings = append(bindings, models.FieldBinding{
			Name: "expiry_date", Kind: models.BindingDate, Value: cert.ExpiryDate.Format("2006-01-02"),
		})
	}
	bindings = append(bindings, models.FieldBinding{
		Name: models.QRCodeBinding, Kind: models.BindingQR, Value: cert.ID.String(),
	})

	return &models.RenderPayload{
		Version:  models.RenderPayloadVersion,
		Template: models.TemplateDescriptor{Name: docType.Name, Layout: docType.TemplatePDF},
		Bindings: bindings,
	}, nil
}

// lookupError maps a store failure to the domain taxonomy: a missing row is
// not_found, anything else is internal.
func lookupError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

