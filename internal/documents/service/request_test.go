package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"docmint/internal/audit"
	"docmint/internal/documents/models"
	"docmint/internal/mfa"
	"docmint/internal/records"
	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
	"docmint/pkg/requestcontext"
)

func validMFA(f *fixture, userID id.UserID) {
	f.verifier.EXPECT().
		Verify(gomock.Any(), userID, "123456").
		Return(mfa.Result{Valid: true}, nil)
}

func TestRequestDocumentTranscript(t *testing.T) {
	f := newFixture(t)
	f.seedScores()
	validMFA(f, f.student.ID)
	ctx := requestcontext.WithTime(context.Background(), f.now)

	doc, err := f.service.RequestDocument(ctx, RequestDocumentInput{
		UserID:         f.student.ID,
		DocumentTypeID: f.transcTyp.ID,
		MFACode:        "123456",
		Metadata:       map[string]any{"note": "spring batch"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, doc.Status)
	assert.False(t, doc.IsValid)
	assert.Equal(t, "0xC0FFEE", doc.ContractAddress)
	assert.Equal(t, f.now, doc.CreatedAt)
	assert.Nil(t, doc.TokenID)

	require.NotNil(t, doc.Payload)
	gpa := doc.Payload.Binding("gpa")
	require.NotNil(t, gpa)
	assert.Equal(t, "8.57", gpa.Value)
	courses := doc.Payload.Binding("courses")
	require.NotNil(t, courses)
	assert.Len(t, courses.Rows, 2)

	// persisted
	stored, err := f.docs.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status)

	assert.Equal(t, []audit.EventType{audit.EventDocumentRequested}, f.events.types())
}

func TestRequestDocumentCertificateRequiresReference(t *testing.T) {
	f := newFixture(t)
	validMFA(f, f.student.ID)

	_, err := f.service.RequestDocument(context.Background(), RequestDocumentInput{
		UserID:         f.student.ID,
		DocumentTypeID: f.certTyp.ID,
		MFACode:        "123456",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestRequestDocumentCertificatePayload(t *testing.T) {
	f := newFixture(t)
	validMFA(f, f.student.ID)

	cert := &records.Certificate{
		ID:             id.CertificateID(uuid.New()),
		UserID:         f.student.ID,
		DocumentTypeID: f.certTyp.ID,
		IssuedDate:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Description:    "Completed Distributed Systems",
	}
	f.refs.PutCertificate(cert)
	certID := cert.ID

	doc, err := f.service.RequestDocument(context.Background(), RequestDocumentInput{
		UserID:         f.student.ID,
		DocumentTypeID: f.certTyp.ID,
		MFACode:        "123456",
		CertificateID:  &certID,
	})
	require.NoError(t, err)

	require.NotNil(t, doc.Payload)
	student := doc.Payload.Binding(models.BindingNameStudent)
	require.NotNil(t, student)
	assert.Equal(t, "Ada Lovelace", student.Value)
	issued := doc.Payload.Binding("issued_date")
	require.NotNil(t, issued)
	assert.Equal(t, "2025-06-01", issued.Value)
}

func TestRequestDocumentGeneralTypeHasNoPayload(t *testing.T) {
	f := newFixture(t)
	general := &records.DocumentType{ID: id.DocumentTypeID(uuid.New()), Name: "Enrollment Letter"}
	f.refs.PutDocumentType(general)
	validMFA(f, f.student.ID)

	doc, err := f.service.RequestDocument(context.Background(), RequestDocumentInput{
		UserID:         f.student.ID,
		DocumentTypeID: general.ID,
		MFACode:        "123456",
	})
	require.NoError(t, err)
	assert.Nil(t, doc.Payload)
}

func TestRequestDocumentUnknownTypeNoRowPersisted(t *testing.T) {
	f := newFixture(t)
	validMFA(f, f.student.ID)

	_, err := f.service.RequestDocument(context.Background(), RequestDocumentInput{
		UserID:         f.student.ID,
		DocumentTypeID: id.DocumentTypeID(uuid.New()),
		MFACode:        "123456",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	docs, _, err := f.docs.List(context.Background(), listAll())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRequestDocumentUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.RequestDocument(context.Background(), RequestDocumentInput{
		UserID:         id.UserID(uuid.New()),
		DocumentTypeID: f.transcTyp.ID,
		MFACode:        "123456",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestRequestDocumentInvalidMFA(t *testing.T) {
	f := newFixture(t)
	f.verifier.EXPECT().
		Verify(gomock.Any(), f.student.ID, "000000").
		Return(mfa.Result{Valid: false, Reason: "invalid_code"}, nil)

	_, err := f.service.RequestDocument(context.Background(), RequestDocumentInput{
		UserID:         f.student.ID,
		DocumentTypeID: f.transcTyp.ID,
		MFACode:        "000000",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestRequestDocumentTranscriptWithoutScores(t *testing.T) {
	f := newFixture(t)
	validMFA(f, f.student.ID)

	_, err := f.service.RequestDocument(context.Background(), RequestDocumentInput{
		UserID:         f.student.ID,
		DocumentTypeID: f.transcTyp.ID,
		MFACode:        "123456",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
