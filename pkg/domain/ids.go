// Package domain holds strongly typed identifiers shared across features.
//
// Every entity reference crossing a package boundary uses one of these types
// instead of a bare string or uuid.UUID, so a document id can never be passed
// where a user id is expected.
package domain

import "github.com/google/uuid"

type (
	// UserID identifies a user (student, manager, admin) owned by the
	// external identity subsystem.
	UserID uuid.UUID

	// DocumentID identifies an issued or requested document.
	DocumentID uuid.UUID

	// DocumentTypeID identifies a document type catalog entry.
	DocumentTypeID uuid.UUID

	// CertificateID identifies a pre-existing credential record.
	CertificateID uuid.UUID

	// WalletID identifies a user's blockchain wallet.
	WalletID uuid.UUID
)

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id DocumentID) String() string     { return uuid.UUID(id).String() }
func (id DocumentTypeID) String() string { return uuid.UUID(id).String() }
func (id CertificateID) String() string  { return uuid.UUID(id).String() }
func (id WalletID) String() string       { return uuid.UUID(id).String() }

func (id UserID) IsZero() bool         { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsZero() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DocumentTypeID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id CertificateID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id WalletID) IsZero() bool       { return uuid.UUID(id) == uuid.Nil }

// ParseUserID parses a string into a UserID, returning an error for
// malformed input. Parse helpers exist for handler-layer validation only;
// services receive already-typed IDs.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	return UserID(u), err
}

func ParseDocumentID(s string) (DocumentID, error) {
	u, err := uuid.Parse(s)
	return DocumentID(u), err
}

func ParseDocumentTypeID(s string) (DocumentTypeID, error) {
	u, err := uuid.Parse(s)
	return DocumentTypeID(u), err
}

func ParseCertificateID(s string) (CertificateID, error) {
	u, err := uuid.Parse(s)
	return CertificateID(u), err
}
