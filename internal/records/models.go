// Package records exposes read-only reference data owned by other bounded
// contexts: users, wallets, the document-type catalog, certificates and score
// boards. The issuance saga reads these; it never writes them.
package records

import (
	"time"

	id "docmint/pkg/domain"
)

// User is an identity record read for rendering and authorization context.
type User struct {
	ID          id.UserID
	FullName    string
	Email       string
	Role        string
	StudentCode string
	Major       string
}

// Wallet is a user's blockchain wallet. One per user.
type Wallet struct {
	ID         id.WalletID
	UserID     id.UserID
	Address    string
	ChainType  string
	PublicKey  string
	Status     string
	NetworkID  string
	LastUsedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DocumentType is a template catalog entry. Read-mostly.
type DocumentType struct {
	ID          id.DocumentTypeID
	Name        string
	Description string
	TemplatePDF string // stored render-template blob, may be empty
	CreatedBy   *id.UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Certificate is a pre-existing credential consumed as a data source when
// rendering a certificate or diploma document.
type Certificate struct {
	ID             id.CertificateID
	UserID         id.UserID
	DocumentTypeID id.DocumentTypeID
	IssuedDate     time.Time
	ExpiryDate     *time.Time
	Description    string
	Metadata       map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScoreRow is one course result per user per semester. Up to six score slots
// are filled over the semester; the latest non-null one is the final score.
type ScoreRow struct {
	ID           string
	UserID       id.UserID
	CourseID     string
	CourseName   string
	CourseCode   string
	Credits      int
	Scores       [6]*float64
	LetterGrade  string
	Status       string
	Semester     string
	AcademicYear string
	Metadata     map[string]any
}

// FinalScore returns the latest non-null score slot (score6 preferred,
// falling back toward score1) and whether any slot was set.
func (r ScoreRow) FinalScore() (float64, bool) {
	for i := len(r.Scores) - 1; i >= 0; i-- {
		if r.Scores[i] != nil {
			return *r.Scores[i], true
		}
	}
	return 0, false
}
