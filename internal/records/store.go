package records

import (
	"context"

	id "docmint/pkg/domain"
)

// Store lookups return sentinel.ErrNotFound (optionally wrapped) when the
// entity does not exist.

// UserStore resolves identity records.
type UserStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*User, error)
}

// WalletStore resolves a user's wallet.
type WalletStore interface {
	FindByUserID(ctx context.Context, userID id.UserID) (*Wallet, error)
}

// DocumentTypeStore resolves catalog entries.
type DocumentTypeStore interface {
	FindByID(ctx context.Context, typeID id.DocumentTypeID) (*DocumentType, error)
	List(ctx context.Context) ([]*DocumentType, error)
}

// CertificateStore resolves credential records.
type CertificateStore interface {
	FindByID(ctx context.Context, certID id.CertificateID) (*Certificate, error)
}

// ScoreBoardStore lists course results for transcript construction, ordered
// by (academic year, semester, course name).
type ScoreBoardStore interface {
	ListByUser(ctx context.Context, userID id.UserID) ([]ScoreRow, error)
}
