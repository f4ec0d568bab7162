package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docmint/internal/documents/models"
	id "docmint/pkg/domain"
	"docmint/pkg/platform/sentinel"
)

// Postgres persists documents in PostgreSQL. Metadata and the render-payload
// snapshot live in jsonb columns; status is a string enum.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const documentColumns = `
	document_id, user_id, issuer_id, document_type_id, status, is_valid,
	blockchain_doc_id, token_id, tx_hash, contract_address,
	ipfs_hash, pdf_ipfs_hash, document_hash,
	metadata, render_payload, issued_at, verified_at, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, doc *models.Document) error {
	metadata, payload, err := encodeJSON(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`, doc.ID.String(), doc.UserID.String(), doc.IssuerID.String(), doc.DocumentTypeID.String(),
		string(doc.Status), doc.IsValid,
		doc.ChainDocID, doc.TokenID, doc.TxHash, doc.ContractAddress,
		doc.MetadataCID, doc.FileCID, doc.ContentDigest,
		metadata, payload, doc.IssuedAt, doc.VerifiedAt, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, doc *models.Document) error {
	metadata, payload, err := encodeJSON(doc)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET
			issuer_id = $2, status = $3, is_valid = $4,
			blockchain_doc_id = $5, token_id = $6, tx_hash = $7,
			ipfs_hash = $8, pdf_ipfs_hash = $9, document_hash = $10,
			metadata = $11, render_payload = $12,
			issued_at = $13, verified_at = $14, updated_at = $15
		WHERE document_id = $1
	`, doc.ID.String(), doc.IssuerID.String(), string(doc.Status), doc.IsValid,
		doc.ChainDocID, doc.TokenID, doc.TxHash,
		doc.MetadataCID, doc.FileCID, doc.ContentDigest,
		metadata, payload, doc.IssuedAt, doc.VerifiedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE document_id = $1`, docID.String())
	return scanDocument(row)
}

func (s *Postgres) FindByTokenID(ctx context.Context, tokenID string) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE token_id = $1`, tokenID)
	return scanDocument(row)
}

func (s *Postgres) ListByUser(ctx context.Context, userID id.UserID) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = $1 ORDER BY created_at DESC`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("list documents by user: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (s *Postgres) List(ctx context.Context, filter ListFilter) ([]*models.Document, int, error) {
	filter = filter.Normalize()

	where := ""
	args := []any{}
	if filter.Status != nil {
		where = "WHERE status = $1"
		args = append(args, string(*filter.Status))
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	direction := "DESC"
	if filter.Ascending {
		direction = "ASC"
	}
	// SortBy comes from a closed enum, never from raw user input.
	orderBy := fmt.Sprintf("ORDER BY %s %s NULLS LAST", string(filter.SortBy), direction)

	limitPos := len(args) + 1
	args = append(args, filter.PerPage, (filter.Page-1)*filter.PerPage)
	query := fmt.Sprintf("SELECT %s FROM documents %s %s LIMIT $%d OFFSET $%d",
		documentColumns, where, orderBy, limitPos, limitPos+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// TransitionToPendingBlockchain performs the status flip and the status check
// in one statement, so concurrent approvals race on the database row instead
// of on a read-then-write in application code.
func (s *Postgres) TransitionToPendingBlockchain(ctx context.Context, docID id.DocumentID, issuerID id.UserID, now time.Time) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE documents
		SET status = $2, issuer_id = $3, updated_at = $4
		WHERE document_id = $1 AND status IN ($5, $6)
		RETURNING `+documentColumns,
		docID.String(), string(models.StatusPendingBlockchain), issuerID.String(), now,
		string(models.StatusDraft), string(models.StatusPendingApproval))

	doc, err := scanDocument(row)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	// Zero rows updated: distinguish "gone" from "lost the race".
	var exists bool
	checkErr := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM documents WHERE document_id = $1)`, docID.String()).Scan(&exists)
	if checkErr != nil {
		return nil, fmt.Errorf("check document existence: %w", checkErr)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return nil, sentinel.ErrConflict
}

func encodeJSON(doc *models.Document) (metadata, payload []byte, err error) {
	metadata, err = json.Marshal(doc.Metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("encode document metadata: %w", err)
	}
	if doc.Payload != nil {
		payload, err = json.Marshal(doc.Payload)
		if err != nil {
			return nil, nil, fmt.Errorf("encode render payload: %w", err)
		}
	}
	return metadata, payload, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	var docID, userID, issuerID, typeID uuid.UUID
	var status string
	var metadata, payload []byte
	var issuedAt, verifiedAt sql.NullTime

	err := row.Scan(&docID, &userID, &issuerID, &typeID, &status, &doc.IsValid,
		&doc.ChainDocID, &doc.TokenID, &doc.TxHash, &doc.ContractAddress,
		&doc.MetadataCID, &doc.FileCID, &doc.ContentDigest,
		&metadata, &payload, &issuedAt, &verifiedAt, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.ID = id.DocumentID(docID)
	doc.UserID = id.UserID(userID)
	doc.IssuerID = id.UserID(issuerID)
	doc.DocumentTypeID = id.DocumentTypeID(typeID)
	doc.Status = models.DocumentStatus(status)
	if issuedAt.Valid {
		t := issuedAt.Time
		doc.IssuedAt = &t
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		doc.VerifiedAt = &t
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("decode document metadata: %w", err)
		}
	}
	if len(payload) > 0 {
		var p models.RenderPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("decode render payload: %w", err)
		}
		doc.Payload = &p
	}
	return &doc, nil
}

func collectDocuments(rows *sql.Rows) ([]*models.Document, error) {
	var out []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}
