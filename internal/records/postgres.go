package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "docmint/pkg/domain"
	"docmint/pkg/platform/sentinel"
)

// Postgres implements every reference-data store over one *sql.DB.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Users() UserStore                 { return p }
func (p *Postgres) Wallets() WalletStore             { return p }
func (p *Postgres) DocumentTypes() DocumentTypeStore { return pgDocumentTypes{p} }
func (p *Postgres) Certificates() CertificateStore   { return pgCertificates{p} }
func (p *Postgres) ScoreBoard() ScoreBoardStore      { return pgScores{p} }

func (p *Postgres) FindByID(ctx context.Context, userID id.UserID) (*User, error) {
	var u User
	var uid uuid.UUID
	err := p.db.QueryRowContext(ctx, `
		SELECT user_id, full_name, email, role, COALESCE(student_code, ''), COALESCE(major, '')
		FROM users WHERE user_id = $1
	`, userID.String()).Scan(&uid, &u.FullName, &u.Email, &u.Role, &u.StudentCode, &u.Major)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.ID = id.UserID(uid)
	return &u, nil
}

func (p *Postgres) FindByUserID(ctx context.Context, userID id.UserID) (*Wallet, error) {
	var w Wallet
	var wid, uid uuid.UUID
	var lastUsed sql.NullTime
	err := p.db.QueryRowContext(ctx, `
		SELECT wallet_id, user_id, address, chain_type, public_key, status, network_id,
		       last_used_at, created_at, updated_at
		FROM wallet WHERE user_id = $1
	`, userID.String()).Scan(&wid, &uid, &w.Address, &w.ChainType, &w.PublicKey,
		&w.Status, &w.NetworkID, &lastUsed, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find wallet: %w", err)
	}
	w.ID = id.WalletID(wid)
	w.UserID = id.UserID(uid)
	if lastUsed.Valid {
		t := lastUsed.Time
		w.LastUsedAt = &t
	}
	return &w, nil
}

type pgDocumentTypes struct{ p *Postgres }

func (v pgDocumentTypes) FindByID(ctx context.Context, typeID id.DocumentTypeID) (*DocumentType, error) {
	row := v.p.db.QueryRowContext(ctx, `
		SELECT document_type_id, document_type_name, COALESCE(description, ''),
		       COALESCE(template_pdf, ''), created_by, created_at, updated_at
		FROM document_type WHERE document_type_id = $1
	`, typeID.String())
	return scanDocumentType(row)
}

func (v pgDocumentTypes) List(ctx context.Context) ([]*DocumentType, error) {
	rows, err := v.p.db.QueryContext(ctx, `
		SELECT document_type_id, document_type_name, COALESCE(description, ''),
		       COALESCE(template_pdf, ''), created_by, created_at, updated_at
		FROM document_type ORDER BY document_type_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list document types: %w", err)
	}
	defer rows.Close()

	var out []*DocumentType
	for rows.Next() {
		dt, err := scanDocumentType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, dt)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocumentType(row rowScanner) (*DocumentType, error) {
	var dt DocumentType
	var tid uuid.UUID
	var createdBy uuid.NullUUID
	err := row.Scan(&tid, &dt.Name, &dt.Description, &dt.TemplatePDF, &createdBy, &dt.CreatedAt, &dt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan document type: %w", err)
	}
	dt.ID = id.DocumentTypeID(tid)
	if createdBy.Valid {
		creator := id.UserID(createdBy.UUID)
		dt.CreatedBy = &creator
	}
	return &dt, nil
}

type pgCertificates struct{ p *Postgres }

func (v pgCertificates) FindByID(ctx context.Context, certID id.CertificateID) (*Certificate, error) {
	var c Certificate
	var cid, uid, tid uuid.UUID
	var expiry sql.NullTime
	var meta []byte
	err := v.p.db.QueryRowContext(ctx, `
		SELECT certificate_id, user_id, document_type_id, issued_date, expiry_date,
		       COALESCE(description, ''), metadata, created_at, updated_at
		FROM certificate WHERE certificate_id = $1
	`, certID.String()).Scan(&cid, &uid, &tid, &c.IssuedDate, &expiry, &c.Description,
		&meta, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find certificate: %w", err)
	}
	c.ID = id.CertificateID(cid)
	c.UserID = id.UserID(uid)
	c.DocumentTypeID = id.DocumentTypeID(tid)
	if expiry.Valid {
		t := expiry.Time
		c.ExpiryDate = &t
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode certificate metadata: %w", err)
		}
	}
	return &c, nil
}

type pgScores struct{ p *Postgres }

func (v pgScores) ListByUser(ctx context.Context, userID id.UserID) ([]ScoreRow, error) {
	rows, err := v.p.db.QueryContext(ctx, `
		SELECT score_board_id, user_id, course_id, course_name, COALESCE(course_code, ''),
		       credits, score1, score2, score3, score4, score5, score6,
		       COALESCE(letter_grade, ''), COALESCE(status, ''), semester,
		       COALESCE(academic_year, '')
		FROM score_board
		WHERE user_id = $1
		ORDER BY academic_year, semester, course_name
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list score board: %w", err)
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var r ScoreRow
		var uid uuid.UUID
		scores := make([]sql.NullFloat64, 6)
		err := rows.Scan(&r.ID, &uid, &r.CourseID, &r.CourseName, &r.CourseCode,
			&r.Credits, &scores[0], &scores[1], &scores[2], &scores[3], &scores[4], &scores[5],
			&r.LetterGrade, &r.Status, &r.Semester, &r.AcademicYear)
		if err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		r.UserID = id.UserID(uid)
		for i, s := range scores {
			if s.Valid {
				val := s.Float64
				r.Scores[i] = &val
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
