//go:build integration

// Package containers provides testcontainers helpers for integration tests.
package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// docmint schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	document_id       uuid PRIMARY KEY,
	user_id           uuid NOT NULL,
	issuer_id         uuid NOT NULL,
	document_type_id  uuid NOT NULL,
	status            text NOT NULL,
	is_valid          boolean NOT NULL DEFAULT false,
	blockchain_doc_id text,
	token_id          text,
	tx_hash           text,
	contract_address  text NOT NULL,
	ipfs_hash         text,
	pdf_ipfs_hash     text,
	document_hash     text,
	metadata          jsonb,
	render_payload    jsonb,
	issued_at         timestamptz,
	verified_at       timestamptz,
	created_at        timestamptz NOT NULL,
	updated_at        timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_user ON documents (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_documents_token ON documents (token_id);

CREATE TABLE IF NOT EXISTS users (
	user_id      uuid PRIMARY KEY,
	full_name    text NOT NULL,
	email        text NOT NULL DEFAULT '',
	role         text NOT NULL DEFAULT 'student',
	student_code text NOT NULL DEFAULT '',
	major        text NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS wallet (
	wallet_id    uuid PRIMARY KEY,
	user_id      uuid NOT NULL UNIQUE,
	address      text NOT NULL,
	chain_type   text NOT NULL DEFAULT '',
	public_key   text NOT NULL DEFAULT '',
	status       text NOT NULL DEFAULT 'active',
	network_id   text NOT NULL DEFAULT '',
	last_used_at timestamptz,
	created_at   timestamptz NOT NULL DEFAULT now(),
	updated_at   timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS document_type (
	document_type_id uuid PRIMARY KEY,
	name             text NOT NULL UNIQUE,
	description      text NOT NULL DEFAULT '',
	template_pdf     text NOT NULL DEFAULT '',
	created_by       uuid,
	created_at       timestamptz NOT NULL DEFAULT now(),
	updated_at       timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS certificate (
	certificate_id   uuid PRIMARY KEY,
	user_id          uuid NOT NULL,
	document_type_id uuid NOT NULL,
	issued_date      timestamptz NOT NULL,
	expiry_date      timestamptz,
	description      text NOT NULL DEFAULT '',
	metadata         jsonb,
	created_at       timestamptz NOT NULL DEFAULT now(),
	updated_at       timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS score_board (
	score_board_id text PRIMARY KEY,
	user_id        uuid NOT NULL,
	course_id      text NOT NULL DEFAULT '',
	course_name    text NOT NULL DEFAULT '',
	course_code    text NOT NULL DEFAULT '',
	credits        integer NOT NULL DEFAULT 0,
	score1         double precision,
	score2         double precision,
	score3         double precision,
	score4         double precision,
	score5         double precision,
	score6         double precision,
	letter_grade   text NOT NULL DEFAULT '',
	status         text NOT NULL DEFAULT '',
	semester       text NOT NULL DEFAULT '',
	academic_year  text NOT NULL DEFAULT '',
	metadata       jsonb
);
`

// NewPostgresContainer starts a PostgreSQL container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("docmint"),
		tcpostgres.WithUsername("docmint"),
		tcpostgres.WithPassword("docmint"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(context.Background())
	})

	return &PostgresContainer{Container: container, URL: url, DB: db}
}

// Truncate empties the mutable tables between tests.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx, "TRUNCATE documents")
	return err
}
