package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// EnsureSchema bootstraps all tables. Serialized with an advisory lock so
// api and worker can start concurrently.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	picture TEXT NOT NULL DEFAULT '',
	plan TEXT NOT NULL DEFAULT 'free',
	is_master_admin BOOLEAN NOT NULL DEFAULT FALSE,
	perizia_scans_remaining INTEGER NOT NULL DEFAULT 0,
	image_scans_remaining INTEGER NOT NULL DEFAULT 0,
	assistant_messages_remaining INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(user_id),
	session_token TEXT NOT NULL UNIQUE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(session_token);

CREATE TABLE IF NOT EXISTS analyses (
	analysis_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(user_id),
	case_id TEXT NOT NULL,
	run_id TEXT NOT NULL,
	revision INTEGER NOT NULL DEFAULT 0,
	case_title TEXT NOT NULL DEFAULT '',
	file_name TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	page_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	result JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_user_created ON analyses(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_analyses_case ON analyses(case_id);

CREATE TABLE IF NOT EXISTS transactions (
	transaction_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(user_id),
	checkout_session_id TEXT NOT NULL UNIQUE,
	plan_id TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	currency TEXT NOT NULL,
	status TEXT NOT NULL,
	payment_status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	entry_id TEXT PRIMARY KEY,
	admin_id TEXT NOT NULL,
	target_user_id TEXT NOT NULL,
	action TEXT NOT NULL,
	changes TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_target ON audit_log(target_user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS image_forensics (
	forensics_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(user_id),
	case_id TEXT NOT NULL,
	run_id TEXT NOT NULL,
	image_count INTEGER NOT NULL,
	result JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_forensics_user_created ON image_forensics(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS assistant_qa (
	qa_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(user_id),
	case_id TEXT NOT NULL DEFAULT '',
	run_id TEXT NOT NULL,
	question TEXT NOT NULL,
	answer JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assistant_user_created ON assistant_qa(user_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}
