// Package ledger persists user credit balances and enforces at-most-one
// redemption per world seed.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/TechnologicNick/scrap-mechanic-casino/internal/apperr"
)

// Submitter is the boundary the deposit flow hands (seed, amount) to.
// SubmitDeposit returns apperr.ErrAlreadyRedeemed when the seed was consumed
// before, distinct from any other failure.
type Submitter interface {
	SubmitDeposit(ctx context.Context, account string, seed uint32, amount uint64) error
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id      TEXT PRIMARY KEY,
	credits INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS deposits (
	seed       INTEGER NOT NULL UNIQUE,
	account    TEXT NOT NULL,
	amount     INTEGER NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite is the durable ledger. The UNIQUE constraint on deposits.seed is
// the anti-replay guarantee; it is checked in the same transaction that
// increments the balance.
type SQLite struct {
	conn *sql.DB
}

var _ Submitter = (*SQLite)(nil)

// Open opens (or creates) the ledger database and applies the schema.
func Open(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ledger: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (l *SQLite) Close() error {
	return l.conn.Close()
}

// SubmitDeposit records one redemption and credits the account atomically.
// A seed that was deposited before yields ErrAlreadyRedeemed and changes
// nothing.
func (l *SQLite) SubmitDeposit(ctx context.Context, account string, seed uint32, amount uint64) error {
	tx, err := l.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ledger: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.ExecContext(ctx,
		`INSERT INTO deposits (seed, account, amount) VALUES (?, ?, ?)`,
		int64(seed), account, int64(amount))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("ledger: seed %d: %w", seed, apperr.ErrAlreadyRedeemed)
		}
		return fmt.Errorf("ledger: insert deposit: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, credits) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET credits = credits + excluded.credits`,
		account, int64(amount))
	if err != nil {
		return fmt.Errorf("ledger: credit account: %w", err)
	}

	return tx.Commit()
}

// Credits returns the balance for account; unknown accounts hold zero.
func (l *SQLite) Credits(ctx context.Context, account string) (int64, error) {
	var credits int64
	err := l.conn.QueryRowContext(ctx,
		`SELECT credits FROM users WHERE id = ?`, account).Scan(&credits)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ledger: read credits: %w", err)
	}
	return credits, nil
}

// AdjustCredits applies a win or loss. A loss that would take the balance
// negative changes no rows and yields ErrInsufficientCredits.
func (l *SQLite) AdjustCredits(ctx context.Context, account string, delta int64) error {
	res, err := l.conn.ExecContext(ctx,
		`UPDATE users SET credits = credits + ? WHERE id = ? AND credits + ? >= 0`,
		delta, account, delta)
	if err != nil {
		return fmt.Errorf("ledger: adjust credits: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ledger: adjust credits: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ledger: account %s: %w", account, apperr.ErrInsufficientCredits)
	}
	return nil
}

// isUniqueViolation matches the driver's typed constraint errors rather
// than error message text.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
