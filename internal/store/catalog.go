package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/sparqlq/internal/querysparql"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("not found")

// Record is one saved query.
type Record struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
	Text        string `json:"text"`
	Seq         int64  `json:"seq"`
}

// SaveQuery stores compiled query text under name.
//
// Idempotent per (name, fingerprint): saving identical text again returns
// the existing record and inserted=false. New records take the next seq.
func (s *Store) SaveQuery(ctx context.Context, name, text string) (rec Record, inserted bool, err error) {
	fingerprint := querysparql.Fingerprint(text)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, false, fmt.Errorf("save query: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	existing, err := scanRecord(tx.QueryRowContext(ctx, `
		SELECT id, name, fingerprint, text, seq
		FROM queries
		WHERE name = ? AND fingerprint = ?
	`, name, fingerprint))
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return Record{}, false, fmt.Errorf("save query: lookup: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM queries`).Scan(&seq); err != nil {
		return Record{}, false, fmt.Errorf("save query: next seq: %w", err)
	}

	rec = Record{
		ID:          s.ids.Generate(),
		Name:        name,
		Fingerprint: fingerprint,
		Text:        text,
		Seq:         seq,
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO queries (id, name, fingerprint, text, seq)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.Fingerprint, rec.Text, rec.Seq); err != nil {
		return Record{}, false, fmt.Errorf("save query: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, false, fmt.Errorf("save query: commit: %w", err)
	}

	slog.Debug("saved query", "name", name, "fingerprint", fingerprint, "seq", seq)
	return rec, true, nil
}

// ListQueries returns every saved record.
// Results are ordered by seq ASC, id ASC.
func (s *Store) ListQueries(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, fingerprint, text, seq
		FROM queries
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list queries: scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list queries: %w", err)
	}
	return records, nil
}

// GetQuery returns the most recently saved record for name, or ErrNotFound.
func (s *Store) GetQuery(ctx context.Context, name string) (Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, `
		SELECT id, name, fingerprint, text, seq
		FROM queries
		WHERE name = ?
		ORDER BY seq DESC
		LIMIT 1
	`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get query %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get query %q: %w", name, err)
	}
	return rec, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.Fingerprint, &rec.Text, &rec.Seq)
	return rec, err
}
