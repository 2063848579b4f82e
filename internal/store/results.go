package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetResult returns the cached response body for (fingerprint, endpoint).
// found is false when nothing is cached.
func (s *Store) GetResult(ctx context.Context, fingerprint, endpoint string) (body []byte, found bool, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT body FROM results
		WHERE fingerprint = ? AND endpoint = ?
	`, fingerprint, endpoint).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get result: %w", err)
	}
	return body, true, nil
}

// PutResult caches body for (fingerprint, endpoint), replacing any earlier
// entry. Each write takes the next seq.
func (s *Store) PutResult(ctx context.Context, fingerprint, endpoint string, body []byte) error {
	if body == nil {
		body = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (fingerprint, endpoint, body, seq)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM results))
		ON CONFLICT(fingerprint, endpoint) DO UPDATE SET
			body = excluded.body,
			seq = excluded.seq
	`, fingerprint, endpoint, body)
	if err != nil {
		return fmt.Errorf("put result: %w", err)
	}
	return nil
}

// ResultSeq returns the seq of the cached entry, or ErrNotFound.
func (s *Store) ResultSeq(ctx context.Context, fingerprint, endpoint string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT seq FROM results
		WHERE fingerprint = ? AND endpoint = ?
	`, fingerprint, endpoint).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("result seq: %w", ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("result seq: %w", err)
	}
	return seq, nil
}
