package db

import (
	"context"

	"github.com/tokenops/serialfind/internal/pkg/goerror"
)

// AdvanceTokenCounter moves a token's counter forward. The guard in the WHERE
// clause makes the update monotonic even under concurrent confirmations; a
// stale or repeated value changes nothing.
func (s *DB) AdvanceTokenCounter(ctx context.Context, serial string, newCounter int64) (err error) {
	ctx, span := s.startSpan(ctx, "AdvanceTokenCounter")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE inventory_tokens
		SET counter = $2, updated_at = now()
		WHERE serial = $1 AND counter < $2`,
		serial, newCounter)
	if err != nil {
		return s.mapError(err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		err = s.conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM inventory_tokens WHERE serial = $1)`,
			serial).Scan(&exists)
		if err != nil {
			return s.mapError(err)
		}
		if !exists {
			return goerror.ErrNotFound
		}
		return goerror.ErrConflict
	}

	return nil
}
