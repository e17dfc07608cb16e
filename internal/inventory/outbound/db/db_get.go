package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/tokenops/serialfind/internal/inventory/entity"
)

// tokenColumns is the select list shared by every token query.
const tokenColumns = `serial, token_type, assigned, active, seed_enc, counter,
	period_seconds, digits, description, created_at, updated_at`

// tokenWhere pushes the candidate filter into SQL. A zero value in an
// argument disables that constraint, mirroring entity.TokenFilter semantics.
// strpos keeps the substring match literal; LIKE would treat % and _ as
// wildcards.
const tokenWhere = `($1::smallint = 0 OR token_type = $1)
	AND ($2::text = '' OR strpos(serial, $2) > 0)
	AND ($3::smallint = 0 OR assigned = ($3 = 1))`

func filterArgs(f entity.TokenFilter) []any {
	return []any{int16(f.Type), f.SerialContains, int16(f.Assigned)}
}

func scanToken(row pgx.Row) (*entity.Token, error) {
	var (
		tok       entity.Token
		tokenType int16
		digits    int16
	)

	err := row.Scan(
		&tok.Serial,
		&tokenType,
		&tok.Assigned,
		&tok.Active,
		&tok.SeedEnc,
		&tok.Counter,
		&tok.PeriodSeconds,
		&digits,
		&tok.Description,
		&tok.CreatedAt,
		&tok.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tok.Type = entity.TokenType(tokenType)
	tok.Digits = int(digits)

	return &tok, nil
}

func (s *DB) GetTokenCandidates(ctx context.Context, filter entity.TokenFilter) (_ []entity.Token, err error) {
	ctx, span := s.startSpan(ctx, "GetTokenCandidates")
	defer func() { s.endSpan(span, err) }()

	// Stable ordering makes the downstream scan deterministic.
	query := `SELECT ` + tokenColumns + `
		FROM inventory_tokens
		WHERE ` + tokenWhere + `
		ORDER BY serial ASC`

	rows, err := s.conn.Query(ctx, query, filterArgs(filter)...)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	tokens := make([]entity.Token, 0)
	for rows.Next() {
		tok, err := scanToken(rows)
		if err != nil {
			return nil, s.mapError(err)
		}
		tokens = append(tokens, *tok)
	}
	if err := rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return tokens, nil
}

func (s *DB) GetTokenList(ctx context.Context, filter entity.TokenListFilterData) (_ []entity.Token, _ int64, err error) {
	ctx, span := s.startSpan(ctx, "GetTokenList")
	defer func() { s.endSpan(span, err) }()

	args := filterArgs(filter.Filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM inventory_tokens WHERE ` + tokenWhere
	if err := s.conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, s.mapError(err)
	}

	query := `SELECT ` + tokenColumns + `
		FROM inventory_tokens
		WHERE ` + tokenWhere + `
		ORDER BY serial ASC
		LIMIT $4 OFFSET $5`

	rows, err := s.conn.Query(ctx, query, append(args, filter.Size, filter.Page)...)
	if err != nil {
		return nil, 0, s.mapError(err)
	}
	defer rows.Close()

	tokens := make([]entity.Token, 0, filter.Size)
	for rows.Next() {
		tok, err := scanToken(rows)
		if err != nil {
			return nil, 0, s.mapError(err)
		}
		tokens = append(tokens, *tok)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, s.mapError(err)
	}

	return tokens, total, nil
}

func (s *DB) GetTokenBySerial(ctx context.Context, serial string) (_ *entity.Token, err error) {
	ctx, span := s.startSpan(ctx, "GetTokenBySerial")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + tokenColumns + `
		FROM inventory_tokens
		WHERE serial = $1`

	tok, err := scanToken(s.conn.QueryRow(ctx, query, serial))
	if err != nil {
		return nil, s.mapError(err)
	}

	return tok, nil
}
