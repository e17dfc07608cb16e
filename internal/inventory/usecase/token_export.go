package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tokenops/serialfind/internal/inventory/entity"
	"github.com/tokenops/serialfind/internal/pkg/goerror"
	"github.com/tokenops/serialfind/internal/pkg/storage"
)

const tokenExportPageSize int32 = 1_000

type (
	TokenExportInput struct {
		Type           string
		SerialContains string
		Assigned       string
	}

	TokenExportOutput struct {
		// DownloadURL is a presigned link to the uploaded CSV.
		DownloadURL string
		Count       int
	}
)

// TokenExport writes the filtered inventory as CSV to object storage and
// returns a presigned download link. The export carries public fields only;
// seed material never appears in it.
func (s *Usecase) TokenExport(ctx context.Context, in TokenExportInput) (*TokenExportOutput, error) {
	ctx, span := s.startSpan(ctx, "TokenExport")
	defer span.End()

	filterData := entity.TokenListFilterData{
		Filter: entity.TokenFilter{
			Type:           entity.TokenTypeFromString(in.Type),
			SerialContains: in.SerialContains,
			Assigned:       entity.AssignStateFromString(in.Assigned),
		},
		Size: tokenExportPageSize,
		Page: 0,
	}

	var (
		tokens []entity.Token
		page   int32 = 1
		total  int64
	)

	for {
		filterData.Page = (page - 1) * tokenExportPageSize

		pageTokens, count, err := s.repoDB.GetTokenList(ctx, filterData)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo export tokens", "error", err)
			return nil, goerror.NewServer(err)
		}

		if page == 1 {
			total = count
			if total == 0 {
				break
			}
			tokens = make([]entity.Token, 0, min(total, int64(tokenExportPageSize)))
		}

		tokens = append(tokens, pageTokens...)

		if int64(len(tokens)) >= total || len(pageTokens) == 0 {
			break
		}

		page++
	}

	body, err := renderTokenCSV(tokens)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render token export csv", "error", err)
		return nil, goerror.NewServer(err)
	}

	bucket := s.cfg.GetString("modules.inventory.export_bucket")
	key := fmt.Sprintf("exports/tokens-%s-%s.csv",
		s.clock.Now().UTC().Format("20060102T150405Z"), s.uuid.Generate())

	if _, err := s.storage.PutObject(ctx, bucket, key, bytes.NewReader(body), storage.PutOptions{
		Size:        int64(len(body)),
		ContentType: "text/csv",
	}); err != nil {
		slog.ErrorContext(ctx, "failed to upload token export", "bucket", bucket, "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	expiry := s.cfg.GetMinute("modules.inventory.export_url_ttl_minutes")
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	url, err := s.storage.PresignGet(ctx, bucket, key, expiry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to presign token export", "bucket", bucket, "key", key, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TokenExportOutput{DownloadURL: url, Count: len(tokens)}, nil
}

func renderTokenCSV(tokens []entity.Token) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"serial", "type", "assigned", "active", "counter", "period_seconds", "digits", "created_at"}); err != nil {
		return nil, err
	}

	for _, tok := range tokens {
		rec := []string{
			tok.Serial,
			tok.Type.String(),
			strconv.FormatBool(tok.Assigned),
			strconv.FormatBool(tok.Active),
			strconv.FormatInt(tok.Counter, 10),
			strconv.FormatInt(tok.PeriodSeconds, 10),
			strconv.Itoa(tok.Digits),
			tok.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
