package usecase

import (
	"context"
	"log/slog"

	"github.com/tokenops/serialfind/internal/inventory/entity"
	"github.com/tokenops/serialfind/internal/pkg/goerror"
)

type TokenListInput struct {
	Type           string // lowercase type name; already trimmed
	SerialContains string // already trimmed
	Assigned       string // "assigned", "unassigned" or empty
	Size           int32
	Page           int32
}

type TokenListOutput struct {
	Page   int32
	Size   int32
	Total  int64
	Tokens []entity.Token
}

func (s *Usecase) TokenList(ctx context.Context, in TokenListInput) (*TokenListOutput, error) {
	ctx, span := s.startSpan(ctx, "TokenList")
	defer span.End()

	if in.Size <= 0 || in.Size > 100 {
		in.Size = 10 // default limit
	}

	filterData := entity.TokenListFilterData{
		Filter: entity.TokenFilter{
			Type:           entity.TokenTypeFromString(in.Type),
			SerialContains: in.SerialContains,
			Assigned:       entity.AssignStateFromString(in.Assigned),
		},
		Size: in.Size,
		Page: (max(in.Page, 1) - 1) * in.Size,
	}

	tokens, count, err := s.repoDB.GetTokenList(ctx, filterData)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list tokens", "error", err)
		return nil, goerror.NewServer(err)
	}

	// Listing is an inventory view; sealed seeds stay in the repository layer
	// and must not ride along into transport.
	for i := range tokens {
		tokens[i].SeedEnc = nil
	}

	return &TokenListOutput{
		Page:   max(in.Page, 1),
		Size:   in.Size,
		Total:  count,
		Tokens: tokens,
	}, nil
}
