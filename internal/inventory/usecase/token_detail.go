package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tokenops/serialfind/internal/inventory/entity"
	"github.com/tokenops/serialfind/internal/pkg/goerror"
)

type TokenDetailInput struct {
	Serial string `validate:"required"`
}

type TokenDetailOutput struct {
	Token entity.Token
}

func (s *Usecase) TokenDetail(ctx context.Context, in TokenDetailInput) (*TokenDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "TokenDetail")
	defer span.End()

	in.Serial = strings.TrimSpace(in.Serial)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	tok, err := s.repoDB.GetTokenBySerial(ctx, in.Serial)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "token not found", "serial", in.Serial)
		return nil, goerror.NewBusiness("token not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get token by serial", "serial", in.Serial, "error", err)
		return nil, goerror.NewServer(err)
	}

	tok.SeedEnc = nil

	return &TokenDetailOutput{Token: *tok}, nil
}
