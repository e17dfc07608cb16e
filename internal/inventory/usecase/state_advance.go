package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tokenops/serialfind/internal/pkg/goerror"
	"github.com/tokenops/serialfind/internal/pkg/replay"
)

type StateAdvanceInput struct {
	Serial string `validate:"required"`

	// Counter is the new moving-factor value: the matched counter plus one,
	// confirmed by the operator after a Found search outcome.
	Counter int64 `validate:"min=1"`
}

type StateAdvanceOutput struct {
	Serial  string
	Counter int64
}

// StateAdvance persists a confirmed post-match counter for a counter-based
// token. The search itself never mutates state; this is the separate,
// explicit step that does.
//
// Two guards keep it safe to retry: a Redis claim rejects the same
// confirmation applied twice, and the SQL update only ever moves the counter
// forward.
func (s *Usecase) StateAdvance(ctx context.Context, in StateAdvanceInput) (*StateAdvanceOutput, error) {
	ctx, span := s.startSpan(ctx, "StateAdvance")
	defer span.End()

	in.Serial = strings.TrimSpace(in.Serial)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	claim := fmt.Sprintf("state_advance:%s:%d", in.Serial, in.Counter)
	err := s.replay.Once(ctx, claim, s.cfg.GetHour("modules.inventory.confirm_ttl_hours"))
	if errors.Is(err, replay.ErrReplayed) {
		slog.WarnContext(ctx, "state advance replayed", "serial", in.Serial, "counter", in.Counter)
		return nil, goerror.NewBusiness("confirmation already applied", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to claim state advance", "serial", in.Serial, "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.repoDB.AdvanceTokenCounter(ctx, in.Serial, in.Counter)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "token not found for state advance", "serial", in.Serial)
		return nil, goerror.NewBusiness("token not found", goerror.CodeNotFound)
	}
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "state advance is not monotonic", "serial", in.Serial, "counter", in.Counter)
		return nil, goerror.NewBusiness("counter must move forward", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo advance token counter", "serial", in.Serial, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &StateAdvanceOutput{Serial: in.Serial, Counter: in.Counter}, nil
}
