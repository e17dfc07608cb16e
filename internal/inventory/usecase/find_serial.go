package usecase

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/tokenops/serialfind/internal/inventory/entity"
	"github.com/tokenops/serialfind/internal/pkg/goerror"
	"github.com/tokenops/serialfind/internal/pkg/goroutine"
	"github.com/tokenops/serialfind/internal/pkg/otpcode"
	"github.com/tokenops/serialfind/internal/pkg/seedcrypt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const defaultMaxWindow = 1000

type FindSerialInput struct {
	// OTP is the observed code. It is compared, hashed for audit, and never
	// logged or persisted.
	OTP string `validate:"required,otpcode"`

	// Window is the number of forward steps to probe beyond each token's
	// current state, inclusive.
	Window int

	Type           entity.TokenType
	SerialContains string
	Assigned       entity.AssignState
}

type FindSerialOutput struct {
	Result entity.MatchResult
}

// candidateResult is one slot of the aggregation slice. Workers write only
// their own index, so candidate order alone decides the outcome.
type candidateResult struct {
	matched bool
	offset  int
	skipped bool
}

// FindSerial answers "which enrolled token produced this code". It scans the
// full candidate set with no early return so that collisions are detected
// rather than silently resolved to whichever token happened to be checked
// first.
func (s *Usecase) FindSerial(ctx context.Context, in FindSerialInput) (*FindSerialOutput, error) {
	ctx, span := s.startSpan(ctx, "FindSerial")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	maxWindow := s.cfg.GetInt("modules.inventory.max_window")
	if maxWindow <= 0 {
		maxWindow = defaultMaxWindow
	}
	if in.Window < 0 || in.Window > maxWindow {
		return nil, goerror.NewInvalidInput(nil,
			"window", fmt.Sprintf("must be between 0 and %d", maxWindow))
	}

	filter := entity.TokenFilter{
		Type:           in.Type,
		SerialContains: in.SerialContains,
		Assigned:       in.Assigned,
	}

	cands, err := s.loadCandidates(ctx, filter)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "serial search scanning candidates",
		"candidates", len(cands), "window", in.Window, "filter", filterSummary(filter))

	now := s.clock.Now()
	results := make([]candidateResult, len(cands))

	pool := goroutine.NewManager(s.cfg.GetInt("modules.inventory.search_workers"))
	for i := range cands {
		scheduled := pool.Go(ctx, func(ctx context.Context) error {
			if ctx.Err() != nil {
				results[i].skipped = true
				return nil
			}

			offset, ok, err := s.verifyCandidate(ctx, cands[i], in.OTP, in.Window, now)
			if err != nil {
				return err
			}

			results[i] = candidateResult{matched: ok, offset: offset}
			return nil
		})
		if !scheduled {
			results[i].skipped = true
		}
	}

	if err := pool.Wait(); err != nil {
		slog.ErrorContext(ctx, "serial search candidate verification failed", "error", err)
		return nil, goerror.NewServer(err)
	}

	// Keyed digest of the observed code for audit correlation; the code
	// itself never leaves this function.
	digest, err := s.hmac.Hash(in.OTP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash observed code", "error", err)
		return nil, goerror.NewServer(err)
	}

	result := classify(cands, results)
	s.recordSearch(ctx, result, in.Window, filter, hex.EncodeToString(digest))

	return &FindSerialOutput{Result: result}, nil
}

func (s *Usecase) loadCandidates(ctx context.Context, filter entity.TokenFilter) ([]entity.Token, error) {
	tokens, err := s.repoDB.GetTokenCandidates(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get token candidates", "error", err)
		return nil, goerror.NewServer(err)
	}

	// The repository already pushes the constraints into SQL; re-applying the
	// pure predicate keeps the candidate set correct even if the two layers
	// ever disagree.
	return lo.Filter(tokens, func(t entity.Token, _ int) bool {
		return filter.Matches(t)
	}), nil
}

// verifyCandidate probes offsets 0..window from the token's current state and
// reports the first matching offset. Token state is never mutated.
func (s *Usecase) verifyCandidate(ctx context.Context, tok entity.Token, observed string, window int, now time.Time) (int, bool, error) {
	seedBytes, err := s.seedEncryptor.Decrypt(tok.SeedEnc, seedcrypt.Scope{
		Serial:  tok.Serial,
		Purpose: seedcrypt.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt token seed", "serial", tok.Serial, "error", err)
		return 0, false, fmt.Errorf("decrypt seed of %s: %w", tok.Serial, err)
	}
	defer func() {
		for i := range seedBytes {
			seedBytes[i] = 0
		}
	}()

	var base uint64
	switch tok.Type {
	case entity.TokenTypeHOTP:
		base = uint64(tok.Counter)
	case entity.TokenTypeTOTP:
		base = s.deriver.TimeStep(now, tok.PeriodSeconds)
	default:
		// Unknown types cannot produce codes; treated as a non-match.
		return 0, false, nil
	}

	seed := string(seedBytes)
	for i := 0; i <= window; i++ {
		code, err := s.deriver.At(seed, base+uint64(i), tok.Digits)
		if err != nil {
			return 0, false, fmt.Errorf("derive code of %s: %w", tok.Serial, err)
		}

		if otpcode.Equal(code, observed) {
			return i, true, nil
		}
	}

	return 0, false, nil
}

// classify folds per-candidate results into one MatchResult.
//
// Two or more matches prove ambiguity regardless of skipped candidates; a
// single match with skips cannot exclude a second matching token, so it is
// reported Incomplete rather than Found.
func classify(cands []entity.Token, results []candidateResult) entity.MatchResult {
	collisions := lo.FilterMap(results, func(r candidateResult, i int) (string, bool) {
		return cands[i].Serial, r.matched
	})
	skipped := lo.CountBy(results, func(r candidateResult) bool {
		return r.skipped
	})

	out := entity.MatchResult{
		Candidates: len(cands),
		Skipped:    skipped,
	}

	switch {
	case len(collisions) > 1:
		out.Outcome = entity.MatchOutcomeAmbiguous
		out.Collisions = collisions

	case skipped > 0:
		out.Outcome = entity.MatchOutcomeIncomplete

	case len(collisions) == 1:
		out.Outcome = entity.MatchOutcomeFound
		out.Serial = collisions[0]
		for i := range results {
			if results[i].matched {
				out.Offset = results[i].offset
				break
			}
		}

	default:
		out.Outcome = entity.MatchOutcomeNotFound
	}

	return out
}

func (s *Usecase) recordSearch(ctx context.Context, result entity.MatchResult, window int, filter entity.TokenFilter, otpDigest string) {
	meter := s.ins.Meter("inventory.usecase")
	if counter, err := meter.Int64Counter("search.outcomes",
		metric.WithDescription("serial searches by outcome")); err == nil {
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", result.Outcome.String())))
	}
	if hist, err := meter.Int64Histogram("search.candidates",
		metric.WithDescription("candidate set size per serial search")); err == nil {
		hist.Record(ctx, int64(result.Candidates))
	}

	slog.InfoContext(ctx, "serial search finished",
		"outcome", result.Outcome.String(),
		"candidates", result.Candidates,
		"skipped", result.Skipped,
		"collisions", len(result.Collisions))

	evt := SerialSearchEvent{
		EventID:    s.uid.Generate(),
		Outcome:    result.Outcome.String(),
		Serial:     result.Serial,
		Candidates: result.Candidates,
		Skipped:    result.Skipped,
		Window:     window,
		Filter:     filterSummary(filter),
		OTPDigest:  otpDigest,
		At:         s.clock.Now(),
	}
	if err := s.repoAudit.PublishSerialSearch(ctx, evt); err != nil {
		// The search result is already decided; a lost audit event is logged
		// but does not fail the call.
		slog.WarnContext(ctx, "failed to publish serial search audit event", "error", err)
	}
}

func filterSummary(f entity.TokenFilter) string {
	return fmt.Sprintf("type=%s contains=%t assigned=%s",
		f.Type.String(), f.SerialContains != "", f.Assigned.String())
}
