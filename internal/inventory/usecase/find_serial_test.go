package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tokenops/serialfind/internal/inventory/entity"
	"github.com/tokenops/serialfind/internal/pkg/goerror"
)

func TestFindSerial_Found(t *testing.T) {
	// Arrange
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
		hotpToken(t, enc, "HOTP0002", seedBravo, 10),
	})
	observed := codeAt(t, deps.deriver, seedAlpha, 12) // offset 2 from counter 10

	// Act
	out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{OTP: observed, Window: 5})

	// Assert
	if err != nil {
		t.Fatalf("FindSerial returned error: %v", err)
	}
	if out.Result.Outcome != entity.MatchOutcomeFound {
		t.Fatalf("outcome = %s, want Found", out.Result.Outcome)
	}
	if out.Result.Serial != "HOTP0001" {
		t.Errorf("serial = %q, want HOTP0001", out.Result.Serial)
	}
	if out.Result.Offset != 2 {
		t.Errorf("offset = %d, want 2", out.Result.Offset)
	}
	if out.Result.Candidates != 2 {
		t.Errorf("candidates = %d, want 2", out.Result.Candidates)
	}
}

func TestFindSerial_FoundTOTP(t *testing.T) {
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		totpToken(t, enc, "TOTP0001", seedAlpha, 30),
	})

	// One step ahead of the current time step, within a window of 1.
	step := deps.deriver.TimeStep(testNow, 30)
	observed := codeAt(t, deps.deriver, seedAlpha, step+1)

	out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{OTP: observed, Window: 1})
	if err != nil {
		t.Fatalf("FindSerial returned error: %v", err)
	}
	if out.Result.Outcome != entity.MatchOutcomeFound {
		t.Fatalf("outcome = %s, want Found", out.Result.Outcome)
	}
	if out.Result.Serial != "TOTP0001" || out.Result.Offset != 1 {
		t.Errorf("got (%s, %d), want (TOTP0001, 1)", out.Result.Serial, out.Result.Offset)
	}
}

func TestFindSerial_NotFound(t *testing.T) {
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
	})

	// Code two steps beyond the probed window.
	observed := codeAt(t, deps.deriver, seedAlpha, 14)

	out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{OTP: observed, Window: 2})
	if err != nil {
		t.Fatalf("FindSerial returned error: %v", err)
	}
	if out.Result.Outcome != entity.MatchOutcomeNotFound {
		t.Errorf("outcome = %s, want NotFound", out.Result.Outcome)
	}
}

func TestFindSerial_WindowZeroProbesOnlyCurrentState(t *testing.T) {
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
	})

	t.Run("current counter matches", func(t *testing.T) {
		out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{
			OTP: codeAt(t, deps.deriver, seedAlpha, 10), Window: 0,
		})
		if err != nil {
			t.Fatalf("FindSerial returned error: %v", err)
		}
		if out.Result.Outcome != entity.MatchOutcomeFound || out.Result.Offset != 0 {
			t.Errorf("got (%s, %d), want (Found, 0)", out.Result.Outcome, out.Result.Offset)
		}
	})

	t.Run("next counter does not", func(t *testing.T) {
		out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{
			OTP: codeAt(t, deps.deriver, seedAlpha, 11), Window: 0,
		})
		if err != nil {
			t.Fatalf("FindSerial returned error: %v", err)
		}
		if out.Result.Outcome != entity.MatchOutcomeNotFound {
			t.Errorf("outcome = %s, want NotFound", out.Result.Outcome)
		}
	})
}

func TestFindSerial_Ambiguous(t *testing.T) {
	// Two tokens enrolled with the same seed and counter produce the same
	// code; the scan must report both instead of picking one.
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		hotpToken(t, enc, "HOTP0002", seedAlpha, 10),
		hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
	})
	observed := codeAt(t, deps.deriver, seedAlpha, 11)

	out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{OTP: observed, Window: 3})
	if err != nil {
		t.Fatalf("FindSerial returned error: %v", err)
	}
	if out.Result.Outcome != entity.MatchOutcomeAmbiguous {
		t.Fatalf("outcome = %s, want Ambiguous", out.Result.Outcome)
	}
	if len(out.Result.Collisions) != 2 {
		t.Fatalf("collisions = %v, want 2 serials", out.Result.Collisions)
	}
	// Candidate order is serial order, independent of completion order.
	if out.Result.Collisions[0] != "HOTP0001" || out.Result.Collisions[1] != "HOTP0002" {
		t.Errorf("collisions = %v, want [HOTP0001 HOTP0002]", out.Result.Collisions)
	}
}

func TestFindSerial_Deterministic(t *testing.T) {
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		hotpToken(t, enc, "HOTP0003", seedAlpha, 10),
		hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
		hotpToken(t, enc, "HOTP0002", seedBravo, 10),
	})
	observed := codeAt(t, deps.deriver, seedAlpha, 10)

	// The worker pool must not change the answer across runs.
	for range 20 {
		out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{OTP: observed, Window: 2})
		if err != nil {
			t.Fatalf("FindSerial returned error: %v", err)
		}
		if out.Result.Outcome != entity.MatchOutcomeAmbiguous {
			t.Fatalf("outcome = %s, want Ambiguous", out.Result.Outcome)
		}
		if out.Result.Collisions[0] != "HOTP0001" || out.Result.Collisions[1] != "HOTP0003" {
			t.Fatalf("collisions = %v, want [HOTP0001 HOTP0003]", out.Result.Collisions)
		}
	}
}

func TestFindSerial_FilterNarrowsCandidates(t *testing.T) {
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
		totpToken(t, enc, "TOTP0001", seedAlpha, 30),
	})
	observed := codeAt(t, deps.deriver, seedAlpha, 10)

	// Restricted to time-based tokens, the counter token cannot match even
	// though its seed would produce the observed code.
	out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{
		OTP:    observed,
		Window: 0,
		Type:   entity.TokenTypeTOTP,
	})
	if err != nil {
		t.Fatalf("FindSerial returned error: %v", err)
	}
	if out.Result.Candidates != 1 {
		t.Errorf("candidates = %d, want 1", out.Result.Candidates)
	}
	if out.Result.Outcome != entity.MatchOutcomeNotFound {
		t.Errorf("outcome = %s, want NotFound", out.Result.Outcome)
	}
}

func TestFindSerial_EmptyCandidateSet(t *testing.T) {
	deps := newTestDeps(t, nil)

	out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{OTP: "123456", Window: 5})
	if err != nil {
		t.Fatalf("FindSerial returned error: %v", err)
	}
	if out.Result.Outcome != entity.MatchOutcomeNotFound {
		t.Errorf("outcome = %s, want NotFound", out.Result.Outcome)
	}
	if out.Result.Candidates != 0 {
		t.Errorf("candidates = %d, want 0", out.Result.Candidates)
	}
}

func TestFindSerial_Incomplete(t *testing.T) {
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
		hotpToken(t, enc, "HOTP0002", seedBravo, 10),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // deadline already expired before any candidate is verified

	out, err := deps.uc.FindSerial(ctx, FindSerialInput{OTP: "123456", Window: 5})
	if err != nil {
		t.Fatalf("FindSerial returned error: %v", err)
	}
	if out.Result.Outcome != entity.MatchOutcomeIncomplete {
		t.Errorf("outcome = %s, want Incomplete", out.Result.Outcome)
	}
	if out.Result.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", out.Result.Skipped)
	}
}

func TestClassify(t *testing.T) {
	cands := []entity.Token{
		{Serial: "HOTP0001"},
		{Serial: "HOTP0002"},
		{Serial: "HOTP0003"},
	}

	tests := []struct {
		name    string
		results []candidateResult
		want    entity.MatchOutcome
	}{
		{
			name:    "single match",
			results: []candidateResult{{matched: true, offset: 3}, {}, {}},
			want:    entity.MatchOutcomeFound,
		},
		{
			name:    "no match",
			results: []candidateResult{{}, {}, {}},
			want:    entity.MatchOutcomeNotFound,
		},
		{
			name:    "two matches are ambiguous",
			results: []candidateResult{{matched: true}, {matched: true}, {}},
			want:    entity.MatchOutcomeAmbiguous,
		},
		{
			name:    "ambiguity wins over skips",
			results: []candidateResult{{matched: true}, {matched: true}, {skipped: true}},
			want:    entity.MatchOutcomeAmbiguous,
		},
		{
			name:    "single match with skips is incomplete",
			results: []candidateResult{{matched: true}, {skipped: true}, {}},
			want:    entity.MatchOutcomeIncomplete,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(cands, tc.results)

			if got.Outcome != tc.want {
				t.Fatalf("outcome = %s, want %s", got.Outcome, tc.want)
			}
			if got.Candidates != len(cands) {
				t.Errorf("candidates = %d, want %d", got.Candidates, len(cands))
			}
		})
	}
}

func TestFindSerial_InvalidInputs(t *testing.T) {
	deps := newTestDeps(t, nil)

	tests := []struct {
		name string
		in   FindSerialInput
	}{
		{name: "empty otp", in: FindSerialInput{OTP: "", Window: 1}},
		{name: "non numeric otp", in: FindSerialInput{OTP: "12ab56", Window: 1}},
		{name: "otp too short", in: FindSerialInput{OTP: "12345", Window: 1}},
		{name: "negative window", in: FindSerialInput{OTP: "123456", Window: -1}},
		{name: "window above cap", in: FindSerialInput{OTP: "123456", Window: 101}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := deps.uc.FindSerial(context.Background(), tc.in)

			var goErr *goerror.Error
			if !errors.As(err, &goErr) {
				t.Fatalf("FindSerial error = %v, want *goerror.Error", err)
			}
			if goErr.Type() != goerror.TypeValidation {
				t.Errorf("error type = %v, want validation", goErr.Type())
			}
		})
	}
}

func TestFindSerial_RepositoryFailure(t *testing.T) {
	deps := newTestDeps(t, nil)
	deps.repo.failAll = true

	_, err := deps.uc.FindSerial(context.Background(), FindSerialInput{OTP: "123456", Window: 1})

	var goErr *goerror.Error
	if !errors.As(err, &goErr) {
		t.Fatalf("FindSerial error = %v, want *goerror.Error", err)
	}
	if goErr.Type() != goerror.TypeServer {
		t.Errorf("error type = %v, want server", goErr.Type())
	}
}

func TestFindSerial_PublishesAuditWithoutSecrets(t *testing.T) {
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
	})
	observed := codeAt(t, deps.deriver, seedAlpha, 10)

	if _, err := deps.uc.FindSerial(context.Background(), FindSerialInput{OTP: observed, Window: 0}); err != nil {
		t.Fatalf("FindSerial returned error: %v", err)
	}

	evt := deps.audit.last()
	if evt == nil {
		t.Fatal("no audit event published")
	}
	if evt.Outcome != "found" {
		t.Errorf("event outcome = %q, want found", evt.Outcome)
	}
	if evt.Serial != "HOTP0001" {
		t.Errorf("event serial = %q, want HOTP0001", evt.Serial)
	}
	if evt.OTPDigest == "" || evt.OTPDigest == observed {
		t.Errorf("event must carry a digest, not the observed code (digest=%q)", evt.OTPDigest)
	}
}

func TestFindSerial_AuditFailureDoesNotFailSearch(t *testing.T) {
	enc := testSeedEncryptor()
	deps := newTestDeps(t, []entity.Token{
		hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
	})
	deps.audit.err = errors.New("broker down")
	observed := codeAt(t, deps.deriver, seedAlpha, 10)

	out, err := deps.uc.FindSerial(context.Background(), FindSerialInput{OTP: observed, Window: 0})
	if err != nil {
		t.Fatalf("FindSerial returned error: %v", err)
	}
	if out.Result.Outcome != entity.MatchOutcomeFound {
		t.Errorf("outcome = %s, want Found", out.Result.Outcome)
	}
}
