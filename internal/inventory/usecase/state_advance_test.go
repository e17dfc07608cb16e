package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tokenops/serialfind/internal/inventory/entity"
	"github.com/tokenops/serialfind/internal/pkg/goerror"
)

func TestStateAdvance(t *testing.T) {
	enc := testSeedEncryptor()

	t.Run("moves counter forward", func(t *testing.T) {
		// Arrange
		deps := newTestDeps(t, []entity.Token{
			hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
		})

		// Act
		out, err := deps.uc.StateAdvance(context.Background(), StateAdvanceInput{Serial: "HOTP0001", Counter: 13})

		// Assert
		if err != nil {
			t.Fatalf("StateAdvance returned error: %v", err)
		}
		if out.Counter != 13 {
			t.Errorf("counter = %d, want 13", out.Counter)
		}

		tok, err := deps.repo.GetTokenBySerial(context.Background(), "HOTP0001")
		if err != nil {
			t.Fatalf("GetTokenBySerial returned error: %v", err)
		}
		if tok.Counter != 13 {
			t.Errorf("persisted counter = %d, want 13", tok.Counter)
		}
	})

	t.Run("rejects non forward counter", func(t *testing.T) {
		deps := newTestDeps(t, []entity.Token{
			hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
		})

		_, err := deps.uc.StateAdvance(context.Background(), StateAdvanceInput{Serial: "HOTP0001", Counter: 10})

		var goErr *goerror.Error
		if !errors.As(err, &goErr) {
			t.Fatalf("StateAdvance error = %v, want *goerror.Error", err)
		}
		if goErr.Code() != goerror.CodeConflict {
			t.Errorf("error code = %v, want conflict", goErr.Code())
		}
	})

	t.Run("rejects repeated confirmation", func(t *testing.T) {
		deps := newTestDeps(t, []entity.Token{
			hotpToken(t, enc, "HOTP0001", seedAlpha, 10),
		})

		if _, err := deps.uc.StateAdvance(context.Background(), StateAdvanceInput{Serial: "HOTP0001", Counter: 13}); err != nil {
			t.Fatalf("first StateAdvance returned error: %v", err)
		}

		_, err := deps.uc.StateAdvance(context.Background(), StateAdvanceInput{Serial: "HOTP0001", Counter: 13})

		var goErr *goerror.Error
		if !errors.As(err, &goErr) {
			t.Fatalf("second StateAdvance error = %v, want *goerror.Error", err)
		}
		if goErr.Code() != goerror.CodeConflict {
			t.Errorf("error code = %v, want conflict", goErr.Code())
		}
	})

	t.Run("unknown serial", func(t *testing.T) {
		deps := newTestDeps(t, nil)

		_, err := deps.uc.StateAdvance(context.Background(), StateAdvanceInput{Serial: "NOPE0001", Counter: 5})

		var goErr *goerror.Error
		if !errors.As(err, &goErr) {
			t.Fatalf("StateAdvance error = %v, want *goerror.Error", err)
		}
		if goErr.Code() != goerror.CodeNotFound {
			t.Errorf("error code = %v, want not found", goErr.Code())
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		deps := newTestDeps(t, nil)

		_, err := deps.uc.StateAdvance(context.Background(), StateAdvanceInput{Serial: "", Counter: 0})

		var goErr *goerror.Error
		if !errors.As(err, &goErr) {
			t.Fatalf("StateAdvance error = %v, want *goerror.Error", err)
		}
		if goErr.Type() != goerror.TypeValidation {
			t.Errorf("error type = %v, want validation", goErr.Type())
		}
	})
}
