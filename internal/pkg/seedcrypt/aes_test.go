package seedcrypt

import (
	"bytes"
	"errors"
	"testing"
)

func testEncryptor() *AESGCMEncryptor {
	key := bytes.Repeat([]byte{0x42}, 32)
	return NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: key})
}

func TestAESGCMEncryptor_RoundTrip(t *testing.T) {
	// Arrange
	e := testEncryptor()
	scope := Scope{Serial: "OATH0001", Purpose: PurposeOTPSeed}
	plain := []byte("GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ")

	// Act
	sealed, err := e.Encrypt(plain, scope)
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}
	opened, err := e.Decrypt(sealed, scope)

	// Assert
	if err != nil {
		t.Fatalf("Decrypt returned error: %v", err)
	}
	if !bytes.Equal(opened, plain) {
		t.Errorf("Decrypt = %q, want %q", opened, plain)
	}
}

func TestAESGCMEncryptor_ScopeMismatch(t *testing.T) {
	e := testEncryptor()
	plain := []byte("seed-material")

	sealed, err := e.Encrypt(plain, Scope{Serial: "OATH0001", Purpose: PurposeOTPSeed})
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}

	// A blob sealed for one serial must not open under another.
	if _, err := e.Decrypt(sealed, Scope{Serial: "OATH0002", Purpose: PurposeOTPSeed}); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Decrypt with wrong serial = %v, want ErrDecryptFailed", err)
	}
}

func TestAESGCMEncryptor_Tampered(t *testing.T) {
	e := testEncryptor()
	scope := Scope{Serial: "OATH0001", Purpose: PurposeOTPSeed}

	sealed, err := e.Encrypt([]byte("seed-material"), scope)
	if err != nil {
		t.Fatalf("Encrypt returned error: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xFF

	if _, err := e.Decrypt(sealed, scope); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("Decrypt of tampered blob = %v, want ErrDecryptFailed", err)
	}
}

func TestAESGCMEncryptor_InvalidInputs(t *testing.T) {
	e := testEncryptor()
	scope := Scope{Serial: "OATH0001", Purpose: PurposeOTPSeed}

	t.Run("empty plaintext", func(t *testing.T) {
		if _, err := e.Encrypt(nil, scope); !errors.Is(err, ErrPlaintextEmpty) {
			t.Errorf("Encrypt(nil) = %v, want ErrPlaintextEmpty", err)
		}
	})

	t.Run("short ciphertext", func(t *testing.T) {
		if _, err := e.Decrypt([]byte{0, 1, 2}, scope); !errors.Is(err, ErrCiphertextTooShort) {
			t.Errorf("Decrypt(short) = %v, want ErrCiphertextTooShort", err)
		}
	})

	t.Run("wrong key length", func(t *testing.T) {
		bad := NewAESGCMEncryptor(StaticKeyProvider{KeyBytes: []byte("short")})
		if _, err := bad.Encrypt([]byte("x"), scope); !errors.Is(err, ErrInvalidKeyLength) {
			t.Errorf("Encrypt with short key = %v, want ErrInvalidKeyLength", err)
		}
	})
}
