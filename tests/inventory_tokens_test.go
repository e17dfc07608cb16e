package tests

import (
	"bytes"
	"net/http"
	"testing"
)

func TestTokenListReturnsInventory(t *testing.T) {
	token := operatorToken(t)

	status, body := doJSON(t, http.MethodGet, "/api/v1/inventory/tokens?size=10&page=1", nil, token)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("token list failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		Tokens []tokenData `json:"tokens"`
	}
	env := decodeSuccess(t, body, &data)

	if len(data.Tokens) == 0 {
		t.Fatal("expected at least one seeded token")
	}
	if env.Meta["total"] == nil {
		t.Error("missing total in meta")
	}
	if bytes.Contains(body, []byte("seed")) {
		t.Error("listing leaked seed material")
	}
}

func TestTokenListFiltersByType(t *testing.T) {
	token := operatorToken(t)

	status, body := doJSON(t, http.MethodGet, "/api/v1/inventory/tokens?type=totp", nil, token)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("token list failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		Tokens []tokenData `json:"tokens"`
	}
	decodeSuccess(t, body, &data)

	for _, tok := range data.Tokens {
		if tok.Type != "totp" {
			t.Errorf("token %s has type %q, want totp", tok.Serial, tok.Type)
		}
	}
}

func TestTokenDetailUnknownSerial(t *testing.T) {
	token := operatorToken(t)

	status, body := doJSON(t, http.MethodGet, "/api/v1/inventory/tokens/NOPE0001", nil, token)
	if status != http.StatusNotFound {
		errEnv := decodeError(t, body)
		t.Fatalf("status = %d message=%q, want 404", status, errEnv.Message)
	}
}

func TestTokenExportReturnsDownloadLink(t *testing.T) {
	token := operatorToken(t)

	status, body := doJSON(t, http.MethodGet, "/api/v1/inventory/tokens-export", nil, token)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("token export failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		DownloadURL string `json:"download_url"`
		Count       int    `json:"count"`
	}
	decodeSuccess(t, body, &data)

	if data.DownloadURL == "" {
		t.Error("missing download url")
	}
	if data.Count == 0 {
		t.Error("expected at least one exported token")
	}
}
