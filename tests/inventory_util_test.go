package tests

import (
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tokenops/serialfind/internal/pkg/clock"
	"github.com/tokenops/serialfind/internal/pkg/jwt"
	"github.com/tokenops/serialfind/internal/pkg/otpcode"
	"github.com/tokenops/serialfind/internal/pkg/uid"
)

// Seeded fixtures expected in the database the server runs against
// (see the seed script in the deploy repo).
const (
	seededHOTPSerial = "HOTP0001"
	seededHOTPSeed   = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

	seededTOTPSerial = "TOTP0001"
	seededTOTPSeed   = "JBSWY3DPEHPK3PXP"
)

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// operatorToken mints a bearer token with the same symmetric secret the
// server is configured with. There is no login endpoint; operator identity
// comes from the surrounding SSO deployment.
func operatorToken(t *testing.T) string {
	t.Helper()

	secret := envOr("SERIALFIND_JWT_SECRET", strings.Repeat("local-dev-secret", 4))
	issuer := envOr("SERIALFIND_JWT_ISSUER", "serialfind")
	audience := envOr("SERIALFIND_JWT_AUDIENCE", "serialfind-api")

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(secret),
		Issuer:     issuer,
		Audiences:  []string{audience},
		TTLMinutes: 10 * time.Minute,
		Clock:      clock.New(),
		UUID:       uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("build jwt signer: %v", err)
	}

	token, err := signer.Generate(1, "operator@example.com")
	if err != nil {
		t.Fatalf("generate operator token: %v", err)
	}

	return token
}

type tokenData struct {
	Serial        string `json:"serial"`
	Type          string `json:"type"`
	Assigned      bool   `json:"assigned"`
	Active        bool   `json:"active"`
	Counter       int64  `json:"counter"`
	PeriodSeconds int64  `json:"period_seconds"`
	Digits        int    `json:"digits"`
}

func tokenDetail(t *testing.T, token, serial string) tokenData {
	t.Helper()

	status, body := doJSON(t, http.MethodGet, "/api/v1/inventory/tokens/"+serial, nil, token)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("token detail failed: status=%d message=%q", status, errEnv.Message)
	}

	var data struct {
		Token tokenData `json:"token"`
	}
	decodeSuccess(t, body, &data)

	return data.Token
}

func hotpCode(t *testing.T, seed string, counter uint64, digits int) string {
	t.Helper()

	code, err := otpcode.New().At(seed, counter, digits)
	if err != nil {
		t.Fatalf("derive hotp code: %v", err)
	}

	return code
}

type searchData struct {
	Outcome    string   `json:"outcome"`
	Serial     string   `json:"serial"`
	Offset     *int     `json:"offset"`
	Collisions []string `json:"collisions"`
	Candidates int      `json:"candidates"`
	Skipped    int      `json:"skipped"`
	Window     int      `json:"window"`
}

func searchSerial(t *testing.T, token string, payload map[string]any) searchData {
	t.Helper()

	status, body := doJSON(t, http.MethodPost, "/api/v1/inventory/search/serial", payload, token)
	if status != http.StatusOK {
		errEnv := decodeError(t, body)
		t.Fatalf("serial search failed: status=%d message=%q", status, errEnv.Message)
	}

	var data searchData
	decodeSuccess(t, body, &data)

	return data
}
