package otpcode

import (
	"crypto/subtle"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// DefaultPeriod is the time-step length used when a token has none recorded.
const DefaultPeriod int64 = 30

// Deriver computes OTP codes for a base32 seed at absolute counter values.
type Deriver interface {
	// At returns the code the seed produces at the given counter.
	At(seed string, counter uint64, digits int) (string, error)
	// TimeStep returns the moving factor a time-based token uses at the
	// given instant for the given period in seconds.
	TimeStep(at time.Time, periodSeconds int64) uint64
}

// HMACSHA1 derives codes with the RFC 4226 / RFC 6238 default algorithm.
type HMACSHA1 struct{}

// New returns an HMAC-SHA1 code deriver.
func New() *HMACSHA1 {
	return &HMACSHA1{}
}

// At returns the code the seed produces at the given counter.
// If digits is not 6 or 8, it falls back to 6.
func (*HMACSHA1) At(seed string, counter uint64, digits int) (string, error) {
	d := otp.DigitsSix
	if digits == 8 {
		d = otp.DigitsEight
	}

	return hotp.GenerateCodeCustom(seed, counter, hotp.ValidateOpts{
		Digits:    d,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// TimeStep returns floor(unix / period) for the given instant.
// A non-positive period falls back to DefaultPeriod.
func (*HMACSHA1) TimeStep(at time.Time, periodSeconds int64) uint64 {
	if periodSeconds <= 0 {
		periodSeconds = DefaultPeriod
	}

	return uint64(at.Unix() / periodSeconds)
}

// Equal compares two codes in constant time.
func Equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
