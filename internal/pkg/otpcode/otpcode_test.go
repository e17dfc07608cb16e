package otpcode

import (
	"testing"
	"time"
)

// Base32 encoding of the ASCII seed "12345678901234567890" from RFC 4226
// Appendix D.
const rfc4226Seed = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestHMACSHA1_At_RFC4226Vectors(t *testing.T) {
	want := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}

	d := New()

	for counter, expected := range want {
		// Act
		code, err := d.At(rfc4226Seed, uint64(counter), 6)

		// Assert
		if err != nil {
			t.Fatalf("At(counter=%d) returned error: %v", counter, err)
		}
		if code != expected {
			t.Errorf("At(counter=%d) = %q, want %q", counter, code, expected)
		}
	}
}

func TestHMACSHA1_At_DigitsFallback(t *testing.T) {
	d := New()

	// Unsupported digit counts fall back to six digits.
	six, err := d.At(rfc4226Seed, 0, 7)
	if err != nil {
		t.Fatalf("At with 7 digits returned error: %v", err)
	}
	if six != "755224" {
		t.Errorf("At with 7 digits = %q, want six-digit fallback %q", six, "755224")
	}

	eight, err := d.At(rfc4226Seed, 0, 8)
	if err != nil {
		t.Fatalf("At with 8 digits returned error: %v", err)
	}
	if len(eight) != 8 {
		t.Errorf("At with 8 digits returned %q, want 8 characters", eight)
	}
}

func TestHMACSHA1_TimeStep(t *testing.T) {
	d := New()

	tests := []struct {
		name   string
		at     time.Time
		period int64
		want   uint64
	}{
		{
			name:   "thirty second period",
			at:     time.Unix(59, 0),
			period: 30,
			want:   1,
		},
		{
			name:   "step boundary",
			at:     time.Unix(60, 0),
			period: 30,
			want:   2,
		},
		{
			name:   "zero period falls back to default",
			at:     time.Unix(59, 0),
			period: 0,
			want:   1,
		},
		{
			name:   "sixty second period",
			at:     time.Unix(119, 0),
			period: 60,
			want:   1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.TimeStep(tc.at, tc.period); got != tc.want {
				t.Errorf("TimeStep(%v, %d) = %d, want %d", tc.at.Unix(), tc.period, got, tc.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "equal codes", a: "755224", b: "755224", want: true},
		{name: "different codes", a: "755224", b: "755225", want: false},
		{name: "length mismatch", a: "755224", b: "75522", want: false},
		{name: "both empty", a: "", b: "", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Errorf("Equal(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
