package seedcrypt

// Purpose identifies what a sealed blob is used for.
type Purpose string

const (
	// PurposeOTPSeed scopes encryption to token OTP seeds.
	PurposeOTPSeed Purpose = "otp_seed"
)

// Scope binds a ciphertext to the token it belongs to.
// It is used as AAD (Additional Authenticated Data) in AES-GCM, so a seed
// sealed for one serial cannot be opened under another.
type Scope struct {
	// Serial is the token serial the blob belongs to.
	Serial string
	// Purpose is the encryption purpose.
	Purpose Purpose
}
