// Package otpcode derives one-time password codes at explicit moving-factor
// values, for both counter-based (HOTP) and time-based (TOTP) tokens.
//
// Unlike a login-path validator, callers here ask "what code would this seed
// produce at counter N" so a search can probe a whole window of counters
// without ever mutating token state.
package otpcode
