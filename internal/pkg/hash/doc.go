// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is fingerprinting a sensitive value for audit correlation:
// store only the keyed digest, never the value itself, then compare later
// inputs against the stored digest.
package hash
