// Package eventbus provides a small publish-only abstraction over message
// brokers. The service emits audit events and never consumes them, so the
// surface is a Publisher plus the broker-agnostic message types it needs.
package eventbus
