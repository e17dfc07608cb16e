package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving duration configuration values.
type TimeConfig interface {
	// GetSecond retrieves the value associated with the given key as seconds.
	GetSecond(key string) time.Duration

	// GetMinute retrieves the value associated with the given key as minutes.
	GetMinute(key string) time.Duration

	// GetHour retrieves the value associated with the given key as hours.
	GetHour(key string) time.Duration
}

// IntConfig defines helpers for retrieving integer configuration values.
type IntConfig interface {
	// GetInt retrieves the value associated with the given key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value associated with the given key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the value associated with the given key as an int64.
	GetInt64(key string) int64

	// GetUint64 retrieves the value associated with the given key as a uint64.
	GetUint64(key string) uint64
}

// Config defines a set of methods for retrieving configuration values of
// various types. Implementations handle retrieval and type conversion,
// returning zero values when a key is missing or malformed.
type Config interface {
	io.Closer
	TimeConfig
	IntConfig

	// GetBool retrieves the value associated with the given key as a bool.
	GetBool(key string) bool

	// GetFloat64 retrieves the value associated with the given key as a float64.
	GetFloat64(key string) float64

	// GetString retrieves the value associated with the given key as a string.
	GetString(key string) string

	// GetBinary retrieves the value associated with the given key as a byte
	// slice. The configuration value is stored base64 encoded.
	GetBinary(key string) []byte

	// GetArray retrieves the value associated with the given key as a slice of
	// strings. The configuration value is stored as <element1>,<element2>,...
	GetArray(key string) []string

	// GetMap retrieves the value associated with the given key as a string map.
	// The configuration value is stored as <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
