// Package pota is a client for the public Parks on the Air API.
package pota

import (
	"time"
)

// DefaultBaseURL is the public POTA API endpoint.
const DefaultBaseURL = "https://api.pota.app"

// Config holds the configuration for POTA API access.
type Config struct {
	// BaseURL is the API root, without a trailing slash
	BaseURL string

	// ParkTimeout bounds a single park lookup
	ParkTimeout time.Duration

	// SpotTimeout bounds a single spot feed fetch
	SpotTimeout time.Duration

	// ParkCacheTTL is how long park metadata is reused
	ParkCacheTTL time.Duration
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		ParkTimeout:  5 * time.Second,
		SpotTimeout:  10 * time.Second,
		ParkCacheTTL: time.Hour,
	}
}

// withDefaults fills zero values from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.ParkTimeout <= 0 {
		c.ParkTimeout = d.ParkTimeout
	}
	if c.SpotTimeout <= 0 {
		c.SpotTimeout = d.SpotTimeout
	}
	if c.ParkCacheTTL <= 0 {
		c.ParkCacheTTL = d.ParkCacheTTL
	}
	return c
}
