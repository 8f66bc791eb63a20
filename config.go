package authtoken

import (
	"errors"
	"time"

	"github.com/robomart/authtoken/token"
)

// Config defines a public type used by authtoken APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Crypto  CryptoConfig
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
CRYPTO CONFIG
====================================
*/

// CryptoConfig carries the signing secret and algorithm identifier. It is
// the settings collaborator of the token codec, injected at construction and
// never read from global state.
type CryptoConfig struct {
	Secret        []byte
	SigningMethod string // "hs256" (default), "hs512" optional
	Leeway        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by authtoken APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// TTL bounds the lifetime of session tokens. Refresh tokens ignore it;
	// they never expire.
	TTL time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by authtoken APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authtoken APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration the engine starts from: 24h
// session tokens, metrics on, audit off. The secret must still be supplied
// by the caller.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TTL: 24 * time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if cfg.Crypto.Secret != nil {
		out.Crypto.Secret = make([]byte, len(cfg.Crypto.Secret))
		copy(out.Crypto.Secret, cfg.Crypto.Secret)
	}
	return out
}

// Validate checks the configuration for values the engine cannot operate
// with and returns a descriptive error for the first violation found.
func (c *Config) Validate() error {
	if len(c.Crypto.Secret) == 0 {
		return errors.New("Crypto Secret must not be empty")
	}
	switch c.Crypto.SigningMethod {
	case "", string(token.MethodHS256), string(token.MethodHS512):
	default:
		return errors.New("Crypto SigningMethod must be hs256 or hs512")
	}
	if c.Crypto.Leeway < 0 || c.Crypto.Leeway > 2*time.Minute {
		return errors.New("Crypto Leeway must be between 0 and 2 minutes")
	}
	if c.Session.TTL <= 0 {
		return errors.New("Session TTL must be > 0")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}
	return nil
}
