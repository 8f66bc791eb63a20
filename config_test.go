package authtoken

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults with secret",
			mutate:    func(c *Config) {},
			wantValid: true,
		},
		{
			name: "missing secret",
			mutate: func(c *Config) {
				c.Crypto.Secret = nil
			},
		},
		{
			name: "hs512 valid",
			mutate: func(c *Config) {
				c.Crypto.SigningMethod = "hs512"
			},
			wantValid: true,
		},
		{
			name: "unknown signing method",
			mutate: func(c *Config) {
				c.Crypto.SigningMethod = "rs256"
			},
		},
		{
			name: "leeway valid",
			mutate: func(c *Config) {
				c.Crypto.Leeway = 45 * time.Second
			},
			wantValid: true,
		},
		{
			name: "leeway negative",
			mutate: func(c *Config) {
				c.Crypto.Leeway = -time.Second
			},
		},
		{
			name: "leeway excessive",
			mutate: func(c *Config) {
				c.Crypto.Leeway = 3 * time.Minute
			},
		},
		{
			name: "session ttl zero",
			mutate: func(c *Config) {
				c.Session.TTL = 0
			},
		},
		{
			name: "audit enabled without buffer",
			mutate: func(c *Config) {
				c.Audit.Enabled = true
				c.Audit.BufferSize = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Crypto.Secret = []byte("config-test-secret-0123456789abc")
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestCloneConfigCopiesSecret(t *testing.T) {
	cfg := defaultConfig()
	cfg.Crypto.Secret = []byte("clone-test-secret")

	clone := cloneConfig(cfg)
	clone.Crypto.Secret[0] = 'X'

	if cfg.Crypto.Secret[0] == 'X' {
		t.Fatal("cloneConfig must not alias the secret slice")
	}
}

func TestBuilderRejectsReuse(t *testing.T) {
	builder := New().WithSecret([]byte("builder-test-secret-012345678901"))

	if _, err := builder.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build on the same builder to fail")
	}
}
