// Package token encodes claim mappings into signed, self-contained token strings
// and verifies them on the way back in, with strict algorithm pinning and
// injectable time for deterministic expiry checks.
package token
