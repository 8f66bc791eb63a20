package authtoken

import (
	"context"
	"time"
)

// EmailClaimKey is the short claim key carrying the user's email identity in
// refresh and session tokens.
const EmailClaimKey = "eml"

// TokenRecord is the persisted entity binding a user's email identity to a
// refresh token's existence. The engine creates one record per issuance and
// never deletes or reads it back.
type TokenRecord struct {
	ID       string
	Email    string
	IssuedAt time.Time
}

// TokenStore is the persistence collaborator for refresh-token records.
// Implementations must treat AddToken as a single durable write; the engine
// performs no retries and propagates every failure to the caller.
type TokenStore interface {
	AddToken(ctx context.Context, record TokenRecord) error
}
