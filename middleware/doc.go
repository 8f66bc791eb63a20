// Package middleware exposes HTTP middleware adapters for session-token
// enforcement built on top of authtoken.Engine.
//
// # Guards
//
//   - [Guard] — verifies the bearer session token and injects the caller's
//     email identity into the request context.
//   - [RequireRefresh] — verifies a bearer refresh token instead, for
//     session-minting endpoints.
//
// Each guard reads the Authorization header, calls the corresponding Engine
// read operation, and rejects every failure with a uniform
// "401 Invalid token" response.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement token logic itself — all decisions are delegated to the Engine.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Touch the token store (the Engine owns persistence).
//   - Distinguish expired from tampered tokens in the response.
package middleware
