package authtoken

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robomart/authtoken/token"
)

// Engine defines a public type used by authtoken APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config  Config
	codec   *token.Codec
	store   TokenStore
	audit   *auditDispatcher
	metrics *Metrics
	now     func() time.Time
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType, email string, success bool, err error) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: e.now(),
		EventType: eventType,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}

	e.audit.Emit(ctx, event)
}

// IssueRefresh creates a persisted record binding email to a fresh refresh
// token, then returns the signed token. Refresh tokens never expire; they
// exist to mint short-lived session tokens.
//
// The store write happens before signing. A store failure propagates to the
// caller wrapped in ErrStoreUnavailable; no retry is attempted and no token
// is returned.
func (e *Engine) IssueRefresh(ctx context.Context, email string) (string, error) {
	if e == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}
	if e.store == nil {
		return "", ErrEngineNotReady
	}

	record := TokenRecord{
		ID:       uuid.NewString(),
		Email:    email,
		IssuedAt: e.now(),
	}
	if err := e.store.AddToken(ctx, record); err != nil {
		e.metricInc(MetricStoreFailure)
		e.emitAudit(ctx, "refresh_issue", email, false, err)
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	tokenStr, err := e.codec.Encode(token.Claims{EmailClaimKey: email}, 0)
	if err != nil {
		e.metricInc(MetricRefreshIssueFailure)
		e.emitAudit(ctx, "refresh_issue", email, false, err)
		return "", err
	}

	e.metricInc(MetricRefreshIssued)
	e.emitAudit(ctx, "refresh_issue", email, true, nil)

	return tokenStr, nil
}

// ReadRefresh verifies a refresh token and returns the email identity it
// carries. An invalid or tampered token fails with token.ErrInvalidToken; a
// validly-signed token without the email claim fails with
// ErrEmailClaimMissing.
func (e *Engine) ReadRefresh(ctx context.Context, tokenStr string) (string, error) {
	if e == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}
	return e.readEmail(ctx, tokenStr, "refresh_read", MetricRefreshRead, MetricRefreshReadFailure)
}

// IssueSession mints a short-lived session token from a valid refresh token.
// The session token is stateless: it carries the refresh token's email
// subject plus an expiration of Now()+Session.TTL, and is never persisted.
func (e *Engine) IssueSession(ctx context.Context, refreshStr string) (string, error) {
	if e == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}

	email, err := e.readEmail(ctx, refreshStr, "session_issue", MetricSessionIssued, MetricSessionReadFailure)
	if err != nil {
		return "", err
	}

	tokenStr, err := e.codec.Encode(token.Claims{EmailClaimKey: email}, e.config.Session.TTL)
	if err != nil {
		e.emitAudit(ctx, "session_issue", email, false, err)
		return "", err
	}

	e.emitAudit(ctx, "session_issue", email, true, nil)

	return tokenStr, nil
}

// ReadSession verifies a session token and returns the email identity it
// carries, with the same error taxonomy as ReadRefresh. Expired session
// tokens fail with token.ErrInvalidToken like any other invalid token.
func (e *Engine) ReadSession(ctx context.Context, tokenStr string) (string, error) {
	if e == nil || e.codec == nil {
		return "", ErrEngineNotReady
	}
	return e.readEmail(ctx, tokenStr, "session_read", MetricSessionRead, MetricSessionReadFailure)
}

func (e *Engine) readEmail(ctx context.Context, tokenStr, eventType string, okID, failID MetricID) (string, error) {
	claims, err := e.codec.Decode(tokenStr)
	if err != nil {
		e.metricInc(failID)
		e.emitAudit(ctx, eventType, "", false, err)
		return "", err
	}

	email, ok := claims[EmailClaimKey].(string)
	if !ok || email == "" {
		e.metricInc(failID)
		e.emitAudit(ctx, eventType, "", false, ErrEmailClaimMissing)
		return "", ErrEmailClaimMissing
	}

	e.metricInc(okID)

	return email, nil
}
