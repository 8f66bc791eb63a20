package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/robomart/authtoken"
)

// invalidTokenDetail is the fixed response body for every rejected token,
// whatever the underlying verification failure was.
const invalidTokenDetail = "Invalid token"

type emailContextKey struct{}

// EmailFromContext returns the email identity a guard attached to the
// request context after verifying the bearer token.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailContextKey{}).(string)
	return email, ok
}

// Guard returns middleware that verifies the bearer session token on every
// request and rejects failures with 401 and a fixed detail message.
func Guard(engine *authtoken.Engine) func(http.Handler) http.Handler {
	return guard(engine, (*authtoken.Engine).ReadSession)
}

// RequireRefresh returns middleware that verifies a bearer refresh token
// instead of a session token. Session-minting endpoints sit behind it.
func RequireRefresh(engine *authtoken.Engine) func(http.Handler) http.Handler {
	return guard(engine, (*authtoken.Engine).ReadRefresh)
}

func guard(engine *authtoken.Engine, read func(*authtoken.Engine, context.Context, string) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, invalidTokenDetail, http.StatusUnauthorized)
				return
			}

			tokenStr, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, invalidTokenDetail, http.StatusUnauthorized)
				return
			}

			ctx := authtoken.WithClientIP(r.Context(), clientIP(r))
			email, err := read(engine, ctx, tokenStr)
			if err != nil {
				http.Error(w, invalidTokenDetail, http.StatusUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, emailContextKey{}, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
