package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines a public type used by authtoken APIs.
//
// SigningMethod instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SigningMethod string

const (
	// MethodHS256 is an exported constant or variable used by the token codec.
	MethodHS256 SigningMethod = "hs256"
	// MethodHS512 is an exported constant or variable used by the token codec.
	MethodHS512 SigningMethod = "hs512"
)

// ExpirationKey is the claim key reserved for the expiration timestamp.
// Callers must never supply it themselves; Encode injects it when a TTL is set.
const ExpirationKey = "exp"

var (
	// ErrReservedClaim is returned by Encode when the caller-supplied claims
	// already contain ExpirationKey. This is a programmer error, not a
	// runtime condition.
	ErrReservedClaim = errors.New("claims must not contain the reserved expiration key")
	// ErrInvalidToken is the single failure returned by Decode. Tampered
	// signatures, malformed structure, wrong algorithms, and expired tokens
	// all collapse into it so callers cannot distinguish why verification
	// failed.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the payload mapping embedded in a signed token. Values must be
// JSON-serializable; numeric values come back as float64 after a decode.
type Claims map[string]any

// Config defines a public type used by authtoken APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secret        []byte
	SigningMethod SigningMethod // "hs256" (default), "hs512" optional
	Leeway        time.Duration
	Now           func() time.Time
}

// Codec signs claim mappings and verifies signed token strings. A Codec is
// immutable after construction and safe for concurrent use.
type Codec struct {
	config Config
}

// NewCodec validates cfg and returns a ready Codec.
//
// NewCodec may return an error when input validation fails.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("secret must not be empty")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	switch cfg.SigningMethod {
	case "":
		cfg.SigningMethod = MethodHS256
	case MethodHS256, MethodHS512:
	default:
		return nil, errors.New("unsupported signing method")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Codec{config: cfg}, nil
}

// Encode signs claims and returns the serialized token string.
//
// A ttl of zero produces a non-expiring token. A positive ttl injects an
// expiration timestamp of Now()+ttl under ExpirationKey before signing.
// Claims that already carry ExpirationKey are rejected with ErrReservedClaim
// before any signing occurs.
func (c *Codec) Encode(claims Claims, ttl time.Duration) (string, error) {
	if _, ok := claims[ExpirationKey]; ok {
		return "", ErrReservedClaim
	}

	payload := make(jwt.MapClaims, len(claims)+1)
	for k, v := range claims {
		payload[k] = v
	}
	if ttl != 0 {
		payload[ExpirationKey] = jwt.NewNumericDate(c.config.Now().Add(ttl))
	}

	return jwt.NewWithClaims(c.method(), payload).SignedString(c.config.Secret)
}

// Decode verifies the signature and expiration of a token string and returns
// the embedded claims, including ExpirationKey when one was set.
//
// Every verification failure returns an error matching ErrInvalidToken via
// errors.Is; no partial claims are ever returned.
func (c *Codec) Decode(tokenStr string) (Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method().Alg()}),
		jwt.WithTimeFunc(c.config.Now),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return c.config.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	payload, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return Claims(payload), nil
}

func (c *Codec) method() jwt.SigningMethod {
	switch c.config.SigningMethod {
	case MethodHS512:
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}
