package redisstore

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robomart/authtoken"
)

const (
	tokenKeyPrefix  = "art"
	recordVersionV1 = 1
)

var (
	// ErrNotFound is an exported constant or variable used by the redis token store.
	ErrNotFound = errors.New("token record not found")
	// ErrRedisUnavailable is an exported constant or variable used by the redis token store.
	ErrRedisUnavailable = errors.New("token redis unavailable")
)

// Store defines a public type used by authtoken APIs.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	redis  *redis.Client
	prefix string
}

var _ authtoken.TokenStore = (*Store)(nil)

// NewStore describes the newstore operation and its observable behavior.
//
// NewStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewStore(redisClient *redis.Client) *Store {
	return &Store{
		redis:  redisClient,
		prefix: tokenKeyPrefix,
	}
}

func (s *Store) key(id string) string {
	return s.prefix + ":" + id
}

// AddToken durably writes a refresh-token record. Records carry no TTL;
// refresh tokens never expire.
//
// AddToken may return an error when input validation or the Redis write fails.
func (s *Store) AddToken(ctx context.Context, record authtoken.TokenRecord) error {
	if record.ID == "" {
		return errors.New("token record id must not be empty")
	}

	encoded, err := encodeTokenRecord(&record)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(record.ID), encoded, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Get(ctx context.Context, id string) (*authtoken.TokenRecord, error) {
	data, err := s.redis.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return decodeTokenRecord(data)
}

func encodeTokenRecord(record *authtoken.TokenRecord) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordVersionV1)

	if err := binary.Write(&buf, binary.BigEndian, record.IssuedAt.Unix()); err != nil {
		return nil, err
	}

	if len(record.ID) > 65535 {
		return nil, errors.New("token record id too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.ID))); err != nil {
		return nil, err
	}
	buf.WriteString(record.ID)

	if len(record.Email) > 65535 {
		return nil, errors.New("token record email too long")
	}
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(record.Email))); err != nil {
		return nil, err
	}
	buf.WriteString(record.Email)

	return buf.Bytes(), nil
}

func decodeTokenRecord(data []byte) (*authtoken.TokenRecord, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != recordVersionV1 {
		return nil, errors.New("invalid token record version")
	}

	var issuedAt int64
	if err := binary.Read(reader, binary.BigEndian, &issuedAt); err != nil {
		return nil, err
	}

	record := &authtoken.TokenRecord{
		IssuedAt: time.Unix(issuedAt, 0).UTC(),
	}

	var idLen uint16
	if err := binary.Read(reader, binary.BigEndian, &idLen); err != nil {
		return nil, err
	}
	id := make([]byte, idLen)
	if _, err := io.ReadFull(reader, id); err != nil {
		return nil, err
	}
	record.ID = string(id)

	var emailLen uint16
	if err := binary.Read(reader, binary.BigEndian, &emailLen); err != nil {
		return nil, err
	}
	email := make([]byte, emailLen)
	if _, err := io.ReadFull(reader, email); err != nil {
		return nil, err
	}
	record.Email = string(email)

	return record, nil
}
