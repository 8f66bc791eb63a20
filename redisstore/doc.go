// Package redisstore persists refresh-token records in Redis. Records are
// written once at issuance, without a TTL, under a short key prefix; the
// engine never reads them back, but operators and tests can.
package redisstore
