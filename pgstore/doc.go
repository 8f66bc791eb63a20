// Package pgstore persists refresh-token records in PostgreSQL over
// database/sql with the pgx driver. The schema lives in data/sql.
package pgstore
