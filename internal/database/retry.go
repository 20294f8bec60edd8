package database

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsTransient reports whether an error indicates the transport failed
// rather than the query being semantically invalid. Only these errors
// justify discarding the pool and retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// A stalled statement hitting its timeout is treated the same as a
	// dropped connection.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception
			return true
		case pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03": // admin shutdown / crash / cannot connect now
			return true
		case pgErr.Code == "53300": // too many connections
			return true
		}
		return false
	}

	if pgconn.Timeout(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return false
}
