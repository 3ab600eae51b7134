package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("db: record not found")

	// ErrTimeout is returned when a statement exceeds its deadline or its
	// context is cancelled.
	ErrTimeout = errors.New("db: query timeout")

	// ErrUnavailable is returned when the driver cannot reach the server.
	ErrUnavailable = errors.New("db: database unavailable")
)

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsTimeout(err error) bool     { return errors.Is(err, ErrTimeout) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// Error keeps the driver error behind one of the sentinels, so callers can
// test with errors.Is and still log the cause.
type Error struct {
	Sentinel error
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause)
}

func (e *Error) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *Error) Unwrap() error        { return e.Cause }

// mapError translates driver errors. Unrecognised errors pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var mapped *Error
	if errors.As(err, &mapped) {
		return err
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return &Error{Sentinel: ErrNotFound, Cause: err}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &Error{Sentinel: ErrTimeout, Cause: err}
	case isConnectionError(err):
		return &Error{Sentinel: ErrUnavailable, Cause: err}
	}
	return err
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// class 08: connection exception
		return pqErr.Code.Class() == "08"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1045, 2002, 2003, 2006, 2013:
			return true
		}
		return false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrCantOpen
	}

	var netErr *net.OpError
	return errors.As(err, &netErr)
}
