// Package repository defines the data access layer over the ticket store
// and the error values shared by it.  Handlers use the sentinels to tell a
// missing record apart from a store that cannot be reached.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// ErrTicketNotFound is returned when no ticket has the requested id.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrUnavailable marks failures to reach the store at all (refused or
// dropped connections, server shutting down, too many connections).  The
// HTTP layer translates it into a 503 response.
var ErrUnavailable = errors.New("database unavailable")

// MySQL server error numbers that mean the server cannot serve us right now.
var unavailableCodes = map[uint16]bool{
	1040: true, // ER_CON_COUNT_ERROR
	1053: true, // ER_SERVER_SHUTDOWN
	1077: true, // ER_NORMAL_SHUTDOWN
	1081: true, // ER_IPSOCK_ERROR
	1152: true, // ER_ABORTING_CONNECTION
	1158: true, // ER_NET_READ_ERROR
	1159: true, // ER_NET_READ_INTERRUPTED
	1160: true, // ER_NET_ERROR_ON_WRITE
	1161: true, // ER_NET_WRITE_INTERRUPTED
}

// classify maps driver and gorm errors onto the repository sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTicketNotFound
	}
	if IsConnectivity(err) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

// IsConnectivity reports whether err means the database could not be reached.
func IsConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, mysqldriver.ErrInvalidConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return unavailableCodes[myErr.Number]
	}
	return false
}
