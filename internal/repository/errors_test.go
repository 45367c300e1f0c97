package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(gorm.ErrRecordNotFound), ErrTicketNotFound)

	connectivity := []error{
		driver.ErrBadConn,
		mysqldriver.ErrInvalidConn,
		context.DeadlineExceeded,
		&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
		fmt.Errorf("query: %w", &mysqldriver.MySQLError{Number: 1040, Message: "Too many connections"}),
	}
	for _, err := range connectivity {
		got := classify(err)
		assert.ErrorIs(t, got, ErrUnavailable, err.Error())
		assert.ErrorIs(t, got, err)
	}

	dup := &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.Same(t, error(dup), classify(dup))
}
