package mysql

import (
	"errors"
	"fmt"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDeadlock(t *testing.T) {
	assert.True(t, IsDeadlock(&driver.MySQLError{Number: 1213}))
	assert.True(t, IsDeadlock(&driver.MySQLError{Number: 1205}))
	assert.True(t, IsDeadlock(fmt.Errorf("updating order: %w", &driver.MySQLError{Number: 1213})))
	assert.False(t, IsDeadlock(&driver.MySQLError{Number: 1062}))
	assert.False(t, IsDeadlock(errors.New("boom")))
	assert.False(t, IsDeadlock(nil))
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(&driver.MySQLError{Number: 1062}))
	assert.False(t, IsDuplicate(&driver.MySQLError{Number: 1213}))
}
