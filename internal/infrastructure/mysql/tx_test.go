package mysql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasir/internal/infrastructure/mysql"
	"kasir/internal/testutil"
)

func TestExecutor_WithoutTx(t *testing.T) {
	assert.False(t, mysql.InTx(context.Background()))
}

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	txm := mysql.NewTxManager(db, 5*time.Second)
	id := uuid.NewString()

	err := txm.RunInTx(context.Background(), func(ctx context.Context) error {
		assert.True(t, mysql.InTx(ctx))
		_, err := mysql.Executor(ctx, db).ExecContext(ctx, `INSERT INTO tenants (id, name) VALUES (?, 'a')`, id)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tenants WHERE id = ?`, id).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	txm := mysql.NewTxManager(db, 5*time.Second)
	id := uuid.NewString()
	boom := errors.New("boom")

	err := txm.RunInTx(context.Background(), func(ctx context.Context) error {
		_, err := mysql.Executor(ctx, db).ExecContext(ctx, `INSERT INTO tenants (id, name) VALUES (?, 'a')`, id)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tenants WHERE id = ?`, id).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestRunInTx_NestedJoinsOuter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	txm := mysql.NewTxManager(db, 5*time.Second)
	id := uuid.NewString()

	err := txm.RunInTx(context.Background(), func(ctx context.Context) error {
		if err := txm.RunInTx(ctx, func(inner context.Context) error {
			_, err := mysql.Executor(inner, db).ExecContext(inner, `INSERT INTO tenants (id, name) VALUES (?, 'a')`, id)
			return err
		}); err != nil {
			return err
		}
		return errors.New("abort outer")
	})
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM tenants WHERE id = ?`, id).Scan(&count))
	assert.Equal(t, 0, count)
}
