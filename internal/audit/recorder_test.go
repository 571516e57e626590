package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"kasir/internal/domain"
)

type mockRepository struct {
	InsertFunc func(ctx context.Context, entry domain.AuditLog) error
}

func (m *mockRepository) Insert(ctx context.Context, entry domain.AuditLog) error {
	return m.InsertFunc(ctx, entry)
}

func TestRecorder_Record(t *testing.T) {
	var got domain.AuditLog
	repo := &mockRepository{InsertFunc: func(ctx context.Context, entry domain.AuditLog) error {
		got = entry
		return nil
	}}
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("WIB", 7*3600))

	NewRecorder(repo, zap.NewNop()).WithClock(func() time.Time { return now }).Record(context.Background(), Entry{
		TenantID: "t-1",
		ActorID:  "staff-1",
		Action:   ActionUpdateOrderStatus,
		Entity:   EntityOrder,
		EntityID: "o-1",
		Metadata: map[string]any{"to": "done"},
	})

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "t-1", got.TenantID)
	assert.Equal(t, ActionUpdateOrderStatus, got.Action)
	assert.Equal(t, now.UTC(), got.CreatedAt)
	assert.Equal(t, "done", got.Metadata["to"])
}

func TestRecorder_FailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := &mockRepository{InsertFunc: func(ctx context.Context, entry domain.AuditLog) error {
		return errors.New("table missing")
	}}

	assert.NotPanics(t, func() {
		NewRecorder(repo, zap.New(core)).Record(context.Background(), Entry{TenantID: "t-1", Action: ActionDeleteOrder})
	})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "audit log append failed", logs.All()[0].Message)
}

func TestRecorder_IgnoresCallerCancellation(t *testing.T) {
	var insertErr error
	repo := &mockRepository{InsertFunc: func(ctx context.Context, entry domain.AuditLog) error {
		insertErr = ctx.Err()
		return nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewRecorder(repo, zap.NewNop()).Record(ctx, Entry{TenantID: "t-1"})

	assert.NoError(t, insertErr)
}
