package notification

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"kasir/internal/config"
	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
	"kasir/internal/messaging/provider"
	"kasir/internal/messaging/service"
)

type memLogs struct {
	mu   sync.Mutex
	rows map[string]domain.MessageLog
}

func (m *memLogs) Insert(ctx context.Context, l domain.MessageLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[l.ID] = l
	return nil
}

func (m *memLogs) UpdateOutcome(ctx context.Context, l domain.MessageLog, expected domain.MessageStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows[l.ID].Status != expected {
		return apperrors.NewConflictError("stale")
	}
	m.rows[l.ID] = l
	return nil
}

func (m *memLogs) FindByID(ctx context.Context, tenantID, id string) (*domain.MessageLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("message log not found")
	}
	return &l, nil
}

func TestRouter_TenantLookupFailureIsLogged(t *testing.T) {
	f := newFixture()
	f.src.Tenants = stubTenants{err: errors.New("connection reset")}

	core, recorded := observer.New(zap.WarnLevel)
	logs := &memLogs{rows: map[string]domain.MessageLog{}}
	dispatcher := service.NewDispatcher(logs, nil, provider.NewDefaultRegistry(http.DefaultClient, zap.NewNop()), time.Second, zap.NewNop())
	cfg := config.NotificationConfig{CountryCode: "62", MinPhoneLength: 10, CurrencySymbol: "Rp", Locale: "id"}
	router := NewRouter(f.src, dispatcher, cfg, zap.New(core))

	res := router.HandleOrderChange(context.Background(), "t-1", nil, customerOrder("pending", domain.PaymentStatusUnpaid))

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, "template variables missing", res.Reason)
	require.NotEmpty(t, res.MessageLogID)

	require.Len(t, logs.rows, 1)
	entry := logs.rows[res.MessageLogID]
	assert.Equal(t, domain.MessageStatusFailed, entry.Status)
	require.NotNil(t, entry.ErrorMessage)
	assert.Contains(t, *entry.ErrorMessage, "store_name")

	lookups := recorded.FilterMessage("resolving store name for notification").All()
	require.Len(t, lookups, 1)
	assert.Equal(t, zapcore.WarnLevel, lookups[0].Level)
	assert.Equal(t, "connection reset", lookups[0].ContextMap()["error"])
}
