package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
)

func TestTransition_Allowed(t *testing.T) {
	tests := []struct {
		from  domain.MessageStatus
		event string
		want  domain.MessageStatus
	}{
		{domain.MessageStatusPending, eventSucceed, domain.MessageStatusSent},
		{domain.MessageStatusPending, eventFail, domain.MessageStatusFailed},
		{domain.MessageStatusSent, eventDeliver, domain.MessageStatusDelivered},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+tt.event, func(t *testing.T) {
			got, err := transition(context.Background(), tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransition_TerminalRowsAreFrozen(t *testing.T) {
	tests := []struct {
		from  domain.MessageStatus
		event string
	}{
		{domain.MessageStatusFailed, eventSucceed},
		{domain.MessageStatusFailed, eventDeliver},
		{domain.MessageStatusDelivered, eventFail},
		{domain.MessageStatusSent, eventFail},
		{domain.MessageStatusPending, eventDeliver},
		{domain.MessageStatusPending, "bogus"},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+tt.event, func(t *testing.T) {
			_, err := transition(context.Background(), tt.from, tt.event)
			_, ok := apperrors.IsConflictError(err)
			assert.True(t, ok, "got %v", err)
		})
	}
}
