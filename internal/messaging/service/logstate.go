package service

import (
	"context"
	"errors"
	"fmt"

	loopfsm "github.com/looplab/fsm"

	"kasir/internal/domain"
	apperrors "kasir/internal/errors"
)

const (
	eventSucceed = "succeed"
	eventFail    = "fail"
	eventDeliver = "deliver"
)

// Terminal rows (failed, delivered) have no outgoing transitions.
var logEvents = loopfsm.Events{
	{Name: eventSucceed, Src: []string{string(domain.MessageStatusPending)}, Dst: string(domain.MessageStatusSent)},
	{Name: eventFail, Src: []string{string(domain.MessageStatusPending)}, Dst: string(domain.MessageStatusFailed)},
	{Name: eventDeliver, Src: []string{string(domain.MessageStatusSent)}, Dst: string(domain.MessageStatusDelivered)},
}

// transition applies event to a message log in status current and returns the
// destination status.
func transition(ctx context.Context, current domain.MessageStatus, event string) (domain.MessageStatus, error) {
	machine := loopfsm.NewFSM(string(current), logEvents, nil)

	if err := machine.Event(ctx, event); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) || errors.As(err, &noTransition) {
			return "", apperrors.NewConflictError(fmt.Sprintf("message log in status %s cannot %s", current, event))
		}
		return "", err
	}
	return domain.MessageStatus(machine.Current()), nil
}
