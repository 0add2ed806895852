package service

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"evmarket/internal/models"
)

// Booking lifecycle events.
const (
	EventConfirm         = "confirm"
	EventCancel          = "cancel"
	EventStartSession    = "start_session"
	EventCompleteSession = "complete_session"
)

// lifecycleFSM builds the booking state machine positioned at the given
// status. Cancellation is allowed from every status, matching the original
// flow where a booking may be cancelled even after completion. The session
// transitions are not reachable over HTTP yet; they are reserved for the
// charging-session subsystem.
func lifecycleFSM(status string) *fsm.FSM {
	return fsm.NewFSM(status, fsm.Events{
		{
			Name: EventConfirm,
			Src:  []string{models.BookingDraft, models.BookingPaymentPending},
			Dst:  models.BookingConfirmed,
		},
		{
			Name: EventStartSession,
			Src:  []string{models.BookingConfirmed},
			Dst:  models.BookingActive,
		},
		{
			Name: EventCompleteSession,
			Src:  []string{models.BookingActive},
			Dst:  models.BookingCompleted,
		},
		{
			Name: EventCancel,
			Src: []string{
				models.BookingDraft,
				models.BookingPaymentPending,
				models.BookingConfirmed,
				models.BookingActive,
				models.BookingCompleted,
			},
			Dst: models.BookingCancelled,
		},
	}, nil)
}

// CanTransition reports whether the event is allowed from the given status.
func CanTransition(status, event string) bool {
	return lifecycleFSM(status).Can(event)
}

// Transition applies a lifecycle event to the booking, updating its status.
func Transition(ctx context.Context, booking *models.Booking, event string) error {
	machine := lifecycleFSM(booking.Status)
	if err := machine.Event(ctx, event); err != nil {
		return fmt.Errorf("%w: %s on %s booking %s", ErrInvalidTransition, event, booking.Status, booking.BookingID)
	}
	booking.Status = machine.Current()
	return nil
}
