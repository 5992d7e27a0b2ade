package types

import (
	"errors"
	"fmt"
)

var (
	ErrSlotUnavailable    = errors.New("slot is no longer available")
	ErrSelfBooking        = errors.New("booking your own slot is not allowed")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidTransition  = errors.New("invalid booking state transition")
	ErrRefundIneligible   = errors.New("booking can no longer be cancelled")
	ErrGatewayUnavailable = errors.New("payment gateway is unavailable")
)

// GatewayDeclineError carries the provider's result code and description
// verbatim so it can be surfaced to the user unchanged.
type GatewayDeclineError struct {
	Code        string
	Description string
}

func (e *GatewayDeclineError) Error() string {
	return fmt.Sprintf("payment declined [%s]: %s", e.Code, e.Description)
}

// MeetingProvisioningError is non-fatal to the booking. It is logged and
// alerted but never rolls back a confirmation.
type MeetingProvisioningError struct {
	SessionID uint
	Err       error
}

func (e *MeetingProvisioningError) Error() string {
	return fmt.Sprintf("meeting provisioning failed for session %d: %s", e.SessionID, e.Err.Error())
}

func (e *MeetingProvisioningError) Unwrap() error { return e.Err }
