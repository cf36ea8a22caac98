package monitor

import (
	"errors"
	"fmt"

	"github.com/nhle/mailnest/internal/api"
	"github.com/nhle/mailnest/internal/validate"
)

// ErrBusy is returned when an operation is started while another one is
// still in flight.
var ErrBusy = errors.New("an operation is already running")

// ErrConnectionLost is the failure recorded for an operation whose result
// can no longer arrive.
var ErrConnectionLost = errors.New("connection to the server lost before the operation finished")

// ErrorKind tells the UI how to present an error.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindValidation errors are shown inline next to the form.
	KindValidation
	// KindBackend errors carry the backend's own message.
	KindBackend
	// KindTransport errors get the generic connectivity message.
	KindTransport
	KindOther
)

// KindOf classifies err for display.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case validate.IsValidation(err):
		return KindValidation
	case api.IsAPIError(err):
		return KindBackend
	case api.IsTransportError(err):
		return KindTransport
	default:
		return KindOther
	}
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var tErr *api.TransportError
	if errors.As(err, &tErr) {
		return fmt.Sprintf("Could not reach the server: %v", tErr.Err)
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	return err.Error()
}
