package push

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nhle/mailnest/internal/model"
)

// ErrUnknownEvent is returned by Decode for event names the client does
// not understand.
var ErrUnknownEvent = errors.New("unknown event")

// Decode maps a named push payload to a model.Event.
func Decode(name string, raw json.RawMessage) (model.Event, error) {
	var (
		evt model.Event
		err error
	)

	switch name {
	case model.EventLog:
		var e model.LogEvent
		err = json.Unmarshal(raw, &e)
		evt = e
	case model.EventProgress:
		var e model.ProgressEvent
		err = json.Unmarshal(raw, &e)
		evt = e
	case model.EventCompletion:
		var e model.CompletionEvent
		err = json.Unmarshal(raw, &e)
		evt = e
	case model.EventDuplicates:
		var e model.DuplicatesEvent
		err = json.Unmarshal(raw, &e)
		evt = e
	case model.EventFailure:
		var e model.FailureEvent
		err = json.Unmarshal(raw, &e)
		evt = e
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", name, err)
	}
	return evt, nil
}
