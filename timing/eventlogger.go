package timing

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

// EventLogger is a hook that logs every event before it is handled.
type EventLogger struct {
	logger logrus.FieldLogger
}

// NewEventLogger returns a new EventLogger that writes to the logger at trace
// level.
func NewEventLogger(logger logrus.FieldLogger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func logs the event.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	handler := reflect.TypeOf(evt.Handler()).String()
	if named, ok := evt.Handler().(Named); ok {
		handler = named.Name()
	}

	h.logger.WithFields(logrus.Fields{
		"time":    uint64(evt.Time()),
		"event":   reflect.TypeOf(evt).String(),
		"handler": handler,
	}).Trace("Event")
}
