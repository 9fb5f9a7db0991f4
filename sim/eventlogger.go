package sim

import (
	"log"
	"reflect"

	"github.com/sarchlab/stdp/hooking"
)

// EventLogger is a hook that prints every event before it is handled.
type EventLogger struct {
	logger *log.Logger
}

// NewEventLogger returns an EventLogger writing into logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Func writes the event information into the logger.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if ctx.Pos != HookPosBeforeEvent {
		return
	}

	evt := ctx.Item.(*ScheduledEvent)
	h.logger.Printf("%d, %v -> %s",
		evt.Time, evt.Event, reflect.TypeOf(evt.Handler))
}
