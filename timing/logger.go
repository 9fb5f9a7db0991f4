package timing

import (
	"log"

	"github.com/sarchlab/stdp/hooking"
)

// TraceLogger is a hook that prints trace refreshes and weight updates.
type TraceLogger struct {
	logger *log.Logger
}

// NewTraceLogger returns a TraceLogger writing into logger.
func NewTraceLogger(logger *log.Logger) *TraceLogger {
	return &TraceLogger{logger: logger}
}

// Func writes one line per refresh or update.
func (h *TraceLogger) Func(ctx hooking.HookCtx) {
	switch item := ctx.Item.(type) {
	case Refresh:
		h.logger.Printf("%d %s: delta_time=%d, %v",
			item.Time, ctx.Pos.Name, item.Delta, item.Trace)
	case Update:
		h.logger.Printf("%d %s: delta_t=%d, magnitude=%d",
			item.Time, ctx.Pos.Name, item.Delta, item.Magnitude)
	}
}
