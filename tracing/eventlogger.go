package tracing

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/eventsim/hooking"
	"github.com/sarchlab/eventsim/sim"
)

// EventLogger is a hook that writes every dispatch and primitive operation
// to a logger at debug level.
type EventLogger struct {
	logger     logrus.FieldLogger
	timeTeller sim.TimeTeller
}

// NewEventLogger creates an EventLogger. The time teller stamps primitive
// operations.
func NewEventLogger(
	logger logrus.FieldLogger,
	timeTeller sim.TimeTeller,
) *EventLogger {
	return &EventLogger{logger: logger, timeTeller: timeTeller}
}

// Func writes the entry for ctx.
func (h *EventLogger) Func(ctx hooking.HookCtx) {
	if rec, ok := ParseDispatch(ctx); ok {
		h.logger.WithFields(logrus.Fields{
			"time":      rec.Time,
			"seq":       rec.Seq,
			"event":     rec.EventID,
			"name":      rec.Event,
			"callbacks": rec.Callbacks,
			"late":      rec.Late,
		}).Debug("dispatch")

		return
	}

	if rec, ok := ParsePrimitiveOp(ctx, h.timeTeller.Now()); ok {
		h.logger.WithFields(logrus.Fields{
			"time":      rec.Time,
			"primitive": rec.Primitive,
			"event":     rec.EventID,
			"item":      rec.Item,
		}).Debug(rec.Op)
	}
}
