package observability

import (
	"github.com/rs/zerolog"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/decode"
	"github.com/danmuck/camelwire/internal/protocol/ros"
)

// LogSink writes every reported field to logger at trace level, and
// malformed markers at warn.
func LogSink(logger zerolog.Logger) decode.Sink {
	return decode.SinkFunc(func(path decode.FieldPath, v ber.Value, r ber.Range) {
		if v.Kind == ber.KindMalformed {
			logger.Warn().Err(v.Err).Str("path", path.String()).Stringer("range", r).Msg("malformed field")
			return
		}
		logger.Trace().Str("path", path.String()).Stringer("kind", v.Kind).Stringer("range", r).Msg("field")
	})
}

// LogObserver logs one line per component.
type LogObserver struct {
	Logger zerolog.Logger
}

func (o LogObserver) Observe(ev ros.OperationEvent) {
	event := o.Logger.Debug()
	if ev.Err != nil || ev.Status == ros.StatusFailed {
		event = o.Logger.Warn().Err(ev.Err)
	}
	if ev.InvokeID != nil {
		event = event.Int64("invoke_id", *ev.InvokeID)
	}
	if ev.Operation != nil {
		event = event.Stringer("opcode", *ev.Operation)
	}
	if ev.Error != nil {
		event = event.Stringer("errcode", *ev.Error)
	}
	if len(ev.ApplicationContext) > 0 {
		event = event.Stringer("acn", ev.ApplicationContext)
	}
	event.
		Str("protocol", ev.Protocol).
		Stringer("kind", ev.Kind).
		Str("operation", ev.OperationName).
		Str("error", ev.ErrorName).
		Stringer("status", ev.Status).
		Int("payload_bytes", ev.PayloadBytes).
		Msg("component")
}
