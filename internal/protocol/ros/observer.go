package ros

import (
	"github.com/danmuck/camelwire/internal/protocol/ber"
)

// OperationEvent is emitted once per decoded component. Correlation of
// invokes with their results is left to observers.
type OperationEvent struct {
	Protocol           string
	Kind               Kind
	InvokeID           *int64
	LinkedID           *int64
	Operation          *Code
	OperationName      string
	Error              *Code
	ErrorName          string
	Status             Status
	ApplicationContext ber.OID
	OTID               []byte
	DTID               []byte
	PayloadBytes       int
	Err                error
}

// Observer consumes operation events. Implementations must be safe for
// concurrent use when the decoder is shared.
type Observer interface {
	Observe(OperationEvent)
}

type ObserverFunc func(OperationEvent)

func (f ObserverFunc) Observe(ev OperationEvent) { f(ev) }

func eventOf(proto string, c Component, err error) OperationEvent {
	return OperationEvent{
		Protocol:           proto,
		Kind:               c.Kind,
		InvokeID:           c.InvokeID,
		LinkedID:           c.LinkedID,
		Operation:          c.Operation,
		OperationName:      c.OperationName,
		Error:              c.Error,
		ErrorName:          c.ErrorName,
		Status:             c.Status,
		ApplicationContext: c.Context.ApplicationContext,
		OTID:               c.Context.OTID,
		DTID:               c.Context.DTID,
		PayloadBytes:       c.Raw.Range.Len(),
		Err:                err,
	}
}
