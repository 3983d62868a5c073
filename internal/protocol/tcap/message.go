package tcap

import (
	"errors"
	"fmt"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/ros"
)

// MessageType is the TCMessage alternative.
type MessageType uint8

const (
	TypeUnknown MessageType = iota
	TypeUnidirectional
	TypeBegin
	TypeEnd
	TypeContinue
	TypeAbort
)

func (t MessageType) String() string {
	switch t {
	case TypeUnidirectional:
		return AltUnidirectional
	case TypeBegin:
		return AltBegin
	case TypeEnd:
		return AltEnd
	case TypeContinue:
		return AltContinue
	case TypeAbort:
		return AltAbort
	default:
		return "unknown"
	}
}

func typeOf(alt string) MessageType {
	switch alt {
	case AltUnidirectional:
		return TypeUnidirectional
	case AltBegin:
		return TypeBegin
	case AltEnd:
		return TypeEnd
	case AltContinue:
		return TypeContinue
	case AltAbort:
		return TypeAbort
	default:
		return TypeUnknown
	}
}

// Diagnostic is the result-source-diagnostic of a dialogue response.
type Diagnostic struct {
	Source string
	Code   int64
}

// Dialogue is what a dialogue portion says about the transaction.
type Dialogue struct {
	PDU                string
	AbstractSyntax     ber.OID
	ApplicationContext ber.OID
	Version1           bool
	Result             *int64
	Diagnostic         *Diagnostic
	AbortSource        *int64
}

// Message is one decoded TCAP message.
type Message struct {
	Type     MessageType
	OTID     []byte
	DTID     []byte
	Dialogue *Dialogue

	// Set on aborts.
	PAbortCause *int64
	UserAbort   *Dialogue

	// Components and ComponentErrors are index aligned; a nil error means
	// the component decoded without a structural failure.
	Components      []ros.Component
	ComponentErrors []error

	Value ber.Value
}

// Err joins the component failures of m, or returns nil.
func (m Message) Err() error {
	var errs []error
	for i, err := range m.ComponentErrors {
		if err != nil {
			errs = append(errs, fmt.Errorf("component %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// ApplicationContext returns the context name negotiated by the dialogue
// portion, if any.
func (m Message) ApplicationContext() ber.OID {
	if m.Dialogue == nil {
		return nil
	}
	return m.Dialogue.ApplicationContext
}
