package ros

import (
	"fmt"

	"github.com/danmuck/camelwire/internal/protocol/ber"
)

// Kind is the component type selected by the envelope CHOICE.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvoke
	KindReturnResult
	KindReturnError
	KindReject
	KindReturnResultNotLast
)

func (k Kind) String() string {
	switch k {
	case KindInvoke:
		return AltInvoke
	case KindReturnResult:
		return AltReturnResult
	case KindReturnError:
		return AltReturnError
	case KindReject:
		return AltReject
	case KindReturnResultNotLast:
		return AltReturnResultNotLast
	default:
		return "unknown"
	}
}

func kindOf(alt string) Kind {
	switch alt {
	case AltInvoke:
		return KindInvoke
	case AltReturnResult:
		return KindReturnResult
	case AltReturnError:
		return KindReturnError
	case AltReject:
		return KindReject
	case AltReturnResultNotLast:
		return KindReturnResultNotLast
	default:
		return KindUnknown
	}
}

// Status is where a component's decode ended.
type Status uint8

const (
	// StatusFailed: the envelope itself could not be decoded.
	StatusFailed Status = iota
	// StatusDecoded: envelope and payload decoded.
	StatusDecoded
	// StatusPartiallyDecoded: the envelope decoded but the payload did not,
	// either because its code is unknown or because it is malformed.
	StatusPartiallyDecoded
	// StatusUnparsed: the code is known and its payload is kept raw.
	StatusUnparsed
	// StatusNoPayload: the component carries no payload.
	StatusNoPayload
)

func (s Status) String() string {
	switch s {
	case StatusDecoded:
		return "decoded"
	case StatusPartiallyDecoded:
		return "partially_decoded"
	case StatusUnparsed:
		return "unparsed"
	case StatusNoPayload:
		return "no_payload"
	default:
		return "failed"
	}
}

// DecodeContext carries what one component's decode learned and what the
// enclosing transaction already knows. It is passed by value; nothing is
// kept between calls.
type DecodeContext struct {
	Operation          *Code
	Error              *Code
	ApplicationContext ber.OID
	// OTID and DTID are the transaction ids of the enclosing message.
	OTID               []byte
	DTID               []byte
}

// Component is one decoded ROS component.
type Component struct {
	Kind     Kind
	InvokeID *int64
	LinkedID *int64

	Operation     *Code
	OperationName string
	Error         *Code
	ErrorName     string
	Problem       *Problem

	// Envelope is the decoded component with its payload still raw.
	Envelope ber.Value
	// Raw is the undecoded payload TLV, if any.
	Raw ber.Value
	// Payload is the payload decoded with its dispatched schema.
	Payload ber.Value

	Status Status
	// Notice holds a non-fatal condition such as an UnknownOperationError.
	Notice  error
	Context DecodeContext
}

// UnknownOperationError reports a code with no entry in the dispatch
// table. It is a notice, not a decode failure.
type UnknownOperationError struct {
	Code  Code
	Table string
}

func (e UnknownOperationError) Error() string {
	return fmt.Sprintf("ros: unknown operation %s in table %s", e.Code, e.Table)
}

func (e UnknownOperationError) Unwrap() error { return ber.ErrUnknownOperation }
