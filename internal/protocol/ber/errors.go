package ber

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTruncatedHeader         = errors.New("ber: truncated header")
	ErrLengthOverflow          = errors.New("ber: length exceeds remaining data")
	ErrTruncatedContent        = errors.New("ber: truncated content")
	ErrMalformedHeader         = errors.New("ber: malformed header")
	ErrEmptyInteger            = errors.New("ber: empty integer")
	ErrPrimitiveLengthMismatch = errors.New("ber: primitive length mismatch")
	ErrFormMismatch            = errors.New("ber: primitive/constructed form mismatch")
	ErrUnrecognizedChoiceTag   = errors.New("ber: unrecognized choice tag")
	ErrMissingRequiredField    = errors.New("ber: missing required field")
	ErrUnexpectedField         = errors.New("ber: unexpected field")
	ErrNestingTooDeep          = errors.New("ber: nesting too deep")
	ErrDelegateFailed          = errors.New("ber: sub-decoder failed")
	ErrUnknownOperation        = errors.New("ber: unknown operation")
)

// ErrorKind classifies a decode failure.
type ErrorKind uint8

const (
	TruncatedHeader ErrorKind = iota + 1
	LengthOverflow
	TruncatedContent
	MalformedHeader
	EmptyInteger
	PrimitiveLengthMismatch
	FormMismatch
	UnrecognizedChoiceTag
	MissingRequiredField
	UnexpectedField
	NestingTooDeep
	DelegateFailed
	UnknownOperation
)

var kindNames = map[ErrorKind]string{
	TruncatedHeader:         "TruncatedHeader",
	LengthOverflow:          "LengthOverflow",
	TruncatedContent:        "TruncatedContent",
	MalformedHeader:         "MalformedHeader",
	EmptyInteger:            "EmptyInteger",
	PrimitiveLengthMismatch: "PrimitiveLengthMismatch",
	FormMismatch:            "FormMismatch",
	UnrecognizedChoiceTag:   "UnrecognizedChoiceTag",
	MissingRequiredField:    "MissingRequiredField",
	UnexpectedField:         "UnexpectedField",
	NestingTooDeep:          "NestingTooDeep",
	DelegateFailed:          "DelegateFailed",
	UnknownOperation:        "UnknownOperation",
}

var kindSentinels = map[ErrorKind]error{
	TruncatedHeader:         ErrTruncatedHeader,
	LengthOverflow:          ErrLengthOverflow,
	TruncatedContent:        ErrTruncatedContent,
	MalformedHeader:         ErrMalformedHeader,
	EmptyInteger:            ErrEmptyInteger,
	PrimitiveLengthMismatch: ErrPrimitiveLengthMismatch,
	FormMismatch:            ErrFormMismatch,
	UnrecognizedChoiceTag:   ErrUnrecognizedChoiceTag,
	MissingRequiredField:    ErrMissingRequiredField,
	UnexpectedField:         ErrUnexpectedField,
	NestingTooDeep:          ErrNestingTooDeep,
	DelegateFailed:          ErrDelegateFailed,
	UnknownOperation:        ErrUnknownOperation,
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Structural reports whether the kind means well-formed BER that does not
// match the expected schema, as opposed to a buffer that ended early.
func (k ErrorKind) Structural() bool {
	switch k {
	case UnrecognizedChoiceTag, MissingRequiredField, PrimitiveLengthMismatch,
		EmptyInteger, FormMismatch, UnexpectedField:
		return true
	default:
		return false
	}
}

// DecodeError locates a failure in the input. It unwraps to the sentinel of
// its Kind, and to Err when a more specific cause is attached.
type DecodeError struct {
	Kind   ErrorKind
	Tag    Tag
	Offset int
	Path   string
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("ber: ")
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	fmt.Fprintf(&b, " (offset %d", e.Offset)
	if e.Tag != (Tag{}) {
		b.WriteString(", tag ")
		b.WriteString(e.Tag.String())
	}
	b.WriteByte(')')
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DecodeError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := kindSentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Errorf builds a DecodeError of kind k at offset off.
func Errorf(k ErrorKind, off int, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: k, Offset: off, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first DecodeError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	for k, s := range kindSentinels {
		if errors.Is(err, s) {
			return k, true
		}
	}
	return 0, false
}
