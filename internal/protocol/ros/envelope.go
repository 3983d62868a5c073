package ros

import (
	"strconv"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/schema"
)

// Component alternative names as they appear in decoded envelopes.
const (
	AltInvoke              = "invoke"
	AltReturnResult        = "returnResult"
	AltReturnError         = "returnError"
	AltReject              = "reject"
	AltReturnResultNotLast = "returnResultNotLast"
)

var (
	// CodeSchema is Code ::= CHOICE { local INTEGER, global OBJECT IDENTIFIER }.
	CodeSchema = schema.Must(schema.Choice("Code",
		schema.Field("local", schema.Integer()),
		schema.Field("global", schema.OID()),
	))

	InvokeIDSchema = schema.Must(schema.Choice("InvokeId",
		schema.Field("present", schema.Integer()),
		schema.Field("absent", schema.Null()),
	))

	linkedIDSchema = schema.Must(schema.Choice("LinkedId",
		schema.Field("present", schema.Integer()).Implicit(ber.Context(0)),
		schema.Field("absent", schema.Null()).Implicit(ber.Context(1)),
	))

	InvokeSchema = schema.Must(schema.Sequence("Invoke",
		schema.Field("invokeId", InvokeIDSchema),
		schema.Field("linkedId", linkedIDSchema).Optional(),
		schema.Field("opcode", CodeSchema),
		schema.Field("argument", schema.Opaque("argument")).Unchecked().Optional(),
	))

	resultSchema = schema.Must(schema.Sequence("Result",
		schema.Field("opcode", CodeSchema),
		schema.Field("result", schema.Opaque("result")).Unchecked(),
	))

	ReturnResultSchema = schema.Must(schema.Sequence("ReturnResult",
		schema.Field("invokeId", InvokeIDSchema),
		schema.Field("result", resultSchema).Optional(),
	))

	ReturnErrorSchema = schema.Must(schema.Sequence("ReturnError",
		schema.Field("invokeId", InvokeIDSchema),
		schema.Field("errcode", CodeSchema),
		schema.Field("parameter", schema.Opaque("parameter")).Unchecked().Optional(),
	))

	problemSchema = schema.Must(schema.Choice("Problem",
		schema.Field("general", schema.Integer()).Implicit(ber.Context(0)),
		schema.Field("invoke", schema.Integer()).Implicit(ber.Context(1)),
		schema.Field("returnResult", schema.Integer()).Implicit(ber.Context(2)),
		schema.Field("returnError", schema.Integer()).Implicit(ber.Context(3)),
	))

	RejectSchema = schema.Must(schema.Sequence("Reject",
		schema.Field("invokeId", InvokeIDSchema),
		schema.Field("problem", problemSchema),
	))

	// ComponentSchema is the envelope every component is decoded with
	// before its payload schema is known.
	ComponentSchema = schema.Must(schema.Choice("Component",
		schema.Field(AltInvoke, InvokeSchema).Implicit(ber.Context(1)),
		schema.Field(AltReturnResult, ReturnResultSchema).Implicit(ber.Context(2)),
		schema.Field(AltReturnError, ReturnErrorSchema).Implicit(ber.Context(3)),
		schema.Field(AltReject, RejectSchema).Implicit(ber.Context(4)),
		schema.Field(AltReturnResultNotLast, ReturnResultSchema).Implicit(ber.Context(7)),
	))
)

// Problem is the reason carried by a Reject component.
type Problem struct {
	Type string
	Code int64
}

var problemNames = map[string]map[int64]string{
	"general": {
		0: "unrecognizedPDU",
		1: "mistypedPDU",
		2: "badlyStructuredPDU",
	},
	"invoke": {
		0: "duplicateInvocation",
		1: "unrecognizedOperation",
		2: "mistypedArgument",
		3: "resourceLimitation",
		4: "releaseInProgress",
		5: "unrecognizedLinkedId",
		6: "linkedResponseUnexpected",
		7: "unexpectedLinkedOperation",
	},
	"returnResult": {
		0: "unrecognizedInvocation",
		1: "resultResponseUnexpected",
		2: "mistypedResult",
	},
	"returnError": {
		0: "unrecognizedInvocation",
		1: "errorResponseUnexpected",
		2: "unrecognizedError",
		3: "unexpectedError",
		4: "mistypedParameter",
	},
}

// Name returns the problem's X.880 name, or "" when unknown.
func (p Problem) Name() string {
	return problemNames[p.Type][p.Code]
}

func (p Problem) String() string {
	if n := p.Name(); n != "" {
		return p.Type + ":" + n
	}
	return p.Type + ":" + strconv.FormatInt(p.Code, 10)
}
