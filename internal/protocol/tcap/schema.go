package tcap

import (
	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/schema"
)

// Message alternative names as they appear in decoded values.
const (
	AltUnidirectional = "unidirectional"
	AltBegin          = "begin"
	AltEnd            = "end"
	AltContinue       = "continue"
	AltAbort          = "abort"
)

// Dialogue PDU alternative names.
const (
	PDURequest  = "dialogueRequest"
	PDUResponse = "dialogueResponse"
	PDUAbort    = "dialogueAbort"
)

var (
	// DialogueAsID is the abstract syntax of structured dialogues.
	DialogueAsID = ber.OID{0, 0, 17, 773, 1, 1, 1}
	// UniDialogueAsID is the abstract syntax of unstructured dialogues.
	UniDialogueAsID = ber.OID{0, 0, 17, 773, 1, 2, 1}
)

var (
	userInformationSchema = schema.Must(schema.SequenceOf("UserInformation", schema.Opaque("EXTERNAL")))

	aarqSchema = schema.Must(schema.Sequence("AARQ-apdu",
		schema.Field("protocolVersion", schema.BitString("version1")).Implicit(ber.Context(0)).Optional(),
		schema.Field("applicationContextName", schema.OID()).Explicit(ber.Context(1)),
		schema.Field("userInformation", userInformationSchema).Implicit(ber.Context(30)).Optional(),
	))

	diagnosticSchema = schema.Must(schema.Choice("Associate-source-diagnostic",
		schema.Field("dialogueServiceUser", schema.Integer()).Explicit(ber.Context(1)),
		schema.Field("dialogueServiceProvider", schema.Integer()).Explicit(ber.Context(2)),
	))

	aareSchema = schema.Must(schema.Sequence("AARE-apdu",
		schema.Field("protocolVersion", schema.BitString("version1")).Implicit(ber.Context(0)).Optional(),
		schema.Field("applicationContextName", schema.OID()).Explicit(ber.Context(1)),
		schema.Field("result", schema.Integer()).Explicit(ber.Context(2)),
		schema.Field("resultSourceDiagnostic", diagnosticSchema).Explicit(ber.Context(3)),
		schema.Field("userInformation", userInformationSchema).Implicit(ber.Context(30)).Optional(),
	))

	abrtSchema = schema.Must(schema.Sequence("ABRT-apdu",
		schema.Field("abortSource", schema.Integer()).Implicit(ber.Context(0)),
		schema.Field("userInformation", userInformationSchema).Implicit(ber.Context(30)).Optional(),
	))

	// An AUDT of a unidirectional message shares the AARQ tag and layout.
	dialoguePDUSchema = schema.Must(schema.Choice("DialoguePDU",
		schema.Field(PDURequest, aarqSchema).Implicit(ber.Application(0)),
		schema.Field(PDUResponse, aareSchema).Implicit(ber.Application(1)),
		schema.Field(PDUAbort, abrtSchema).Implicit(ber.Application(4)),
	))

	encodingSchema = schema.Must(schema.Choice("Encoding",
		schema.Field("singleASN1Type", dialoguePDUSchema).Explicit(ber.Context(0)),
		schema.Field("octetAligned", schema.OctetString()).Implicit(ber.Context(1)),
		schema.Field("arbitrary", schema.BitString()).Implicit(ber.Context(2)),
	))

	// ExternalSchema is the EXTERNAL carried in a dialogue portion.
	ExternalSchema = schema.Must(schema.Tagged("EXTERNAL", ber.Universal(8), schema.Must(schema.Sequence("EXTERNAL",
		schema.Field("directReference", schema.OID()).Optional(),
		schema.Field("indirectReference", schema.Integer()).Optional(),
		schema.Field("encoding", encodingSchema),
	))))

	// ComponentPortionSchema keeps each component raw so that it can be
	// decoded, and fail, on its own.
	ComponentPortionSchema = schema.Must(schema.SequenceOf("ComponentPortion", schema.Opaque("Component")))

	otid     = schema.Field("otid", schema.OctetString()).Implicit(ber.Application(8))
	dtid     = schema.Field("dtid", schema.OctetString()).Implicit(ber.Application(9))
	dialogue = schema.Field("dialoguePortion", ExternalSchema).Explicit(ber.Application(11))
	comps    = schema.Field("components", ComponentPortionSchema).Implicit(ber.Application(12))

	abortReasonSchema = schema.Must(schema.Choice("Reason",
		schema.Field("pAbortCause", schema.Integer()).Implicit(ber.Application(10)),
		schema.Field("uAbortCause", ExternalSchema).Explicit(ber.Application(11)),
	))

	unidirectionalSchema = schema.Must(schema.Sequence("Unidirectional",
		dialogue.Optional(),
		comps,
	))
	beginSchema = schema.Must(schema.Sequence("Begin",
		otid,
		dialogue.Optional(),
		comps.Optional(),
	))
	endSchema = schema.Must(schema.Sequence("End",
		dtid,
		dialogue.Optional(),
		comps.Optional(),
	))
	continueSchema = schema.Must(schema.Sequence("Continue",
		otid,
		dtid,
		dialogue.Optional(),
		comps.Optional(),
	))
	abortSchema = schema.Must(schema.Sequence("Abort",
		dtid,
		schema.Field("reason", abortReasonSchema).Optional(),
	))

	// MessageSchema is TCMessage with the component payloads left raw.
	MessageSchema = schema.Must(schema.Choice("TCMessage",
		schema.Field(AltUnidirectional, unidirectionalSchema).Implicit(ber.Application(1)),
		schema.Field(AltBegin, beginSchema).Implicit(ber.Application(2)),
		schema.Field(AltEnd, endSchema).Implicit(ber.Application(4)),
		schema.Field(AltContinue, continueSchema).Implicit(ber.Application(5)),
		schema.Field(AltAbort, abortSchema).Implicit(ber.Application(7)),
	))
)
