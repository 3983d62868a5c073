package tcap

import (
	"github.com/rs/zerolog"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/decode"
	"github.com/danmuck/camelwire/internal/protocol/ros"
)

// Decoder decodes TCAP messages and hands each component to a ROS
// decoder. It holds no per-transaction state.
type Decoder struct {
	ros *ros.Decoder
	log zerolog.Logger
}

type Option func(*Decoder)

func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

func New(rd *ros.Decoder, opts ...Option) *Decoder {
	if rd == nil {
		rd = ros.New(nil, nil)
	}
	d := &Decoder{ros: rd, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decodes the message at the start of data.
func (d *Decoder) Decode(data []byte, sink decode.Sink) (Message, int, error) {
	return d.DecodeMessage(ros.DecodeContext{}, data, 0, sink)
}

// DecodeMessage decodes the message at offset off of buf. dc carries what
// the caller knows about the transaction, typically the application context
// of an earlier Begin; a dialogue portion in the message replaces it.
//
// The returned error covers the message structure only. Component failures
// are kept per component in Message.ComponentErrors.
func (d *Decoder) DecodeMessage(dc ros.DecodeContext, buf []byte, off int, sink decode.Sink) (Message, int, error) {
	if sink == nil {
		sink = decode.Discard
	}
	v, end, err := d.ros.Structural().DecodeAt(MessageSchema, buf, off, nil, sink)
	msg := Message{Value: v}
	alt, ok := v.Alternative()
	if !ok {
		return msg, end, err
	}
	msg.Type = typeOf(alt.Name)
	body := alt.Value

	if f, ok := body.Field("otid"); ok {
		msg.OTID = f.Bytes
	}
	if f, ok := body.Field("dtid"); ok {
		msg.DTID = f.Bytes
	}
	if f, ok := body.Field("dialoguePortion"); ok {
		msg.Dialogue = dialogueOf(f)
	}
	if f, ok := body.Lookup("reason", "pAbortCause"); ok {
		cause := f.Int
		msg.PAbortCause = &cause
	}
	if f, ok := body.Lookup("reason", "uAbortCause"); ok {
		msg.UserAbort = dialogueOf(f)
	}
	if err != nil {
		d.log.Warn().Err(err).Str("message", msg.Type.String()).Msg("transaction portion malformed")
		return msg, end, err
	}

	if acn := msg.ApplicationContext(); len(acn) > 0 {
		dc.ApplicationContext = acn
	}
	dc.OTID, dc.DTID = msg.OTID, msg.DTID
	list, _ := body.Field("components")
	for i, item := range list.Items {
		path := decode.FieldPath{alt.Name, "components"}.Index(i)
		c, _, cerr := d.ros.DecodeComponent(dc, buf, item.Range.Start, decode.Prefixed(path, sink))
		msg.Components = append(msg.Components, c)
		msg.ComponentErrors = append(msg.ComponentErrors, cerr)
		if cerr != nil {
			d.log.Warn().Err(cerr).Int("component", i).Str("message", msg.Type.String()).Msg("component failed")
		}
	}
	d.log.Debug().
		Str("message", msg.Type.String()).
		Int("components", len(msg.Components)).
		Str("acn", dc.ApplicationContext.String()).
		Msg("message decoded")
	return msg, end, nil
}

// dialogueOf reads an EXTERNAL carrying a dialogue PDU.
func dialogueOf(ext ber.Value) *Dialogue {
	dlg := &Dialogue{}
	if f, ok := ext.Field("directReference"); ok {
		dlg.AbstractSyntax = f.OID
	}
	pdu, ok := ext.Lookup("encoding", "singleASN1Type")
	if !ok {
		return dlg
	}
	alt, ok := pdu.Alternative()
	if !ok {
		return dlg
	}
	dlg.PDU = alt.Name
	apdu := alt.Value
	if f, ok := apdu.Field("protocolVersion"); ok {
		dlg.Version1 = f.Bits.Named("version1")
	}
	if f, ok := apdu.Field("applicationContextName"); ok {
		dlg.ApplicationContext = f.OID
	}
	if f, ok := apdu.Field("result"); ok {
		r := f.Int
		dlg.Result = &r
	}
	if f, ok := apdu.Field("resultSourceDiagnostic"); ok {
		if src, ok := f.Alternative(); ok {
			dlg.Diagnostic = &Diagnostic{Source: src.Name, Code: src.Value.Int}
		}
	}
	if f, ok := apdu.Field("abortSource"); ok {
		s := f.Int
		dlg.AbortSource = &s
	}
	return dlg
}
