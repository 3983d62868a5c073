package ros

import (
	"github.com/rs/zerolog"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/decode"
)

// Decoder decodes ROS components in two phases: the envelope first, then
// the payload with the schema its code selects.
type Decoder struct {
	dec       *decode.Decoder
	proto     *Protocol
	byContext map[string]*Protocol
	observers []Observer
	log       zerolog.Logger
}

type Option func(*Decoder)

// WithApplicationContext selects p for components whose transaction
// negotiated application context acn.
func WithApplicationContext(acn ber.OID, p *Protocol) Option {
	return func(d *Decoder) {
		if p != nil {
			d.byContext[acn.String()] = p
		}
	}
}

func WithObserver(o Observer) Option {
	return func(d *Decoder) {
		if o != nil {
			d.observers = append(d.observers, o)
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

// New returns a component decoder using dec for all structural work and
// proto when no application context selects another protocol.
func New(dec *decode.Decoder, proto *Protocol, opts ...Option) *Decoder {
	if dec == nil {
		dec = decode.New()
	}
	d := &Decoder{
		dec:       dec,
		proto:     proto,
		byContext: make(map[string]*Protocol),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Protocol returns the protocol used for application context acn.
func (d *Decoder) Protocol(acn ber.OID) *Protocol {
	if len(acn) > 0 {
		if p, ok := d.byContext[acn.String()]; ok {
			return p
		}
	}
	return d.proto
}

// Structural returns the decoder used for envelopes and payloads.
func (d *Decoder) Structural() *decode.Decoder { return d.dec }

// Decode decodes one component at the start of data.
func (d *Decoder) Decode(data []byte, sink decode.Sink) (Component, int, error) {
	return d.DecodeComponent(DecodeContext{}, data, 0, sink)
}

// DecodeComponent decodes the component at offset off of buf. The returned
// Component is filled as far as decoding got, also on error. An unknown
// code is not an error: it is reported in Component.Notice.
func (d *Decoder) DecodeComponent(dc DecodeContext, buf []byte, off int, sink decode.Sink) (Component, int, error) {
	if sink == nil {
		sink = decode.Discard
	}
	proto := d.Protocol(dc.ApplicationContext)
	comp := Component{Context: dc}

	env, end, err := d.dec.DecodeAt(ComponentSchema, buf, off, nil, sink)
	comp.Envelope = env
	if alt, ok := env.Alternative(); ok {
		comp.Kind = kindOf(alt.Name)
		readEnvelope(&comp, alt.Value)
	}
	if err != nil {
		comp.Status = StatusFailed
		d.log.Warn().Err(err).Str("component", comp.Kind.String()).Msg("component envelope malformed")
		d.emit(proto, comp, err)
		return comp, end, err
	}

	err = d.dispatch(&comp, proto, buf, sink)
	d.emit(proto, comp, err)
	return comp, end, err
}

func presentID(v ber.Value, ok bool) *int64 {
	if !ok {
		return nil
	}
	alt, ok := v.Alternative()
	if !ok || alt.Name != "present" {
		return nil
	}
	id := alt.Value.Int
	return &id
}

// readEnvelope copies the envelope fields common to all payload schemas.
func readEnvelope(comp *Component, body ber.Value) {
	comp.InvokeID = presentID(body.Field("invokeId"))
	comp.LinkedID = presentID(body.Field("linkedId"))

	switch comp.Kind {
	case KindInvoke:
		if v, ok := body.Field("opcode"); ok {
			if c, ok := CodeFromValue(v); ok {
				comp.Operation = &c
			}
		}
		comp.Raw, _ = body.Field("argument")
	case KindReturnResult, KindReturnResultNotLast:
		if res, ok := body.Field("result"); ok {
			if v, ok := res.Field("opcode"); ok {
				if c, ok := CodeFromValue(v); ok {
					comp.Operation = &c
				}
			}
			comp.Raw, _ = res.Field("result")
		}
	case KindReturnError:
		if v, ok := body.Field("errcode"); ok {
			if c, ok := CodeFromValue(v); ok {
				comp.Error = &c
			}
		}
		comp.Raw, _ = body.Field("parameter")
	case KindReject:
		if v, ok := body.Field("problem"); ok {
			if alt, ok := v.Alternative(); ok {
				comp.Problem = &Problem{Type: alt.Name, Code: alt.Value.Int}
			}
		}
	}

	if comp.Operation != nil {
		comp.Context.Operation = comp.Operation
	}
	if comp.Error != nil {
		comp.Context.Error = comp.Error
	}
}

// dispatch looks the component's code up and decodes the raw payload with
// the schema found there.
func (d *Decoder) dispatch(comp *Component, proto *Protocol, buf []byte, sink decode.Sink) error {
	var table *DispatchTable
	var code *Code
	if proto != nil {
		switch comp.Kind {
		case KindInvoke:
			table, code = proto.Arguments, comp.Context.Operation
		case KindReturnResult, KindReturnResultNotLast:
			table, code = proto.Results, comp.Context.Operation
		case KindReturnError:
			table, code = proto.Errors, comp.Context.Error
		}
	}
	if comp.Kind == KindReject || code == nil {
		if comp.Raw.Present() {
			comp.Status = StatusPartiallyDecoded
		} else {
			comp.Status = StatusNoPayload
		}
		return nil
	}

	entry, known := table.Lookup(*code)
	if known {
		if comp.Kind == KindReturnError {
			comp.ErrorName = entry.Name
		} else {
			comp.OperationName = entry.Name
		}
	} else {
		comp.Notice = UnknownOperationError{Code: *code, Table: table.Name()}
		d.log.Warn().
			Str("component", comp.Kind.String()).
			Str("code", code.String()).
			Str("table", table.Name()).
			Msg("no schema registered, payload kept raw")
	}

	switch {
	case !comp.Raw.Present():
		comp.Status = StatusNoPayload
		return nil
	case !known:
		comp.Status = StatusPartiallyDecoded
		return nil
	case entry.IsUnparsed():
		comp.Status = StatusUnparsed
		return nil
	}

	path := decode.FieldPath{comp.Kind.String(), entry.Name}
	v, _, err := d.dec.DecodeAt(entry.Schema, buf, comp.Raw.Range.Start, path, sink)
	comp.Payload = v
	if err != nil {
		comp.Status = StatusPartiallyDecoded
		d.log.Warn().Err(err).Str("operation", entry.Name).Msg("payload malformed")
		return err
	}
	comp.Status = StatusDecoded
	d.log.Debug().
		Str("component", comp.Kind.String()).
		Str("operation", entry.Name).
		Int("bytes", comp.Raw.Range.Len()).
		Msg("payload decoded")
	return nil
}

func (d *Decoder) emit(proto *Protocol, comp Component, err error) {
	if len(d.observers) == 0 {
		return
	}
	name := ""
	if proto != nil {
		name = proto.Name
	}
	ev := eventOf(name, comp, err)
	for _, o := range d.observers {
		o.Observe(ev)
	}
}
