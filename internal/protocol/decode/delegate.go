package decode

import (
	"errors"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/schema"
)

// Delegate decodes the content of an OCTET STRING whose structure belongs
// to another protocol. Field ranges are relative to raw. consumed tells the
// caller how much of raw the delegate understood.
type Delegate interface {
	Decode(raw []byte) (fields []ber.Field, consumed int, err error)
}

// DelegateFunc adapts a function to Delegate.
type DelegateFunc func(raw []byte) ([]ber.Field, int, error)

func (f DelegateFunc) Decode(raw []byte) ([]ber.Field, int, error) { return f(raw) }

// SchemaDelegate decodes the octets as one BER element of s. It serves
// OCTET STRINGs that carry an encoded ASN.1 value of their own. A nil d
// uses a decoder with default options.
func SchemaDelegate(s *schema.Schema, d *Decoder) Delegate {
	if d == nil {
		d = plain
	}
	return DelegateFunc(func(raw []byte) ([]ber.Field, int, error) {
		v, n, err := d.DecodeAt(s, raw, 0, nil, nil)
		if err != nil {
			return nil, 0, err
		}
		return []ber.Field{{Name: s.Name(), Value: v}}, n, nil
	})
}

// delegated runs the sub-decoder registered as name on the content octets.
// Failures stay inside the returned value so sibling fields keep decoding.
func (r *run) delegated(name string, v ber.Value, path FieldPath) ber.Value {
	v.Kind = ber.KindDelegated
	dlg, ok := r.d.delegates[name]
	if !ok {
		r.d.log.Trace().Str("delegate", name).Str("path", path.String()).Msg("no sub-decoder registered, keeping octets")
		return v
	}
	raw := v.Bytes
	base := v.Range.Start
	fields, consumed, err := dlg.Decode(raw)
	if err == nil && (consumed < 0 || consumed > len(raw)) {
		err = ber.Errorf(ber.DelegateFailed, base, "%s consumed %d of %d octets", name, consumed, len(raw))
	}
	if err != nil {
		de := &ber.DecodeError{
			Kind:   ber.DelegateFailed,
			Offset: base,
			Path:   path.String(),
			Detail: name,
			Err:    err,
		}
		var inner *ber.DecodeError
		if errors.As(err, &inner) && inner.Kind == ber.DelegateFailed {
			de = inner
			de.Path = path.String()
		}
		r.d.log.Warn().Err(de).Str("delegate", name).Msg("sub-decoder failed")
		bad := ber.Value{Kind: ber.KindMalformed, Range: v.Range, Err: de}
		r.sink.Report(path.Child("malformed"), bad, bad.Range)
		v.Fields = []ber.Field{{Name: "malformed", Value: bad}}
		return v
	}

	v.Fields = make([]ber.Field, 0, len(fields)+1)
	for _, f := range fields {
		f.Value = shift(f.Value, base)
		r.sink.Report(path.Child(f.Name), f.Value, f.Value.Range)
		v.Fields = append(v.Fields, f)
	}
	if consumed < len(raw) {
		tail := ber.Value{
			Kind:  ber.KindOctetString,
			Bytes: raw[consumed:],
			Range: ber.Range{Start: base + consumed, End: base + len(raw)},
		}
		r.sink.Report(path.Child("trailing"), tail, tail.Range)
		v.Fields = append(v.Fields, ber.Field{Name: "trailing", Value: tail})
	}
	return v
}

// shift moves a delegate-relative value tree to absolute offsets.
func shift(v ber.Value, base int) ber.Value {
	v.Range.Start += base
	v.Range.End += base
	if len(v.Fields) > 0 {
		fields := make([]ber.Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = ber.Field{Name: f.Name, Value: shift(f.Value, base)}
		}
		v.Fields = fields
	}
	if len(v.Items) > 0 {
		items := make([]ber.Value, len(v.Items))
		for i, it := range v.Items {
			items[i] = shift(it, base)
		}
		v.Items = items
	}
	return v
}
