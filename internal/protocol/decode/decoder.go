package decode

import (
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/schema"
)

// DefaultMaxDepth bounds structural nesting, including indefinite-length
// walks.
const DefaultMaxDepth = 64

// Decoder applies schemas to BER input. A Decoder is immutable after New and
// may be shared across goroutines; each call owns its own cursor.
type Decoder struct {
	maxDepth  int
	log       zerolog.Logger
	delegates map[string]Delegate
}

type Option func(*Decoder)

// WithMaxDepth sets the nesting limit. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.maxDepth = n
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

// WithDelegate registers the sub-decoder used by schema.Delegated(name)
// fields. A later registration under the same name wins.
func WithDelegate(name string, dlg Delegate) Option {
	return func(d *Decoder) {
		if dlg != nil {
			d.delegates[name] = dlg
		}
	}
}

func New(opts ...Option) *Decoder {
	d := &Decoder{
		maxDepth:  DefaultMaxDepth,
		log:       zerolog.Nop(),
		delegates: make(map[string]Delegate),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxDepth returns the nesting limit.
func (d *Decoder) MaxDepth() int { return d.maxDepth }

// Delegates lists registered sub-decoder names in sorted order.
func (d *Decoder) Delegates() []string {
	out := make([]string, 0, len(d.delegates))
	for name := range d.delegates {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var plain = New()

// Decode decodes one TLV at the start of data against s. It returns the
// value and the offset just past the TLV.
func Decode(s *schema.Schema, data []byte) (ber.Value, int, error) {
	return plain.Decode(s, data, nil)
}

// Decode decodes one TLV at the start of data against s, reporting every
// field to sink. sink may be nil.
func (d *Decoder) Decode(s *schema.Schema, data []byte, sink Sink) (ber.Value, int, error) {
	return d.DecodeAt(s, data, 0, nil, sink)
}

// DecodeAt decodes one TLV at offset off of buf against s. Reported paths
// are rooted at path.
func (d *Decoder) DecodeAt(s *schema.Schema, buf []byte, off int, path FieldPath, sink Sink) (ber.Value, int, error) {
	f := schema.FieldSpec{Name: s.Name(), Type: s, Check: schema.Inherited}
	return d.DecodeField(f, buf, off, path, sink)
}

// DecodeField decodes one TLV at offset off of buf as field f, honouring its
// tagging. On failure the value decoded so far is returned together with the
// error, and the returned offset is where decoding failed.
func (d *Decoder) DecodeField(f schema.FieldSpec, buf []byte, off int, path FieldPath, sink Sink) (ber.Value, int, error) {
	if sink == nil {
		sink = Discard
	}
	r := &run{d: d, sink: sink}
	c, err := ber.NewCursor(buf).Seek(off)
	if err != nil {
		return ber.Value{}, off, err
	}
	h, content, err := ber.ReadHeader(c)
	if err != nil {
		return r.fail(ber.Value{}, path, ber.Range{Start: off, End: len(buf)}, err)
	}
	if !f.Matches(h.Tag) {
		err := &ber.DecodeError{
			Kind:   ber.UnrecognizedChoiceTag,
			Tag:    h.Tag,
			Offset: h.Start,
			Detail: "expected " + describe(f),
		}
		return r.fail(ber.Value{}, path, ber.Range{Start: h.Start, End: len(buf)}, err)
	}
	v, end, err := r.field(f, h, content, path, 0)
	if err != nil {
		return v, failOffset(err, off), err
	}
	d.log.Trace().Str("schema", typeName(f)).Int("consumed", end-off).Msg("decoded")
	return v, end, nil
}

func typeName(f schema.FieldSpec) string {
	if f.Type == nil {
		return f.Name
	}
	return f.Type.Name()
}

func describe(f schema.FieldSpec) string {
	tags, ok := f.Tags()
	if !ok {
		return "any tag"
	}
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += " or "
		}
		out += t.String()
	}
	return out + " for " + f.Name
}

func failOffset(err error, fallback int) int {
	var de *ber.DecodeError
	if errors.As(err, &de) {
		return de.Offset
	}
	return fallback
}
