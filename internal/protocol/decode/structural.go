package decode

import (
	"errors"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/schema"
)

// run is the state of one decode call.
type run struct {
	d    *Decoder
	sink Sink
}

// extent returns where the content of h ends and where the whole element
// ends. For indefinite lengths the content excludes the end-of-contents
// octets.
func (r *run) extent(h ber.Header, content ber.Cursor) (contentEnd, end int, err error) {
	end, err = ber.ElementEnd(content, h, r.d.maxDepth)
	if err != nil {
		return 0, 0, err
	}
	if h.Length == ber.LengthIndefinite {
		return end - 2, end, nil
	}
	return end, end, nil
}

// fail records err at path unless a deeper level already did, and reports
// a malformed marker there.
func (r *run) fail(v ber.Value, path FieldPath, rng ber.Range, err error) (ber.Value, int, error) {
	var de *ber.DecodeError
	if errors.As(err, &de) {
		if de.Path != "" {
			return v, de.Offset, err
		}
		de.Path = path.String()
		if de.Path == "" {
			de.Path = "."
		}
	}
	r.d.log.Debug().Err(err).Str("path", path.String()).Msg("decode failed")
	bad := ber.Value{Kind: ber.KindMalformed, Range: rng, Err: err}
	if de != nil {
		bad.Tag = de.Tag
	}
	r.sink.Report(path, bad, rng)
	return v, failOffset(err, rng.Start), err
}

// field decodes the element whose header h has been read, as f. content is
// the cursor at h.ContentStart. It returns the offset after the element.
func (r *run) field(f schema.FieldSpec, h ber.Header, content ber.Cursor, path FieldPath, depth int) (ber.Value, int, error) {
	whole := ber.Range{Start: h.Start, End: content.Limit()}
	if depth > r.d.maxDepth {
		return r.fail(ber.Value{}, path, whole, &ber.DecodeError{
			Kind:   ber.NestingTooDeep,
			Tag:    h.Tag,
			Offset: h.Start,
			Detail: "structure nests deeper than the decoder limit",
		})
	}
	ce, end, err := r.extent(h, content)
	if err != nil {
		return r.fail(ber.Value{}, path, whole, err)
	}
	whole.End = end

	var v ber.Value
	if f.Tagging == schema.Explicit {
		v, err = r.explicit(f, h, content.Bound(ce), path, depth)
	} else {
		v, err = r.value(f.Type, h, content.Bound(ce), path, depth)
	}
	v.Tag = h.Tag
	v.Range = whole
	if err != nil {
		if v.Kind == ber.KindInvalid {
			v = ber.Value{}
		}
		return r.fail(v, path, whole, err)
	}
	r.sink.Report(path, v, whole)
	return v, end, nil
}

// explicit strips one constructed wrapper and decodes the single inner TLV
// with its natural tag. The inner TLV must fill the wrapper exactly.
func (r *run) explicit(f schema.FieldSpec, h ber.Header, content ber.Cursor, path FieldPath, depth int) (ber.Value, error) {
	if !h.Constructed {
		return ber.Value{}, &ber.DecodeError{
			Kind:   ber.FormMismatch,
			Tag:    h.Tag,
			Offset: h.Start,
			Detail: "explicit tag " + f.Tag.String() + " must be constructed",
		}
	}
	ih, inner, err := ber.ReadHeader(content)
	if err != nil {
		return ber.Value{}, err
	}
	natural := schema.FieldSpec{Name: f.Name, Type: f.Type, Check: schema.Inherited}
	if f.Check == schema.SkipValidation {
		natural.Check = schema.SkipValidation
	}
	if !natural.Matches(ih.Tag) {
		return ber.Value{}, &ber.DecodeError{
			Kind:   ber.UnrecognizedChoiceTag,
			Tag:    ih.Tag,
			Offset: ih.Start,
			Detail: "inside explicit " + f.Tag.String() + ", expected " + describe(natural),
		}
	}
	ice, iend, err := r.extent(ih, inner)
	if err != nil {
		return ber.Value{}, err
	}
	v, err := r.value(f.Type, ih, inner.Bound(ice), path, depth+1)
	if err != nil {
		return v, err
	}
	if iend != content.Limit() {
		return v, ber.Errorf(ber.UnexpectedField, iend, "%d octets after the value inside explicit %s", content.Limit()-iend, f.Tag)
	}
	return v, nil
}

// value decodes content with the algorithm of s. content is bounded to the
// element's content octets; h is the header whose tag was already matched.
func (r *run) value(s *schema.Schema, h ber.Header, content ber.Cursor, path FieldPath, depth int) (ber.Value, error) {
	switch s.Form() {
	case schema.FormPrimitive, schema.FormDelegated:
		if h.Constructed {
			return ber.Value{}, &ber.DecodeError{
				Kind:   ber.FormMismatch,
				Tag:    h.Tag,
				Offset: h.Start,
				Detail: s.Name() + " must use the primitive form",
			}
		}
		v, _, err := ber.DecodePrimitive(s.Kind(), content, content.Remaining())
		if err != nil {
			return ber.Value{}, err
		}
		if s.Kind() == ber.KindBitString {
			v.Bits.Names = s.BitNames()
		}
		if s.Form() == schema.FormDelegated {
			return r.delegated(s.Delegate(), v, path), nil
		}
		return v, nil

	case schema.FormOpaque:
		start := h.Start
		end := content.Limit()
		if h.Length == ber.LengthIndefinite {
			end += 2
		}
		raw := content.Buffer()[start:end:end]
		return ber.Value{Kind: ber.KindRaw, Bytes: raw}, nil

	case schema.FormChoice:
		return r.choice(s, h, content, path, depth)
	}

	if !h.Constructed {
		return ber.Value{}, &ber.DecodeError{
			Kind:   ber.FormMismatch,
			Tag:    h.Tag,
			Offset: h.Start,
			Detail: s.Name() + " must use the constructed form",
		}
	}
	switch s.Form() {
	case schema.FormSequence:
		return r.sequence(s, content, path, depth)
	case schema.FormSequenceOf, schema.FormSetOf:
		return r.list(s, content, path, depth)
	default:
		return ber.Value{}, ber.Errorf(ber.FormMismatch, h.Start, "schema %s has no decode form", s.Name())
	}
}

// choice decodes the alternative selected by h. An untagged CHOICE has no
// header of its own, so h is the alternative's header.
func (r *run) choice(s *schema.Schema, h ber.Header, content ber.Cursor, path FieldPath, depth int) (ber.Value, error) {
	alt, ok := s.Alternative(h.Tag)
	if !ok {
		return ber.Value{}, &ber.DecodeError{
			Kind:   ber.UnrecognizedChoiceTag,
			Tag:    h.Tag,
			Offset: h.Start,
			Detail: "no alternative of " + s.Name(),
		}
	}
	// The alternative re-measures the element, so an indefinite length
	// needs its end-of-contents octets back in view.
	c := content
	if h.Length == ber.LengthIndefinite {
		c = ber.NewCursor(content.Buffer()).Bound(content.Limit() + 2)
		c, _ = c.Seek(h.ContentStart)
	}
	v, _, err := r.field(alt, h, c, path.Child(alt.Name), depth+1)
	out := ber.Value{Kind: ber.KindChoice}
	if v.Present() {
		out.Fields = []ber.Field{{Name: alt.Name, Value: v}}
	}
	return out, err
}

// sequence matches elements to fields in order. An Optional field that does
// not match is left absent and the same element is tried against the next
// field.
func (r *run) sequence(s *schema.Schema, c ber.Cursor, path FieldPath, depth int) (ber.Value, error) {
	out := ber.Value{Kind: ber.KindSequence}
	fields := s.Fields()
	next := 0
	for !c.AtEnd() {
		h, content, err := ber.ReadHeader(c)
		if err != nil {
			return out, err
		}
		if h.IsEndOfContents() {
			return out, &ber.DecodeError{Kind: ber.UnexpectedField, Offset: h.Start, Detail: "end-of-contents inside definite-length " + s.Name()}
		}

		j := next
		for j < len(fields) && !fields[j].Matches(h.Tag) && fields[j].IsOptional() {
			j++
		}
		if j < len(fields) && fields[j].Matches(h.Tag) {
			f := fields[j]
			v, end, err := r.field(f, h, content, path.Child(f.Name), depth+1)
			if v.Present() {
				out.Fields = append(out.Fields, ber.Field{Name: f.Name, Value: v})
			}
			if err != nil {
				return out, err
			}
			if c, err = c.Seek(end); err != nil {
				return out, err
			}
			next = j + 1
			continue
		}

		if s.Extensible() {
			_, end, err := r.extent(h, content)
			if err != nil {
				return out, err
			}
			raw := ber.Value{
				Kind:  ber.KindRaw,
				Tag:   h.Tag,
				Range: ber.Range{Start: h.Start, End: end},
				Bytes: c.Buffer()[h.Start:end:end],
			}
			r.sink.Report(path.Child("unknown"), raw, raw.Range)
			out.Fields = append(out.Fields, ber.Field{Name: "unknown", Value: raw})
			if c, err = c.Seek(end); err != nil {
				return out, err
			}
			continue
		}
		if j < len(fields) {
			return out, &ber.DecodeError{
				Kind:   ber.MissingRequiredField,
				Tag:    h.Tag,
				Offset: h.Start,
				Detail: fields[j].Name + " of " + s.Name() + " expected " + describe(fields[j]),
			}
		}
		return out, &ber.DecodeError{
			Kind:   ber.UnexpectedField,
			Tag:    h.Tag,
			Offset: h.Start,
			Detail: "no field of " + s.Name() + " left to match",
		}
	}
	for _, f := range fields[next:] {
		if !f.IsOptional() {
			return out, &ber.DecodeError{
				Kind:   ber.MissingRequiredField,
				Offset: c.Offset(),
				Detail: f.Name + " of " + s.Name() + " absent at end of content",
			}
		}
	}
	return out, nil
}

// list decodes SEQUENCE OF and SET OF content. An element that fails is
// kept as a malformed item and decoding resumes after it; the first such
// failure is returned once the list is complete.
func (r *run) list(s *schema.Schema, c ber.Cursor, path FieldPath, depth int) (ber.Value, error) {
	out := ber.Value{Kind: ber.KindList}
	elem := schema.FieldSpec{Name: s.Element().Name(), Type: s.Element(), Check: schema.Inherited}
	var first error
	for i := 0; !c.AtEnd(); i++ {
		h, content, err := ber.ReadHeader(c)
		if err != nil {
			return out, err
		}
		_, end, err := r.extent(h, content)
		if err != nil {
			return out, err
		}
		ipath := path.Index(i)
		var v ber.Value
		if !elem.Matches(h.Tag) {
			err = &ber.DecodeError{
				Kind:   ber.UnrecognizedChoiceTag,
				Tag:    h.Tag,
				Offset: h.Start,
				Detail: "element of " + s.Name() + " expected " + describe(elem),
			}
			r.fail(ber.Value{}, ipath, ber.Range{Start: h.Start, End: end}, err)
		} else {
			v, _, err = r.field(elem, h, content, ipath, depth+1)
		}
		if err != nil {
			if first == nil {
				first = err
			}
			v = ber.Value{Kind: ber.KindMalformed, Tag: h.Tag, Range: ber.Range{Start: h.Start, End: end}, Err: err}
		}
		out.Items = append(out.Items, v)
		if c, err = c.Seek(end); err != nil {
			return out, err
		}
	}
	return out, first
}
