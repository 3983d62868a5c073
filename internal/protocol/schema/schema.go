package schema

import (
	"github.com/danmuck/camelwire/internal/protocol/ber"
)

// Form is the decode algorithm a Schema selects.
type Form uint8

const (
	FormPrimitive Form = iota + 1
	FormSequence
	FormChoice
	FormSequenceOf
	FormSetOf
	FormDelegated
	FormOpaque
)

func (f Form) String() string {
	switch f {
	case FormPrimitive:
		return "primitive"
	case FormSequence:
		return "SEQUENCE"
	case FormChoice:
		return "CHOICE"
	case FormSequenceOf:
		return "SEQUENCE OF"
	case FormSetOf:
		return "SET OF"
	case FormDelegated:
		return "delegated"
	case FormOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Tagging says how a field's tag relates to its type's natural tag.
type Tagging uint8

const (
	NotApplicable Tagging = iota
	Implicit
	Explicit
)

func (t Tagging) String() string {
	switch t {
	case Implicit:
		return "IMPLICIT"
	case Explicit:
		return "EXPLICIT"
	default:
		return "untagged"
	}
}

type Presence uint8

const (
	Required Presence = iota
	Optional
)

// TagCheck is how strictly the incoming tag is matched against a field.
type TagCheck uint8

const (
	// Strict matches the field's own tag.
	Strict TagCheck = iota
	// Inherited matches the natural tag(s) of the field's type; for an
	// untagged CHOICE that is every alternative's tag.
	Inherited
	// SkipValidation accepts whatever element comes next.
	SkipValidation
)

func (c TagCheck) String() string {
	switch c {
	case Strict:
		return "strict"
	case Inherited:
		return "inherited"
	case SkipValidation:
		return "unchecked"
	default:
		return "unknown"
	}
}

// FieldSpec declares one slot of a SEQUENCE or one CHOICE alternative.
type FieldSpec struct {
	Name     string
	Tag      ber.Tag
	Tagging  Tagging
	Presence Presence
	Check    TagCheck
	Type     *Schema
}

// Field declares an untagged field of type t.
func Field(name string, t *Schema) FieldSpec {
	return FieldSpec{Name: name, Type: t, Tagging: NotApplicable, Check: Inherited}
}

// Implicit replaces the type's tag with tag.
func (f FieldSpec) Implicit(tag ber.Tag) FieldSpec {
	f.Tag = tag
	f.Tagging = Implicit
	if f.Check != SkipValidation {
		f.Check = Strict
	}
	return f
}

// Explicit wraps the type in one constructed layer tagged tag.
func (f FieldSpec) Explicit(tag ber.Tag) FieldSpec {
	f.Tag = tag
	f.Tagging = Explicit
	if f.Check != SkipValidation {
		f.Check = Strict
	}
	return f
}

func (f FieldSpec) Optional() FieldSpec {
	f.Presence = Optional
	return f
}

// Unchecked accepts any tag in this position.
func (f FieldSpec) Unchecked() FieldSpec {
	f.Check = SkipValidation
	return f
}

func (f FieldSpec) IsOptional() bool { return f.Presence == Optional }

// Tags returns the set of outer tags this field accepts. A nil set with
// ok=false means any tag is accepted.
func (f FieldSpec) Tags() (tags []ber.Tag, ok bool) {
	switch {
	case f.Check == SkipValidation:
		return nil, false
	case f.Tagging != NotApplicable:
		return []ber.Tag{f.Tag}, true
	default:
		return f.Type.Tags()
	}
}

// Matches reports whether an element tagged t fills this field.
func (f FieldSpec) Matches(t ber.Tag) bool {
	tags, ok := f.Tags()
	if !ok {
		return true
	}
	for _, x := range tags {
		if x == t {
			return true
		}
	}
	return false
}

// Schema describes how to decode one ASN.1 type. Schemas are immutable once
// constructed and may be shared by concurrent decodes.
type Schema struct {
	name string
	form Form
	tag  ber.Tag
	kind ber.Kind

	fields     []FieldSpec
	alts       map[ber.Tag]int
	elem       *Schema
	bits       []string
	delegate   string
	extensible bool
}

func (s *Schema) Name() string         { return s.name }
func (s *Schema) Form() Form           { return s.form }
func (s *Schema) Kind() ber.Kind       { return s.kind }
func (s *Schema) Element() *Schema     { return s.elem }
func (s *Schema) Delegate() string     { return s.delegate }
func (s *Schema) Extensible() bool     { return s.extensible }
func (s *Schema) BitNames() []string   { return s.bits }
func (s *Schema) NaturalTag() ber.Tag  { return s.tag }
func (s *Schema) Fields() []FieldSpec  { return s.fields }
func (s *Schema) NumFields() int       { return len(s.fields) }
func (s *Schema) At(i int) FieldSpec   { return s.fields[i] }
func (s *Schema) IsChoice() bool       { return s.form == FormChoice }
func (s *Schema) IsConstructed() bool  { return s.form == FormSequence || s.form == FormSequenceOf || s.form == FormSetOf }

// Alternative finds the CHOICE alternative accepting tag t.
func (s *Schema) Alternative(t ber.Tag) (FieldSpec, bool) {
	if s.form != FormChoice {
		return FieldSpec{}, false
	}
	i, ok := s.alts[t]
	if !ok {
		return FieldSpec{}, false
	}
	return s.fields[i], true
}

// Tags returns the tags an untagged occurrence of s accepts. Opaque schemas
// accept anything and report ok=false.
func (s *Schema) Tags() ([]ber.Tag, bool) {
	switch s.form {
	case FormOpaque:
		return nil, false
	case FormChoice:
		tags := make([]ber.Tag, 0, len(s.alts))
		for _, f := range s.fields {
			ft, ok := f.Tags()
			if !ok {
				return nil, false
			}
			tags = append(tags, ft...)
		}
		return tags, true
	default:
		return []ber.Tag{s.tag}, true
	}
}

func primitive(name string, k ber.Kind) *Schema {
	tag, _ := k.NaturalTag()
	return &Schema{name: name, form: FormPrimitive, tag: tag, kind: k}
}

func Integer() *Schema     { return primitive("INTEGER", ber.KindInteger) }
func Enumerated() *Schema  { return primitive("ENUMERATED", ber.KindEnumerated) }
func Boolean() *Schema     { return primitive("BOOLEAN", ber.KindBoolean) }
func OctetString() *Schema { return primitive("OCTET STRING", ber.KindOctetString) }
func OID() *Schema         { return primitive("OBJECT IDENTIFIER", ber.KindOID) }
func Null() *Schema        { return primitive("NULL", ber.KindNull) }

// BitString declares a BIT STRING whose bit i is called names[i].
func BitString(names ...string) *Schema {
	s := primitive("BIT STRING", ber.KindBitString)
	s.bits = append([]string(nil), names...)
	return s
}

// Named returns a copy of a primitive schema under a type name, e.g.
// Named("ServiceKey", Integer()).
func Named(name string, s *Schema) *Schema {
	c := *s
	c.name = name
	return &c
}

// Delegated declares an OCTET STRING whose content is handed to the
// sub-decoder registered as name.
func Delegated(name string) *Schema {
	s := primitive(name, ber.KindOctetString)
	s.form = FormDelegated
	s.delegate = name
	return s
}

// Opaque accepts any single element and keeps it undecoded.
func Opaque(name string) *Schema {
	return &Schema{name: name, form: FormOpaque}
}

// Sequence builds an ordered SEQUENCE type.
func Sequence(name string, fields ...FieldSpec) (*Schema, error) {
	s := &Schema{
		name:   name,
		form:   FormSequence,
		tag:    ber.Universal(ber.TagSequence),
		fields: append([]FieldSpec(nil), fields...),
	}
	if err := validateSequence(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ExtensibleSequence builds a SEQUENCE with an extension marker: elements
// that match no field are kept rather than rejected.
func ExtensibleSequence(name string, fields ...FieldSpec) (*Schema, error) {
	s, err := Sequence(name, fields...)
	if err != nil {
		return nil, err
	}
	s.extensible = true
	return s, nil
}

// Choice builds a CHOICE type; each alternative must accept distinct tags.
func Choice(name string, alts ...FieldSpec) (*Schema, error) {
	s := &Schema{
		name:   name,
		form:   FormChoice,
		fields: append([]FieldSpec(nil), alts...),
		alts:   make(map[ber.Tag]int),
	}
	if err := validateChoice(s); err != nil {
		return nil, err
	}
	return s, nil
}

// SequenceOf builds a SEQUENCE OF elem.
func SequenceOf(name string, elem *Schema) (*Schema, error) {
	return listOf(name, FormSequenceOf, ber.Universal(ber.TagSequence), elem)
}

// SetOf builds a SET OF elem. Element order is kept as decoded.
func SetOf(name string, elem *Schema) (*Schema, error) {
	return listOf(name, FormSetOf, ber.Universal(ber.TagSet), elem)
}

func listOf(name string, form Form, tag ber.Tag, elem *Schema) (*Schema, error) {
	s := &Schema{name: name, form: form, tag: tag, elem: elem}
	if err := validateList(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Tagged returns a copy of s whose natural tag is tag, for type
// definitions such as `ServiceKey ::= [APPLICATION 3] IMPLICIT INTEGER`.
// CHOICE and opaque types cannot be implicitly tagged.
func Tagged(name string, tag ber.Tag, s *Schema) (*Schema, error) {
	if s == nil || s.form == FormChoice || s.form == FormOpaque {
		return nil, ValidationError{Schema: name, Reason: "implicit tag on a type without a tag of its own"}
	}
	c := *s
	c.name = name
	c.tag = tag
	return &c, nil
}

// Must panics when a schema constructor fails. Use it only for tables
// built at program start.
func Must(s *Schema, err error) *Schema {
	if err != nil {
		panic(err)
	}
	return s
}
