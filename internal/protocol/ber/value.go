package ber

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the shape of a decoded Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindEnumerated
	KindBoolean
	KindOctetString
	KindOID
	KindNull
	KindBitString
	KindSequence
	KindChoice
	KindList
	KindRaw
	KindDelegated
	KindMalformed
	// KindText holds a rendering produced by a sub-decoder, such as the
	// digits of a telephone number.
	KindText
)

var kindLabels = [...]string{
	KindInvalid:     "invalid",
	KindInteger:     "integer",
	KindEnumerated:  "enumerated",
	KindBoolean:     "boolean",
	KindOctetString: "octet_string",
	KindOID:         "object_identifier",
	KindNull:        "null",
	KindBitString:   "bit_string",
	KindSequence:    "sequence",
	KindChoice:      "choice",
	KindList:        "list",
	KindRaw:         "raw",
	KindDelegated:   "delegated",
	KindMalformed:   "malformed",
	KindText:        "text",
}

func (k Kind) String() string {
	if int(k) < len(kindLabels) {
		return kindLabels[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// NaturalTag returns the universal tag a primitive kind carries when it is
// not tagged.
func (k Kind) NaturalTag() (Tag, bool) {
	switch k {
	case KindInteger:
		return Universal(TagInteger), true
	case KindEnumerated:
		return Universal(TagEnumerated), true
	case KindBoolean:
		return Universal(TagBoolean), true
	case KindOctetString:
		return Universal(TagOctetString), true
	case KindOID:
		return Universal(TagOID), true
	case KindNull:
		return Universal(TagNull), true
	case KindBitString:
		return Universal(TagBitString), true
	default:
		return Tag{}, false
	}
}

// Range is a half-open byte range [Start, End) in the decoded buffer.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int { return r.End - r.Start }

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// OID is an object identifier as its ordered arcs.
type OID []uint64

func (o OID) String() string {
	parts := make([]string, len(o))
	for i, a := range o {
		parts[i] = strconv.FormatUint(a, 10)
	}
	return strings.Join(parts, ".")
}

// Equal reports whether o and p have the same arcs.
func (o OID) Equal(p OID) bool {
	if len(o) != len(p) {
		return false
	}
	for i := range o {
		if o[i] != p[i] {
			return false
		}
	}
	return true
}

// ParseOID parses dotted notation such as "0.4.0.0.1.0.50.1".
func ParseOID(s string) (OID, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("ber: object identifier %q needs at least two arcs", s)
	}
	oid := make(OID, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ber: object identifier %q: %w", s, err)
		}
		oid[i] = v
	}
	return oid, nil
}

// BitString holds the bits of a BIT STRING, most significant bit first.
type BitString struct {
	Bytes     []byte
	BitLength int
	// Names labels bit positions; filled from the schema.
	Names []string
}

// Bit returns bit i. Bits past the encoded length are false.
func (b BitString) Bit(i int) bool {
	if i < 0 || i >= b.BitLength {
		return false
	}
	return b.Bytes[i/8]&(0x80>>uint(i%8)) != 0
}

// Named returns the value of the bit labelled name.
func (b BitString) Named(name string) bool {
	for i, n := range b.Names {
		if n == name {
			return b.Bit(i)
		}
	}
	return false
}

// Set returns the names of all set named bits, in bit order.
func (b BitString) Set() []string {
	var out []string
	for i, n := range b.Names {
		if n != "" && b.Bit(i) {
			out = append(out, n)
		}
	}
	return out
}

// Field is one named member of a structured value.
type Field struct {
	Name  string
	Value Value
}

// Value is one decoded element. Only the members matching Kind are set.
// Bytes for octet strings and raw elements are borrowed from the input.
type Value struct {
	Kind  Kind
	Tag   Tag
	Range Range

	Int    int64
	Bool   bool
	Bytes  []byte
	OID    OID
	Bits   BitString
	Fields []Field
	Items  []Value
	// Err is set on KindMalformed markers.
	Err error
}

// Field returns the member called name of a sequence, choice or delegated value.
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Lookup follows names through nested fields. Choice values are entered
// transparently when the name does not match their alternative.
func (v Value) Lookup(names ...string) (Value, bool) {
	cur := v
	for _, name := range names {
		next, ok := cur.Field(name)
		if !ok && cur.Kind == KindChoice && len(cur.Fields) == 1 {
			next, ok = cur.Fields[0].Value.Field(name)
		}
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Alternative returns the selected member of a choice value.
func (v Value) Alternative() (Field, bool) {
	if v.Kind != KindChoice || len(v.Fields) != 1 {
		return Field{}, false
	}
	return v.Fields[0], true
}

// Present reports whether v holds a decoded element.
func (v Value) Present() bool { return v.Kind != KindInvalid }

func (v Value) String() string {
	switch v.Kind {
	case KindInteger, KindEnumerated:
		return strconv.FormatInt(v.Int, 10)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindOctetString, KindRaw:
		return hex.EncodeToString(v.Bytes)
	case KindOID:
		return v.OID.String()
	case KindNull:
		return "NULL"
	case KindBitString:
		if set := v.Bits.Set(); len(set) > 0 {
			return "{" + strings.Join(set, ",") + "}"
		}
		return fmt.Sprintf("'%s'H/%d", hex.EncodeToString(v.Bits.Bytes), v.Bits.BitLength)
	case KindDelegated:
		return hex.EncodeToString(v.Bytes)
	case KindText:
		return strconv.Quote(string(v.Bytes))
	case KindMalformed:
		if v.Err != nil {
			return "malformed: " + v.Err.Error()
		}
		return "malformed"
	case KindSequence, KindChoice:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = f.Name + ": " + f.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindList:
		parts := make([]string, len(v.Items))
		for i, it := range v.Items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<" + v.Kind.String() + ">"
	}
}

type jsonValue struct {
	Kind   string      `json:"kind"`
	Tag    string      `json:"tag,omitempty"`
	Start  int         `json:"start"`
	End    int         `json:"end"`
	Value  any         `json:"value,omitempty"`
	Fields []jsonField `json:"fields,omitempty"`
	Items  []Value     `json:"items,omitempty"`
	Bits   []string    `json:"bits,omitempty"`
	Error  string      `json:"error,omitempty"`
}

type jsonField struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// MarshalJSON renders v as a self-describing tree.
func (v Value) MarshalJSON() ([]byte, error) {
	out := jsonValue{
		Kind:  v.Kind.String(),
		Start: v.Range.Start,
		End:   v.Range.End,
	}
	if v.Tag != (Tag{}) {
		out.Tag = v.Tag.String()
	}
	switch v.Kind {
	case KindInteger, KindEnumerated:
		out.Value = v.Int
	case KindBoolean:
		out.Value = v.Bool
	case KindOctetString, KindRaw, KindDelegated:
		out.Value = hex.EncodeToString(v.Bytes)
	case KindOID:
		out.Value = v.OID.String()
	case KindText:
		out.Value = string(v.Bytes)
	case KindBitString:
		out.Value = hex.EncodeToString(v.Bits.Bytes)
		out.Bits = v.Bits.Set()
	case KindMalformed:
		if v.Err != nil {
			out.Error = v.Err.Error()
		}
	case KindList:
		out.Items = v.Items
	}
	for _, f := range v.Fields {
		out.Fields = append(out.Fields, jsonField{Name: f.Name, Value: f.Value})
	}
	return json.Marshal(out)
}
