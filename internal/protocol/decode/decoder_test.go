package decode

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/schema"
	"github.com/danmuck/camelwire/internal/testutil/bertest"
	"github.com/danmuck/camelwire/internal/testutil/testlog"
)

func pairSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Sequence("Pair",
		schema.Field("field1", schema.Integer()),
		schema.Field("field2", schema.Integer()).Implicit(ber.Context(0)).Optional(),
	)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return s
}

func mustInt(t *testing.T, v ber.Value, names ...string) int64 {
	t.Helper()
	f, ok := v.Lookup(names...)
	if !ok {
		t.Fatalf("field %s absent in %s", strings.Join(names, "."), v)
	}
	if f.Kind != ber.KindInteger && f.Kind != ber.KindEnumerated {
		t.Fatalf("field %s is %s", strings.Join(names, "."), f.Kind)
	}
	return f.Int
}

func TestDecodeSequenceWithContextField(t *testing.T) {
	testlog.Start(t)
	buf := bertest.Hex(t, "30 06 02 01 05 80 01 2A")
	sink := &Collector{}
	v, n, err := New().Decode(pairSchema(t), buf, sink)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 8 {
		t.Fatalf("consumed %d, want 8", n)
	}
	if mustInt(t, v, "field1") != 5 || mustInt(t, v, "field2") != 42 {
		t.Fatalf("unexpected value %s", v)
	}
	if v.String() != "{field1: 5, field2: 42}" {
		t.Fatalf("unexpected rendering %q", v.String())
	}
	paths := sink.Paths()
	if len(paths) != 3 || paths[0] != "field1" || paths[1] != "field2" || paths[2] != "" {
		t.Fatalf("unexpected report order %v", paths)
	}
	ev, _ := sink.Find("field2")
	if ev.Range != (ber.Range{Start: 5, End: 8}) || ev.Value.Tag != ber.Context(0) {
		t.Fatalf("unexpected field2 event %+v", ev)
	}
}

func TestDecodeOptionalOmittedFirst(t *testing.T) {
	testlog.Start(t)
	s := schema.Must(schema.Sequence("FirstOptional",
		schema.Field("a", schema.Integer()).Implicit(ber.Context(0)).Optional(),
		schema.Field("b", schema.Integer()),
	))
	buf := bertest.Seq(bertest.Int(7))
	v, n, err := Decode(s, buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d of %d", n, len(buf))
	}
	if _, ok := v.Field("a"); ok {
		t.Fatalf("a should be absent")
	}
	if mustInt(t, v, "b") != 7 {
		t.Fatalf("unexpected b in %s", v)
	}
}

func TestDecodeOptionalOmittedLast(t *testing.T) {
	testlog.Start(t)
	buf := bertest.Seq(bertest.Int(5))
	v, n, err := Decode(pairSchema(t), buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(buf) || len(v.Fields) != 1 {
		t.Fatalf("consumed %d fields %d", n, len(v.Fields))
	}
	if _, ok := v.Field("field2"); ok {
		t.Fatalf("field2 should be absent")
	}
}

func TestDecodeImplicitTagOverride(t *testing.T) {
	testlog.Start(t)
	f := schema.Field("n", schema.Integer()).Implicit(ber.Context(2))
	d := New()

	v, n, err := d.DecodeField(f, bertest.Hex(t, "82 01 05"), 0, nil, nil)
	if err != nil || n != 3 || v.Int != 5 || v.Kind != ber.KindInteger {
		t.Fatalf("context-tagged integer: %s %d %v", v, n, err)
	}

	_, _, err = d.DecodeField(f, bertest.Hex(t, "02 01 05"), 0, nil, nil)
	if !errors.Is(err, ber.ErrUnrecognizedChoiceTag) {
		t.Fatalf("universal integer: expected ErrUnrecognizedChoiceTag, got %v", err)
	}

	s := schema.Must(schema.Sequence("Wrapped", f))
	_, _, err = d.Decode(s, bertest.Seq(bertest.Int(5)), nil)
	if !errors.Is(err, ber.ErrMissingRequiredField) {
		t.Fatalf("universal integer in sequence: expected ErrMissingRequiredField, got %v", err)
	}
}

func TestDecodeExplicitTagging(t *testing.T) {
	testlog.Start(t)
	s := schema.Must(schema.Sequence("Leg",
		schema.Field("leg", schema.Integer()).Explicit(ber.Context(1)),
	))

	buf := bertest.Seq(bertest.TLV(bertest.CtxC(1), bertest.Int(2)))
	v, n, err := Decode(s, buf)
	if err != nil || n != len(buf) {
		t.Fatalf("decode: %d %v", n, err)
	}
	leg, _ := v.Field("leg")
	if leg.Int != 2 || leg.Tag != ber.Context(1) || leg.Range != (ber.Range{Start: 2, End: 7}) {
		t.Fatalf("unexpected leg %+v", leg)
	}

	_, _, err = Decode(s, bertest.Seq(bertest.TLV(bertest.Ctx(1), bertest.IntContent(2))))
	if !errors.Is(err, ber.ErrFormMismatch) {
		t.Fatalf("primitive wrapper: expected ErrFormMismatch, got %v", err)
	}

	_, _, err = Decode(s, bertest.Seq(bertest.TLV(bertest.CtxC(1), bertest.Int(2), bertest.Int(3))))
	if !errors.Is(err, ber.ErrUnexpectedField) {
		t.Fatalf("two values in wrapper: expected ErrUnexpectedField, got %v", err)
	}

	_, _, err = Decode(s, bertest.Seq(bertest.TLV(bertest.CtxC(1), bertest.TLV(bertest.OctetString, []byte{1}))))
	if !errors.Is(err, ber.ErrUnrecognizedChoiceTag) {
		t.Fatalf("wrong inner tag: expected ErrUnrecognizedChoiceTag, got %v", err)
	}
}

func TestDecodeChoice(t *testing.T) {
	testlog.Start(t)
	code := schema.Must(schema.Choice("Code",
		schema.Field("local", schema.Integer()),
		schema.Field("global", schema.OID()),
	))
	sink := &Collector{}
	v, n, err := New().Decode(code, bertest.Int(24), sink)
	if err != nil || n != 3 {
		t.Fatalf("decode local: %d %v", n, err)
	}
	alt, ok := v.Alternative()
	if !ok || alt.Name != "local" || alt.Value.Int != 24 {
		t.Fatalf("unexpected choice %s", v)
	}
	if paths := sink.Paths(); len(paths) != 2 || paths[0] != "local" || paths[1] != "" {
		t.Fatalf("unexpected report order %v", paths)
	}

	buf := bertest.ObjectID(0, 4, 0, 0, 1, 0, 50, 1)
	v, n, err = Decode(code, buf)
	if err != nil || n != len(buf) {
		t.Fatalf("decode global: %d %v", n, err)
	}
	if g, _ := v.Lookup("global"); g.OID.String() != "0.4.0.0.1.0.50.1" {
		t.Fatalf("unexpected global %s", g)
	}

	_, _, err = Decode(code, bertest.TLV(bertest.Null))
	if !errors.Is(err, ber.ErrUnrecognizedChoiceTag) {
		t.Fatalf("expected ErrUnrecognizedChoiceTag, got %v", err)
	}
}

func TestDecodeChoiceInsideSequence(t *testing.T) {
	testlog.Start(t)
	leg := schema.Must(schema.Choice("LegID",
		schema.Field("sendingSideID", schema.OctetString()).Implicit(ber.Context(0)),
		schema.Field("receivingSideID", schema.OctetString()).Implicit(ber.Context(1)),
	))
	s := schema.Must(schema.Sequence("Event",
		schema.Field("eventType", schema.Enumerated()).Implicit(ber.Context(0)),
		schema.Field("legID", leg).Explicit(ber.Context(2)).Optional(),
	))
	buf := bertest.Seq(
		bertest.TLV(bertest.Ctx(0), []byte{0x07}),
		bertest.TLV(bertest.CtxC(2), bertest.TLV(bertest.Ctx(1), []byte{0x02})),
	)
	sink := &Collector{}
	v, n, err := New().Decode(s, buf, sink)
	if err != nil || n != len(buf) {
		t.Fatalf("decode: %d %v", n, err)
	}
	side, ok := v.Lookup("legID", "receivingSideID")
	if !ok || len(side.Bytes) != 1 || side.Bytes[0] != 0x02 {
		t.Fatalf("unexpected leg %s", v)
	}
	if _, ok := sink.Find("legID.receivingSideID"); !ok {
		t.Fatalf("alternative not reported: %v", sink.Paths())
	}
}

func TestDecodeSequenceOfIsolatesMalformedElement(t *testing.T) {
	testlog.Start(t)
	s := schema.Must(schema.SequenceOf("Ints", schema.Integer()))
	buf := bertest.Seq(bertest.Int(1), bertest.TLV(bertest.Integer), bertest.Int(3))
	sink := &Collector{}
	v, _, err := New().Decode(s, buf, sink)
	if !errors.Is(err, ber.ErrEmptyInteger) {
		t.Fatalf("expected ErrEmptyInteger, got %v", err)
	}
	if len(v.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(v.Items))
	}
	if v.Items[0].Int != 1 || v.Items[2].Int != 3 {
		t.Fatalf("siblings of malformed element lost: %s", v)
	}
	if v.Items[1].Kind != ber.KindMalformed || v.Items[1].Range != (ber.Range{Start: 5, End: 7}) {
		t.Fatalf("expected malformed marker, got %+v", v.Items[1])
	}
	bad := sink.Malformed()
	if len(bad) != 1 || bad[0].Path != "[1]" {
		t.Fatalf("unexpected malformed reports %+v", bad)
	}
	var de *ber.DecodeError
	if !errors.As(err, &de) || de.Path != "[1]" || de.Offset != 7 {
		t.Fatalf("unexpected error location %+v", de)
	}
}

func TestDecodeSetOfKeepsOrder(t *testing.T) {
	testlog.Start(t)
	s := schema.Must(schema.SetOf("Set", schema.Integer()))
	buf := bertest.TLV(bertest.Set, bertest.Int(9), bertest.Int(-1), bertest.Int(300))
	v, n, err := Decode(s, buf)
	if err != nil || n != len(buf) {
		t.Fatalf("decode: %d %v", n, err)
	}
	want := []int64{9, -1, 300}
	for i, it := range v.Items {
		if it.Int != want[i] {
			t.Fatalf("item %d: got %d want %d", i, it.Int, want[i])
		}
	}
}

func TestDecodeIndefiniteLength(t *testing.T) {
	testlog.Start(t)
	buf := bertest.Indefinite(bertest.Sequence, bertest.Int(5), bertest.TLV(bertest.Ctx(0), []byte{0x2a}))
	buf = append(buf, 0xff)
	v, n, err := Decode(pairSchema(t), buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(buf)-1 {
		t.Fatalf("consumed %d, want %d", n, len(buf)-1)
	}
	if mustInt(t, v, "field2") != 42 {
		t.Fatalf("unexpected value %s", v)
	}
}

func TestDecodeIndefiniteChoiceAlternative(t *testing.T) {
	testlog.Start(t)
	inner := schema.Must(schema.Sequence("Inner", schema.Field("x", schema.Integer())))
	c := schema.Must(schema.Choice("C", schema.Field("inner", inner).Implicit(ber.Context(3))))
	buf := bertest.Indefinite(bertest.CtxC(3), bertest.Int(4))
	v, n, err := Decode(c, buf)
	if err != nil || n != len(buf) {
		t.Fatalf("decode: %d %v", n, err)
	}
	if mustInt(t, v, "inner", "x") != 4 {
		t.Fatalf("unexpected value %s", v)
	}
}

func TestDecodeTruncationKeepsDecodedSiblings(t *testing.T) {
	testlog.Start(t)
	// field2 declares four content octets but only one remains.
	buf := bertest.Hex(t, "30 06 02 01 05 80 04 2A")
	sink := &Collector{}
	v, off, err := New().Decode(pairSchema(t), buf, sink)
	if !errors.Is(err, ber.ErrLengthOverflow) {
		t.Fatalf("expected ErrLengthOverflow, got %v", err)
	}
	if off != 5 {
		t.Fatalf("failure offset %d, want 5", off)
	}
	if mustInt(t, v, "field1") != 5 {
		t.Fatalf("decoded sibling lost: %s", v)
	}
	if _, ok := sink.Find("field1"); !ok {
		t.Fatalf("field1 not reported before failure")
	}
	if len(sink.Malformed()) != 1 {
		t.Fatalf("expected one malformed marker, got %v", sink.Paths())
	}
}

func TestDecodeMissingRequiredAtEnd(t *testing.T) {
	testlog.Start(t)
	s := schema.Must(schema.Sequence("Two",
		schema.Field("a", schema.Integer()),
		schema.Field("b", schema.Boolean()),
	))
	_, _, err := Decode(s, bertest.Seq(bertest.Int(1)))
	if !errors.Is(err, ber.ErrMissingRequiredField) {
		t.Fatalf("expected ErrMissingRequiredField, got %v", err)
	}
	if k, _ := ber.KindOf(err); !k.Structural() {
		t.Fatalf("expected a structural error kind, got %s", k)
	}
}

func TestDecodeUnexpectedAndExtensible(t *testing.T) {
	testlog.Start(t)
	fields := []schema.FieldSpec{schema.Field("a", schema.Integer())}
	closed := schema.Must(schema.Sequence("Closed", fields...))
	open := schema.Must(schema.ExtensibleSequence("Open", fields...))
	buf := bertest.Seq(bertest.Int(1), bertest.TLV(bertest.Ctx(9), []byte{0xaa, 0xbb}))

	if _, _, err := Decode(closed, buf); !errors.Is(err, ber.ErrUnexpectedField) {
		t.Fatalf("closed: expected ErrUnexpectedField, got %v", err)
	}
	v, n, err := Decode(open, buf)
	if err != nil || n != len(buf) {
		t.Fatalf("open: %d %v", n, err)
	}
	unknown, ok := v.Field("unknown")
	if !ok || unknown.Kind != ber.KindRaw || unknown.Tag != ber.Context(9) || len(unknown.Bytes) != 4 {
		t.Fatalf("unexpected unknown element %+v", unknown)
	}
}

func TestDecodeDelegate(t *testing.T) {
	testlog.Start(t)
	digits := DelegateFunc(func(raw []byte) ([]ber.Field, int, error) {
		return []ber.Field{{
			Name:  "nature",
			Value: ber.Value{Kind: ber.KindInteger, Int: int64(raw[0] & 0x7f), Range: ber.Range{Start: 0, End: 1}},
		}}, 1, nil
	})
	s := schema.Must(schema.Sequence("Arg",
		schema.Field("number", schema.Delegated("digits")).Implicit(ber.Context(2)),
	))
	buf := bertest.Seq(bertest.TLV(bertest.Ctx(2), []byte{0x83, 0x10, 0x32}))
	sink := &Collector{}
	v, n, err := New(WithDelegate("digits", digits)).Decode(s, buf, sink)
	if err != nil || n != len(buf) {
		t.Fatalf("decode: %d %v", n, err)
	}
	num, _ := v.Field("number")
	if num.Kind != ber.KindDelegated || len(num.Bytes) != 3 {
		t.Fatalf("unexpected delegated value %+v", num)
	}
	nature, ok := num.Field("nature")
	if !ok || nature.Int != 3 || nature.Range != (ber.Range{Start: 4, End: 5}) {
		t.Fatalf("unexpected nature %+v", nature)
	}
	trailing, ok := num.Field("trailing")
	if !ok || trailing.Range != (ber.Range{Start: 5, End: 7}) {
		t.Fatalf("unexpected trailing %+v", trailing)
	}
	if _, ok := sink.Find("number.nature"); !ok {
		t.Fatalf("delegate field not reported: %v", sink.Paths())
	}

	// Without a registration the octets are kept as they are.
	v, _, err = Decode(s, buf)
	if err != nil {
		t.Fatalf("decode without delegate: %v", err)
	}
	if num, _ := v.Field("number"); num.Kind != ber.KindDelegated || len(num.Fields) != 0 {
		t.Fatalf("unexpected undelegated value %+v", num)
	}
}

func TestDecodeDelegateFailureIsIsolated(t *testing.T) {
	testlog.Start(t)
	greedy := DelegateFunc(func(raw []byte) ([]ber.Field, int, error) { return nil, len(raw) + 1, nil })
	s := schema.Must(schema.Sequence("Arg",
		schema.Field("number", schema.Delegated("greedy")).Implicit(ber.Context(2)),
		schema.Field("key", schema.Integer()),
	))
	buf := bertest.Seq(bertest.TLV(bertest.Ctx(2), []byte{0x01}), bertest.Int(11))
	v, _, err := New(WithDelegate("greedy", greedy), WithLogger(testlog.Logger(t))).Decode(s, buf, nil)
	if err != nil {
		t.Fatalf("delegate failure must not abort the sequence: %v", err)
	}
	bad, ok := v.Lookup("number", "malformed")
	if !ok || !errors.Is(bad.Err, ber.ErrDelegateFailed) {
		t.Fatalf("expected delegate failure marker, got %+v", bad)
	}
	if mustInt(t, v, "key") != 11 {
		t.Fatalf("sibling lost: %s", v)
	}
}

func TestDecodeNestingLimit(t *testing.T) {
	testlog.Start(t)
	leaf := schema.Must(schema.Sequence("C", schema.Field("d", schema.Integer())))
	mid := schema.Must(schema.Sequence("B", schema.Field("c", leaf)))
	root := schema.Must(schema.Sequence("A", schema.Field("b", mid)))
	buf := bertest.Seq(bertest.Seq(bertest.Seq(bertest.Int(1))))

	if _, _, err := New(WithMaxDepth(2)).Decode(root, buf, nil); !errors.Is(err, ber.ErrNestingTooDeep) {
		t.Fatalf("expected ErrNestingTooDeep, got %v", err)
	}
	if _, _, err := New(WithMaxDepth(3)).Decode(root, buf, nil); err != nil {
		t.Fatalf("depth 3: %v", err)
	}
}

func TestDecodeNamedBits(t *testing.T) {
	testlog.Start(t)
	s := schema.Must(schema.Sequence("Flags",
		schema.Field("phases", schema.BitString("phase1", "phase2", "phase3", "phase4")).Implicit(ber.Context(0)),
	))
	v, _, err := Decode(s, bertest.Seq(bertest.TLV(bertest.Ctx(0), []byte{0x05, 0x60})))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	phases, _ := v.Field("phases")
	if phases.Bits.Named("phase1") || !phases.Bits.Named("phase2") || !phases.Bits.Named("phase3") || phases.Bits.Named("phase4") {
		t.Fatalf("unexpected bits %s", phases)
	}
}

func TestDecodeAtOffset(t *testing.T) {
	testlog.Start(t)
	buf := append([]byte{0xde, 0xad}, bertest.Seq(bertest.Int(5))...)
	v, end, err := New().DecodeAt(pairSchema(t), buf, 2, FieldPath{"arg"}, nil)
	if err != nil || end != len(buf) {
		t.Fatalf("decode at 2: %d %v", end, err)
	}
	if v.Range != (ber.Range{Start: 2, End: len(buf)}) {
		t.Fatalf("unexpected range %s", v.Range)
	}
}

func TestFieldPathString(t *testing.T) {
	testlog.Start(t)
	p := FieldPath{"invoke"}.Child("argument").Child("bcsmEvents").Index(0).Child("legID")
	if got := p.String(); got != "invoke.argument.bcsmEvents[0].legID" {
		t.Fatalf("got %q", got)
	}
}

func TestSchemaDelegateDecodesNestedEncoding(t *testing.T) {
	testlog.Start(t)
	nested := SchemaDelegate(pairSchema(t), nil)
	s := schema.Must(schema.Sequence("Arg",
		schema.Field("pair", schema.Delegated("pair")).Implicit(ber.Context(0)),
		schema.Field("key", schema.Integer()),
	))
	inner := bertest.Seq(bertest.Int(4), bertest.TLV(bertest.Ctx(0), []byte{0x09}))
	buf := bertest.Seq(bertest.TLV(bertest.Ctx(0), inner), bertest.Int(1))
	sink := &Collector{}
	v, _, err := New(WithDelegate("pair", nested)).Decode(s, buf, sink)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mustInt(t, v, "pair", "Pair", "field2") != 9 {
		t.Fatalf("nested field2 in %s", v)
	}
	f1, _ := v.Lookup("pair", "Pair", "field1")
	if f1.Range.Start != 6 {
		t.Fatalf("nested range %s not shifted", f1.Range)
	}
	if _, ok := sink.Find("pair.Pair"); !ok {
		t.Fatalf("paths %v", sink.Paths())
	}

	bad := bertest.Seq(bertest.TLV(bertest.Ctx(0), []byte{0x30, 0x09, 0x02}), bertest.Int(1))
	v, _, err = New(WithDelegate("pair", nested)).Decode(s, bad, nil)
	if err != nil {
		t.Fatalf("nested failure must stay inside the field: %v", err)
	}
	if m, ok := v.Lookup("pair", "malformed"); !ok || !errors.Is(m.Err, ber.ErrDelegateFailed) {
		t.Fatalf("expected delegate failure, got %+v", m)
	}
	if mustInt(t, v, "key") != 1 {
		t.Fatalf("sibling lost: %s", v)
	}
}

func TestPrefixedSink(t *testing.T) {
	testlog.Start(t)
	c := &Collector{}
	s := Prefixed(FieldPath{"begin", "components"}.Index(1), c)
	buf := bertest.Seq(bertest.Int(5))
	if _, _, err := New().Decode(pairSchema(t), buf, s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := c.Find("begin.components[1].field1"); !ok {
		t.Fatalf("paths %v", c.Paths())
	}
	if Prefixed(nil, c) != Sink(c) {
		t.Fatalf("empty prefix should return the sink itself")
	}
	Prefixed(FieldPath{"x"}, nil).Report(FieldPath{"y"}, ber.Value{}, ber.Range{})
}
