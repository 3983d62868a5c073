package tcap

import (
	"errors"
	"testing"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/decode"
	"github.com/danmuck/camelwire/internal/protocol/ros"
	"github.com/danmuck/camelwire/internal/protocol/schema"
	"github.com/danmuck/camelwire/internal/testutil/bertest"
	"github.com/danmuck/camelwire/internal/testutil/testlog"
)

var testACN = ber.OID{0, 4, 0, 0, 1, 0, 50, 1}

func app(n byte) byte  { return 0x60 | n }
func appP(n byte) byte { return 0x40 | n }

func testProtocol(name, op string) *ros.Protocol {
	arg := schema.Must(schema.Sequence("Arg", schema.Field("a", schema.Integer())))
	return &ros.Protocol{
		Name:      name,
		Arguments: ros.MustDispatchTable(name+"-arguments", ros.Register(ros.Local(0), op, arg)),
	}
}

func invoke(id, op, a int64) []byte {
	return bertest.TLV(bertest.CtxC(1), bertest.Int(id), bertest.Int(op), bertest.Seq(bertest.Int(a)))
}

func dialogueRequest(acn ber.OID) []byte {
	arcs := make([]uint64, len(acn))
	for i, a := range acn {
		arcs[i] = uint64(a)
	}
	aarq := bertest.TLV(app(0),
		bertest.TLV(bertest.Ctx(0), []byte{0x07, 0x80}),
		bertest.TLV(bertest.CtxC(1), bertest.ObjectID(arcs...)),
	)
	return dialoguePortion(aarq)
}

func dialoguePortion(pdu []byte) []byte {
	ext := bertest.TLV(0x28,
		bertest.ObjectID(0, 0, 17, 773, 1, 1, 1),
		bertest.TLV(bertest.CtxC(0), pdu),
	)
	return bertest.TLV(app(11), ext)
}

func otidTLV(b ...byte) []byte { return bertest.TLV(appP(8), b) }
func dtidTLV(b ...byte) []byte { return bertest.TLV(appP(9), b) }

func components(cs ...[]byte) []byte { return bertest.TLV(app(12), cs...) }

func TestDecodeBeginWithDialogue(t *testing.T) {
	testlog.Start(t)
	rd := ros.New(nil, testProtocol("camel", "opA"))
	d := New(rd, WithLogger(testlog.Logger(t)))
	broken := bertest.TLV(bertest.CtxC(1), bertest.Int(2))
	buf := bertest.TLV(app(2),
		otidTLV(1, 2, 3, 4),
		dialogueRequest(testACN),
		components(invoke(1, 0, 5), broken, invoke(3, 0, 6)),
	)
	sink := &decode.Collector{}

	msg, n, err := d.Decode(buf, sink)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("consumed %d of %d", n, len(buf))
	}
	if msg.Type != TypeBegin || string(msg.OTID) != "\x01\x02\x03\x04" || msg.DTID != nil {
		t.Fatalf("transaction ids %s %x %x", msg.Type, msg.OTID, msg.DTID)
	}
	if msg.Dialogue == nil || msg.Dialogue.PDU != PDURequest || !msg.Dialogue.Version1 {
		t.Fatalf("dialogue %+v", msg.Dialogue)
	}
	if !msg.Dialogue.AbstractSyntax.Equal(DialogueAsID) || !msg.ApplicationContext().Equal(testACN) {
		t.Fatalf("dialogue oids %s %s", msg.Dialogue.AbstractSyntax, msg.ApplicationContext())
	}
	if len(msg.Components) != 3 || len(msg.ComponentErrors) != 3 {
		t.Fatalf("got %d components", len(msg.Components))
	}
	if msg.Components[0].Status != ros.StatusDecoded || msg.Components[2].Status != ros.StatusDecoded {
		t.Fatalf("siblings of a broken component must decode: %s %s",
			msg.Components[0].Status, msg.Components[2].Status)
	}
	if msg.Components[1].Status != ros.StatusFailed || msg.ComponentErrors[1] == nil {
		t.Fatalf("broken component %s %v", msg.Components[1].Status, msg.ComponentErrors[1])
	}
	if !errors.Is(msg.Err(), ber.ErrMissingRequiredField) {
		t.Fatalf("message error %v", msg.Err())
	}
	if !msg.Components[0].Context.ApplicationContext.Equal(testACN) {
		t.Fatalf("application context not threaded to components")
	}
	if ev, ok := sink.Find("begin.components[2].invoke.opA.a"); !ok || ev.Value.Int != 6 {
		t.Fatalf("payload path missing: %v", sink.Paths())
	}
}

func TestDecodeApplicationContextSelectsProtocol(t *testing.T) {
	testlog.Start(t)
	other := testProtocol("other", "otherOp")
	rd := ros.New(nil, testProtocol("camel", "opA"), ros.WithApplicationContext(testACN, other))
	d := New(rd)

	begin := bertest.TLV(app(2), otidTLV(1), dialogueRequest(testACN), components(invoke(1, 0, 1)))
	msg, _, err := d.Decode(begin, nil)
	if err != nil || msg.Components[0].OperationName != "otherOp" {
		t.Fatalf("begin: %q %v", msg.Components[0].OperationName, err)
	}

	cont := bertest.TLV(app(5), otidTLV(2), dtidTLV(1), components(invoke(2, 0, 1)))
	msg, _, err = d.Decode(cont, nil)
	if err != nil || msg.Components[0].OperationName != "opA" {
		t.Fatalf("continue without context: %q %v", msg.Components[0].OperationName, err)
	}
	msg, _, err = d.DecodeMessage(ros.DecodeContext{ApplicationContext: testACN}, cont, 0, nil)
	if err != nil || msg.Components[0].OperationName != "otherOp" {
		t.Fatalf("continue with known context: %q %v", msg.Components[0].OperationName, err)
	}
	if msg.Type != TypeContinue || len(msg.OTID) != 1 || len(msg.DTID) != 1 {
		t.Fatalf("continue ids %x %x", msg.OTID, msg.DTID)
	}
}

func TestDecodeEndWithDialogueResponse(t *testing.T) {
	testlog.Start(t)
	aare := bertest.TLV(app(1),
		bertest.TLV(bertest.CtxC(1), bertest.ObjectID(0, 4, 0, 0, 1, 0, 50, 1)),
		bertest.TLV(bertest.CtxC(2), bertest.Int(0)),
		bertest.TLV(bertest.CtxC(3), bertest.TLV(bertest.CtxC(1), bertest.Int(0))),
	)
	buf := bertest.TLV(app(4), dtidTLV(9, 9), dialoguePortion(aare))

	msg, _, err := New(nil).Decode(buf, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	dlg := msg.Dialogue
	if msg.Type != TypeEnd || dlg == nil || dlg.PDU != PDUResponse {
		t.Fatalf("got %s %+v", msg.Type, dlg)
	}
	if dlg.Result == nil || *dlg.Result != 0 {
		t.Fatalf("result %v", dlg.Result)
	}
	if dlg.Diagnostic == nil || dlg.Diagnostic.Source != "dialogueServiceUser" || dlg.Diagnostic.Code != 0 {
		t.Fatalf("diagnostic %+v", dlg.Diagnostic)
	}
	if len(msg.Components) != 0 {
		t.Fatalf("end without components decoded %d", len(msg.Components))
	}
}

func TestDecodeAbort(t *testing.T) {
	testlog.Start(t)
	buf := bertest.TLV(app(7), dtidTLV(1, 2), bertest.TLV(appP(10), bertest.IntContent(1)))
	msg, _, err := New(nil).Decode(buf, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != TypeAbort || msg.PAbortCause == nil || *msg.PAbortCause != 1 {
		t.Fatalf("got %s %v", msg.Type, msg.PAbortCause)
	}

	abrt := bertest.TLV(app(4), bertest.TLV(bertest.Ctx(0), bertest.IntContent(1)))
	buf = bertest.TLV(app(7), dtidTLV(1, 2), dialoguePortion(abrt))
	msg, _, err = New(nil).Decode(buf, nil)
	if err != nil {
		t.Fatalf("decode user abort: %v", err)
	}
	if msg.UserAbort == nil || msg.UserAbort.PDU != PDUAbort || *msg.UserAbort.AbortSource != 1 {
		t.Fatalf("user abort %+v", msg.UserAbort)
	}
}

func TestDecodeIndefiniteBegin(t *testing.T) {
	testlog.Start(t)
	d := New(ros.New(nil, testProtocol("camel", "opA")))
	buf := bertest.Indefinite(app(2), otidTLV(7), components(invoke(1, 0, 42)))
	msg, n, err := d.Decode(buf, nil)
	if err != nil || n != len(buf) {
		t.Fatalf("consumed %d of %d: %v", n, len(buf), err)
	}
	if len(msg.Components) != 1 || msg.Components[0].Status != ros.StatusDecoded {
		t.Fatalf("components %+v", msg.Components)
	}
}

func TestDecodeMalformedTransaction(t *testing.T) {
	testlog.Start(t)
	buf := bertest.TLV(app(2), components(invoke(1, 0, 1)))
	msg, _, err := New(nil).Decode(buf, nil)
	if !errors.Is(err, ber.ErrMissingRequiredField) {
		t.Fatalf("expected missing otid, got %v", err)
	}
	if msg.Type != TypeBegin || len(msg.Components) != 0 {
		t.Fatalf("got %s with %d components", msg.Type, len(msg.Components))
	}

	_, _, err = New(nil).Decode(bertest.TLV(app(3), otidTLV(1)), nil)
	if k, _ := ber.KindOf(err); k != ber.UnrecognizedChoiceTag {
		t.Fatalf("unknown message type: %v", err)
	}
}
