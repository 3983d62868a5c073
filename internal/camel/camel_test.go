package camel

import (
	"errors"
	"testing"

	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/decode"
	"github.com/danmuck/camelwire/internal/protocol/ros"
	"github.com/danmuck/camelwire/internal/testutil/bertest"
	"github.com/danmuck/camelwire/internal/testutil/testlog"
)

func invoke(id, op int64, arg []byte) []byte {
	return bertest.TLV(bertest.CtxC(1), bertest.Int(id), bertest.Int(op), arg)
}

func ctxLong(n uint32, content ...[]byte) []byte {
	return bertest.Wrap(bertest.Identifier(2, false, n), content...)
}

func TestPhaseTablesGrow(t *testing.T) {
	testlog.Start(t)
	wantArgs := map[Phase]int{Phase1: 7, Phase2: 22, Phase3: 45, Phase4: 54}
	wantErrs := map[Phase]int{Phase1: 8, Phase2: 15, Phase3: 16, Phase4: 17}
	var prev *ros.Protocol
	for p := Phase1; p <= Latest; p++ {
		proto := ProtocolFor(p)
		if proto == nil {
			t.Fatalf("%s has no tables", p)
		}
		if proto.Arguments.Len() != wantArgs[p] || proto.Errors.Len() != wantErrs[p] {
			t.Fatalf("%s: %d operations %d errors", p, proto.Arguments.Len(), proto.Errors.Len())
		}
		if prev != nil {
			for _, e := range prev.Arguments.Entries() {
				if _, ok := proto.Arguments.Lookup(e.Code); !ok {
					t.Fatalf("%s dropped %s", p, e.Name)
				}
			}
		}
		prev = proto
	}
	if ProtocolFor(0) != nil || ProtocolFor(Latest+1) != nil {
		t.Fatalf("unknown phases must have no tables")
	}
	if Protocol() != ProtocolFor(Phase4) {
		t.Fatalf("default protocol is not the latest phase")
	}

	if _, ok := ProtocolFor(Phase1).Arguments.Lookup(ros.Local(OpApplyCharging)); ok {
		t.Fatalf("applyCharging is not a phase 1 operation")
	}
	if _, ok := ProtocolFor(Phase3).Errors.Lookup(ros.Local(ErrorUnknownCSID)); ok {
		t.Fatalf("unknownCSID is not a phase 3 error")
	}
	e, ok := ProtocolFor(Phase3).Arguments.Lookup(ros.Local(OpInitialDPGPRS))
	if !ok || !e.IsUnparsed() {
		t.Fatalf("initialDPGPRS should be known and left raw: %+v", e)
	}
}

func TestParsePhase(t *testing.T) {
	testlog.Start(t)
	for in, want := range map[string]Phase{"1": Phase1, "phase2": Phase2, " Phase3 ": Phase3, "4": Phase4} {
		got, err := ParsePhase(in)
		if err != nil || got != want {
			t.Fatalf("%q: %v %v", in, got, err)
		}
	}
	if _, err := ParsePhase("5"); err == nil {
		t.Fatalf("phase 5 accepted")
	}
}

func TestPhaseOfApplicationContext(t *testing.T) {
	testlog.Start(t)
	seen := map[string]bool{}
	for _, c := range Contexts() {
		if seen[c.OID.String()] {
			t.Fatalf("duplicate context %s", c.OID)
		}
		seen[c.OID.String()] = true
		p, ok := PhaseOf(c.OID)
		if !ok || p != c.Phase {
			t.Fatalf("%s: phase %s", c.Name, p)
		}
	}
	if p, _ := PhaseOf(ber.OID{0, 4, 0, 0, 1, 0, 50, 1}); p != Phase2 {
		t.Fatalf("cap-v2 maps to %s", p)
	}
	if _, ok := PhaseOf(ber.OID{0, 4, 0, 0, 1, 0, 1, 3}); ok {
		t.Fatalf("MAP context mapped to a CAMEL phase")
	}
}

func TestNames(t *testing.T) {
	testlog.Start(t)
	if n, ok := OperationName(OpInitialDP); !ok || n != "initialDP" {
		t.Fatalf("initialDP named %q", n)
	}
	if n, ok := ErrorName(ErrorUnknownLegID); !ok || n != "unknownLegID" {
		t.Fatalf("unknownLegID named %q", n)
	}
	if _, ok := OperationName(1000); ok {
		t.Fatalf("unknown code named")
	}
}

func TestDecodeInitialDP(t *testing.T) {
	testlog.Start(t)
	arg := bertest.Seq(
		bertest.TLV(bertest.Ctx(0), bertest.IntContent(100)),
		bertest.TLV(bertest.Ctx(2), []byte{0x83, 0x10, 0x21, 0x43, 0x05}),
		bertest.TLV(bertest.Ctx(3), []byte{0x04, 0x13, 0x21, 0x43}),
		bertest.TLV(bertest.Ctx(28), []byte{0x02}),
		ctxLong(50, []byte{0x21, 0x43, 0x65, 0xf7}),
	)
	buf := invoke(1, OpInitialDP, arg)
	sink := &decode.Collector{}
	d := NewDecoder(Latest, ros.WithLogger(testlog.Logger(t)))

	c, n, err := d.Decode(buf, sink)
	if err != nil || n != len(buf) {
		t.Fatalf("consumed %d: %v", n, err)
	}
	if c.OperationName != "initialDP" || c.Status != ros.StatusDecoded {
		t.Fatalf("got %q %s", c.OperationName, c.Status)
	}
	if v, ok := c.Payload.Lookup("serviceKey"); !ok || v.Int != 100 {
		t.Fatalf("serviceKey %v", v)
	}
	if v, ok := c.Payload.Lookup("calledPartyNumber", "digits"); !ok || string(v.Bytes) != "12345" {
		t.Fatalf("called digits %v", v)
	}
	if v, ok := c.Payload.Lookup("callingPartyNumber", "digits"); !ok || string(v.Bytes) != "1234" {
		t.Fatalf("calling digits %v", v)
	}
	if v, ok := c.Payload.Lookup("eventTypeBCSM"); !ok || v.Int != 2 {
		t.Fatalf("eventTypeBCSM %v", v)
	}
	if v, ok := c.Payload.Lookup("iMSI", "digits"); !ok || string(v.Bytes) != "1234567" {
		t.Fatalf("imsi %v", v)
	}
	if _, ok := sink.Find("invoke.initialDP.calledPartyNumber.digits"); !ok {
		t.Fatalf("paths %v", sink.Paths())
	}
}

func TestDecodeApplyChargingByContext(t *testing.T) {
	testlog.Start(t)
	ach := bertest.TLV(bertest.CtxC(0), bertest.TLV(bertest.Ctx(0), bertest.IntContent(600)))
	arg := bertest.Seq(
		bertest.TLV(bertest.Ctx(0), ach),
		bertest.TLV(bertest.CtxC(2), bertest.TLV(bertest.Ctx(0), []byte{0x01})),
	)
	buf := invoke(2, OpApplyCharging, arg)
	d := NewDecoder(Phase1)

	c, _, err := d.Decode(buf, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !errors.Is(c.Notice, ber.ErrUnknownOperation) || c.Status != ros.StatusPartiallyDecoded {
		t.Fatalf("phase 1 should not know applyCharging: %s %v", c.Status, c.Notice)
	}

	dc := ros.DecodeContext{ApplicationContext: ber.OID{0, 4, 0, 0, 1, 0, 50, 1}}
	c, _, err = d.DecodeComponent(dc, buf, 0, nil)
	if err != nil || c.Status != ros.StatusDecoded {
		t.Fatalf("cap-v2: %s %v", c.Status, err)
	}
	v, ok := c.Payload.Lookup("aChBillingChargingCharacteristics", "CAMEL-AChBillingChargingCharacteristics",
		"timeDurationCharging", "maxCallPeriodDuration")
	if !ok || v.Int != 600 {
		t.Fatalf("maxCallPeriodDuration %v in %s", v, c.Payload)
	}
	if v.Range.Start <= c.Raw.Range.Start || v.Range.End > len(buf) {
		t.Fatalf("nested range %v not absolute", v.Range)
	}
}

func TestDecodeBrokenChargingCharacteristics(t *testing.T) {
	testlog.Start(t)
	arg := bertest.Seq(
		bertest.TLV(bertest.Ctx(0), []byte{0xa0, 0x05, 0x80}),
		bertest.TLV(bertest.CtxC(2), bertest.TLV(bertest.Ctx(0), []byte{0x01})),
	)
	c, _, err := NewDecoder(Latest).Decode(invoke(3, OpApplyCharging, arg), nil)
	if err != nil || c.Status != ros.StatusDecoded {
		t.Fatalf("nested failure must stay inside the field: %s %v", c.Status, err)
	}
	bad, ok := c.Payload.Lookup("aChBillingChargingCharacteristics", "malformed")
	if !ok || !errors.Is(bad.Err, ber.ErrDelegateFailed) {
		t.Fatalf("malformed marker %+v", bad)
	}
	if v, ok := c.Payload.Lookup("partyToCharge", "sendingSideID"); !ok || len(v.Bytes) != 1 {
		t.Fatalf("sibling lost: %v", v)
	}
}

func TestDecodeApplyChargingReport(t *testing.T) {
	testlog.Start(t)
	result := bertest.TLV(bertest.CtxC(0),
		bertest.TLV(bertest.CtxC(0), bertest.TLV(bertest.Ctx(1), []byte{0x02})),
		bertest.TLV(bertest.CtxC(1), bertest.TLV(bertest.Ctx(0), bertest.IntContent(300))),
		bertest.TLV(bertest.Ctx(2), []byte{0xff}),
	)
	buf := invoke(4, OpApplyChargingReport, bertest.TLV(bertest.OctetString, result))
	c, _, err := NewDecoder(Latest).Decode(buf, nil)
	if err != nil || c.Status != ros.StatusDecoded {
		t.Fatalf("decode: %s %v", c.Status, err)
	}
	root := []string{"CAMEL-CallResult", "timeDurationChargingResult"}
	if v, ok := c.Payload.Lookup(append(root, "timeInformation", "timeIfNoTariffSwitch")...); !ok || v.Int != 300 {
		t.Fatalf("timeIfNoTariffSwitch %v in %s", v, c.Payload)
	}
	if v, ok := c.Payload.Lookup(append(root, "legActive")...); !ok || !v.Bool {
		t.Fatalf("legActive %v", v)
	}
}

func TestDecodeErrorsAndResults(t *testing.T) {
	testlog.Start(t)
	d := NewDecoder(Latest)

	c, _, err := d.Decode(bertest.TLV(bertest.CtxC(3), bertest.Int(1), bertest.Int(ErrorSystemFailure), bertest.Enum(3)), nil)
	if err != nil || c.ErrorName != "systemFailure" || c.Payload.Int != 3 {
		t.Fatalf("systemFailure: %q %v %v", c.ErrorName, c.Payload, err)
	}

	param := bertest.Seq(bertest.TLV(bertest.Ctx(0), []byte{0x01}), bertest.TLV(bertest.Ctx(1), []byte{0x07}))
	c, _, err = d.Decode(bertest.TLV(bertest.CtxC(3), bertest.Int(1), bertest.Int(ErrorCancelFailed), param), nil)
	if err != nil || c.ErrorName != "cancelFailed" {
		t.Fatalf("cancelFailed: %q %v", c.ErrorName, err)
	}
	if v, _ := c.Payload.Lookup("operation"); v.Int != 7 {
		t.Fatalf("cancelFailed operation %v", v)
	}

	res := bertest.Seq(bertest.Int(OpPromptAndCollectUserInformation), bertest.TLV(bertest.Ctx(0), []byte{0x01, 0x02}))
	c, _, err = d.Decode(bertest.TLV(bertest.CtxC(2), bertest.Int(5), res), nil)
	if err != nil || c.Status != ros.StatusDecoded {
		t.Fatalf("p&c result: %s %v", c.Status, err)
	}
	if v, ok := c.Payload.Lookup("digitsResponse"); !ok || len(v.Bytes) != 2 {
		t.Fatalf("digitsResponse %v", v)
	}

	c, _, err = d.Decode(bertest.TLV(bertest.CtxC(1), bertest.Int(6), bertest.Int(OpActivityTest)), nil)
	if err != nil || c.Status != ros.StatusNoPayload || c.OperationName != "activityTest" {
		t.Fatalf("activityTest: %s %v", c.Status, err)
	}
}
