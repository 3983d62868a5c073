package engine

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/danmuck/camelwire/internal/camel"
	"github.com/danmuck/camelwire/internal/config"
	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/ros"
	"github.com/danmuck/camelwire/internal/symbols"
	"github.com/danmuck/camelwire/internal/testutil/bertest"
	"github.com/danmuck/camelwire/internal/testutil/testlog"
)

var capV2 = ber.OID{0, 4, 0, 0, 1, 0, 50, 1}

type recorder struct {
	mu     sync.Mutex
	events []ros.OperationEvent
}

func (r *recorder) Observe(ev ros.OperationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func applyCharging(id int64) []byte {
	ach := bertest.TLV(bertest.CtxC(0), bertest.TLV(bertest.Ctx(0), bertest.IntContent(600)))
	arg := bertest.Seq(
		bertest.TLV(bertest.Ctx(0), ach),
		bertest.TLV(bertest.CtxC(2), bertest.TLV(bertest.Ctx(0), []byte{0x01})),
	)
	return bertest.TLV(bertest.CtxC(1), bertest.Int(id), bertest.Int(camel.OpApplyCharging), arg)
}

func begin(dialogue []byte, comps ...[]byte) []byte {
	parts := [][]byte{bertest.TLV(0x48, []byte{0xca, 0xfe, 0x00, 0x01})}
	if dialogue != nil {
		parts = append(parts, dialogue)
	}
	parts = append(parts, bertest.TLV(0x6c, comps...))
	return bertest.TLV(0x62, parts...)
}

func dialogue(acn ber.OID) []byte {
	arcs := make([]uint64, len(acn))
	copy(arcs, acn)
	aarq := bertest.TLV(0x60,
		bertest.TLV(bertest.Ctx(0), []byte{0x07, 0x80}),
		bertest.TLV(bertest.CtxC(1), bertest.ObjectID(arcs...)),
	)
	ext := bertest.TLV(0x28,
		bertest.ObjectID(0, 0, 17, 773, 1, 1, 1),
		bertest.TLV(bertest.CtxC(0), aarq),
	)
	return bertest.TLV(0x6b, ext)
}

func newEngine(t *testing.T, phase string, opts ...Option) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Decoder.Phase = phase
	e, err := New(cfg, append([]Option{WithLogger(testlog.Logger(t))}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func TestDecodeBeginUsesDialogueContext(t *testing.T) {
	testlog.Start(t)
	rec := &recorder{}
	e := newEngine(t, "phase1", WithObserver(rec))
	buf := begin(dialogue(capV2), applyCharging(1))

	res, err := e.Decode(context.Background(), Request{Data: buf, Trace: true})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Consumed != len(buf) || res.Trailing != 0 || res.Format != config.FormatTCAP {
		t.Fatalf("result framing %+v", res)
	}
	if res.Message == nil || res.Message.Type != "begin" || res.Message.OTID != "cafe0001" {
		t.Fatalf("message %+v", res.Message)
	}
	if res.Message.ContextName != "cap-v2-gsmSSF-to-gsmSCF" || res.Message.DialoguePDU == "" {
		t.Fatalf("dialogue %+v", res.Message)
	}
	if len(res.Components) != 1 {
		t.Fatalf("components %+v", res.Components)
	}
	c := res.Components[0]
	if c.Operation != "applyCharging(35)" || c.Status != ros.StatusDecoded.String() || c.Payload == nil {
		t.Fatalf("component %+v", c)
	}
	if c.Raw != "" {
		t.Fatalf("decoded payload should not repeat raw octets")
	}
	v, ok := c.Payload.Lookup("aChBillingChargingCharacteristics", "CAMEL-AChBillingChargingCharacteristics",
		"timeDurationCharging", "maxCallPeriodDuration")
	if !ok || v.Int != 600 {
		t.Fatalf("maxCallPeriodDuration %v", v)
	}

	traced := false
	for _, ev := range res.Trace {
		if strings.HasPrefix(ev.Path, "begin.components[0].invoke.applyCharging.") {
			traced = true
		}
	}
	if !traced {
		t.Fatalf("trace paths %+v", res.Trace)
	}

	if len(rec.events) != 1 {
		t.Fatalf("observer saw %d events", len(rec.events))
	}
	if ev := rec.events[0]; string(ev.OTID) != "\xca\xfe\x00\x01" || !ev.ApplicationContext.Equal(capV2) {
		t.Fatalf("event %+v", ev)
	}
}

func TestDecodeComponentWithRequestedContext(t *testing.T) {
	testlog.Start(t)
	e := newEngine(t, "phase1")
	buf := applyCharging(4)

	res, err := e.Decode(context.Background(), Request{Format: "component", Data: buf})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	c := res.Components[0]
	if c.Status != ros.StatusPartiallyDecoded.String() || c.Notice == "" || c.Raw == "" {
		t.Fatalf("phase 1 should keep applyCharging raw: %+v", c)
	}
	if c.Operation != "applyCharging(35)" {
		t.Fatalf("display names do not depend on the phase: %q", c.Operation)
	}

	acn, err := ParseContext("cap-v2-gsmSSF-to-gsmSCF")
	if err != nil {
		t.Fatalf("context: %v", err)
	}
	res, err = e.Decode(context.Background(), Request{Format: "component", Data: buf, ApplicationContext: acn})
	if err != nil || res.Components[0].Status != ros.StatusDecoded.String() {
		t.Fatalf("requested context ignored: %+v %v", res.Components, err)
	}
	if res.Message != nil {
		t.Fatalf("bare component has no message view")
	}
}

func TestDecodeFailureKeepsPartialResult(t *testing.T) {
	testlog.Start(t)
	e := newEngine(t, "phase4")
	buf := applyCharging(1)
	buf = buf[:len(buf)-3]

	res, err := e.Decode(context.Background(), Request{Format: config.FormatComponent, Data: buf})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("want ErrDecode, got %v", err)
	}
	if res.Error == "" || res.Length != len(buf) || len(res.Components) != 1 {
		t.Fatalf("partial result %+v", res)
	}
	if res.Components[0].Status != ros.StatusFailed.String() {
		t.Fatalf("status %s", res.Components[0].Status)
	}
}

func TestBrokenComponentDoesNotFailMessage(t *testing.T) {
	testlog.Start(t)
	e := newEngine(t, "phase4")
	broken := bertest.TLV(bertest.CtxC(1), bertest.Int(2))
	buf := begin(nil, applyCharging(1), broken, applyCharging(3))

	res, err := e.Decode(context.Background(), Request{Data: buf})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Components) != 3 {
		t.Fatalf("components %+v", res.Components)
	}
	if res.Components[1].Error == "" || res.Components[1].Status != ros.StatusFailed.String() {
		t.Fatalf("broken component %+v", res.Components[1])
	}
	for _, i := range []int{0, 2} {
		if res.Components[i].Status != ros.StatusDecoded.String() {
			t.Fatalf("sibling %d: %+v", i, res.Components[i])
		}
	}
}

func TestDecodeRejectsBadRequests(t *testing.T) {
	testlog.Start(t)
	e := newEngine(t, "phase4")
	ctx := context.Background()

	if _, err := e.Decode(ctx, Request{}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("empty: %v", err)
	}
	if _, err := e.Decode(ctx, Request{Format: "sccp", Data: []byte{0x30, 0x00}}); !errors.Is(err, ErrFormat) {
		t.Fatalf("format: %v", err)
	}
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := e.Decode(canceled, Request{Data: []byte{0x30, 0x00}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled: %v", err)
	}
	if _, err := e.DecodeHex(ctx, "", "zz", "", false); !errors.Is(err, ErrBadHex) {
		t.Fatalf("hex: %v", err)
	}
	if _, err := e.DecodeHex(ctx, "", "30 00", "not-a-context", false); !errors.Is(err, ErrBadContext) {
		t.Fatalf("context: %v", err)
	}
}

func TestTrailingOctetsReported(t *testing.T) {
	testlog.Start(t)
	e := newEngine(t, "phase4")
	buf := append(applyCharging(9), 0x00, 0x00)

	res, err := e.Decode(context.Background(), Request{Format: config.FormatComponent, Data: buf})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Trailing != 2 || res.Consumed != len(buf)-2 {
		t.Fatalf("trailing %d consumed %d", res.Trailing, res.Consumed)
	}
}

func TestSymbolOverridesRenameOperations(t *testing.T) {
	testlog.Start(t)
	table, err := symbols.Default().With(symbols.File{Operations: map[int64]string{35: "charge"}})
	if err != nil {
		t.Fatalf("symbols: %v", err)
	}
	e := newEngine(t, "phase4", WithSymbols(table))

	res, err := e.DecodeHex(context.Background(), "component", hex.EncodeToString(applyCharging(2)), "", false)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := res.Components[0].Operation; got != "charge(35)" {
		t.Fatalf("operation %q", got)
	}
	unknown := bertest.TLV(bertest.CtxC(1), bertest.Int(1), bertest.Int(99))
	res, err = e.Decode(context.Background(), Request{Format: "component", Data: unknown})
	if err != nil || res.Components[0].Operation != "local:99" {
		t.Fatalf("unnamed operation %+v %v", res.Components, err)
	}
	if _, err := json.Marshal(res); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestParseHex(t *testing.T) {
	testlog.Start(t)
	for _, in := range []string{"30060201058001 2a", "0x3006020105 80012A", "30:06:02:01:05:80:01:2a", "30-06-02-01\n05-80-01-2a"} {
		b, err := ParseHex(in)
		if err != nil || len(b) != 8 || b[7] != 0x2a {
			t.Fatalf("%q: %x %v", in, b, err)
		}
	}
	if _, err := ParseHex("  "); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("blank: %v", err)
	}
	if _, err := ParseHex("300"); !errors.Is(err, ErrBadHex) {
		t.Fatalf("odd length: %v", err)
	}
}

func TestParseContext(t *testing.T) {
	testlog.Start(t)
	cases := map[string]ber.OID{
		"":                        nil,
		"cap-v2-gsmSSF-to-gsmSCF": capV2,
		"phase1":                  {0, 4, 0, 0, 1, 0, 50, 0},
		"0.4.0.0.1.22.4.61":       {0, 4, 0, 0, 1, 22, 4, 61},
		"CAPSSF-SCFGENERICAC-V4":  {0, 4, 0, 0, 1, 22, 4, 4},
	}
	for in, want := range cases {
		got, err := ParseContext(in)
		if err != nil || !got.Equal(want) {
			t.Fatalf("%q: %v %v", in, got, err)
		}
	}
}
