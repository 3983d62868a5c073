package engine

import (
	"encoding/hex"

	"github.com/danmuck/camelwire/internal/camel"
	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/decode"
	"github.com/danmuck/camelwire/internal/protocol/ros"
	"github.com/danmuck/camelwire/internal/protocol/tcap"
)

// Result is the JSON rendering of one decode.
type Result struct {
	Format   string `json:"format"`
	Length   int    `json:"length"`
	Consumed int    `json:"consumed"`
	// Trailing counts input octets after a complete element.
	Trailing   int             `json:"trailing,omitempty"`
	Message    *MessageView    `json:"message,omitempty"`
	Components []ComponentView `json:"components"`
	Trace      []TraceEvent    `json:"trace,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type MessageView struct {
	Type               string `json:"type"`
	OTID               string `json:"otid,omitempty"`
	DTID               string `json:"dtid,omitempty"`
	DialoguePDU        string `json:"dialogue_pdu,omitempty"`
	ApplicationContext string `json:"application_context,omitempty"`
	ContextName        string `json:"context_name,omitempty"`
	PAbortCause        *int64 `json:"p_abort_cause,omitempty"`
}

type ComponentView struct {
	Kind      string     `json:"kind"`
	InvokeID  *int64     `json:"invoke_id,omitempty"`
	LinkedID  *int64     `json:"linked_id,omitempty"`
	Operation string     `json:"operation,omitempty"`
	ErrorCode string     `json:"error_code,omitempty"`
	Problem   string     `json:"problem,omitempty"`
	Status    string     `json:"status"`
	Notice    string     `json:"notice,omitempty"`
	Raw       string     `json:"raw,omitempty"`
	Payload   *ber.Value `json:"payload,omitempty"`
	Error     string     `json:"error,omitempty"`
}

type TraceEvent struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Value string `json:"value,omitempty"`
}

func (e *Engine) messageView(m tcap.Message) *MessageView {
	v := &MessageView{
		Type:        m.Type.String(),
		OTID:        hex.EncodeToString(m.OTID),
		DTID:        hex.EncodeToString(m.DTID),
		PAbortCause: m.PAbortCause,
	}
	if m.Dialogue != nil {
		v.DialoguePDU = m.Dialogue.PDU
	}
	if acn := m.ApplicationContext(); len(acn) > 0 {
		v.ApplicationContext = acn.String()
		v.ContextName = contextName(acn)
	}
	return v
}

func (e *Engine) componentView(c ros.Component, err error) ComponentView {
	v := ComponentView{
		Kind:     c.Kind.String(),
		InvokeID: c.InvokeID,
		LinkedID: c.LinkedID,
		Status:   c.Status.String(),
	}
	if c.Operation != nil {
		v.Operation = e.symbols.Describe(*c.Operation, false)
	}
	if c.Error != nil {
		v.ErrorCode = e.symbols.Describe(*c.Error, true)
	}
	if c.Problem != nil {
		v.Problem = c.Problem.String()
	}
	if c.Notice != nil {
		v.Notice = c.Notice.Error()
	}
	if c.Payload.Present() {
		p := c.Payload
		v.Payload = &p
	}
	if c.Raw.Present() && c.Status != ros.StatusDecoded {
		v.Raw = hex.EncodeToString(c.Raw.Bytes)
	}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}

func traceView(events []decode.Event) []TraceEvent {
	out := make([]TraceEvent, 0, len(events))
	for _, ev := range events {
		t := TraceEvent{
			Path:  ev.Path,
			Kind:  ev.Value.Kind.String(),
			Start: ev.Range.Start,
			End:   ev.Range.End,
		}
		switch ev.Value.Kind {
		case ber.KindSequence, ber.KindChoice, ber.KindList:
		default:
			t.Value = ev.Value.String()
		}
		out = append(out, t)
	}
	return out
}

func contextName(acn ber.OID) string {
	for _, c := range camel.Contexts() {
		if c.OID.Equal(acn) {
			return c.Name
		}
	}
	return ""
}
