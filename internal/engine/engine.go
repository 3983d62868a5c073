// Package engine assembles the CAMEL decoding stack from a Config and runs
// one decode per request. An Engine is immutable after New and may be
// shared by the HTTP service and the CLI across goroutines.
package engine

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/camelwire/internal/camel"
	"github.com/danmuck/camelwire/internal/config"
	"github.com/danmuck/camelwire/internal/observability"
	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/decode"
	"github.com/danmuck/camelwire/internal/protocol/ros"
	"github.com/danmuck/camelwire/internal/protocol/tcap"
	"github.com/danmuck/camelwire/internal/symbols"
)

var (
	ErrEmptyInput = errors.New("engine: empty input")
	ErrBadHex     = errors.New("engine: invalid hex")
	ErrFormat     = errors.New("engine: unknown format")
	ErrBadContext = errors.New("engine: invalid application context")
	// ErrDecode wraps structural failures; the Result still carries what
	// was decoded before the failure.
	ErrDecode = errors.New("engine: decode failed")
)

type Engine struct {
	cfg       config.Config
	symbols   *symbols.Table
	ros       *ros.Decoder
	tcap      *tcap.Decoder
	observers []ros.Observer
	log       zerolog.Logger
}

type Option func(*Engine)

// WithObserver adds o to the observers notified for every component.
func WithObserver(o ros.Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSymbols replaces the table loaded from the [symbols] section.
func WithSymbols(t *symbols.Table) Option {
	return func(e *Engine) { e.symbols = t }
}

func New(cfg config.Config, opts ...Option) (*Engine, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	observability.RegisterMetrics()
	e := &Engine{cfg: cfg, log: log.Logger}
	for _, opt := range opts {
		opt(e)
	}
	if e.symbols == nil {
		t, err := symbols.Load(cfg.Symbols.File)
		if err != nil {
			return nil, err
		}
		e.symbols = t
	}

	rosOpts := []ros.Option{
		ros.WithLogger(e.log),
		ros.WithObserver(observability.MetricsObserver{}),
		ros.WithObserver(observability.LogObserver{Logger: e.log}),
	}
	for _, o := range e.observers {
		rosOpts = append(rosOpts, ros.WithObserver(o))
	}
	rosOpts = append(camel.ContextOptions(), rosOpts...)

	dec := decode.New(cfg.DecodeOptions(decode.WithLogger(e.log))...)
	e.ros = ros.New(dec, camel.ProtocolFor(cfg.Phase()), rosOpts...)
	e.tcap = tcap.New(e.ros, tcap.WithLogger(e.log))
	e.log.Debug().
		Str("phase", cfg.Phase().String()).
		Int("max_depth", dec.MaxDepth()).
		Strs("delegates", dec.Delegates()).
		Msg("engine ready")
	return e, nil
}

func (e *Engine) Config() config.Config { return e.cfg }

func (e *Engine) Symbols() *symbols.Table { return e.symbols }

// Request is one decode. Format defaults to the configured format.
// ApplicationContext applies when the input negotiates none itself.
type Request struct {
	Format             string
	Data               []byte
	ApplicationContext ber.OID
	Trace              bool
}

// Decode runs req. On ErrDecode the returned Result holds the partial
// decode; other errors leave it empty.
func (e *Engine) Decode(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = e.cfg.Decoder.Format
	}
	if format != config.FormatTCAP && format != config.FormatComponent {
		return Result{}, fmt.Errorf("%w: %q", ErrFormat, req.Format)
	}
	if len(req.Data) == 0 {
		return Result{}, ErrEmptyInput
	}

	var trace *decode.Collector
	sinks := []decode.Sink{observability.LogSink(e.log)}
	if req.Trace {
		trace = &decode.Collector{}
		sinks = append(sinks, trace)
	}
	sink := decode.Fanout(sinks...)
	dc := ros.DecodeContext{ApplicationContext: req.ApplicationContext}

	start := time.Now()
	res := Result{Format: format, Length: len(req.Data)}
	var (
		n   int
		err error
		typ string
	)
	switch format {
	case config.FormatTCAP:
		var msg tcap.Message
		msg, n, err = e.tcap.DecodeMessage(dc, req.Data, 0, sink)
		typ = msg.Type.String()
		res.Message = e.messageView(msg)
		for i, c := range msg.Components {
			res.Components = append(res.Components, e.componentView(c, msg.ComponentErrors[i]))
		}
	case config.FormatComponent:
		var c ros.Component
		c, n, err = e.ros.DecodeComponent(dc, req.Data, 0, sink)
		typ = "component"
		res.Components = append(res.Components, e.componentView(c, err))
	}
	observability.RecordMessage(typ, err == nil, time.Since(start))

	res.Consumed = n
	if n < len(req.Data) && err == nil {
		res.Trailing = len(req.Data) - n
	}
	if trace != nil {
		res.Trace = traceView(trace.Events)
	}
	if err != nil {
		res.Error = err.Error()
		return res, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return res, nil
}

// DecodeHex is Decode with Data given as hex text.
func (e *Engine) DecodeHex(ctx context.Context, format, data, acn string, trace bool) (Result, error) {
	raw, err := ParseHex(data)
	if err != nil {
		return Result{}, err
	}
	oid, err := ParseContext(acn)
	if err != nil {
		return Result{}, err
	}
	return e.Decode(ctx, Request{Format: format, Data: raw, ApplicationContext: oid, Trace: trace})
}

// ParseHex accepts hex with optional 0x prefix and any mix of spaces,
// colons, dashes and newlines between octets.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':', '-':
			return -1
		}
		return r
	}, s)
	if clean == "" {
		return nil, ErrEmptyInput
	}
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHex, err)
	}
	return b, nil
}

// ParseContext resolves acn as a known context name, a phase ("phase2")
// or dotted OID. An empty acn yields nil.
func ParseContext(acn string) (ber.OID, error) {
	acn = strings.TrimSpace(acn)
	if acn == "" {
		return nil, nil
	}
	for _, c := range camel.Contexts() {
		if strings.EqualFold(c.Name, acn) {
			return c.OID, nil
		}
	}
	if p, err := camel.ParsePhase(acn); err == nil {
		for _, c := range camel.Contexts() {
			if c.Phase == p {
				return c.OID, nil
			}
		}
	}
	oid, err := ber.ParseOID(acn)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadContext, acn)
	}
	return oid, nil
}
