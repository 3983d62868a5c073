package decode

import (
	"strconv"
	"strings"

	"github.com/danmuck/camelwire/internal/protocol/ber"
)

// FieldPath names a decoded field by its position in the value tree.
// List positions are stored as "[i]" elements.
type FieldPath []string

// Child returns a new path with name appended. p is not modified.
func (p FieldPath) Child(name string) FieldPath {
	out := make(FieldPath, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Index returns a new path addressing list element i.
func (p FieldPath) Index(i int) FieldPath {
	return p.Child("[" + strconv.Itoa(i) + "]")
}

// String renders the path as "a.b[0].c".
func (p FieldPath) String() string {
	var b strings.Builder
	for i, part := range p {
		if i > 0 && !strings.HasPrefix(part, "[") {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

// Sink receives every decoded field. Children are reported before the
// structure that contains them. Failures are reported once, as a
// KindMalformed value at the path where they occurred.
type Sink interface {
	Report(path FieldPath, v ber.Value, r ber.Range)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(path FieldPath, v ber.Value, r ber.Range)

func (f SinkFunc) Report(path FieldPath, v ber.Value, r ber.Range) { f(path, v, r) }

// Discard drops every report.
var Discard Sink = SinkFunc(func(FieldPath, ber.Value, ber.Range) {})

type fanout []Sink

func (f fanout) Report(path FieldPath, v ber.Value, r ber.Range) {
	for _, s := range f {
		s.Report(path, v, r)
	}
}

// Fanout reports to each non-nil sink in order.
func Fanout(sinks ...Sink) Sink {
	out := make(fanout, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type prefixed struct {
	prefix FieldPath
	sink   Sink
}

func (p prefixed) Report(path FieldPath, v ber.Value, r ber.Range) {
	full := make(FieldPath, 0, len(p.prefix)+len(path))
	full = append(full, p.prefix...)
	p.sink.Report(append(full, path...), v, r)
}

// Prefixed roots every path reported to s under prefix.
func Prefixed(prefix FieldPath, s Sink) Sink {
	if s == nil {
		return Discard
	}
	if len(prefix) == 0 {
		return s
	}
	return prefixed{prefix: prefix, sink: s}
}

// Event is one collected report.
type Event struct {
	Path  string
	Value ber.Value
	Range ber.Range
}

// Collector records reports in order. It is not safe for concurrent use;
// give each decode its own Collector.
type Collector struct {
	Events []Event
}

func (c *Collector) Report(path FieldPath, v ber.Value, r ber.Range) {
	c.Events = append(c.Events, Event{Path: path.String(), Value: v, Range: r})
}

// Find returns the first event reported at path.
func (c *Collector) Find(path string) (Event, bool) {
	for _, e := range c.Events {
		if e.Path == path {
			return e, true
		}
	}
	return Event{}, false
}

// Paths lists reported paths in report order.
func (c *Collector) Paths() []string {
	out := make([]string, len(c.Events))
	for i, e := range c.Events {
		out[i] = e.Path
	}
	return out
}

// Malformed returns the failure markers that were reported.
func (c *Collector) Malformed() []Event {
	var out []Event
	for _, e := range c.Events {
		if e.Value.Kind == ber.KindMalformed {
			out = append(out, e)
		}
	}
	return out
}
