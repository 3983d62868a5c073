// Package symbols holds display names for operation and error codes.
// Names come from the CAMEL dispatch tables and may be overridden from a
// YAML file; decoding never depends on them.
package symbols

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danmuck/camelwire/internal/camel"
	"github.com/danmuck/camelwire/internal/protocol/ros"
)

var (
	ErrInvalidFile = errors.New("symbols: invalid symbol file")
	ErrEmptyName   = errors.New("symbols: empty name")
)

// Symbol is one named code.
type Symbol struct {
	Code int64  `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Table is an immutable symbol table.
type Table struct {
	ops  map[int64]string
	errs map[int64]string
}

// File is the YAML layout of an override file:
//
//	operations:
//	  0: initialDP
//	errors:
//	  7: missingParameter
type File struct {
	Operations map[int64]string `yaml:"operations"`
	Errors     map[int64]string `yaml:"errors"`
}

// Default returns the names of the latest CAMEL phase.
func Default() *Table {
	return FromProtocol(camel.Protocol())
}

// FromProtocol names every local code of p.
func FromProtocol(p *ros.Protocol) *Table {
	t := &Table{ops: map[int64]string{}, errs: map[int64]string{}}
	if p == nil {
		return t
	}
	for _, e := range p.Arguments.Entries() {
		if !e.Code.IsGlobal {
			t.ops[e.Code.Local] = e.Name
		}
	}
	for _, e := range p.Errors.Entries() {
		if !e.Code.IsGlobal {
			t.errs[e.Code.Local] = e.Name
		}
	}
	return t
}

// Load reads an override file and applies it over the defaults. An empty
// path returns the defaults.
func Load(path string) (*Table, error) {
	base := Default()
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read symbols %s: %w", path, err)
	}
	return base.Parse(raw)
}

// Parse applies the YAML overrides in raw to a copy of t.
func (t *Table) Parse(raw []byte) (*Table, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return t.With(f)
}

// With returns a copy of t with the names in f applied.
func (t *Table) With(f File) (*Table, error) {
	out := &Table{ops: clone(t.ops), errs: clone(t.errs)}
	for code, name := range f.Operations {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: operation %d", ErrEmptyName, code)
		}
		out.ops[code] = name
	}
	for code, name := range f.Errors {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: error %d", ErrEmptyName, code)
		}
		out.errs[code] = name
	}
	return out, nil
}

func (t *Table) Operation(code int64) (string, bool) {
	name, ok := t.ops[code]
	return name, ok
}

func (t *Table) Error(code int64) (string, bool) {
	name, ok := t.errs[code]
	return name, ok
}

// Describe renders c with its name when one is known, for example
// "initialDP(0)". Unnamed and global codes render as ros.Code does.
func (t *Table) Describe(c ros.Code, isError bool) string {
	if c.IsGlobal {
		return c.String()
	}
	lookup := t.Operation
	if isError {
		lookup = t.Error
	}
	if name, ok := lookup(c.Local); ok {
		return name + "(" + strconv.FormatInt(c.Local, 10) + ")"
	}
	return c.String()
}

// Operations lists the named operations by code.
func (t *Table) Operations() []Symbol { return list(t.ops) }

// Errors lists the named errors by code.
func (t *Table) Errors() []Symbol { return list(t.errs) }

func list(m map[int64]string) []Symbol {
	out := make([]Symbol, 0, len(m))
	for code, name := range m {
		out = append(out, Symbol{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func clone(m map[int64]string) map[int64]string {
	out := make(map[int64]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
