package ros

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/camelwire/internal/protocol/schema"
)

var (
	ErrDuplicateCode = errors.New("ros: code already registered")
	ErrInvalidEntry  = errors.New("ros: invalid dispatch entry")
)

// Entry binds a code to the schema of its payload. An entry without a
// schema marks a known operation whose payload is deliberately left raw.
type Entry struct {
	Code   Code
	Name   string
	Schema *schema.Schema
}

// Register declares a code whose payload decodes with s.
func Register(c Code, name string, s *schema.Schema) Entry {
	return Entry{Code: c, Name: name, Schema: s}
}

// Unparsed declares a known code whose payload is not decoded.
func Unparsed(c Code, name string) Entry {
	return Entry{Code: c, Name: name}
}

func (e Entry) IsUnparsed() bool { return e.Schema == nil }

// DispatchTable maps codes to payload schemas. It is immutable once built
// and safe to share between goroutines.
type DispatchTable struct {
	name    string
	entries map[string]Entry
}

// NewDispatchTable builds a table from entries. Duplicate codes and
// unnamed entries are rejected.
func NewDispatchTable(name string, entries ...Entry) (*DispatchTable, error) {
	t := &DispatchTable{name: name, entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("%w: %s has no name in table %s", ErrInvalidEntry, e.Code, name)
		}
		key := e.Code.String()
		if prev, ok := t.entries[key]; ok {
			return nil, fmt.Errorf("%w: %s is both %s and %s in table %s", ErrDuplicateCode, key, prev.Name, e.Name, name)
		}
		t.entries[key] = e
	}
	return t, nil
}

// MustDispatchTable panics on an invalid table. Use it for static tables.
func MustDispatchTable(name string, entries ...Entry) *DispatchTable {
	t, err := NewDispatchTable(name, entries...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *DispatchTable) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

// Lookup finds the entry for c. A nil table knows no codes.
func (t *DispatchTable) Lookup(c Code) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[c.String()]
	return e, ok
}

func (t *DispatchTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns all entries, local codes first in numeric order, then
// global codes by dotted form.
func (t *DispatchTable) Entries() []Entry {
	if t == nil {
		return nil
	}
	list := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Code, list[j].Code
		if a.IsGlobal != b.IsGlobal {
			return !a.IsGlobal
		}
		if !a.IsGlobal {
			return a.Local < b.Local
		}
		return a.Global.String() < b.Global.String()
	})
	return list
}

// Protocol groups the dispatch tables of one application protocol.
type Protocol struct {
	Name      string
	Arguments *DispatchTable
	Results   *DispatchTable
	Errors    *DispatchTable
}
