package ros

import (
	"strconv"

	"github.com/danmuck/camelwire/internal/protocol/ber"
)

// Code identifies an operation or an error: a local integer or a global
// object identifier.
type Code struct {
	Local    int64
	Global   ber.OID
	IsGlobal bool
}

func Local(n int64) Code { return Code{Local: n} }

func Global(oid ber.OID) Code { return Code{Global: oid, IsGlobal: true} }

func (c Code) String() string {
	if c.IsGlobal {
		return "global:" + c.Global.String()
	}
	return "local:" + strconv.FormatInt(c.Local, 10)
}

// Equal reports whether c and o name the same code.
func (c Code) Equal(o Code) bool {
	if c.IsGlobal != o.IsGlobal {
		return false
	}
	if c.IsGlobal {
		return c.Global.Equal(o.Global)
	}
	return c.Local == o.Local
}

// CodeFromValue reads a decoded Code CHOICE.
func CodeFromValue(v ber.Value) (Code, bool) {
	alt, ok := v.Alternative()
	if !ok {
		return Code{}, false
	}
	switch alt.Name {
	case "local":
		return Local(alt.Value.Int), true
	case "global":
		return Global(alt.Value.OID), true
	default:
		return Code{}, false
	}
}
