// Package bertest builds BER encodings for tests.
package bertest

import (
	"encoding/hex"
	"strings"
	"testing"
)

// Identifier octets for the tags tests use most.
const (
	Boolean     byte = 0x01
	Integer     byte = 0x02
	BitString   byte = 0x03
	OctetString byte = 0x04
	Null        byte = 0x05
	OID         byte = 0x06
	Enumerated  byte = 0x0a
	Sequence    byte = 0x30
	Set         byte = 0x31
)

// Ctx returns the identifier octet of [CONTEXT n] for n < 31.
func Ctx(n byte) byte { return 0x80 | n }

// CtxC returns the constructed identifier octet of [CONTEXT n] for n < 31.
func CtxC(n byte) byte { return 0xa0 | n }

// Length encodes n in the shortest definite form.
func Length(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var b []byte
	for v := n; v > 0; v >>= 8 {
		b = append([]byte{byte(v)}, b...)
	}
	return append([]byte{0x80 | byte(len(b))}, b...)
}

// Identifier encodes a tag of any number. class is 0..3.
func Identifier(class byte, constructed bool, number uint32) []byte {
	first := class << 6
	if constructed {
		first |= 0x20
	}
	if number < 31 {
		return []byte{first | byte(number)}
	}
	out := []byte{first | 0x1f}
	var tail []byte
	for v := number; ; v >>= 7 {
		o := byte(v & 0x7f)
		if len(tail) > 0 {
			o |= 0x80
		}
		tail = append([]byte{o}, tail...)
		if v < 0x80 {
			break
		}
	}
	return append(out, tail...)
}

// TLV encodes one element with a single identifier octet.
func TLV(id byte, content ...[]byte) []byte {
	return Wrap([]byte{id}, content...)
}

// Wrap encodes one element with the given identifier octets.
func Wrap(id []byte, content ...[]byte) []byte {
	body := Cat(content...)
	out := append([]byte(nil), id...)
	out = append(out, Length(len(body))...)
	return append(out, body...)
}

// Indefinite encodes a constructed element with indefinite length.
func Indefinite(id byte, content ...[]byte) []byte {
	out := []byte{id, 0x80}
	out = append(out, Cat(content...)...)
	return append(out, 0x00, 0x00)
}

func Cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// IntContent encodes v as minimal two's complement octets.
func IntContent(v int64) []byte {
	b := []byte{byte(v)}
	for {
		hi := v >> 8
		if (hi == 0 && b[0]&0x80 == 0) || (hi == -1 && b[0]&0x80 != 0) {
			return b
		}
		v = hi
		b = append([]byte{byte(v)}, b...)
	}
}

// Int encodes a universal INTEGER.
func Int(v int64) []byte { return TLV(Integer, IntContent(v)) }

// Enum encodes a universal ENUMERATED.
func Enum(v int64) []byte { return TLV(Enumerated, IntContent(v)) }

// OIDContent encodes arcs as object identifier content.
func OIDContent(arcs ...uint64) []byte {
	if len(arcs) < 2 {
		return nil
	}
	subs := append([]uint64{arcs[0]*40 + arcs[1]}, arcs[2:]...)
	var out []byte
	for _, s := range subs {
		var enc []byte
		for v := s; ; v >>= 7 {
			o := byte(v & 0x7f)
			if len(enc) > 0 {
				o |= 0x80
			}
			enc = append([]byte{o}, enc...)
			if v < 0x80 {
				break
			}
		}
		out = append(out, enc...)
	}
	return out
}

// ObjectID encodes a universal OBJECT IDENTIFIER.
func ObjectID(arcs ...uint64) []byte { return TLV(OID, OIDContent(arcs...)) }

// Seq encodes a universal SEQUENCE.
func Seq(children ...[]byte) []byte { return TLV(Sequence, children...) }

// Hex decodes space-separated hex, failing the test on bad input.
func Hex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}
