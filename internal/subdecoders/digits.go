package subdecoders

import (
	"errors"
	"fmt"

	"github.com/danmuck/camelwire/internal/protocol/ber"
)

var (
	ErrTooShort = errors.New("subdecoders: content too short")
	ErrBadDigit = errors.New("subdecoders: invalid digit")
)

const (
	bcdDigits  = "0123456789abcdef"
	tbcdDigits = "0123456789*#abc"
	filler     = 0x0f
)

// bcd reads address signals low nibble first. When odd is set the high
// nibble of the last octet is filler and is not returned.
func bcd(b []byte, odd bool) string {
	out := make([]byte, 0, len(b)*2)
	for i, o := range b {
		out = append(out, bcdDigits[o&0x0f])
		if odd && i == len(b)-1 {
			break
		}
		out = append(out, bcdDigits[o>>4])
	}
	return string(out)
}

// tbcd reads telephony BCD. A filler nibble may only close the string.
func tbcd(b []byte) (string, error) {
	out := make([]byte, 0, len(b)*2)
	for i, o := range b {
		for j, n := range [2]byte{o & 0x0f, o >> 4} {
			if n == filler {
				if i != len(b)-1 || j == 0 && o>>4 != filler {
					return "", fmt.Errorf("%w: filler at octet %d", ErrBadDigit, i)
				}
				return string(out), nil
			}
			out = append(out, tbcdDigits[n])
		}
	}
	return string(out), nil
}

func intField(name string, v int64, start, end int) ber.Field {
	return ber.Field{Name: name, Value: ber.Value{
		Kind:  ber.KindInteger,
		Int:   v,
		Range: ber.Range{Start: start, End: end},
	}}
}

func boolField(name string, v bool, start, end int) ber.Field {
	return ber.Field{Name: name, Value: ber.Value{
		Kind:  ber.KindBoolean,
		Bool:  v,
		Range: ber.Range{Start: start, End: end},
	}}
}

func textField(name, s string, start, end int) ber.Field {
	return ber.Field{Name: name, Value: ber.Value{
		Kind:  ber.KindText,
		Bytes: []byte(s),
		Range: ber.Range{Start: start, End: end},
	}}
}

func octetsField(name string, b []byte, start, end int) ber.Field {
	return ber.Field{Name: name, Value: ber.Value{
		Kind:  ber.KindOctetString,
		Bytes: b,
		Range: ber.Range{Start: start, End: end},
	}}
}

func need(name string, raw []byte, n int) error {
	if len(raw) < n {
		return fmt.Errorf("%w: %s needs %d octets, have %d", ErrTooShort, name, n, len(raw))
	}
	return nil
}
