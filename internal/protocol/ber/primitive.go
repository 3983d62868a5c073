package ber

import (
	"errors"
	"math"
)

// DecodeInteger decodes big-endian two's complement content of 1..8 octets.
func DecodeInteger(content []byte) (int64, error) {
	if len(content) == 0 {
		return 0, Errorf(EmptyInteger, 0, "zero-length integer")
	}
	if len(content) > 8 {
		return 0, Errorf(PrimitiveLengthMismatch, 0, "integer of %d octets exceeds 64 bits", len(content))
	}
	v := int64(int8(content[0]))
	for _, b := range content[1:] {
		v = v<<8 | int64(b)
	}
	return v, nil
}

// DecodeBoolean decodes a single-octet boolean. Any non-zero octet is true.
func DecodeBoolean(content []byte) (bool, error) {
	if len(content) != 1 {
		return false, Errorf(PrimitiveLengthMismatch, 0, "boolean of %d octets", len(content))
	}
	return content[0] != 0, nil
}

// DecodeNull checks that a NULL carries no content.
func DecodeNull(content []byte) error {
	if len(content) != 0 {
		return Errorf(PrimitiveLengthMismatch, 0, "null of %d octets", len(content))
	}
	return nil
}

// DecodeOID decodes base-128 sub-identifiers into arcs. The first
// sub-identifier packs the first two arcs as 40*a1 + a2.
func DecodeOID(content []byte) (OID, error) {
	if len(content) == 0 {
		return nil, Errorf(PrimitiveLengthMismatch, 0, "zero-length object identifier")
	}
	arcs := make(OID, 0, len(content)+1)
	for i := 0; i < len(content); {
		v, n, err := base128(content[i:])
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				de.Offset = i
			}
			return nil, err
		}
		i += n
		if len(arcs) == 0 {
			switch {
			case v < 40:
				arcs = append(arcs, 0, v)
			case v < 80:
				arcs = append(arcs, 1, v-40)
			default:
				arcs = append(arcs, 2, v-80)
			}
			continue
		}
		arcs = append(arcs, v)
	}
	return arcs, nil
}

func base128(b []byte) (uint64, int, error) {
	var v uint64
	for i, o := range b {
		if i == 0 && o == 0x80 {
			return 0, 0, Errorf(PrimitiveLengthMismatch, 0, "sub-identifier not minimally encoded")
		}
		if v > math.MaxUint64>>7 {
			return 0, 0, Errorf(PrimitiveLengthMismatch, 0, "sub-identifier overflows 64 bits")
		}
		v = v<<7 | uint64(o&0x7f)
		if o&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, Errorf(TruncatedContent, 0, "sub-identifier continues past content")
}

// DecodeBitString decodes the unused-bits prefix and the bit octets. The
// returned Bytes are borrowed from content.
func DecodeBitString(content []byte) (BitString, error) {
	if len(content) == 0 {
		return BitString{}, Errorf(PrimitiveLengthMismatch, 0, "zero-length bit string")
	}
	unused := int(content[0])
	if unused > 7 {
		return BitString{}, Errorf(PrimitiveLengthMismatch, 0, "%d unused bits", unused)
	}
	if len(content) == 1 && unused != 0 {
		return BitString{}, Errorf(PrimitiveLengthMismatch, 0, "unused bits in empty bit string")
	}
	data := content[1:]
	return BitString{Bytes: data, BitLength: len(data)*8 - unused}, nil
}

// DecodePrimitive decodes length content octets at c as kind. The content is
// borrowed from the cursor's buffer.
func DecodePrimitive(kind Kind, c Cursor, length int) (Value, Cursor, error) {
	start := c.Offset()
	content, err := c.Slice(length)
	if err != nil {
		return Value{}, c, err
	}
	next, _ := c.Advance(length)
	v := Value{Kind: kind, Range: Range{Start: start, End: start + length}}

	switch kind {
	case KindInteger, KindEnumerated:
		v.Int, err = DecodeInteger(content)
	case KindBoolean:
		v.Bool, err = DecodeBoolean(content)
	case KindNull:
		err = DecodeNull(content)
	case KindOctetString:
		v.Bytes = content
	case KindOID:
		v.OID, err = DecodeOID(content)
	case KindBitString:
		v.Bits, err = DecodeBitString(content)
	default:
		return Value{}, c, Errorf(FormMismatch, start, "%s is not a primitive kind", kind)
	}
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			de.Offset += start
		}
		return Value{}, c, err
	}
	return v, next, nil
}
