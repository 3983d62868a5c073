package ber

import (
	"fmt"
	"math"
)

// Class is the two-bit tag class of an identifier octet.
type Class uint8

const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContext
	ClassPrivate
)

func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassContext:
		return "CONTEXT"
	case ClassPrivate:
		return "PRIVATE"
	default:
		return fmt.Sprintf("CLASS(%d)", uint8(c))
	}
}

// Universal tag numbers used by the primitive decoders.
const (
	TagEndOfContents uint32 = 0
	TagBoolean       uint32 = 1
	TagInteger       uint32 = 2
	TagBitString     uint32 = 3
	TagOctetString   uint32 = 4
	TagNull          uint32 = 5
	TagOID           uint32 = 6
	TagExternal      uint32 = 8
	TagEnumerated    uint32 = 10
	TagSequence      uint32 = 16
	TagSet           uint32 = 17
)

// LengthIndefinite marks a constructed encoding terminated by end-of-contents.
const LengthIndefinite = -1

// Tag identifies one field slot: class plus number.
type Tag struct {
	Class  Class
	Number uint32
}

func Universal(n uint32) Tag   { return Tag{Class: ClassUniversal, Number: n} }
func Application(n uint32) Tag { return Tag{Class: ClassApplication, Number: n} }
func Context(n uint32) Tag     { return Tag{Class: ClassContext, Number: n} }
func Private(n uint32) Tag     { return Tag{Class: ClassPrivate, Number: n} }

func (t Tag) String() string {
	return fmt.Sprintf("[%s %d]", t.Class, t.Number)
}

// Header is one decoded identifier+length pair.
type Header struct {
	Tag         Tag
	Constructed bool
	// Length is the content length or LengthIndefinite.
	Length int
	// Start is the offset of the identifier octet.
	Start int
	// ContentStart is the offset of the first content octet.
	ContentStart int
}

// IsEndOfContents reports whether h is the 00 00 terminator.
func (h Header) IsEndOfContents() bool {
	return h.Tag == (Tag{}) && !h.Constructed && h.Length == 0
}

// ContentEnd returns the offset after the content, or LengthIndefinite.
func (h Header) ContentEnd() int {
	if h.Length == LengthIndefinite {
		return LengthIndefinite
	}
	return h.ContentStart + h.Length
}

func (h Header) String() string {
	form := "p"
	if h.Constructed {
		form = "c"
	}
	if h.Length == LengthIndefinite {
		return fmt.Sprintf("%s/%s:indefinite", h.Tag, form)
	}
	return fmt.Sprintf("%s/%s:%d", h.Tag, form, h.Length)
}

// Cursor is a read position over a borrowed buffer. It is never mutated;
// every read returns a new Cursor. Offsets are absolute within the buffer and
// reads never pass limit.
type Cursor struct {
	buf   []byte
	off   int
	limit int
}

// NewCursor returns a cursor at the start of b.
func NewCursor(b []byte) Cursor {
	return Cursor{buf: b, limit: len(b)}
}

// Offset is the absolute read position.
func (c Cursor) Offset() int { return c.off }

// Limit is the absolute offset reads may not pass.
func (c Cursor) Limit() int { return c.limit }

// Remaining is the number of readable bytes.
func (c Cursor) Remaining() int { return c.limit - c.off }

// Buffer returns the whole underlying buffer.
func (c Cursor) Buffer() []byte { return c.buf }

// AtEnd reports whether nothing is left to read.
func (c Cursor) AtEnd() bool { return c.off >= c.limit }

// Seek returns a cursor at absolute offset off with the same limit.
func (c Cursor) Seek(off int) (Cursor, error) {
	if off < 0 || off > c.limit {
		return c, Errorf(TruncatedContent, c.off, "seek to %d outside limit %d", off, c.limit)
	}
	c.off = off
	return c, nil
}

// Advance moves n bytes forward.
func (c Cursor) Advance(n int) (Cursor, error) {
	if n < 0 || n > c.Remaining() {
		return c, Errorf(TruncatedContent, c.off, "need %d bytes, have %d", n, c.Remaining())
	}
	c.off += n
	return c, nil
}

// Bound narrows the limit to end. Widening is not possible.
func (c Cursor) Bound(end int) Cursor {
	if end >= c.off && end < c.limit {
		c.limit = end
	}
	return c
}

// Slice returns n bytes at the cursor without copying.
func (c Cursor) Slice(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, Errorf(TruncatedContent, c.off, "need %d bytes, have %d", n, c.Remaining())
	}
	return c.buf[c.off : c.off+n : c.off+n], nil
}

const maxLengthOctets = 8

// ReadHeader parses one identifier and one length field at c.
func ReadHeader(c Cursor) (Header, Cursor, error) {
	start := c.off
	if c.Remaining() < 1 {
		return Header{}, c, Errorf(TruncatedHeader, start, "no identifier octet")
	}
	b := c.buf[c.off]
	pos := c.off + 1
	h := Header{
		Tag:         Tag{Class: Class(b >> 6), Number: uint32(b & 0x1f)},
		Constructed: b&0x20 != 0,
		Start:       start,
	}

	if h.Tag.Number == 0x1f {
		var n uint64
		for i := 0; ; i++ {
			if pos >= c.limit {
				return Header{}, c, Errorf(TruncatedHeader, start, "tag number continues past end")
			}
			o := c.buf[pos]
			pos++
			if i == 0 && o == 0x80 {
				return Header{}, c, Errorf(MalformedHeader, start, "tag number not minimally encoded")
			}
			n = n<<7 | uint64(o&0x7f)
			if n > math.MaxUint32 {
				return Header{}, c, Errorf(MalformedHeader, start, "tag number overflows 32 bits")
			}
			if o&0x80 == 0 {
				break
			}
		}
		h.Tag.Number = uint32(n)
	}

	if pos >= c.limit {
		return Header{}, c, Errorf(TruncatedHeader, start, "no length octet")
	}
	l := c.buf[pos]
	pos++
	switch {
	case l < 0x80:
		h.Length = int(l)
	case l == 0x80:
		if !h.Constructed {
			return Header{}, c, Errorf(MalformedHeader, start, "indefinite length on primitive encoding")
		}
		h.Length = LengthIndefinite
	case l == 0xff:
		return Header{}, c, Errorf(MalformedHeader, start, "reserved length octet 0xff")
	default:
		n := int(l & 0x7f)
		if n > maxLengthOctets {
			return Header{}, c, Errorf(LengthOverflow, start, "%d length octets", n)
		}
		if c.limit-pos < n {
			return Header{}, c, Errorf(TruncatedHeader, start, "need %d length octets, have %d", n, c.limit-pos)
		}
		var v uint64
		for i := 0; i < n; i++ {
			v = v<<8 | uint64(c.buf[pos+i])
		}
		pos += n
		if v > uint64(math.MaxInt32) {
			return Header{}, c, Errorf(LengthOverflow, start, "length %d", v)
		}
		h.Length = int(v)
	}

	h.ContentStart = pos
	if h.Length != LengthIndefinite && h.Length > c.limit-pos {
		return Header{}, c, &DecodeError{
			Kind:   LengthOverflow,
			Tag:    h.Tag,
			Offset: start,
			Detail: fmt.Sprintf("declared %d, remaining %d", h.Length, c.limit-pos),
		}
	}
	c.off = pos
	return h, c, nil
}

// PeekHeader reads the header at c without advancing.
func PeekHeader(c Cursor) (Header, error) {
	h, _, err := ReadHeader(c)
	return h, err
}

// ElementEnd returns the offset after the element whose header h was read at
// c. content must be the cursor returned by ReadHeader. Indefinite-length
// elements are walked to their end-of-contents marker.
func ElementEnd(content Cursor, h Header, maxDepth int) (int, error) {
	if h.Length != LengthIndefinite {
		return h.ContentStart + h.Length, nil
	}
	return skipIndefinite(content, 0, maxDepth)
}

func skipIndefinite(c Cursor, depth, maxDepth int) (int, error) {
	if depth >= maxDepth {
		return 0, Errorf(NestingTooDeep, c.off, "indefinite nesting exceeds %d", maxDepth)
	}
	for {
		h, next, err := ReadHeader(c)
		if err != nil {
			return 0, err
		}
		if h.IsEndOfContents() {
			return next.off, nil
		}
		var end int
		if h.Length == LengthIndefinite {
			end, err = skipIndefinite(next, depth+1, maxDepth)
			if err != nil {
				return 0, err
			}
		} else {
			end = h.ContentStart + h.Length
		}
		c, err = c.Seek(end)
		if err != nil {
			return 0, err
		}
	}
}
