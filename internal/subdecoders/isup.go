package subdecoders

import "github.com/danmuck/camelwire/internal/protocol/ber"

// CalledPartyNumber decodes the ISUP called party number (Q.763 3.9).
func CalledPartyNumber(raw []byte) ([]ber.Field, int, error) {
	if err := need("called party number", raw, 2); err != nil {
		return nil, 0, err
	}
	odd := raw[0]&0x80 != 0
	return []ber.Field{
		boolField("odd", odd, 0, 1),
		intField("natureOfAddress", int64(raw[0]&0x7f), 0, 1),
		intField("internalNetworkNumber", int64(raw[1]>>7), 1, 2),
		intField("numberingPlan", int64(raw[1]>>4&0x07), 1, 2),
		textField("digits", bcd(raw[2:], odd), 2, len(raw)),
	}, len(raw), nil
}

// CallingPartyNumber decodes the ISUP calling party number (Q.763 3.10).
// Location, redirecting and original called numbers share its layout.
func CallingPartyNumber(raw []byte) ([]ber.Field, int, error) {
	if err := need("calling party number", raw, 2); err != nil {
		return nil, 0, err
	}
	return callingLayout(raw, 0), len(raw), nil
}

// GenericNumber decodes the ISUP generic number (Q.763 3.26): a number
// qualifier octet followed by the calling party number layout.
func GenericNumber(raw []byte) ([]ber.Field, int, error) {
	if err := need("generic number", raw, 3); err != nil {
		return nil, 0, err
	}
	fields := []ber.Field{intField("numberQualifier", int64(raw[0]), 0, 1)}
	return append(fields, callingLayout(raw, 1)...), len(raw), nil
}

func callingLayout(raw []byte, at int) []ber.Field {
	a, b := raw[at], raw[at+1]
	odd := a&0x80 != 0
	return []ber.Field{
		boolField("odd", odd, at, at+1),
		intField("natureOfAddress", int64(a&0x7f), at, at+1),
		boolField("numberIncomplete", b&0x80 != 0, at+1, at+2),
		intField("numberingPlan", int64(b>>4&0x07), at+1, at+2),
		intField("presentation", int64(b>>2&0x03), at+1, at+2),
		intField("screening", int64(b&0x03), at+1, at+2),
		textField("digits", bcd(raw[at+2:], odd), at+2, len(raw)),
	}
}
