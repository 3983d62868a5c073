package subdecoders

import "github.com/danmuck/camelwire/internal/protocol/ber"

// AddressString decodes a GSM MAP AddressString or ISDN-AddressString:
// one octet of nature of address and numbering plan, then TBCD digits.
func AddressString(raw []byte) ([]ber.Field, int, error) {
	if err := need("address string", raw, 1); err != nil {
		return nil, 0, err
	}
	digits, err := tbcd(raw[1:])
	if err != nil {
		return nil, 0, err
	}
	return []ber.Field{
		intField("natureOfAddress", int64(raw[0]>>4&0x07), 0, 1),
		intField("numberingPlan", int64(raw[0]&0x0f), 0, 1),
		textField("digits", digits, 1, len(raw)),
	}, len(raw), nil
}

// TBCD decodes a telephony BCD string such as an IMSI.
func TBCD(raw []byte) ([]ber.Field, int, error) {
	if err := need("tbcd string", raw, 1); err != nil {
		return nil, 0, err
	}
	digits, err := tbcd(raw)
	if err != nil {
		return nil, 0, err
	}
	return []ber.Field{textField("digits", digits, 0, len(raw))}, len(raw), nil
}
