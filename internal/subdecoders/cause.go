package subdecoders

import "github.com/danmuck/camelwire/internal/protocol/ber"

// Cause decodes a Q.850 cause indicator as carried by ISUP and CAMEL.
func Cause(raw []byte) ([]ber.Field, int, error) {
	if err := need("cause", raw, 2); err != nil {
		return nil, 0, err
	}
	fields := []ber.Field{
		intField("codingStandard", int64(raw[0]>>5&0x03), 0, 1),
		intField("location", int64(raw[0]&0x0f), 0, 1),
	}
	at := 1
	if raw[0]&0x80 == 0 {
		// octet 3a
		if err := need("cause with recommendation", raw, 3); err != nil {
			return nil, 0, err
		}
		fields = append(fields, intField("recommendation", int64(raw[1]&0x7f), 1, 2))
		at = 2
	}
	v := raw[at] & 0x7f
	fields = append(fields,
		intField("causeValue", int64(v), at, at+1),
		intField("class", int64(v>>4), at, at+1),
	)
	if at+1 < len(raw) {
		fields = append(fields, octetsField("diagnostics", raw[at+1:], at+1, len(raw)))
	}
	return fields, len(raw), nil
}
