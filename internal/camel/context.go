package camel

import (
	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/decode"
	"github.com/danmuck/camelwire/internal/protocol/ros"
	"github.com/danmuck/camelwire/internal/subdecoders"
)

// ApplicationContext is a CAMEL application context name and the phase
// whose operations it carries.
type ApplicationContext struct {
	Name  string
	OID   ber.OID
	Phase Phase
}

var contexts = []ApplicationContext{
	{Name: "cap-v1-gsmSSF-to-gsmSCF", OID: ber.OID{0, 4, 0, 0, 1, 0, 50, 0}, Phase: Phase1},

	{Name: "cap-v2-gsmSSF-to-gsmSCF", OID: ber.OID{0, 4, 0, 0, 1, 0, 50, 1}, Phase: Phase2},
	{Name: "cap-v2-assist-gsmSSF-to-gsmSCF", OID: ber.OID{0, 4, 0, 0, 1, 0, 51, 1}, Phase: Phase2},
	{Name: "cap-v2-gsmSRF-to-gsmSCF", OID: ber.OID{0, 4, 0, 0, 1, 0, 52, 1}, Phase: Phase2},

	{Name: "capssf-scfGenericAC-v3", OID: ber.OID{0, 4, 0, 0, 1, 21, 3, 4}, Phase: Phase3},
	{Name: "capssf-scfAssistHandoffAC-v3", OID: ber.OID{0, 4, 0, 0, 1, 21, 3, 6}, Phase: Phase3},
	{Name: "gsmSRF-gsmSCF-ac-v3", OID: ber.OID{0, 4, 0, 0, 1, 21, 3, 14}, Phase: Phase3},
	{Name: "capgprsssf-gsmscf-ac-v3", OID: ber.OID{0, 4, 0, 0, 1, 21, 3, 50}, Phase: Phase3},
	{Name: "capgsmscf-gprsssf-ac-v3", OID: ber.OID{0, 4, 0, 0, 1, 21, 3, 51}, Phase: Phase3},
	{Name: "cap3-sms-ac", OID: ber.OID{0, 4, 0, 0, 1, 21, 3, 61}, Phase: Phase3},

	{Name: "capssf-scfGenericAC-v4", OID: ber.OID{0, 4, 0, 0, 1, 22, 4, 4}, Phase: Phase4},
	{Name: "capssf-scfAssistHandoffAC-v4", OID: ber.OID{0, 4, 0, 0, 1, 22, 4, 5}, Phase: Phase4},
	{Name: "capscf-ssfGenericAC-v4", OID: ber.OID{0, 4, 0, 0, 1, 22, 4, 6}, Phase: Phase4},
	{Name: "gsmSRF-gsmSCF-ac-v4", OID: ber.OID{0, 4, 0, 0, 1, 22, 4, 14}, Phase: Phase4},
	{Name: "cap4-sms-ac", OID: ber.OID{0, 4, 0, 0, 1, 22, 4, 61}, Phase: Phase4},
}

// Contexts lists the known application contexts, oldest phase first.
func Contexts() []ApplicationContext {
	out := make([]ApplicationContext, len(contexts))
	copy(out, contexts)
	return out
}

// PhaseOf returns the phase negotiated by application context acn.
func PhaseOf(acn ber.OID) (Phase, bool) {
	for _, c := range contexts {
		if c.OID.Equal(acn) {
			return c.Phase, true
		}
	}
	return 0, false
}

// ContextOptions binds every known application context to the tables of
// its phase.
func ContextOptions() []ros.Option {
	opts := make([]ros.Option, 0, len(contexts))
	for _, c := range contexts {
		opts = append(opts, ros.WithApplicationContext(c.OID, ProtocolFor(c.Phase)))
	}
	return opts
}

// DecoderOptions registers the ISUP, Q.850 and MAP sub-decoders plus the
// CAMEL OCTET STRING encodings. The nested encodings decode with a
// decoder built from base and the sub-decoders.
func DecoderOptions(base ...decode.Option) []decode.Option {
	return DecoderOptionsWithout(nil, base...)
}

// DecoderOptionsWithout is DecoderOptions leaving out the sub-decoders
// named in skip.
func DecoderOptionsWithout(skip []string, base ...decode.Option) []decode.Option {
	opts := subdecoders.Register(append([]decode.Option(nil), base...), skip...)
	nested := decode.New(opts...)
	omit := make(map[string]bool, len(skip))
	for _, s := range skip {
		omit[s] = true
	}
	for _, name := range []string{DelegateAChBilling, DelegateCallResult} {
		if omit[name] {
			continue
		}
		s := AChBillingChargingCharacteristics
		if name == DelegateCallResult {
			s = CallResult
		}
		opts = append(opts, decode.WithDelegate(name, decode.SchemaDelegate(s, nested)))
	}
	return opts
}

// NewDecoder returns a component decoder for the given phase with every
// CAMEL application context and sub-decoder registered.
func NewDecoder(p Phase, opts ...ros.Option) *ros.Decoder {
	proto := ProtocolFor(p)
	if proto == nil {
		proto = Protocol()
	}
	all := append(ContextOptions(), opts...)
	return ros.New(decode.New(DecoderOptions()...), proto, all...)
}
