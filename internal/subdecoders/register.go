package subdecoders

import (
	"sort"

	"github.com/danmuck/camelwire/internal/protocol/decode"
)

// Names under which the sub-decoders are registered. Schemas refer to
// them through schema.Delegated.
const (
	NameCalledPartyNumber  = "isup.calledPartyNumber"
	NameCallingPartyNumber = "isup.callingPartyNumber"
	NameGenericNumber      = "isup.genericNumber"
	NameCause              = "q850.cause"
	NameAddressString      = "map.addressString"
	NameTBCD               = "map.tbcd"
)

var registry = map[string]decode.DelegateFunc{
	NameCalledPartyNumber:  CalledPartyNumber,
	NameCallingPartyNumber: CallingPartyNumber,
	NameGenericNumber:      GenericNumber,
	NameCause:              Cause,
	NameAddressString:      AddressString,
	NameTBCD:               TBCD,
}

// Names lists the registered sub-decoders in order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Register appends a decode option for every sub-decoder to opts. Names in
// skip are left out, so their octets stay undecoded.
func Register(opts []decode.Option, skip ...string) []decode.Option {
	omit := make(map[string]bool, len(skip))
	for _, s := range skip {
		omit[s] = true
	}
	for _, name := range Names() {
		if omit[name] {
			continue
		}
		opts = append(opts, decode.WithDelegate(name, registry[name]))
	}
	return opts
}
