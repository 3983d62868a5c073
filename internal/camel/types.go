package camel

import (
	"github.com/danmuck/camelwire/internal/protocol/ber"
	"github.com/danmuck/camelwire/internal/protocol/schema"
	"github.com/danmuck/camelwire/internal/subdecoders"
)

func octets(name string) *schema.Schema { return schema.Named(name, schema.OctetString()) }

func enum(name string) *schema.Schema { return schema.Named(name, schema.Enumerated()) }

func integer(name string) *schema.Schema { return schema.Named(name, schema.Integer()) }

func number(name, delegate string) *schema.Schema {
	return schema.Named(name, schema.Delegated(delegate))
}

// structure keeps every element of a SEQUENCE whose members are not
// detailed here as a raw "unknown" field.
func structure(name string) *schema.Schema {
	return schema.Must(schema.ExtensibleSequence(name))
}

func ctx(n uint32) ber.Tag { return ber.Context(n) }

var (
	serviceKey = integer("ServiceKey")

	calledPartyNumber     = number("CalledPartyNumber", subdecoders.NameCalledPartyNumber)
	callingPartyNumber    = number("CallingPartyNumber", subdecoders.NameCallingPartyNumber)
	locationNumber        = number("LocationNumber", subdecoders.NameCallingPartyNumber)
	originalCalledPartyID = number("OriginalCalledPartyID", subdecoders.NameCallingPartyNumber)
	redirectingPartyID    = number("RedirectingPartyID", subdecoders.NameCallingPartyNumber)
	genericNumber         = number("GenericNumber", subdecoders.NameGenericNumber)
	cause                 = number("Cause", subdecoders.NameCause)
	imsi                  = number("IMSI", subdecoders.NameTBCD)
	isdnAddressString     = number("ISDN-AddressString", subdecoders.NameAddressString)
	addressString         = number("AddressString", subdecoders.NameAddressString)
	calledPartyBCDNumber  = number("CalledPartyBCDNumber", subdecoders.NameAddressString)

	callingPartysCategory  = octets("CallingPartysCategory")
	redirectionInformation = octets("RedirectionInformation")
	timeAndTimezone        = octets("TimeAndTimezone")
	callReferenceNumber    = octets("CallReferenceNumber")
	digits                 = octets("Digits")
	legType                = octets("LegType")
	carrier                = octets("Carrier")
	cugInterlock           = octets("CUG-Interlock")

	eventTypeBCSM = enum("EventTypeBCSM")
	monitorMode   = enum("MonitorMode")
	eventTypeSMS  = enum("EventTypeSMS")

	extensionField = structure("ExtensionField")
	extensions     = schema.Must(schema.SequenceOf("Extensions", extensionField))

	legID = schema.Must(schema.Choice("LegID",
		schema.Field("sendingSideID", legType).Implicit(ctx(0)),
		schema.Field("receivingSideID", legType).Implicit(ctx(1)),
	))
	sendingSideID = schema.Must(schema.Choice("SendingSideID",
		schema.Field("sendingSideID", legType).Implicit(ctx(0)),
	))
	receivingSideID = schema.Must(schema.Choice("ReceivingSideID",
		schema.Field("receivingSideID", legType).Implicit(ctx(1)),
	))

	bearerCapability = schema.Must(schema.Choice("BearerCapability",
		schema.Field("bearerCap", octets("BearerCap")).Implicit(ctx(0)),
	))

	miscCallInfo = schema.Must(schema.Sequence("MiscCallInfo",
		schema.Field("messageType", enum("MessageType")).Implicit(ctx(0)),
		schema.Field("dpAssignment", enum("DpAssignment")).Implicit(ctx(1)).Optional(),
	))

	locationInformation = schema.Must(schema.ExtensibleSequence("LocationInformation",
		schema.Field("ageOfLocationInformation", integer("AgeOfLocationInformation")).Optional(),
		schema.Field("geographicalInformation", octets("GeographicalInformation")).Implicit(ctx(0)).Optional(),
		schema.Field("vlr-number", isdnAddressString).Implicit(ctx(1)).Optional(),
		schema.Field("locationNumber", octets("LocationNumber")).Implicit(ctx(2)).Optional(),
		schema.Field("cellGlobalIdOrServiceAreaIdOrLAI", schema.Opaque("CellGlobalIdOrServiceAreaIdOrLAI")).Explicit(ctx(3)).Optional(),
		schema.Field("extensionContainer", structure("ExtensionContainer")).Implicit(ctx(4)).Optional(),
	))

	serviceInteractionIndicatorsTwo   = structure("ServiceInteractionIndicatorsTwo")
	dpSpecificCriteria                = schema.Opaque("DpSpecificCriteria")
	cgEncountered                     = enum("CGEncountered")
	ipSSPCapabilities                 = octets("IPSSPCapabilities")
	highLayerCompatibility            = octets("HighLayerCompatibility")
	cugIndex                          = octets("CUG-Index")
	subscriberState                   = schema.Opaque("SubscriberState")
	extBasicServiceCode               = schema.Opaque("Ext-BasicServiceCode")
	callSegmentID                     = integer("CallSegmentID")
	fciBillingChargingCharacteristics = octets("FCIBillingChargingCharacteristics")
	sciBillingChargingCharacteristics = octets("SCIBillingChargingCharacteristics")
	informationToSend                 = schema.Opaque("InformationToSend")
	timerID                           = enum("TimerID")
	timerValue                        = integer("TimerValue")
)
