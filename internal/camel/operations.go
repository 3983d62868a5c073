package camel

import (
	"github.com/danmuck/camelwire/internal/protocol/schema"
	"github.com/danmuck/camelwire/internal/subdecoders"
)

// Sub-decoders for OCTET STRINGs that carry CAMEL encodings of their own.
const (
	DelegateAChBilling = "camel.aChBillingChargingCharacteristics"
	DelegateCallResult = "camel.callResult"
)

var (
	InitialDPArg = schema.Must(schema.ExtensibleSequence("InitialDPArg",
		schema.Field("serviceKey", serviceKey).Implicit(ctx(0)),
		schema.Field("calledPartyNumber", calledPartyNumber).Implicit(ctx(2)).Optional(),
		schema.Field("callingPartyNumber", callingPartyNumber).Implicit(ctx(3)).Optional(),
		schema.Field("callingPartysCategory", callingPartysCategory).Implicit(ctx(5)).Optional(),
		schema.Field("cGEncountered", cgEncountered).Implicit(ctx(7)).Optional(),
		schema.Field("iPSSPCapabilities", ipSSPCapabilities).Implicit(ctx(8)).Optional(),
		schema.Field("locationNumber", locationNumber).Implicit(ctx(10)).Optional(),
		schema.Field("originalCalledPartyID", originalCalledPartyID).Implicit(ctx(12)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(15)).Optional(),
		schema.Field("highLayerCompatibility", highLayerCompatibility).Implicit(ctx(23)).Optional(),
		schema.Field("additionalCallingPartyNumber", digits).Implicit(ctx(25)).Optional(),
		schema.Field("bearerCapability", bearerCapability).Explicit(ctx(27)).Optional(),
		schema.Field("eventTypeBCSM", eventTypeBCSM).Implicit(ctx(28)).Optional(),
		schema.Field("redirectingPartyID", redirectingPartyID).Implicit(ctx(29)).Optional(),
		schema.Field("redirectionInformation", redirectionInformation).Implicit(ctx(30)).Optional(),
		schema.Field("cause", cause).Implicit(ctx(17)).Optional(),
		schema.Field("serviceInteractionIndicatorsTwo", serviceInteractionIndicatorsTwo).Implicit(ctx(32)).Optional(),
		schema.Field("carrier", carrier).Implicit(ctx(37)).Optional(),
		schema.Field("cug-Index", cugIndex).Implicit(ctx(45)).Optional(),
		schema.Field("cug-Interlock", cugInterlock).Implicit(ctx(46)).Optional(),
		schema.Field("cug-OutgoingAccess", schema.Null()).Implicit(ctx(47)).Optional(),
		schema.Field("iMSI", imsi).Implicit(ctx(50)).Optional(),
		schema.Field("subscriberState", subscriberState).Explicit(ctx(51)).Optional(),
		schema.Field("locationInformation", locationInformation).Implicit(ctx(52)).Optional(),
		schema.Field("ext-basicServiceCode", extBasicServiceCode).Explicit(ctx(53)).Optional(),
		schema.Field("callReferenceNumber", callReferenceNumber).Implicit(ctx(54)).Optional(),
		schema.Field("mscAddress", isdnAddressString).Implicit(ctx(55)).Optional(),
		schema.Field("calledPartyBCDNumber", calledPartyBCDNumber).Implicit(ctx(56)).Optional(),
		schema.Field("timeAndTimezone", timeAndTimezone).Implicit(ctx(57)).Optional(),
		schema.Field("callForwardingSS-Pending", schema.Null()).Implicit(ctx(58)).Optional(),
		schema.Field("initialDPArgExtension", structure("InitialDPArgExtension")).Implicit(ctx(59)).Optional(),
	))

	ConnectArg = schema.Must(schema.ExtensibleSequence("ConnectArg",
		schema.Field("destinationRoutingAddress", schema.Must(schema.SequenceOf("DestinationRoutingAddress", calledPartyNumber))).Implicit(ctx(0)),
		schema.Field("alertingPattern", octets("AlertingPattern")).Implicit(ctx(1)).Optional(),
		schema.Field("originalCalledPartyID", originalCalledPartyID).Implicit(ctx(6)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(10)).Optional(),
		schema.Field("carrier", carrier).Implicit(ctx(11)).Optional(),
		schema.Field("callingPartysCategory", callingPartysCategory).Implicit(ctx(28)).Optional(),
		schema.Field("redirectingPartyID", redirectingPartyID).Implicit(ctx(29)).Optional(),
		schema.Field("redirectionInformation", redirectionInformation).Implicit(ctx(30)).Optional(),
		schema.Field("genericNumbers", schema.Must(schema.SetOf("GenericNumbers", genericNumber))).Implicit(ctx(14)).Optional(),
		schema.Field("serviceInteractionIndicatorsTwo", serviceInteractionIndicatorsTwo).Implicit(ctx(15)).Optional(),
		schema.Field("chargeNumber", number("ChargeNumber", subdecoders.NameCallingPartyNumber)).Implicit(ctx(19)).Optional(),
		schema.Field("legToBeConnected", legID).Explicit(ctx(21)).Optional(),
		schema.Field("cug-Interlock", cugInterlock).Implicit(ctx(31)).Optional(),
		schema.Field("cug-OutgoingAccess", schema.Null()).Implicit(ctx(32)).Optional(),
		schema.Field("suppressionOfAnnouncement", schema.Null()).Implicit(ctx(55)).Optional(),
		schema.Field("oCSIApplicable", schema.Null()).Implicit(ctx(56)).Optional(),
		schema.Field("naOliInfo", octets("NAOliInfo")).Implicit(ctx(57)).Optional(),
		schema.Field("bor-InterrogationRequested", schema.Null()).Implicit(ctx(58)).Optional(),
		schema.Field("suppress-N-CSI", schema.Null()).Implicit(ctx(59)).Optional(),
	))

	ReleaseCallArg = schema.Must(schema.Choice("ReleaseCallArg",
		schema.Field("initialCallSegment", cause),
		schema.Field("allCallSegments", structure("AllCallSegments")).Implicit(ctx(2)),
	))

	bcsmEvent = schema.Must(schema.ExtensibleSequence("BCSMEvent",
		schema.Field("eventTypeBCSM", eventTypeBCSM).Implicit(ctx(0)),
		schema.Field("monitorMode", monitorMode).Implicit(ctx(1)),
		schema.Field("legID", legID).Explicit(ctx(2)).Optional(),
		schema.Field("dpSpecificCriteria", dpSpecificCriteria).Explicit(ctx(30)).Optional(),
		schema.Field("automaticRearm", schema.Null()).Implicit(ctx(50)).Optional(),
	))

	RequestReportBCSMEventArg = schema.Must(schema.ExtensibleSequence("RequestReportBCSMEventArg",
		schema.Field("bcsmEvents", schema.Must(schema.SequenceOf("BCSMEvents", bcsmEvent))).Implicit(ctx(0)),
		schema.Field("extensions", extensions).Implicit(ctx(2)).Optional(),
	))

	EventReportBCSMArg = schema.Must(schema.ExtensibleSequence("EventReportBCSMArg",
		schema.Field("eventTypeBCSM", eventTypeBCSM).Implicit(ctx(0)),
		schema.Field("eventSpecificInformationBCSM", schema.Opaque("EventSpecificInformationBCSM")).Explicit(ctx(2)).Optional(),
		schema.Field("legID", receivingSideID).Explicit(ctx(3)).Optional(),
		schema.Field("miscCallInfo", miscCallInfo).Implicit(ctx(4)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(5)).Optional(),
	))

	ResetTimerArg = schema.Must(schema.ExtensibleSequence("ResetTimerArg",
		schema.Field("timerID", timerID).Implicit(ctx(0)).Optional(),
		schema.Field("timervalue", timerValue).Implicit(ctx(1)),
		schema.Field("extensions", extensions).Implicit(ctx(2)).Optional(),
		schema.Field("callSegmentID", callSegmentID).Implicit(ctx(3)).Optional(),
	))

	FurnishChargingInformationArg = fciBillingChargingCharacteristics

	ApplyChargingArg = schema.Must(schema.ExtensibleSequence("ApplyChargingArg",
		schema.Field("aChBillingChargingCharacteristics", schema.Delegated(DelegateAChBilling)).Implicit(ctx(0)),
		schema.Field("partyToCharge", sendingSideID).Explicit(ctx(2)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(3)).Optional(),
		schema.Field("aChChargingAddress", schema.Opaque("AChChargingAddress")).Explicit(ctx(50)).Optional(),
	))

	ApplyChargingReportArg = schema.Named("CallResult", schema.Delegated(DelegateCallResult))

	CallInformationRequestArg = schema.Must(schema.ExtensibleSequence("CallInformationRequestArg",
		schema.Field("requestedInformationTypeList", schema.Must(schema.SequenceOf("RequestedInformationTypeList", enum("RequestedInformationType")))).Implicit(ctx(0)),
		schema.Field("extensions", extensions).Implicit(ctx(2)).Optional(),
		schema.Field("legID", sendingSideID).Explicit(ctx(3)).Optional(),
	))

	requestedInformationValue = schema.Must(schema.Choice("RequestedInformationValue",
		schema.Field("callAttemptElapsedTimeValue", integer("CallAttemptElapsedTimeValue")).Implicit(ctx(0)),
		schema.Field("callStopTimeValue", octets("DateAndTime")).Implicit(ctx(1)),
		schema.Field("callConnectedElapsedTimeValue", integer("Integer4")).Implicit(ctx(2)),
		schema.Field("releaseCauseValue", cause).Implicit(ctx(30)),
	))

	requestedInformation = schema.Must(schema.ExtensibleSequence("RequestedInformation",
		schema.Field("requestedInformationType", enum("RequestedInformationType")).Implicit(ctx(0)),
		schema.Field("requestedInformationValue", requestedInformationValue).Explicit(ctx(1)),
	))

	CallInformationReportArg = schema.Must(schema.ExtensibleSequence("CallInformationReportArg",
		schema.Field("requestedInformationList", schema.Must(schema.SequenceOf("RequestedInformationList", requestedInformation))).Implicit(ctx(0)),
		schema.Field("extensions", extensions).Implicit(ctx(2)).Optional(),
		schema.Field("legID", receivingSideID).Explicit(ctx(3)).Optional(),
	))

	collectedDigits = schema.Must(schema.ExtensibleSequence("CollectedDigits",
		schema.Field("minimumNbOfDigits", schema.Integer()).Implicit(ctx(0)).Optional(),
		schema.Field("maximumNbOfDigits", schema.Integer()).Implicit(ctx(1)),
		schema.Field("endOfReplyDigit", octets("EndOfReplyDigit")).Implicit(ctx(2)).Optional(),
		schema.Field("cancelDigit", octets("CancelDigit")).Implicit(ctx(3)).Optional(),
		schema.Field("startDigit", octets("StartDigit")).Implicit(ctx(4)).Optional(),
		schema.Field("firstDigitTimeOut", schema.Integer()).Implicit(ctx(5)).Optional(),
		schema.Field("interDigitTimeOut", schema.Integer()).Implicit(ctx(6)).Optional(),
		schema.Field("errorTreatment", enum("ErrorTreatment")).Implicit(ctx(7)).Optional(),
		schema.Field("interruptableAnnInd", schema.Boolean()).Implicit(ctx(8)).Optional(),
		schema.Field("voiceInformation", schema.Boolean()).Implicit(ctx(9)).Optional(),
		schema.Field("voiceBack", schema.Boolean()).Implicit(ctx(10)).Optional(),
	))

	collectedInfo = schema.Must(schema.Choice("CollectedInfo",
		schema.Field("collectedDigits", collectedDigits).Implicit(ctx(0)),
	))

	PromptAndCollectUserInformationArg = schema.Must(schema.ExtensibleSequence("PromptAndCollectUserInformationArg",
		schema.Field("collectedInfo", collectedInfo).Explicit(ctx(0)),
		schema.Field("disconnectFromIPForbidden", schema.Boolean()).Implicit(ctx(1)).Optional(),
		schema.Field("informationToSend", informationToSend).Explicit(ctx(2)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(3)).Optional(),
		schema.Field("callSegmentID", callSegmentID).Implicit(ctx(4)).Optional(),
		schema.Field("requestAnnouncementStartedNotification", schema.Null()).Implicit(ctx(51)).Optional(),
	))

	ReceivedInformationArg = schema.Must(schema.Choice("ReceivedInformationArg",
		schema.Field("digitsResponse", digits).Implicit(ctx(0)),
	))

	CancelArg = schema.Must(schema.Choice("CancelArg",
		schema.Field("invokeID", integer("InvokeID")).Implicit(ctx(0)),
		schema.Field("allRequests", schema.Null()).Implicit(ctx(1)),
		schema.Field("callSegmentToCancel", structure("CallSegmentToCancel")).Implicit(ctx(2)),
	))

	ConnectToResourceArg = schema.Must(schema.ExtensibleSequence("ConnectToResourceArg",
		schema.Field("resourceAddress", schema.Must(schema.Choice("ResourceAddress",
			schema.Field("ipRoutingAddress", calledPartyNumber).Implicit(ctx(0)),
			schema.Field("none", schema.Null()).Implicit(ctx(3)),
		))),
		schema.Field("extensions", extensions).Implicit(ctx(4)).Optional(),
		schema.Field("serviceInteractionIndicatorsTwo", serviceInteractionIndicatorsTwo).Implicit(ctx(7)).Optional(),
		schema.Field("callSegmentID", callSegmentID).Implicit(ctx(50)).Optional(),
	))

	EstablishTemporaryConnectionArg = schema.Must(schema.ExtensibleSequence("EstablishTemporaryConnectionArg",
		schema.Field("assistingSSPIPRoutingAddress", digits).Implicit(ctx(0)),
		schema.Field("correlationID", digits).Implicit(ctx(1)).Optional(),
		schema.Field("scfID", octets("ScfID")).Implicit(ctx(3)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(4)).Optional(),
		schema.Field("carrier", carrier).Implicit(ctx(5)).Optional(),
		schema.Field("serviceInteractionIndicatorsTwo", serviceInteractionIndicatorsTwo).Implicit(ctx(6)).Optional(),
	))

	AssistRequestInstructionsArg = schema.Must(schema.ExtensibleSequence("AssistRequestInstructionsArg",
		schema.Field("correlationID", digits).Implicit(ctx(0)),
		schema.Field("iPSSPCapabilities", ipSSPCapabilities).Implicit(ctx(2)),
		schema.Field("extensions", extensions).Implicit(ctx(3)).Optional(),
	))

	PlayAnnouncementArg = schema.Must(schema.ExtensibleSequence("PlayAnnouncementArg",
		schema.Field("informationToSend", informationToSend).Explicit(ctx(0)),
		schema.Field("disconnectFromIPForbidden", schema.Boolean()).Implicit(ctx(1)).Optional(),
		schema.Field("requestAnnouncementCompleteNotification", schema.Boolean()).Implicit(ctx(2)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(3)).Optional(),
		schema.Field("callSegmentID", callSegmentID).Implicit(ctx(5)).Optional(),
		schema.Field("requestAnnouncementStartedNotification", schema.Null()).Implicit(ctx(51)).Optional(),
	))

	SendChargingInformationArg = schema.Must(schema.ExtensibleSequence("SendChargingInformationArg",
		schema.Field("sCIBillingChargingCharacteristics", sciBillingChargingCharacteristics).Implicit(ctx(0)),
		schema.Field("partyToCharge", sendingSideID).Explicit(ctx(1)),
		schema.Field("extensions", extensions).Implicit(ctx(2)).Optional(),
	))

	DisconnectLegArg = schema.Must(schema.ExtensibleSequence("DisconnectLegArg",
		schema.Field("legToBeReleased", legID).Explicit(ctx(0)),
		schema.Field("releaseCause", cause).Implicit(ctx(1)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(2)).Optional(),
	))

	MoveLegArg = schema.Must(schema.ExtensibleSequence("MoveLegArg",
		schema.Field("legIDToMove", legID).Explicit(ctx(0)),
		schema.Field("extensions", extensions).Implicit(ctx(2)).Optional(),
	))

	SplitLegArg = schema.Must(schema.ExtensibleSequence("SplitLegArg",
		schema.Field("legToBeSplit", legID).Explicit(ctx(0)),
		schema.Field("newCallSegment", callSegmentID).Implicit(ctx(1)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(2)).Optional(),
	))

	EntityReleasedArg = schema.Must(schema.Choice("EntityReleasedArg",
		schema.Field("callSegmentFailure", structure("CallSegmentFailure")).Implicit(ctx(0)),
		schema.Field("bCSM-Failure", structure("BCSM-Failure")).Implicit(ctx(1)),
	))

	InitialDPSMSArg = schema.Must(schema.ExtensibleSequence("InitialDPSMSArg",
		schema.Field("serviceKey", serviceKey).Implicit(ctx(0)),
		schema.Field("destinationSubscriberNumber", calledPartyBCDNumber).Implicit(ctx(1)).Optional(),
		schema.Field("callingPartyNumber", addressString).Implicit(ctx(2)).Optional(),
		schema.Field("eventTypeSMS", eventTypeSMS).Implicit(ctx(3)).Optional(),
		schema.Field("iMSI", imsi).Implicit(ctx(4)).Optional(),
		schema.Field("locationInformationMSC", locationInformation).Implicit(ctx(5)).Optional(),
		schema.Field("locationInformationGPRS", structure("LocationInformationGPRS")).Implicit(ctx(6)).Optional(),
		schema.Field("sMSCAddress", isdnAddressString).Implicit(ctx(7)).Optional(),
		schema.Field("timeAndTimezone", timeAndTimezone).Implicit(ctx(8)).Optional(),
		schema.Field("tPShortMessageSpecificInfo", octets("TPShortMessageSpecificInfo")).Implicit(ctx(9)).Optional(),
		schema.Field("tPProtocolIdentifier", octets("TPProtocolIdentifier")).Implicit(ctx(10)).Optional(),
		schema.Field("tPDataCodingScheme", octets("TPDataCodingScheme")).Implicit(ctx(11)).Optional(),
		schema.Field("tPValidityPeriod", schema.Opaque("TPValidityPeriod")).Explicit(ctx(12)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(13)).Optional(),
		schema.Field("smsReferenceNumber", callReferenceNumber).Implicit(ctx(14)).Optional(),
		schema.Field("mscAddress", isdnAddressString).Implicit(ctx(15)).Optional(),
		schema.Field("sgsn-Number", isdnAddressString).Implicit(ctx(16)).Optional(),
		schema.Field("ms-Classmark2", octets("MS-Classmark2")).Implicit(ctx(17)).Optional(),
		schema.Field("gPRSMSClass", structure("GPRSMSClass")).Implicit(ctx(18)).Optional(),
		schema.Field("iMEI", number("IMEI", subdecoders.NameTBCD)).Implicit(ctx(19)).Optional(),
		schema.Field("calledPartyNumber", isdnAddressString).Implicit(ctx(20)).Optional(),
	))

	ConnectSMSArg = schema.Must(schema.ExtensibleSequence("ConnectSMSArg",
		schema.Field("callingPartysNumber", addressString).Implicit(ctx(0)).Optional(),
		schema.Field("destinationSubscriberNumber", calledPartyBCDNumber).Implicit(ctx(1)).Optional(),
		schema.Field("sMSCAddress", isdnAddressString).Implicit(ctx(2)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(10)).Optional(),
	))

	ReleaseSMSArg = octets("RPCause")

	smsEvent = schema.Must(schema.Sequence("SMSEvent",
		schema.Field("eventTypeSMS", eventTypeSMS).Implicit(ctx(0)),
		schema.Field("monitorMode", monitorMode).Implicit(ctx(1)),
	))

	RequestReportSMSEventArg = schema.Must(schema.ExtensibleSequence("RequestReportSMSEventArg",
		schema.Field("sMSEvents", schema.Must(schema.SequenceOf("SMSEvents", smsEvent))).Implicit(ctx(0)),
		schema.Field("extensions", extensions).Implicit(ctx(10)).Optional(),
	))

	EventReportSMSArg = schema.Must(schema.ExtensibleSequence("EventReportSMSArg",
		schema.Field("eventTypeSMS", eventTypeSMS).Implicit(ctx(0)),
		schema.Field("eventSpecificInformationSMS", schema.Opaque("EventSpecificInformationSMS")).Explicit(ctx(1)).Optional(),
		schema.Field("miscCallInfo", miscCallInfo).Implicit(ctx(2)).Optional(),
		schema.Field("extensions", extensions).Implicit(ctx(10)).Optional(),
	))

	FurnishChargingInformationSMSArg = octets("FCISMSBillingChargingCharacteristics")

	ResetTimerSMSArg = schema.Must(schema.ExtensibleSequence("ResetTimerSMSArg",
		schema.Field("timerID", timerID).Implicit(ctx(0)).Optional(),
		schema.Field("timervalue", timerValue).Implicit(ctx(1)),
		schema.Field("extensions", extensions).Implicit(ctx(2)).Optional(),
	))
)

// Contents of the OCTET STRINGs handed to DelegateAChBilling and
// DelegateCallResult.
var (
	AChBillingChargingCharacteristics = schema.Must(schema.Choice("CAMEL-AChBillingChargingCharacteristics",
		schema.Field("timeDurationCharging", schema.Must(schema.ExtensibleSequence("TimeDurationCharging",
			schema.Field("maxCallPeriodDuration", schema.Integer()).Implicit(ctx(0)),
			schema.Field("releaseIfdurationExceeded", schema.Boolean()).Implicit(ctx(1)).Optional(),
			schema.Field("tariffSwitchInterval", schema.Integer()).Implicit(ctx(2)).Optional(),
			schema.Field("audibleIndicator", schema.Opaque("AudibleIndicator")).Explicit(ctx(3)).Optional(),
			schema.Field("extensions", extensions).Implicit(ctx(4)).Optional(),
		))).Implicit(ctx(0)),
	))

	timeInformation = schema.Must(schema.Choice("TimeInformation",
		schema.Field("timeIfNoTariffSwitch", schema.Integer()).Implicit(ctx(0)),
		schema.Field("timeIfTariffSwitch", schema.Must(schema.Sequence("TimeIfTariffSwitch",
			schema.Field("timeSinceTariffSwitch", schema.Integer()).Implicit(ctx(0)),
			schema.Field("tariffSwitchInterval", schema.Integer()).Implicit(ctx(1)).Optional(),
		))).Implicit(ctx(1)),
	))

	CallResult = schema.Must(schema.Choice("CAMEL-CallResult",
		schema.Field("timeDurationChargingResult", schema.Must(schema.ExtensibleSequence("TimeDurationChargingResult",
			schema.Field("partyToCharge", receivingSideID).Explicit(ctx(0)),
			schema.Field("timeInformation", timeInformation).Explicit(ctx(1)),
			schema.Field("legActive", schema.Boolean()).Implicit(ctx(2)).Optional(),
			schema.Field("callLegReleasedAtTcpExpiry", schema.Null()).Implicit(ctx(3)).Optional(),
			schema.Field("extensions", extensions).Implicit(ctx(4)).Optional(),
			schema.Field("aChChargingAddress", schema.Opaque("AChChargingAddress")).Explicit(ctx(5)).Optional(),
		))).Implicit(ctx(0)),
	))
)
