package camel

import (
	"fmt"
	"strings"

	"github.com/danmuck/camelwire/internal/protocol/ros"
	"github.com/danmuck/camelwire/internal/protocol/schema"
)

// Phase is a CAMEL phase. Each phase adds operations and errors to the
// one before it.
type Phase int

const (
	Phase1 Phase = iota + 1
	Phase2
	Phase3
	Phase4

	Latest = Phase4
)

func (p Phase) String() string {
	if p < Phase1 || p > Latest {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return fmt.Sprintf("phase%d", int(p))
}

// ParsePhase accepts "1" through "4", optionally prefixed with "phase".
func ParsePhase(s string) (Phase, error) {
	t := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "phase")
	for p := Phase1; p <= Latest; p++ {
		if t == fmt.Sprint(int(p)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("camel: unknown phase %q", s)
}

type operation struct {
	code  int64
	name  string
	since Phase
	arg   *schema.Schema
	res   *schema.Schema
	// result marks operations that answer with a ReturnResult.
	result bool
}

// A nil arg leaves the argument of a known operation raw.
var operations = []operation{
	{code: OpInitialDP, name: "initialDP", since: Phase1, arg: InitialDPArg},
	{code: OpConnect, name: "connect", since: Phase1, arg: ConnectArg},
	{code: OpReleaseCall, name: "releaseCall", since: Phase1, arg: ReleaseCallArg},
	{code: OpRequestReportBCSMEvent, name: "requestReportBCSMEvent", since: Phase1, arg: RequestReportBCSMEventArg},
	{code: OpEventReportBCSM, name: "eventReportBCSM", since: Phase1, arg: EventReportBCSMArg},
	{code: OpContinue, name: "continue", since: Phase1},
	{code: OpActivityTest, name: "activityTest", since: Phase1, result: true},

	{code: OpAssistRequestInstructions, name: "assistRequestInstructions", since: Phase2, arg: AssistRequestInstructionsArg},
	{code: OpEstablishTemporaryConnection, name: "establishTemporaryConnection", since: Phase2, arg: EstablishTemporaryConnectionArg},
	{code: OpDisconnectForwardConnection, name: "disconnectForwardConnection", since: Phase2},
	{code: OpConnectToResource, name: "connectToResource", since: Phase2, arg: ConnectToResourceArg},
	{code: OpResetTimer, name: "resetTimer", since: Phase2, arg: ResetTimerArg},
	{code: OpFurnishChargingInformation, name: "furnishChargingInformation", since: Phase2, arg: FurnishChargingInformationArg},
	{code: OpApplyCharging, name: "applyCharging", since: Phase2, arg: ApplyChargingArg},
	{code: OpApplyChargingReport, name: "applyChargingReport", since: Phase2, arg: ApplyChargingReportArg},
	{code: OpCallInformationReport, name: "callInformationReport", since: Phase2, arg: CallInformationReportArg},
	{code: OpCallInformationRequest, name: "callInformationRequest", since: Phase2, arg: CallInformationRequestArg},
	{code: OpSendChargingInformation, name: "sendChargingInformation", since: Phase2, arg: SendChargingInformationArg},
	{code: OpPlayAnnouncement, name: "playAnnouncement", since: Phase2, arg: PlayAnnouncementArg},
	{code: OpPromptAndCollectUserInformation, name: "promptAndCollectUserInformation", since: Phase2, arg: PromptAndCollectUserInformationArg, res: ReceivedInformationArg, result: true},
	{code: OpSpecializedResourceReport, name: "specializedResourceReport", since: Phase2},
	{code: OpCancel, name: "cancel", since: Phase2, arg: CancelArg},

	{code: OpCallGap, name: "callGap", since: Phase3, arg: structure("CallGapArg")},
	{code: OpDisconnectForwardConnectionWithArgument, name: "disconnectForwardConnectionWithArgument", since: Phase3, arg: structure("DisconnectForwardConnectionWithArgumentArg")},
	{code: OpInitialDPSMS, name: "initialDPSMS", since: Phase3, arg: InitialDPSMSArg},
	{code: OpFurnishChargingInformationSMS, name: "furnishChargingInformationSMS", since: Phase3, arg: FurnishChargingInformationSMSArg},
	{code: OpConnectSMS, name: "connectSMS", since: Phase3, arg: ConnectSMSArg},
	{code: OpRequestReportSMSEvent, name: "requestReportSMSEvent", since: Phase3, arg: RequestReportSMSEventArg},
	{code: OpEventReportSMS, name: "eventReportSMS", since: Phase3, arg: EventReportSMSArg},
	{code: OpContinueSMS, name: "continueSMS", since: Phase3},
	{code: OpReleaseSMS, name: "releaseSMS", since: Phase3, arg: ReleaseSMSArg},
	{code: OpActivityTestGPRS, name: "activityTestGPRS", since: Phase3, result: true},
	{code: OpApplyChargingGPRS, name: "applyChargingGPRS", since: Phase3},
	{code: OpApplyChargingReportGPRS, name: "applyChargingReportGPRS", since: Phase3, result: true},
	{code: OpCancelGPRS, name: "cancelGPRS", since: Phase3},
	{code: OpConnectGPRS, name: "connectGPRS", since: Phase3},
	{code: OpContinueGPRS, name: "continueGPRS", since: Phase3},
	{code: OpEntityReleasedGPRS, name: "entityReleasedGPRS", since: Phase3, result: true},
	{code: OpFurnishChargingInformationGPRS, name: "furnishChargingInformationGPRS", since: Phase3},
	{code: OpInitialDPGPRS, name: "initialDPGPRS", since: Phase3},
	{code: OpReleaseGPRS, name: "releaseGPRS", since: Phase3},
	{code: OpEventReportGPRS, name: "eventReportGPRS", since: Phase3, result: true},
	{code: OpRequestReportGPRSEvent, name: "requestReportGPRSEvent", since: Phase3},
	{code: OpResetTimerGPRS, name: "resetTimerGPRS", since: Phase3},
	{code: OpSendChargingInformationGPRS, name: "sendChargingInformationGPRS", since: Phase3},

	{code: OpCollectInformation, name: "collectInformation", since: Phase4, arg: structure("CollectInformationArg")},
	{code: OpInitiateCallAttempt, name: "initiateCallAttempt", since: Phase4, arg: structure("InitiateCallAttemptArg"), res: structure("InitiateCallAttemptRes"), result: true},
	{code: OpContinueWithArgument, name: "continueWithArgument", since: Phase4, arg: structure("ContinueWithArgumentArg")},
	{code: OpDisconnectLeg, name: "disconnectLeg", since: Phase4, arg: DisconnectLegArg, result: true},
	{code: OpMoveLeg, name: "moveLeg", since: Phase4, arg: MoveLegArg, result: true},
	{code: OpSplitLeg, name: "splitLeg", since: Phase4, arg: SplitLegArg, result: true},
	{code: OpEntityReleased, name: "entityReleased", since: Phase4, arg: EntityReleasedArg},
	{code: OpPlayTone, name: "playTone", since: Phase4, arg: structure("PlayToneArg")},
	{code: OpResetTimerSMS, name: "resetTimerSMS", since: Phase4, arg: ResetTimerSMSArg},
}

type errorDef struct {
	code  int64
	name  string
	since Phase
	param *schema.Schema
}

var (
	CancelFailedParam = schema.Must(schema.Sequence("CancelFailedPARAM",
		schema.Field("problem", enum("CancelProblem")).Implicit(ctx(0)),
		schema.Field("operation", integer("InvokeID")).Implicit(ctx(1)),
	))
	RequestedInfoErrorParam = enum("RequestedInfoErrorParameter")
	SystemFailureParam      = enum("UnavailableNetworkResource")
	TaskRefusedParam        = enum("TaskRefusedParameter")
)

var errorDefs = []errorDef{
	{code: ErrorMissingCustomerRecord, name: "missingCustomerRecord", since: Phase1},
	{code: ErrorMissingParameter, name: "missingParameter", since: Phase1},
	{code: ErrorParameterOutOfRange, name: "parameterOutOfRange", since: Phase1},
	{code: ErrorSystemFailure, name: "systemFailure", since: Phase1, param: SystemFailureParam},
	{code: ErrorTaskRefused, name: "taskRefused", since: Phase1, param: TaskRefusedParam},
	{code: ErrorUnexpectedComponentSequence, name: "unexpectedComponentSequence", since: Phase1},
	{code: ErrorUnexpectedDataValue, name: "unexpectedDataValue", since: Phase1},
	{code: ErrorUnexpectedParameter, name: "unexpectedParameter", since: Phase1},

	{code: ErrorCanceled, name: "canceled", since: Phase2},
	{code: ErrorCancelFailed, name: "cancelFailed", since: Phase2, param: CancelFailedParam},
	{code: ErrorETCFailed, name: "eTCFailed", since: Phase2},
	{code: ErrorImproperCallerResponse, name: "improperCallerResponse", since: Phase2},
	{code: ErrorRequestedInfoError, name: "requestedInfoError", since: Phase2, param: RequestedInfoErrorParam},
	{code: ErrorUnavailableResource, name: "unavailableResource", since: Phase2},
	{code: ErrorUnknownLegID, name: "unknownLegID", since: Phase2},

	{code: ErrorUnknownPDPID, name: "unknownPDPID", since: Phase3},

	{code: ErrorUnknownCSID, name: "unknownCSID", since: Phase4},
}

var protocols = func() map[Phase]*ros.Protocol {
	out := make(map[Phase]*ros.Protocol, int(Latest))
	for p := Phase1; p <= Latest; p++ {
		out[p] = build(p)
	}
	return out
}()

func build(p Phase) *ros.Protocol {
	var args, results, errs []ros.Entry
	for _, op := range operations {
		if op.since > p {
			continue
		}
		args = append(args, entry(op.code, op.name, op.arg))
		if op.result {
			results = append(results, entry(op.code, op.name, op.res))
		}
	}
	for _, e := range errorDefs {
		if e.since > p {
			continue
		}
		errs = append(errs, entry(e.code, e.name, e.param))
	}
	name := "camel." + p.String()
	return &ros.Protocol{
		Name:      name,
		Arguments: ros.MustDispatchTable(name+".arguments", args...),
		Results:   ros.MustDispatchTable(name+".results", results...),
		Errors:    ros.MustDispatchTable(name+".errors", errs...),
	}
}

func entry(code int64, name string, s *schema.Schema) ros.Entry {
	if s == nil {
		return ros.Unparsed(ros.Local(code), name)
	}
	return ros.Register(ros.Local(code), name, s)
}

// ProtocolFor returns the dispatch tables of phase p. Phases outside the
// known range yield nil.
func ProtocolFor(p Phase) *ros.Protocol { return protocols[p] }

// Protocol returns the tables of the latest phase.
func Protocol() *ros.Protocol { return protocols[Latest] }

// OperationName returns the name of an operation code in any phase.
func OperationName(code int64) (string, bool) {
	for _, op := range operations {
		if op.code == code {
			return op.name, true
		}
	}
	return "", false
}

// ErrorName returns the name of an error code in any phase.
func ErrorName(code int64) (string, bool) {
	for _, e := range errorDefs {
		if e.code == code {
			return e.name, true
		}
	}
	return "", false
}
