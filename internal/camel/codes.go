package camel

// Operation codes (3GPP TS 29.078).
const (
	OpInitialDP                               = 0
	OpAssistRequestInstructions               = 16
	OpEstablishTemporaryConnection            = 17
	OpDisconnectForwardConnection             = 18
	OpConnectToResource                       = 19
	OpConnect                                 = 20
	OpReleaseCall                             = 22
	OpRequestReportBCSMEvent                  = 23
	OpEventReportBCSM                         = 24
	OpCollectInformation                      = 27
	OpContinue                                = 31
	OpInitiateCallAttempt                     = 32
	OpResetTimer                              = 33
	OpFurnishChargingInformation              = 34
	OpApplyCharging                           = 35
	OpApplyChargingReport                     = 36
	OpCallGap                                 = 41
	OpCallInformationReport                   = 44
	OpCallInformationRequest                  = 45
	OpSendChargingInformation                 = 46
	OpPlayAnnouncement                        = 47
	OpPromptAndCollectUserInformation         = 48
	OpSpecializedResourceReport               = 49
	OpCancel                                  = 53
	OpActivityTest                            = 55
	OpInitialDPSMS                            = 60
	OpFurnishChargingInformationSMS           = 61
	OpConnectSMS                              = 62
	OpRequestReportSMSEvent                   = 63
	OpEventReportSMS                          = 64
	OpContinueSMS                             = 65
	OpReleaseSMS                              = 66
	OpResetTimerSMS                           = 67
	OpActivityTestGPRS                        = 70
	OpApplyChargingGPRS                       = 71
	OpApplyChargingReportGPRS                 = 72
	OpCancelGPRS                              = 73
	OpConnectGPRS                             = 74
	OpContinueGPRS                            = 75
	OpEntityReleasedGPRS                      = 76
	OpFurnishChargingInformationGPRS          = 77
	OpInitialDPGPRS                           = 78
	OpReleaseGPRS                             = 79
	OpEventReportGPRS                         = 80
	OpRequestReportGPRSEvent                  = 81
	OpResetTimerGPRS                          = 82
	OpSendChargingInformationGPRS             = 83
	OpDisconnectForwardConnectionWithArgument = 86
	OpContinueWithArgument                    = 88
	OpDisconnectLeg                           = 90
	OpMoveLeg                                 = 93
	OpSplitLeg                                = 95
	OpEntityReleased                          = 96
	OpPlayTone                                = 97
)

// Error codes.
const (
	ErrorCanceled                    = 0
	ErrorCancelFailed                = 1
	ErrorETCFailed                   = 3
	ErrorImproperCallerResponse      = 4
	ErrorMissingCustomerRecord       = 6
	ErrorMissingParameter            = 7
	ErrorParameterOutOfRange         = 8
	ErrorRequestedInfoError          = 10
	ErrorSystemFailure               = 11
	ErrorTaskRefused                 = 12
	ErrorUnavailableResource         = 13
	ErrorUnexpectedComponentSequence = 14
	ErrorUnexpectedDataValue         = 15
	ErrorUnexpectedParameter         = 16
	ErrorUnknownLegID                = 17
	ErrorUnknownPDPID                = 50
	ErrorUnknownCSID                 = 51
)
