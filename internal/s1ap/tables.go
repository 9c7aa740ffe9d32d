package s1ap

import "strconv"

// ProcedureName maps an S1AP procedure code to its elementary procedure
// name (TS 36.413 §9.1). Unassigned codes map to "Unknown".
func ProcedureName(code int) string {
	switch code {
	case 0:
		return "HandoverPreparation"
	case 1:
		return "HandoverResourceAllocation"
	case 2:
		return "HandoverNotification"
	case 3:
		return "PathSwitchRequest"
	case 4:
		return "HandoverCancel"
	case 5:
		return "E-RABSetup"
	case 6:
		return "E-RABModify"
	case 7:
		return "E-RABRelease"
	case 8:
		return "E-RABReleaseIndication"
	case 9:
		return "InitialContextSetup"
	case 10:
		return "Paging"
	case 11:
		return "downlinkNASTransport"
	case 12:
		return "initialUEMessage"
	case 13:
		return "uplinkNASTransport"
	case 14:
		return "Reset"
	case 15:
		return "ErrorIndication"
	case 16:
		return "NASNonDeliveryIndication"
	case 17:
		return "S1Setup"
	case 18:
		return "UEContextReleaseRequest"
	case 19:
		return "DownlinkS1cdma2000tunneling"
	case 20:
		return "UplinkS1cdma2000tunneling"
	case 21:
		return "UEContextModification"
	case 22:
		return "UECapabilityInfoIndication"
	case 23:
		return "UEContextRelease"
	case 24:
		return "eNBStatusTransfer"
	case 25:
		return "MMEStatusTransfer"
	case 26:
		return "DeactivateTrace"
	case 27:
		return "TraceStart"
	case 28:
		return "TraceFailureIndication"
	case 29:
		return "ENBConfigurationUpdate"
	case 30:
		return "MMEConfigurationUpdate"
	case 31:
		return "LocationReportingControl"
	case 32:
		return "LocationReportingFailureIndication"
	case 33:
		return "LocationReport"
	case 34:
		return "OverloadStart"
	case 35:
		return "OverloadStop"
	case 36:
		return "WriteReplaceWarning"
	case 37:
		return "eNBDirectInformationTransfer"
	case 38:
		return "MMEDirectInformationTransfer"
	case 39:
		return "PrivateMessage"
	case 40:
		return "eNBConfigurationTransfer"
	case 41:
		return "MMEConfigurationTransfer"
	case 42:
		return "CellTrafficTrace"
	case 43:
		return "Kill"
	case 44:
		return "downlinkUEAssociatedLPPaTransport"
	case 45:
		return "uplinkUEAssociatedLPPaTransport"
	case 46:
		return "downlinkNonUEAssociatedLPPaTransport"
	case 47:
		return "uplinkNonUEAssociatedLPPaTransport"
	default:
		return "Unknown"
	}
}

// IEName maps a ProtocolIE-ID to its name. IDs with no assignment in
// the supported range keep a stable "Unknown-N" name; anything outside
// the table becomes "IE_<id>".
func IEName(id uint16) string {
	switch id {
	case 0:
		return "MME-UE-S1AP-ID"
	case 1:
		return "HandoverType"
	case 2:
		return "Cause"
	case 3:
		return "SourceID"
	case 4:
		return "TargetID"
	case 5:
		return "Unknown-5"
	case 6:
		return "Unknown-6"
	case 7:
		return "Unknown-7"
	case 8:
		return "eNB-UE-S1AP-ID"
	case 9:
		return "Unknown-9"
	case 10:
		return "Unknown-10"
	case 11:
		return "Unknown-11"
	case 12:
		return "E-RABSubjecttoDataForwardingList"
	case 13:
		return "E-RABtoReleaseListHOCmd"
	case 14:
		return "E-RABDataForwardingItem"
	case 15:
		return "E-RABReleaseItemBearerRelComp"
	case 16:
		return "E-RABToBeSetupListBearerSUReq"
	case 17:
		return "E-RABToBeSetupItemBearerSUReq"
	case 18:
		return "E-RABAdmittedList"
	case 19:
		return "E-RABFailedToSetupListHOReqAck"
	case 20:
		return "E-RABAdmittedItem"
	case 21:
		return "E-RABFailedtoSetupItemHOReqAck"
	case 22:
		return "E-RABToBeSwitchedDLList"
	case 23:
		return "E-RABToBeSwitchedDLItem"
	case 24:
		return "E-RABToBeSetupListCtxtSUReq"
	case 25:
		return "TraceActivation"
	case 26:
		return "NAS-PDU"
	case 27:
		return "E-RABToBeSetupItemHOReq"
	case 28:
		return "E-RABSetupListBearerSURes"
	case 29:
		return "E-RABFailedToSetupListBearerSURes"
	case 30:
		return "E-RABToBeModifiedListBearerModReq"
	case 31:
		return "E-RABModifyListBearerModRes"
	case 32:
		return "E-RABFailedToModifyList"
	case 33:
		return "E-RABToBeReleasedList"
	case 34:
		return "E-RABFailedToReleaseList"
	case 35:
		return "E-RABItem"
	case 36:
		return "E-RABToBeModifiedItemBearerModReq"
	case 37:
		return "E-RABModifyItemBearerModRes"
	case 38:
		return "E-RABReleaseItem"
	case 39:
		return "E-RABSetupItemBearerSURes"
	case 40:
		return "SecurityContext"
	case 41:
		return "HandoverRestrictionList"
	case 42:
		return "Unknown-42"
	case 43:
		return "UEPagingID"
	case 44:
		return "pagingDRX"
	case 45:
		return "Unknown-45"
	case 46:
		return "TAIList"
	case 47:
		return "TAIItem"
	case 48:
		return "E-RABFailedToSetupListCtxtSURes"
	case 49:
		return "E-RABReleaseItemHOCmd"
	case 50:
		return "E-RABSetupItemCtxtSURes"
	case 51:
		return "E-RABSetupListCtxtSURes"
	case 52:
		return "E-RABToBeSetupItemCtxtSUReq"
	case 53:
		return "E-RABToBeSetupListHOReq"
	case 54:
		return "Unknown-54"
	case 55:
		return "GERANtoLTEHOInformationRes"
	case 56:
		return "Unknown-56"
	case 57:
		return "UTRANtoLTEHOInformationRes"
	case 58:
		return "CriticalityDiagnostics"
	case 59:
		return "Global-ENB-ID"
	case 60:
		return "eNBname"
	case 61:
		return "MMEname"
	case 62:
		return "Unknown-62"
	case 63:
		return "ServedPLMNs"
	case 64:
		return "SupportedTAs"
	case 65:
		return "TimeToWait"
	case 66:
		return "uEaggregateMaximumBitrate"
	case 67:
		return "TAI"
	case 68:
		return "Unknown-68"
	case 69:
		return "E-RABReleaseListBearerRelComp"
	case 70:
		return "cdma2000PDU"
	case 71:
		return "cdma2000RATType"
	case 72:
		return "cdma2000SectorID"
	case 73:
		return "SecurityKey"
	case 74:
		return "UERadioCapability"
	case 75:
		return "GUMMEI-ID"
	case 76:
		return "Unknown-76"
	case 77:
		return "Unknown-77"
	case 78:
		return "E-RABInformationListItem"
	case 79:
		return "Direct-Forwarding-Path-Availability"
	case 80:
		return "UEIdentityIndexValue"
	case 81:
		return "Unknown-81"
	case 82:
		return "Unknown-82"
	case 83:
		return "cdma2000HOStatus"
	case 84:
		return "cdma2000HORequiredIndication"
	case 85:
		return "Unknown-85"
	case 86:
		return "E-UTRAN-Trace-ID"
	case 87:
		return "RelativeMMECapacity"
	case 88:
		return "SourceMME-UE-S1AP-ID"
	case 89:
		return "Bearers-SubjectToStatusTransfer-Item"
	case 90:
		return "eNB-StatusTransfer-TransparentContainer"
	case 91:
		return "UE-associatedLogicalS1-ConnectionItem"
	case 92:
		return "ResetType"
	case 93:
		return "UE-associatedLogicalS1-ConnectionListResAck"
	case 94:
		return "E-RABToBeSwitchedULItem"
	case 95:
		return "E-RABToBeSwitchedULList"
	case 96:
		return "S-TMSI"
	case 97:
		return "cdma2000OneXRAND"
	case 98:
		return "RequestType"
	case 99:
		return "UE-S1AP-IDs"
	case 100:
		return "EUTRAN-CGI"
	case 101:
		return "OverloadResponse"
	case 102:
		return "cdma2000OneXSRVCCInfo"
	case 103:
		return "E-RABFailedToBeReleasedList"
	case 104:
		return "Source-ToTarget-TransparentContainer"
	case 105:
		return "ServedGUMMEIs"
	case 106:
		return "SubscriberProfileIDforRFP"
	case 107:
		return "UESecurityCapabilities"
	case 108:
		return "CSFallbackIndicator"
	case 109:
		return "CNDomain"
	case 110:
		return "E-RABReleasedList"
	case 111:
		return "MessageIdentifier"
	case 112:
		return "SerialNumber"
	case 113:
		return "WarningAreaList"
	case 114:
		return "RepetitionPeriod"
	case 115:
		return "NumberofBroadcastRequest"
	case 116:
		return "WarningType"
	case 117:
		return "WarningSecurityInfo"
	case 118:
		return "DataCodingScheme"
	case 119:
		return "WarningMessageContents"
	case 120:
		return "BroadcastCompletedAreaList"
	case 121:
		return "Inter-SystemInformationTransferTypeEDT"
	case 122:
		return "Inter-SystemInformationTransferTypeMDT"
	case 123:
		return "Target-ToSource-TransparentContainer"
	case 124:
		return "SRVCCOperationPossible"
	case 125:
		return "SRVCCHOIndication"
	case 126:
		return "NAS-DownlinkCount"
	case 127:
		return "CSG-Id"
	case 128:
		return "CSG-IdList"
	case 129:
		return "SONConfigurationTransferECT"
	case 130:
		return "SONConfigurationTransferMCT"
	case 131:
		return "TraceCollectionEntityIPAddress"
	case 132:
		return "MSClassmark2"
	case 133:
		return "MSClassmark3"
	case 134:
		return "RRC-Establishment-Cause"
	case 135:
		return "NASSecurityParametersfromE-UTRAN"
	case 136:
		return "NASSecurityParameterstoE-UTRAN"
	case 137:
		return "DefaultPagingDRX"
	case 138:
		return "Source-ToTarget-TransparentContainer-Secondary"
	case 139:
		return "Target-ToSource-TransparentContainer-Secondary"
	case 140:
		return "EUTRANRoundTripDelayEstimationInfo"
	case 141:
		return "BroadcastCancelledAreaList"
	case 142:
		return "ConcurrentWarningMessageIndicator"
	case 143:
		return "Data-Forwarding-Not-Possible"
	case 144:
		return "ExtendedRepetitionPeriod"
	case 145:
		return "CellAccessMode"
	case 146:
		return "CSGMembershipStatus"
	case 147:
		return "LPPa-PDU"
	case 148:
		return "Routing-ID"
	case 149:
		return "Time-Synchronization-Info"
	case 150:
		return "PS-ServiceNotAvailable"
	case 151:
		return "PagingPriority"
	case 152:
		return "x2TNLConfigurationInfo"
	case 153:
		return "eNBX2ExtendedTransportLayerAddresses"
	case 154:
		return "GUMMEIList"
	case 155:
		return "GW-TransportLayerAddress"
	case 156:
		return "Correlation-ID"
	case 157:
		return "SourceMME-GUMMEI"
	case 158:
		return "MME-UE-S1AP-ID-2"
	case 159:
		return "RegisteredLAI"
	case 160:
		return "RelayNode-Indicator"
	case 161:
		return "TrafficLoadReductionIndication"
	case 162:
		return "MDTConfiguration"
	case 163:
		return "MMERelaySupportIndicator"
	case 164:
		return "GWContextReleaseIndication"
	case 165:
		return "ManagementBasedMDTAllowed"
	default:
		return "IE_" + strconv.Itoa(int(id))
	}
}

// messageTypes maps procedure code to the per-PDU-type message names
// ([initiating, successful, unsuccessful]). Empty slots fall through to
// the procedure name.
var messageTypes = map[int][3]string{
	0:  {"HandoverRequired", "HandoverCommand", "HandoverPreparationFailure"},
	1:  {"HandoverRequest", "HandoverRequestAcknowledge", "HandoverFailure"},
	2:  {"HandoverNotify", "", ""},
	3:  {"PathSwitchRequest", "PathSwitchRequestAcknowledge", "PathSwitchRequestFailure"},
	4:  {"HandoverCancel", "HandoverCancelAcknowledge", ""},
	5:  {"E-RABSetupRequest", "E-RABSetupResponse", ""},
	6:  {"E-RABModifyRequest", "E-RABModifyResponse", ""},
	7:  {"E-RABReleaseCommand", "E-RABReleaseResponse", ""},
	8:  {"E-RABReleaseIndication", "", ""},
	9:  {"InitialContextSetupRequest", "InitialContextSetupResponse", "InitialContextSetupFailure"},
	10: {"Paging", "", ""},
	11: {"DownlinkNASTransport", "", ""},
	12: {"initialUEMessage", "", ""},
	13: {"UplinkNASTransport", "", ""},
	14: {"Reset", "ResetAcknowledge", ""},
	15: {"ErrorIndication", "", ""},
	16: {"NASNonDeliveryIndication", "", ""},
	17: {"S1SetupRequest", "S1SetupResponse", "S1SetupFailure"},
	18: {"UEContextReleaseRequest", "", ""},
	19: {"DownlinkS1cdma2000tunneling", "", ""},
	20: {"UplinkS1cdma2000tunneling", "", ""},
	21: {"UEContextModificationRequest", "UEContextModificationResponse", "UEContextModificationFailure"},
	22: {"UECapabilityInfoIndication", "", ""},
	23: {"UEContextReleaseCommand", "UEContextReleaseComplete", ""},
	24: {"ENBStatusTransfer", "", ""},
	25: {"MMEStatusTransfer", "", ""},
	26: {"DeactivateTrace", "", ""},
	27: {"TraceStart", "", ""},
	28: {"TraceFailureIndication", "", ""},
	29: {"ENBConfigurationUpdate", "ENBConfigurationUpdateAcknowledge", "ENBConfigurationUpdateFailure"},
	30: {"MMEConfigurationUpdate", "MMEConfigurationUpdateAcknowledge", "MMEConfigurationUpdateFailure"},
	31: {"LocationReportingControl", "", ""},
	32: {"LocationReportingFailureIndication", "", ""},
	33: {"LocationReport", "", ""},
	34: {"OverloadStart", "", ""},
	35: {"OverloadStop", "", ""},
	36: {"WriteReplaceWarningRequest", "WriteReplaceWarningResponse", ""},
	37: {"ENBDirectInformationTransfer", "", ""},
	38: {"MMEDirectInformationTransfer", "", ""},
	39: {"PrivateMessage", "", ""},
	40: {"ENBConfigurationTransfer", "", ""},
	41: {"MMEConfigurationTransfer", "", ""},
	42: {"CellTrafficTrace", "", ""},
	43: {"KillRequest", "KillResponse", ""},
	44: {"DownlinkUEAssociatedLPPaTransport", "", ""},
	45: {"UplinkUEAssociatedLPPaTransport", "", ""},
	46: {"DownlinkNonUEAssociatedLPPaTransport", "", ""},
	47: {"UplinkNonUEAssociatedLPPaTransport", "", ""},
}

// MessageType maps (procedure code, PDU type) to the canonical message
// name that rules match against. Procedures without a specific name for
// the given PDU type fall back to the procedure name.
func MessageType(code int, pduType PDUType) string {
	if names, ok := messageTypes[code]; ok && int(pduType) >= 0 && int(pduType) < 3 {
		if name := names[pduType]; name != "" {
			return name
		}
	}
	name := ProcedureName(code)
	if pduType == InitiatingMessage {
		return name
	}
	if name == "" {
		return "Unknown"
	}
	return name
}
