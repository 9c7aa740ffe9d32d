package nas

// Security header types from TS 24.301.
const (
	PlainNAS                       = 0x00
	IntegrityProtected             = 0x01
	IntegrityProtectedCiphered     = 0x02
	IntegrityProtectedNewCtx       = 0x03
	IntegrityProtectedCipheredNCtx = 0x04
)

// Protocol discriminators.
const (
	ProtoEMM = 0x07
	ProtoESM = 0x02
)

// EMM message types.
const (
	MsgIdentityRequest         = 0x05
	MsgIdentityResponse        = 0x56
	MsgAuthenticationRequest   = 0x52
	MsgAuthenticationResponse  = 0x53
	MsgAuthenticationReject    = 0x54
	MsgAuthenticationFailure   = 0x5C
	MsgSecurityModeCommand     = 0x5D
	MsgSecurityModeComplete    = 0x5E
	MsgSecurityModeReject      = 0x5F
	MsgAttachRequest           = 0x41
	MsgAttachAccept            = 0x42
	MsgAttachReject            = 0x43
	MsgAttachComplete          = 0x44
	MsgDetachRequest           = 0x45
	MsgDetachAccept            = 0x46
	MsgTrackingAreaUpdateReq   = 0x48
	MsgTrackingAreaUpdateAcc   = 0x49
	MsgTrackingAreaUpdateRej   = 0x4A
	MsgTrackingAreaUpdateCmpl  = 0x4B
	MsgServiceRequest          = 0x4C
	MsgExtendedServiceRequest  = 0x4D
	MsgGUTIReallocationCommand = 0x50
	MsgGUTIReallocationCmpl    = 0x51
	MsgEMMStatus               = 0x60
	MsgEMMInformation          = 0x61
)

// Identity type indicators carried in the low three bits of the first
// identity byte.
const (
	identNone   = 0x00
	identIMSI   = 0x01
	identIMEI   = 0x02
	identIMEISV = 0x03
	identTMSI   = 0x04
	identTMGI   = 0x05
	identGUTI   = 0x06
)

// Header is the outer NAS header. PayloadOffset points at the message
// type byte: 1 for plain messages, 6 when a security header, MAC and
// sequence number precede the payload.
type Header struct {
	SecurityHeaderType byte
	ProtocolDiscrim    byte
	MessageType        byte
	PayloadOffset      int
	Valid              bool
}

// ParseHeader splits the first byte into security header type and
// protocol discriminator and locates the message type byte.
func ParseHeader(data []byte) Header {
	var h Header
	if len(data) < 1 {
		return h
	}

	firstByte := data[0]
	sht := (firstByte >> 4) & 0x0F
	pd := firstByte & 0x0F

	payloadOffset := 1
	if sht >= 1 && sht <= 4 {
		if len(data) < 6 {
			return h
		}
		payloadOffset = 6
	}
	if payloadOffset >= len(data) {
		return h
	}

	h.SecurityHeaderType = sht
	h.ProtocolDiscrim = pd
	h.MessageType = data[payloadOffset]
	h.PayloadOffset = payloadOffset
	h.Valid = true
	return h
}

func (h Header) IsPlain() bool {
	return h.Valid && h.SecurityHeaderType == PlainNAS
}

func (h Header) IsEMM() bool {
	return h.Valid && h.ProtocolDiscrim == ProtoEMM
}

// MessageTypeName names an EMM message type for diagnostics.
func MessageTypeName(messageType byte) string {
	switch messageType {
	case MsgIdentityRequest:
		return "Identity Request"
	case MsgIdentityResponse:
		return "Identity Response"
	case MsgAuthenticationRequest:
		return "Authentication Request"
	case MsgAuthenticationResponse:
		return "Authentication Response"
	case MsgAuthenticationReject:
		return "Authentication Reject"
	case MsgAuthenticationFailure:
		return "Authentication Failure"
	case MsgSecurityModeCommand:
		return "Security Mode Command"
	case MsgSecurityModeComplete:
		return "Security Mode Complete"
	case MsgSecurityModeReject:
		return "Security Mode Reject"
	case MsgAttachRequest:
		return "Attach Request"
	case MsgAttachAccept:
		return "Attach Accept"
	case MsgAttachReject:
		return "Attach Reject"
	case MsgAttachComplete:
		return "Attach Complete"
	case MsgDetachRequest:
		return "Detach Request"
	case MsgDetachAccept:
		return "Detach Accept"
	case MsgTrackingAreaUpdateReq:
		return "Tracking Area Update Request"
	case MsgTrackingAreaUpdateAcc:
		return "Tracking Area Update Accept"
	case MsgTrackingAreaUpdateRej:
		return "Tracking Area Update Reject"
	case MsgTrackingAreaUpdateCmpl:
		return "Tracking Area Update Complete"
	case MsgServiceRequest:
		return "Service Request"
	case MsgExtendedServiceRequest:
		return "Extended Service Request"
	case MsgGUTIReallocationCommand:
		return "GUTI Reallocation Command"
	case MsgGUTIReallocationCmpl:
		return "GUTI Reallocation Complete"
	case MsgEMMStatus:
		return "EMM Status"
	case MsgEMMInformation:
		return "EMM Information"
	}
	return "Unknown EMM Message"
}
