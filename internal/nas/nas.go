// Package nas recovers UE identities from EPS NAS messages (TS 24.301)
// without access to security contexts. Plain EMM messages are decoded
// structurally; protected messages fall back to pattern heuristics over
// the ciphered payload.
package nas

import (
	"encoding/hex"

	"github.com/melrosenetworks/S1-SEE/internal/log"
)

var logger = log.WithPrefix("nas")

// ExtractIMSIs returns every valid IMSI found in the PDU.
func ExtractIMSIs(data []byte) []string {
	if len(data) < 2 {
		return nil
	}
	var imsis []string
	for _, ident := range decodeStructured(data) {
		if ident.identType == identIMSI && ident.value != "" && isValidIMSI(ident.value) {
			imsis = append(imsis, ident.value)
		}
	}
	return imsis
}

// ExtractTMSIs returns every valid TMSI found in the PDU, including the
// m-TMSI half of any GUTI.
func ExtractTMSIs(data []byte) []string {
	if len(data) < 2 {
		return nil
	}
	var tmsis []string
	for _, ident := range decodeStructured(data) {
		if (ident.identType == identTMSI || ident.identType == identGUTI) &&
			ident.value != "" && isValidTMSI(ident.value) {
			tmsis = append(tmsis, ident.value)
		}
	}
	return tmsis
}

// ExtractIMEISVs returns every IMEISV found in the PDU. When the
// structured walk comes up empty, the Identity Response scan is tried
// as a fallback.
func ExtractIMEISVs(data []byte) []string {
	if len(data) < 2 {
		return nil
	}
	var imeisvs []string
	for _, ident := range decodeStructured(data) {
		if ident.identType == identIMEISV && ident.value != "" {
			imeisvs = append(imeisvs, ident.value)
		}
	}
	if len(imeisvs) == 0 {
		for _, ident := range scanIdentityResponse(data) {
			if ident.identType == identIMEISV && ident.value != "" {
				imeisvs = append(imeisvs, ident.value)
			}
		}
	}
	return imeisvs
}

// decodeStructured walks a NAS message by its TS 24.301 layout and
// collects every mobile identity it can reach.
func decodeStructured(data []byte) []mobileIdentity {
	if len(data) < 2 {
		return nil
	}

	header := ParseHeader(data)
	if !header.Valid {
		return nil
	}

	if header.SecurityHeaderType != PlainNAS {
		return decodeProtected(data)
	}

	var identities []mobileIdentity

	if !header.IsEMM() {
		return identities
	}

	// header byte and message type byte
	offset := 2
	if offset >= len(data) {
		return identities
	}

	switch header.MessageType {
	case MsgAttachRequest:
		// attach type and NAS key set identifier
		offset++
		if offset >= len(data) {
			break
		}
		identityLen := int(data[offset])
		offset++
		if offset+identityLen > len(data) || identityLen == 0 {
			break
		}
		if data[offset]&0x07 == identIMSI {
			ident := decodeMobileIdentity(data[offset : offset+identityLen])
			if ident.value != "" && ident.identType == identIMSI {
				identities = append(identities, ident)
			}
		} else {
			ident := decodeEPSMobileIdentity(data[offset : offset+identityLen])
			if ident.value != "" {
				identities = append(identities, ident)
			}
		}

	case MsgAttachAccept:
		// EPS attach result
		if offset >= len(data) {
			break
		}
		offset++
		// T3412 value
		if offset >= len(data) {
			break
		}
		offset++
		// TAI list (LV)
		if offset >= len(data) {
			break
		}
		taiListLen := int(data[offset])
		offset++
		if offset+taiListLen > len(data) {
			break
		}
		offset += taiListLen
		// ESM message container (LV-E)
		if offset+1 >= len(data) {
			break
		}
		esmLen := int(data[offset])<<8 | int(data[offset+1])
		offset += 2
		if offset+esmLen > len(data) {
			break
		}
		offset += esmLen

		for offset < len(data) {
			iei := data[offset]
			offset++
			if iei == 0x00 {
				break
			}
			if offset >= len(data) {
				break
			}
			ieLen := int(data[offset])
			offset++
			if offset+ieLen > len(data) {
				break
			}
			switch iei {
			case 0x50: // Additional GUTI
				ident := decodeEPSMobileIdentity(data[offset : offset+ieLen])
				if ident.value != "" {
					identities = append(identities, ident)
				}
			case 0x23: // MS Identity
				ident := decodeMobileIdentity(data[offset : offset+ieLen])
				if ident.value != "" {
					identities = append(identities, ident)
				}
			}
			offset += ieLen
		}

	case MsgIdentityResponse:
		if offset < len(data) && data[offset] == 0x02 {
			offset++
		}
		if offset >= len(data) {
			break
		}
		identityLen := int(data[offset])
		offset++
		if offset+identityLen > len(data) {
			break
		}
		ident := decodeMobileIdentity(data[offset : offset+identityLen])
		if ident.value != "" {
			identities = append(identities, ident)
		}

	case MsgExtendedServiceRequest:
		// service type and NAS key set identifier
		if offset+1 < len(data) {
			offset++
		}
		if offset >= len(data) {
			break
		}
		mTMSILen := int(data[offset])
		offset++
		if offset+mTMSILen > len(data) {
			break
		}
		ident := decodeEPSMobileIdentity(data[offset : offset+mTMSILen])
		if ident.value != "" {
			identities = append(identities, ident)
		}

	case MsgSecurityModeComplete:
		for offset < len(data) {
			iei := data[offset]
			offset++
			if offset >= len(data) {
				break
			}
			ieLen := int(data[offset])
			offset++
			if offset+ieLen > len(data) {
				break
			}
			if iei == 0x23 {
				ident := decodeMobileIdentity(data[offset : offset+ieLen])
				if ident.value != "" {
					identities = append(identities, ident)
				}
			}
			offset += ieLen
		}

	default:
		logger.Debugf("unhandled EMM message type 0x%02x", header.MessageType)
	}

	return identities
}

// tmsiMarker precedes a GUTI inside Attach Accept payloads; the m-TMSI
// begins seven bytes after the final marker byte.
var tmsiMarker = []byte{0x50, 0x0b, 0xf6}

// decodeProtected pulls identities out of a security-protected message.
// Without keys the payload cannot be decoded properly, so two heuristics
// run in order: a marker scan for GUTI m-TMSIs, then a plain-NAS
// reinterpretation for null-ciphered Security Mode Complete payloads.
func decodeProtected(data []byte) []mobileIdentity {
	if len(data) < 6 {
		return nil
	}
	ciphered := data[6:]

	var identities []mobileIdentity

	const tmsiOffset = 7
	const tmsiLen = 4
	minRequired := len(tmsiMarker) + tmsiOffset + tmsiLen
	for i := 0; i+minRequired <= len(ciphered); i++ {
		if ciphered[i] != tmsiMarker[0] || ciphered[i+1] != tmsiMarker[1] || ciphered[i+2] != tmsiMarker[2] {
			continue
		}
		tmsiStart := i + len(tmsiMarker) - 1 + tmsiOffset
		if tmsiStart+tmsiLen > len(ciphered) {
			continue
		}
		tmsi := hex.EncodeToString(ciphered[tmsiStart : tmsiStart+tmsiLen])
		if isValidTMSI(tmsi) {
			identities = append(identities, mobileIdentity{identType: identTMSI, value: tmsi})
		}
	}
	if len(identities) > 0 {
		return identities
	}

	if len(ciphered) >= 2 {
		sht := (ciphered[0] >> 4) & 0x0F
		pd := ciphered[0] & 0x0F
		if sht == PlainNAS && pd == ProtoEMM && ciphered[1] == MsgSecurityModeComplete {
			offset := 2
			for offset < len(ciphered) {
				iei := ciphered[offset]
				offset++
				if offset >= len(ciphered) {
					break
				}
				ieLen := int(ciphered[offset])
				offset++
				if offset+ieLen > len(ciphered) {
					break
				}
				if iei == 0x23 {
					ident := decodeMobileIdentity(ciphered[offset : offset+ieLen])
					if ident.value != "" {
						identities = append(identities, ident)
					}
				}
				offset += ieLen
			}
		}
	}

	return identities
}

// scanIdentityResponse sweeps the identity-list area of an Identity
// Response shaped message, accepting identities at successive length
// boundaries. Looser than the structured walk, it exists for PDUs whose
// optional IEs push the identity off its nominal offset.
func scanIdentityResponse(data []byte) []mobileIdentity {
	if len(data) < 3 {
		return nil
	}
	header := ParseHeader(data)
	if !header.Valid || !header.IsEMM() {
		return nil
	}

	var identities []mobileIdentity

	offset := header.PayloadOffset + 2
	for offset < len(data) {
		identityLen := int(data[offset])
		offset++
		if offset+identityLen > len(data) {
			break
		}
		if identityLen > 0 {
			ident := decodeIdentityBytes(data[offset : offset+identityLen])
			if ident.value != "" {
				identities = append(identities, ident)
			}
		}
		offset += identityLen
	}

	if len(identities) == 0 && len(data) >= 4 {
		identityLen := int(data[2])
		if 3+identityLen <= len(data) && identityLen > 0 {
			ident := decodeIdentityBytes(data[3 : 3+identityLen])
			if ident.value != "" {
				identities = append(identities, ident)
			}
		}
	}

	return identities
}

func decodeIdentityBytes(bytes []byte) mobileIdentity {
	lower3 := bytes[0] & 0x07
	ident := mobileIdentity{identType: lower3}
	switch lower3 {
	case identIMSI, identIMEISV:
		ident.value = decodeTBCD(bytes)
	case identTMSI:
		ident.value = decodeTMSIIdentity(bytes)
	}
	return ident
}
