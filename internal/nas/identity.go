package nas

import (
	"fmt"
	"strings"
)

type mobileIdentity struct {
	identType byte
	value     string
}

// decodeTBCD unpacks a TBCD-coded digit string starting at the identity
// type byte. The first digit rides in the upper nibble of that byte;
// 0xF nibbles terminate the string. Accepts IMSI, IMEI and IMEISV
// lengths (5 to 16 digits) and rejects all-zero strings.
func decodeTBCD(bytes []byte) string {
	if len(bytes) == 0 {
		return ""
	}

	var digits strings.Builder

	high := (bytes[0] >> 4) & 0x0F
	if high <= 9 {
		digits.WriteByte('0' + high)
	}

	for i := 1; i < len(bytes); i++ {
		low := bytes[i] & 0x0F
		if low > 9 {
			break
		}
		digits.WriteByte('0' + low)

		high := (bytes[i] >> 4) & 0x0F
		if high > 9 {
			break
		}
		digits.WriteByte('0' + high)
	}

	s := digits.String()
	if len(s) < 5 || len(s) > 16 {
		return ""
	}
	if strings.Trim(s, "0") == "" {
		return ""
	}
	return s
}

// decodeTMSIIdentity renders a TMSI identity as lowercase hex. The two
// nibbles of the identity type byte are emitted as full bytes, followed
// by at most three more raw bytes, mirroring the way short TMSI values
// appear on the wire.
func decodeTMSIIdentity(bytes []byte) string {
	if len(bytes) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%02x", (bytes[0]>>4)&0x0F)
	fmt.Fprintf(&sb, "%02x", bytes[0]&0x0F)
	for i := 1; i < len(bytes) && i < 4; i++ {
		fmt.Fprintf(&sb, "%02x", bytes[i])
	}

	tmsi := sb.String()
	if !isValidTMSI(tmsi) {
		return ""
	}
	return tmsi
}

// decodeMobileIdentity handles the Mobile Identity IE value: IMSI, IMEI
// and IMEISV are TBCD strings, TMSI is raw hex.
func decodeMobileIdentity(bytes []byte) mobileIdentity {
	if len(bytes) < 1 {
		return mobileIdentity{identType: identNone}
	}

	lower3 := bytes[0] & 0x07
	ident := mobileIdentity{identType: lower3}

	switch lower3 {
	case identIMSI, identIMEI, identIMEISV:
		ident.value = decodeTBCD(bytes)
	case identTMSI:
		ident.value = decodeTMSIIdentity(bytes)
	}
	return ident
}

// decodeEPSMobileIdentity handles the EPS Mobile Identity IE value. A
// GUTI collapses to its m-TMSI, the last four bytes.
func decodeEPSMobileIdentity(bytes []byte) mobileIdentity {
	if len(bytes) < 1 {
		return mobileIdentity{identType: identNone}
	}

	lower3 := bytes[0] & 0x07
	switch lower3 {
	case identGUTI:
		if len(bytes) >= 5 {
			var sb strings.Builder
			for _, b := range bytes[len(bytes)-4:] {
				fmt.Fprintf(&sb, "%02x", b)
			}
			return mobileIdentity{identType: identTMSI, value: sb.String()}
		}
		return mobileIdentity{identType: identGUTI}
	case identTMSI:
		return mobileIdentity{identType: identTMSI, value: decodeTMSIIdentity(bytes)}
	}
	return mobileIdentity{identType: lower3}
}

func isValidIMSI(imsi string) bool {
	if len(imsi) < 5 || len(imsi) > 15 {
		return false
	}
	for _, c := range imsi {
		if c < '0' || c > '9' {
			return false
		}
	}
	return strings.Trim(imsi, "0") != ""
}

func isValidTMSI(tmsi string) bool {
	if len(tmsi) < 4 || len(tmsi) > 8 {
		return false
	}
	for _, c := range tmsi {
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return false
		}
	}
	return true
}
