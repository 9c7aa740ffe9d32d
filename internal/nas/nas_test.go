package nas

import "testing"

func TestParseHeaderPlain(t *testing.T) {
	h := ParseHeader([]byte{0x07, 0x41})
	if !h.Valid {
		t.Fatal("expected valid header")
	}
	if !h.IsPlain() || !h.IsEMM() {
		t.Error("expected plain EMM header")
	}
	if h.MessageType != MsgAttachRequest {
		t.Errorf("message type = %#x, want attach request", h.MessageType)
	}
	if h.PayloadOffset != 1 {
		t.Errorf("payload offset = %d, want 1", h.PayloadOffset)
	}
}

func TestParseHeaderProtected(t *testing.T) {
	pdu := []byte{0x27, 0xde, 0xad, 0xbe, 0xef, 0x01, 0x07, 0x5e}
	h := ParseHeader(pdu)
	if !h.Valid {
		t.Fatal("expected valid header")
	}
	if h.IsPlain() {
		t.Error("security header type 2 is not plain")
	}
	if h.PayloadOffset != 6 {
		t.Errorf("payload offset = %d, want 6", h.PayloadOffset)
	}

	if h := ParseHeader([]byte{0x27, 0x00, 0x00}); h.Valid {
		t.Error("protected header shorter than six bytes must be invalid")
	}
}

func TestExtractIMSIsAttachRequest(t *testing.T) {
	// IMSI 310150123456789, odd digit count, first digit in the type byte
	pdu := []byte{
		0x07, 0x41,
		0x71, // attach type and NAS KSI
		0x08, // identity length
		0x39, 0x01, 0x51, 0x10, 0x32, 0x54, 0x76, 0x98,
	}
	imsis := ExtractIMSIs(pdu)
	if len(imsis) != 1 || imsis[0] != "310150123456789" {
		t.Fatalf("imsis = %v, want [310150123456789]", imsis)
	}
}

func TestExtractIMSIsRejectsAllZero(t *testing.T) {
	pdu := []byte{
		0x07, 0x41,
		0x71,
		0x04,
		0x09, 0x00, 0x00, 0x00,
	}
	if imsis := ExtractIMSIs(pdu); len(imsis) != 0 {
		t.Fatalf("imsis = %v, want none", imsis)
	}
}

func TestExtractIMEISVsIdentityResponse(t *testing.T) {
	// IMEISV 3542190123456789, 16 digits, trailing filler nibble
	pdu := []byte{
		0x07, 0x56,
		0x02, // mobile identity IEI
		0x09,
		0x33, 0x45, 0x12, 0x09, 0x21, 0x43, 0x65, 0x87, 0xf9,
	}
	imeisvs := ExtractIMEISVs(pdu)
	if len(imeisvs) != 1 || imeisvs[0] != "3542190123456789" {
		t.Fatalf("imeisvs = %v, want [3542190123456789]", imeisvs)
	}
}

func TestExtractTMSIsAttachAcceptGUTI(t *testing.T) {
	pdu := []byte{
		0x07, 0x42,
		0x01,                                     // attach result
		0x21,                                     // T3412
		0x06,                                     // TAI list length
		0x20, 0x00, 0xf1, 0x10, 0x00, 0x01,      // TAI list
		0x00, 0x02,                               // ESM container length
		0x52, 0x01,                               // ESM container
		0x50,                                     // additional GUTI IEI
		0x0b,                                     // length
		0xf6, 0x00, 0xf1, 0x10, 0x00, 0x01, 0x01, // GUTI prefix
		0xc0, 0x01, 0x02, 0x03,                   // m-TMSI
	}
	tmsis := ExtractTMSIs(pdu)
	if len(tmsis) != 1 || tmsis[0] != "c0010203" {
		t.Fatalf("tmsis = %v, want [c0010203]", tmsis)
	}
}

func TestExtractTMSIsProtectedMarkerScan(t *testing.T) {
	ciphered := []byte{
		0x50, 0x0b, 0xf6, // marker
		0x00, 0xf1, 0x10, 0x00, 0x01, 0x01, // GUTI bytes between marker and m-TMSI
		0xc0, 0x01, 0x02, 0x03, // m-TMSI
		0x00, // trailing payload
	}
	pdu := append([]byte{0x27, 0xde, 0xad, 0xbe, 0xef, 0x01}, ciphered...)
	tmsis := ExtractTMSIs(pdu)
	if len(tmsis) != 1 || tmsis[0] != "c0010203" {
		t.Fatalf("tmsis = %v, want [c0010203]", tmsis)
	}
}

func TestExtractTMSIsExtendedServiceRequest(t *testing.T) {
	pdu := []byte{
		0x07, 0x4d,
		0x09, // service type and NAS KSI
		0x03, // identity length
		0xf4, 0x12, 0x34,
	}
	tmsis := ExtractTMSIs(pdu)
	if len(tmsis) != 1 || tmsis[0] != "0f041234" {
		t.Fatalf("tmsis = %v, want [0f041234]", tmsis)
	}
}

func TestExtractIMEISVsSecurityModeComplete(t *testing.T) {
	// null-ciphered Security Mode Complete behind a security header
	inner := []byte{
		0x07, 0x5e,
		0x23, // MS identity IEI
		0x09,
		0x33, 0x45, 0x12, 0x09, 0x21, 0x43, 0x65, 0x87, 0xf9,
	}
	pdu := append([]byte{0x47, 0x00, 0x00, 0x00, 0x00, 0x01}, inner...)
	imeisvs := ExtractIMEISVs(pdu)
	if len(imeisvs) != 1 || imeisvs[0] != "3542190123456789" {
		t.Fatalf("imeisvs = %v, want [3542190123456789]", imeisvs)
	}
}

func TestExtractIgnoresESM(t *testing.T) {
	pdu := []byte{0x02, 0x41, 0x71, 0x08, 0x39, 0x01, 0x51, 0x10, 0x32, 0x54, 0x76, 0x98}
	if imsis := ExtractIMSIs(pdu); len(imsis) != 0 {
		t.Fatalf("imsis = %v, want none for ESM discriminator", imsis)
	}
}

func TestDecodeTBCDFiller(t *testing.T) {
	// filler nibble terminates the digit string early
	if got := decodeTBCD([]byte{0x19, 0x32, 0x54, 0x9f, 0x99}); got != "12345" {
		t.Errorf("decodeTBCD = %q, want truncation at filler", got)
	}
	if got := decodeTBCD([]byte{0x19, 0x32, 0x54}); got != "12345" {
		t.Errorf("decodeTBCD = %q, want 12345", got)
	}
	// below the minimum digit count
	if got := decodeTBCD([]byte{0x19, 0x32}); got != "" {
		t.Errorf("decodeTBCD = %q, want empty for short string", got)
	}
}

func TestIsValidTMSI(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"c0010203", true},
		{"abcd", true},
		{"abc", false},
		{"c00102030", false},
		{"zzzz", false},
	}
	for _, c := range cases {
		if got := isValidTMSI(c.in); got != c.want {
			t.Errorf("isValidTMSI(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
