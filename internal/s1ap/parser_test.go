package s1ap

import "testing"

func buildPDU(choice byte, procedureCode byte, ies []byte, numIEs byte) []byte {
	pdu := []byte{
		choice << 5,
		procedureCode,
		0x00, // criticality
		0x00, // short-form determinant
		0x00,
		0x00,
		numIEs,
	}
	return append(pdu, ies...)
}

func TestParseInitialUEMessage(t *testing.T) {
	ies := []byte{
		0x00, 0x08, // eNB-UE-S1AP-ID
		0x00,       // criticality
		0x02,       // length
		0x12, 0x34, // value
		0x00, 0x60, // S-TMSI
		0x00,
		0x05,
		0x01, 0xaa, 0xbb, 0xcc, 0xdd,
	}
	res := Parse(buildPDU(0, 12, ies, 2))

	if !res.Decoded {
		t.Fatal("expected decoded PDU")
	}
	if res.PDUType != InitiatingMessage {
		t.Errorf("pdu type = %v, want initiatingMessage", res.PDUType)
	}
	if res.ProcedureCode != 12 {
		t.Errorf("procedure code = %d, want 12", res.ProcedureCode)
	}
	if res.ProcedureName != "initialUEMessage" {
		t.Errorf("procedure name = %q, want initialUEMessage", res.ProcedureName)
	}
	if got := res.IEs["eNB-UE-S1AP-ID"]; got != "1234" {
		t.Errorf("eNB-UE-S1AP-ID = %q, want 1234", got)
	}
	if got := res.IEs["S-TMSI"]; got != "01aabbccdd" {
		t.Errorf("S-TMSI = %q, want 01aabbccdd", got)
	}
}

func TestParseTruncated(t *testing.T) {
	if res := Parse(nil); res.Decoded {
		t.Error("empty input must not decode")
	}
	if res := Parse([]byte{0x00}); res.Decoded {
		t.Error("one byte input must not decode")
	}

	// procedure code present, everything after missing
	res := Parse([]byte{0x20, 0x09})
	if !res.Decoded {
		t.Fatal("expected decoded with basic info")
	}
	if res.PDUType != SuccessfulOutcome {
		t.Errorf("pdu type = %v, want successfulOutcome", res.PDUType)
	}
	if res.ProcedureName != "InitialContextSetup" {
		t.Errorf("procedure name = %q", res.ProcedureName)
	}
	if len(res.IEs) != 0 {
		t.Errorf("expected no IEs, got %d", len(res.IEs))
	}
}

func TestParseInvalidChoice(t *testing.T) {
	res := Parse([]byte{0x60, 0x09, 0x00})
	if res.Decoded {
		t.Error("choice 3 must not decode")
	}
}

func TestParseValueOverrun(t *testing.T) {
	ies := []byte{
		0x00, 0x1a, // NAS-PDU
		0x00,
		0x7f, // claims 127 bytes
		0x01,
	}
	res := Parse(buildPDU(0, 13, ies, 1))
	if !res.Decoded {
		t.Fatal("expected decoded")
	}
	if _, ok := res.IEs["NAS-PDU"]; ok {
		t.Error("overrunning IE must be dropped")
	}
}

func TestMessageTypeMapping(t *testing.T) {
	cases := []struct {
		code    int
		pduType PDUType
		want    string
	}{
		{9, InitiatingMessage, "InitialContextSetupRequest"},
		{9, SuccessfulOutcome, "InitialContextSetupResponse"},
		{9, UnsuccessfulOutcome, "InitialContextSetupFailure"},
		{12, InitiatingMessage, "initialUEMessage"},
		{23, SuccessfulOutcome, "UEContextReleaseComplete"},
	}
	for _, c := range cases {
		if got := MessageType(c.code, c.pduType); got != c.want {
			t.Errorf("MessageType(%d, %v) = %q, want %q", c.code, c.pduType, got, c.want)
		}
	}
}

func TestExtractS1APIDsCombined(t *testing.T) {
	res := ParseResult{IEs: map[string]string{
		"UE-S1AP-IDs": "00000102000000ff",
	}}
	mme, enb, hasMME, hasENB := ExtractS1APIDs(res)
	if !hasMME || !hasENB {
		t.Fatal("expected both ids")
	}
	if mme != 0x102 {
		t.Errorf("mme = %d, want %d", mme, 0x102)
	}
	if enb != 0xff {
		t.Errorf("enb = %d, want %d", enb, 0xff)
	}
}

func TestExtractS1APIDsIndividual(t *testing.T) {
	res := ParseResult{IEs: map[string]string{
		"MME-UE-S1AP-ID": "0a",
		"eNB-UE-S1AP-ID": "0x1f",
	}}
	mme, enb, hasMME, hasENB := ExtractS1APIDs(res)
	if !hasMME || mme != 10 {
		t.Errorf("mme = %d (%v), want 10", mme, hasMME)
	}
	if !hasENB || enb != 31 {
		t.Errorf("enb = %d (%v), want 31", enb, hasENB)
	}
}

func TestExtractS1APIDsAbsent(t *testing.T) {
	res := ParseResult{IEs: map[string]string{
		"MME-UE-S1AP-ID": "zz",
	}}
	_, _, hasMME, hasENB := ExtractS1APIDs(res)
	if hasMME || hasENB {
		t.Error("unparseable ids must be absent")
	}
}

func TestExtractTMSIsFromSTMSI(t *testing.T) {
	res := ParseResult{IEs: map[string]string{
		"S-TMSI": "01c01a2b3c",
	}}
	out := ExtractTMSIs(res)
	if len(out.TMSIs) != 1 || out.TMSIs[0] != "c01a2b3c" {
		t.Fatalf("tmsis = %v, want [c01a2b3c]", out.TMSIs)
	}
}

func TestExtractTMSIsShortSTMSI(t *testing.T) {
	res := ParseResult{IEs: map[string]string{
		"S-TMSI": "c01a2b3c", // missing MME code byte
	}}
	out := ExtractTMSIs(res)
	if len(out.TMSIs) != 0 {
		t.Fatalf("tmsis = %v, want none", out.TMSIs)
	}
}

func TestDecodeERABSetupListCtxtSURes(t *testing.T) {
	value := []byte{
		0x00,       // short form: 1 item
		0x00, 0x32, // item IE id 50
		0x00, // criticality
		0x0a, // value length
		0x05, // e-RAB-ID
		0x20, // transport address: 32 bits
		0x0a, 0x00, 0x00, 0x01,
		0xde, 0xad, 0xbe, 0xef, // TEID
	}
	list := DecodeERABSetupListCtxtSURes(value)
	if !list.Decoded {
		t.Fatal("expected decoded list")
	}
	if len(list.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(list.Items))
	}
	item := list.Items[0]
	if item.ERABID != 5 {
		t.Errorf("e-RAB id = %d, want 5", item.ERABID)
	}
	if len(item.TransportLayerAddress) != 4 || item.TransportLayerAddress[0] != 0x0a {
		t.Errorf("transport address = %x", item.TransportLayerAddress)
	}
	if item.GTPTEID != 0xdeadbeef {
		t.Errorf("teid = %#x, want 0xdeadbeef", item.GTPTEID)
	}
	if item.HasExtensions {
		t.Error("no extension bytes present")
	}
}

func TestDecodeERABSetupListTruncated(t *testing.T) {
	value := []byte{
		0x01,       // short form: 2 items
		0x00, 0x32, // only one follows
		0x00,
		0x0a,
		0x05,
		0x20,
		0x0a, 0x00, 0x00, 0x01,
		0xde, 0xad, 0xbe, 0xef,
	}
	list := DecodeERABSetupListCtxtSURes(value)
	if list.Decoded {
		t.Error("missing item must leave list undecoded")
	}
	if len(list.Items) != 1 {
		t.Errorf("items = %d, want 1", len(list.Items))
	}
}

func TestExtractTMSIsCollectsResponseTEIDs(t *testing.T) {
	res := ParseResult{
		ProcedureCode: 9,
		IEs: map[string]string{
			"E-RABSetupListCtxtSURes": "000032000a05200a000001cafef00d",
		},
	}
	out := ExtractTMSIs(res)
	if len(out.TEIDs) != 1 || out.TEIDs[0] != 0xcafef00d {
		t.Fatalf("teids = %v, want [0xcafef00d]", out.TEIDs)
	}
}

func TestExtractTMSIsCollectsRequestTEIDs(t *testing.T) {
	// wrapper bytes, bearer item id 52, then e-RAB-ID, QoS, transport
	// address, tag padding and the GTP TEID
	res := ParseResult{
		ProcedureCode: 9,
		IEs: map[string]string{
			"E-RABToBeSetupListCtxtSUReq": "00003400130503aabbcc200a0000010000000000deadbeef",
		},
	}
	out := ExtractTMSIs(res)
	if len(out.TEIDs) != 1 || out.TEIDs[0] != 0xdeadbeef {
		t.Fatalf("teids = %v, want [0xdeadbeef]", out.TEIDs)
	}
}

func TestHexToBytes(t *testing.T) {
	got := hexToBytes("00ff10")
	want := []byte{0x00, 0xff, 0x10}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
	if got := hexToBytes("0f1"); len(got) != 1 || got[0] != 0x0f {
		t.Errorf("odd-length input = %x, want 0f", got)
	}
}
