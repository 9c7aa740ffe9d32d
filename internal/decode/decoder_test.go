package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/melrosenetworks/S1-SEE/internal/core"
	"github.com/melrosenetworks/S1-SEE/internal/s1ap"
)

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

// initialUEMessagePDU carries an eNB-UE-S1AP-ID, a NAS Attach Request
// with IMSI 310150123456789, an S-TMSI and an EUTRAN-CGI.
func initialUEMessagePDU() []byte {
	ies := []byte{
		0x00, 0x08, // eNB-UE-S1AP-ID
		0x00,
		0x02,
		0x12, 0x34,
		0x00, 0x1a, // NAS-PDU
		0x00,
		0x0d,
		0x0c, // inner length determinant
		0x07, 0x41, 0x71, 0x08, 0x39, 0x01, 0x51, 0x10, 0x32, 0x54, 0x76, 0x98,
		0x00, 0x60, // S-TMSI
		0x00,
		0x05,
		0x01, 0xaa, 0xbb, 0xcc, 0xdd,
		0x00, 0x64, // EUTRAN-CGI
		0x00,
		0x07,
		0x00, 0xf1, 0x10, 0x0a, 0x0b, 0x0c, 0x0d,
	}
	return buildPDU(0, 12, ies, 4)
}

func buildFrame(payload []byte) []byte {
	chunk := make([]byte, 16+len(payload))
	chunk[0] = 0 // DATA
	chunk[1] = 0x03
	binary.BigEndian.PutUint16(chunk[2:4], uint16(16+len(payload)))
	binary.BigEndian.PutUint32(chunk[4:8], 1)   // TSN
	binary.BigEndian.PutUint32(chunk[12:16], 18) // PPID
	copy(chunk[16:], payload)
	for len(chunk)%4 != 0 {
		chunk = append(chunk, 0)
	}

	frame := []byte{
		0x00, 0x11, 0x22, 0x33, 0x44, 0x55,
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
		0x08, 0x00,
	}
	ip := make([]byte, 20)
	ip[0] = 0x45
	binary.BigEndian.PutUint16(ip[2:4], uint16(20+12+len(chunk)))
	ip[8] = 64
	ip[9] = 132
	copy(ip[12:16], []byte{10, 0, 0, 1})
	copy(ip[16:20], []byte{10, 0, 0, 2})
	frame = append(frame, ip...)

	sctpHdr := make([]byte, 12)
	binary.BigEndian.PutUint16(sctpHdr[0:2], 36412)
	binary.BigEndian.PutUint16(sctpHdr[2:4], 36412)
	frame = append(frame, sctpHdr...)

	return append(frame, chunk...)
}

func TestDecodeBarePDU(t *testing.T) {
	raw := initialUEMessagePDU()
	msg, err := NewS1APDecoder().Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.DecodeFailed {
		t.Fatal("decode must not be marked failed")
	}
	if msg.ProcedureCode != 12 || msg.PDUType != 0 {
		t.Errorf("procedure = %d/%d, want 12/0", msg.ProcedureCode, msg.PDUType)
	}
	if msg.MsgType != "initialUEMessage" {
		t.Errorf("msg type = %q, want initialUEMessage", msg.MsgType)
	}
	if msg.ENBUES1APID != 0x1234 {
		t.Errorf("enb id = %d, want %d", msg.ENBUES1APID, 0x1234)
	}
	if msg.MMEUES1APID != 0 {
		t.Errorf("mme id = %d, want absent", msg.MMEUES1APID)
	}
	if msg.IMSI != "310150123456789" {
		t.Errorf("imsi = %q", msg.IMSI)
	}
	if msg.TMSI != "aabbccdd" {
		t.Errorf("tmsi = %q, want aabbccdd", msg.TMSI)
	}
	if !bytes.Equal(msg.ECGI, []byte{0x00, 0xf1, 0x10, 0x0a, 0x0b, 0x0c, 0x0d}) {
		t.Errorf("ecgi = %x", msg.ECGI)
	}
	if !bytes.Equal(msg.PLMN, []byte{0x00, 0xf1, 0x10}) {
		t.Errorf("plmn = %x", msg.PLMN)
	}
	if !bytes.Equal(msg.CellID, []byte{0x0a, 0x0b, 0x0c, 0x0d}) {
		t.Errorf("cell id = %x", msg.CellID)
	}
	if !bytes.Equal(msg.RawBytes, raw) {
		t.Error("raw bytes must be preserved")
	}
	if !strings.Contains(msg.DecodedTree, `"procedure_name":"initialUEMessage"`) {
		t.Errorf("decoded tree = %s", msg.DecodedTree)
	}
	if !strings.Contains(msg.DecodedTree, `"eNB-UE-S1AP-ID":"1234"`) {
		t.Errorf("decoded tree missing IE: %s", msg.DecodedTree)
	}
}

func TestDecodeSCTPFrame(t *testing.T) {
	frame := buildFrame(initialUEMessagePDU())
	msg, err := NewS1APDecoder().Decode(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.MsgType != "initialUEMessage" {
		t.Errorf("msg type = %q", msg.MsgType)
	}
	if msg.ENBUES1APID != 0x1234 {
		t.Errorf("enb id = %d, want %d", msg.ENBUES1APID, 0x1234)
	}
	if !bytes.Equal(msg.RawBytes, frame) {
		t.Error("raw bytes must keep the whole frame")
	}
}

func TestDecodeEmpty(t *testing.T) {
	msg, err := NewS1APDecoder().Decode(nil)
	if !errors.Is(err, core.ErrTruncatedPDU) {
		t.Errorf("err = %v, want ErrTruncatedPDU", err)
	}
	if !msg.DecodeFailed {
		t.Error("empty input must be marked failed")
	}
}

func TestDecodeMalformed(t *testing.T) {
	raw := []byte{0x60, 0x09, 0x00} // choice 3 is not a valid PDU type
	msg, err := NewS1APDecoder().Decode(raw)
	if !errors.Is(err, core.ErrMalformedPDU) {
		t.Errorf("err = %v, want ErrMalformedPDU", err)
	}
	if !msg.DecodeFailed {
		t.Error("malformed input must be marked failed")
	}
	if !bytes.Equal(msg.RawBytes, raw) {
		t.Error("raw bytes must be preserved on failure")
	}
}

func TestBuildMessageTargetCGI(t *testing.T) {
	res := s1ap.ParseResult{
		Decoded:       true,
		ProcedureCode: 0,
		ProcedureName: "HandoverPreparation",
		PDUType:       s1ap.InitiatingMessage,
		IEs: map[string]string{
			"TargetCGI": "00f1100a0b0c0d",
		},
	}
	msg := buildMessage(res, nil)
	if msg.MsgType != "HandoverRequired" {
		t.Errorf("msg type = %q, want HandoverRequired", msg.MsgType)
	}
	if !bytes.Equal(msg.TargetECGI, []byte{0x00, 0xf1, 0x10, 0x0a, 0x0b, 0x0c, 0x0d}) {
		t.Errorf("target ecgi = %x", msg.TargetECGI)
	}
	if !bytes.Equal(msg.TargetPLMN, []byte{0x00, 0xf1, 0x10}) {
		t.Errorf("target plmn = %x", msg.TargetPLMN)
	}
	if !bytes.Equal(msg.TargetCell, []byte{0x0a, 0x0b, 0x0c, 0x0d}) {
		t.Errorf("target cell = %x", msg.TargetCell)
	}
}

func TestSplitCGI(t *testing.T) {
	plmn, cell := splitCGI([]byte{1, 2, 3, 4, 5})
	if !bytes.Equal(plmn, []byte{1, 2, 3}) || !bytes.Equal(cell, []byte{4, 5}) {
		t.Errorf("short cgi = %x / %x", plmn, cell)
	}
	plmn, cell = splitCGI([]byte{1, 2})
	if plmn != nil || cell != nil {
		t.Errorf("undersized cgi = %x / %x", plmn, cell)
	}
}

func TestHexToBytesSeparators(t *testing.T) {
	got := hexToBytes("00:f1-10 0a")
	if !bytes.Equal(got, []byte{0x00, 0xf1, 0x10, 0x0a}) {
		t.Errorf("hexToBytes = %x", got)
	}
}
