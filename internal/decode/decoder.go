// Package decode turns captured frames into canonical messages. Input
// may be a full Ethernet frame carrying SCTP or a bare S1AP PDU; the
// decoder detects which and normalises either into a
// core.CanonicalMessage with identifiers and a JSON rendering of the
// parsed PDU.
package decode

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/melrosenetworks/S1-SEE/internal/core"
	"github.com/melrosenetworks/S1-SEE/internal/core/sctp"
	"github.com/melrosenetworks/S1-SEE/internal/log"
	"github.com/melrosenetworks/S1-SEE/internal/s1ap"
)

var logger = log.WithPrefix("decode")

// Decoder normalises one captured frame or bare PDU.
type Decoder interface {
	Decode(raw []byte) (core.CanonicalMessage, error)
}

// S1APDecoder is the production Decoder for the S1 interface.
type S1APDecoder struct{}

func NewS1APDecoder() *S1APDecoder {
	return &S1APDecoder{}
}

// Decode normalises raw into a CanonicalMessage. On failure the returned
// message still carries the raw bytes with DecodeFailed set, so callers
// can preserve undecodable input.
func (d *S1APDecoder) Decode(raw []byte) (core.CanonicalMessage, error) {
	msg := core.CanonicalMessage{RawBytes: raw, DecodeFailed: true}
	if len(raw) == 0 {
		return msg, core.ErrTruncatedPDU
	}

	pdu := raw
	if payload, ok := sctp.ExtractFirst(raw); ok {
		pdu = payload
	}

	res := s1ap.Parse(pdu)
	if !res.Decoded {
		return msg, core.ErrMalformedPDU
	}

	return buildMessage(res, raw), nil
}

// decodedTree is the JSON shape stored in CanonicalMessage.DecodedTree.
type decodedTree struct {
	ProcedureCode       int               `json:"procedure_code"`
	ProcedureName       string            `json:"procedure_name"`
	PDUType             int               `json:"pdu_type"`
	InformationElements map[string]string `json:"information_elements"`
}

func buildMessage(res s1ap.ParseResult, raw []byte) core.CanonicalMessage {
	msg := core.CanonicalMessage{
		ProcedureCode: res.ProcedureCode,
		PDUType:       int(res.PDUType),
		MsgType:       s1ap.MessageType(res.ProcedureCode, res.PDUType),
		RawBytes:      raw,
	}

	mme, enb, hasMME, hasENB := s1ap.ExtractS1APIDs(res)
	if hasMME {
		msg.MMEUES1APID = uint64(mme)
	}
	if hasENB {
		msg.ENBUES1APID = uint64(enb)
	}

	if imsis := s1ap.ExtractIMSIs(res); len(imsis) > 0 {
		msg.IMSI = imsis[0]
	}
	if out := s1ap.ExtractTMSIs(res); len(out.TMSIs) > 0 {
		msg.TMSI = out.TMSIs[0]
	}
	if imeisvs := s1ap.ExtractIMEISVs(res); len(imeisvs) > 0 {
		msg.IMEISV = imeisvs[0]
	}

	if hexValue, ok := res.IEs["EUTRAN-CGI"]; ok {
		if ecgi := hexToBytes(hexValue); len(ecgi) > 0 {
			msg.ECGI = ecgi
			msg.PLMN, msg.CellID = splitCGI(ecgi)
		}
	}

	// Handover procedures may carry the target cell under a differently
	// named IE; accept any IE naming a target CGI.
	names := make([]string, 0, len(res.IEs))
	for name := range res.IEs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !strings.Contains(name, "target") && !strings.Contains(name, "Target") {
			continue
		}
		if !strings.Contains(name, "CGI") && !strings.Contains(name, "cgi") {
			continue
		}
		if ecgi := hexToBytes(res.IEs[name]); len(ecgi) > 0 {
			msg.TargetECGI = ecgi
			msg.TargetPLMN, msg.TargetCell = splitCGI(ecgi)
		}
		break
	}

	tree, err := json.Marshal(decodedTree{
		ProcedureCode:       res.ProcedureCode,
		ProcedureName:       res.ProcedureName,
		PDUType:             int(res.PDUType),
		InformationElements: res.IEs,
	})
	if err != nil {
		logger.Warnf("decoded tree marshal: %v", err)
	} else {
		msg.DecodedTree = string(tree)
	}

	return msg
}

// splitCGI splits an EUTRAN-CGI value into its PLMN-identity (3 bytes)
// and cell-id (nominally 28 bits in 4 bytes, shorter values kept as-is).
func splitCGI(ecgi []byte) (plmn, cellID []byte) {
	if len(ecgi) >= 3 {
		plmn = ecgi[:3]
	}
	switch {
	case len(ecgi) >= 7:
		cellID = ecgi[3:7]
	case len(ecgi) > 3:
		cellID = ecgi[3:]
	}
	return plmn, cellID
}

// hexToBytes converts a hex string to bytes, tolerating whitespace and
// the ':' and '-' separators seen in operator-supplied values. Invalid
// pairs are skipped.
func hexToBytes(s string) []byte {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == ':' || r == '-' {
			return -1
		}
		return r
	}, s)

	out := make([]byte, 0, len(cleaned)/2)
	for i := 0; i+1 < len(cleaned); i += 2 {
		hi := hexNibble(cleaned[i])
		lo := hexNibble(cleaned[i+1])
		if hi < 0 || lo < 0 {
			continue
		}
		out = append(out, byte(hi<<4|lo))
	}
	return out
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
