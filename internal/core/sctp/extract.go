// Package sctp extracts S1AP payloads from raw Ethernet frames.
//
// The walk is deliberately tolerant: malformed input yields no payloads,
// never an error. Only SCTP DATA chunks whose payload protocol identifier
// is 18 (S1AP) are surfaced.
package sctp

import "encoding/binary"

const (
	ethernetHeaderLen = 14
	vlanHeaderLen     = 4
	ipv4HeaderMinLen  = 20
	ipv6HeaderLen     = 40
	sctpHeaderLen     = 12
	dataChunkMinLen   = 16

	etherTypeIPv4 = 0x0800
	etherTypeIPv6 = 0x86DD
	etherTypeVLAN = 0x8100
	etherTypeQinQ = 0x88A8

	ipProtoSCTP = 132

	chunkTypeData = 0

	// PPID 18 is assigned to S1AP.
	ppidS1AP = 18
)

// ExtractFirst returns the payload of the first SCTP DATA chunk in the
// frame. It gives up as soon as it sees a DATA chunk carrying a PPID
// other than 18.
func ExtractFirst(packet []byte) ([]byte, bool) {
	offset, ok := walkToSCTP(packet, false)
	if !ok {
		return nil, false
	}

	for offset+4 <= len(packet) {
		chunkType := packet[offset]
		chunkLen := int(binary.BigEndian.Uint16(packet[offset+2 : offset+4]))

		if chunkLen < 4 || offset+chunkLen > len(packet) {
			break
		}

		if chunkType == chunkTypeData && chunkLen >= dataChunkMinLen {
			// Type(1) Flags(1) Length(2) TSN(4) StreamID(2) StreamSeq(2) PPID(4)
			ppid := binary.BigEndian.Uint32(packet[offset+12 : offset+16])
			if ppid != ppidS1AP {
				return nil, false
			}

			payloadOffset := offset + dataChunkMinLen
			payloadLen := chunkLen - dataChunkMinLen
			if payloadLen > 0 && payloadOffset+payloadLen <= len(packet) {
				payload := make([]byte, payloadLen)
				copy(payload, packet[payloadOffset:payloadOffset+payloadLen])
				return payload, true
			}
		}

		offset += chunkLen + pad4(chunkLen)
	}

	return nil, false
}

// ExtractAll returns the payloads of every SCTP DATA chunk in the frame
// whose PPID is 18. Chunks with other PPIDs are skipped, not fatal.
func ExtractAll(packet []byte) [][]byte {
	offset, ok := walkToSCTP(packet, true)
	if !ok {
		return nil
	}

	var payloads [][]byte
	for offset+4 <= len(packet) {
		chunkType := packet[offset]
		chunkLen := int(binary.BigEndian.Uint16(packet[offset+2 : offset+4]))

		if chunkLen < 4 || offset+chunkLen > len(packet) {
			break
		}

		if chunkType == chunkTypeData && chunkLen >= dataChunkMinLen {
			ppid := binary.BigEndian.Uint32(packet[offset+12 : offset+16])
			if ppid == ppidS1AP {
				payloadOffset := offset + dataChunkMinLen
				payloadLen := chunkLen - dataChunkMinLen
				if payloadLen > 0 && payloadOffset+payloadLen <= len(packet) {
					payload := make([]byte, payloadLen)
					copy(payload, packet[payloadOffset:payloadOffset+payloadLen])
					payloads = append(payloads, payload)
				}
			}
		}

		offset += chunkLen + pad4(chunkLen)
	}

	return payloads
}

// walkToSCTP walks Ethernet, optional VLAN, and the IP layer, returning
// the offset of the SCTP common header payload (first chunk).
//
// shortEth enables a capture-source quirk: some upstream taps deliver
// frames with a 16-byte link header, leaving the EtherType at offset 14.
func walkToSCTP(packet []byte, shortEth bool) (int, bool) {
	if len(packet) < ethernetHeaderLen {
		return 0, false
	}

	var etherType uint16
	var offset int
	if shortEth && len(packet) >= 16 && packet[14] == 0x08 {
		etherType = binary.BigEndian.Uint16(packet[14:16])
		offset = 16
	} else {
		etherType = binary.BigEndian.Uint16(packet[12:14])
		offset = ethernetHeaderLen
	}

	// Single VLAN tag (802.1Q or QinQ outer)
	if (etherType == etherTypeVLAN || etherType == etherTypeQinQ) && len(packet) >= offset+vlanHeaderLen {
		etherType = binary.BigEndian.Uint16(packet[offset+2 : offset+4])
		offset += vlanHeaderLen
	}

	var protocol uint8
	switch etherType {
	case etherTypeIPv4:
		if len(packet) < offset+ipv4HeaderMinLen {
			return 0, false
		}
		verIHL := packet[offset]
		if verIHL>>4 != 4 {
			return 0, false
		}
		headerLen := int(verIHL&0x0F) * 4
		if len(packet) < offset+headerLen {
			return 0, false
		}
		protocol = packet[offset+9]
		offset += headerLen

	case etherTypeIPv6:
		if len(packet) < offset+ipv6HeaderLen {
			return 0, false
		}
		if packet[offset]>>4 != 6 {
			return 0, false
		}
		protocol = packet[offset+6]
		offset += ipv6HeaderLen

		// Skip a bounded run of extension headers
		for limit := 0; protocol != ipProtoSCTP && limit < 8 && offset < len(packet); limit++ {
			if protocol != 0 && protocol != 43 && protocol != 44 && protocol != 60 {
				break
			}
			if len(packet) < offset+8 {
				return 0, false
			}
			extLen := (int(packet[offset+1]) + 1) * 8
			if len(packet) < offset+extLen {
				return 0, false
			}
			protocol = packet[offset]
			offset += extLen
		}

	default:
		return 0, false
	}

	if protocol != ipProtoSCTP {
		return 0, false
	}
	if len(packet) < offset+sctpHeaderLen {
		return 0, false
	}
	return offset + sctpHeaderLen, true
}

func pad4(n int) int {
	return (4 - n%4) % 4
}
