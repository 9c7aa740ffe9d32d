// Package utils holds offline capture helpers shared by the binaries.
package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/gopacket/pcapgo"

	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

// PcapPacket is one captured frame. Frame numbers are 1-indexed,
// matching capture tool numbering.
type PcapPacket struct {
	Timestamp   time.Time
	CapturedLen int
	OriginalLen int
	FrameNumber uint64
	Data        []byte
}

// ReadPcapFile streams every packet in the capture through fn and
// returns the packet count.
func ReadPcapFile(path string, fn func(PcapPacket)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pcap: %w", err)
	}
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	if err != nil {
		return 0, fmt.Errorf("read pcap header %s: %w", path, err)
	}

	count := 0
	for {
		data, ci, err := r.ReadPacketData()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("read packet %d: %w", count+1, err)
		}
		count++
		fn(PcapPacket{
			Timestamp:   ci.Timestamp,
			CapturedLen: ci.CaptureLength,
			OriginalLen: ci.Length,
			FrameNumber: uint64(count),
			Data:        data,
		})
	}
}

// ReplayPcap converts every packet in the capture into a SignalMessage
// and hands it to fn. The packet number travels in transport_meta so
// downstream evidence can point back at the capture frame. Replay stops
// at the first fn error.
func ReplayPcap(path, sourceID string, fn func(*pb.SignalMessage) error) (int, error) {
	var cbErr error
	n, err := ReadPcapFile(path, func(pkt PcapPacket) {
		if cbErr != nil {
			return
		}
		cbErr = fn(&pb.SignalMessage{
			TsCapture:      pkt.Timestamp.UnixNano(),
			SourceId:       sourceID,
			SourceSequence: int64(pkt.FrameNumber),
			TransportMeta:  fmt.Sprintf(`{"pcap": true, "packet_num": %d}`, pkt.FrameNumber),
			PayloadType:    "raw_bytes",
			RawBytes:       pkt.Data,
		})
	})
	if err != nil {
		return n, err
	}
	return n, cbErr
}
