package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

func writeCapture(t *testing.T, packets ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.pcap")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := pcapgo.NewWriter(f)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))
	ts := time.Unix(1700000000, 0)
	for i, data := range packets {
		ci := gopacket.CaptureInfo{
			Timestamp:     ts.Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(data),
			Length:        len(data),
		}
		require.NoError(t, w.WritePacket(ci, data))
	}
	return path
}

func TestReadPcapFile(t *testing.T) {
	path := writeCapture(t, []byte{0x01, 0x02}, []byte{0x03, 0x04, 0x05})

	var got []PcapPacket
	n, err := ReadPcapFile(path, func(pkt PcapPacket) { got = append(got, pkt) })
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(1), got[0].FrameNumber)
	assert.Equal(t, []byte{0x01, 0x02}, got[0].Data)
	assert.Equal(t, uint64(2), got[1].FrameNumber)
	assert.Equal(t, 3, got[1].CapturedLen)
	assert.True(t, got[1].Timestamp.After(got[0].Timestamp))
}

func TestReadPcapFile_MissingFile(t *testing.T) {
	_, err := ReadPcapFile(filepath.Join(t.TempDir(), "missing.pcap"), func(PcapPacket) {})
	assert.Error(t, err)
}

func TestReplayPcap(t *testing.T) {
	path := writeCapture(t, []byte{0xaa}, []byte{0xbb})

	var msgs []*pb.SignalMessage
	n, err := ReplayPcap(path, "pcap01", func(msg *pb.SignalMessage) error {
		msgs = append(msgs, msg)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, msgs, 2)
	assert.Equal(t, "pcap01", msgs[0].SourceId)
	assert.Equal(t, int64(1), msgs[0].SourceSequence)
	assert.Equal(t, `{"pcap": true, "packet_num": 1}`, msgs[0].TransportMeta)
	assert.Equal(t, []byte{0xbb}, msgs[1].RawBytes)
	assert.NotZero(t, msgs[0].TsCapture)
}
