package pipeline

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melrosenetworks/S1-SEE/internal/core"
	"github.com/melrosenetworks/S1-SEE/internal/rules"
	"github.com/melrosenetworks/S1-SEE/internal/spool"
	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

// stubDecoder treats the raw bytes as an IMSI and reports a fixed
// message type, sidestepping real S1AP framing.
type stubDecoder struct {
	failWith error
}

func (d *stubDecoder) Decode(raw []byte) (core.CanonicalMessage, error) {
	if d.failWith != nil {
		return core.CanonicalMessage{DecodeFailed: true, RawBytes: raw}, d.failWith
	}
	return core.CanonicalMessage{
		MsgType:  "attachRequest",
		IMSI:     string(raw),
		RawBytes: raw,
	}, nil
}

type captureSink struct {
	mu     sync.Mutex
	events []*pb.Event
}

func (c *captureSink) Emit(ev *pb.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *captureSink) Flush() error { return nil }
func (c *captureSink) Close() error { return nil }

func (c *captureSink) snapshot() []*pb.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*pb.Event(nil), c.events...)
}

func attachRuleset() *rules.Ruleset {
	return &rules.Ruleset{
		ID:      "test",
		Version: "1.0",
		SingleMessageRules: []rules.SingleMessageRule{{
			EventName: "ue_attach",
			MsgType:   "attachRequest",
		}},
	}
}

func seedSpool(t *testing.T, dir string, msgs ...*pb.SignalMessage) {
	t.Helper()
	s, err := spool.New(spool.Config{BaseDir: dir})
	require.NoError(t, err)
	for _, msg := range msgs {
		_, _, err := s.Append(msg)
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())
}

func newTestPipeline(t *testing.T, dir string) (*Pipeline, *captureSink) {
	t.Helper()
	p, err := New(Config{SpoolDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	p.SetDecoder(&stubDecoder{})
	p.LoadRuleset(attachRuleset())
	capture := &captureSink{}
	p.AddSink(capture)
	return p, capture
}

func TestPipeline_ProcessBatch(t *testing.T) {
	dir := t.TempDir()
	seedSpool(t, dir,
		&pb.SignalMessage{SourceId: "enb001", SourceSequence: 1, RawBytes: []byte("310150000000001")},
		&pb.SignalMessage{SourceId: "enb001", SourceSequence: 2, RawBytes: []byte("310150000000002")},
	)

	p, capture := newTestPipeline(t, dir)

	assert.Equal(t, 2, p.ProcessBatch(0))

	events := capture.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "ue_attach", events[0].Name)
	assert.Equal(t, "imsi:310150000000001", events[0].SubscriberKey)
	assert.Equal(t, int64(0), events[0].Evidence.Offsets[0].Offset)
	assert.Equal(t, "imsi:310150000000002", events[1].SubscriberKey)

	// The committed offset covers the whole batch.
	assert.Equal(t, 0, p.ProcessBatch(0))

	stats := p.Stats()
	assert.Equal(t, uint64(2), stats.Records)
	assert.Equal(t, uint64(2), stats.EventsEmitted)
	assert.Equal(t, uint64(2), stats.Batches)
	assert.Zero(t, stats.DecodeFailures)
}

func TestPipeline_FrameNumberFromTransportMeta(t *testing.T) {
	dir := t.TempDir()
	seedSpool(t, dir, &pb.SignalMessage{
		SourceId:      "pcap",
		RawBytes:      []byte("310150000000003"),
		TransportMeta: `{"pcap": true, "packet_num": 7}`,
	})

	p, capture := newTestPipeline(t, dir)
	require.Equal(t, 1, p.ProcessBatch(0))

	events := capture.snapshot()
	require.Len(t, events, 1)
	require.Len(t, events[0].Evidence.Offsets, 1)
	assert.Equal(t, int64(7), events[0].Evidence.Offsets[0].FrameNumber)
}

func TestPipeline_DecodeFailureAdvancesOffset(t *testing.T) {
	dir := t.TempDir()
	seedSpool(t, dir, &pb.SignalMessage{SourceId: "enb001", RawBytes: []byte{0xff}})

	p, capture := newTestPipeline(t, dir)
	p.SetDecoder(&stubDecoder{failWith: errors.New("bad frame")})

	assert.Equal(t, 0, p.ProcessBatch(0))
	assert.Empty(t, capture.snapshot())
	assert.Equal(t, uint64(1), p.Stats().DecodeFailures)
	assert.Equal(t, uint64(1), p.Stats().Records)

	// The failed record is not retried.
	assert.Equal(t, 0, p.ProcessBatch(0))
	assert.Equal(t, uint64(1), p.Stats().Records)
}

func TestPipeline_RunContinuous(t *testing.T) {
	dir := t.TempDir()
	seedSpool(t, dir, &pb.SignalMessage{SourceId: "enb001", RawBytes: []byte("310150000000004")})

	p, capture := newTestPipeline(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	p.RunContinuous(ctx)

	require.Len(t, capture.snapshot(), 1)
}

func TestPipeline_DumpUERecords(t *testing.T) {
	dir := t.TempDir()
	seedSpool(t, dir, &pb.SignalMessage{SourceId: "enb001", RawBytes: []byte("310150000000005")})

	p, _ := newTestPipeline(t, dir)
	p.ProcessBatch(0)

	var buf bytes.Buffer
	p.DumpUERecords(&buf)
	assert.Contains(t, buf.String(), "imsi:310150000000005")
}
