package spool

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

func sigMsg(seq int64) *pb.SignalMessage {
	return &pb.SignalMessage{
		SourceId:       "enb001",
		SourceSequence: seq,
		TsCapture:      time.Now().UnixNano(),
		PayloadType:    "s1ap",
		RawBytes:       []byte{0x00, 0x0c, 0x40, 0x3b},
		Direction:      "uplink",
	}
}

func newTestWAL(t *testing.T, cfg Config) *WALLog {
	t.Helper()
	if cfg.BaseDir == "" {
		cfg.BaseDir = t.TempDir()
	}
	w, err := NewWALLog(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWALLog_AppendRead(t *testing.T) {
	w := newTestWAL(t, Config{})

	for i := int64(0); i < 3; i++ {
		partition, offset, err := w.Append(sigMsg(i))
		require.NoError(t, err)
		assert.Equal(t, int32(0), partition)
		assert.Equal(t, i, offset)
	}

	records, err := w.Read(0, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i, rec := range records {
		assert.Equal(t, int32(0), rec.Partition)
		assert.Equal(t, int64(i), rec.Offset)
		assert.NotZero(t, rec.TsAppend)
		require.NotNil(t, rec.Message)
		assert.Equal(t, "enb001", rec.Message.SourceId)
		assert.Equal(t, int64(i), rec.Message.SourceSequence)
		assert.Equal(t, []byte{0x00, 0x0c, 0x40, 0x3b}, rec.Message.RawBytes)
	}
}

func TestWALLog_ReadFromOffset(t *testing.T) {
	w := newTestWAL(t, Config{})
	for i := int64(0); i < 5; i++ {
		_, _, err := w.Append(sigMsg(i))
		require.NoError(t, err)
	}

	records, err := w.Read(0, 3, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(3), records[0].Offset)
	assert.Equal(t, int64(4), records[1].Offset)

	records, err = w.Read(0, 0, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(0), records[0].Offset)

	records, err = w.Read(0, 99, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWALLog_HighWaterMark(t *testing.T) {
	dir := t.TempDir()
	w := newTestWAL(t, Config{BaseDir: dir})

	hwm, err := w.HighWaterMark(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), hwm)

	for i := int64(0); i < 3; i++ {
		_, _, err := w.Append(sigMsg(i))
		require.NoError(t, err)
	}
	hwm, err = w.HighWaterMark(0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), hwm)

	require.NoError(t, w.Close())

	// Cold start recovers the mark from the segment indexes.
	reopened := newTestWAL(t, Config{BaseDir: dir})
	hwm, err = reopened.HighWaterMark(0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), hwm)
}

func TestWALLog_ReopenContinuesOffsets(t *testing.T) {
	dir := t.TempDir()
	w := newTestWAL(t, Config{BaseDir: dir})
	for i := int64(0); i < 2; i++ {
		_, _, err := w.Append(sigMsg(i))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	reopened := newTestWAL(t, Config{BaseDir: dir})
	_, offset, err := reopened.Append(sigMsg(2))
	require.NoError(t, err)
	assert.Equal(t, int64(2), offset)

	records, err := reopened.Read(0, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, int64(i), rec.Offset)
	}
}

func TestWALLog_ConsumerOffsets(t *testing.T) {
	dir := t.TempDir()
	w := newTestWAL(t, Config{BaseDir: dir})

	assert.Equal(t, int64(0), w.LoadOffset("pipeline", 0))

	require.NoError(t, w.CommitOffset("pipeline", 0, 5))
	assert.Equal(t, int64(5), w.LoadOffset("pipeline", 0))
	assert.Equal(t, int64(0), w.LoadOffset("other", 0))

	require.NoError(t, w.Close())

	reopened := newTestWAL(t, Config{BaseDir: dir})
	assert.Equal(t, int64(5), reopened.LoadOffset("pipeline", 0))
}

func TestWALLog_Rotation(t *testing.T) {
	dir := t.TempDir()
	w := newTestWAL(t, Config{BaseDir: dir, MaxSegmentSize: 1})

	for i := int64(0); i < 4; i++ {
		_, offset, err := w.Append(sigMsg(i))
		require.NoError(t, err)
		assert.Equal(t, i, offset)
	}

	logs, err := filepath.Glob(filepath.Join(dir, "partition_0", "segment_*.log"))
	require.NoError(t, err)
	assert.Len(t, logs, 4)

	records, err := w.Read(0, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for i, rec := range records {
		assert.Equal(t, int64(i), rec.Offset)
	}

	records, err = w.Read(0, 2, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].Offset)
}

func TestWALLog_PartitionFor(t *testing.T) {
	w := newTestWAL(t, Config{NumPartitions: 4})

	msg := sigMsg(7)
	p := w.PartitionFor(msg)
	assert.GreaterOrEqual(t, p, int32(0))
	assert.Less(t, p, int32(4))
	assert.Equal(t, p, w.PartitionFor(msg))

	single := newTestWAL(t, Config{NumPartitions: 1})
	assert.Equal(t, int32(0), single.PartitionFor(msg))
}

func TestWALLog_PruneOldSegments(t *testing.T) {
	dir := t.TempDir()
	w := newTestWAL(t, Config{
		BaseDir:         dir,
		MaxSegmentSize:  1,
		MaxRetentionAge: time.Nanosecond,
	})

	for i := int64(0); i < 3; i++ {
		_, _, err := w.Append(sigMsg(i))
		require.NoError(t, err)
	}
	time.Sleep(10 * time.Millisecond)

	// The newest segment survives regardless of age.
	assert.Equal(t, 2, w.PruneOldSegments())

	logs, err := filepath.Glob(filepath.Join(dir, "partition_0", "segment_*.log"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	records, err := w.Read(0, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].Offset)
}

func TestWALLog_TruncatedTail(t *testing.T) {
	dir := t.TempDir()
	w := newTestWAL(t, Config{BaseDir: dir})
	for i := int64(0); i < 2; i++ {
		_, _, err := w.Append(sigMsg(i))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	logPath := filepath.Join(dir, "partition_0", "segment_0.log")
	st, err := os.Stat(logPath)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(logPath, st.Size()-3))

	reopened := newTestWAL(t, Config{BaseDir: dir})
	records, err := reopened.Read(0, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(0), records[0].Offset)
}
