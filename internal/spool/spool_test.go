package spool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpool_RoundTrip(t *testing.T) {
	s, err := New(Config{BaseDir: t.TempDir(), NumPartitions: 2})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 2, s.Partitions())

	msg := sigMsg(1)
	partition, offset, err := s.Append(msg)
	require.NoError(t, err)
	assert.Equal(t, int64(0), offset)

	records, err := s.Read(partition, 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "enb001", records[0].Message.SourceId)

	hwm, err := s.HighWaterMark(partition)
	require.NoError(t, err)
	assert.Equal(t, int64(1), hwm)

	require.NoError(t, s.CommitOffset("pipeline", partition, 1))
	assert.Equal(t, int64(1), s.LoadOffset("pipeline", partition))

	assert.Equal(t, 0, s.PruneOldSegments())
	require.NoError(t, s.Flush())
}
