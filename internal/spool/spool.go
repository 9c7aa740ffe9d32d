// Package spool persists ingested signal messages in a partitioned
// write-ahead log and serves batch reads with per-group consumer
// offset tracking.
package spool

import (
	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

// Spool is the storage facade the ingest and pipeline layers use.
type Spool struct {
	wal *WALLog
}

func New(cfg Config) (*Spool, error) {
	wal, err := NewWALLog(cfg)
	if err != nil {
		return nil, err
	}
	return &Spool{wal: wal}, nil
}

// Append stores one message and returns its (partition, offset).
func (s *Spool) Append(msg *pb.SignalMessage) (int32, int64, error) {
	return s.wal.Append(msg)
}

// Read returns up to maxRecords records at or beyond offset, in
// append order.
func (s *Spool) Read(partition int32, offset int64, maxRecords int) ([]*pb.SpoolRecord, error) {
	return s.wal.Read(partition, offset, maxRecords)
}

// CommitOffset persists the next offset the group should consume on
// the partition.
func (s *Spool) CommitOffset(group string, partition int32, offset int64) error {
	return s.wal.CommitOffset(group, partition, offset)
}

// LoadOffset returns the committed consumer offset, zero when the
// group has never committed.
func (s *Spool) LoadOffset(group string, partition int32) int64 {
	return s.wal.LoadOffset(group, partition)
}

// HighWaterMark returns the offset the next append to the partition
// will receive.
func (s *Spool) HighWaterMark(partition int32) (int64, error) {
	return s.wal.HighWaterMark(partition)
}

// Partitions returns the configured partition count.
func (s *Spool) Partitions() int {
	return s.wal.cfg.NumPartitions
}

// PruneOldSegments removes closed segments past the retention limits
// and returns how many were deleted.
func (s *Spool) PruneOldSegments() int {
	return s.wal.PruneOldSegments()
}

// Flush forces buffered appends to disk.
func (s *Spool) Flush() error {
	return s.wal.Flush()
}

// Close flushes and closes every active segment.
func (s *Spool) Close() error {
	return s.wal.Close()
}
