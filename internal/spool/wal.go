package spool

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"google.golang.org/protobuf/proto"

	"github.com/melrosenetworks/S1-SEE/internal/log"
	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

var logger = log.WithPrefix("spool")

const (
	// indexEntrySize is one idx record: int64 offset + int64 position.
	indexEntrySize  = 16
	writeBufferSize = 64 << 10
	segmentCacheTTL = 5 * time.Second
	segmentPrefix   = "segment_"

	// DefaultReadBatch caps a Read when the caller passes no limit.
	DefaultReadBatch = 1000
)

// Config controls the on-disk layout and durability of the log.
type Config struct {
	BaseDir           string
	NumPartitions     int
	MaxSegmentSize    int64
	MaxRetentionBytes int64
	MaxRetentionAge   time.Duration
	FsyncOnAppend     bool
	FsyncInterval     time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BaseDir:           "spool_data",
		NumPartitions:     1,
		MaxSegmentSize:    100 << 20,
		MaxRetentionBytes: 1 << 30,
		MaxRetentionAge:   7 * 24 * time.Hour,
		FsyncOnAppend:     true,
		FsyncInterval:     100 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaseDir == "" {
		c.BaseDir = d.BaseDir
	}
	if c.NumPartitions <= 0 {
		c.NumPartitions = d.NumPartitions
	}
	if c.MaxSegmentSize <= 0 {
		c.MaxSegmentSize = d.MaxSegmentSize
	}
	if c.MaxRetentionBytes <= 0 {
		c.MaxRetentionBytes = d.MaxRetentionBytes
	}
	if c.MaxRetentionAge <= 0 {
		c.MaxRetentionAge = d.MaxRetentionAge
	}
	if c.FsyncInterval <= 0 {
		c.FsyncInterval = d.FsyncInterval
	}
	return c
}

// WALLog is a partitioned append-only log. Each partition holds
// numbered segments named by the first offset they contain, a log
// file of length-prefixed SpoolRecords and a parallel fixed-width
// index. A single mutex serialises appends, reads and offset commits.
type WALLog struct {
	cfg Config

	mu       sync.Mutex
	active   map[int32]*segment
	offsets  map[string]map[int32]int64
	segCache map[int32][]segmentRef
	cacheAt  time.Time
}

type segmentRef struct {
	base    int64
	logPath string
}

func NewWALLog(cfg Config) (*WALLog, error) {
	cfg = cfg.withDefaults()
	w := &WALLog{
		cfg:      cfg,
		active:   make(map[int32]*segment),
		offsets:  make(map[string]map[int32]int64),
		segCache: make(map[int32][]segmentRef),
	}
	for p := 0; p < cfg.NumPartitions; p++ {
		if err := os.MkdirAll(w.partitionDir(int32(p)), 0o755); err != nil {
			return nil, fmt.Errorf("create partition dir: %w", err)
		}
	}
	if err := w.loadConsumerOffsets(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *WALLog) partitionDir(p int32) string {
	return filepath.Join(w.cfg.BaseDir, fmt.Sprintf("partition_%d", p))
}

func (w *WALLog) segmentPath(p int32, base int64, ext string) string {
	return filepath.Join(w.partitionDir(p), fmt.Sprintf("%s%d%s", segmentPrefix, base, ext))
}

// PartitionFor hashes source_id and source_sequence so the same
// message lands on the same partition across restarts.
func (w *WALLog) PartitionFor(msg *pb.SignalMessage) int32 {
	h := fnv.New32a()
	io.WriteString(h, msg.GetSourceId())
	io.WriteString(h, ":")
	io.WriteString(h, strconv.FormatInt(msg.GetSourceSequence(), 10))
	return int32(h.Sum32() % uint32(w.cfg.NumPartitions))
}

// Append stores one message and returns its (partition, offset).
func (w *WALLog) Append(msg *pb.SignalMessage) (int32, int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	partition := w.PartitionFor(msg)
	seg, err := w.activeSegment(partition)
	if err != nil {
		return 0, 0, err
	}

	offset := seg.currentOffset
	rec := &pb.SpoolRecord{
		Partition: partition,
		Offset:    offset,
		TsAppend:  time.Now().UnixNano(),
		Message:   msg,
	}
	data, err := proto.Marshal(rec)
	if err != nil {
		return 0, 0, fmt.Errorf("marshal spool record: %w", err)
	}

	position := seg.size
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], uint32(len(data)))
	if _, err := seg.logW.Write(hdr[:]); err != nil {
		return 0, 0, fmt.Errorf("append record: %w", err)
	}
	if _, err := seg.logW.Write(data); err != nil {
		return 0, 0, fmt.Errorf("append record: %w", err)
	}
	seg.size += int64(len(hdr) + len(data))

	var entry [indexEntrySize]byte
	binary.LittleEndian.PutUint64(entry[0:8], uint64(offset))
	binary.LittleEndian.PutUint64(entry[8:16], uint64(position))
	if _, err := seg.idxW.Write(entry[:]); err != nil {
		return 0, 0, fmt.Errorf("append index entry: %w", err)
	}

	seg.currentOffset++

	if w.cfg.FsyncOnAppend && time.Since(seg.lastSync) >= w.cfg.FsyncInterval {
		if err := seg.sync(); err != nil {
			return 0, 0, err
		}
	}
	return partition, offset, nil
}

// activeSegment returns the partition's open segment, rotating first
// when it has reached the size limit. Caller holds the mutex.
func (w *WALLog) activeSegment(p int32) (*segment, error) {
	if seg, ok := w.active[p]; ok {
		if seg.size < w.cfg.MaxSegmentSize {
			return seg, nil
		}
		if err := seg.close(); err != nil {
			logger.Warnf("closing full segment %s: %v", seg.logPath, err)
		}
		base := seg.currentOffset
		delete(w.active, p)
		delete(w.segCache, p)
		return w.openSegment(p, base)
	}
	base, err := w.scanNextOffset(p)
	if err != nil {
		return nil, err
	}
	return w.openSegment(p, base)
}

// Read returns up to maxRecords records with offset at or beyond the
// requested one, in append order. The active segment is flushed first
// so a reader in the same process sees every acknowledged append.
func (w *WALLog) Read(partition int32, offset int64, maxRecords int) ([]*pb.SpoolRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if maxRecords <= 0 {
		maxRecords = DefaultReadBatch
	}
	if seg, ok := w.active[partition]; ok {
		if err := seg.flush(); err != nil {
			return nil, err
		}
	}

	refs, err := w.listSegments(partition)
	if err != nil {
		return nil, err
	}

	var records []*pb.SpoolRecord
	for i, ref := range refs {
		// Segment ends before the requested offset.
		if i+1 < len(refs) && refs[i+1].base <= offset {
			continue
		}
		recs, err := readSegment(ref, offset, maxRecords-len(records))
		if err != nil {
			return records, err
		}
		records = append(records, recs...)
		if len(records) >= maxRecords {
			break
		}
	}
	return records, nil
}

func readSegment(ref segmentRef, offset int64, max int) ([]*pb.SpoolRecord, error) {
	idxFile, err := os.Open(strings.TrimSuffix(ref.logPath, ".log") + ".idx")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open segment index: %w", err)
	}
	defer idxFile.Close()

	st, err := idxFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat segment index: %w", err)
	}
	entries := st.Size() / indexEntrySize
	if entries == 0 {
		return nil, nil
	}

	// Binary search for the first index entry at or beyond offset.
	position := int64(-1)
	var entry [indexEntrySize]byte
	lo, hi := int64(0), entries-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if _, err := idxFile.ReadAt(entry[:], mid*indexEntrySize); err != nil {
			return nil, fmt.Errorf("read segment index: %w", err)
		}
		if int64(binary.LittleEndian.Uint64(entry[0:8])) < offset {
			lo = mid + 1
		} else {
			position = int64(binary.LittleEndian.Uint64(entry[8:16]))
			hi = mid - 1
		}
	}
	if position < 0 {
		return nil, nil
	}

	logFile, err := os.Open(ref.logPath)
	if err != nil {
		return nil, fmt.Errorf("open segment log: %w", err)
	}
	defer logFile.Close()
	if _, err := logFile.Seek(position, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek segment log: %w", err)
	}

	r := newChunkReader(logFile)
	var records []*pb.SpoolRecord
	for len(records) < max {
		data, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records, fmt.Errorf("read segment log: %w", err)
		}
		rec := &pb.SpoolRecord{}
		if err := proto.Unmarshal(data, rec); err != nil {
			logger.Warnf("skipping corrupt record in %s: %v", ref.logPath, err)
			continue
		}
		if rec.Offset >= offset {
			records = append(records, rec)
		}
	}
	return records, nil
}

// listSegments returns the partition's segments sorted by base
// offset, from a short-lived cache of the directory listing.
func (w *WALLog) listSegments(p int32) ([]segmentRef, error) {
	if refs, ok := w.segCache[p]; ok && time.Since(w.cacheAt) < segmentCacheTTL {
		return refs, nil
	}

	entries, err := os.ReadDir(w.partitionDir(p))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list segments: %w", err)
	}

	var refs []segmentRef
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, segmentPrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		base, err := strconv.ParseInt(name[len(segmentPrefix):len(name)-len(".log")], 10, 64)
		if err != nil {
			continue
		}
		refs = append(refs, segmentRef{base: base, logPath: filepath.Join(w.partitionDir(p), name)})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].base < refs[j].base })

	w.segCache[p] = refs
	w.cacheAt = time.Now()
	return refs, nil
}

// scanNextOffset reads the last index entry of every segment to find
// the offset the next append should receive. Caller holds the mutex.
func (w *WALLog) scanNextOffset(p int32) (int64, error) {
	entries, err := os.ReadDir(w.partitionDir(p))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("scan partition: %w", err)
	}

	next := int64(0)
	var entry [indexEntrySize]byte
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".idx") {
			continue
		}
		f, err := os.Open(filepath.Join(w.partitionDir(p), e.Name()))
		if err != nil {
			continue
		}
		st, err := f.Stat()
		if err == nil && st.Size() >= indexEntrySize {
			last := (st.Size()/indexEntrySize - 1) * indexEntrySize
			if _, err := f.ReadAt(entry[:], last); err == nil {
				if off := int64(binary.LittleEndian.Uint64(entry[0:8])); off+1 > next {
					next = off + 1
				}
			}
		}
		f.Close()
	}
	return next, nil
}

// HighWaterMark returns the offset the next append to the partition
// will receive. A consumer is caught up when its committed offset has
// reached this value.
func (w *WALLog) HighWaterMark(partition int32) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seg, ok := w.active[partition]; ok {
		return seg.currentOffset, nil
	}
	return w.scanNextOffset(partition)
}

func (w *WALLog) offsetFilePath(group string, partition int32) string {
	return filepath.Join(w.cfg.BaseDir, "offsets", fmt.Sprintf("%s_p%d.offset", group, partition))
}

func (w *WALLog) loadConsumerOffsets() error {
	dir := filepath.Join(w.cfg.BaseDir, "offsets")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("list consumer offsets: %w", err)
	}
	for _, e := range entries {
		stem, ok := strings.CutSuffix(e.Name(), ".offset")
		if !ok {
			continue
		}
		i := strings.LastIndex(stem, "_p")
		if i < 0 {
			continue
		}
		partition, err := strconv.Atoi(stem[i+2:])
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil || len(data) < 8 {
			continue
		}
		group := stem[:i]
		if w.offsets[group] == nil {
			w.offsets[group] = make(map[int32]int64)
		}
		w.offsets[group][int32(partition)] = int64(binary.LittleEndian.Uint64(data[:8]))
	}
	return nil
}

// CommitOffset persists the next offset the group should consume.
func (w *WALLog) CommitOffset(group string, partition int32, offset int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.offsets[group] == nil {
		w.offsets[group] = make(map[int32]int64)
	}
	w.offsets[group][partition] = offset

	if err := os.MkdirAll(filepath.Join(w.cfg.BaseDir, "offsets"), 0o755); err != nil {
		return fmt.Errorf("create offsets dir: %w", err)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(offset))
	if err := os.WriteFile(w.offsetFilePath(group, partition), buf[:], 0o644); err != nil {
		return fmt.Errorf("save consumer offset: %w", err)
	}
	return nil
}

// LoadOffset returns the committed consumer offset, zero when the
// group has never committed on the partition.
func (w *WALLog) LoadOffset(group string, partition int32) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.offsets[group][partition]
}

// PruneOldSegments removes closed segments past the retention age or
// byte budget, oldest first. The newest segment of each partition is
// never removed. Returns how many segments were deleted.
func (w *WALLog) PruneOldSegments() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-w.cfg.MaxRetentionAge)
	for p := int32(0); p < int32(w.cfg.NumPartitions); p++ {
		delete(w.segCache, p)
		refs, err := w.listSegments(p)
		if err != nil {
			logger.Warnf("prune partition %d: %v", p, err)
			continue
		}
		if len(refs) < 2 {
			continue
		}

		var total int64
		for _, ref := range refs {
			if st, err := os.Stat(ref.logPath); err == nil {
				total += st.Size()
			}
		}

		activeBase := int64(-1)
		if seg, ok := w.active[p]; ok {
			activeBase = seg.baseOffset
		}
		for _, ref := range refs[:len(refs)-1] {
			if ref.base == activeBase {
				continue
			}
			st, err := os.Stat(ref.logPath)
			if err != nil {
				continue
			}
			if st.ModTime().After(cutoff) && total <= w.cfg.MaxRetentionBytes {
				break
			}
			if err := os.Remove(ref.logPath); err != nil {
				logger.Warnf("prune %s: %v", ref.logPath, err)
				continue
			}
			os.Remove(strings.TrimSuffix(ref.logPath, ".log") + ".idx")
			total -= st.Size()
			removed++
			logger.Infof("pruned segment %s", ref.logPath)
		}
		delete(w.segCache, p)
	}
	return removed
}

// Flush forces buffered appends in every active segment to disk.
func (w *WALLog) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var first error
	for _, seg := range w.active {
		if err := seg.sync(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close flushes and closes every active segment.
func (w *WALLog) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var first error
	for p, seg := range w.active {
		if err := seg.close(); err != nil && first == nil {
			first = err
		}
		delete(w.active, p)
	}
	return first
}
