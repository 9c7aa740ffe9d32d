package spool

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// segment is one open log/index file pair. Writes go through 64 KB
// buffers and are synced on the configured fsync interval.
type segment struct {
	baseOffset    int64
	currentOffset int64
	size          int64
	logPath       string
	idxPath       string
	logFile       *os.File
	idxFile       *os.File
	logW          *bufio.Writer
	idxW          *bufio.Writer
	lastSync      time.Time
}

// openSegment opens (or creates) the segment files for base and
// registers the segment as the partition's active one. An existing
// pair recovers size and current offset from the files. Caller holds
// the mutex.
func (w *WALLog) openSegment(p int32, base int64) (*segment, error) {
	seg := &segment{
		baseOffset:    base,
		currentOffset: base,
		logPath:       w.segmentPath(p, base, ".log"),
		idxPath:       w.segmentPath(p, base, ".idx"),
		lastSync:      time.Now(),
	}

	logFile, err := os.OpenFile(seg.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open segment log: %w", err)
	}
	idxFile, err := os.OpenFile(seg.idxPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open segment index: %w", err)
	}

	if st, err := logFile.Stat(); err == nil {
		seg.size = st.Size()
	}
	if st, err := idxFile.Stat(); err == nil {
		seg.currentOffset = base + st.Size()/indexEntrySize
	}

	seg.logFile = logFile
	seg.idxFile = idxFile
	seg.logW = bufio.NewWriterSize(logFile, writeBufferSize)
	seg.idxW = bufio.NewWriterSize(idxFile, writeBufferSize)

	w.active[p] = seg
	delete(w.segCache, p)
	return seg, nil
}

func (s *segment) flush() error {
	if err := s.logW.Flush(); err != nil {
		return fmt.Errorf("flush segment log: %w", err)
	}
	if err := s.idxW.Flush(); err != nil {
		return fmt.Errorf("flush segment index: %w", err)
	}
	return nil
}

func (s *segment) sync() error {
	if err := s.flush(); err != nil {
		return err
	}
	if err := s.logFile.Sync(); err != nil {
		return fmt.Errorf("sync segment log: %w", err)
	}
	if err := s.idxFile.Sync(); err != nil {
		return fmt.Errorf("sync segment index: %w", err)
	}
	s.lastSync = time.Now()
	return nil
}

func (s *segment) close() error {
	err := s.sync()
	if cerr := s.logFile.Close(); err == nil {
		err = cerr
	}
	if cerr := s.idxFile.Close(); err == nil {
		err = cerr
	}
	return err
}

// chunkReader iterates the length-prefixed records of a log file. A
// truncated tail, from a crash mid-append, reads as a clean EOF.
type chunkReader struct {
	r *bufio.Reader
}

func newChunkReader(r io.Reader) *chunkReader {
	return &chunkReader{r: bufio.NewReader(r)}
}

func (c *chunkReader) next() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(c.r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	length := binary.LittleEndian.Uint32(hdr[:])
	if length == 0 {
		return nil, io.EOF
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(c.r, data); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	return data, nil
}
