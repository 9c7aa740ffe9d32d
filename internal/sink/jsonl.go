package sink

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

// JSONLSink appends one JSON event per line to a file.
type JSONLSink struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *bufio.Writer
}

func NewJSONLSink(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open events file: %w", err)
	}
	return &JSONLSink{path: path, file: f, w: bufio.NewWriter(f)}, nil
}

func (s *JSONLSink) Emit(ev *pb.Event) error {
	data, err := marshalEvent(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return fmt.Errorf("sink closed: %s", s.path)
	}
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func (s *JSONLSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("flush events file: %w", err)
	}
	return nil
}

func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	flushErr := s.w.Flush()
	err := s.file.Close()
	s.file = nil
	if flushErr != nil {
		return fmt.Errorf("flush events file: %w", flushErr)
	}
	if err != nil {
		return fmt.Errorf("close events file: %w", err)
	}
	return nil
}
