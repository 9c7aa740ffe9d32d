package sink

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

// StdoutSink writes one JSON event per line to standard output.
type StdoutSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStdoutSink() *StdoutSink {
	return &StdoutSink{w: os.Stdout}
}

func (s *StdoutSink) Emit(ev *pb.Event) error {
	data, err := marshalEvent(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "%s\n", data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

func (s *StdoutSink) Flush() error { return nil }

func (s *StdoutSink) Close() error { return nil }
