// Package sink delivers rule-engine events to their outputs as JSON
// with the proto field names preserved.
package sink

import (
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/melrosenetworks/S1-SEE/internal/log"
	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

var logger = log.WithPrefix("sink")

// Sink receives events produced by the rule engine.
type Sink interface {
	Emit(ev *pb.Event) error
	Flush() error
	Close() error
}

// EmitBatch emits every event in order, continuing past failures, and
// returns the first error seen.
func EmitBatch(s Sink, events []*pb.Event) error {
	var first error
	for _, ev := range events {
		if err := s.Emit(ev); err != nil {
			logger.Warnf("emit %s: %v", ev.Name, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

var jsonMarshaler = protojson.MarshalOptions{UseProtoNames: true}

func marshalEvent(ev *pb.Event) ([]byte, error) {
	return jsonMarshaler.Marshal(ev)
}
