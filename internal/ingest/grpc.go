// Package ingest accepts signal messages over a gRPC stream and
// appends them to the spool, acknowledging each append.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/melrosenetworks/S1-SEE/internal/log"
	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

var logger = log.WithPrefix("ingest")

// Store is the spool surface the adapter appends to.
type Store interface {
	Append(msg *pb.SignalMessage) (int32, int64, error)
}

// GRPCAdapter serves the bidirectional ingest stream. Every received
// message is appended to the store and acknowledged with its spool
// position.
type GRPCAdapter struct {
	pb.UnimplementedIngestServiceServer

	addr    string
	store   Store
	running atomic.Bool
	server  *grpc.Server
}

func NewGRPCAdapter(addr string, store Store) *GRPCAdapter {
	return &GRPCAdapter{addr: addr, store: store}
}

// Start begins serving in a background goroutine.
func (a *GRPCAdapter) Start() error {
	if !a.running.CompareAndSwap(false, true) {
		return errors.New("ingest adapter already running")
	}

	lis, err := net.Listen("tcp", a.addr)
	if err != nil {
		a.running.Store(false)
		return fmt.Errorf("listen %s: %w", a.addr, err)
	}

	a.server = grpc.NewServer()
	pb.RegisterIngestServiceServer(a.server, a)

	go func() {
		if err := a.server.Serve(lis); err != nil {
			logger.Errorf("ingest server: %v", err)
		}
	}()

	logger.Infof("ingest listening on %s", lis.Addr())
	return nil
}

// Stop drains in-flight streams and shuts the server down.
func (a *GRPCAdapter) Stop() {
	if !a.running.CompareAndSwap(true, false) {
		return
	}
	if a.server != nil {
		a.server.GracefulStop()
	}
}

func (a *GRPCAdapter) Ingest(stream grpc.BidiStreamingServer[pb.SignalMessage, pb.IngestAck]) error {
	var sequence int64
	for {
		msg, err := stream.Recv()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		sequence++

		if msg.TsIngest == 0 {
			msg.TsIngest = time.Now().UnixNano()
		}

		partition, offset, err := a.store.Append(msg)
		if err != nil {
			logger.Errorf("append from %s: %v", msg.SourceId, err)
			// Best effort; the stream is aborted either way.
			_ = stream.Send(&pb.IngestAck{
				Sequence:     sequence,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			return status.Error(codes.Internal, err.Error())
		}

		ack := &pb.IngestAck{
			MessageId: fmt.Sprintf("%s:%d", msg.SourceId, msg.SourceSequence),
			Sequence:  sequence,
			SpoolOffset: &pb.SpoolOffset{
				Partition: partition,
				Offset:    offset,
			},
			Success: true,
		}
		if err := stream.Send(ack); err != nil {
			return status.Error(codes.Internal, "failed to send ack")
		}
	}
}
