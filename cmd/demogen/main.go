// demogen streams sample or pcap-derived SignalMessages to a running
// spoolerd and prints the returned acks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/melrosenetworks/S1-SEE/internal/utils"
	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

var (
	serverAddr string
	count      int
	pcapFile   string
	sourceID   string
)

var rootCmd = &cobra.Command{
	Use:   "demogen",
	Short: "S1-SEE demo generator - gRPC ingest test client",
	Long: `demogen opens an ingest stream to a spoolerd instance and sends
either generated sample messages or the packets of a pcap capture,
printing each ack as it arrives.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&serverAddr, "server", "localhost:50051", "spoolerd address")
	rootCmd.Flags().IntVar(&count, "count", 10, "number of sample messages to send")
	rootCmd.Flags().StringVar(&pcapFile, "pcap", "", "replay this pcap file instead of samples")
	rootCmd.Flags().StringVar(&sourceID, "source-id", "demo_source", "source id stamped on messages")
}

// samplePayloads are placeholder PDU bytes cycled through by sample
// generation; they exercise the ingest path, not the decoder.
var samplePayloads = [][]byte{
	{0x00, 0x01, 0x02, 0x03, 0x04},
	{0x01, 0x05, 0x06, 0x07, 0x08},
	{0x02, 0x09, 0x0a, 0x0b, 0x0c},
}

func run(cmd *cobra.Command, args []string) error {
	fmt.Printf("connecting to %s\n", serverAddr)
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect %s: %w", serverAddr, err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := pb.NewIngestServiceClient(conn)
	stream, err := client.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("open ingest stream: %w", err)
	}

	send := func(msg *pb.SignalMessage) error {
		if err := stream.Send(msg); err != nil {
			return fmt.Errorf("send %d: %w", msg.SourceSequence, err)
		}
		ack, err := stream.Recv()
		if err != nil {
			return fmt.Errorf("recv ack %d: %w", msg.SourceSequence, err)
		}
		if ack.Success {
			fmt.Printf("message %s acked: p=%d offset=%d\n",
				ack.MessageId, ack.SpoolOffset.Partition, ack.SpoolOffset.Offset)
		} else {
			fmt.Printf("message %s failed: %s\n", ack.MessageId, ack.ErrorMessage)
		}
		return nil
	}

	sent := 0
	if pcapFile != "" {
		sent, err = utils.ReplayPcap(pcapFile, sourceID, send)
		if err != nil {
			return fmt.Errorf("replay %s: %w", pcapFile, err)
		}
	} else {
		now := time.Now().UnixNano()
		for i := 0; i < count; i++ {
			ts := now + int64(i)*int64(time.Millisecond)
			msg := &pb.SignalMessage{
				TsCapture:      ts,
				TsIngest:       ts,
				SourceId:       sourceID,
				Direction:      "uplink",
				SourceSequence: int64(i),
				TransportMeta:  `{"demo": true}`,
				PayloadType:    "raw_bytes",
				RawBytes:       samplePayloads[i%len(samplePayloads)],
			}
			if err := send(msg); err != nil {
				return err
			}
			sent++
			time.Sleep(100 * time.Millisecond)
		}
	}

	if err := stream.CloseSend(); err != nil {
		return fmt.Errorf("close stream: %w", err)
	}
	fmt.Printf("demo complete, sent %d messages\n", sent)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
