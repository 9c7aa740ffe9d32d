// spoolerd receives signal messages over gRPC and persists them to the
// spool for later processing.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/melrosenetworks/S1-SEE/internal/config"
	"github.com/melrosenetworks/S1-SEE/internal/ingest"
	"github.com/melrosenetworks/S1-SEE/internal/log"
	"github.com/melrosenetworks/S1-SEE/internal/spool"
)

var (
	configFile string
	listenAddr string
	spoolDir   string
	partitions int
)

var rootCmd = &cobra.Command{
	Use:   "spoolerd",
	Short: "S1-SEE spooler daemon - gRPC ingest into WAL spool storage",
	Long: `spoolerd accepts SignalMessage records over a bidirectional gRPC
stream and appends them to partitioned write-ahead log storage. Each
message is acknowledged with its spool position so sources can resume
after a reconnect.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVar(&listenAddr, "listen", "0.0.0.0:50051", "gRPC listen address")
	rootCmd.Flags().StringVar(&spoolDir, "spool-dir", "spool_data", "spool base directory")
	rootCmd.Flags().IntVar(&partitions, "partitions", 1, "number of spool partitions")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("listen") {
		cfg.Spooler.Listen = listenAddr
	}
	if cmd.Flags().Changed("spool-dir") {
		cfg.Spooler.SpoolDir = spoolDir
	}
	if cmd.Flags().Changed("partitions") {
		cfg.Spooler.Partitions = partitions
	}
	if err := log.Init(&cfg.Log); err != nil {
		return err
	}
	logger := log.WithPrefix("spoolerd")

	spoolCfg := spool.DefaultConfig()
	spoolCfg.BaseDir = cfg.Spooler.SpoolDir
	spoolCfg.NumPartitions = cfg.Spooler.Partitions
	spoolCfg.FsyncOnAppend = cfg.Spooler.FsyncOnAppend
	sp, err := spool.New(spoolCfg)
	if err != nil {
		return fmt.Errorf("open spool: %w", err)
	}

	adapter := ingest.NewGRPCAdapter(cfg.Spooler.Listen, sp)
	if err := adapter.Start(); err != nil {
		return fmt.Errorf("start ingest adapter: %w", err)
	}
	logger.Infof("spooling to %s (%d partitions)", cfg.Spooler.SpoolDir, cfg.Spooler.Partitions)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	adapter.Stop()
	if err := sp.Close(); err != nil {
		return fmt.Errorf("close spool: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
