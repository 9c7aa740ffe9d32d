// processor pulls spooled signal messages through the decode,
// correlate and rule-evaluation pipeline and emits events to sinks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/melrosenetworks/S1-SEE/internal/config"
	"github.com/melrosenetworks/S1-SEE/internal/log"
	"github.com/melrosenetworks/S1-SEE/internal/pipeline"
	"github.com/melrosenetworks/S1-SEE/internal/rules"
	"github.com/melrosenetworks/S1-SEE/internal/sink"
)

var (
	configFile  string
	spoolDir    string
	rulesetFile string
	outputFile  string
	continuous  bool
)

var rootCmd = &cobra.Command{
	Use:   "processor",
	Short: "S1-SEE processor - spool consumer with rule evaluation",
	Long: `processor reads SignalMessage records from spool storage, decodes
the contained S1AP/NAS PDUs, correlates UE identifiers across messages
and evaluates the loaded ruleset, emitting events to stdout and a JSONL
file. On shutdown the correlated UE table is dumped to stdout.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.Flags().StringVar(&spoolDir, "spool-dir", "spool_data", "spool base directory")
	rootCmd.Flags().StringVar(&rulesetFile, "ruleset", "config/rulesets/mobility.yaml", "ruleset YAML file")
	rootCmd.Flags().StringVar(&outputFile, "output", "events.jsonl", "JSONL event output file")
	rootCmd.Flags().BoolVar(&continuous, "continuous", true, "keep polling the spool until interrupted")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("spool-dir") {
		cfg.Processor.SpoolDir = spoolDir
	}
	if cmd.Flags().Changed("ruleset") {
		cfg.Processor.Ruleset = rulesetFile
	}
	if cmd.Flags().Changed("output") {
		cfg.Processor.Output = outputFile
	}
	if cmd.Flags().Changed("continuous") {
		cfg.Processor.Continuous = continuous
	}
	if err := log.Init(&cfg.Log); err != nil {
		return err
	}
	logger := log.WithPrefix("processor")

	p, err := pipeline.New(pipeline.Config{
		SpoolDir:        cfg.Processor.SpoolDir,
		SpoolPartitions: cfg.Processor.Partitions,
		ConsumerGroup:   cfg.Processor.ConsumerGroup,
		ContextExpiry:   cfg.Processor.ContextExpiry,
		BatchSize:       cfg.Processor.BatchSize,
	})
	if err != nil {
		return fmt.Errorf("open pipeline: %w", err)
	}
	defer p.Close()

	rs, err := rules.LoadRuleset(cfg.Processor.Ruleset)
	if err != nil {
		return fmt.Errorf("load ruleset: %w", err)
	}
	p.LoadRuleset(rs)
	logger.Infof("loaded ruleset %s v%s", rs.ID, rs.Version)

	jsonl, err := sink.NewJSONLSink(cfg.Processor.Output)
	if err != nil {
		return fmt.Errorf("open event output: %w", err)
	}
	p.AddSink(sink.NewStdoutSink())
	p.AddSink(jsonl)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Processor.Continuous {
		logger.Infof("consuming %s as group %q", cfg.Processor.SpoolDir, cfg.Processor.ConsumerGroup)
		p.RunContinuous(ctx)
	} else {
		emitted := p.ProcessBatch(0)
		logger.Infof("emitted %d events", emitted)
	}

	stats := p.Stats()
	logger.Infof("processed %d records in %d batches, %d events",
		stats.Records, stats.Batches, stats.EventsEmitted)

	fmt.Println("\nUE records:")
	p.DumpUERecords(os.Stdout)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
