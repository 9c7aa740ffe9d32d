// Package pipeline drives the processor loop: pull record batches
// from the spool, decode and correlate them, evaluate rules and hand
// the resulting events to the sinks.
package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/melrosenetworks/S1-SEE/internal/core"
	"github.com/melrosenetworks/S1-SEE/internal/correlate"
	"github.com/melrosenetworks/S1-SEE/internal/decode"
	"github.com/melrosenetworks/S1-SEE/internal/log"
	"github.com/melrosenetworks/S1-SEE/internal/rules"
	"github.com/melrosenetworks/S1-SEE/internal/sink"
	"github.com/melrosenetworks/S1-SEE/internal/spool"
	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

var logger = log.WithPrefix("pipeline")

type Config struct {
	SpoolDir        string
	SpoolPartitions int
	ConsumerGroup   string
	ContextExpiry   time.Duration
	BatchSize       int
	PollInterval    time.Duration
}

func (c Config) withDefaults() Config {
	if c.SpoolDir == "" {
		c.SpoolDir = "spool_data"
	}
	if c.SpoolPartitions <= 0 {
		c.SpoolPartitions = 1
	}
	if c.ConsumerGroup == "" {
		c.ConsumerGroup = "default"
	}
	if c.ContextExpiry <= 0 {
		c.ContextExpiry = 5 * time.Minute
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 100 * time.Millisecond
	}
	return c
}

// Pipeline owns the spool reader side, the decoder, the correlator,
// the rule engine and the sinks. It is driven from a single goroutine.
type Pipeline struct {
	cfg        Config
	spool      *spool.Spool
	decoder    decode.Decoder
	correlator *correlate.Correlator
	engine     *rules.Engine
	sinks      []sink.Sink
	metrics    *Metrics
}

func New(cfg Config) (*Pipeline, error) {
	cfg = cfg.withDefaults()

	spoolCfg := spool.DefaultConfig()
	spoolCfg.BaseDir = cfg.SpoolDir
	spoolCfg.NumPartitions = cfg.SpoolPartitions
	sp, err := spool.New(spoolCfg)
	if err != nil {
		return nil, err
	}

	correlator := correlate.New(correlate.Config{ContextExpiry: cfg.ContextExpiry})
	return &Pipeline{
		cfg:        cfg,
		spool:      sp,
		decoder:    decode.NewS1APDecoder(),
		correlator: correlator,
		engine:     rules.NewEngine(correlator),
		metrics:    NewMetrics(cfg.ConsumerGroup),
	}, nil
}

// SetDecoder replaces the frame decoder.
func (p *Pipeline) SetDecoder(d decode.Decoder) {
	p.decoder = d
}

func (p *Pipeline) LoadRuleset(rs *rules.Ruleset) {
	p.engine.LoadRuleset(rs)
}

func (p *Pipeline) AddSink(s sink.Sink) {
	p.sinks = append(p.sinks, s)
}

// transportMeta is the JSON carried in SignalMessage.transport_meta
// by pcap-derived sources.
type transportMeta struct {
	PacketNum uint64 `json:"packet_num"`
}

func (p *Pipeline) decodeAndNormalize(rec *pb.SpoolRecord) *core.CanonicalMessage {
	msg, err := p.decoder.Decode(rec.Message.GetRawBytes())
	if err != nil {
		// The decoder marks the failure and keeps the raw bytes.
		p.metrics.DecodeFailures.Add(1)
		logger.Debugf("decode p=%d offset=%d: %v", rec.Partition, rec.Offset, err)
	}
	msg.Partition = uint32(rec.Partition)
	msg.Offset = uint64(rec.Offset)

	if meta := rec.Message.GetTransportMeta(); meta != "" {
		var tm transportMeta
		if err := json.Unmarshal([]byte(meta), &tm); err == nil && tm.PacketNum != 0 {
			msg.FrameNumber = tm.PacketNum
		}
	}
	return &msg
}

// processRecord runs one record through rules and sinks. A panic is
// confined to the record, which is then skipped.
func (p *Pipeline) processRecord(rec *pb.SpoolRecord) (emitted int) {
	defer func() {
		if r := recover(); r != nil {
			p.metrics.RecordFailures.Add(1)
			logger.Errorf("processing record p=%d offset=%d: %v", rec.Partition, rec.Offset, r)
			emitted = 0
		}
	}()

	msg := p.decodeAndNormalize(rec)
	events := p.engine.Process(msg)
	for _, s := range p.sinks {
		if err := sink.EmitBatch(s, events); err != nil {
			p.metrics.EmitErrors.Add(1)
		}
	}
	p.metrics.Records.Add(1)
	p.metrics.EventsEmitted.Add(uint64(len(events)))
	return len(events)
}

// ProcessBatch consumes up to maxMessages records per partition and
// returns the number of events emitted. Zero means the configured
// batch size. A partition whose read fails is retried on the next
// batch; a record-level failure advances the consumer offset past the
// record.
func (p *Pipeline) ProcessBatch(maxMessages int) int {
	if maxMessages <= 0 {
		maxMessages = p.cfg.BatchSize
	}

	emitted := 0
	for part := int32(0); part < int32(p.cfg.SpoolPartitions); part++ {
		offset := p.spool.LoadOffset(p.cfg.ConsumerGroup, part)
		highWater, err := p.spool.HighWaterMark(part)
		if err != nil {
			logger.Warnf("high water mark partition %d: %v", part, err)
			continue
		}
		if offset >= highWater {
			continue
		}

		records, err := p.spool.Read(part, offset, maxMessages)
		if err != nil {
			logger.Errorf("read partition %d from %d: %v", part, offset, err)
			continue
		}

		next := offset
		for _, rec := range records {
			emitted += p.processRecord(rec)
			next = rec.Offset + 1
		}
		if next > offset {
			if err := p.spool.CommitOffset(p.cfg.ConsumerGroup, part, next); err != nil {
				logger.Errorf("commit partition %d: %v", part, err)
			}
		}
	}

	p.correlator.CleanupExpired()
	p.engine.CleanupExpiredSequences()
	p.metrics.Batches.Add(1)
	return emitted
}

// RunContinuous processes batches until the context is cancelled,
// polling when the spool has nothing new.
func (p *Pipeline) RunContinuous(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()
	for {
		p.ProcessBatch(0)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stats returns a snapshot of the pipeline counters.
func (p *Pipeline) Stats() Stats {
	return p.metrics.Snapshot()
}

// DumpUERecords writes the correlator's UE table, used at shutdown.
func (p *Pipeline) DumpUERecords(w io.Writer) {
	p.correlator.DumpUERecords(w)
}

// Close flushes and closes the sinks and the spool.
func (p *Pipeline) Close() error {
	var first error
	for _, s := range p.sinks {
		if err := s.Flush(); err != nil && first == nil {
			first = err
		}
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	if err := p.spool.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
