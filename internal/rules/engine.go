package rules

import (
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/melrosenetworks/S1-SEE/internal/core"
	"github.com/melrosenetworks/S1-SEE/internal/correlate"
	"github.com/melrosenetworks/S1-SEE/internal/log"
	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

var logger = log.WithPrefix("rules")

// maxSequenceAge bounds how long a pending first message waits for its
// second, regardless of the rule's own window.
const maxSequenceAge = time.Minute

type sequenceState struct {
	firstMsgType   string
	firstMessage   core.CanonicalMessage
	firstSeen      time.Time
	rulesetID      string
	rulesetVersion string
}

// Engine evaluates loaded rulesets against the message stream. Pending
// sequence state is grouped per subscriber key.
type Engine struct {
	correlator *correlate.Correlator

	mu        sync.Mutex
	rulesets  []*Ruleset
	sequences map[string][]*sequenceState
}

func NewEngine(correlator *correlate.Correlator) *Engine {
	return &Engine{
		correlator: correlator,
		sequences:  make(map[string][]*sequenceState),
	}
}

func (e *Engine) LoadRuleset(rs *Ruleset) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rulesets = append(e.rulesets, rs)
	logger.Infof("loaded ruleset %s v%s: %d single, %d sequence rules",
		rs.ID, rs.Version, len(rs.SingleMessageRules), len(rs.SequenceRules))
}

// Process correlates the message and evaluates every loaded ruleset
// against it. The subscriber key is resolved once per message so the
// frame-level correlation work is not repeated per rule.
func (e *Engine) Process(msg *core.CanonicalMessage) []*pb.Event {
	key := e.correlator.GetOrCreateContext(msg)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cleanupExpiredLocked(time.Now())

	var events []*pb.Event
	for _, rs := range e.rulesets {
		events = append(events, e.checkSingleMessageRules(msg, rs, key)...)
		events = append(events, e.checkSequenceRules(msg, rs, key)...)
	}
	return events
}

func (e *Engine) checkSingleMessageRules(msg *core.CanonicalMessage, rs *Ruleset, key string) []*pb.Event {
	var events []*pb.Event
	for i := range rs.SingleMessageRules {
		rule := &rs.SingleMessageRules[i]
		if msg.MsgType != rule.MsgType {
			continue
		}
		ev := e.createEvent(rule.EventName, msg, rule.Attributes, rs, key)
		for _, x := range rule.EventData {
			if v := e.extractValue(x.Source, msg, nil, key); v != "" {
				ev.Attributes[x.Target] = v
			}
		}
		events = append(events, ev)
	}
	return events
}

func (e *Engine) checkSequenceRules(msg *core.CanonicalMessage, rs *Ruleset, key string) []*pb.Event {
	var events []*pb.Event
	pending := e.sequences[key]

	for i := range rs.SequenceRules {
		rule := &rs.SequenceRules[i]
		switch msg.MsgType {
		case rule.FirstMsgType:
			pending = append(pending, &sequenceState{
				firstMsgType:   rule.FirstMsgType,
				firstMessage:   *msg,
				firstSeen:      time.Now(),
				rulesetID:      rs.ID,
				rulesetVersion: rs.Version,
			})
		case rule.SecondMsgType:
			kept := pending[:0]
			for _, st := range pending {
				if st.firstMsgType != rule.FirstMsgType {
					kept = append(kept, st)
					continue
				}
				if time.Since(st.firstSeen) > rule.window() {
					// Too late to match; the age sweep reclaims it.
					kept = append(kept, st)
					continue
				}
				ev := e.createEvent(rule.EventName, msg, rule.Attributes, rs, key)
				for _, x := range rule.EventData {
					if v := e.extractValue(x.Source, msg, &st.firstMessage, key); v != "" {
						ev.Attributes[x.Target] = v
					}
				}
				ev.Evidence.Offsets = append(
					[]*pb.SpoolOffset{spoolOffset(&st.firstMessage)}, ev.Evidence.Offsets...)
				events = append(events, ev)
			}
			pending = kept
		}
	}

	if len(pending) == 0 {
		delete(e.sequences, key)
	} else {
		e.sequences[key] = pending
	}
	return events
}

func (e *Engine) createEvent(name string, msg *core.CanonicalMessage, attrs map[string]string, rs *Ruleset, key string) *pb.Event {
	ev := &pb.Event{
		Name:           name,
		Ts:             time.Now().UnixNano(),
		SubscriberKey:  key,
		Attributes:     make(map[string]string, len(attrs)+2),
		Confidence:     1.0,
		Evidence:       &pb.Evidence{Offsets: []*pb.SpoolOffset{spoolOffset(msg)}},
		RulesetId:      rs.ID,
		RulesetVersion: rs.Version,
	}
	for k, v := range attrs {
		ev.Attributes[k] = v
	}
	ev.Attributes["msg_type"] = msg.MsgType
	if len(msg.ECGI) > 0 {
		ev.Attributes["ecgi"] = hex.EncodeToString(msg.ECGI)
	}
	return ev
}

func spoolOffset(msg *core.CanonicalMessage) *pb.SpoolOffset {
	off := &pb.SpoolOffset{
		Partition: int32(msg.Partition),
		Offset:    int64(msg.Offset),
	}
	if msg.FrameNumber != 0 {
		off.FrameNumber = int64(msg.FrameNumber)
	}
	return off
}

func (e *Engine) extractValue(expr string, msg, first *core.CanonicalMessage, key string) string {
	source, field, ok := strings.Cut(expr, ".")
	if !ok {
		return ""
	}

	switch source {
	case "message":
		return messageField(msg, field)
	case "first_message":
		if first == nil {
			return ""
		}
		return messageField(first, field)
	case "context":
		ctx := e.correlator.GetContext(key)
		if ctx == nil {
			return ""
		}
		switch field {
		case "source_ecgi":
			if len(ctx.SourceECGI) > 0 {
				return hex.EncodeToString(ctx.SourceECGI)
			}
		case "ecgi":
			if len(ctx.ECGI) > 0 {
				return hex.EncodeToString(ctx.ECGI)
			}
		case "target_ecgi":
			if len(ctx.TargetECGI) > 0 {
				return hex.EncodeToString(ctx.TargetECGI)
			}
		case "imsi":
			return ctx.IMSI
		case "tmsi":
			return ctx.TMSI
		}
	}
	return ""
}

func messageField(msg *core.CanonicalMessage, field string) string {
	switch field {
	case "ecgi":
		if len(msg.ECGI) > 0 {
			return hex.EncodeToString(msg.ECGI)
		}
	case "target_ecgi":
		if len(msg.TargetECGI) > 0 {
			return hex.EncodeToString(msg.TargetECGI)
		}
	case "mme_ue_s1ap_id":
		if msg.MMEUES1APID != 0 {
			return strconv.FormatUint(msg.MMEUES1APID, 10)
		}
	case "enb_ue_s1ap_id":
		if msg.ENBUES1APID != 0 {
			return strconv.FormatUint(msg.ENBUES1APID, 10)
		}
	case "imsi":
		return msg.IMSI
	case "tmsi":
		return msg.TMSI
	case "msg_type":
		return msg.MsgType
	}
	return ""
}

// CleanupExpiredSequences drops pending first messages older than the
// maximum sequence age and returns how many were removed.
func (e *Engine) CleanupExpiredSequences() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cleanupExpiredLocked(time.Now())
}

func (e *Engine) cleanupExpiredLocked(now time.Time) int {
	removed := 0
	for key, pending := range e.sequences {
		kept := pending[:0]
		for _, st := range pending {
			if now.Sub(st.firstSeen) > maxSequenceAge {
				removed++
				continue
			}
			kept = append(kept, st)
		}
		if len(kept) == 0 {
			delete(e.sequences, key)
		} else {
			e.sequences[key] = kept
		}
	}
	return removed
}
