// Package rules evaluates YAML-defined rulesets against the decoded
// message stream and emits events for matches.
package rules

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRulesetVersion is assumed when a ruleset omits its version.
	DefaultRulesetVersion = "1.0"
	// DefaultSequenceWindow is the match window for sequence rules that
	// do not set time_window_ms.
	DefaultSequenceWindow = 15 * time.Second
)

// EventDataExtraction copies one value into an event attribute. Source
// expressions take the form "message.imsi", "first_message.ecgi" or
// "context.source_ecgi".
type EventDataExtraction struct {
	Target string `yaml:"target"`
	Source string `yaml:"source"`
}

// SingleMessageRule fires on every message whose type matches.
type SingleMessageRule struct {
	EventName  string                `yaml:"event_name"`
	MsgType    string                `yaml:"msg_type"`
	Attributes map[string]string     `yaml:"attributes"`
	EventData  []EventDataExtraction `yaml:"event_data"`
}

// SequenceRule fires when the second message type follows the first
// within the time window for the same subscriber.
type SequenceRule struct {
	EventName     string                `yaml:"event_name"`
	FirstMsgType  string                `yaml:"first_msg_type"`
	SecondMsgType string                `yaml:"second_msg_type"`
	TimeWindowMS  int                   `yaml:"time_window_ms"`
	Attributes    map[string]string     `yaml:"attributes"`
	EventData     []EventDataExtraction `yaml:"event_data"`
}

func (r *SequenceRule) window() time.Duration {
	if r.TimeWindowMS <= 0 {
		return DefaultSequenceWindow
	}
	return time.Duration(r.TimeWindowMS) * time.Millisecond
}

// Ruleset is one named collection of rules, loaded from YAML.
type Ruleset struct {
	ID                 string              `yaml:"id"`
	Version            string              `yaml:"version"`
	SingleMessageRules []SingleMessageRule `yaml:"single_message_rules"`
	SequenceRules      []SequenceRule      `yaml:"sequence_rules"`
}

type rulesetFile struct {
	Ruleset *Ruleset `yaml:"ruleset"`
}

// ParseRuleset parses YAML ruleset data and applies defaults.
func ParseRuleset(data []byte) (*Ruleset, error) {
	var file rulesetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Ruleset == nil {
		return nil, errors.New("missing 'ruleset' key")
	}
	rs := file.Ruleset
	if rs.ID == "" {
		return nil, errors.New("ruleset id is required")
	}
	if rs.Version == "" {
		rs.Version = DefaultRulesetVersion
	}
	return rs, nil
}

// LoadRuleset reads and parses one ruleset file.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}
	rs, err := ParseRuleset(data)
	if err != nil {
		return nil, fmt.Errorf("parse ruleset %s: %w", path, err)
	}
	return rs, nil
}
