package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melrosenetworks/S1-SEE/pkg/pb"
)

func testEvent(name string) *pb.Event {
	return &pb.Event{
		Name:          name,
		Ts:            1700000000000000000,
		SubscriberKey: "imsi:310150123456789",
		Attributes:    map[string]string{"msg_type": "attachRequest"},
		Confidence:    1.0,
		Evidence: &pb.Evidence{
			Offsets: []*pb.SpoolOffset{{Partition: 0, Offset: 42}},
		},
		RulesetId:      "mobility",
		RulesetVersion: "2.1",
	}
}

func TestStdoutSink_Emit(t *testing.T) {
	var buf bytes.Buffer
	s := &StdoutSink{w: &buf}

	require.NoError(t, s.Emit(testEvent("ue_attach")))
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "ue_attach", decoded["name"])
	assert.Equal(t, "imsi:310150123456789", decoded["subscriber_key"])
	assert.Equal(t, "mobility", decoded["ruleset_id"])
	assert.Contains(t, line, "subscriber_key")
	assert.NotContains(t, line, "subscriberKey")
}

func TestJSONLSink_AppendsLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	s, err := NewJSONLSink(path)
	require.NoError(t, err)
	require.NoError(t, s.Emit(testEvent("first")))
	require.NoError(t, s.Close())

	// Reopening appends rather than truncating.
	s, err = NewJSONLSink(path)
	require.NoError(t, err)
	require.NoError(t, s.Emit(testEvent("second")))
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	for i, want := range []string{"first", "second"} {
		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &decoded))
		assert.Equal(t, want, decoded["name"])
	}
}

func TestJSONLSink_EmitAfterClose(t *testing.T) {
	s, err := NewJSONLSink(filepath.Join(t.TempDir(), "events.jsonl"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Error(t, s.Emit(testEvent("late")))
	assert.NoError(t, s.Close())
}

type failingSink struct {
	emitted int
}

func (f *failingSink) Emit(ev *pb.Event) error {
	f.emitted++
	if ev.Name == "bad" {
		return errors.New("boom")
	}
	return nil
}

func (f *failingSink) Flush() error { return nil }
func (f *failingSink) Close() error { return nil }

func TestEmitBatch_ContinuesPastFailures(t *testing.T) {
	s := &failingSink{}
	events := []*pb.Event{testEvent("a"), testEvent("bad"), testEvent("b")}
	err := EmitBatch(s, events)
	assert.Error(t, err)
	assert.Equal(t, 3, s.emitted)

	assert.NoError(t, EmitBatch(s, []*pb.Event{testEvent("c")}))
}
