package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		threshold LogLevel
		emit      LogLevel
		want      bool
	}{
		{"debug passes at debug", DebugLevel, DebugLevel, true},
		{"debug filtered at info", InfoLevel, DebugLevel, false},
		{"warn passes at info", InfoLevel, WarnLevel, true},
		{"info filtered at error", ErrorLevel, InfoLevel, false},
		{"error always passes", ErrorLevel, ErrorLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(Config{Format: HumanFormat, Level: tt.threshold, Output: &buf})

			logger.log(tt.emit, "probe", nil)
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("message at %s with threshold %s: logged=%v, want %v", tt.emit, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: JSONFormat, Level: DebugLevel, Output: &buf})

	logger.Info("review completed", Fields{"score": 83, "changeset": "abc123"})

	var entry struct {
		Timestamp string                 `json:"timestamp"`
		Level     string                 `json:"level"`
		Message   string                 `json:"message"`
		Fields    map[string]interface{} `json:"fields"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if entry.Level != "info" || entry.Message != "review completed" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["changeset"] != "abc123" {
		t.Errorf("fields = %v, want changeset carried through", entry.Fields)
	}
}

func TestHumanFormatSortsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: HumanFormat, Level: DebugLevel, Output: &buf})

	logger.Warn("coverage degraded", Fields{"reason": "absent", "analyzer": "bandit"})

	out := buf.String()
	if !strings.Contains(out, "[warn] coverage degraded") {
		t.Errorf("missing level/message: %q", out)
	}
	if strings.Index(out, "analyzer=bandit") > strings.Index(out, "reason=absent") {
		t.Errorf("fields not sorted by key: %q", out)
	}
}

func TestDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	// Must not panic or write anywhere observable.
	logger.Error("dropped", Fields{"k": "v"})
}
