// File path: internal/common/log_test.go
package common

import "testing"

func TestLoggerSingleton(t *testing.T) {
	first := Logger()
	second := Logger()
	if first == nil || first != second {
		t.Fatal("Logger must return one shared instance")
	}
}

func TestLogEntriesCapture(t *testing.T) {
	logger := Logger()
	logger.Info("history: test entry", "workspace", "ws1", "attempt", int64(1))

	entries := LogEntries()
	if len(entries) == 0 {
		t.Fatal("expected captured entries")
	}
	found := false
	for _, entry := range entries {
		if entry.Message != "history: test entry" {
			continue
		}
		found = true
		if entry.Level != "info" {
			t.Fatalf("unexpected level: %q", entry.Level)
		}
		if entry.Attributes["workspace"] != "ws1" {
			t.Fatalf("unexpected attributes: %+v", entry.Attributes)
		}
		if entry.Time.IsZero() {
			t.Fatal("entry time must be set")
		}
	}
	if !found {
		t.Fatal("logged entry not captured")
	}
}
