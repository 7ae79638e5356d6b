// File path: internal/common/log.go
package common

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const logHistoryLimit = 500

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	recorder   = &logRecorder{limit: logHistoryLimit}
)

// LogEntry is one captured record from the shared logger, surfaced through
// the diagnostics endpoint.
type LogEntry struct {
	Time       time.Time      `json:"time"`
	Level      string         `json:"level"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Logger returns the process-wide slog logger. LOG_LEVEL selects the minimum
// level; default is info.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		level := slog.LevelInfo
		switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		text := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		logger = slog.New(&recordingHandler{next: text, recorder: recorder})
	})
	return logger
}

// LogEntries returns a copy of the recent captured records, oldest first.
func LogEntries() []LogEntry {
	return recorder.snapshot()
}

type recordingHandler struct {
	next     slog.Handler
	recorder *logRecorder
}

func (h *recordingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *recordingHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.next.Handle(ctx, record)
	h.recorder.capture(record)
	return err
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{next: h.next.WithAttrs(attrs), recorder: h.recorder}
}

func (h *recordingHandler) WithGroup(name string) slog.Handler {
	return &recordingHandler{next: h.next.WithGroup(name), recorder: h.recorder}
}

// logRecorder keeps a bounded in-memory window of recent records.
type logRecorder struct {
	mu      sync.RWMutex
	limit   int
	history []LogEntry
}

func (r *logRecorder) capture(record slog.Record) {
	rec := record.Clone()
	entry := LogEntry{
		Time:    rec.Time.UTC(),
		Level:   strings.ToLower(rec.Level.String()),
		Message: rec.Message,
	}
	if rec.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}
	rec.Attrs(func(a slog.Attr) bool {
		if entry.Attributes == nil {
			entry.Attributes = make(map[string]any)
		}
		entry.Attributes[a.Key] = attrValue(a.Value)
		return true
	})
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, entry)
	if len(r.history) > r.limit {
		r.history = r.history[len(r.history)-r.limit:]
	}
}

func (r *logRecorder) snapshot() []LogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.history) == 0 {
		return nil
	}
	out := make([]LogEntry, len(r.history))
	copy(out, r.history)
	return out
}

func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindBool:
		return v.Bool()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC()
	default:
		return v.String()
	}
}
