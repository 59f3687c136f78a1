package dialogue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TurnEvent is one logged dialogue exchange.
type TurnEvent struct {
	Timestamp  string  `json:"ts"`
	SessionID  string  `json:"session_id"`
	UserText   string  `json:"user_text"`
	Domain     string  `json:"domain"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Response   string  `json:"response"`
}

// TurnLogConfig controls NDJSON turn logging.
type TurnLogConfig struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// TurnLogger appends turn events to per-session NDJSON files. Logging is
// best-effort and asynchronous: events queue on a bounded channel and are
// dropped (with a warning) when the queue is full, so a slow disk can never
// stall a turn.
type TurnLogger struct {
	cfg    TurnLogConfig
	queue  chan TurnEvent
	done   chan struct{}
	closed sync.Once
}

// NewTurnLogger creates the logger and starts its writer goroutine. A
// disabled config returns a logger whose Log is a no-op.
func NewTurnLogger(cfg TurnLogConfig) (*TurnLogger, error) {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	l := &TurnLogger{
		cfg:  cfg,
		done: make(chan struct{}),
	}
	if !cfg.Enabled {
		return l, nil
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create turn log directory: %w", err)
	}
	l.queue = make(chan TurnEvent, cfg.QueueSize)
	go l.run()
	return l, nil
}

// Log enqueues a turn event. Never blocks.
func (l *TurnLogger) Log(ev TurnEvent) {
	if l.queue == nil {
		return
	}
	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	select {
	case l.queue <- ev:
	default:
		slog.Warn("Turn log queue full, dropping event", "session_id", ev.SessionID)
	}
}

// Close drains the queue and stops the writer.
func (l *TurnLogger) Close() error {
	l.closed.Do(func() {
		if l.queue != nil {
			close(l.queue)
			<-l.done
		}
	})
	return nil
}

func (l *TurnLogger) run() {
	defer close(l.done)
	for ev := range l.queue {
		if err := l.write(ev); err != nil {
			slog.Warn("Failed to write turn log event", "session_id", ev.SessionID, "error", err)
		}
	}
}

func (l *TurnLogger) write(ev TurnEvent) error {
	path := filepath.Join(l.cfg.Dir, sanitizeFilename(ev.SessionID)+".ndjson")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open turn log: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal turn event: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append turn event: %w", err)
	}
	return nil
}

// sanitizeFilename keeps session-derived file names free of path tricks.
func sanitizeFilename(name string) string {
	if name == "" {
		return "unknown"
	}
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
