package dialogue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTurnLogger_WritesNDJSON(t *testing.T) {
	dir := t.TempDir()
	l, err := NewTurnLogger(TurnLogConfig{Enabled: true, Dir: dir, QueueSize: 10})
	if err != nil {
		t.Fatalf("NewTurnLogger: %v", err)
	}

	l.Log(TurnEvent{SessionID: "s1", UserText: "check balance", Domain: "banking", Intent: "check_balance", Confidence: 0.92, Response: "prompt"})
	l.Log(TurnEvent{SessionID: "s1", UserText: "1001", Domain: "banking", Response: "balance"})
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "s1.ndjson"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var ev TurnEvent
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("unmarshal line: %v", err)
	}
	if ev.UserText != "check balance" || ev.Intent != "check_balance" {
		t.Errorf("unexpected event: %+v", ev)
	}
	if ev.Timestamp == "" {
		t.Error("timestamp not filled in")
	}
}

func TestTurnLogger_SessionsGetSeparateFiles(t *testing.T) {
	dir := t.TempDir()
	l, err := NewTurnLogger(TurnLogConfig{Enabled: true, Dir: dir, QueueSize: 10})
	if err != nil {
		t.Fatalf("NewTurnLogger: %v", err)
	}
	l.Log(TurnEvent{SessionID: "alpha", UserText: "a"})
	l.Log(TurnEvent{SessionID: "beta", UserText: "b"})
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	for _, name := range []string{"alpha.ndjson", "beta.ndjson"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestTurnLogger_Disabled(t *testing.T) {
	l, err := NewTurnLogger(TurnLogConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewTurnLogger: %v", err)
	}
	l.Log(TurnEvent{SessionID: "s1", UserText: "hello"}) // must not panic
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"anon_ab12:tab-1", "anon_ab12_tab-1"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"", "unknown"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
