package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  log.Level
		write  func(*log.Logger)
		output bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("edges loaded") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("cache miss") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("cache miss") }, true},
		{"warn at info", log.InfoLevel, func(l *log.Logger) { l.Warn("root failed") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.output {
				t.Errorf("wrote output = %v, want %v", got, tt.output)
			}
		})
	}
}

func TestNewLoggerReportsCallerAtDebug(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.DebugLevel).Debug("caller check")
	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("debug line = %q, want the call site", buf.String())
	}

	buf.Reset()
	newLogger(&buf, log.InfoLevel).Info("caller check")
	if strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("info line = %q, want no call site", buf.String())
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written at info level: %q", buf.String())
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("debug not written after SetLogLevel(LogDebug)")
	}
}

func TestStageTimer(t *testing.T) {
	var buf bytes.Buffer
	stage := startStage(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	stage.done("layout finished", "trees", 2)

	got := buf.String()
	for _, want := range []string{"layout finished", "trees=2", "elapsed="} {
		if !strings.Contains(got, want) {
			t.Errorf("output = %q, want %q", got, want)
		}
	}
}
