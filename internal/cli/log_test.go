package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("building layout")
	if !strings.Contains(buf.String(), "building layout") {
		t.Errorf("log output %q missing message", buf.String())
	}
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"InfoAtInfo", log.InfoLevel, func(l *log.Logger) { l.Info("m") }, true},
		{"DebugAtInfo", log.InfoLevel, func(l *log.Logger) { l.Debug("m") }, false},
		{"DebugAtDebug", log.DebugLevel, func(l *log.Logger) { l.Debug("m") }, true},
		{"WarnAtInfo", log.InfoLevel, func(l *log.Logger) { l.Warn("m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("logged = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgressReportsElapsed(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("built 6 regions")

	out := buf.String()
	if !strings.Contains(out, "built 6 regions") {
		t.Errorf("progress output %q missing message", out)
	}
	if !strings.Contains(out, "ms") && !strings.Contains(out, "s)") {
		t.Errorf("progress output %q missing duration", out)
	}
}

func TestLoggerRoundTripsThroughContext(t *testing.T) {
	logger := log.Default()
	ctx := withLogger(context.Background(), logger)
	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestLoggerFromBareContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext must fall back to a default logger")
	}
}
