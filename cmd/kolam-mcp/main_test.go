package main

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	got := out.String()
	for _, want := range []string{"kolam-tools-mcp dev", "Build time: unknown", "Git commit: unknown"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("--version: %v", err)
	}
	if got := out.String(); got != "kolam-mcp dev\n" {
		t.Errorf("got %q", got)
	}
}

func TestRootFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "log-level", "render-size", "canny-low", "tiered-findings"} {
		if cmd.Flag(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
}

func TestInvalidConfigFails(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--log-level", "loud"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "LogLevel") {
		t.Errorf("expected a LogLevel validation error, got %v", err)
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("warn")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error should be enabled at warn")
	}

	if _, err := newLogger("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
