package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func bufferLogger(buf *bytes.Buffer) *Logger {
	return FromZerolog(zerolog.New(buf))
}

func decodeLine(t *testing.T, line string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid log line %q: %v", line, err)
	}
	return m
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	log := bufferLogger(&buf)

	log.Info("hello")
	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["level"] != "info" || m["message"] != "hello" {
		t.Errorf("unexpected event: %v", m)
	}

	buf.Reset()
	log.Warn("careful")
	m = decodeLine(t, strings.TrimSpace(buf.String()))
	if m["level"] != "warn" {
		t.Errorf("expected warn, got %v", m["level"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := FromZerolog(zerolog.New(&buf).Level(zerolog.WarnLevel))

	log.Debug("invisible")
	log.Info("invisible too")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}

	log.Error("visible")
	if buf.Len() == 0 {
		t.Error("expected error output")
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := bufferLogger(&buf)

	log.Info("with fields", map[string]interface{}{"count": 3, "name": "x"})
	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["count"] != float64(3) || m["name"] != "x" {
		t.Errorf("expected inline fields, got %v", m)
	}
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := bufferLogger(&buf).WithComponent("client")

	log.Info("tagged")
	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m[FieldComponent] != "client" {
		t.Errorf("expected component field, got %v", m)
	}
}

func TestLogger_WithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	log := bufferLogger(&buf).
		WithFields(map[string]interface{}{FieldRequestID: "req-1"}).
		WithError(errors.New("boom"))

	log.Error("failed")
	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request id, got %v", m)
	}
	if m["error"] != "boom" {
		t.Errorf("expected error field, got %v", m)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	log := New(Config{})
	if log == nil {
		t.Fatal("expected a logger")
	}
	// Smoke the console path too.
	if New(Config{Format: "console", NoColor: true}) == nil {
		t.Fatal("expected a console logger")
	}
}

func TestGlobalLogger(t *testing.T) {
	orig := GetGlobalLogger()
	defer SetGlobalLogger(orig)

	var buf bytes.Buffer
	custom := bufferLogger(&buf)
	SetGlobalLogger(custom)
	if GetGlobalLogger() != custom {
		t.Error("expected the replacement logger")
	}

	SetGlobalLogger(nil)
	if GetGlobalLogger() != custom {
		t.Error("nil must not replace the global logger")
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two")
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected map: %v", m)
	}
}
