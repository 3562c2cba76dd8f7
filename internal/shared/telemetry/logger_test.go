package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Info("leadership.normalized", map[string]any{
		"user_id": "user-1",
		"shape":   "stored",
	})

	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	for _, key := range []string{"ts", "level", "msg", "user_id", "shape"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing key %s in %v", key, payload)
		}
	}
	if payload["level"] != "info" {
		t.Fatalf("expected info level, got %v", payload["level"])
	}
	if payload["msg"] != "leadership.normalized" {
		t.Fatalf("unexpected msg %v", payload["msg"])
	}
}

func TestErrorFieldsAreSerialized(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(nil) })

	Error("llm.call_failed", map[string]any{"error": errors.New("boom"), "status": 502})

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["level"] != "error" {
		t.Fatalf("expected error level, got %v", payload["level"])
	}
	if payload["error"] != "boom" {
		t.Fatalf("expected error message, got %v", payload["error"])
	}
	if payload["status"] != float64(502) {
		t.Fatalf("expected status 502, got %v", payload["status"])
	}
}
