package driver

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestGUID_Stable(t *testing.T) {
	a := GUID("Mount Power")
	b := GUID("Mount Power")
	if a != b {
		t.Errorf("GUID not stable: %q vs %q", a, b)
	}
	if a == GUID("Camera") {
		t.Error("distinct names produced the same GUID")
	}
}

func TestDescribe_Gauge(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	text, err := c.Describe(context.Background(), mustResolve(t, c, "Camera power"))
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if !strings.Contains(text, "12.50 W") {
		t.Errorf("Describe = %q, want value with unit", text)
	}
}

func TestDescribe_PowerIndicatorWithTimestamp(t *testing.T) {
	backend, strip, _, _ := scenarioBackend()
	since := time.Date(2026, 8, 29, 9, 30, 0, 0, time.UTC)
	strip.onSince = &since
	c := testController(t, backend)
	connect(t, c)

	text, err := c.Describe(context.Background(), mustResolve(t, c, "Strip powered"))
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if !strings.Contains(text, "2026-08-29 09:30:00") {
		t.Errorf("Describe = %q, want powered-since timestamp", text)
	}
}

func TestDescription(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	desc := c.Description(mustResolve(t, c, "Mount"))
	if desc.Name != "Mount" {
		t.Errorf("Name = %q", desc.Name)
	}
	if !desc.CanWrite {
		t.Error("CanWrite = false for switchable channel")
	}
	if desc.GUID != GUID("Mount") {
		t.Errorf("GUID = %q", desc.GUID)
	}
}
