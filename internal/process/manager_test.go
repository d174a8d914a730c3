package process

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(Config{
		Name:   "test-proc",
		Binary: "/usr/bin/test",
		Args:   []string{"--flag"},
	})

	if m.cfg.Name != "test-proc" {
		t.Errorf("Name = %q, want %q", m.cfg.Name, "test-proc")
	}
	if m.cfg.RestartDelay != 5*time.Second {
		t.Errorf("RestartDelay = %v, want %v", m.cfg.RestartDelay, 5*time.Second)
	}
	if m.cfg.GracefulTimeout != 10*time.Second {
		t.Errorf("GracefulTimeout = %v, want %v", m.cfg.GracefulTimeout, 10*time.Second)
	}
	if m.cfg.HealthInterval != 30*time.Second {
		t.Errorf("HealthInterval = %v, want %v", m.cfg.HealthInterval, 30*time.Second)
	}
}

func TestNewManager_CustomConfig(t *testing.T) {
	m := NewManager(Config{
		Name:            "custom",
		Binary:          "/opt/bin/daemon",
		RestartDelay:    10 * time.Second,
		GracefulTimeout: 30 * time.Second,
		HealthInterval:  60 * time.Second,
		MaxRestarts:     20,
	})

	if m.cfg.RestartDelay != 10*time.Second {
		t.Errorf("RestartDelay = %v, want %v", m.cfg.RestartDelay, 10*time.Second)
	}
	if m.cfg.HealthInterval != 60*time.Second {
		t.Errorf("HealthInterval = %v, want %v", m.cfg.HealthInterval, 60*time.Second)
	}
	if m.cfg.MaxRestarts != 20 {
		t.Errorf("MaxRestarts = %d, want 20", m.cfg.MaxRestarts)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("myproc", "/usr/bin/myproc", []string{"--daemon"})

	if cfg.Name != "myproc" || cfg.Binary != "/usr/bin/myproc" {
		t.Errorf("unexpected identity: %+v", cfg)
	}
	if len(cfg.Args) != 1 || cfg.Args[0] != "--daemon" {
		t.Errorf("Args = %v, want [--daemon]", cfg.Args)
	}
	if !cfg.Restart {
		t.Error("Restart = false, want true")
	}
	if cfg.MaxRestarts != 10 {
		t.Errorf("MaxRestarts = %d, want 10", cfg.MaxRestarts)
	}
}

func TestManager_InitialState(t *testing.T) {
	m := NewManager(Config{Name: "test", Binary: "/bin/true"})

	if m.Status() != StatusStopped {
		t.Errorf("initial Status() = %q, want %q", m.Status(), StatusStopped)
	}
	if m.IsRunning() {
		t.Error("IsRunning() = true, want false")
	}
	if m.PID() != 0 {
		t.Errorf("PID() = %d, want 0", m.PID())
	}
	if m.RestartCount() != 0 {
		t.Errorf("RestartCount() = %d, want 0", m.RestartCount())
	}
	if m.Uptime() != 0 {
		t.Errorf("Uptime() = %v, want 0", m.Uptime())
	}
	if m.LastError() != nil {
		t.Errorf("LastError() = %v, want nil", m.LastError())
	}
	if len(m.RecentOutput()) != 0 {
		t.Errorf("RecentOutput() = %v, want empty", m.RecentOutput())
	}
}

func TestManager_Stats(t *testing.T) {
	m := NewManager(Config{Name: "stats-test", Binary: "/bin/echo"})

	stats := m.Stats()
	if stats.Name != "stats-test" {
		t.Errorf("Stats.Name = %q, want %q", stats.Name, "stats-test")
	}
	if stats.Status != StatusStopped {
		t.Errorf("Stats.Status = %q, want %q", stats.Status, StatusStopped)
	}
	if stats.PID != 0 || stats.RestartCount != 0 || stats.LastError != "" {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestManager_StopWhenNotRunning(t *testing.T) {
	m := NewManager(Config{Name: "test", Binary: "/bin/true"})

	if err := m.Stop(); err != nil {
		t.Errorf("Stop() on stopped process error = %v, want nil", err)
	}
}

func TestManager_StartAlreadyRunning(t *testing.T) {
	m := NewManager(Config{
		Name:   "test",
		Binary: "/bin/sleep",
		Args:   []string{"10"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("first Start() error: %v", err)
	}
	defer m.Stop()

	if err := m.Start(ctx); err == nil {
		t.Error("second Start() expected error, got nil")
	}
}

func TestManager_StartAndStop(t *testing.T) {
	m := NewManager(Config{
		Name:            "test-sleep",
		Binary:          "/bin/sleep",
		Args:            []string{"60"},
		GracefulTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	if !m.IsRunning() {
		t.Error("IsRunning() = false after Start()")
	}
	if m.PID() == 0 {
		t.Error("PID() = 0 after Start()")
	}

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	// Let the monitor goroutine observe the exit
	time.Sleep(100 * time.Millisecond)

	if m.IsRunning() {
		t.Error("IsRunning() = true after Stop()")
	}
}

func TestManager_StartWithInvalidBinary(t *testing.T) {
	m := NewManager(Config{
		Name:   "bad-binary",
		Binary: "/nonexistent/binary",
	})

	if err := m.Start(context.Background()); err == nil {
		t.Fatal("Start() with invalid binary expected error, got nil")
	}
	if m.Status() != StatusFailed {
		t.Errorf("Status() = %q, want %q", m.Status(), StatusFailed)
	}
}

func TestManager_RecentOutput(t *testing.T) {
	m := NewManager(Config{
		Name:   "echo-test",
		Binary: "/bin/sh",
		Args:   []string{"-c", "echo hello; echo world"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	// Wait for the short-lived process to finish and its output to land
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(m.RecentOutput()) >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	out := strings.Join(m.RecentOutput(), "\n")
	if !strings.Contains(out, "stdout: hello") || !strings.Contains(out, "stdout: world") {
		t.Errorf("RecentOutput() = %q, want hello and world lines", out)
	}
}

func TestManager_RecentOutputRing(t *testing.T) {
	m := NewManager(Config{Name: "ring", Binary: "/bin/true"})

	for i := 0; i < recentOutputLines+25; i++ {
		m.record("line")
	}

	if got := len(m.RecentOutput()); got != recentOutputLines {
		t.Errorf("ring length = %d, want %d", got, recentOutputLines)
	}
}

func TestManager_SetLogger(t *testing.T) {
	m := NewManager(Config{Name: "test", Binary: "/bin/true"})

	m.SetLogger(noopLogger{})
	m.SetLogger(nil) // keeps the previous logger
	if m.logger == nil {
		t.Error("logger is nil after SetLogger(nil)")
	}
}
