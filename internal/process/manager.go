package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Status is the lifecycle state of a supervised process.
type Status string

const (
	StatusStopped  Status = "stopped"
	StatusStarting Status = "starting"
	StatusRunning  Status = "running"
	StatusFailed   Status = "failed"
)

// recentOutputLines is how many subprocess output lines are retained
// for diagnostics.
const recentOutputLines = 100

// healthFailureLimit is how many consecutive health check failures are
// tolerated before the process is considered hung and killed.
const healthFailureLimit = 3

// Config describes a supervised subprocess.
type Config struct {
	// Name identifies the process in log output.
	Name string

	// Binary is the path to the executable.
	Binary string

	// Args are passed to the binary.
	Args []string

	// Env holds additional environment variables in key=value form,
	// appended to the parent environment. Nil inherits unchanged.
	Env []string

	// WorkDir is the working directory. Empty inherits the parent's.
	WorkDir string

	// Restart enables automatic restart after an unexpected exit.
	Restart bool

	// RestartDelay is the wait before each restart attempt.
	RestartDelay time.Duration

	// MaxRestarts caps restart attempts. 0 means unlimited.
	MaxRestarts int

	// GracefulTimeout is how long to wait after SIGTERM before SIGKILL.
	GracefulTimeout time.Duration

	// HealthCheck is polled while the process runs. Repeated failures
	// get the process killed and restarted. Nil disables the watchdog.
	HealthCheck func(ctx context.Context) error

	// HealthInterval is the polling interval for HealthCheck.
	HealthInterval time.Duration
}

// DefaultConfig returns supervision defaults for the given command.
func DefaultConfig(name, binary string, args []string) Config {
	return Config{
		Name:            name,
		Binary:          binary,
		Args:            args,
		Restart:         true,
		RestartDelay:    5 * time.Second,
		MaxRestarts:     10,
		GracefulTimeout: 10 * time.Second,
		HealthInterval:  30 * time.Second,
	}
}

// Logger is the minimal logging interface the manager needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Manager supervises one subprocess: start, output capture, health
// watchdog, restart with backoff delay, and graceful stop.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Manager struct {
	cfg    Config
	logger Logger

	mu            sync.RWMutex
	cmd           *exec.Cmd
	status        Status
	restarts      int
	lastError     error
	startedAt     time.Time
	stopRequested bool
	recent        []string
	done          chan struct{}
}

// NewManager creates a Manager. Zero timing values fall back to the
// DefaultConfig equivalents.
func NewManager(cfg Config) *Manager {
	def := DefaultConfig(cfg.Name, cfg.Binary, cfg.Args)
	if cfg.RestartDelay == 0 {
		cfg.RestartDelay = def.RestartDelay
	}
	if cfg.GracefulTimeout == 0 {
		cfg.GracefulTimeout = def.GracefulTimeout
	}
	if cfg.HealthInterval == 0 {
		cfg.HealthInterval = def.HealthInterval
	}
	return &Manager{
		cfg:    cfg,
		logger: noopLogger{},
		status: StatusStopped,
	}
}

// SetLogger sets the logger. Call before Start.
func (m *Manager) SetLogger(logger Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Start launches the subprocess and begins monitoring it. The monitor
// restarts it on unexpected exit when configured to.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.status == StatusRunning || m.status == StatusStarting {
		m.mu.Unlock()
		return fmt.Errorf("process %s is already running", m.cfg.Name)
	}
	m.status = StatusStarting
	m.stopRequested = false
	m.done = make(chan struct{})
	m.mu.Unlock()

	if err := m.launch(ctx); err != nil {
		m.mu.Lock()
		m.status = StatusFailed
		m.lastError = err
		m.mu.Unlock()
		return err
	}

	go m.monitor(ctx)
	return nil
}

// launch starts the subprocess and the output capture goroutines.
func (m *Manager) launch(ctx context.Context) error {
	m.logger.Info("starting process",
		"name", m.cfg.Name,
		"binary", m.cfg.Binary,
		"args", m.cfg.Args,
	)

	cmd := exec.CommandContext(ctx, m.cfg.Binary, m.cfg.Args...)

	// New process group so Stop can signal children too
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if m.cfg.Env != nil {
		cmd.Env = append(os.Environ(), m.cfg.Env...)
	}
	if m.cfg.WorkDir != "" {
		cmd.Dir = m.cfg.WorkDir
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", m.cfg.Name, err)
	}

	m.mu.Lock()
	m.cmd = cmd
	m.status = StatusRunning
	m.startedAt = time.Now()
	m.mu.Unlock()

	go m.captureOutput("stdout", stdout)
	go m.captureOutput("stderr", stderr)

	m.logger.Info("process started",
		"name", m.cfg.Name,
		"pid", cmd.Process.Pid,
	)
	return nil
}

// captureOutput logs each subprocess output line and retains it in the
// recent-output ring.
func (m *Manager) captureOutput(stream string, r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		m.logger.Debug("process output",
			"name", m.cfg.Name,
			"stream", stream,
			"line", line,
		)
		m.record(stream + ": " + line)
	}
}

// record appends a line to the recent-output ring.
func (m *Manager) record(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = append(m.recent, line)
	if len(m.recent) > recentOutputLines {
		m.recent = m.recent[len(m.recent)-recentOutputLines:]
	}
}

// RecentOutput returns the most recent subprocess output lines, oldest
// first. Lines are prefixed with their stream name.
func (m *Manager) RecentOutput() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.recent))
	copy(out, m.recent)
	return out
}

// await blocks until the process exits or the health watchdog gives up
// on it. A hung process is killed after healthFailureLimit consecutive
// check failures.
func (m *Manager) await(ctx context.Context, cmd *exec.Cmd) error {
	exitCh := make(chan error, 1)
	go func() {
		exitCh <- cmd.Wait()
	}()

	if m.cfg.HealthCheck == nil {
		return <-exitCh
	}

	ticker := time.NewTicker(m.cfg.HealthInterval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case err := <-exitCh:
			return err

		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := m.cfg.HealthCheck(checkCtx)
			cancel()

			if err == nil {
				if failures > 0 {
					m.logger.Info("health check recovered",
						"name", m.cfg.Name,
						"previous_failures", failures,
					)
				}
				failures = 0
				continue
			}

			failures++
			m.logger.Warn("health check failed",
				"name", m.cfg.Name,
				"error", err,
				"consecutive_failures", failures,
			)
			if failures < healthFailureLimit {
				continue
			}

			m.logger.Error("health check failed repeatedly, killing process",
				"name", m.cfg.Name,
				"failures", failures,
			)
			if cmd.Process != nil {
				cmd.Process.Kill()
			}
			select {
			case exitErr := <-exitCh:
				if exitErr != nil {
					return fmt.Errorf("killed after failed health checks: %w", exitErr)
				}
				return fmt.Errorf("killed after %d failed health checks", failures)
			case <-time.After(5 * time.Second):
				return errors.New("process did not exit after kill")
			}
		}
	}
}

// monitor waits for the process and handles restarts.
func (m *Manager) monitor(ctx context.Context) {
	defer close(m.done)

	for {
		m.mu.RLock()
		cmd := m.cmd
		m.mu.RUnlock()
		if cmd == nil {
			return
		}

		err := m.await(ctx, cmd)

		m.mu.Lock()
		stopRequested := m.stopRequested
		m.mu.Unlock()

		if stopRequested {
			m.logger.Info("process stopped as requested", "name", m.cfg.Name)
			m.mu.Lock()
			m.status = StatusStopped
			m.mu.Unlock()
			return
		}

		m.logger.Warn("process exited unexpectedly",
			"name", m.cfg.Name,
			"error", err,
		)

		m.mu.Lock()
		m.lastError = err
		m.status = StatusFailed
		m.mu.Unlock()

		if !m.cfg.Restart {
			return
		}

		m.mu.Lock()
		m.restarts++
		attempt := m.restarts
		m.mu.Unlock()

		if m.cfg.MaxRestarts > 0 && attempt > m.cfg.MaxRestarts {
			m.logger.Error("max restart attempts reached",
				"name", m.cfg.Name,
				"attempts", attempt,
			)
			return
		}

		m.logger.Info("restarting process",
			"name", m.cfg.Name,
			"attempt", attempt,
			"delay", m.cfg.RestartDelay,
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.cfg.RestartDelay):
		}

		m.mu.RLock()
		stopRequested = m.stopRequested
		m.mu.RUnlock()
		if stopRequested {
			return
		}

		if err := m.launch(ctx); err != nil {
			m.logger.Error("failed to restart process",
				"name", m.cfg.Name,
				"error", err,
			)
			// Loop continues and counts another attempt
		}
	}
}

// Stop terminates the subprocess: SIGTERM to the process group, then
// SIGKILL after GracefulTimeout. Stopping a stopped manager is a no-op.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if m.status != StatusRunning && m.status != StatusStarting {
		m.mu.Unlock()
		return nil
	}
	m.stopRequested = true
	cmd := m.cmd
	done := m.done
	m.mu.Unlock()

	if cmd == nil || cmd.Process == nil || done == nil {
		return nil
	}

	pid := cmd.Process.Pid
	m.logger.Info("stopping process", "name", m.cfg.Name, "pid", pid)

	// Negative PID signals the whole process group
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		if !errors.Is(err, syscall.ESRCH) {
			m.logger.Warn("failed to signal process group",
				"name", m.cfg.Name, "error", err)
		}
	}

	select {
	case <-done:
		m.logger.Info("process stopped gracefully", "name", m.cfg.Name)
		return nil
	case <-time.After(m.cfg.GracefulTimeout):
		m.logger.Warn("graceful shutdown timeout, sending SIGKILL",
			"name", m.cfg.Name,
			"timeout", m.cfg.GracefulTimeout,
		)
	}

	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil {
		if !errors.Is(err, syscall.ESRCH) {
			return fmt.Errorf("killing process group %s: %w", m.cfg.Name, err)
		}
	}

	<-done
	m.logger.Info("process killed", "name", m.cfg.Name)
	return nil
}

// Status returns the current process state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// IsRunning reports whether the process is currently running.
func (m *Manager) IsRunning() bool {
	return m.Status() == StatusRunning
}

// LastError returns the error from the most recent unexpected exit.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastError
}

// RestartCount returns how many restarts have been attempted.
func (m *Manager) RestartCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.restarts
}

// Uptime returns how long the process has been running, 0 when it is
// not running.
func (m *Manager) Uptime() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.status != StatusRunning {
		return 0
	}
	return time.Since(m.startedAt)
}

// PID returns the process ID, 0 when not running.
func (m *Manager) PID() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cmd != nil && m.cmd.Process != nil {
		return m.cmd.Process.Pid
	}
	return 0
}

// Stats is a point-in-time snapshot of the supervised process.
type Stats struct {
	Name         string        `json:"name"`
	Status       Status        `json:"status"`
	PID          int           `json:"pid,omitempty"`
	Uptime       time.Duration `json:"uptime,omitempty"`
	RestartCount int           `json:"restart_count"`
	LastError    string        `json:"last_error,omitempty"`
}

// Stats returns a snapshot of the process state.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{
		Name:         m.cfg.Name,
		Status:       m.status,
		RestartCount: m.restarts,
	}
	if m.cmd != nil && m.cmd.Process != nil {
		stats.PID = m.cmd.Process.Pid
	}
	if m.status == StatusRunning {
		stats.Uptime = time.Since(m.startedAt)
	}
	if m.lastError != nil {
		stats.LastError = m.lastError.Error()
	}
	return stats
}
