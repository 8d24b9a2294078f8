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
	"time"

	"github.com/rs/zerolog"
)

// DefaultShutdownTimeout bounds the graceful-termination wait before a
// force kill.
const DefaultShutdownTimeout = 5 * time.Second

// ErrRetired is returned when a handle is used after Shutdown.
var ErrRetired = errors.New("process handle is retired")

// StartSpec describes the subprocess to launch.
type StartSpec struct {
	Executable string
	Args       []string
	WorkingDir string

	// Env is the full environment for the child. Nil inherits the parent
	// environment.
	Env []string

	// OnOutputLine is invoked for every complete line of merged
	// stdout/stderr as it arrives. May be nil.
	OnOutputLine func(line string)

	Logger zerolog.Logger
}

// Handle supervises one running subprocess. It is created by Start and
// retired by Shutdown; a retired handle must not be reused.
type Handle struct {
	cmd    *exec.Cmd
	log    zerolog.Logger
	done   chan struct{}
	closer io.Closer

	mu      sync.Mutex
	waitErr error
	retired bool
}

// Start spawns the subprocess, merging stdout and stderr into a single
// line-oriented stream. Output is never buffered whole: each line is handed
// to spec.OnOutputLine as it completes.
func Start(spec StartSpec) (*Handle, error) {
	cmd := exec.Command(spec.Executable, spec.Args...)
	cmd.Dir = spec.WorkingDir
	if spec.Env != nil {
		cmd.Env = spec.Env
	}
	setProcessGroup(cmd)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return nil, fmt.Errorf("starting %s: %w", spec.Executable, err)
	}

	h := &Handle{
		cmd:    cmd,
		log:    spec.Logger,
		done:   make(chan struct{}),
		closer: pr,
	}

	// Stream merged output line by line.
	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if spec.OnOutputLine != nil {
				spec.OnOutputLine(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			spec.Logger.Warn().Err(err).Msg("output scan stopped early")
		}
		// The scanner stops on oversized lines. Keep draining so the
		// child's writes never block on a full pipe.
		io.Copy(io.Discard, pr)
	}()

	go func() {
		err := cmd.Wait()
		pw.Close()
		<-scanDone
		h.mu.Lock()
		h.waitErr = err
		h.mu.Unlock()
		close(h.done)
	}()

	return h, nil
}

// Pid returns the child's process ID.
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// WaitForExit blocks until the process exits or ctx is done. A context
// deadline cancels only the wait, never the process itself.
func (h *Handle) WaitForExit(ctx context.Context) error {
	select {
	case <-h.done:
		return h.exitErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown asks the process (and its descendants) to terminate, waits up to
// timeout, then force-kills. It never returns an error: failures during the
// wait are swallowed and logged, and a timeout is the expected trigger for
// the forced kill, not a fault. The handle is retired afterwards.
func (h *Handle) Shutdown(timeout time.Duration) {
	h.mu.Lock()
	if h.retired {
		h.mu.Unlock()
		return
	}
	h.retired = true
	h.mu.Unlock()

	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-h.done:
		h.closer.Close()
		return // already exited
	default:
	}

	if err := terminateGroup(h.cmd); err != nil {
		h.log.Warn().Err(err).Int("pid", h.Pid()).Msg("termination request failed")
	}

	select {
	case <-h.done:
	case <-time.After(timeout):
		h.log.Warn().Int("pid", h.Pid()).Dur("timeout", timeout).Msg("graceful shutdown timed out, force killing")
		if err := killGroup(h.cmd); err != nil && !errors.Is(err, os.ErrProcessDone) {
			h.log.Warn().Err(err).Int("pid", h.Pid()).Msg("force kill failed")
		}
		<-h.done
	}
	h.closer.Close()
}

// Retired reports whether Shutdown has been called.
func (h *Handle) Retired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.retired
}

// ExitCode returns the process exit code, or -1 if it has not exited.
func (h *Handle) ExitCode() int {
	select {
	case <-h.done:
	default:
		return -1
	}
	var exitErr *exec.ExitError
	if err := h.exitErr(); errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return h.cmd.ProcessState.ExitCode()
}

func (h *Handle) exitErr() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.waitErr
}
