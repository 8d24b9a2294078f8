package process

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Runner executes prerequisite binaries (git, python, dotnet) on behalf of
// the package adapters. Implementations must be safe for concurrent use.
// The interface exists so adapter and orchestrator tests can run without
// real processes.
type Runner interface {
	// Run executes a command in dir and returns its stdout. On a nonzero
	// exit, stderr is folded into the returned error.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// RunStreaming executes a command in dir, invoking onLine for every
	// complete line of merged stdout/stderr.
	RunStreaming(ctx context.Context, dir string, onLine func(string), name string, args ...string) error

	// LookPath reports whether the named binary is on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	// Env overrides the child environment when non-nil.
	Env []string
}

// NewExecRunner creates a Runner that executes real processes.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a command synchronously and returns its stdout.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if r.Env != nil {
		cmd.Env = r.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return stdout.Bytes(), nil
}

// RunStreaming executes a command, invoking onLine per merged output line.
func (r *ExecRunner) RunStreaming(ctx context.Context, dir string, onLine func(string), name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if r.Env != nil {
		cmd.Env = r.Env
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return fmt.Errorf("starting %s: %w", name, err)
	}

	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			}
		}
		// The scanner stops on oversized lines. Keep draining so the
		// child's writes never block on a full pipe.
		io.Copy(io.Discard, pr)
	}()

	err := cmd.Wait()
	pw.Close()
	<-scanDone
	pr.Close()

	if err != nil {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// LookPath resolves a binary on PATH.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// MockRunner is a test double for Runner. Configure the func fields before
// use; a nil field panics when its method is called.
type MockRunner struct {
	RunFunc          func(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	RunStreamingFunc func(ctx context.Context, dir string, onLine func(string), name string, args ...string) error
	LookPathFunc     func(name string) (string, error)

	// Calls records all invocations for verification.
	Calls []RunnerCall

	mu sync.Mutex
}

// RunnerCall records a single Runner invocation.
type RunnerCall struct {
	Method string
	Dir    string
	Name   string
	Args   []string
}

// Run delegates to RunFunc and records the call.
func (m *MockRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	m.record(RunnerCall{Method: "Run", Dir: dir, Name: name, Args: args})
	if m.RunFunc == nil {
		panic("MockRunner.RunFunc not set")
	}
	return m.RunFunc(ctx, dir, name, args...)
}

// RunStreaming delegates to RunStreamingFunc and records the call.
func (m *MockRunner) RunStreaming(ctx context.Context, dir string, onLine func(string), name string, args ...string) error {
	m.record(RunnerCall{Method: "RunStreaming", Dir: dir, Name: name, Args: args})
	if m.RunStreamingFunc == nil {
		panic("MockRunner.RunStreamingFunc not set")
	}
	return m.RunStreamingFunc(ctx, dir, onLine, name, args...)
}

// LookPath delegates to LookPathFunc, defaulting to found-as-is.
func (m *MockRunner) LookPath(name string) (string, error) {
	if m.LookPathFunc == nil {
		return name, nil
	}
	return m.LookPathFunc(name)
}

func (m *MockRunner) record(c RunnerCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, c)
}

// GetCalls returns a copy of all recorded calls.
func (m *MockRunner) GetCalls() []RunnerCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RunnerCall, len(m.Calls))
	copy(out, m.Calls)
	return out
}

// Compile-time interface compliance checks.
var (
	_ Runner = (*ExecRunner)(nil)
	_ Runner = (*MockRunner)(nil)
)
