// Package devserver is the local development server for the dashboard
// pages: it serves the static docs directory and exposes POST endpoints
// that re-run the generators on demand.
package devserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Exit codes reported for runner-level failures, matching conventional
// shell semantics: 124 for a timeout, 2 for an invocation that never ran.
const (
	codeInvocationFailed = 2
	codeTimedOut         = 124
)

// ScriptResult is the per-invocation shape embedded in refresh responses.
type ScriptResult struct {
	OK         bool   `json:"ok"`
	ReturnCode int    `json:"returncode"`
	Script     string `json:"script"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
}

// Runner executes generator commands as bounded child processes. Failures
// never propagate as errors; every invocation produces a ScriptResult.
type Runner struct {
	// Binary is the executable to invoke, normally the server's own binary
	// so generators run as subcommands.
	Binary string
	// Dir is the working directory for children; empty means inherit.
	Dir string
	// Timeout bounds each invocation.
	Timeout time.Duration
}

// Run invokes Binary with args, capturing stdout, stderr and the exit code.
// The child inherits the full environment, including the GitHub token.
func (r *Runner) Run(ctx context.Context, args ...string) ScriptResult {
	script := strings.Join(append([]string{filepath.Base(r.Binary)}, args...), " ")
	result := ScriptResult{Script: script}

	if _, err := os.Stat(r.Binary); err != nil {
		result.ReturnCode = codeInvocationFailed
		result.Stderr = fmt.Sprintf("Missing binary: %s", r.Binary)
		return result
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.Binary, args...)
	cmd.Dir = r.Dir
	cmd.Env = os.Environ()
	// Don't wait on inherited pipes after the kill; grandchildren holding
	// stdout would otherwise stall the timeout path.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.ReturnCode = codeTimedOut
		if result.Stderr != "" {
			result.Stderr += "\n"
		}
		result.Stderr += fmt.Sprintf("Timed out after %s.", r.Timeout)
	case err == nil:
		result.OK = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ReturnCode = exitErr.ExitCode()
		} else {
			result.ReturnCode = codeInvocationFailed
			if result.Stderr != "" {
				result.Stderr += "\n"
			}
			result.Stderr += err.Error()
		}
	}

	slog.Info("Ran refresh script", "script", script, "ok", result.OK, "returncode", result.ReturnCode)
	return result
}
