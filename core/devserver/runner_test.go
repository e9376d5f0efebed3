package devserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-dashgen")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestRunner_Success(t *testing.T) {
	r := &Runner{
		Binary:  writeScript(t, "echo \"ran: $1\"\n"),
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), "issues")
	assert.True(t, res.OK)
	assert.Equal(t, 0, res.ReturnCode)
	assert.Equal(t, "fake-dashgen issues", res.Script)
	assert.Equal(t, "ran: issues\n", res.Stdout)
	assert.Empty(t, res.Stderr)
}

func TestRunner_NonZeroExit(t *testing.T) {
	r := &Runner{
		Binary:  writeScript(t, "echo out\necho err >&2\nexit 3\n"),
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), "meta")
	assert.False(t, res.OK)
	assert.Equal(t, 3, res.ReturnCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}

func TestRunner_MissingBinary(t *testing.T) {
	r := &Runner{
		Binary:  filepath.Join(t.TempDir(), "does-not-exist"),
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), "meta")
	assert.False(t, res.OK)
	assert.Equal(t, 2, res.ReturnCode)
	assert.Contains(t, res.Stderr, "Missing binary")
}

func TestRunner_Timeout(t *testing.T) {
	r := &Runner{
		Binary:  writeScript(t, "echo started\nsleep 5\n"),
		Timeout: 200 * time.Millisecond,
	}

	start := time.Now()
	res := r.Run(context.Background(), "issues")
	assert.Less(t, time.Since(start), 3*time.Second)

	assert.False(t, res.OK)
	assert.Equal(t, 124, res.ReturnCode)
	assert.Contains(t, res.Stderr, "Timed out after")
	// Output captured before the timeout is preserved.
	assert.Contains(t, res.Stdout, "started")
}
