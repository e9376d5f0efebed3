package generator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/githubpartners/issues-dashboard/core/dashboard"
)

func TestWriteDocument(t *testing.T) {
	t.Parallel()
	doc, err := dashboard.Build(nil, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reports", "dashboard.json")
	require.NoError(t, WriteDocument(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(string(data), "\n"), "output ends with a newline")
	assert.True(t, strings.HasPrefix(string(data), "{\n  "), "output is pretty-printed")

	var parsed dashboard.Document
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, 0, parsed.Summary.TotalFeatures)
}

func TestWriteDocument_OverwritesExisting(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dashboard.json")
	require.NoError(t, os.WriteFile(path, []byte("old contents that are longer than the new ones\n"), 0o644))

	doc, err := dashboard.Build(nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, WriteDocument(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "old contents")
}

func TestWriteDocument_Guards(t *testing.T) {
	t.Parallel()
	doc, err := dashboard.Build(nil, time.Now())
	require.NoError(t, err)

	assert.Error(t, WriteDocument(nil, "x.json"))
	assert.Error(t, WriteDocument(doc, ""))
	assert.Error(t, WriteDocument(doc, "   "))
}
