package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/githubpartners/issues-dashboard/core/config"
	"github.com/githubpartners/issues-dashboard/core/dashboard"
	"github.com/githubpartners/issues-dashboard/core/github"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Repo = "o/r"
	cfg.MetaIssueNumber = 223
	return cfg
}

func testClient(baseURL string, token string) *github.Client {
	client := github.NewClient(token)
	client.BaseURL = baseURL
	return client
}

func issueJSON(number int, fields map[string]any) []byte {
	payload := map[string]any{"number": number}
	for k, v := range fields {
		payload[k] = v
	}
	data, _ := json.Marshal(payload)
	return data
}

func TestBuildFromMetaIssue_EndToEnd(t *testing.T) {
	metaBody := "## Grammar/Spelling\n" +
		"- https://github.com/o/r/issues/42\n" +
		"## Other (Support/Ambiguous/Process)\n" +
		"- https://github.com/o/r/issues/7\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/223", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(issueJSON(223, map[string]any{
			"body":       metaBody,
			"created_at": "2026-01-01T00:00:00Z",
		}))
	})
	mux.HandleFunc("/repos/o/r/issues/42", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(issueJSON(42, map[string]any{
			"title":      "Typo in unit 3",
			"created_at": "2026-02-01T00:00:00Z",
			"html_url":   "https://github.com/o/r/issues/42",
		}))
	})
	mux.HandleFunc("/repos/o/r/issues/7", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(issueJSON(7, map[string]any{
			"title":      "Support question",
			"created_at": "2026-01-15T00:00:00Z",
			"html_url":   "https://github.com/o/r/issues/7",
		}))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	doc, err := BuildFromMetaIssue(context.Background(), testClient(server.URL, "tok"), testConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, doc.Summary.TotalFeatures)
	require.Len(t, doc.Features, 2)
	// Sorted by discovery date ascending.
	assert.Equal(t, "Support question", doc.Features[0].Title)
	assert.Equal(t, "Other (Support/Ambiguous/Process)", doc.Features[0].ProductArea)
	assert.Equal(t, "Typo in unit 3", doc.Features[1].Title)
	assert.Equal(t, "Grammar/Spelling", doc.Features[1].ProductArea)
	assert.Equal(t, "microsoft_learn_issue_7", doc.Features[0].ID)
}

func TestBuildFromMetaIssue_PlaceholderOnFetchFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/223", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(issueJSON(223, map[string]any{
			"body":       "## Grammar/Spelling\n/issues/42\n",
			"created_at": "2026-01-01T00:00:00Z",
		}))
	})
	mux.HandleFunc("/repos/o/r/issues/42", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	doc, err := BuildFromMetaIssue(context.Background(), testClient(server.URL, "tok"), testConfig())
	require.NoError(t, err)

	require.Len(t, doc.Features, 1)
	f := doc.Features[0]
	assert.Equal(t, "Issue #42", f.Title)
	assert.Equal(t, "Grammar/Spelling", f.ProductArea)
	assert.Equal(t, "https://github.com/o/r/issues/42", f.SourceURL)
	// Placeholders inherit the meta issue's creation time.
	assert.Equal(t, "2026-01-01T00:00:00Z", f.DateDiscovered)
}

func TestBuildFromMetaIssue_RateLimitIsSticky(t *testing.T) {
	fetched := make(map[string]int)

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/", func(w http.ResponseWriter, r *http.Request) {
		fetched[r.URL.Path]++
		switch r.URL.Path {
		case "/repos/o/r/issues/223":
			_, _ = w.Write(issueJSON(223, map[string]any{
				"body":       "## Grammar/Spelling\n/issues/1\n/issues/2\n/issues/3\n",
				"created_at": "2026-01-01T00:00:00Z",
			}))
		case "/repos/o/r/issues/1":
			// First per-issue fetch reports exhaustion.
			w.Header().Set("X-RateLimit-Remaining", "0")
			_, _ = w.Write(issueJSON(1, map[string]any{
				"title":      "Fetched before the limit",
				"created_at": "2026-02-01T00:00:00Z",
			}))
		default:
			t.Errorf("unexpected fetch after rate limit: %s", r.URL.Path)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	// Unauthenticated, so exhaustion is sticky.
	doc, err := BuildFromMetaIssue(context.Background(), testClient(server.URL, ""), testConfig())
	require.NoError(t, err)

	require.Len(t, doc.Features, 3)
	byID := make(map[string]dashboard.Feature)
	for _, f := range doc.Features {
		byID[f.ID] = f
	}
	assert.Equal(t, "Fetched before the limit", byID["microsoft_learn_issue_1"].Title)
	assert.Equal(t, "Issue #2", byID["microsoft_learn_issue_2"].Title)
	assert.Equal(t, "Issue #3", byID["microsoft_learn_issue_3"].Title)

	assert.Equal(t, 1, fetched["/repos/o/r/issues/1"])
	assert.Zero(t, fetched["/repos/o/r/issues/2"])
	assert.Zero(t, fetched["/repos/o/r/issues/3"])
}

func TestBuildFromMetaIssue_AuthenticatedIgnoresRateHeader(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		switch r.URL.Path {
		case "/repos/o/r/issues/223":
			_, _ = w.Write(issueJSON(223, map[string]any{
				"body":       "## Grammar/Spelling\n/issues/1\n/issues/2\n",
				"created_at": "2026-01-01T00:00:00Z",
			}))
		default:
			var n int
			_, _ = fmt.Sscanf(r.URL.Path, "/repos/o/r/issues/%d", &n)
			_, _ = w.Write(issueJSON(n, map[string]any{
				"title":      fmt.Sprintf("Live title %d", n),
				"created_at": "2026-02-01T00:00:00Z",
			}))
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	doc, err := BuildFromMetaIssue(context.Background(), testClient(server.URL, "tok"), testConfig())
	require.NoError(t, err)

	require.Len(t, doc.Features, 2)
	for _, f := range doc.Features {
		assert.Contains(t, f.Title, "Live title")
	}
}

func TestBuildFromMetaIssue_ExcludesSelfReference(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues/223", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(issueJSON(223, map[string]any{
			"body":       "## Grammar/Spelling\n/issues/223\n",
			"created_at": "2026-01-01T00:00:00Z",
		}))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	doc, err := BuildFromMetaIssue(context.Background(), testClient(server.URL, "tok"), testConfig())
	require.NoError(t, err)
	assert.Empty(t, doc.Features)
}

func TestBuildFromMetaIssue_MetaFetchFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := BuildFromMetaIssue(context.Background(), testClient(server.URL, "tok"), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch meta issue #223")
}
