package devserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
)

// RateLimitHint is returned with every refresh response.
const RateLimitHint = "Set GITHUB_TOKEN to avoid GitHub API rate limits."

// Refresh endpoint paths.
const (
	PathRefreshAll  = "/__refresh_all"
	PathRefreshMeta = "/__refresh_meta"
	PathRefreshBoth = "/__refresh_both"
)

// contentTypes maps common web asset extensions to explicit content types,
// so the dashboard assets render the same regardless of the host's mime
// tables.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".htm":  "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
	".mjs":  "text/javascript; charset=utf-8",
	".json": "application/json; charset=utf-8",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".ico":  "image/x-icon",
	".map":  "application/json; charset=utf-8",
	".txt":  "text/plain; charset=utf-8",
}

// refreshResponse is the JSON body returned by the refresh endpoints.
type refreshResponse struct {
	OK      bool           `json:"ok"`
	Results []ScriptResult `json:"results"`
	Hint    string         `json:"hint"`
}

// Server serves the static docs directory on GET/HEAD and runs the
// generators on the refresh POST endpoints. It holds no mutable state, so
// concurrent requests need no locking.
type Server struct {
	docsDir string
	runner  *Runner
	files   http.Handler
}

// New creates a server for docsDir. The directory must exist.
func New(docsDir string, runner *Runner) (*Server, error) {
	info, err := os.Stat(docsDir)
	if err != nil {
		return nil, fmt.Errorf("docs dir not found: %s", docsDir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs dir is not a directory: %s", docsDir)
	}
	if runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}
	return &Server{
		docsDir: docsDir,
		runner:  runner,
		files:   http.FileServer(http.Dir(docsDir)),
	}, nil
}

// refreshPlan maps each refresh endpoint to the generator subcommands it
// runs, in order.
var refreshPlan = map[string][][]string{
	PathRefreshAll:  {{"issues"}},
	PathRefreshMeta: {{"meta"}},
	PathRefreshBoth: {{"meta"}, {"issues"}},
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleRefresh(w, r)
	case http.MethodGet, http.MethodHead:
		s.handleStatic(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"ok":    false,
			"error": fmt.Sprintf("Method not allowed: %s", r.Method),
		})
	}
}

// handleStatic serves files from the docs directory. Links written for the
// repository layout use a /docs/ prefix; those are redirected to the
// root-relative path.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/docs/") || r.URL.Path == "/docs" {
		target := strings.TrimPrefix(r.URL.Path, "/docs")
		if target == "" {
			target = "/"
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	if ct, ok := contentTypes[strings.ToLower(path.Ext(r.URL.Path))]; ok {
		w.Header().Set("Content-Type", ct)
	}
	s.files.ServeHTTP(w, r)
}

// handleRefresh runs the generator subcommands for a known refresh path and
// reports every invocation's outcome. The response is 200 only when every
// script exited zero.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	plan, ok := refreshPlan[r.URL.Path]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"ok":    false,
			"error": fmt.Sprintf("Unknown endpoint: %s", r.URL.Path),
		})
		return
	}

	slog.Info("Refresh requested", "path", r.URL.Path)

	results := make([]ScriptResult, 0, len(plan))
	allOK := true
	for _, args := range plan {
		res := s.runner.Run(r.Context(), args...)
		results = append(results, res)
		if !res.OK {
			allOK = false
		}
	}

	status := http.StatusOK
	if !allOK {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, refreshResponse{OK: allOK, Results: results, Hint: RateLimitHint})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
