// Package generator contains the two dashboard build pipelines and the
// output writer. Both pipelines end in dashboard.Build, so the emitted
// documents share one schema.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/githubpartners/issues-dashboard/core/config"
	"github.com/githubpartners/issues-dashboard/core/dashboard"
	"github.com/githubpartners/issues-dashboard/core/github"
	"github.com/githubpartners/issues-dashboard/core/metaissue"
)

// placeholderFeature synthesizes a record for an issue whose live fetch was
// not possible, so a run always emits one record per referenced number.
func placeholderFeature(repo string, number int, category, dateDiscovered string) dashboard.Feature {
	return dashboard.Feature{
		IssueNumber:    number,
		ID:             dashboard.FeatureID(number),
		Title:          fmt.Sprintf("Issue #%d", number),
		SourceType:     "issue",
		ProductArea:    category,
		SourceURL:      github.IssueHTMLURL(repo, number),
		DateDiscovered: dateDiscovered,
	}
}

// BuildFromMetaIssue fetches the meta tracking issue, maps the issues it
// references to the category sections they appear under, fetches each
// referenced issue best-effort and assembles a dashboard document.
//
// A failed meta issue fetch is fatal. A failed per-issue fetch degrades to a
// placeholder record. Once an unauthenticated run observes primary rate
// limit exhaustion, all remaining issues become placeholders without further
// requests.
func BuildFromMetaIssue(ctx context.Context, client *github.Client, cfg *config.Config) (*dashboard.Document, error) {
	meta, _, err := client.FetchIssue(ctx, cfg.Repo, cfg.MetaIssueNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meta issue #%d: %w", cfg.MetaIssueNumber, err)
	}

	metaCreated := meta.CreatedAt
	if metaCreated == "" {
		metaCreated = dashboard.FormatTimestamp(time.Now())
	}

	mapping := metaissue.ParseBody(meta.Body, cfg.Categories)
	delete(mapping, cfg.MetaIssueNumber)

	// Deterministic processing order before the date-based sort.
	numbers := make([]int, 0, len(mapping))
	for n := range mapping {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	slog.Info("Parsed meta issue", "issue", cfg.MetaIssueNumber, "referenced", len(numbers))

	features := make([]dashboard.Feature, 0, len(numbers))
	rateLimited := false

	for _, n := range numbers {
		category := mapping[n]

		if rateLimited {
			features = append(features, placeholderFeature(cfg.Repo, n, category, metaCreated))
			continue
		}

		issue, rate, err := client.FetchIssue(ctx, cfg.Repo, n)
		if err != nil {
			slog.Warn("Issue fetch failed, using placeholder", "issue", n, "error", err)
			features = append(features, placeholderFeature(cfg.Repo, n, category, metaCreated))
			continue
		}

		title := issue.Title
		if title == "" {
			title = fmt.Sprintf("Issue #%d", n)
		}
		sourceURL := issue.HTMLURL
		if sourceURL == "" {
			sourceURL = github.IssueHTMLURL(cfg.Repo, n)
		}
		dateDiscovered := issue.CreatedAt
		if dateDiscovered == "" {
			dateDiscovered = metaCreated
		}

		features = append(features, dashboard.Feature{
			IssueNumber:    n,
			ID:             dashboard.FeatureID(n),
			Title:          title,
			SourceType:     "issue",
			ProductArea:    category,
			SourceURL:      sourceURL,
			DateDiscovered: dateDiscovered,
		})

		// Unauthenticated rate limiting is sticky for the rest of the run.
		if !client.Authenticated() && rate.Exhausted() {
			slog.Warn("Rate limit exhausted, remaining issues become placeholders",
				"hint", "set "+config.TokenEnvVar+" to avoid this")
			rateLimited = true
		}
	}

	return dashboard.Build(features, time.Now())
}
