package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/githubpartners/issues-dashboard/core/config"
	"github.com/githubpartners/issues-dashboard/core/dashboard"
	"github.com/githubpartners/issues-dashboard/core/github"
)

const listPageSize = 100

// BuildFromRepoIssues pages through all issues in the repository, filters
// out pull requests and closed issues older than the retention window,
// classifies each remaining issue with the keyword rules and assembles a
// dashboard document.
//
// A failed page fetch is fatal. Rate limit exhaustion mid-pagination stops
// paging with a warning and the partial result is kept.
func BuildFromRepoIssues(ctx context.Context, client *github.Client, cfg *config.Config) (*dashboard.Document, error) {
	now := time.Now().UTC()
	classifier := dashboard.NewClassifier(cfg.KeywordRules)

	var issues []github.Issue
	for page := 1; ; page++ {
		items, rate, err := client.ListIssuesPage(ctx, cfg.Repo, cfg.State, page, listPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues page %d: %w", page, err)
		}
		if len(items) == 0 {
			break
		}

		for _, it := range items {
			if !it.IsPullRequest() {
				issues = append(issues, it)
			}
		}

		if rate.Exhausted() {
			slog.Warn("Rate limit exhausted while paging issues, output will be partial",
				"hint", "set "+config.TokenEnvVar+" to avoid this")
			break
		}
	}

	slog.Info("Listed repository issues", "repo", cfg.Repo, "state", cfg.State, "count", len(issues))

	features := make([]dashboard.Feature, 0, len(issues))
	for _, it := range issues {
		if !dashboard.IncludeIssue(it.State, it.ClosedAt, it.UpdatedAt, now, cfg.Retention()) {
			continue
		}

		title := it.Title
		if title == "" {
			title = fmt.Sprintf("Issue #%d", it.Number)
		}
		sourceURL := it.HTMLURL
		if sourceURL == "" {
			sourceURL = github.IssueHTMLURL(cfg.Repo, it.Number)
		}
		dateDiscovered := it.CreatedAt
		if dateDiscovered == "" {
			dateDiscovered = dashboard.FormatTimestamp(now)
		}
		state := it.State
		if state == "" {
			state = "unknown"
		}

		features = append(features, dashboard.Feature{
			IssueNumber:    it.Number,
			ID:             dashboard.FeatureID(it.Number),
			Title:          title,
			State:          state,
			SourceType:     "issue",
			ProductArea:    classifier.Classify(title, it.LabelNames(), it.Body),
			SourceURL:      sourceURL,
			DateDiscovered: dateDiscovered,
		})
	}

	return dashboard.Build(features, now)
}
