package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/githubpartners/issues-dashboard/core/config"
	"github.com/githubpartners/issues-dashboard/core/generator"
	"github.com/githubpartners/issues-dashboard/core/github"
)

func newIssuesCmd() *cobra.Command {
	var (
		configPath string
		repo       string
		state      string
		out        string
	)

	cmd := &cobra.Command{
		Use:   "issues",
		Short: "Build the dashboard JSON from all issues in a repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("repo") {
				cfg.Repo = repo
			}
			if cmd.Flags().Changed("state") {
				cfg.State = state
			}
			if cmd.Flags().Changed("out") {
				cfg.IssuesOut = out
			}
			if err := github.ValidateRepo(cfg.Repo); err != nil {
				return err
			}
			switch cfg.State {
			case "open", "closed", "all":
			default:
				return fmt.Errorf("state must be one of open, closed or all, got %q", cfg.State)
			}

			client := github.NewClient(cfg.Token)
			doc, err := generator.BuildFromRepoIssues(cmd.Context(), client, cfg)
			if err != nil {
				return err
			}
			if err := generator.WriteDocument(doc, cfg.IssuesOut); err != nil {
				return err
			}

			fmt.Printf("Wrote %s with %d features\n", cfg.IssuesOut, doc.Summary.TotalFeatures)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: dashboard.yaml if present)")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repo in OWNER/REPO format")
	cmd.Flags().StringVar(&state, "state", "", "Issue state filter: open, closed or all")
	cmd.Flags().StringVar(&out, "out", "", "Output JSON path")
	return cmd
}
