package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/githubpartners/issues-dashboard/core/config"
	"github.com/githubpartners/issues-dashboard/core/generator"
	"github.com/githubpartners/issues-dashboard/core/github"
)

func newMetaCmd() *cobra.Command {
	var (
		configPath  string
		repo        string
		issueNumber int
		out         string
	)

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Build the dashboard JSON from a meta tracking issue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("repo") {
				cfg.Repo = repo
			}
			if cmd.Flags().Changed("issue-number") {
				cfg.MetaIssueNumber = issueNumber
			}
			if cmd.Flags().Changed("out") {
				cfg.MetaOut = out
			}
			if err := github.ValidateRepo(cfg.Repo); err != nil {
				return err
			}

			client := github.NewClient(cfg.Token)
			doc, err := generator.BuildFromMetaIssue(cmd.Context(), client, cfg)
			if err != nil {
				return err
			}
			if err := generator.WriteDocument(doc, cfg.MetaOut); err != nil {
				return err
			}

			fmt.Printf("Wrote %s with %d features\n", cfg.MetaOut, doc.Summary.TotalFeatures)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: dashboard.yaml if present)")
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repo in OWNER/REPO format")
	cmd.Flags().IntVar(&issueNumber, "issue-number", 0, "Meta issue number")
	cmd.Flags().StringVar(&out, "out", "", "Output JSON path")
	return cmd
}
