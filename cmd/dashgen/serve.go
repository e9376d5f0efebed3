package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/githubpartners/issues-dashboard/core/config"
	"github.com/githubpartners/issues-dashboard/core/devserver"
)

func newServeCmd() *cobra.Command {
	var (
		configPath     string
		bind           string
		port           int
		docsDir        string
		refreshTimeout int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the docs directory with dashboard refresh endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bind") {
				cfg.Server.Bind = bind
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("docs-dir") {
				cfg.Server.DocsDir = docsDir
			}
			if cmd.Flags().Changed("refresh-timeout") {
				cfg.Server.RefreshTimeoutSeconds = refreshTimeout
			}

			binary, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to resolve own binary: %w", err)
			}

			runner := &devserver.Runner{
				Binary:  binary,
				Timeout: cfg.RefreshTimeout(),
			}
			srv, err := devserver.New(cfg.Server.DocsDir, runner)
			if err != nil {
				return err
			}

			addr := net.JoinHostPort(cfg.Server.Bind, strconv.Itoa(cfg.Server.Port))
			url := fmt.Sprintf("http://%s/", addr)
			fmt.Println("Serving dashboard at:")
			fmt.Printf("  %s\n", url)
			fmt.Printf("  %sissues.html\n", url)
			fmt.Println("Refresh endpoints:")
			fmt.Printf("  POST %s%s\n", url, devserver.PathRefreshAll[1:])
			fmt.Printf("  POST %s%s\n", url, devserver.PathRefreshMeta[1:])
			fmt.Printf("  POST %s%s\n", url, devserver.PathRefreshBoth[1:])

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return httpServer.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: dashboard.yaml if present)")
	cmd.Flags().StringVar(&bind, "bind", "127.0.0.1", "Bind address")
	cmd.Flags().IntVar(&port, "port", 8000, "Port")
	cmd.Flags().StringVar(&docsDir, "docs-dir", "docs", "Directory to serve")
	cmd.Flags().IntVar(&refreshTimeout, "refresh-timeout", 120, "Max seconds allowed for each refresh script")
	return cmd
}
