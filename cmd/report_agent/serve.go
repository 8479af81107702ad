package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/class-reporter/internal/config"
	"github.com/jonathan/class-reporter/internal/server"
)

var (
	servePort       int
	serveConfigFile string
	servePrecheck   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating, previewing, and publishing class reports.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to JSON config file")
	serveCmd.Flags().BoolVar(&servePrecheck, "precheck", false, "Run the format precheck on generated Markdown")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := &config.Config{}
	if serveConfigFile != "" {
		loaded, err := config.LoadConfig(serveConfigFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	// An explicit --port wins over the config file.
	if cmd.Flags().Changed("port") || cfg.Port == 0 {
		cfg.Port = servePort
	}

	srv, err := server.New(server.Config{
		Port:              cfg.Port,
		APIKey:            cfg.APIKey,
		DatabaseURL:       cfg.DatabaseURL,
		WorkspaceToken:    cfg.WorkspaceToken,
		WorkspaceParentID: cfg.WorkspaceParentID,
		StaticDir:         cfg.StaticDir,
		StaticBaseURL:     cfg.StaticBaseURL,
		Limits:            cfg.Limits(),
		Precheck:          servePrecheck || cfg.Precheck,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if cfg.Verbose {
		fmt.Fprintf(os.Stderr, "Listening on :%d\n", cfg.Port)
	}
	return srv.Start()
}
