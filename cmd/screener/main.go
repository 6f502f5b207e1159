// Package main is the resume screener CLI: an interactive terminal UI and a
// non-interactive analyze command.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/client"
	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/logging"
	"alfredoptarigan/resume-screener/internal/results"
	"alfredoptarigan/resume-screener/internal/tui"
)

var (
	analyzerURL string
	openResults bool
	exportDir   string
)

var rootCmd = &cobra.Command{
	Use:           "screener",
	Short:         "Screen PDF resumes against a job description",
	Long:          "Resume Screener uploads PDF resumes and a job description to the analysis service and presents a scored, tiered evaluation of every candidate.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&analyzerURL, "url", "", "Analysis endpoint (overrides ANALYZER_URL)")
	rootCmd.Flags().BoolVar(&openResults, "results", false, "Open the results view directly")
	rootCmd.Flags().StringVar(&exportDir, "export-dir", ".", "Directory for spreadsheet exports")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if analyzerURL != "" {
		cfg.Client.AnalyzerURL = analyzerURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func thresholds(cfg *config.Config) results.Thresholds {
	return results.Thresholds{
		High:   cfg.Client.TierHighThreshold,
		Medium: cfg.Client.TierMediumThreshold,
	}
}

func runInteractive(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logger, err := logging.New(cfg.Server.Env, cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer logger.Sync()

	start := tui.RouteUpload
	if openResults {
		start = tui.RouteResults
	}

	app := tui.NewApp(tui.Config{
		Analyzer:          client.New(cfg.Client.AnalyzerURL, logger),
		AcceptedMediaType: cfg.Client.AcceptedMediaType,
		Thresholds:        thresholds(cfg),
		ExportDir:         exportDir,
		Logger:            logger,
	}, start)

	logger.Info("🚀 Screener started", zap.String("analyzer", cfg.Client.AnalyzerURL), zap.Stringer("route", start))

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	return nil
}
