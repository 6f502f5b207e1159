package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/client"
	"alfredoptarigan/resume-screener/internal/export"
	"alfredoptarigan/resume-screener/internal/logging"
	"alfredoptarigan/resume-screener/internal/results"
	"alfredoptarigan/resume-screener/internal/submission"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] resume.pdf...",
	Short: "Analyze resumes without the interactive UI",
	Long:  "Submit the given PDF resumes with a job description in a single request and print the evaluated candidates.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeDescription     string
	analyzeDescriptionFile string
	analyzeExport          string
	analyzeWidth           int
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeDescription, "description", "d", "", "Job description text")
	analyzeCmd.Flags().StringVarP(&analyzeDescriptionFile, "description-file", "f", "", "Read the job description from a file")
	analyzeCmd.Flags().StringVarP(&analyzeExport, "export", "o", "", "Also write the results to an .xlsx file")
	analyzeCmd.Flags().IntVar(&analyzeWidth, "width", 100, "Render width in columns")
	analyzeCmd.MarkFlagsMutuallyExclusive("description", "description-file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Server.Env, cfg.Log.Level, "stderr")
	if err != nil {
		return err
	}
	defer logger.Sync()

	description := analyzeDescription
	if analyzeDescriptionFile != "" {
		content, err := os.ReadFile(analyzeDescriptionFile)
		if err != nil {
			return fmt.Errorf("failed to read description file: %w", err)
		}
		description = string(content)
	}

	files, err := submission.OpenFiles(args...)
	if err != nil {
		return err
	}

	controller := submission.NewController(
		client.New(cfg.Client.AnalyzerURL, logger),
		cfg.Client.AcceptedMediaType,
		logger,
	)
	if err := controller.AddFiles(files...); err != nil {
		return err
	}
	controller.SetDescription(description)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := controller.Submit(ctx)
	if err != nil {
		var validation *submission.ValidationError
		if errors.As(err, &validation) {
			return err
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	page := results.NewProjector(thresholds(cfg)).Present(result)
	fmt.Fprintln(cmd.OutOrStdout(), results.Render(page, results.DefaultStyles(), analyzeWidth, ""))

	if analyzeExport != "" {
		path, err := export.ExportToExcel(page, analyzeExport)
		if err != nil {
			return err
		}
		logger.Info("📄 Exported analysis", zap.String("path", path))
	}

	return nil
}
