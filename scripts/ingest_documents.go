package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/logging"
	"alfredoptarigan/resume-screener/internal/services"
)

var (
	docType      string
	chunkSize    int
	chunkOverlap int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest_documents [flags] guideline.pdf...",
	Short: "Embed screening guideline PDFs into the rubric collection",
	Long:  "Extract, chunk and embed screening rubrics or role profiles so the analyzer can retrieve them while scoring resumes. Re-ingesting a file replaces its previous chunks.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&docType, "type", "t", services.DocTypeRubric,
		fmt.Sprintf("Document type (%s or %s)", services.DocTypeRubric, services.DocTypeRoleProfile))
	ingestCmd.Flags().IntVar(&chunkSize, "chunk-size", 1000, "Maximum chunk size in characters")
	ingestCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 200, "Characters repeated between chunks")
}

func main() {
	if err := ingestCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runIngest(_ *cobra.Command, paths []string) error {
	if docType != services.DocTypeRubric && docType != services.DocTypeRoleProfile {
		return fmt.Errorf("unknown document type %q", docType)
	}

	cfg := config.Load()
	if cfg.Qdrant.URL == "" {
		return fmt.Errorf("QDRANT_URL must be set to ingest documents")
	}

	log, err := logging.New(cfg.Server.Env, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	log.Info("🚀 Starting document ingestion", zap.Int("documents", len(paths)), zap.String("type", docType))

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, services.RetryPolicy{
		Attempts:     cfg.Worker.RetryMaxAttempts,
		InitialDelay: cfg.Worker.RetryInitialDelay,
	}, log)
	if err != nil {
		return err
	}

	store, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, log)
	if err != nil {
		return err
	}
	if err := store.InitCollection(ctx); err != nil {
		return err
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()

	failed := 0
	for _, path := range paths {
		source := filepath.Base(path)
		docLog := log.With(zap.String("source", source))

		content, err := pdfParser.ExtractText(path)
		if err != nil {
			docLog.Error("❌ Failed to extract text", zap.Error(err))
			failed++
			continue
		}

		chunks := chunker.ChunkText(content.Text, chunkSize, chunkOverlap)
		docLog.Info("📖 Extracted document", zap.Int("pages", content.PageCount), zap.Int("chunks", len(chunks)))

		if err := store.DeleteSource(ctx, source); err != nil {
			docLog.Warn("⚠️ Failed to remove previous chunks", zap.Error(err))
		}

		stored := 0
		for i, text := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, text)
			if err != nil {
				docLog.Error("❌ Failed to embed chunk", zap.Int("chunk", i), zap.Error(err))
				continue
			}

			chunk := services.RubricChunk{Source: source, DocType: docType, Index: i, Text: text}
			if err := store.UpsertChunk(ctx, chunk, embedding); err != nil {
				docLog.Error("❌ Failed to store chunk", zap.Int("chunk", i), zap.Error(err))
				continue
			}
			stored++
		}

		if stored < len(chunks) {
			failed++
		}
		docLog.Info("✅ Ingested document", zap.Int("stored", stored), zap.Int("chunks", len(chunks)))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to ingest", failed, len(paths))
	}

	log.Info("✅ All documents ingested successfully")
	return nil
}
