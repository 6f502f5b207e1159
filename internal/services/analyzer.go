package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
)

const (
	defaultTopCandidates = 3
	rubricResults        = 3
	phraseSeparator      = ", "
)

// ErrModelFailure marks errors caused by the language model rather than the
// uploaded input.
var ErrModelFailure = errors.New("model failure")

// ResumeError reports a resume that could not be read.
type ResumeError struct {
	Filename string
	Err      error
}

func (e *ResumeError) Error() string {
	return fmt.Sprintf("Failed to extract text from %s: %v", e.Filename, e.Err)
}

func (e *ResumeError) Unwrap() error {
	return e.Err
}

type AnalyzerService interface {
	AnalyzeResumes(ctx context.Context, jobDescription string, resumes []*StoredResume) (*models.AnalysisResult, error)
}

// candidateEvaluation is the model's JSON answer for one resume.
type candidateEvaluation struct {
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	OverallScore   float64  `json:"overall_score"`
	Recommendation string   `json:"recommendation"`
	Comments       string   `json:"comments"`
}

type analyzerService struct {
	repo        repositories.AnalysisRepository
	gemini      GeminiService
	rubrics     RubricStore
	pdfParser   PDFParserService
	storage     StorageService
	validator   *ResponseValidator
	prompts     *PromptBuilder
	concurrency int
	logger      *zap.Logger
}

// NewAnalyzerService wires the analysis pipeline. rubrics may be nil, in which
// case prompts carry no retrieved guidelines.
func NewAnalyzerService(
	repo repositories.AnalysisRepository,
	gemini GeminiService,
	rubrics RubricStore,
	pdfParser PDFParserService,
	storage StorageService,
	validator *ResponseValidator,
	concurrency int,
	logger *zap.Logger,
) AnalyzerService {
	return &analyzerService{
		repo:        repo,
		gemini:      gemini,
		rubrics:     rubrics,
		pdfParser:   pdfParser,
		storage:     storage,
		validator:   validator,
		prompts:     NewPromptBuilder(),
		concurrency: max(concurrency, 1),
		logger:      logger,
	}
}

// AnalyzeResumes evaluates every resume against the job description, keeping
// the upload order, then persists the run. Stored files are removed when it
// returns.
func (a *analyzerService) AnalyzeResumes(ctx context.Context, jobDescription string, resumes []*StoredResume) (*models.AnalysisResult, error) {
	defer a.cleanup(resumes)

	a.logger.Info("🔄 Starting analysis", zap.Int("resumes", len(resumes)))

	texts := make([]string, len(resumes))
	for i, r := range resumes {
		content, err := a.pdfParser.ExtractText(r.Path)
		if err != nil {
			return nil, &ResumeError{Filename: r.Name, Err: err}
		}
		texts[i] = content.Text
	}

	rubric := a.retrieveRubric(ctx, jobDescription)

	candidates := make([]models.CandidateAnalysis, len(resumes))
	var jobSummary string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	g.Go(func() error {
		jobSummary = a.summarizeJob(gctx, jobDescription)
		return nil
	})

	for i, r := range resumes {
		g.Go(func() error {
			candidate, err := a.evaluateCandidate(gctx, jobDescription, r.Name, texts[i], rubric)
			if err != nil {
				return err
			}
			candidates[i] = *candidate
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	run := &models.AnalysisRun{
		ID:             uuid.New(),
		JobDescription: jobDescription,
		JobSummary:     jobSummary,
		TopCandidates:  topCandidates(candidates, defaultTopCandidates),
		CreatedAt:      time.Now().UTC(),
	}
	for _, c := range candidates {
		run.Candidates = append(run.Candidates, models.CandidateRecord{
			Filename:       c.Filename,
			Strengths:      c.Strengths,
			Weaknesses:     c.Weaknesses,
			OverallScore:   c.OverallScore,
			Recommendation: c.Recommendation,
			Comments:       c.Comments,
		})
	}
	run.UpdatedAt = run.CreatedAt

	if err := a.repo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	a.logger.Info("✅ Analysis completed",
		zap.String("request_id", run.ID.String()),
		zap.Strings("top_candidates", run.TopCandidates))

	return run.ToResult(), nil
}

func (a *analyzerService) evaluateCandidate(ctx context.Context, jobDescription, filename, resumeText, rubric string) (*models.CandidateAnalysis, error) {
	prompt := a.prompts.BuildCandidatePrompt(jobDescription, resumeText, filename, rubric)

	a.logger.Debug("🤖 Evaluating candidate", zap.String("filename", filename), zap.Int("prompt_chars", len(prompt)))

	response, err := a.gemini.GenerateTextWithRetry(ctx, prompt, GenerateOptions{Temperature: 0.3, JSON: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to evaluate %s: %w", ErrModelFailure, filename, err)
	}

	document := extractJSON(response)
	if err := a.validator.Validate(document); err != nil {
		a.logger.Error("❌ Invalid model response", zap.String("filename", filename), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", ErrModelFailure, filename, err)
	}

	var eval candidateEvaluation
	if err := json.Unmarshal([]byte(document), &eval); err != nil {
		return nil, fmt.Errorf("%w: failed to decode evaluation of %s: %w", ErrModelFailure, filename, err)
	}

	candidate := &models.CandidateAnalysis{
		Filename:       filename,
		Strengths:      joinPhrases(eval.Strengths),
		Weaknesses:     joinPhrases(eval.Weaknesses),
		OverallScore:   eval.OverallScore,
		Recommendation: eval.Recommendation,
	}
	if comments := strings.TrimSpace(eval.Comments); comments != "" {
		candidate.Comments = &comments
	}
	return candidate, nil
}

// summarizeJob is best effort: a failed summary leaves the field empty.
func (a *analyzerService) summarizeJob(ctx context.Context, jobDescription string) string {
	summary, err := a.gemini.GenerateTextWithRetry(ctx, a.prompts.BuildJobSummaryPrompt(jobDescription), GenerateOptions{Temperature: 0.5})
	if err != nil {
		a.logger.Warn("⚠️ Failed to summarize job description", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(summary)
}

func (a *analyzerService) retrieveRubric(ctx context.Context, jobDescription string) string {
	if a.rubrics == nil {
		return FormatRAGContext(nil)
	}

	embedding, err := a.gemini.GenerateEmbedding(ctx, jobDescription)
	if err != nil {
		a.logger.Warn("⚠️ Failed to embed job description", zap.Error(err))
		return FormatRAGContext(nil)
	}

	var all []SearchResult
	for _, docType := range []string{DocTypeRubric, DocTypeRoleProfile} {
		results, err := a.rubrics.SearchSimilar(ctx, embedding, docType, rubricResults)
		if err != nil {
			a.logger.Warn("⚠️ Rubric search failed", zap.String("doc_type", docType), zap.Error(err))
			continue
		}
		all = append(all, results...)
	}
	return FormatRAGContext(all)
}

func (a *analyzerService) cleanup(resumes []*StoredResume) {
	for _, r := range resumes {
		if err := a.storage.Delete(r); err != nil {
			a.logger.Warn("⚠️ Failed to remove uploaded resume", zap.String("path", r.Path), zap.Error(err))
		}
	}
}

// joinPhrases builds the delimited form sent to clients. Commas inside a
// phrase are replaced so that splitting on the delimiter is lossless.
func joinPhrases(phrases []string) string {
	cleaned := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(strings.ReplaceAll(p, ",", ";"))
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return strings.Join(cleaned, phraseSeparator)
}

// topCandidates returns up to n filenames by descending score. Ties keep
// upload order.
func topCandidates(candidates []models.CandidateAnalysis, n int) []string {
	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(x, y int) bool {
		return candidates[idx[x]].OverallScore > candidates[idx[y]].OverallScore
	})

	top := make([]string, 0, n)
	for _, i := range idx[:min(n, len(idx))] {
		top = append(top, candidates[i].Filename)
	}
	return top
}

// extractJSON strips markdown fences and surrounding prose from a model answer.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}
