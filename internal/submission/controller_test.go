package submission

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"alfredoptarigan/resume-screener/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeAnalyzer struct {
	mu       sync.Mutex
	calls    int
	requests []*models.AnalysisRequest
	result   *models.AnalysisResult
	err      error
	release  chan struct{}
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type serverError struct{ detail string }

func (e *serverError) Error() string { return e.detail }

func pdf(name string) models.ResumeFile {
	return models.ResumeFile{Name: name, MediaType: "application/pdf", Path: "/tmp/" + name}
}

func text(name string) models.ResumeFile {
	return models.ResumeFile{Name: name, MediaType: "text/plain", Path: "/tmp/" + name}
}

func names(files []models.ResumeFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func newController(a Analyzer) *Controller {
	return NewController(a, "application/pdf", nil)
}

func TestAddFilesRejectsWholeBatch(t *testing.T) {
	c := newController(&fakeAnalyzer{})
	require.NoError(t, c.AddFiles(pdf("alice.pdf")))

	err := c.AddFiles(pdf("bob.pdf"), text("notes.txt"), pdf("carol.pdf"), text("cover.doc"))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"notes.txt", "cover.doc"}, verr.Files)
	assert.Equal(t, "Invalid file type: notes.txt, cover.doc. Only PDF files are allowed.", verr.Message)

	state := c.Pending()
	assert.Equal(t, []string{"alice.pdf"}, names(state.Files), "no file of a rejected batch is appended")
	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, verr.Message, state.ErrorMessage)
}

func TestRejectionNamesAcceptedType(t *testing.T) {
	c := NewController(&fakeAnalyzer{}, "application/zip", nil)

	err := c.AddFiles(pdf("alice.pdf"))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid file type: alice.pdf. Only ZIP files are allowed.", verr.Message)
}

func TestAddFilesClearsPreviousError(t *testing.T) {
	c := newController(&fakeAnalyzer{})
	require.Error(t, c.AddFiles(text("a.txt")))

	require.NoError(t, c.AddFiles(pdf("a.pdf")))

	state := c.Pending()
	assert.Equal(t, StatusIdle, state.Status)
	assert.Empty(t, state.ErrorMessage)
}

func TestAddFilesKeepsDuplicatesAndOrder(t *testing.T) {
	c := newController(&fakeAnalyzer{})
	require.NoError(t, c.AddFiles(pdf("a.pdf"), pdf("b.pdf")))
	require.NoError(t, c.AddFiles(pdf("a.pdf")))

	assert.Equal(t, []string{"a.pdf", "b.pdf", "a.pdf"}, names(c.Pending().Files))
}

func TestRemoveFile(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"first", 0, []string{"b.pdf", "c.pdf", "d.pdf"}},
		{"middle", 2, []string{"a.pdf", "b.pdf", "d.pdf"}},
		{"last", 3, []string{"a.pdf", "b.pdf", "c.pdf"}},
		{"negative ignored", -1, []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}},
		{"out of range ignored", 4, []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(&fakeAnalyzer{})
			require.NoError(t, c.AddFiles(pdf("a.pdf"), pdf("b.pdf"), pdf("c.pdf"), pdf("d.pdf")))

			c.RemoveFile(tt.index)

			assert.Equal(t, tt.want, names(c.Pending().Files))
		})
	}
}

func TestSetDescriptionIsNotTrimmed(t *testing.T) {
	c := newController(&fakeAnalyzer{})
	c.SetDescription("  Senior Go engineer \n")

	assert.Equal(t, "  Senior Go engineer \n", c.Pending().JobDescription)
}

func TestSubmitWithoutFilesNeverCallsAnalyzer(t *testing.T) {
	a := &fakeAnalyzer{}
	c := newController(a)
	c.SetDescription("Backend engineer")

	_, err := c.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please select at least one resume", verr.Message)
	assert.Equal(t, 0, a.callCount())
	assert.Equal(t, StatusFailed, c.Status())
}

func TestSubmitWithBlankDescriptionNeverCallsAnalyzer(t *testing.T) {
	a := &fakeAnalyzer{}
	c := newController(a)
	require.NoError(t, c.AddFiles(pdf("a.pdf")))
	c.SetDescription(" \t\n ")

	_, err := c.Submit(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Please enter a job description", err.Error())
	assert.Equal(t, 0, a.callCount())
	assert.Equal(t, " \t\n ", c.Pending().JobDescription, "stored description is not mutated")
}

func TestSubmitSuccessHandsOffExactResult(t *testing.T) {
	result := &models.AnalysisResult{
		Success:   true,
		RequestID: "req-1",
		Candidates: []models.CandidateAnalysis{
			{Filename: "b.pdf", OverallScore: 9},
			{Filename: "a.pdf", OverallScore: 4},
		},
	}
	a := &fakeAnalyzer{result: result}
	c := newController(a)
	require.NoError(t, c.AddFiles(pdf("a.pdf"), pdf("b.pdf")))
	c.SetDescription("  Go developer  ")

	got, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Same(t, result, got)
	assert.Equal(t, StatusSucceeded, c.Status())
	require.Equal(t, 1, a.callCount())
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, names(a.requests[0].Files))
	assert.Equal(t, "  Go developer  ", a.requests[0].Description)
}

func TestSubmitLogicalFailure(t *testing.T) {
	c := newController(&fakeAnalyzer{result: &models.AnalysisResult{Success: false}})
	require.NoError(t, c.AddFiles(pdf("a.pdf")))
	c.SetDescription("Go developer")

	got, err := c.Submit(context.Background())

	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	state := c.Pending()
	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, "Analysis failed", state.ErrorMessage)
}

func TestSubmitServerFailureSurfacesMessage(t *testing.T) {
	c := newController(&fakeAnalyzer{err: &serverError{detail: "bad input"}})
	require.NoError(t, c.AddFiles(pdf("a.pdf")))
	c.SetDescription("Go developer")

	_, err := c.Submit(context.Background())

	require.Error(t, err)
	state := c.Pending()
	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, "bad input", state.ErrorMessage)
}

func TestRetryAfterFailure(t *testing.T) {
	a := &fakeAnalyzer{err: errors.New("could not complete request: connection refused")}
	c := newController(a)
	require.NoError(t, c.AddFiles(pdf("a.pdf")))
	c.SetDescription("Go developer")

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, c.Status())

	a.err = nil
	a.result = &models.AnalysisResult{Success: true}
	_, err = c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, c.Status())
	assert.Equal(t, 2, a.callCount())
}

func TestBeginRefusesSecondSubmission(t *testing.T) {
	a := &fakeAnalyzer{result: &models.AnalysisResult{Success: true}, release: make(chan struct{})}
	c := newController(a)
	require.NoError(t, c.AddFiles(pdf("a.pdf")))
	c.SetDescription("Go developer")

	flight, err := c.Begin()
	require.NoError(t, err)
	assert.False(t, c.CanSubmit())

	_, err = c.Begin()
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, StatusSubmitting, c.Status(), "refusal does not disturb the outstanding request")

	done := make(chan error, 1)
	go func() {
		_, err := flight.Await(context.Background())
		done <- err
	}()
	close(a.release)

	require.NoError(t, <-done)
	assert.Equal(t, 1, a.callCount())
	assert.True(t, c.CanSubmit())
}

func TestLateResponseAfterUnmountDoesNotMutate(t *testing.T) {
	a := &fakeAnalyzer{err: errors.New("boom"), release: make(chan struct{})}
	c := newController(a)
	require.NoError(t, c.AddFiles(pdf("a.pdf")))
	c.SetDescription("Go developer")

	flight, err := c.Begin()
	require.NoError(t, err)

	c.Unmount()
	close(a.release)
	_, err = flight.Await(context.Background())

	require.Error(t, err)
	state := c.Pending()
	assert.Equal(t, StatusSubmitting, state.Status)
	assert.Empty(t, state.ErrorMessage)
}

func TestFlightRequestIsSnapshot(t *testing.T) {
	c := newController(&fakeAnalyzer{})
	require.NoError(t, c.AddFiles(pdf("a.pdf")))
	c.SetDescription("Go developer")

	flight, err := c.Begin()
	require.NoError(t, err)

	require.NoError(t, c.AddFiles(pdf("late.pdf")))
	c.RemoveFile(0)

	assert.Equal(t, []string{"a.pdf"}, names(flight.Request().Files))
	assert.Equal(t, StatusSubmitting, c.Status())
}
