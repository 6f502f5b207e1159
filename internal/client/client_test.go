package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
)

type part struct {
	field    string
	filename string
	content  string
}

func readParts(t *testing.T, r *http.Request) []part {
	t.Helper()
	reader, err := r.MultipartReader()
	require.NoError(t, err)

	var parts []part
	for {
		p, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		data, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, part{field: p.FormName(), filename: p.FileName(), content: string(data)})
	}
	return parts
}

func resumeFile(t *testing.T, name, content string) models.ResumeFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return models.ResumeFile{Name: name, MediaType: "application/pdf", Path: path}
}

func TestAnalyzeSendsOnePartPerFileAndDescription(t *testing.T) {
	var hits atomic.Int32
	var got []part

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze-resumes", r.URL.Path)
		got = readParts(t, r)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"request_id":"r-1","timestamp":"2026-10-18T09:00:00Z",
			"job_summary":"Go backend role","top_candidates":["b.pdf"],
			"candidates":[{"filename":"a.pdf","strengths":"fast, thorough","weaknesses":"","overall_score":6.5,"recommendation":"Maybe"},
			{"filename":"b.pdf","strengths":"go","weaknesses":"none","overall_score":9,"recommendation":"Hire","comments":"great"}]}`))
	}))
	defer srv.Close()

	req := &models.AnalysisRequest{
		Files: []models.ResumeFile{
			resumeFile(t, "a.pdf", "%PDF-A"),
			resumeFile(t, "b.pdf", "%PDF-B"),
			resumeFile(t, "a.pdf", "%PDF-A2"),
		},
		Description: "Senior Go engineer",
	}

	result, err := New(srv.URL+"/analyze-resumes", nil).Analyze(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	var files []part
	var descriptions []string
	for _, p := range got {
		switch p.field {
		case "files":
			files = append(files, p)
		case "description":
			descriptions = append(descriptions, p.content)
		default:
			t.Errorf("unexpected form field %q", p.field)
		}
	}
	require.Len(t, files, 3)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "a.pdf"}, []string{files[0].filename, files[1].filename, files[2].filename})
	assert.Equal(t, "%PDF-A2", files[2].content)
	assert.Equal(t, []string{"Senior Go engineer"}, descriptions)

	assert.True(t, result.Success)
	assert.Equal(t, "r-1", result.RequestID)
	require.Len(t, result.Candidates, 2)
	assert.Nil(t, result.Candidates[0].Comments)
	require.NotNil(t, result.Candidates[1].Comments)
	assert.Equal(t, "great", *result.Candidates[1].Comments)
}

func TestAnalyzeErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail", http.StatusInternalServerError, `{"detail":"bad input"}`, "bad input"},
		{"unparsable body", http.StatusInternalServerError, `<html>oops</html>`, "Server error: 500"},
		{"no detail", http.StatusBadGateway, `{}`, "Server error: 502"},
		{"non-string detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","files"]}]}`, "Server error: 422"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			req := &models.AnalysisRequest{
				Files:       []models.ResumeFile{resumeFile(t, "a.pdf", "%PDF")},
				Description: "Go",
			}
			_, err := New(srv.URL, nil).Analyze(context.Background(), req)

			var serr *ServerError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.status, serr.StatusCode)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestAnalyzeLogicalFailureIsReturnedAsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	req := &models.AnalysisRequest{
		Files:       []models.ResumeFile{resumeFile(t, "a.pdf", "%PDF")},
		Description: "Go",
	}
	result, err := New(srv.URL, nil).Analyze(context.Background(), req)

	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestAnalyzeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	req := &models.AnalysisRequest{
		Files:       []models.ResumeFile{resumeFile(t, "a.pdf", "%PDF")},
		Description: "Go",
	}
	_, err := New(url, nil).Analyze(context.Background(), req)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, err.Error(), "Could not complete request")
}

func TestAnalyzeUnreadableFile(t *testing.T) {
	req := &models.AnalysisRequest{
		Files:       []models.ResumeFile{{Name: "gone.pdf", Path: filepath.Join(t.TempDir(), "gone.pdf")}},
		Description: "Go",
	}
	_, err := New("http://127.0.0.1:1/analyze-resumes", nil).Analyze(context.Background(), req)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, err.Error(), "gone.pdf")
}

func TestAnalyzeDiscardsResponseAfterCancel(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	req := &models.AnalysisRequest{
		Files:       []models.ResumeFile{resumeFile(t, "a.pdf", "%PDF")},
		Description: "Go",
	}
	result, err := New(srv.URL, nil).Analyze(ctx, req)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

func TestAnalyzeCancelledContextNeverSends(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := &models.AnalysisRequest{
		Files:       []models.ResumeFile{resumeFile(t, "a.pdf", "%PDF")},
		Description: "Go",
	}
	_, err := New(srv.URL, nil).Analyze(ctx, req)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, hits.Load())
}
