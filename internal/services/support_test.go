package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResponseValidator(t *testing.T) {
	v, err := NewResponseValidator()
	require.NoError(t, err)

	tests := []struct {
		name     string
		document string
		fields   []string
	}{
		{
			name:     "valid",
			document: `{"strengths": ["Go"], "weaknesses": [], "overall_score": 7.5, "recommendation": "Hire"}`,
		},
		{
			name:     "missing fields",
			document: `{"strengths": ["Go"]}`,
			fields:   []string{"(root)", "(root)", "(root)"},
		},
		{
			name:     "score out of range",
			document: `{"strengths": [], "weaknesses": [], "overall_score": -1, "recommendation": "Hire"}`,
			fields:   []string{"overall_score"},
		},
		{
			name:     "unknown recommendation",
			document: `{"strengths": [], "weaknesses": [], "overall_score": 5, "recommendation": "Definitely"}`,
			fields:   []string{"recommendation"},
		},
		{
			name:     "phrases must be strings",
			document: `{"strengths": [1], "weaknesses": [], "overall_score": 5, "recommendation": "Maybe"}`,
			fields:   []string{"strengths.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.document)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			var got []string
			for _, fe := range schemaErr.Errors {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestResponseValidatorMalformedJSON(t *testing.T) {
	v, err := NewResponseValidator()
	require.NoError(t, err)

	err = v.Validate(`{"strengths": [`)
	require.Error(t, err)
	var schemaErr *SchemaError
	assert.False(t, errors.As(err, &schemaErr))
}

func TestChunkText(t *testing.T) {
	chunker := NewTextChunker()

	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{
			name: "fits in one chunk",
			text: "one\ntwo",
			size: 100,
			want: []string{"one\ntwo"},
		},
		{
			name: "packs whole lines",
			text: "aaaa\nbbbb\n\ncccc",
			size: 9,
			want: []string{"aaaa\nbbbb", "cccc"},
		},
		{
			name:    "carries overlap",
			text:    "aaaa\nbbbb\ncccc",
			size:    10,
			overlap: 2,
			want:    []string{"aaaa\nbbbb", "bb\ncccc"},
		},
		{
			name: "splits long lines on words",
			text: "alpha beta gamma delta",
			size: 11,
			want: []string{"alpha beta", "gamma delta"},
		},
		{
			name: "blank input",
			text: " \n\n ",
			size: 10,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunker.ChunkText(tt.text, tt.size, tt.overlap))
		})
	}
}

func TestChunkTextBoundsChunkSize(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet\n", 200)

	for _, chunk := range NewTextChunker().ChunkText(text, 120, 30) {
		assert.LessOrEqual(t, len([]rune(chunk)), 120)
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Jane Doe\nGo developer", CleanText("  Jane Doe  \n\n\n   Go developer \n"))
}

func TestWithRetry(t *testing.T) {
	policy := RetryPolicy{Attempts: 3, InitialDelay: time.Millisecond}

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		out, err := withRetry(context.Background(), policy, zap.NewNop(), func() (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("unavailable")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		boom := errors.New("unavailable")
		calls := 0
		_, err := withRetry(context.Background(), policy, zap.NewNop(), func() (string, error) {
			calls++
			return "", boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := withRetry(ctx, RetryPolicy{Attempts: 5, InitialDelay: time.Hour}, zap.NewNop(), func() (string, error) {
			calls++
			cancel()
			return "", errors.New("unavailable")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestFormatRAGContext(t *testing.T) {
	assert.Equal(t, "No additional guidelines.", FormatRAGContext(nil))

	out := FormatRAGContext([]SearchResult{{Source: "rubric.pdf", Score: 0.91, Text: " Weigh Go experience heavily. "}})
	assert.Equal(t, "--- Guideline 1 (rubric.pdf, score 0.91) ---\nWeigh Go experience heavily.", out)
}
