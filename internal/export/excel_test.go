package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"alfredoptarigan/resume-screener/internal/results"
)

func samplePage() results.Page {
	return results.Page{
		RequestID:     "req-1",
		Timestamp:     "2024-05-01 10:00:00",
		JobSummary:    "Senior Go engineer",
		TopCandidates: []string{"bob.pdf"},
		Cards: []results.Card{
			{Position: 1, Filename: "alice.pdf", Score: 4, Tier: results.TierLow, Recommendation: "No Hire",
				Strengths: []string{"eager"}, Weaknesses: []string{"junior", "little Go"}},
			{Position: 2, Filename: "bob.pdf", Score: 9, Tier: results.TierHigh, Recommendation: "Hire",
				Strengths: []string{"Go", "mentoring"}, Weaknesses: []string{""},
				Comments: "Led a platform team", HasComments: true, TopCandidate: true},
		},
	}
}

func TestExportToExcel(t *testing.T) {
	dir := t.TempDir()

	path, err := ExportToExcel(samplePage(), filepath.Join(dir, "report"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, CandidatesSheet}, f.GetSheetList())

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Filename", rows[0][1])
	assert.Equal(t, "alice.pdf", rows[1][1])
	assert.Equal(t, "bob.pdf", rows[2][1])
	assert.Equal(t, "high", rows[2][3])
	assert.Equal(t, "Go\nmentoring", rows[2][5])
	assert.Equal(t, "Led a platform team", rows[2][7])

	requestID, err := f.GetCellValue(SummarySheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "req-1", requestID)
}

func TestExportToExcelKeepsExtension(t *testing.T) {
	dir := t.TempDir()

	path, err := ExportToExcel(samplePage(), filepath.Join(dir, "Report.XLSX"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Report.XLSX"), path)
	assert.FileExists(t, path)
}

func TestExportToExcelMissingPage(t *testing.T) {
	path, err := ExportToExcel(results.Page{Missing: true}, filepath.Join(t.TempDir(), "x.xlsx"))
	assert.Error(t, err)
	assert.Empty(t, path)
}
