// Package export writes projected analysis results to spreadsheet files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/resume-screener/internal/results"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Candidates"
)

var tierFill = map[results.Tier]string{
	results.TierHigh:   "C6EFCE",
	results.TierMedium: "FFEB9C",
	results.TierLow:    "FFC7CE",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// ExportToExcel writes page to outputPath and returns the path actually
// written, with the .xlsx extension appended when missing.
func ExportToExcel(page results.Page, outputPath string) (string, error) {
	if page.Missing {
		return "", fmt.Errorf("no analysis data to export")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeSummary(f, page); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := writeCandidates(f, page); err != nil {
		return "", fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}

	return outputPath, nil
}

func writeSummary(f *excelize.File, page results.Page) error {
	sheet := SummarySheet
	f.SetColWidth(sheet, "A", "A", 22)
	f.SetColWidth(sheet, "B", "B", 80)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}

	f.SetCellValue(sheet, "A1", "Resume Analysis Report")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)
	f.MergeCell(sheet, "A1", "B1")

	rows := [][2]any{
		{"Request ID:", page.RequestID},
		{"Analyzed:", page.Timestamp},
		{"Exported:", time.Now().Format("2006-01-02 15:04:05")},
		{"Candidates:", len(page.Cards)},
		{"Top Candidates:", strings.Join(page.TopCandidates, ", ")},
		{"Job Summary:", page.JobSummary},
	}

	for i, r := range rows {
		row := i + 3
		label := fmt.Sprintf("A%d", row)
		f.SetCellValue(sheet, label, r[0])
		f.SetCellStyle(sheet, label, label, labelStyle)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r[1])
	}

	summaryCell := fmt.Sprintf("B%d", len(rows)+2)
	return f.SetCellStyle(sheet, summaryCell, summaryCell, wrapStyle)
}

func writeCandidates(f *excelize.File, page results.Page) error {
	sheet := CandidatesSheet
	widths := map[string]float64{"A": 6, "B": 28, "C": 10, "D": 10, "E": 20, "F": 45, "G": 45, "H": 45, "I": 8}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	scoreStyles := make(map[results.Tier]int, len(tierFill))
	for tier, color := range tierFill {
		style, err := f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
			Border:    thinBorder,
		})
		if err != nil {
			return err
		}
		scoreStyles[tier] = style
	}

	headers := []string{"#", "Filename", "Score", "Tier", "Recommendation", "Strengths", "Weaknesses", "Comments", "Top"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, card := range page.Cards {
		row := i + 2
		top := ""
		if card.TopCandidate {
			top = "★"
		}

		values := []any{
			card.Position,
			card.Filename,
			card.Score,
			string(card.Tier),
			card.Recommendation,
			strings.Join(card.Strengths, "\n"),
			strings.Join(card.Weaknesses, "\n"),
			card.Comments,
			top,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}

		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), wrapStyle)
		f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("D%d", row), scoreStyles[card.Tier])
	}

	if len(page.Cards) > 0 {
		f.AutoFilter(sheet, fmt.Sprintf("A1:I%d", len(page.Cards)+1), []excelize.AutoFilterOptions{})
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
