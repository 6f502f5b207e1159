package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/export"
	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/results"
)

type exportFinishedMsg struct {
	path string
	err  error
}

// ResultsModel is the results view. It only knows the result it was handed
// on navigation.
type ResultsModel struct {
	result    *models.AnalysisResult
	page      results.Page
	styles    results.Styles
	exportDir string
	logger    *zap.Logger

	viewport viewport.Model
	status   string
	width    int
	height   int
}

func newResultsModel(result *models.AnalysisResult, cfg Config, styles results.Styles, width, height int) *ResultsModel {
	m := &ResultsModel{
		result:    result,
		page:      results.NewProjector(cfg.Thresholds).Present(result),
		styles:    styles,
		exportDir: cfg.ExportDir,
		logger:    cfg.Logger,
		viewport:  viewport.New(width, height),
	}
	m.resize(width, height)
	return m
}

// Result returns the payload handed to this view, nil when opened directly.
func (m *ResultsModel) Result() *models.AnalysisResult {
	return m.result
}

func (m *ResultsModel) Page() results.Page {
	return m.page
}

func (m *ResultsModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return nil

	case exportFinishedMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Exported to " + msg.path
		}
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return func() tea.Msg { return quitMsg{} }
		case "b", "u":
			return navigate(RouteUpload, nil)
		case "enter":
			if m.page.Missing {
				return navigate(RouteUpload, nil)
			}
		case "e":
			if !m.page.Missing {
				return m.export()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *ResultsModel) export() tea.Cmd {
	page := m.page
	name := fmt.Sprintf("resume_analysis_%s.xlsx", time.Now().Format("20060102_150405"))
	path := filepath.Join(m.exportDir, name)
	logger := m.logger

	return func() tea.Msg {
		written, err := export.ExportToExcel(page, path)
		if err != nil {
			logger.Error("❌ Export failed", zap.Error(err))
		} else {
			logger.Info("📄 Exported analysis", zap.String("path", written))
		}
		return exportFinishedMsg{path: written, err: err}
	}
}

func (m *ResultsModel) View() string {
	var footer string
	if m.page.Missing {
		footer = "enter/b upload resumes • q quit"
	} else {
		footer = "↑/↓ scroll • e export • b new analysis • q quit"
	}

	var sb strings.Builder
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(m.styles.Subtle.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render(footer))
	return sb.String()
}

func (m *ResultsModel) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = max(height-3, 5)
	m.viewport.SetContent(results.Render(m.page, m.styles, width, m.renderSummary(width)))
}

func (m *ResultsModel) renderSummary(width int) string {
	if m.page.Missing || m.page.JobSummary == "" {
		return ""
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		m.logger.Debug("Markdown renderer unavailable", zap.Error(err))
		return ""
	}

	out, err := renderer.Render(m.page.JobSummary)
	if err != nil {
		return ""
	}
	return strings.Trim(out, "\n")
}
