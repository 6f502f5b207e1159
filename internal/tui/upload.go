package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/results"
	"alfredoptarigan/resume-screener/internal/submission"
)

type focus int

const (
	focusDescription focus = iota
	focusPaths
	focusFiles
	focusSubmit
	focusCount
)

// submitFinishedMsg carries the outcome of a flight back to the view that
// started it.
type submitFinishedMsg struct {
	viewID int
	result *models.AnalysisResult
	err    error
}

// UploadModel is the upload view. Its controller lives exactly as long as the
// view is mounted.
type UploadModel struct {
	id         int
	controller *submission.Controller
	logger     *zap.Logger
	styles     results.Styles

	description textarea.Model
	paths       textinput.Model
	spinner     spinner.Model

	focus  focus
	cursor int
	notice string

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc
}

func newUploadModel(parent context.Context, id int, cfg Config, styles results.Styles, width, height int) *UploadModel {
	ta := textarea.New()
	ta.Placeholder = "Paste the job description here..."
	ta.ShowLineNumbers = false
	ta.SetHeight(6)

	ti := textinput.New()
	ti.Placeholder = "Resume paths or globs, e.g. ./resumes/*.pdf"
	ti.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ctx, cancel := context.WithCancel(parent)

	m := &UploadModel{
		id:          id,
		controller:  submission.NewController(cfg.Analyzer, cfg.AcceptedMediaType, cfg.Logger),
		logger:      cfg.Logger,
		styles:      styles,
		description: ta,
		paths:       ti,
		spinner:     sp,
		ctx:         ctx,
		cancel:      cancel,
	}
	m.resize(width, height)
	m.setFocus(focusDescription)
	return m
}

func (m *UploadModel) Init() tea.Cmd {
	return textarea.Blink
}

// Controller exposes the view's submission state.
func (m *UploadModel) Controller() *submission.Controller {
	return m.controller
}

func (m *UploadModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return nil

	case spinner.TickMsg:
		if m.controller.Status() != submission.StatusSubmitting {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case submitFinishedMsg:
		if msg.err != nil {
			m.logger.Debug("Submission ended with error", zap.Error(msg.err))
			return nil
		}
		return navigate(RouteResults, msg.result)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m *UploadModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return nil
	case "esc":
		return func() tea.Msg { return quitMsg{} }
	}

	switch m.focus {
	case focusPaths:
		if msg.Type == tea.KeyEnter {
			m.addPaths(m.paths.Value())
			return nil
		}
	case focusFiles:
		return m.handleFileKey(msg)
	case focusSubmit:
		if msg.Type == tea.KeyEnter {
			return m.submit()
		}
		return nil
	}

	return m.updateFocused(msg)
}

func (m *UploadModel) handleFileKey(msg tea.KeyMsg) tea.Cmd {
	count := len(m.controller.Pending().Files)
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < count-1 {
			m.cursor++
		}
	case "d", "delete", "backspace", "x":
		m.controller.RemoveFile(m.cursor)
		if m.cursor >= count-1 && m.cursor > 0 {
			m.cursor--
		}
	}
	return nil
}

func (m *UploadModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusDescription:
		m.description, cmd = m.description.Update(msg)
		m.controller.SetDescription(m.description.Value())
	case focusPaths:
		m.paths, cmd = m.paths.Update(msg)
	}
	return cmd
}

// addPaths expands whitespace separated paths and globs and adds the matching
// files as one batch.
func (m *UploadModel) addPaths(input string) {
	m.notice = ""

	var paths []string
	for _, field := range strings.Fields(input) {
		matches, err := filepath.Glob(field)
		if err != nil || len(matches) == 0 {
			paths = append(paths, field)
			continue
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return
	}

	files, err := submission.OpenFiles(paths...)
	if err != nil {
		m.notice = err.Error()
		m.logger.Warn("⚠️ Could not open resume", zap.Error(err))
		return
	}

	if err := m.controller.AddFiles(files...); err != nil {
		m.notice = err.Error()
		return
	}
	m.paths.Reset()
}

func (m *UploadModel) submit() tea.Cmd {
	if !m.controller.CanSubmit() {
		return nil
	}

	flight, err := m.controller.Begin()
	if err != nil {
		return nil
	}
	m.notice = ""

	id, ctx := m.id, m.ctx
	await := func() tea.Msg {
		result, err := flight.Await(ctx)
		return submitFinishedMsg{viewID: id, result: result, err: err}
	}
	return tea.Batch(m.spinner.Tick, await)
}

func (m *UploadModel) unmount() {
	m.controller.Unmount()
	m.cancel()
}

func (m *UploadModel) setFocus(f focus) {
	m.focus = f
	m.description.Blur()
	m.paths.Blur()
	switch f {
	case focusDescription:
		m.description.Focus()
	case focusPaths:
		m.paths.Focus()
	}
}

func (m *UploadModel) resize(width, height int) {
	m.width, m.height = width, height
	w := width - 4
	if w < 20 {
		w = 20
	}
	m.description.SetWidth(w)
	m.paths.Width = w - 2
}

var (
	labelStyle    = lipgloss.NewStyle().Bold(true)
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2196F3")).Bold(true)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("#2196F3")).Foreground(lipgloss.Color("#FFFFFF"))
	disabledStyle = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("#555555")).Foreground(lipgloss.Color("#AAAAAA"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a94a6"))
)

func (m *UploadModel) label(text string, f focus) string {
	if m.focus == f {
		return focusedStyle.Render("▸ " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m *UploadModel) View() string {
	pending := m.controller.Pending()

	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Resume Screener"))
	sb.WriteString("\n\n")

	sb.WriteString(m.label("Job Description", focusDescription))
	sb.WriteString("\n")
	sb.WriteString(m.description.View())
	sb.WriteString("\n\n")

	sb.WriteString(m.label("Add Resumes (PDF)", focusPaths))
	sb.WriteString("\n")
	sb.WriteString(m.paths.View())
	sb.WriteString("\n\n")

	sb.WriteString(m.label(fmt.Sprintf("Selected Files (%d)", len(pending.Files)), focusFiles))
	sb.WriteString("\n")
	if len(pending.Files) == 0 {
		sb.WriteString(helpStyle.Render("    no files selected"))
		sb.WriteString("\n")
	}
	for i, f := range pending.Files {
		marker := "   "
		if m.focus == focusFiles && i == m.cursor {
			marker = " ▸ "
		}
		sb.WriteString(fmt.Sprintf("%s%s %s\n", marker, f.Name, helpStyle.Render(f.Path)))
	}
	sb.WriteString("\n")

	switch {
	case pending.Status == submission.StatusSubmitting:
		sb.WriteString(disabledStyle.Render(m.spinner.View() + " Analyzing..."))
	case m.focus == focusSubmit:
		sb.WriteString(buttonStyle.Underline(true).Render("Analyze Resumes"))
	default:
		sb.WriteString(buttonStyle.Render("Analyze Resumes"))
	}
	sb.WriteString("\n")

	if msg := m.errorMessage(pending); msg != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Alert.Render(msg))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("tab focus • enter add/submit • d remove • ctrl+s analyze • esc quit"))

	return sb.String()
}

func (m *UploadModel) errorMessage(pending submission.PendingUpload) string {
	if pending.Status == submission.StatusFailed && pending.ErrorMessage != "" {
		return pending.ErrorMessage
	}
	return m.notice
}
