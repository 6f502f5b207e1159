// Package tui is the interactive front end: an upload view that submits
// resumes for analysis and a results view that presents the outcome.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/results"
	"alfredoptarigan/resume-screener/internal/submission"
)

type Route int

const (
	RouteUpload Route = iota
	RouteResults
)

func (r Route) String() string {
	if r == RouteResults {
		return "/results"
	}
	return "/"
}

// navigateMsg moves the app to another view. Result is the one-shot hand-off
// to the results view and is nil when the view is opened directly.
type navigateMsg struct {
	route  Route
	result *models.AnalysisResult
}

func navigate(route Route, result *models.AnalysisResult) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{route: route, result: result}
	}
}

// Config carries the collaborators shared by the views.
type Config struct {
	Analyzer          submission.Analyzer
	AcceptedMediaType string
	Thresholds        results.Thresholds
	ExportDir         string
	Logger            *zap.Logger
}

// App routes between the upload and results views. Each navigation builds a
// fresh view; nothing survives the switch except the hand-off payload.
type App struct {
	cfg    Config
	styles results.Styles
	route  Route
	viewID int

	upload  *UploadModel
	results *ResultsModel

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc
}

func NewApp(cfg Config, start Route) *App {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.AcceptedMediaType == "" {
		cfg.AcceptedMediaType = "application/pdf"
	}
	if cfg.Thresholds == (results.Thresholds{}) {
		cfg.Thresholds = results.DefaultThresholds()
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		cfg:    cfg,
		styles: results.DefaultStyles(),
		width:  80,
		height: 24,
		ctx:    ctx,
		cancel: cancel,
	}
	a.mount(start, nil)
	return a
}

func (a *App) Init() tea.Cmd {
	if a.route == RouteUpload {
		return a.upload.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, a.quit()
		}

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height

	case quitMsg:
		return a, a.quit()

	case navigateMsg:
		a.cfg.Logger.Debug("Navigating", zap.Stringer("route", msg.route), zap.Bool("with_result", msg.result != nil))
		return a, a.mount(msg.route, msg.result)

	case submitFinishedMsg:
		if a.route != RouteUpload || a.upload.id != msg.viewID {
			a.cfg.Logger.Debug("Dropping response for a view that is gone", zap.Int("view_id", msg.viewID))
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.route {
	case RouteUpload:
		cmd = a.upload.Update(msg)
	case RouteResults:
		cmd = a.results.Update(msg)
	}
	return a, cmd
}

func (a *App) View() string {
	if a.route == RouteResults {
		return a.results.View()
	}
	return a.upload.View()
}

// Route reports the view currently shown.
func (a *App) Route() Route {
	return a.route
}

// mount tears down the current view and builds the view for route.
func (a *App) mount(route Route, result *models.AnalysisResult) tea.Cmd {
	if a.upload != nil {
		a.upload.unmount()
		a.upload = nil
	}
	a.results = nil

	a.viewID++
	a.route = route

	switch route {
	case RouteResults:
		a.results = newResultsModel(result, a.cfg, a.styles, a.width, a.height)
		return nil
	default:
		a.route = RouteUpload
		a.upload = newUploadModel(a.ctx, a.viewID, a.cfg, a.styles, a.width, a.height)
		return a.upload.Init()
	}
}

func (a *App) quit() tea.Cmd {
	if a.upload != nil {
		a.upload.unmount()
	}
	a.cancel()
	return tea.Quit
}

type quitMsg struct{}
