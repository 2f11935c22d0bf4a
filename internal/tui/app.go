// Package tui is the interactive LegalSim simulator: pick or upload a contract,
// watch the estimated analysis progress, then explore the results dashboard.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"legalsim-backend/internal/client"
	"legalsim-backend/internal/extract"
	"legalsim-backend/internal/simulator"
	"legalsim-backend/internal/upload"
)

const notificationBuffer = 8

// ErrDiscarded is recorded on the wizard when the user leaves a pending analysis.
var ErrDiscarded = errors.New("analysis discarded")

// FileLoader reads a local document for upload.
type FileLoader func(ctx context.Context, path string) (extract.File, error)

// App is the simulator model. It implements tea.Model.
type App struct {
	ctx      context.Context
	styles   *Styles
	wizard   *simulator.Wizard
	uploader *upload.Uploader
	loadFile FileLoader
	notes    chan upload.Notification

	samples  []simulator.Sample
	cursor   int
	entering bool
	path     textinput.Model
	bar      progress.Model

	task      *upload.Task
	percent   float64
	dashboard *simulator.Dashboard
	tab       int
	answers   []int
	toast     *upload.Notification
	err       error

	width  int
	height int
}

var _ tea.Model = (*App)(nil)

// Option configures an App.
type Option func(*App)

// WithContext sets the context handed to API calls.
func WithContext(ctx context.Context) Option {
	return func(a *App) { a.ctx = ctx }
}

// WithStyles overrides the default styles.
func WithStyles(s *Styles) Option {
	return func(a *App) {
		if s != nil {
			a.styles = s
		}
	}
}

// WithTiming overrides the progress tick and the delay before progress resets.
func WithTiming(tick, resetDelay time.Duration) Option {
	return func(a *App) {
		a.uploader.Tick = tick
		a.uploader.ResetDelay = resetDelay
	}
}

// WithFileLoader replaces the local file reader.
func WithFileLoader(fn FileLoader) Option {
	return func(a *App) {
		if fn != nil {
			a.loadFile = fn
		}
	}
}

// NewApp builds the simulator on top of the analysis functions.
func NewApp(api upload.API, opts ...Option) *App {
	path := textinput.New()
	path.Placeholder = "path/to/contract.pdf"
	path.CharLimit = 512
	path.Width = 60

	a := &App{
		ctx:      context.Background(),
		styles:   DefaultStyles(),
		wizard:   simulator.NewWizard(),
		loadFile: extract.ReadFile,
		notes:    make(chan upload.Notification, notificationBuffer),
		samples:  simulator.Samples(),
		path:     path,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		width:    80,
		height:   24,
	}
	a.uploader = &upload.Uploader{API: api, Notifier: upload.NotifierFunc(a.pushNotification)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// pushNotification never blocks the uploader; a full queue drops the toast.
func (a *App) pushNotification(n upload.Notification) {
	select {
	case a.notes <- n:
	default:
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("LegalSim"),
		waitNotification(a.notes),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.bar.Width = clamp(msg.Width-20, 20, 80)
		return a, nil

	case notificationMsg:
		n := upload.Notification(msg)
		// A success toast is only meaningful while a run is on screen.
		if n.Destructive || a.wizard.Step() != simulator.StepUpload {
			a.toast = &n
		}
		return a, waitNotification(a.notes)

	case progressMsg:
		if msg.task != a.task {
			return a, waitProgress(msg.task)
		}
		a.percent = msg.estimate.Percent
		_ = a.wizard.SetProgress(a.percent)
		return a, waitProgress(msg.task)

	case progressClosedMsg:
		if msg.task == a.task {
			a.task = nil
			a.percent = 0
		}
		return a, nil

	case outcomeMsg:
		return a.settle(msg)

	case fileLoadedMsg:
		if err := a.wizard.UploadFile(msg.file.Title); err != nil {
			a.err = err
			return a, nil
		}
		return a, a.start(client.ProcessRequest{
			Content:  msg.file.Content,
			Title:    msg.file.Title,
			FileType: msg.file.FileType,
			FileSize: msg.file.Size,
		})

	case fileErrorMsg:
		a.err = msg.err
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}
	if a.entering {
		return a.handlePathKey(msg)
	}
	if msg.String() == "q" {
		return a, tea.Quit
	}

	switch a.wizard.Step() {
	case simulator.StepUpload:
		return a.handleUploadKey(msg)
	case simulator.StepAnalyze:
		if msg.Type == tea.KeyEsc {
			if a.task != nil {
				a.task.Discard()
			}
			// Anything already buffered for the discarded task is now stale.
			a.task = nil
			a.toast = nil
			a.percent = 0
			_ = a.wizard.Fail(ErrDiscarded)
		}
		return a, nil
	case simulator.StepResults:
		return a.handleResultsKey(msg)
	}
	return a, nil
}

func (a *App) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.samples) {
			a.cursor++
		}
	case "enter":
		a.err = nil
		if a.cursor == len(a.samples) {
			a.entering = true
			a.path.SetValue("")
			return a, a.path.Focus()
		}
		sample, err := a.wizard.SelectSample(a.samples[a.cursor].ID)
		if err != nil {
			a.err = err
			return a, nil
		}
		return a, a.start(client.ProcessRequest{
			Content:  sample.Content,
			Title:    sample.Title,
			FileType: extract.MimeText,
			FileSize: int64(len(sample.Content)),
		})
	}
	return a, nil
}

func (a *App) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.entering = false
		a.path.Blur()
		return a, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(a.path.Value())
		if path == "" {
			return a, nil
		}
		a.entering = false
		a.path.Blur()
		return a, a.readFile(path)
	}
	var cmd tea.Cmd
	a.path, cmd = a.path.Update(msg)
	return a, cmd
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "right", "l":
		a.tab = (a.tab + 1) % len(simulator.Tabs)
	case "shift+tab", "left", "h":
		a.tab = (a.tab + len(simulator.Tabs) - 1) % len(simulator.Tabs)
	case "esc":
		if err := a.wizard.Back(); err == nil {
			a.dashboard = nil
			a.answers = nil
			a.tab = 0
		}
	case "c", "b":
		if simulator.Tabs[a.tab] != simulator.TabQuiz || a.dashboard == nil {
			return a, nil
		}
		if len(a.answers) >= len(a.dashboard.Quiz) {
			return a, nil
		}
		answer := 0
		if msg.String() == "b" {
			answer = 1
		}
		a.answers = append(a.answers, answer)
	case "r":
		if simulator.Tabs[a.tab] == simulator.TabQuiz {
			a.answers = nil
		}
	}
	return a, nil
}

func (a *App) start(req client.ProcessRequest) tea.Cmd {
	a.percent = 0
	a.toast = nil
	a.task = a.uploader.Start(a.ctx, req)
	return tea.Batch(waitProgress(a.task), waitOutcome(a.task))
}

func (a *App) settle(msg outcomeMsg) (tea.Model, tea.Cmd) {
	if msg.task != a.task {
		return a, nil
	}
	if msg.outcome.Err != nil {
		a.err = msg.outcome.Err
		_ = a.wizard.Fail(msg.outcome.Err)
		return a, nil
	}
	title := a.wizard.Snapshot().Title
	if err := a.wizard.Complete(msg.outcome.Result); err != nil {
		a.err = err
		return a, nil
	}
	d := simulator.BuildDashboard(title, msg.outcome.Result.Analysis)
	a.dashboard = &d
	a.tab = 0
	a.answers = nil
	a.err = nil
	return a, nil
}

func (a *App) readFile(path string) tea.Cmd {
	ctx := a.ctx
	load := a.loadFile
	return func() tea.Msg {
		f, err := load(ctx, path)
		if err != nil {
			return fileErrorMsg{err: err}
		}
		return fileLoadedMsg{file: f}
	}
}

// Wizard exposes the flow state.
func (a *App) Wizard() *simulator.Wizard { return a.wizard }

// Dashboard returns the results being shown, or nil.
func (a *App) Dashboard() *simulator.Dashboard { return a.dashboard }

// Err returns the last error shown to the user.
func (a *App) Err() error { return a.err }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
