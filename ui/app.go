package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backup-check/models"
	"backup-check/pipeline"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const clientListHeight = 6

type focus int

const (
	focusClientInput focus = iota
	focusClientList
	focusDate
	focusExecute
	focusResults
	focusCount
)

type Registry interface {
	Load() ([]string, error)
	Save(name string) (bool, error)
}

// RunFunc executes the search for the given clients and date.
type RunFunc func(ctx context.Context, clients []string, date models.TargetDate) (models.Outcome, error)

type runFinishedMsg struct {
	outcome models.Outcome
	err     error
}

// App is the whole interactive window: the add-client form, the client
// list, the date selector, the execute button and the not-found table.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	registry Registry
	run      RunFunc

	input      textinput.Model
	clients    []string
	listCursor int
	listOffset int
	date       textinput.Model
	results    table.Model
	spinner    spinner.Model

	focus   focus
	running bool
	notice  *pipeline.Notice
}

func New(ctx context.Context, registry Registry, run RunFunc, today time.Time) (*App, error) {
	clients, err := registry.Load()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	input := textinput.New()
	input.Placeholder = "client name"
	input.CharLimit = 256
	input.Width = 40
	input.Focus()

	date := textinput.New()
	date.Placeholder = "dd/mm/yyyy"
	date.CharLimit = len(models.DateLayout)
	date.Width = len(models.DateLayout) + 1
	date.SetValue(models.NewTargetDate(today).String())

	results := table.New(
		table.WithColumns([]table.Column{{Title: "Client", Width: 40}}),
		table.WithRows([]table.Row{}),
		table.WithHeight(8),
	)

	return &App{
		ctx:      ctx,
		cancel:   cancel,
		registry: registry,
		run:      run,
		input:    input,
		clients:  clients,
		date:     date,
		results:  results,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}, nil
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runFinishedMsg:
		a.finishRun(msg)
		return a, nil

	case spinner.TickMsg:
		if !a.running {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, a.updateFocused(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.cancel()
		return a, tea.Quit
	}

	if a.notice != nil {
		a.notice = nil
		return a, nil
	}

	if a.running {
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.cancel()
		return a, tea.Quit

	case "tab", "shift+tab":
		if msg.String() == "tab" {
			return a, a.setFocus((a.focus + 1) % focusCount)
		}
		return a, a.setFocus((a.focus + focusCount - 1) % focusCount)
	}

	switch a.focus {
	case focusClientInput:
		if msg.Type == tea.KeyEnter {
			a.addClient()
			return a, nil
		}

	case focusClientList:
		switch msg.String() {
		case "up", "k":
			a.moveCursor(-1)
		case "down", "j":
			a.moveCursor(1)
		}
		return a, nil

	case focusDate:
		switch msg.String() {
		case "+", "up":
			a.shiftDate(1)
			return a, nil
		case "-", "down":
			a.shiftDate(-1)
			return a, nil
		case "enter":
			return a, a.setFocus(focusExecute)
		}

	case focusExecute:
		if msg.Type == tea.KeyEnter || msg.String() == " " {
			return a, a.execute()
		}
		return a, nil
	}

	return a, a.updateFocused(msg)
}

func (a *App) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch a.focus {
	case focusClientInput:
		a.input, cmd = a.input.Update(msg)
	case focusDate:
		a.date, cmd = a.date.Update(msg)
	case focusResults:
		a.results, cmd = a.results.Update(msg)
	}

	return cmd
}

func (a *App) setFocus(f focus) tea.Cmd {
	a.focus = f
	a.input.Blur()
	a.date.Blur()
	a.results.Blur()

	switch f {
	case focusClientInput:
		return a.input.Focus()
	case focusDate:
		return a.date.Focus()
	case focusResults:
		a.results.Focus()
	}

	return nil
}

func (a *App) addClient() {
	name := strings.TrimSpace(a.input.Value())
	if name == "" {
		a.showNotice(pipeline.Failure, "Error", "Client name cannot be empty.")
		return
	}

	added, err := a.registry.Save(name)
	switch {
	case err != nil:
		a.showNotice(pipeline.Failure, "Error", fmt.Sprintf("Failed to save client: %v", err))
	case !added:
		a.showNotice(pipeline.Failure, "Error", "Client already exists or invalid name.")
	default:
		a.clients = append(a.clients, name)
		a.input.SetValue("")
		a.showNotice(pipeline.Success, "Success", "Client added successfully!")
	}
}

func (a *App) moveCursor(delta int) {
	if len(a.clients) == 0 {
		return
	}

	a.listCursor = min(max(a.listCursor+delta, 0), len(a.clients)-1)

	if a.listCursor < a.listOffset {
		a.listOffset = a.listCursor
	}
	if a.listCursor >= a.listOffset+clientListHeight {
		a.listOffset = a.listCursor - clientListHeight + 1
	}
}

func (a *App) shiftDate(days int) {
	date, err := models.ParseTargetDate(a.date.Value())
	if err != nil {
		a.showNotice(pipeline.Failure, "Error", err.Error())
		return
	}
	a.date.SetValue(date.AddDays(days).String())
}

func (a *App) execute() tea.Cmd {
	date, err := models.ParseTargetDate(a.date.Value())
	if err != nil {
		a.showNotice(pipeline.Failure, "Error", err.Error())
		return nil
	}

	clients, err := a.registry.Load()
	if err != nil {
		a.showNotice(pipeline.Failure, "Error", fmt.Sprintf("Failed to load clients: %v", err))
		return nil
	}
	a.clients = clients

	a.running = true
	ctx, run := a.ctx, a.run

	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		outcome, err := run(ctx, clients, date)
		return runFinishedMsg{outcome: outcome, err: err}
	})
}

func (a *App) finishRun(msg runFinishedMsg) {
	a.running = false

	notice, notFound := pipeline.Summarize(msg.outcome, msg.err)

	rows := make([]table.Row, 0, len(notFound))
	for _, client := range notFound {
		rows = append(rows, table.Row{client})
	}
	a.results.SetRows(rows)
	a.results.GotoTop()

	a.notice = &notice
}

func (a *App) showNotice(kind pipeline.Kind, title, message string) {
	a.notice = &pipeline.Notice{Kind: kind, Title: title, Message: message}
}

func (a *App) View() string {
	if a.notice != nil {
		return a.noticeView()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Verifica Backup") + "\n\n")

	b.WriteString(a.label("Add client:", focusClientInput) + a.input.View() + "\n\n")

	b.WriteString(a.label("Current clients:", focusClientList) + "\n")
	b.WriteString(a.clientListView() + "\n")

	b.WriteString(a.label("Select date:", focusDate) + a.date.View() + "\n\n")

	if a.running {
		b.WriteString(fmt.Sprintf(" %s Searching backups...\n\n", a.spinner.View()))
	} else if a.focus == focusExecute {
		b.WriteString(" " + focusedButton + "\n\n")
	} else {
		b.WriteString(" " + blurredButton + "\n\n")
	}

	b.WriteString(a.label("Clients not found:", focusResults) + "\n")
	b.WriteString(a.results.View() + "\n\n")

	b.WriteString(helpStyle.Render(" tab/shift+tab: navigate • enter: save/execute • +/-: change day • esc: quit"))

	return b.String()
}

func (a *App) label(text string, f focus) string {
	style := blurredStyle
	if a.focus == f {
		style = focusedStyle
	}
	return " " + labelStyle.Render(style.Render(text))
}

func (a *App) clientListView() string {
	if len(a.clients) == 0 {
		return "   " + blurredStyle.Render("(no clients)") + "\n"
	}

	var b strings.Builder
	end := min(a.listOffset+clientListHeight, len(a.clients))
	for i := a.listOffset; i < end; i++ {
		line := "   " + a.clients[i]
		if a.focus == focusClientList && i == a.listCursor {
			line = selectedClient.Render(" > " + a.clients[i])
		}
		b.WriteString(line + "\n")
	}

	if len(a.clients) > clientListHeight {
		b.WriteString(blurredStyle.Render(fmt.Sprintf("   %d-%d of %d", a.listOffset+1, end, len(a.clients))) + "\n")
	}

	return b.String()
}

func (a *App) noticeView() string {
	color := noticeColors[a.notice.Kind.String()]
	box := noticeBox.BorderForeground(color).Render(
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(a.notice.Title) +
			"\n\n" + a.notice.Message +
			"\n\n" + helpStyle.Render("press any key to continue"),
	)
	return "\n" + box + "\n"
}

// Run starts the interactive program and blocks until it exits.
func Run(app *App) error {
	defer app.cancel()

	_, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
