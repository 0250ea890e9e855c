package ui

import (
	"context"
	"slices"
	"testing"
	"time"

	"backup-check/models"
	"backup-check/pipeline"
	"backup-check/report"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRegistry struct {
	names []string
}

func (r *memoryRegistry) Load() ([]string, error) {
	return slices.Clone(r.names), nil
}

func (r *memoryRegistry) Save(name string) (bool, error) {
	if name == "" || slices.Contains(r.names, name) {
		return false, nil
	}
	r.names = append(r.names, name)
	return true, nil
}

type recordedRun struct {
	clients []string
	date    models.TargetDate
}

var today = time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, registry *memoryRegistry, run RunFunc) *App {
	t.Helper()

	app, err := New(context.Background(), registry, run, today)
	require.NoError(t, err)
	return app
}

func typeText(app *App, text string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(app *App, key tea.KeyType) tea.Cmd {
	_, cmd := app.Update(tea.KeyMsg{Type: key})
	return cmd
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}

	return []tea.Msg{msg}
}

// execute moves focus to the execute button, presses it and delivers the
// finished run back to the app.
func execute(t *testing.T, app *App) {
	t.Helper()

	for app.focus != focusExecute {
		press(app, tea.KeyTab)
	}

	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, app.running)

	delivered := false
	for _, msg := range collect(cmd) {
		if finished, ok := msg.(runFinishedMsg); ok {
			app.Update(finished)
			delivered = true
		}
	}
	require.True(t, delivered)
	assert.False(t, app.running)
}

func TestApp_AddClient(t *testing.T) {
	registry := &memoryRegistry{}
	app := newTestApp(t, registry, nil)

	typeText(app, "Acme")
	press(app, tea.KeyEnter)

	require.NotNil(t, app.notice)
	assert.Equal(t, pipeline.Success, app.notice.Kind)
	assert.Equal(t, []string{"Acme"}, app.clients)
	assert.Equal(t, []string{"Acme"}, registry.names)
	assert.Empty(t, app.input.Value())

	press(app, tea.KeyEnter)
	assert.Nil(t, app.notice, "any key dismisses the notice")
}

func TestApp_AddClientRejected(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{name: "empty", input: "   ", message: "Client name cannot be empty."},
		{name: "duplicate", input: "Acme", message: "Client already exists or invalid name."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &memoryRegistry{names: []string{"Acme"}}
			app := newTestApp(t, registry, nil)

			typeText(app, tt.input)
			press(app, tea.KeyEnter)

			require.NotNil(t, app.notice)
			assert.Equal(t, pipeline.Failure, app.notice.Kind)
			assert.Equal(t, tt.message, app.notice.Message)
			assert.Equal(t, []string{"Acme"}, registry.names)
			assert.Equal(t, []string{"Acme"}, app.clients)
		})
	}
}

func TestApp_DateDefaultsToToday(t *testing.T) {
	app := newTestApp(t, &memoryRegistry{}, nil)

	assert.Equal(t, "01/05/2024", app.date.Value())

	for app.focus != focusDate {
		press(app, tea.KeyTab)
	}

	typeText(app, "+")
	assert.Equal(t, "02/05/2024", app.date.Value())

	typeText(app, "-")
	typeText(app, "-")
	assert.Equal(t, "30/04/2024", app.date.Value())
}

func TestApp_ExecuteShowsNotFoundClients(t *testing.T) {
	registry := &memoryRegistry{names: []string{"Acme", "Globex"}}
	var runs []recordedRun

	run := func(_ context.Context, clients []string, date models.TargetDate) (models.Outcome, error) {
		runs = append(runs, recordedRun{clients: clients, date: date})
		return models.Outcome{
			Date:          date,
			Matches:       []models.Match{{Client: "Acme", FileName: "a.zip", Modified: date.String()}},
			NotFound:      []string{"Globex"},
			ReportPath:    report.DefaultPath,
			ReportWritten: true,
		}, nil
	}

	app := newTestApp(t, registry, run)
	execute(t, app)

	require.Len(t, runs, 1)
	assert.Equal(t, []string{"Acme", "Globex"}, runs[0].clients)
	assert.Equal(t, models.TargetDate("01/05/2024"), runs[0].date)

	assert.Equal(t, []table.Row{{"Globex"}}, app.results.Rows())
	require.NotNil(t, app.notice)
	assert.Equal(t, pipeline.Success, app.notice.Kind)
}

func TestApp_ExecuteClearsPreviousResults(t *testing.T) {
	registry := &memoryRegistry{names: []string{"Acme", "Globex"}}
	outcomes := []models.Outcome{
		{Date: "01/05/2024", NotFound: []string{"Acme", "Globex"}},
		{Date: "01/05/2024", NotFound: []string{"Globex"}, Matches: []models.Match{{Client: "Acme"}}, ReportWritten: true},
	}

	call := 0
	run := func(context.Context, []string, models.TargetDate) (models.Outcome, error) {
		outcome := outcomes[call]
		call++
		return outcome, nil
	}

	app := newTestApp(t, registry, run)

	execute(t, app)
	assert.Equal(t, []table.Row{{"Acme"}, {"Globex"}}, app.results.Rows())
	assert.Equal(t, pipeline.Info, app.notice.Kind)
	press(app, tea.KeyEnter)

	execute(t, app)
	assert.Equal(t, []table.Row{{"Globex"}}, app.results.Rows())
}

func TestApp_ExecuteFailure(t *testing.T) {
	registry := &memoryRegistry{names: []string{"Acme"}}
	run := func(_ context.Context, _ []string, date models.TargetDate) (models.Outcome, error) {
		return models.Outcome{Date: date}, errors.New("network unreachable")
	}

	app := newTestApp(t, registry, run)
	app.results.SetRows([]table.Row{{"stale"}})

	execute(t, app)

	assert.Empty(t, app.results.Rows())
	require.NotNil(t, app.notice)
	assert.Equal(t, pipeline.Failure, app.notice.Kind)
	assert.Contains(t, app.notice.Message, "network unreachable")
}

func TestApp_InvalidDateBlocksExecute(t *testing.T) {
	called := false
	run := func(context.Context, []string, models.TargetDate) (models.Outcome, error) {
		called = true
		return models.Outcome{}, nil
	}

	app := newTestApp(t, &memoryRegistry{names: []string{"Acme"}}, run)
	app.date.SetValue("31/02/2024")

	for app.focus != focusExecute {
		press(app, tea.KeyTab)
	}
	cmd := press(app, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.False(t, called)
	require.NotNil(t, app.notice)
	assert.Equal(t, pipeline.Failure, app.notice.Kind)
}

func TestApp_IgnoresInputWhileRunning(t *testing.T) {
	registry := &memoryRegistry{names: []string{"Acme"}}
	app := newTestApp(t, registry, func(context.Context, []string, models.TargetDate) (models.Outcome, error) {
		return models.Outcome{}, nil
	})

	for app.focus != focusExecute {
		press(app, tea.KeyTab)
	}
	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)
	require.True(t, app.running)

	assert.Nil(t, press(app, tea.KeyEnter))
	press(app, tea.KeyTab)
	assert.Equal(t, focusExecute, app.focus)
}

func TestApp_ClientListScrolls(t *testing.T) {
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	app := newTestApp(t, &memoryRegistry{names: names}, nil)

	press(app, tea.KeyTab)
	require.Equal(t, focusClientList, app.focus)

	for range 7 {
		press(app, tea.KeyDown)
	}
	assert.Equal(t, 7, app.listCursor)
	assert.Equal(t, 2, app.listOffset)

	press(app, tea.KeyDown)
	assert.Equal(t, 7, app.listCursor)

	assert.Contains(t, app.View(), "H")
}
