package pipeline

import (
	"context"
	"log/slog"

	"backup-check/models"

	"github.com/go-faster/errors"
)

// Finder locates a client's folder and the archives inside it.
type Finder interface {
	ResolveFolder(ctx context.Context, client string) (string, bool, error)
	Search(ctx context.Context, folderID, client string, date models.TargetDate) ([]models.Match, error)
}

// Connector authenticates and returns a Finder bound to the remote storage.
type Connector func(ctx context.Context) (Finder, error)

type ReportWriter interface {
	Write(rows []models.Match) (string, error)
}

type History interface {
	SaveRun(ctx context.Context, outcome models.Outcome) (string, error)
}

type Runner struct {
	connect Connector
	report  ReportWriter
	history History
}

// NewRunner builds a Runner. history may be nil.
func NewRunner(connect Connector, report ReportWriter, history History) *Runner {
	return &Runner{
		connect: connect,
		report:  report,
		history: history,
	}
}

// Run searches every client for archives modified on date and writes the
// report. A failure to connect or to query the remote storage aborts the
// whole run. When only the report fails, the returned outcome still holds
// the matches and not-found clients.
func (r *Runner) Run(ctx context.Context, clients []string, date models.TargetDate) (models.Outcome, error) {
	slog.Info("run started", "date", date, "clients", len(clients))

	finder, err := r.connect(ctx)
	if err != nil {
		return models.Outcome{Date: date}, err
	}

	outcome := models.Outcome{Date: date}

	for _, client := range clients {
		if err := ctx.Err(); err != nil {
			return models.Outcome{Date: date}, errors.Wrap(err, "run cancelled")
		}

		folderID, found, err := finder.ResolveFolder(ctx, client)
		if err != nil {
			return models.Outcome{Date: date}, errors.Wrapf(err, "failed to resolve folder for %s", client)
		}
		if !found {
			outcome.NotFound = append(outcome.NotFound, client)
			continue
		}

		matches, err := finder.Search(ctx, folderID, client, date)
		if err != nil {
			return models.Outcome{Date: date}, errors.Wrapf(err, "failed to search folder for %s", client)
		}

		if len(matches) == 0 {
			outcome.NotFound = append(outcome.NotFound, client)
			continue
		}
		outcome.Matches = append(outcome.Matches, matches...)
	}

	var reportErr error
	if len(outcome.Matches) > 0 {
		path, err := r.report.Write(outcome.Matches)
		if err != nil {
			reportErr = err
		} else {
			outcome.ReportPath = path
			outcome.ReportWritten = true
		}
	}

	slog.Info("run finished", "date", date, "matches", len(outcome.Matches), "not_found", len(outcome.NotFound))
	r.record(ctx, outcome)

	return outcome, reportErr
}

func (r *Runner) record(ctx context.Context, outcome models.Outcome) {
	if r.history == nil {
		return
	}

	if _, err := r.history.SaveRun(ctx, outcome); err != nil {
		slog.Warn("failed to save run history", "error", err)
	}
}
