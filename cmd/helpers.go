package cmd

import (
	"backup-check/pipeline"
	"backup-check/report"
	"backup-check/storage"

	"github.com/go-faster/errors"
)

var errHistoryDisabled = errors.New("run history is disabled, set --history or BACKUPCHECK_HISTORY")

// newRunner wires the Drive connector, the report writer and, when
// configured, the run history. The returned func releases the history.
func newRunner() (*pipeline.Runner, func(), error) {
	var history pipeline.History
	closeHistory := func() {}

	if cfg.HistoryPath != "" {
		db, err := openHistory()
		if err != nil {
			return nil, nil, err
		}
		history = db
		closeHistory = func() { db.Close() }
	}

	runner := pipeline.NewRunner(pipeline.DriveConnector(cfg), report.NewWriter(cfg.OutputPath), history)
	return runner, closeHistory, nil
}

func openHistory() (storage.Database, error) {
	if cfg.HistoryPath == "" {
		return nil, errHistoryDisabled
	}

	db := storage.NewSQLiteDB(cfg.HistoryPath)
	if err := db.Initialize(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize history database")
	}
	return db, nil
}
