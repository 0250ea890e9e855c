package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"
	"time"

	"backup-check/models"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

type SQLiteDB struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

var _ Database = (*SQLiteDB)(nil)

func NewSQLiteDB(dbPath string) *SQLiteDB {
	return &SQLiteDB{
		dbPath: dbPath,
		now:    time.Now,
	}
}

func (s *SQLiteDB) Initialize() error {
	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return errors.Wrap(err, "failed to set WAL mode")
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return errors.Wrap(err, "failed to execute schema")
	}

	s.db = db
	return nil
}

func (s *SQLiteDB) SaveRun(ctx context.Context, outcome models.Outcome) (string, error) {
	id := uuid.NewString()
	executedAt := s.now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	reportPath := ""
	if outcome.ReportWritten {
		reportPath = outcome.ReportPath
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO runs (id, target_date, executed_at, report_path) VALUES (?, ?, ?, ?)",
		id, outcome.Date.String(), executedAt, reportPath); err != nil {
		return "", errors.Wrap(err, "failed to save run")
	}

	for _, m := range outcome.Matches {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO matches (run_id, client, filename, modified) VALUES (?, ?, ?, ?)",
			id, m.Client, m.FileName, m.Modified); err != nil {
			return "", errors.Wrap(err, "failed to save match")
		}
	}

	for _, client := range outcome.NotFound {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO not_found (run_id, client) VALUES (?, ?)", id, client); err != nil {
			return "", errors.Wrap(err, "failed to save not-found client")
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "failed to commit run")
	}

	slog.Debug("run saved to history", "id", id, "matches", len(outcome.Matches), "not_found", len(outcome.NotFound))
	return id, nil
}

func (s *SQLiteDB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.target_date, r.executed_at, r.report_path,
		       (SELECT COUNT(*) FROM matches m WHERE m.run_id = r.id)
		FROM runs r
		ORDER BY r.executed_at DESC, r.rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var date, executedAt string
		if err := rows.Scan(&run.ID, &date, &executedAt, &run.ReportPath, &run.Matches); err != nil {
			return nil, errors.Wrap(err, "failed to scan run")
		}
		run.Date = models.TargetDate(date)
		run.ExecutedAt, _ = time.Parse(time.RFC3339Nano, executedAt)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}

	for i := range runs {
		notFound, err := s.notFound(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].NotFound = notFound
	}

	return runs, nil
}

func (s *SQLiteDB) notFound(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT client FROM not_found WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list not-found clients")
	}
	defer rows.Close()

	clients := []string{}
	for rows.Next() {
		var client string
		if err := rows.Scan(&client); err != nil {
			return nil, errors.Wrap(err, "failed to scan not-found client")
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

// SearchMatches finds recorded matches whose client or file name contains query.
func (s *SQLiteDB) SearchMatches(ctx context.Context, query string, limit int) ([]MatchRecord, error) {
	pattern := "%" + query + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.run_id, r.executed_at, m.client, m.filename, m.modified
		FROM matches m JOIN runs r ON r.id = m.run_id
		WHERE m.client LIKE ? OR m.filename LIKE ?
		ORDER BY r.executed_at DESC, m.id
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search matches")
	}
	defer rows.Close()

	records := []MatchRecord{}
	for rows.Next() {
		var rec MatchRecord
		var executedAt string
		if err := rows.Scan(&rec.RunID, &executedAt, &rec.Client, &rec.FileName, &rec.Modified); err != nil {
			return nil, errors.Wrap(err, "failed to scan match")
		}
		rec.ExecutedAt, _ = time.Parse(time.RFC3339Nano, executedAt)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (s *SQLiteDB) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, table := range []string{"matches", "not_found", "runs"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "failed to clear %s", table)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to clear history")
	}
	return nil
}

func (s *SQLiteDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
