package storage

import (
	"context"
	"time"

	"backup-check/models"
)

// Database records past executions so earlier results can be looked up.
type Database interface {
	Initialize() error
	SaveRun(ctx context.Context, outcome models.Outcome) (string, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	SearchMatches(ctx context.Context, query string, limit int) ([]MatchRecord, error)
	ClearAll(ctx context.Context) error
	Close() error
}

type Run struct {
	ID         string
	Date       models.TargetDate
	ExecutedAt time.Time
	ReportPath string
	Matches    int
	NotFound   []string
}

type MatchRecord struct {
	models.Match
	RunID      string
	ExecutedAt time.Time
}
