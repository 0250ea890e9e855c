package models

import (
	"time"

	"github.com/go-faster/errors"
)

// DateLayout is the day/month/year layout used to compare modification dates.
const DateLayout = "02/01/2006"

// TargetDate is a calendar day formatted with DateLayout.
type TargetDate string

func NewTargetDate(t time.Time) TargetDate {
	return TargetDate(t.Format(DateLayout))
}

func ParseTargetDate(s string) (TargetDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", errors.Wrapf(err, "invalid date %q, expected dd/mm/yyyy", s)
	}
	return NewTargetDate(t), nil
}

func (d TargetDate) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// AddDays returns the date shifted by n days.
func (d TargetDate) AddDays(n int) TargetDate {
	return NewTargetDate(d.Time().AddDate(0, 0, n))
}

func (d TargetDate) String() string {
	return string(d)
}

type RemoteFile struct {
	ID           string
	Name         string
	MimeType     string
	ModifiedTime string
}

type Match struct {
	Client   string
	FileName string
	Modified string
}

type Outcome struct {
	Date          TargetDate
	Matches       []Match
	NotFound      []string
	ReportPath    string
	ReportWritten bool
}
