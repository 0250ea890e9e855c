package scanner

import (
	"strings"
	"time"

	"backup-check/models"
)

// Matcher decides which remote files are backup archives for a given day.
type Matcher struct {
	location *time.Location
}

// NewMatcher compares modification days in loc, or UTC when loc is nil.
func NewMatcher(loc *time.Location) *Matcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Matcher{location: loc}
}

func (m *Matcher) IsArchive(file models.RemoteFile) bool {
	return file.MimeType == ZipMimeType && strings.HasSuffix(file.Name, ".zip")
}

// ModifiedDay formats the file's modification time as dd/mm/yyyy.
func (m *Matcher) ModifiedDay(file models.RemoteFile) (string, bool) {
	if file.ModifiedTime == "" {
		return "", false
	}

	t, err := time.Parse(time.RFC3339Nano, file.ModifiedTime)
	if err != nil {
		return "", false
	}

	return t.In(m.location).Format(models.DateLayout), true
}

// Match returns the result row for file when it is an archive modified on date.
func (m *Matcher) Match(file models.RemoteFile, client string, date models.TargetDate) (models.Match, bool) {
	if file.Name == "" || !m.IsArchive(file) {
		return models.Match{}, false
	}

	day, ok := m.ModifiedDay(file)
	if !ok || day != date.String() {
		return models.Match{}, false
	}

	return models.Match{
		Client:   client,
		FileName: file.Name,
		Modified: day,
	}, true
}
