package pipeline

import (
	"fmt"

	"backup-check/models"
	"backup-check/report"

	"github.com/go-faster/errors"
)

type Kind int

const (
	Info Kind = iota
	Success
	Failure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Failure:
		return "error"
	default:
		return "info"
	}
}

type Notice struct {
	Kind    Kind
	Title   string
	Message string
}

// Summarize maps the result of a run to the notice shown to the user and the
// clients to list as not found. A failed run lists nobody.
func Summarize(outcome models.Outcome, err error) (Notice, []string) {
	switch {
	case err == nil && outcome.ReportWritten:
		return Notice{Kind: Success, Title: "Success", Message: "Spreadsheet created successfully!"}, outcome.NotFound

	case err == nil:
		return Notice{
			Kind:    Info,
			Title:   "Info",
			Message: fmt.Sprintf("No .zip file found on %s.", outcome.Date),
		}, outcome.NotFound

	case errors.Is(err, report.ErrPermission):
		return Notice{
			Kind:    Failure,
			Title:   "Permission Error",
			Message: "Permission error: the spreadsheet is open or cannot be accessed.",
		}, outcome.NotFound

	case errors.Is(err, report.ErrWrite):
		return Notice{
			Kind:    Failure,
			Title:   "Error",
			Message: fmt.Sprintf("Error saving the spreadsheet: %v", err),
		}, outcome.NotFound

	default:
		return Notice{
			Kind:    Failure,
			Title:   "Error",
			Message: fmt.Sprintf("An error occurred while running: %v", err),
		}, []string{}
	}
}
