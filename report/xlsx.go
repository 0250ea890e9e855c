package report

import (
	"io/fs"
	"log/slog"

	"backup-check/models"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

const DefaultPath = "relatorio_clientes.zip.xlsx"

var (
	// ErrNoRows is returned instead of writing an empty report.
	ErrNoRows     = errors.New("no rows to report")
	ErrPermission = errors.New("report file is open elsewhere or not writable")
	ErrWrite      = errors.New("failed to write report")
)

var header = []any{"Cliente", "Arquivo", "Data de Modificação"}

type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	if path == "" {
		path = DefaultPath
	}
	return &Writer{path: path}
}

func (w *Writer) Path() string {
	return w.path
}

// Write replaces the report file with one row per match.
func (w *Writer) Write(rows []models.Match) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", errors.Wrapf(ErrWrite, "header: %v", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", errors.Wrapf(ErrWrite, "row %d: %v", i+2, err)
		}

		values := []any{row.Client, row.FileName, row.Modified}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return "", errors.Wrapf(ErrWrite, "row %d: %v", i+2, err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return "", saveError(w.path, err)
	}

	slog.Info("report written", "path", w.path, "rows", len(rows))
	return w.path, nil
}

// saveError classifies a failed save. A file held open by another program
// counts as a permission failure.
func saveError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) || isLocked(err) {
		return errors.Wrapf(ErrPermission, "%s: %v", path, err)
	}
	return errors.Wrapf(ErrWrite, "%s: %v", path, err)
}
