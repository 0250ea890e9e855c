//go:build windows

package report

import (
	"github.com/go-faster/errors"
	"golang.org/x/sys/windows"
)

// isLocked matches the errors Windows returns while a workbook is open in
// another program.
func isLocked(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) ||
		errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
