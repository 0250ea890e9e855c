//go:build !windows

package report

// isLocked is false outside Windows: an open file does not block writes and
// access problems already surface as fs.ErrPermission.
func isLocked(error) bool {
	return false
}
