package clients

import (
	"bufio"
	"os"
	"slices"
	"strings"

	"github.com/go-faster/errors"
)

const DefaultPath = "clientes.txt"

// Registry is the newline-delimited list of known client names.
type Registry struct {
	path string
}

func NewRegistry(path string) *Registry {
	if path == "" {
		path = DefaultPath
	}
	return &Registry{path: path}
}

func (r *Registry) Path() string {
	return r.path
}

// Load returns every client name in file order. A missing file is an empty registry.
func (r *Registry) Load() ([]string, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to open client registry")
	}
	defer f.Close()

	names := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read client registry")
	}

	return names, nil
}

// Save appends name unless it is empty, spans several lines or is already
// registered, and reports whether it was added.
func (r *Registry) Save(name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "\r\n") {
		return false, nil
	}

	names, err := r.Load()
	if err != nil {
		return false, err
	}
	if slices.Contains(names, name) {
		return false, nil
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return false, errors.Wrap(err, "failed to open client registry for append")
	}
	defer f.Close()

	line := name + "\n"
	terminated, err := endsWithNewline(f)
	if err != nil {
		return false, err
	}
	if !terminated {
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		return false, errors.Wrap(err, "failed to append client")
	}

	return true, nil
}

// endsWithNewline reports whether f is empty or its last byte is a newline,
// so a hand-edited file without a trailing newline is not glued to the next name.
func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, errors.Wrap(err, "failed to stat client registry")
	}
	if info.Size() == 0 {
		return true, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, errors.Wrap(err, "failed to read client registry")
	}
	return last[0] == '\n', nil
}
