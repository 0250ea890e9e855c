package scanner

import (
	"github.com/go-faster/errors"
)

var ErrQuery = errors.New("drive query failed")

type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return "drive query failed (" + e.Query + "): " + e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}
