package docgen

import (
	"fmt"

	"github.com/maxbolgarin/errm"
)

// ErrLengthMismatch is returned when commits and analyses are not index aligned
var ErrLengthMismatch = errm.New("commits and analyses must have the same length")

// PersistenceError is returned when a document cannot be written
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
