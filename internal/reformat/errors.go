package reformat

import (
	"fmt"

	"github.com/vk/neccard/internal/card"
)

// AlreadyExistsError reports a destination that is already present. It
// unwraps to the underlying fs.ErrExist path error.
type AlreadyExistsError struct {
	Path string
	Err  error
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("destination %s already exists", e.Path)
}

func (e *AlreadyExistsError) Unwrap() error { return e.Err }

// ExpressionError reports a field, or an SY assignment, that could not be
// evaluated.
type ExpressionError struct {
	Line  int
	Card  card.Code
	Field int
	Text  string
	Err   error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("line %d: %s field %d %q: %v", e.Line, e.Card, e.Field, e.Text, e.Err)
}

func (e *ExpressionError) Unwrap() error { return e.Err }
