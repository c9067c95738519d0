package shell

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand matches every *UnknownCommandError.
var ErrUnknownCommand = errors.New("unknown command")

// UnknownCommandError reports a line outside the grammar, or a branch
// reference that did not match. Ref is set in the latter case and Err holds
// the underlying cause.
type UnknownCommandError struct {
	Input string
	Ref   string
	Err   error
}

func (e *UnknownCommandError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("error: pathspec '%s' did not match any branch known to git. See 'help'.", e.Ref)
	}
	return "Is not implemented or is not a git command. See 'help'."
}

func (e *UnknownCommandError) Unwrap() error { return e.Err }

func (e *UnknownCommandError) Is(target error) bool { return target == ErrUnknownCommand }

func unknown(line string) *UnknownCommandError {
	return &UnknownCommandError{Input: strings.TrimSpace(line)}
}
