package jobtree

import (
	stderrors "errors"
	"fmt"

	"github.com/davidmrtn/jobtree/pkg/relocate"
)

// exitError signals a non-zero process exit for a failure that has already
// been reported on stdout.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// ExitCode maps a command error to a process exit code. Errors that carry no
// explicit code are generic failures.
func ExitCode(err error) int {
	if err == nil {
		return relocate.CodeSuccess
	}
	var ee *exitError
	if stderrors.As(err, &ee) {
		return ee.code
	}
	return relocate.CodeError
}

// IsReported reports whether the failure was already printed as part of the
// command output, so main must not print it again.
func IsReported(err error) bool {
	var ee *exitError
	return stderrors.As(err, &ee)
}
