package relocate

import (
	"fmt"
	"strings"
)

// Status is the overall outcome of a move command.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Process exit codes of the move command.
const (
	CodeSuccess    = 0
	CodeError      = 100
	CodeValidation = 101
)

// Output is one message about one subject: the destination path or an item's
// full name.
type Output struct {
	Subject string
	Message string
}

func (o Output) String() string {
	return fmt.Sprintf("%s: %s", o.Subject, o.Message)
}

// Result is the structured outcome of one command invocation. It is built
// once, rendered, and discarded.
type Result struct {
	Status  Status
	Message string
	Outputs []Output
	Code    int
}

// String renders the result: a summary line followed by one indented line
// per subject.
func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s]: %s", r.Status, r.Message))
	for _, out := range r.Outputs {
		sb.WriteString("\n\t> ")
		sb.WriteString(out.String())
	}
	return sb.String()
}

func success(message string, outputs []Output) *Result {
	return &Result{Status: StatusSuccess, Message: message, Outputs: outputs, Code: CodeSuccess}
}

func failure(message string, outputs []Output, code int) *Result {
	return &Result{Status: StatusFailure, Message: message, Outputs: outputs, Code: code}
}
