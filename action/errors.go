package action

import (
	"fmt"
	"strings"
)

// RecoverableActionError is a lookup that failed remotely. It is recorded in
// the action result and the remaining actions still run.
type RecoverableActionError struct {
	Action   string
	IssueKey string
	Messages []string
	Err      error
}

func (e RecoverableActionError) Error() string {
	return fmt.Sprintf("action %s on issue %q failed: %s", e.Action, e.IssueKey, strings.Join(e.Summary(), "; "))
}

func (e RecoverableActionError) Unwrap() error {
	return e.Err
}

// Summary is what gets recorded in the action result.
func (e RecoverableActionError) Summary() []string {
	if len(e.Messages) > 0 {
		return e.Messages
	}
	if e.Err != nil {
		return []string{e.Err.Error()}
	}
	return []string{"unknown error"}
}

// FatalActionError stops the node: no further actions, no merge, no
// propagation.
type FatalActionError struct {
	Action   string
	IssueKey string
	Err      error
}

func (e FatalActionError) Error() string {
	if e.IssueKey == "" {
		return fmt.Sprintf("action %s failed: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("action %s on issue %q failed: %v", e.Action, e.IssueKey, e.Err)
}

func (e FatalActionError) Unwrap() error {
	return e.Err
}
