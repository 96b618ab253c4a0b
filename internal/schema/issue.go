package schema

import (
	"fmt"
	"strings"
)

// IssueCode classifies a validation failure.
type IssueCode string

const (
	// IssueMissing means a required field was not supplied at all.
	IssueMissing IssueCode = "missing"
	// IssueType means a value was supplied but has the wrong kind.
	IssueType IssueCode = "type"
	// IssueInvalid covers all other constraint failures (enum membership,
	// pattern mismatches, bounds, and so on).
	IssueInvalid IssueCode = "invalid"
)

// Issue is a single validation failure with the path of the offending field.
type Issue struct {
	Path    []string
	Message string
	Code    IssueCode
}

// String renders the issue as "path.to.field: message (code)".
func (i Issue) String() string {
	if len(i.Path) == 0 {
		return fmt.Sprintf("%s (%s)", i.Message, i.Code)
	}
	return fmt.Sprintf("%s: %s (%s)", strings.Join(i.Path, "."), i.Message, i.Code)
}

// ParseError aggregates the validation issues from one decode pass.
type ParseError struct {
	Issues []Issue
}

// Error implements the error interface, one issue per line.
func (e *ParseError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		lines[i] = issue.String()
	}
	return strings.Join(lines, "\n")
}

// Prefix returns a copy of the error with seg prepended to every issue path.
// The decoder uses this to distinguish argument errors from option errors.
func (e *ParseError) Prefix(seg string) *ParseError {
	out := &ParseError{Issues: make([]Issue, len(e.Issues))}
	for i, issue := range e.Issues {
		path := make([]string, 0, len(issue.Path)+1)
		path = append(path, seg)
		path = append(path, issue.Path...)
		out.Issues[i] = Issue{Path: path, Message: issue.Message, Code: issue.Code}
	}
	return out
}

// HasCode reports whether any issue carries the given code.
func (e *ParseError) HasCode(code IssueCode) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}
