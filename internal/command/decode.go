package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cfgen-dev/cfgen/internal/schema"
)

// Invocation is the raw parsed input for one command execution. The CLI
// surface fills Options with the flags the user actually set (bool flags as
// bool, everything else as the raw string) and Args with the remaining
// positional tokens in original order. Group dispatch consumes Args one
// token per level.
type Invocation struct {
	Options map[string]any
	Args    []string
}

// ArgPathPrefix distinguishes argument validation errors from option errors.
const ArgPathPrefix = "args"

// Decode converts the raw invocation into validated option and argument
// maps for a typed command. Array-kind options given as a single text token
// are comma-split and trimmed before validation; everything else is handed
// to the field's validator untouched. All field failures are collected into
// one *schema.ParseError, with argument paths prefixed by ArgPathPrefix.
func Decode(inv *Invocation, tc *TypedCommand) (map[string]any, map[string]any, error) {
	var issues []schema.Issue

	opts := decodeOptions(inv, tc, &issues)
	args := decodeArgs(inv, tc, &issues)

	if len(issues) > 0 {
		return nil, nil, &schema.ParseError{Issues: issues}
	}
	return opts, args, nil
}

func decodeOptions(inv *Invocation, tc *TypedCommand, issues *[]schema.Issue) map[string]any {
	opts := make(map[string]any, len(tc.Options))

	// Deterministic field order so multi-issue errors are stable.
	names := make([]string, 0, len(tc.Options))
	for name := range tc.Options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sch := tc.Options[name]
		desc := schema.Analyze(sch)

		raw, supplied := rawOption(inv, name)
		if !supplied {
			if !desc.Optional {
				*issues = append(*issues, schema.Issue{
					Path:    []string{name},
					Message: fmt.Sprintf("required option %q is missing", name),
					Code:    schema.IssueMissing,
				})
				continue
			}
			// Let the validator apply its default; a nil result means
			// the option simply stays unset.
			v, err := sch.Parse(nil)
			if err == nil && v != nil {
				opts[name] = v
			}
			continue
		}

		if desc.Base == schema.KindArray {
			if s, isText := raw.(string); isText {
				raw = SplitCommaList(s)
			}
		}

		v, err := sch.Parse(raw)
		if err != nil {
			*issues = append(*issues, fieldIssues(err, name)...)
			continue
		}
		opts[name] = v
	}

	return opts
}

func decodeArgs(inv *Invocation, tc *TypedCommand, issues *[]schema.Issue) map[string]any {
	args := make(map[string]any, len(tc.Args))

	for i, ns := range tc.Args {
		desc := schema.Analyze(ns.Schema)
		last := i == len(tc.Args)-1

		var raw any
		supplied := i < len(inv.Args)
		if supplied {
			if desc.Base == schema.KindArray && last {
				// Trailing variadic argument consumes every remaining token.
				raw = append([]string(nil), inv.Args[i:]...)
			} else {
				raw = inv.Args[i]
			}
		}

		if !supplied {
			// Positions beyond the supplied count are omitted so the
			// validator can apply defaults.
			if !desc.Optional {
				*issues = append(*issues, schema.Issue{
					Path:    []string{ArgPathPrefix, ns.Name},
					Message: fmt.Sprintf("required argument %q is missing", ns.Name),
					Code:    schema.IssueMissing,
				})
				continue
			}
			v, err := ns.Schema.Parse(nil)
			if err == nil && v != nil {
				args[ns.Name] = v
			}
			continue
		}

		v, err := ns.Schema.Parse(raw)
		if err != nil {
			*issues = append(*issues, fieldIssues(err, ArgPathPrefix, ns.Name)...)
			continue
		}
		args[ns.Name] = v
	}

	return args
}

// rawOption looks up an option value, reporting whether the user set it.
func rawOption(inv *Invocation, name string) (any, bool) {
	if inv.Options == nil {
		return nil, false
	}
	v, ok := inv.Options[name]
	return v, ok
}

// fieldIssues re-tags a validator error with the field path. Non-structured
// errors become a single invalid issue.
func fieldIssues(err error, path ...string) []schema.Issue {
	if pe, isParse := err.(*schema.ParseError); isParse {
		out := make([]schema.Issue, len(pe.Issues))
		for i, issue := range pe.Issues {
			full := make([]string, 0, len(path)+len(issue.Path))
			full = append(full, path...)
			full = append(full, issue.Path...)
			out[i] = schema.Issue{Path: full, Message: issue.Message, Code: issue.Code}
		}
		return out
	}
	return []schema.Issue{{Path: path, Message: err.Error(), Code: schema.IssueInvalid}}
}

// SplitCommaList splits comma-separated text into trimmed elements, so
// "a,b ,c" decodes to ["a", "b", "c"].
func SplitCommaList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
