package config

import (
	"os"
	"regexp"
)

// varPattern matches ${NAME} references in command text.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Expand replaces ${NAME} references in a string with values from the
// config variables map, then from the given environment snapshot. Unknown
// references are left untouched so the spawned shell gets a chance at them.
func Expand(s string, vars map[string]string, env map[string]string) string {
	if s == "" {
		return s
	}

	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if v, found := vars[name]; found {
			return v
		}
		if v, found := env[name]; found {
			return v
		}
		return match
	})
}

// ExpandTilde replaces a leading ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return unchanged if we can't get home
		}
		return home + path[1:]
	}

	return path
}
