package hooks

import (
	"strings"
	"unicode"
)

// bashKeyLimit caps the normalized command length used for matching.
const bashKeyLimit = 80

// nestedShellPrefixes are wrappers whose inner command is what matters.
var nestedShellPrefixes = []string{"bash -c ", "sh -c ", "/bin/bash -c ", "/bin/sh -c "}

// normalizeBashCommand reduces a shell command to the form gate patterns
// match against:
//
//   - pipes resolve to the rightmost command (the sink), so
//     `echo "y" | gh issue close 123` matches `gh issue close*`
//   - an `env` prefix and leading VAR=value assignments are stripped
//   - nested `bash -c "cmd"` / `sh -c 'cmd'` wrappers are unwrapped
//   - the result is capped at 80 characters
func normalizeBashCommand(cmd string) string {
	cmd = strings.TrimSpace(cmd)

	if i, ok := findLastUnquotedPipe(cmd); ok {
		cmd = strings.TrimSpace(cmd[i+1:])
	}

	if rest, ok := strings.CutPrefix(cmd, "env "); ok {
		cmd = skipEnvCommand(rest)
	}

	if inner, ok := extractNestedShellCommand(cmd); ok {
		cmd = inner
	}

	cmd = stripEnvVars(cmd)

	if runes := []rune(cmd); len(runes) > bashKeyLimit {
		return string(runes[:bashKeyLimit])
	}
	return cmd
}

// findLastUnquotedPipe locates the last pipe outside quotes. Doubled pipes
// (logical or) are not treated as pipes.
func findLastUnquotedPipe(cmd string) (int, bool) {
	var inSingle, inDouble bool
	var prev rune
	lastPipe := -1

	for i, c := range cmd {
		switch {
		case c == '\'' && !inDouble && prev != '\\':
			inSingle = !inSingle
		case c == '"' && !inSingle && prev != '\\':
			inDouble = !inDouble
		case c == '|' && !inSingle && !inDouble:
			if prev != '|' {
				lastPipe = i
			}
		}
		prev = c
	}

	if lastPipe < 0 {
		return 0, false
	}
	return lastPipe, true
}

// skipEnvCommand drops the VAR=value arguments that follow an env prefix.
func skipEnvCommand(cmd string) string {
	rest := strings.TrimSpace(cmd)
	for {
		eq := strings.Index(rest, "=")
		if eq < 0 {
			break
		}
		if !isEnvVarName(rest[:eq]) {
			break
		}
		rest = strings.TrimSpace(skipValueStr(rest[eq+1:]))
	}
	return rest
}

// extractNestedShellCommand unwraps `bash -c "cmd"` style invocations,
// stripping one layer of surrounding quotes.
func extractNestedShellCommand(cmd string) (string, bool) {
	for _, shell := range nestedShellPrefixes {
		rest, ok := strings.CutPrefix(cmd, shell)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, `"`) || strings.HasPrefix(rest, "'") {
			if len(rest) < 2 {
				return "", false
			}
			return rest[1 : len(rest)-1], true
		}
		return rest, true
	}
	return "", false
}

// stripEnvVars removes leading VAR=value assignments from a command.
func stripEnvVars(cmd string) string {
	rest := strings.TrimSpace(cmd)

	for {
		wordEnd := strings.IndexFunc(rest, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		})
		if wordEnd < 0 {
			wordEnd = len(rest)
		}
		if wordEnd == 0 {
			break
		}

		after := rest[wordEnd:]
		value, ok := strings.CutPrefix(after, "=")
		if !ok {
			// First word is the command itself.
			break
		}
		rest = strings.TrimSpace(skipValueStr(value))
	}

	return rest
}

// isEnvVarName reports whether s is a plausible environment variable name.
func isEnvVarName(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// skipValueStr skips one value, quoted or bare, and returns what follows.
// An unclosed quote returns the input unchanged.
func skipValueStr(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	if rest, ok := strings.CutPrefix(s, `"`); ok {
		var prev rune
		for i, c := range rest {
			if c == '"' && prev != '\\' {
				return rest[i+1:]
			}
			prev = c
		}
		return s
	}

	if rest, ok := strings.CutPrefix(s, "'"); ok {
		// Single quotes have no escapes.
		if end := strings.Index(rest, "'"); end >= 0 {
			return rest[end+1:]
		}
		return s
	}

	if space := strings.IndexFunc(s, unicode.IsSpace); space >= 0 {
		return s[space:]
	}
	return ""
}
