package hooks

import (
	"strings"
	"testing"
)

// TestNormalizeBashCommand covers the reductions gate patterns rely on:
// pipes resolve to the sink command, env wrappers and variable assignments
// are stripped, nested shells are unwrapped.
func TestNormalizeBashCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{"simple command", "gh issue close 123", "gh issue close 123"},
		{"leading whitespace", "   gh issue close 123  ", "gh issue close 123"},
		{"piped command", "echo 'y' | gh issue close 123", "gh issue close 123"},
		{"multiple pipes", "cat log | grep err | gh issue close 123", "gh issue close 123"},
		{"pipe inside double quotes", `echo "a|b" | wc -l`, "wc -l"},
		{"pipe inside single quotes", "echo 'a|b' | wc -l", "wc -l"},
		{"logical or is not a pipe", "true || gh pr merge 7", "| gh pr merge 7"},
		{"env var prefix", "GH_TOKEN=abc gh issue close 123", "gh issue close 123"},
		{"multiple env vars", "A=1 B=2 gh issue close 123", "gh issue close 123"},
		{"quoted env value", `FOO="bar baz" gh pr merge 7`, "gh pr merge 7"},
		{"single quoted env value", "FOO='bar baz' gh pr merge 7", "gh pr merge 7"},
		{"env command", "env GH_TOKEN=abc gh issue close 123", "gh issue close 123"},
		{"bash -c double quoted", `bash -c "gh issue close 123"`, "gh issue close 123"},
		{"sh -c single quoted", "sh -c 'gh pr merge 7'", "gh pr merge 7"},
		{"bin bash -c", `/bin/bash -c "rm -rf build"`, "rm -rf build"},
		{"bash -c unquoted", "bash -c gh issue close 123", "gh issue close 123"},
		{"pipe into env into command", "echo y | env TOKEN=x gh pr merge 7", "gh pr merge 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeBashCommand(tt.cmd); got != tt.want {
				t.Errorf("normalizeBashCommand(%q) = %q, want %q", tt.cmd, got, tt.want)
			}
		})
	}
}

// TestNormalizeBashCommand_LengthCap verifies the 80-character cap counts
// runes, not bytes.
func TestNormalizeBashCommand_LengthCap(t *testing.T) {
	long := "gh issue close " + strings.Repeat("x", 200)
	got := normalizeBashCommand(long)
	if n := len([]rune(got)); n != 80 {
		t.Errorf("normalized length = %d runes, want 80", n)
	}
	if !strings.HasPrefix(long, got) {
		t.Errorf("normalized %q is not a prefix of the input", got)
	}

	wide := strings.Repeat("文", 100)
	got = normalizeBashCommand(wide)
	if n := len([]rune(got)); n != 80 {
		t.Errorf("normalized wide length = %d runes, want 80", n)
	}
}

// TestFindLastUnquotedPipe verifies quote tracking and the double-pipe rule.
func TestFindLastUnquotedPipe(t *testing.T) {
	tests := []struct {
		name    string
		cmd     string
		want    int
		wantHit bool
	}{
		{"no pipe", "gh issue close", 0, false},
		{"single pipe", "a | b", 2, true},
		{"pipe in double quotes ignored", `echo "a|b"`, 0, false},
		{"pipe in single quotes ignored", "echo 'a|b'", 0, false},
		{"escaped quote does not close", `echo "a\"|b" | c`, 13, true},
		{"double pipe records first", "a || b", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := findLastUnquotedPipe(tt.cmd)
			if hit != tt.wantHit {
				t.Fatalf("findLastUnquotedPipe(%q) hit = %v, want %v", tt.cmd, hit, tt.wantHit)
			}
			if hit && got != tt.want {
				t.Errorf("findLastUnquotedPipe(%q) = %d, want %d", tt.cmd, got, tt.want)
			}
		})
	}
}

// TestSkipValueStr verifies value skipping for quoted, bare, and unclosed
// values.
func TestSkipValueStr(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare value", "abc def", " def"},
		{"bare value only", "abc", ""},
		{"double quoted", `"a b" rest`, " rest"},
		{"double quoted with escape", `"a\"b" rest`, " rest"},
		{"single quoted", "'a b' rest", " rest"},
		{"unclosed double quote", `"never ends`, `"never ends`},
		{"unclosed single quote", "'never ends", "'never ends"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := skipValueStr(tt.in); got != tt.want {
				t.Errorf("skipValueStr(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
