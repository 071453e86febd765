// Package policy decides whether a shell command may run.
//
// The Denylist policy lower-cases the command and looks for each configured
// pattern as a plain substring. Matching is deliberately naive:
//
//   - False positives: any command that merely contains a pattern is denied,
//     e.g. "git add" (contains "dd"), "cat sudoers.txt" (contains "sudo"),
//     "ls 2>&1" (contains ">") or "echo format".
//   - False negatives: equivalent commands that avoid the exact text pass,
//     e.g. "rm -r -f /", "find . -delete" or "truncate -s 0 file".
//
// Command chaining (&&, ;, |) is not denied by the default list. Add the
// operators to policy.deny in the config file to forbid it.
package policy

import (
	"fmt"
	"strings"
)

// DefaultPatterns is the reference denylist, in match order. The first
// matching pattern is the one reported in a denial.
var DefaultPatterns = []string{
	"rm -rf",
	"mkfs",
	"dd",
	"format",
	">",
	"sudo",
	"chmod",
	"chown",
	"mv",
}

var reasons = map[string]string{
	"rm -rf": "recursive forced deletion",
	"mkfs":   "filesystem creation",
	"dd":     "raw disk copy",
	"format": "disk formatting",
	">":      "output redirection can overwrite files",
	"sudo":   "privilege escalation",
	"chmod":  "permission change",
	"chown":  "ownership change",
	"mv":     "file move can overwrite or hide data",
	"&&":     "command chaining",
	";":      "command chaining",
	"|":      "pipelines",
}

// Decision is the outcome of evaluating one command.
type Decision struct {
	Allowed bool
	// Pattern is the denylist entry that matched. Empty when allowed.
	Pattern string
	Reason  string
}

// Allowed is the decision for a command that matched nothing.
func Allowed() Decision {
	return Decision{Allowed: true}
}

// Denied builds a decision naming the matched pattern.
func Denied(pattern string) Decision {
	reason, ok := reasons[pattern]
	if !ok {
		reason = "matches a denied pattern"
	}
	return Decision{Pattern: pattern, Reason: reason}
}

// String returns the denial text, or "allowed".
func (d Decision) String() string {
	if d.Allowed {
		return "allowed"
	}
	return fmt.Sprintf("command denied by policy: matched pattern %q (%s)", d.Pattern, d.Reason)
}

// CommandPolicy evaluates a raw command string.
// Implementations must be pure: the same command always yields the same decision.
type CommandPolicy interface {
	Evaluate(command string) Decision
}

// Denylist denies commands containing any of its patterns.
type Denylist struct {
	patterns []string
}

// NewDenylist builds a Denylist. Patterns are lower-cased and blank entries
// dropped; declaration order is kept.
func NewDenylist(patterns []string) *Denylist {
	d := &Denylist{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.ToLower(p)
		if strings.TrimSpace(p) == "" {
			continue
		}
		d.patterns = append(d.patterns, p)
	}
	return d
}

// Patterns returns a copy of the active patterns.
func (d *Denylist) Patterns() []string {
	return append([]string(nil), d.patterns...)
}

// Evaluate returns Denied for the first pattern found in command.
func (d *Denylist) Evaluate(command string) Decision {
	lowered := strings.ToLower(command)
	for _, p := range d.patterns {
		if strings.Contains(lowered, p) {
			return Denied(p)
		}
	}
	return Allowed()
}

var defaultDenylist = NewDenylist(DefaultPatterns)

// Validate evaluates command against DefaultPatterns.
func Validate(command string) Decision {
	return defaultDenylist.Evaluate(command)
}
