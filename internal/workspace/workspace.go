// Package workspace gathers facts about the directory the agent runs in and
// turns them into the system prompt.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info describes the working directory.
type Info struct {
	Dir   string
	OS    string
	Shell string

	// Git fields are empty when Dir is not inside a repository.
	GitRoot   string
	GitBranch string
}

// InGit reports whether Dir is inside a git repository.
func (i Info) InGit() bool {
	return i.GitRoot != ""
}

// Describe inspects dir. shell is the interpreter invocation shown to the
// model, e.g. "sh -c". A directory outside any repository is not an error.
func Describe(dir, shell string) (Info, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Dir:   abs,
		OS:    runtime.GOOS,
		Shell: shell,
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return info, nil
	}
	if err != nil {
		return info, fmt.Errorf("open git repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree.
		return info, nil
	}
	info.GitRoot = wt.Filesystem.Root()

	head, err := repo.Head()
	switch {
	case err == nil && head.Name().IsBranch():
		info.GitBranch = head.Name().Short()
	case err == nil:
		info.GitBranch = "detached at " + head.Hash().String()[:7]
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Fresh repository without commits.
	default:
		return info, fmt.Errorf("read git HEAD: %w", err)
	}

	return info, nil
}

// SystemPrompt builds the system instruction for a run.
func SystemPrompt(info Info, deny []string) string {
	var b strings.Builder

	b.WriteString("You are a helpful assistant that can execute shell commands.\n")
	b.WriteString("Be very careful with destructive commands that could harm the system.\n")
	b.WriteString("Always explain what commands you're going to run and why.\n\n")
	b.WriteString("Use the execute_shell_command tool to run a command. Run one command at a time and read its output before deciding what to do next. ")
	b.WriteString("When the task is done, reply with your final answer and no tool call.\n\n")

	b.WriteString("Environment:\n")
	fmt.Fprintf(&b, "- Working directory: %s\n", info.Dir)
	fmt.Fprintf(&b, "- Operating system: %s\n", info.OS)
	if info.Shell != "" {
		fmt.Fprintf(&b, "- Commands run through: %s\n", info.Shell)
	}
	if info.InGit() {
		fmt.Fprintf(&b, "- Git repository: %s", info.GitRoot)
		if info.GitBranch != "" {
			fmt.Fprintf(&b, " (branch %s)", info.GitBranch)
		}
		b.WriteString("\n")
	}

	if len(deny) > 0 {
		quoted := make([]string, len(deny))
		for i, p := range deny {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		fmt.Fprintf(&b, "\nCommands containing any of these strings are refused without running: %s. Do not try to work around this.\n", strings.Join(quoted, ", "))
	}

	return b.String()
}
