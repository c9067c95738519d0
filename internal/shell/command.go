// Package shell turns free-text command lines into mutations of a
// core.Session. Parse recognizes the grammar; Execute runs one line and
// reports everything through a Result.
package shell

import (
	"strings"
)

// Command is one parsed command line. The set of implementations is closed.
type Command interface {
	// NeedsRepository reports whether the command fails before init
	NeedsRepository() bool
	command()
}

// InitCommand creates the root branch.
type InitCommand struct{}

// CommitCommand appends a commit to the current branch. Message is accepted
// for familiarity and otherwise ignored.
type CommitCommand struct {
	Message string
}

// BranchListCommand lists every branch.
type BranchListCommand struct{}

// BranchCreateCommand forks a new branch from the current one.
type BranchCreateCommand struct {
	Name string
}

// CheckoutCommand selects an existing branch.
type CheckoutCommand struct {
	Name string
}

// CheckoutNewCommand creates a branch and selects it.
type CheckoutNewCommand struct {
	Name string
}

// MergeCommand merges the named branch into the current one.
type MergeCommand struct {
	Name string
}

// HelpCommand prints the command listing.
type HelpCommand struct{}

// ClearCommand asks the adapter to clear its log view.
type ClearCommand struct{}

func (InitCommand) NeedsRepository() bool         { return false }
func (CommitCommand) NeedsRepository() bool       { return true }
func (BranchListCommand) NeedsRepository() bool   { return true }
func (BranchCreateCommand) NeedsRepository() bool { return true }
func (CheckoutCommand) NeedsRepository() bool     { return true }
func (CheckoutNewCommand) NeedsRepository() bool  { return true }
func (MergeCommand) NeedsRepository() bool        { return true }
func (HelpCommand) NeedsRepository() bool         { return false }
func (ClearCommand) NeedsRepository() bool        { return false }

func (InitCommand) command()         {}
func (CommitCommand) command()       {}
func (BranchListCommand) command()   {}
func (BranchCreateCommand) command() {}
func (CheckoutCommand) command()     {}
func (CheckoutNewCommand) command()  {}
func (MergeCommand) command()        {}
func (HelpCommand) command()         {}
func (ClearCommand) command()        {}

// Parse recognizes one command line. The leading "git" keyword is optional
// and keywords are case-sensitive. Anything outside the grammar yields an
// *UnknownCommandError.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) > 0 && fields[0] == "git" {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return nil, unknown(line)
	}

	keyword, args := fields[0], fields[1:]
	switch keyword {
	case "init":
		if len(args) == 0 {
			return InitCommand{}, nil
		}
	case "commit":
		if len(args) == 0 {
			return CommitCommand{}, nil
		}
		if args[0] == "-m" && len(args) > 1 {
			return CommitCommand{Message: unquote(strings.Join(args[1:], " "))}, nil
		}
	case "branch":
		switch {
		case len(args) == 0:
			return BranchListCommand{}, nil
		case len(args) == 1 && isName(args[0]):
			return BranchCreateCommand{Name: args[0]}, nil
		}
	case "checkout":
		switch {
		case len(args) == 1 && isName(args[0]):
			return CheckoutCommand{Name: args[0]}, nil
		case len(args) == 2 && args[0] == "-b" && isName(args[1]):
			return CheckoutNewCommand{Name: args[1]}, nil
		}
	case "merge":
		if len(args) == 1 && isName(args[0]) {
			return MergeCommand{Name: args[0]}, nil
		}
	case "help":
		if len(args) == 0 {
			return HelpCommand{}, nil
		}
	case "clear":
		if len(args) == 0 {
			return ClearCommand{}, nil
		}
	}
	return nil, unknown(line)
}

// isName accepts ref-safe branch names: letters, digits, '_', '-', '.' and
// '/', not starting with '-', '.' or '/', not ending with '.' or '/', and
// without "..".
func isName(s string) bool {
	if s == "" || strings.ContainsAny(s[:1], "-./") || strings.ContainsAny(s[len(s)-1:], "./") {
		return false
	}
	if strings.Contains(s, "..") || strings.Contains(s, "//") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.' || r == '/':
		default:
			return false
		}
	}
	return true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
