package shell

import (
	"errors"
	"strings"

	"github.com/kilupskalvis/gitsim/internal/core"
	"github.com/kilupskalvis/gitsim/internal/models"
)

// Result is everything one command line produced. Execute never returns user
// input failures any other way.
type Result struct {
	Command   string // keyword of the parsed command, "unknown" otherwise
	Output    string
	Err       error
	Events    []models.Event
	Selection *models.Selection // nil when the selection did not change
	ClearLog  bool
}

// Text returns what a terminal should print for the result
func (r Result) Text() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Output
}

// Outcome classifies the result for metrics: ok, or the error kind.
func (r Result) Outcome() string {
	switch {
	case r.Err == nil:
		return "ok"
	case errors.Is(r.Err, core.ErrNotARepository):
		return "not_a_repository"
	case errors.Is(r.Err, ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(r.Err, core.ErrDuplicateBranch):
		return "duplicate_branch"
	case errors.Is(r.Err, core.ErrEmptyBranch):
		return "empty_branch"
	default:
		return "error"
	}
}

// Name returns the keyword a command was parsed from.
func Name(cmd Command) string {
	switch cmd.(type) {
	case InitCommand:
		return "init"
	case CommitCommand:
		return "commit"
	case BranchListCommand, BranchCreateCommand:
		return "branch"
	case CheckoutCommand:
		return "checkout"
	case CheckoutNewCommand:
		return "checkout -b"
	case MergeCommand:
		return "merge"
	case HelpCommand:
		return "help"
	case ClearCommand:
		return "clear"
	default:
		return "unknown"
	}
}

// Execute parses line and applies it to sess. A blank line yields an empty
// Result and touches nothing.
func Execute(sess *core.Session, line string) Result {
	if strings.TrimSpace(line) == "" {
		return Result{}
	}

	cmd, err := Parse(line)
	if err != nil {
		return Result{Command: Name(nil), Err: err}
	}

	res := Result{Command: Name(cmd)}
	if cmd.NeedsRepository() && !sess.Initialized() {
		res.Err = &core.NotARepositoryError{}
		return res
	}

	switch c := cmd.(type) {
	case InitCommand:
		runInit(sess, &res)
	case CommitCommand:
		runCommit(sess, &res)
	case BranchListCommand:
		runBranchList(sess, &res)
	case BranchCreateCommand:
		runBranchCreate(sess, c.Name, &res)
	case CheckoutCommand:
		runCheckout(sess, line, c.Name, &res)
	case CheckoutNewCommand:
		runCheckoutNew(sess, line, c.Name, &res)
	case MergeCommand:
		runMerge(sess, line, c.Name, &res)
	case HelpCommand:
		res.Output = HelpText
	case ClearCommand:
		res.ClearLog = true
	}
	return res
}

func runInit(sess *core.Session, res *Result) {
	created, events := sess.Init()
	if !created {
		res.Output = "Reinitialized existing Git repository"
		return
	}
	res.Output = "Initialized empty Git repository"
	res.Events = events
	for _, ev := range events {
		if sc, ok := ev.(models.SelectionChanged); ok {
			sel := sc.Selection
			res.Selection = &sel
		}
	}
}

func runCommit(sess *core.Session, res *Result) {
	_, events, err := sess.Graph().AddCommit(sess.CurrentBranch())
	if err != nil {
		res.Err = err
		return
	}
	res.Events = events
}

func runBranchList(sess *core.Session, res *Result) {
	current := sess.CurrentBranch()
	var sb strings.Builder
	for i, b := range sess.Graph().Branches() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if b == current {
			sb.WriteString("* ")
		} else {
			sb.WriteString("  ")
		}
		sb.WriteString(b.Name)
	}
	res.Output = sb.String()
}

func runBranchCreate(sess *core.Session, name string, res *Result) {
	_, events, err := sess.Graph().BranchFrom(sess.CurrentBranch(), name, core.ColorFor(name))
	if err != nil {
		res.Err = err
		return
	}
	res.Events = events
}

func runCheckout(sess *core.Session, line, name string, res *Result) {
	b := sess.Graph().Branch(name)
	if b == nil {
		res.Err = unknownRef(line, name)
		return
	}
	selectBranch(sess, line, b, res)
}

// runCheckoutNew creates and selects in one step; a failed create leaves the
// selection alone.
func runCheckoutNew(sess *core.Session, line, name string, res *Result) {
	b, events, err := sess.Graph().BranchFrom(sess.CurrentBranch(), name, core.ColorFor(name))
	if err != nil {
		res.Err = err
		return
	}
	res.Events = events
	selectBranch(sess, line, b, res)
}

func runMerge(sess *core.Session, line, name string, res *Result) {
	target := sess.Graph().Branch(name)
	if target == nil {
		res.Err = unknownRef(line, name)
		return
	}
	_, events, err := sess.Graph().MergeInto(sess.CurrentBranch(), target)
	if err != nil {
		res.Err = err
		return
	}
	res.Events = events
}

func selectBranch(sess *core.Session, line string, b *models.Branch, res *Result) {
	sel, err := sess.SelectBranch(b)
	if err != nil {
		res.Err = &UnknownCommandError{Input: strings.TrimSpace(line), Ref: b.Name, Err: err}
		return
	}
	res.Selection = &sel
	res.Events = append(res.Events, models.SelectionChanged{Selection: sel})
	res.Output = "Switched to branch '" + b.Name + "'"
}

func unknownRef(line, name string) *UnknownCommandError {
	return &UnknownCommandError{
		Input: strings.TrimSpace(line),
		Ref:   name,
		Err:   &core.UnknownBranchError{Name: name},
	}
}
