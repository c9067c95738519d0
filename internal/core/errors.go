package core

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching.
var (
	ErrNotARepository  = errors.New("not a repository")
	ErrUnknownBranch   = errors.New("unknown branch")
	ErrEmptyBranch     = errors.New("empty branch")
	ErrDuplicateBranch = errors.New("duplicate branch")
	ErrEmptyName       = errors.New("branch name cannot be empty")
)

// NotARepositoryError is returned when a command needs an initialized session.
type NotARepositoryError struct{}

func (e *NotARepositoryError) Error() string {
	return "fatal: not a git repository (or any parent up to mount point /)\n" +
		"Stopping at filesystem boundary (GIT_DISCOVERY_ACROSS_FILESYSTEM not set)."
}

func (e *NotARepositoryError) Is(target error) bool { return target == ErrNotARepository }

// UnknownBranchError is returned for a branch that is not part of the graph.
type UnknownBranchError struct {
	Name string
}

func (e *UnknownBranchError) Error() string {
	return fmt.Sprintf("branch '%s' not found", e.Name)
}

func (e *UnknownBranchError) Is(target error) bool { return target == ErrUnknownBranch }

// EmptyBranchError is returned when a merge involves a branch without commits.
type EmptyBranchError struct {
	Name string
}

func (e *EmptyBranchError) Error() string {
	return fmt.Sprintf("fatal: branch '%s' has no commits to merge", e.Name)
}

func (e *EmptyBranchError) Is(target error) bool { return target == ErrEmptyBranch }

// DuplicateBranchError is returned when a branch name is already taken.
type DuplicateBranchError struct {
	Name string
}

func (e *DuplicateBranchError) Error() string {
	return fmt.Sprintf("fatal: A branch named '%s' already exists.", e.Name)
}

func (e *DuplicateBranchError) Is(target error) bool { return target == ErrDuplicateBranch }
