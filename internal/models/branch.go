package models

// Branch is a named lifeline of commits.
// Commits and Children are append-only; Cursor never moves backwards.
type Branch struct {
	Name     string    `json:"name"`
	Color    Color     `json:"color"`
	Origin   Point     `json:"origin"`
	Cursor   int       `json:"cursor"`
	Commits  []*Commit `json:"commits"`
	Children []*Branch `json:"-"`
	Parent   *Branch   `json:"-"`
}

// IsRoot returns true if the branch was not forked from another branch
func (b *Branch) IsRoot() bool {
	return b.Parent == nil
}

// HasCommits returns true if at least one commit was placed on the branch
func (b *Branch) HasCommits() bool {
	return len(b.Commits) > 0
}

// LastCommit returns the newest commit, or nil for an empty branch
func (b *Branch) LastCommit() *Commit {
	if len(b.Commits) == 0 {
		return nil
	}
	return b.Commits[len(b.Commits)-1]
}

// ParentName returns the name of the branch this one was forked from
func (b *Branch) ParentName() string {
	if b.Parent == nil {
		return ""
	}
	return b.Parent.Name
}

// ChildNames lists child branch names in creation order
func (b *Branch) ChildNames() []string {
	names := make([]string, len(b.Children))
	for i, c := range b.Children {
		names[i] = c.Name
	}
	return names
}
