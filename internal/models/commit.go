package models

import "fmt"

// CommitRef identifies a commit by its branch and its index in that branch.
type CommitRef struct {
	Branch string `json:"branch"`
	Index  int    `json:"index"`
}

func (r CommitRef) String() string {
	return fmt.Sprintf("%s#%d", r.Branch, r.Index)
}

// Commit is an immutable point on a branch's timeline
type Commit struct {
	Branch      string     `json:"branch"`
	Index       int        `json:"index"`
	Position    Point      `json:"position"`
	MergeParent *CommitRef `json:"merge_parent,omitempty"`
}

// ID returns the local, stable identifier "<branch>#<index>"
func (c *Commit) ID() string {
	return c.Ref().String()
}

// Ref returns the commit's reference
func (c *Commit) Ref() CommitRef {
	return CommitRef{Branch: c.Branch, Index: c.Index}
}

// IsMergeCommit returns true if the commit was created by a merge
func (c *Commit) IsMergeCommit() bool {
	return c.MergeParent != nil
}
