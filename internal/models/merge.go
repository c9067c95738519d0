package models

// MergeEdge is the directed relationship from the commit a merge brought in
// to the merge commit that recorded it.
type MergeEdge struct {
	From CommitRef `json:"from"`
	To   CommitRef `json:"to"`
	Line Line      `json:"line"`
}
