package models

// GraphSnapshot is a read-only, JSON-friendly copy of a session's graph.
type GraphSnapshot struct {
	Initialized bool             `json:"initialized"`
	Selected    string           `json:"selected,omitempty"`
	Branches    []BranchSnapshot `json:"branches"`
	Merges      []MergeEdge      `json:"merges"`
}

// BranchSnapshot is one branch in a GraphSnapshot. Connectors[i] links
// Commits[i] to Commits[i+1].
type BranchSnapshot struct {
	Name          string   `json:"name"`
	Parent        string   `json:"parent,omitempty"`
	Children      []string `json:"children"`
	Color         Color    `json:"color"`
	Origin        Point    `json:"origin"`
	LifelineStart Point    `json:"lifeline_start"`
	LifelineEnd   Point    `json:"lifeline_end"`
	Fork          *Line    `json:"fork,omitempty"`
	Cursor        int      `json:"cursor"`
	Commits       []Commit `json:"commits"`
	Connectors    []Line   `json:"connectors"`
}
