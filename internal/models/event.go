package models

// EventKind names a layout event
type EventKind string

const (
	EventBranchCreated    EventKind = "branch_created"
	EventBranchForked     EventKind = "branch_forked"
	EventCommitAdded      EventKind = "commit_added"
	EventLifelineExtended EventKind = "lifeline_extended"
	EventMergePerformed   EventKind = "merge_performed"
	EventSelectionChanged EventKind = "selection_changed"
)

// Event carries everything a renderer needs to draw one mutation without
// re-deriving layout.
type Event interface {
	Kind() EventKind
}

// BranchCreated is emitted when a branch is registered.
type BranchCreated struct {
	Branch        string `json:"branch"`
	Color         Color  `json:"color"`
	Origin        Point  `json:"origin"`
	LifelineStart Point  `json:"lifeline_start"`
	LifelineEnd   Point  `json:"lifeline_end"`
}

// BranchForked is emitted after BranchCreated when the branch has a parent.
type BranchForked struct {
	Parent    string `json:"parent"`
	Child     string `json:"child"`
	Connector Line   `json:"connector"`
}

// CommitAdded is emitted for every new commit. Connector is nil for the first
// commit of a branch.
type CommitAdded struct {
	Commit    Commit `json:"commit"`
	Connector *Line  `json:"connector,omitempty"`
}

// LifelineExtended is emitted when a branch's dashed lifeline grows.
type LifelineExtended struct {
	Branch string `json:"branch"`
	End    Point  `json:"end"`
}

// MergePerformed is emitted after the merge commit's CommitAdded.
type MergePerformed struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Position Point  `json:"position"`
	Edge     Line   `json:"edge"`
}

// SelectionChanged is emitted when a branch is selected.
type SelectionChanged struct {
	Selection
}

func (BranchCreated) Kind() EventKind    { return EventBranchCreated }
func (BranchForked) Kind() EventKind     { return EventBranchForked }
func (CommitAdded) Kind() EventKind      { return EventCommitAdded }
func (LifelineExtended) Kind() EventKind { return EventLifelineExtended }
func (MergePerformed) Kind() EventKind   { return EventMergePerformed }
func (SelectionChanged) Kind() EventKind { return EventSelectionChanged }

// EventEnvelope is the wire form of an event.
type EventEnvelope struct {
	Kind EventKind `json:"kind"`
	Data Event     `json:"data"`
}

// Envelope wraps events for JSON encoding, preserving order
func Envelope(events []Event) []EventEnvelope {
	out := make([]EventEnvelope, len(events))
	for i, ev := range events {
		out[i] = EventEnvelope{Kind: ev.Kind(), Data: ev}
	}
	return out
}
