// Package layout places branches, commits and connectors on a 2-D grid.
// Every function is pure and works in integer layout units, so replaying the
// same operations always yields identical coordinates.
package layout

import "github.com/kilupskalvis/gitsim/internal/models"

// Params holds the spacing constants of the diagram.
type Params struct {
	Step              int    // horizontal distance between consecutive commits
	LabelGutter       int    // origin to lifeline start
	FirstCommitOffset int    // origin to the first commit slot
	ChildDrop         int    // base vertical distance from parent to child
	SiblingIncrement  int    // extra drop per existing sibling
	FastPathLift      int    // slot offset for fast-path children of the root
	SecondLevel       string // branch name exempt from the fast-path lift
	LifelineTail      int    // lifeline overhang past the last slot
	CommitRadius      int
}

// DefaultParams returns the spacing of the classic diagram.
func DefaultParams() Params {
	return Params{
		Step:              50,
		LabelGutter:       70,
		FirstCommitOffset: 100,
		ChildDrop:         100,
		SiblingIncrement:  70,
		FastPathLift:      -35,
		SecondLevel:       "dev",
		LifelineTail:      30,
		CommitRadius:      10,
	}
}

// PlaceRootBranch returns the origin of the first branch, which is caller-supplied.
func (p Params) PlaceRootBranch(x, y int) models.Point {
	return models.Point{X: x, Y: y}
}

// InitialCursor returns the first commit slot of a branch anchored at origin.
func (p Params) InitialCursor(origin models.Point) int {
	return origin.X + p.FirstCommitOffset
}

// SlotOffset picks the vertical slot offset for a new child of parent.
// Children of the root other than the second-level branch render slightly
// above the default slot; everything else stacks downward by sibling count.
func (p Params) SlotOffset(parent *models.Branch, name string) int {
	if parent.IsRoot() && name != p.SecondLevel {
		return p.FastPathLift
	}
	return len(parent.Children) * p.SiblingIncrement
}

// ForkX returns the x of the point a child would branch off from: the
// parent's latest commit, or the slot before its first one.
func (p Params) ForkX(parent *models.Branch) int {
	return parent.Cursor - p.Step
}

// PlaceChildBranch returns the origin of a new child of parent.
func (p Params) PlaceChildBranch(parent *models.Branch, slotOffset int) models.Point {
	return models.Point{
		X: p.ForkX(parent),
		Y: parent.Origin.Y + p.ChildDrop + slotOffset,
	}
}

// PlaceCommit places the next default commit on b and returns the position
// together with the branch's advanced cursor.
func (p Params) PlaceCommit(b *models.Branch) (models.Point, int) {
	return p.place(b, b.Cursor)
}

// PlaceCommitAt places a commit at explicitX when that lies past the cursor,
// otherwise at the cursor.
func (p Params) PlaceCommitAt(b *models.Branch, explicitX int) (models.Point, int) {
	x := b.Cursor
	if explicitX > x {
		x = explicitX
	}
	return p.place(b, x)
}

func (p Params) place(b *models.Branch, x int) (models.Point, int) {
	return models.Point{X: x, Y: b.Origin.Y}, x + p.Step
}

// PlaceMergeEdge connects the commit a merge brought in to the merge commit.
func (p Params) PlaceMergeEdge(source, target *models.Commit) models.Line {
	return models.Line{From: source.Position, To: target.Position}
}

// CommitConnector links consecutive commits of one branch, trimmed to the
// circle edges.
func (p Params) CommitConnector(prev, next *models.Commit) models.Line {
	return models.Line{
		From: models.Point{X: prev.Position.X + p.CommitRadius, Y: prev.Position.Y},
		To:   models.Point{X: next.Position.X - p.CommitRadius, Y: next.Position.Y},
	}
}

// ForkConnector links the point child was forked from to its first commit
// slot. The fork point is recorded in the child's origin, so the connector
// does not move when the parent grows.
func (p Params) ForkConnector(parent, child *models.Branch) models.Line {
	return models.Line{
		From: models.Point{X: child.Origin.X, Y: parent.Origin.Y},
		To:   models.Point{X: p.InitialCursor(child.Origin), Y: child.Origin.Y},
	}
}

// LifelineStart is where the dashed lifeline of b begins.
func (p Params) LifelineStart(b *models.Branch) models.Point {
	return models.Point{X: b.Origin.X + p.LabelGutter, Y: b.Origin.Y}
}

// LifelineEnd is where the dashed lifeline of b currently ends.
func (p Params) LifelineEnd(b *models.Branch) models.Point {
	x := p.InitialCursor(b.Origin)
	if last := b.LastCommit(); last != nil && last.Position.X > x {
		x = last.Position.X
	}
	return models.Point{X: x + p.LifelineTail, Y: b.Origin.Y}
}
