// Package core implements the commit-graph model and the session that tracks
// the current branch. It owns every mutation of graph state; layout is
// delegated to the layout package.
package core

import (
	"io"
	"log/slog"

	"github.com/kilupskalvis/gitsim/internal/layout"
	"github.com/kilupskalvis/gitsim/internal/models"
)

// Graph owns the branches of one session, their commits and merge edges.
// It is not safe for concurrent use.
type Graph struct {
	params   layout.Params
	branches map[string]*models.Branch
	order    []*models.Branch
	merges   []models.MergeEdge
	logger   *slog.Logger
}

// NewGraph creates an empty graph
func NewGraph(params layout.Params, logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Graph{
		params:   params,
		branches: make(map[string]*models.Branch),
		logger:   logger,
	}
}

// Params returns the layout parameters the graph places elements with
func (g *Graph) Params() layout.Params {
	return g.params
}

// Branch returns the branch registered under name, or nil
func (g *Graph) Branch(name string) *models.Branch {
	return g.branches[name]
}

// Branches returns all branches in creation order
func (g *Graph) Branches() []*models.Branch {
	out := make([]*models.Branch, len(g.order))
	copy(out, g.order)
	return out
}

// Root returns the first branch created, or nil for an empty graph
func (g *Graph) Root() *models.Branch {
	if len(g.order) == 0 {
		return nil
	}
	return g.order[0]
}

// MergeEdges returns all merge edges in creation order
func (g *Graph) MergeEdges() []models.MergeEdge {
	out := make([]models.MergeEdge, len(g.merges))
	copy(out, g.merges)
	return out
}

// Len returns the number of branches
func (g *Graph) Len() int {
	return len(g.order)
}

// owns reports whether b is the instance registered in this graph.
func (g *Graph) owns(b *models.Branch) bool {
	return b != nil && g.branches[b.Name] == b
}

func (g *Graph) checkOwned(b *models.Branch) error {
	if g.owns(b) {
		return nil
	}
	if b == nil {
		return &UnknownBranchError{}
	}
	return &UnknownBranchError{Name: b.Name}
}

// CreateBranch registers a new branch anchored at origin.
func (g *Graph) CreateBranch(name string, color models.Color, origin models.Point) (*models.Branch, []models.Event, error) {
	if err := g.checkName(name); err != nil {
		return nil, nil, err
	}
	b := g.register(name, color, origin)
	return b, []models.Event{g.branchCreated(b)}, nil
}

func (g *Graph) checkName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if _, exists := g.branches[name]; exists {
		return &DuplicateBranchError{Name: name}
	}
	return nil
}

func (g *Graph) register(name string, color models.Color, origin models.Point) *models.Branch {
	b := &models.Branch{
		Name:   name,
		Color:  color,
		Origin: origin,
		Cursor: g.params.InitialCursor(origin),
	}
	g.branches[name] = b
	g.order = append(g.order, b)

	g.logger.Debug("branch created", "branch", name, "origin", origin.String(), "color", string(color))
	return b
}

func (g *Graph) branchCreated(b *models.Branch) models.BranchCreated {
	return models.BranchCreated{
		Branch:        b.Name,
		Color:         b.Color,
		Origin:        b.Origin,
		LifelineStart: g.params.LifelineStart(b),
		LifelineEnd:   g.params.LifelineEnd(b),
	}
}

// Snapshot returns a detached copy of the graph for encoding or rendering.
func (g *Graph) Snapshot() models.GraphSnapshot {
	snap := models.GraphSnapshot{
		Branches: make([]models.BranchSnapshot, 0, len(g.order)),
		Merges:   g.MergeEdges(),
	}
	for _, b := range g.order {
		commits := make([]models.Commit, len(b.Commits))
		connectors := make([]models.Line, 0, len(b.Commits))
		for i, c := range b.Commits {
			commits[i] = *c
			if i > 0 {
				connectors = append(connectors, g.params.CommitConnector(b.Commits[i-1], c))
			}
		}
		var fork *models.Line
		if b.Parent != nil {
			line := g.params.ForkConnector(b.Parent, b)
			fork = &line
		}
		snap.Branches = append(snap.Branches, models.BranchSnapshot{
			Name:          b.Name,
			Parent:        b.ParentName(),
			Children:      b.ChildNames(),
			Color:         b.Color,
			Origin:        b.Origin,
			LifelineStart: g.params.LifelineStart(b),
			LifelineEnd:   g.params.LifelineEnd(b),
			Fork:          fork,
			Cursor:        b.Cursor,
			Commits:       commits,
			Connectors:    connectors,
		})
	}
	return snap
}
