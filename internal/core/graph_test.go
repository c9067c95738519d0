package core

import (
	"testing"

	"github.com/kilupskalvis/gitsim/internal/layout"
	"github.com/kilupskalvis/gitsim/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestGraph creates a graph with a root branch at (30, 30).
func newTestGraph(t *testing.T) (*Graph, *models.Branch) {
	t.Helper()
	g := NewGraph(layout.DefaultParams(), nil)
	root, _, err := g.CreateBranch("master", models.ColorGreen, models.Point{X: 30, Y: 30})
	require.NoError(t, err)
	return g, root
}

func TestCreateBranch(t *testing.T) {
	g := NewGraph(layout.DefaultParams(), nil)

	b, events, err := g.CreateBranch("master", models.ColorGreen, models.Point{X: 30, Y: 30})
	require.NoError(t, err)

	assert.Equal(t, "master", b.Name)
	assert.Equal(t, 130, b.Cursor)
	assert.Same(t, b, g.Branch("master"))
	assert.Same(t, b, g.Root())

	require.Len(t, events, 1)
	created, ok := events[0].(models.BranchCreated)
	require.True(t, ok)
	assert.Equal(t, models.Point{X: 30, Y: 30}, created.Origin)
	assert.Equal(t, models.Point{X: 100, Y: 30}, created.LifelineStart)
	assert.Equal(t, models.Point{X: 160, Y: 30}, created.LifelineEnd)
	assert.Equal(t, models.ColorGreen, created.Color)
}

func TestCreateBranch_Duplicate(t *testing.T) {
	g, root := newTestGraph(t)

	_, _, err := g.CreateBranch("master", models.ColorRed, models.Point{X: 0, Y: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateBranch)

	// The original branch is untouched
	assert.Same(t, root, g.Branch("master"))
	assert.Equal(t, models.ColorGreen, root.Color)
	assert.Equal(t, 1, g.Len())
}

func TestCreateBranch_EmptyName(t *testing.T) {
	g := NewGraph(layout.DefaultParams(), nil)

	_, _, err := g.CreateBranch("", models.ColorDefault, models.Point{})
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, 0, g.Len())
}

func TestBranches_CreationOrder(t *testing.T) {
	g, root := newTestGraph(t)

	_, _, err := g.BranchFrom(root, "zeta", models.ColorDefault)
	require.NoError(t, err)
	_, _, err = g.BranchFrom(root, "alpha", models.ColorDefault)
	require.NoError(t, err)

	var names []string
	for _, b := range g.Branches() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"master", "zeta", "alpha"}, names)
}

func TestSnapshot(t *testing.T) {
	g, root := newTestGraph(t)
	_, _, err := g.AddCommit(root)
	require.NoError(t, err)
	hotfix, _, err := g.BranchFrom(root, "hotfix", models.ColorRed)
	require.NoError(t, err)
	_, _, err = g.AddCommit(hotfix)
	require.NoError(t, err)
	_, _, err = g.MergeInto(hotfix, root)
	require.NoError(t, err)

	snap := g.Snapshot()
	require.Len(t, snap.Branches, 2)
	assert.Equal(t, []string{"hotfix"}, snap.Branches[0].Children)
	assert.Equal(t, "master", snap.Branches[1].Parent)
	assert.Len(t, snap.Branches[1].Commits, 2)
	require.Len(t, snap.Merges, 1)

	// The snapshot is detached from the live graph
	_, _, err = g.AddCommit(root)
	require.NoError(t, err)
	assert.Len(t, snap.Branches[0].Commits, 1)
}
