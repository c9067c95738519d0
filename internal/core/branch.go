package core

import (
	"strings"

	"github.com/kilupskalvis/gitsim/internal/models"
)

// branchColors is matched in order; the first fragment contained in a
// branch name decides its color.
var branchColors = []struct {
	fragment string
	color    models.Color
}{
	{"feature", models.ColorViolet},
	{"master", models.ColorGreen},
	{"hotfix", models.ColorRed},
	{"dev", models.ColorBlue},
}

// ColorFor derives a display color from a branch name. Names without a known
// fragment get the default color.
func ColorFor(name string) models.Color {
	for _, c := range branchColors {
		if strings.Contains(name, c.fragment) {
			return c.color
		}
	}
	return models.ColorDefault
}

// BranchFrom creates a child of parent placed below it, and records the fork.
func (g *Graph) BranchFrom(parent *models.Branch, name string, color models.Color) (*models.Branch, []models.Event, error) {
	if err := g.checkOwned(parent); err != nil {
		return nil, nil, err
	}
	if err := g.checkName(name); err != nil {
		return nil, nil, err
	}

	origin := g.params.PlaceChildBranch(parent, g.params.SlotOffset(parent, name))
	child := g.register(name, color, origin)
	child.Parent = parent
	parent.Children = append(parent.Children, child)

	events := []models.Event{
		g.branchCreated(child),
		models.BranchForked{
			Parent:    parent.Name,
			Child:     child.Name,
			Connector: g.params.ForkConnector(parent, child),
		},
	}
	return child, events, nil
}
