package core

import (
	"github.com/kilupskalvis/gitsim/internal/models"
)

// AddCommit appends a commit to b at the branch's next default slot.
func (g *Graph) AddCommit(b *models.Branch) (*models.Commit, []models.Event, error) {
	if err := g.checkOwned(b); err != nil {
		return nil, nil, err
	}
	pos, cursor := g.params.PlaceCommit(b)
	c, events := g.appendCommit(b, pos, cursor, nil)
	return c, events, nil
}

// AddCommitAt appends a commit to b at explicitX, unless that would land at
// or behind the branch's cursor.
func (g *Graph) AddCommitAt(b *models.Branch, explicitX int) (*models.Commit, []models.Event, error) {
	if err := g.checkOwned(b); err != nil {
		return nil, nil, err
	}
	pos, cursor := g.params.PlaceCommitAt(b, explicitX)
	c, events := g.appendCommit(b, pos, cursor, nil)
	return c, events, nil
}

func (g *Graph) appendCommit(b *models.Branch, pos models.Point, cursor int, mergeParent *models.CommitRef) (*models.Commit, []models.Event) {
	prev := b.LastCommit()
	c := &models.Commit{
		Branch:      b.Name,
		Index:       len(b.Commits),
		Position:    pos,
		MergeParent: mergeParent,
	}
	b.Commits = append(b.Commits, c)
	b.Cursor = cursor

	added := models.CommitAdded{Commit: *c}
	if prev != nil {
		line := g.params.CommitConnector(prev, c)
		added.Connector = &line
	}

	g.logger.Debug("commit added", "commit", c.ID(), "position", pos.String())
	return c, []models.Event{
		added,
		models.LifelineExtended{Branch: b.Name, End: g.params.LifelineEnd(b)},
	}
}
