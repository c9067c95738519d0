package core

import (
	"github.com/kilupskalvis/gitsim/internal/models"
)

// MergeInto brings target's tip into source's timeline. The merge commit is
// appended to source, never to target, and is placed no further left than
// target's last commit.
func (g *Graph) MergeInto(source, target *models.Branch) (*models.Commit, []models.Event, error) {
	if err := g.checkOwned(source); err != nil {
		return nil, nil, err
	}
	if err := g.checkOwned(target); err != nil {
		return nil, nil, err
	}
	if !source.HasCommits() {
		return nil, nil, &EmptyBranchError{Name: source.Name}
	}
	if !target.HasCommits() {
		return nil, nil, &EmptyBranchError{Name: target.Name}
	}

	from := target.LastCommit()
	var (
		pos    models.Point
		cursor int
	)
	if from.Position.X > source.LastCommit().Position.X {
		pos, cursor = g.params.PlaceCommitAt(source, from.Position.X)
	} else {
		pos, cursor = g.params.PlaceCommit(source)
	}

	ref := from.Ref()
	merge, events := g.appendCommit(source, pos, cursor, &ref)

	edge := models.MergeEdge{
		From: ref,
		To:   merge.Ref(),
		Line: g.params.PlaceMergeEdge(from, merge),
	}
	g.merges = append(g.merges, edge)

	g.logger.Debug("merge performed", "source", source.Name, "target", target.Name, "commit", merge.ID())
	events = append(events, models.MergePerformed{
		Source:   source.Name,
		Target:   target.Name,
		Position: merge.Position,
		Edge:     edge.Line,
	})
	return merge, events, nil
}
