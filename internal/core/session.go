package core

import (
	"log/slog"

	"github.com/kilupskalvis/gitsim/internal/layout"
	"github.com/kilupskalvis/gitsim/internal/models"
)

// RootBranchName is the branch created by init.
const RootBranchName = "master"

// Session is one independent simulator session: a graph plus the branch that
// commands implicitly target. Callers own it and pass it to the interpreter.
type Session struct {
	graph    *Graph
	origin   models.Point
	selected *models.Branch
}

// Option configures a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	params layout.Params
	origin models.Point
	logger *slog.Logger
}

// WithParams overrides the layout parameters.
func WithParams(p layout.Params) Option {
	return func(o *sessionOptions) { o.params = p }
}

// WithOrigin overrides where init places the root branch.
func WithOrigin(x, y int) Option {
	return func(o *sessionOptions) { o.origin = models.Point{X: x, Y: y} }
}

// WithLogger sets the logger mutations are reported to at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *sessionOptions) { o.logger = l }
}

// NewSession creates an uninitialized session.
func NewSession(opts ...Option) *Session {
	o := sessionOptions{
		params: layout.DefaultParams(),
		origin: models.Point{X: 30, Y: 30},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{
		graph:  NewGraph(o.params, o.logger),
		origin: o.params.PlaceRootBranch(o.origin.X, o.origin.Y),
	}
}

// Graph returns the session's graph
func (s *Session) Graph() *Graph {
	return s.graph
}

// Initialized returns true once init has created the root branch
func (s *Session) Initialized() bool {
	return s.graph.Root() != nil
}

// CurrentBranch returns the selected branch, or nil before init
func (s *Session) CurrentBranch() *models.Branch {
	return s.selected
}

// Init creates the root branch and selects it. It returns false and no events
// if the session was already initialized.
func (s *Session) Init() (bool, []models.Event) {
	if s.Initialized() {
		return false, nil
	}

	root := s.graph.register(RootBranchName, ColorFor(RootBranchName), s.origin)
	s.selected = root

	s.graph.logger.Debug("repository initialized", "root", root.Name)
	return true, []models.Event{
		s.graph.branchCreated(root),
		models.SelectionChanged{Selection: models.Selection{Activated: root.Name}},
	}
}

// SelectBranch makes b the current branch and returns which branch to
// deactivate and which to activate. Reselecting the current branch still
// returns a change-set so styling can be re-applied.
func (s *Session) SelectBranch(b *models.Branch) (models.Selection, error) {
	if err := s.graph.checkOwned(b); err != nil {
		return models.Selection{}, err
	}

	var sel models.Selection
	if s.selected != nil {
		sel.Deactivated = s.selected.Name
	}
	sel.Activated = b.Name
	s.selected = b

	s.graph.logger.Debug("branch selected", "deactivated", sel.Deactivated, "activated", sel.Activated)
	return sel, nil
}

// Snapshot returns a detached copy of the session's state
func (s *Session) Snapshot() models.GraphSnapshot {
	snap := s.graph.Snapshot()
	snap.Initialized = s.Initialized()
	if s.selected != nil {
		snap.Selected = s.selected.Name
	}
	return snap
}
