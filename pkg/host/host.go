package host

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/infrastructure"
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
)

// Session is the part of infrastructure.Manager the host drives.
type Session interface {
	Dispatch(ctx context.Context, scope infrastructure.ProjectScope, data buildcheck.EventData) error
	HasRegistrations(kind buildcheck.EventKind) bool
}

var _ Session = (*infrastructure.Manager)(nil)

// Options configures a Host.
type Options struct {
	Logger logrus.FieldLogger
	// MaxParallel bounds concurrently evaluated projects. Values below 1 mean 1.
	MaxParallel int
	// SessionID is stamped on every event context.
	SessionID string
}

// Host evaluates project sets against a session.
type Host struct {
	session     Session
	log         logrus.FieldLogger
	maxParallel int
	sessionID   string
}

// New creates a host.
func New(session Session, opts Options) *Host {
	if opts.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		opts.Logger = l
	}
	if opts.MaxParallel < 1 {
		opts.MaxParallel = 1
	}
	return &Host{
		session:     session,
		log:         opts.Logger,
		maxParallel: opts.MaxParallel,
		sessionID:   opts.SessionID,
	}
}

// Run evaluates every project of set. Projects are evaluated concurrently;
// the first evaluation error cancels the rest.
func (h *Host) Run(ctx context.Context, set *ProjectSet) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.maxParallel)

	for i, project := range set.Projects {
		g.Go(func() error {
			return h.Evaluate(gctx, set.Root, i, project)
		})
	}
	return g.Wait()
}

// Evaluate evaluates one project. id identifies the evaluation in event contexts.
func (h *Host) Evaluate(ctx context.Context, root string, id int, project Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := h.log.WithField("project", project.Path)
	start := time.Now()

	if root == "" {
		root = filepath.Dir(project.Path)
	}
	scope := infrastructure.ProjectScope{
		ProjectFile:  project.Path,
		WorkTreeRoot: root,
		EventContext: buildevents.Context{
			SessionID:         h.sessionID,
			NodeID:            id,
			EvaluationID:      id,
			ProjectInstanceID: id,
		},
	}

	if err := newEvaluation(h.session, scope, project).run(ctx); err != nil {
		return fmt.Errorf("evaluating %s: %w", project.Path, err)
	}

	log.WithField("duration", time.Since(start)).Debug("Project evaluated")
	return nil
}
