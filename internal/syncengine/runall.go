package syncengine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/reposync/reposync/internal/project"
)

// Result is one project's outcome from a RunAll pass.
type Result struct {
	Project *project.Project
	OK      bool
	Err     error
}

// RunAll fans fn out across projects with at most concurrency in flight
// at once, collecting one Result per project regardless of individual
// failures — a single project's error never aborts the others, matching
// the network half's "keep going, report per-project" behavior in a
// multi-project sync.
func RunAll(ctx context.Context, projects []*project.Project, concurrency int, fn func(context.Context, *project.Project) (bool, error)) []Result {
	results := make([]Result, len(projects))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, p := range projects {
		i, p := i, p
		g.Go(func() error {
			ok, err := fn(ctx, p)
			results[i] = Result{Project: p, OK: ok, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
