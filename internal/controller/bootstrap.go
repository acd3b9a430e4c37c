package controller

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Bootstrap runs the baseline loads of a freshly opened page. The loads
// render into separate containers and run concurrently; one failing does
// not stop the others. The first error is returned.
func (c *Catalog) Bootstrap(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.LoadStudents(ctx) })
	g.Go(func() error { return c.LoadCourses(ctx) })
	g.Go(func() error { return c.LoadEnrollmentDropdowns(ctx) })
	return g.Wait()
}
