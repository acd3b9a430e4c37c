// Package controller holds the catalog's command handlers. Each handler
// reads form state from a view, calls the GraphQL endpoint, and re-renders
// the containers the result affects. A failed call leaves the view as it
// was; the transport has already shown the error.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/studentcatalog/catalog-web/internal/diagnostics"
	"github.com/studentcatalog/catalog-web/internal/graphql"
	"github.com/studentcatalog/catalog-web/internal/notify"
	"github.com/studentcatalog/catalog-web/internal/ui"
	"github.com/studentcatalog/catalog-web/internal/view"
)

// Event names.
const (
	EventAddStudent          = "addStudent"
	EventUpdateStudent       = "updateStudent"
	EventEditStudent         = "editStudent"
	EventAddCourse           = "addCourse"
	EventUpdateCourse        = "updateCourse"
	EventEditCourse          = "editCourse"
	EventCancelEdit          = "cancelEdit"
	EventEnrollStudent       = "enrollStudent"
	EventUnenrollStudent     = "unenrollStudent"
	EventSearchStudentByID   = "searchStudentById"
	EventSearchStudentByName = "searchStudentByName"
	EventSearchCourseByName  = "searchCourseByName"
)

// Catalog binds the handlers to one page.
type Catalog struct {
	gql    graphql.Requester
	view   view.View
	notify graphql.Notifier
	diag   diagnostics.Sink
}

// New returns a Catalog. diag may be nil.
func New(gql graphql.Requester, v view.View, n graphql.Notifier, diag diagnostics.Sink) *Catalog {
	return &Catalog{gql: gql, view: v, notify: n, diag: diag}
}

// Register installs every event handler on reg.
func (c *Catalog) Register(reg *ui.Registry) {
	reg.Handle(EventAddStudent, c.AddStudent)
	reg.Handle(EventUpdateStudent, c.UpdateStudent)
	reg.Handle(EventEditStudent, c.EditStudent)
	reg.Handle(EventAddCourse, c.AddCourse)
	reg.Handle(EventUpdateCourse, c.UpdateCourse)
	reg.Handle(EventEditCourse, c.EditCourse)
	reg.Handle(EventCancelEdit, c.CancelEdit)
	reg.Handle(EventEnrollStudent, c.Enroll)
	reg.Handle(EventUnenrollStudent, c.Unenroll)
	reg.Handle(EventSearchStudentByID, c.SearchStudentByID)
	reg.Handle(EventSearchStudentByName, c.SearchStudentByName)
	reg.Handle(EventSearchCourseByName, c.SearchCourseByName)
}

// Registry returns a fresh registry with every handler installed.
func (c *Catalog) Registry() *ui.Registry {
	reg := ui.NewRegistry()
	c.Register(reg)
	return reg
}

func (c *Catalog) record(ctx context.Context, what string, err error) {
	if c.diag == nil {
		return
	}
	c.diag.Record(ctx, diagnostics.NewEntry("", what, err))
}

// request calls the endpoint; failures are already notified by the
// transport and only need recording.
func (c *Catalog) request(ctx context.Context, what string, doc graphql.Document, vars graphql.Vars) (json.RawMessage, error) {
	data, err := c.gql.Request(ctx, doc, vars)
	if err != nil {
		c.record(ctx, what, err)
		return nil, err
	}
	return data, nil
}

// fail reports an error the transport never saw (decode, render).
func (c *Catalog) fail(ctx context.Context, what string, err error) error {
	c.notify.Show("Error: "+err.Error(), notify.Error)
	c.record(ctx, what, err)
	return err
}

func (c *Catalog) invalid(ctx context.Context, what, message string) error {
	err := &ValidationError{Message: message}
	c.notify.Show(message, notify.Error)
	c.record(ctx, what, err)
	return err
}

func fetch[T any](ctx context.Context, c *Catalog, what string, doc graphql.Document, vars graphql.Vars, field string) (T, error) {
	var zero T
	data, err := c.request(ctx, what, doc, vars)
	if err != nil {
		return zero, err
	}
	out, err := graphql.Decode[T](data, field)
	if err != nil {
		return zero, c.fail(ctx, what, fmt.Errorf("%s: %w", doc.Operation, err))
	}
	return out, nil
}

func (c *Catalog) setHTML(ctx context.Context, what, container string, markup template.HTML, err error) error {
	if err != nil {
		return c.fail(ctx, what, fmt.Errorf("render %s: %w", container, err))
	}
	c.view.SetHTML(container, markup)
	return nil
}

// reload runs follow-up loads after a successful mutation. Their failures
// are reported by the loads themselves and do not fail the mutation.
func (c *Catalog) reload(ctx context.Context, loads ...func(context.Context) error) {
	for _, load := range loads {
		_ = load(ctx)
	}
}

// intValue parses a form value the way the page's number inputs are read:
// leading whitespace, an optional sign, then leading digits. Anything
// else, or a value outside Int32, is not a number.
func intValue(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	i, neg := 0, false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	limit := int64(math.MaxInt32)
	if neg {
		limit = -math.MinInt32
	}
	start := i
	var n int64
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
		if n > limit {
			return 0, false
		}
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return int(n), true
}

// intVar is intValue as a GraphQL variable; unparseable input becomes null.
func intVar(s string) interface{} {
	if n, ok := intValue(s); ok {
		return n
	}
	return nil
}
