package controller

import (
	"context"

	"github.com/studentcatalog/catalog-web/internal/catalog"
	"github.com/studentcatalog/catalog-web/internal/graphql"
	"github.com/studentcatalog/catalog-web/internal/notify"
	"github.com/studentcatalog/catalog-web/internal/render"
	"github.com/studentcatalog/catalog-web/internal/ui"
	"github.com/studentcatalog/catalog-web/internal/view"
)

// Enroll adds the selected student to the selected course. Both lists are
// reloaded; the dropdowns are not, since enrollment does not change them.
func (c *Catalog) Enroll(ctx context.Context, ev *ui.Event) error {
	ev.PreventDefault()
	vars := graphql.Vars{
		"studentId": intVar(c.view.Value(view.EnrollStudentID)),
		"courseId":  intVar(c.view.Value(view.EnrollCourseID)),
	}
	if _, err := c.request(ctx, "Error enrolling student", enrollStudentDoc, vars); err != nil {
		return err
	}
	c.notify.Show("Student enrolled successfully!", notify.Success)
	c.view.ResetForm(view.EnrollForm)
	c.reload(ctx, c.LoadStudents, c.LoadCourses)
	return nil
}

func (c *Catalog) Unenroll(ctx context.Context, ev *ui.Event) error {
	ev.PreventDefault()
	vars := graphql.Vars{
		"studentId": intVar(c.view.Value(view.UnenrollStudentID)),
		"courseId":  intVar(c.view.Value(view.UnenrollCourseID)),
	}
	if _, err := c.request(ctx, "Error unenrolling student", unenrollStudentDoc, vars); err != nil {
		return err
	}
	c.notify.Show("Student unenrolled successfully!", notify.Success)
	c.view.ResetForm(view.UnenrollForm)
	c.reload(ctx, c.LoadStudents, c.LoadCourses)
	return nil
}

// LoadEnrollmentDropdowns fills the four enrollment selects. Students are
// fetched first; if either query fails no select is touched.
func (c *Catalog) LoadEnrollmentDropdowns(ctx context.Context) error {
	const what = "Error loading dropdowns"
	students, err := fetch[[]catalog.Option](ctx, c, what, studentOptionsDoc, nil, "students")
	if err != nil {
		return err
	}
	courses, err := fetch[[]catalog.Option](ctx, c, what, courseOptionsDoc, nil, "courses")
	if err != nil {
		return err
	}
	studentOpts, err := render.Options(render.SelectStudentOption, students)
	if err != nil {
		return c.fail(ctx, what, err)
	}
	courseOpts, err := render.Options(render.SelectCourseOption, courses)
	if err != nil {
		return c.fail(ctx, what, err)
	}
	c.view.SetHTML(view.EnrollStudentID, studentOpts)
	c.view.SetHTML(view.EnrollCourseID, courseOpts)
	c.view.SetHTML(view.UnenrollStudentID, studentOpts)
	c.view.SetHTML(view.UnenrollCourseID, courseOpts)
	return nil
}
