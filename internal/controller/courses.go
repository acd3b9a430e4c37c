package controller

import (
	"context"

	"github.com/studentcatalog/catalog-web/internal/catalog"
	"github.com/studentcatalog/catalog-web/internal/graphql"
	"github.com/studentcatalog/catalog-web/internal/notify"
	"github.com/studentcatalog/catalog-web/internal/render"
	"github.com/studentcatalog/catalog-web/internal/ui"
	"github.com/studentcatalog/catalog-web/internal/view"
	"github.com/studentcatalog/catalog-web/pkg/logger"
)

// Edit panel kinds accepted by cancelEdit.
const (
	EditStudent = "student"
	EditCourse  = "course"
)

func (c *Catalog) AddCourse(ctx context.Context, ev *ui.Event) error {
	ev.PreventDefault()
	vars := graphql.Vars{"name": c.view.Value(view.CourseName)}
	if _, err := c.request(ctx, "Error adding course", addCourseDoc, vars); err != nil {
		return err
	}
	c.notify.Show("Course added successfully!", notify.Success)
	c.view.ResetForm(view.AddCourseForm)
	c.reload(ctx, c.LoadCourses, c.LoadEnrollmentDropdowns)
	return nil
}

func (c *Catalog) UpdateCourse(ctx context.Context, ev *ui.Event) error {
	ev.PreventDefault()
	vars := graphql.Vars{
		"id":   intVar(c.view.Value(view.EditCourseID)),
		"name": c.view.Value(view.EditCourseName),
	}
	if _, err := c.request(ctx, "Error updating course", updateCourseDoc, vars); err != nil {
		return err
	}
	c.notify.Show("Course updated successfully!", notify.Success)
	c.cancelEdit(EditCourse)
	c.reload(ctx, c.LoadCourses, c.LoadEnrollmentDropdowns)
	return nil
}

// LoadCourses renders the full course list.
func (c *Catalog) LoadCourses(ctx context.Context) error {
	const what = "Error loading courses"
	courses, err := fetch[[]catalog.Course](ctx, c, what, coursesDoc, nil, "courses")
	if err != nil {
		return err
	}
	markup, err := render.CourseList(courses)
	return c.setHTML(ctx, what, view.CoursesList, markup, err)
}

func (c *Catalog) EditCourse(_ context.Context, ev *ui.Event) error {
	c.view.SetValue(view.EditCourseID, ev.Arg("id"))
	c.view.SetValue(view.EditCourseName, ev.Arg("name"))
	c.view.ShowPanel(view.EditCourseContainer)
	c.view.ScrollIntoView(view.EditCourseContainer)
	return nil
}

// CancelEdit closes the edit panel named by the "type" argument.
func (c *Catalog) CancelEdit(_ context.Context, ev *ui.Event) error {
	c.cancelEdit(ev.Arg("type"))
	return nil
}

func (c *Catalog) cancelEdit(kind string) {
	switch kind {
	case EditStudent:
		c.view.HidePanel(view.EditStudentContainer)
		c.view.ResetForm(view.EditStudentForm)
	case EditCourse:
		c.view.HidePanel(view.EditCourseContainer)
		c.view.ResetForm(view.EditCourseForm)
	default:
		logger.Debugf("cancelEdit: ignoring unknown kind %q", kind)
	}
}
