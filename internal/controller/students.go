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

func (c *Catalog) AddStudent(ctx context.Context, ev *ui.Event) error {
	ev.PreventDefault()
	vars := graphql.Vars{
		"name":  c.view.Value(view.StudentName),
		"email": c.view.Value(view.StudentEmail),
	}
	if _, err := c.request(ctx, "Error adding student", addStudentDoc, vars); err != nil {
		return err
	}
	c.notify.Show("Student added successfully!", notify.Success)
	c.view.ResetForm(view.AddStudentForm)
	c.reload(ctx, c.LoadStudents, c.LoadEnrollmentDropdowns)
	return nil
}

func (c *Catalog) UpdateStudent(ctx context.Context, ev *ui.Event) error {
	ev.PreventDefault()
	vars := graphql.Vars{
		"id":    intVar(c.view.Value(view.EditStudentID)),
		"name":  c.view.Value(view.EditStudentName),
		"email": c.view.Value(view.EditStudentEmail),
	}
	if _, err := c.request(ctx, "Error updating student", updateStudentDoc, vars); err != nil {
		return err
	}
	c.notify.Show("Student updated successfully!", notify.Success)
	c.cancelEdit(EditStudent)
	c.reload(ctx, c.LoadStudents, c.LoadEnrollmentDropdowns)
	return nil
}

// LoadStudents renders the full student list.
func (c *Catalog) LoadStudents(ctx context.Context) error {
	const what = "Error loading students"
	students, err := fetch[[]catalog.Student](ctx, c, what, studentsDoc, nil, "students")
	if err != nil {
		return err
	}
	markup, err := render.StudentList(students)
	return c.setHTML(ctx, what, view.StudentsList, markup, err)
}

// EditStudent opens the edit panel prefilled with the clicked card.
func (c *Catalog) EditStudent(_ context.Context, ev *ui.Event) error {
	c.view.SetValue(view.EditStudentID, ev.Arg("id"))
	c.view.SetValue(view.EditStudentName, ev.Arg("name"))
	c.view.SetValue(view.EditStudentEmail, ev.Arg("email"))
	c.view.ShowPanel(view.EditStudentContainer)
	c.view.ScrollIntoView(view.EditStudentContainer)
	return nil
}
