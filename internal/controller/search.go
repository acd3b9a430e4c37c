package controller

import (
	"context"
	"strings"

	"github.com/studentcatalog/catalog-web/internal/catalog"
	"github.com/studentcatalog/catalog-web/internal/graphql"
	"github.com/studentcatalog/catalog-web/internal/render"
	"github.com/studentcatalog/catalog-web/internal/ui"
	"github.com/studentcatalog/catalog-web/internal/view"
)

// Validation messages.
const (
	MsgEnterStudentID   = "Please enter a student ID"
	MsgEnterStudentName = "Please enter a student name"
	MsgEnterCourseName  = "Please enter a course name"
)

func (c *Catalog) SearchStudentByID(ctx context.Context, ev *ui.Event) error {
	ev.PreventDefault()
	const what = "Error searching student"
	id, ok := intValue(c.view.Value(view.SearchStudentID))
	if !ok || id == 0 {
		return c.invalid(ctx, what, MsgEnterStudentID)
	}
	st, err := fetch[*catalog.Student](ctx, c, what, getStudentDoc, graphql.Vars{"id": id}, "student")
	if err != nil {
		return err
	}
	var found []catalog.Student
	if st != nil {
		found = []catalog.Student{*st}
	}
	markup, err := render.StudentSearchResults(found, render.NoStudentWithID)
	return c.setHTML(ctx, what, view.SearchResults, markup, err)
}

func (c *Catalog) SearchStudentByName(ctx context.Context, ev *ui.Event) error {
	ev.PreventDefault()
	const what = "Error searching students"
	name := strings.TrimSpace(c.view.Value(view.SearchStudentName))
	if name == "" {
		return c.invalid(ctx, what, MsgEnterStudentName)
	}
	students, err := fetch[[]catalog.Student](ctx, c, what, searchStudentsDoc, graphql.Vars{"name": name}, "studentsByName")
	if err != nil {
		return err
	}
	markup, err := render.StudentSearchResults(students, render.NoStudentsWithName)
	return c.setHTML(ctx, what, view.SearchResults, markup, err)
}

func (c *Catalog) SearchCourseByName(ctx context.Context, ev *ui.Event) error {
	ev.PreventDefault()
	const what = "Error searching courses"
	name := strings.TrimSpace(c.view.Value(view.SearchCourseName))
	if name == "" {
		return c.invalid(ctx, what, MsgEnterCourseName)
	}
	courses, err := fetch[[]catalog.Course](ctx, c, what, searchCoursesDoc, graphql.Vars{"name": name}, "coursesByName")
	if err != nil {
		return err
	}
	markup, err := render.CourseSearchResults(courses, render.NoCoursesWithName)
	return c.setHTML(ctx, what, view.SearchResults, markup, err)
}
