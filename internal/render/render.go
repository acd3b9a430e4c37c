// Package render maps catalog view-models to markup. Every value passes
// through html/template, so names are escaped for whichever context they
// land in: element text, attribute values, or JS string literals inside
// inline event handlers.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/studentcatalog/catalog-web/internal/catalog"
	"github.com/studentcatalog/catalog-web/internal/view"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/catalog.js
var script []byte

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Placeholder texts.
const (
	NoStudents          = "No students found"
	NoCourses           = "No courses found"
	NoStudentWithID     = "No student found with that ID"
	NoStudentsWithName  = "No students found with that name"
	NoCoursesWithName   = "No courses found with that name"
	SelectStudentOption = "Select Student"
	SelectCourseOption  = "Select Course"
)

func execute(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// EmptyState renders the muted placeholder used for empty lists and
// searches without matches.
func EmptyState(text string) template.HTML {
	out, err := execute("empty-state", text)
	if err != nil {
		return ""
	}
	return out
}

// StudentList renders student cards, or the empty placeholder.
func StudentList(students []catalog.Student) (template.HTML, error) {
	if len(students) == 0 {
		return EmptyState(NoStudents), nil
	}
	return execute("student-list", students)
}

// CourseList renders course cards, or the empty placeholder.
func CourseList(courses []catalog.Course) (template.HTML, error) {
	if len(courses) == 0 {
		return EmptyState(NoCourses), nil
	}
	return execute("course-list", courses)
}

// StudentSearchResults renders student matches. notFound is shown when
// there are none.
func StudentSearchResults(students []catalog.Student, notFound string) (template.HTML, error) {
	if len(students) == 0 {
		return EmptyState(notFound), nil
	}
	return execute("student-search", students)
}

// CourseSearchResults renders course matches. notFound is shown when
// there are none.
func CourseSearchResults(courses []catalog.Course, notFound string) (template.HTML, error) {
	if len(courses) == 0 {
		return EmptyState(notFound), nil
	}
	return execute("course-search", courses)
}

// Options renders a dropdown's option list behind a placeholder entry.
func Options(placeholder string, items []catalog.Option) (template.HTML, error) {
	return execute("options", struct {
		Placeholder string
		Items       []catalog.Option
	}{placeholder, items})
}

// PageData is the view-model of the full page.
type PageData struct {
	Values     map[string]string
	Containers map[string]template.HTML
	Panels     map[string]bool
	Status     view.Status
	HideInMs   int64
}

var containers = []string{
	view.StudentsList, view.CoursesList, view.SearchResults,
	view.EnrollStudentID, view.EnrollCourseID, view.UnenrollStudentID, view.UnenrollCourseID,
}

var panels = []string{view.EditStudentContainer, view.EditCourseContainer}

// NewPageData snapshots p as of now.
func NewPageData(p *view.Page, now time.Time) PageData {
	d := PageData{
		Values:     map[string]string{},
		Containers: map[string]template.HTML{},
		Panels:     map[string]bool{},
		Status:     p.Status(now),
	}
	for _, ids := range view.Forms {
		for _, id := range ids {
			d.Values[id] = p.Value(id)
		}
	}
	for _, id := range []string{view.SearchStudentID, view.SearchStudentName, view.SearchCourseName} {
		d.Values[id] = p.Value(id)
	}
	for _, id := range containers {
		d.Containers[id] = p.HTML(id)
	}
	for _, id := range panels {
		d.Panels[id] = p.PanelVisible(id)
	}
	if d.Status.Visible {
		d.HideInMs = d.Status.HideAt.Sub(now).Milliseconds()
	}
	return d
}

// Page renders the full catalog page for p.
func Page(p *view.Page, now time.Time) (template.HTML, error) {
	return execute("page", NewPageData(p, now))
}

// Script returns the browser event shim served at /static/catalog.js.
func Script() []byte { return script }
