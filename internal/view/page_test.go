package view

import (
	"encoding/json"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResetFormClearsOnlyItsFields(t *testing.T) {
	p := NewPage()
	p.SetValue(StudentName, "Ada")
	p.SetValue(StudentEmail, "ada@example.com")
	p.SetValue(CourseName, "Maths")

	p.ResetForm(AddStudentForm)

	require.Empty(t, p.Value(StudentName))
	require.Empty(t, p.Value(StudentEmail))
	require.Equal(t, "Maths", p.Value(CourseName))
}

func TestPanelsAndScroll(t *testing.T) {
	p := NewPage()
	require.False(t, p.PanelVisible(EditStudentContainer))

	p.ShowPanel(EditStudentContainer)
	p.ScrollIntoView(EditStudentContainer)
	require.True(t, p.PanelVisible(EditStudentContainer))
	require.Equal(t, EditStudentContainer, p.TakeScroll())
	require.Empty(t, p.TakeScroll())

	p.HidePanel(EditStudentContainer)
	require.False(t, p.PanelVisible(EditStudentContainer))
}

func TestStatusHonoursDeadline(t *testing.T) {
	p := NewPage()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p.ShowStatus("Error: boom", "message error", now.Add(3*time.Second))

	s := p.Status(now.Add(time.Second))
	require.True(t, s.Visible)
	require.Equal(t, "message error", s.Class)

	require.False(t, p.Status(now.Add(3*time.Second)).Visible)

	p.ShowStatus("again", "message success", now.Add(10*time.Second))
	p.HideStatus()
	require.False(t, p.Status(now).Visible)
}

func TestPageJSONRoundTripKeepsState(t *testing.T) {
	p := NewPage()
	p.SetValue(SearchStudentName, "ada")
	p.SetHTML(StudentsList, template.HTML(`<div class="empty-state">No students found</div>`))
	p.ShowPanel(EditCourseContainer)
	p.MarkLoaded()

	b, err := json.Marshal(p)
	require.NoError(t, err)

	q := NewPage()
	require.NoError(t, json.Unmarshal(b, q))
	require.Equal(t, "ada", q.Value(SearchStudentName))
	require.Equal(t, p.HTML(StudentsList), q.HTML(StudentsList))
	require.True(t, q.PanelVisible(EditCourseContainer))
	require.True(t, q.Loaded())

	// maps are usable after decoding an empty object
	r := NewPage()
	require.NoError(t, json.Unmarshal([]byte(`{}`), r))
	r.SetValue(CourseName, "x")
	require.Equal(t, "x", r.Value(CourseName))
}

func TestIsField(t *testing.T) {
	require.True(t, IsField(StudentName))
	require.True(t, IsField(EditCourseID))
	require.True(t, IsField(SearchStudentID))
	require.False(t, IsField(StudentsList))
	require.False(t, IsField("password"))
}
