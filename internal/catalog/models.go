package catalog

// Student mirrors the GraphQL student type. Courses reflects current
// enrollment as returned by the server; the client never edits it.
type Student struct {
	ID      ID          `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Courses []CourseRef `json:"courses,omitempty"`
}

// Course mirrors the GraphQL course type.
type Course struct {
	ID       ID           `json:"id"`
	Name     string       `json:"name"`
	Students []StudentRef `json:"students,omitempty"`
}

// CourseRef is a course as nested under a student.
type CourseRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// StudentRef is a student as nested under a course.
type StudentRef struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Option is one entry of an enrollment dropdown.
type Option struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}
