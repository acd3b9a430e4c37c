// Package graphqltest is an in-memory catalog GraphQL endpoint. Documents
// are parsed with gqlparser and each root field is resolved against an
// in-process store; results are projected onto the requested selection
// set. It records every operation it receives.
package graphqltest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/studentcatalog/catalog-web/internal/catalog"
)

// Call is one received request.
type Call struct {
	Operation string
	Fields    []string
	Variables map[string]interface{}
}

type student struct {
	id          int
	name, email string
}

type course struct {
	id   int
	name string
}

// Server implements http.Handler.
type Server struct {
	mu          sync.Mutex
	students    map[int]*student
	courses     map[int]*course
	enrolled    map[[2]int]bool
	nextStudent int
	nextCourse  int
	calls       []Call
	failures    map[string]string

	// ErrorStatus is the HTTP status used for error envelopes; 200 when zero.
	ErrorStatus int
	// StringIDs serializes ids as GraphQL ID strings ("7"), the way a
	// graphene-sqlalchemy backend does.
	StringIDs bool
}

func New() *Server {
	return &Server{
		students:    map[int]*student{},
		courses:     map[int]*course{},
		enrolled:    map[[2]int]bool{},
		nextStudent: 1,
		nextCourse:  1,
		failures:    map[string]string{},
	}
}

// Start serves a new fake on an httptest server closed with tb.
func Start(tb testing.TB) (*Server, string) {
	tb.Helper()
	s := New()
	ts := httptest.NewServer(s)
	tb.Cleanup(ts.Close)
	return s, ts.URL
}

// SeedStudent inserts a student directly and returns it.
func (s *Server) SeedStudent(name, email string) catalog.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.insertStudent(name, email)
	return catalog.Student{ID: catalog.ID(st.id), Name: st.name, Email: st.email}
}

// SeedCourse inserts a course directly and returns it.
func (s *Server) SeedCourse(name string) catalog.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.insertCourse(name)
	return catalog.Course{ID: catalog.ID(c.id), Name: c.name}
}

func (s *Server) SeedEnrollment(studentID, courseID catalog.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrolled[[2]int{int(studentID), int(courseID)}] = true
}

// SetNextStudentID makes the next inserted student take id.
func (s *Server) SetNextStudentID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextStudent = id
}

func (s *Server) SetNextCourseID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCourse = id
}

// Fail makes every request selecting field answer with message as a
// top-level error until Recover is called.
func (s *Server) Fail(field, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[field] = message
}

func (s *Server) Recover(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, field)
}

// Calls returns the received requests in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Operations returns the operation names received, in arrival order.
func (s *Server) Operations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Operation)
	}
	return out
}

// ResetCalls forgets the recorded requests.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type gqlError struct {
	Message string `json:"message"`
}

type response struct {
	Data   interface{} `json:"data"`
	Errors []gqlError  `json:"errors,omitempty"`
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrors(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		s.writeErrors(w, http.StatusBadRequest, err.Error())
		return
	}
	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		s.writeErrors(w, http.StatusBadRequest, fmt.Sprintf("unknown operation %q", req.OperationName))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	call := Call{Operation: req.OperationName, Variables: req.Variables}
	for _, sel := range op.SelectionSet {
		if f, ok := sel.(*ast.Field); ok {
			call.Fields = append(call.Fields, f.Name)
		}
	}
	s.calls = append(s.calls, call)

	data := map[string]interface{}{}
	for _, sel := range op.SelectionSet {
		f, ok := sel.(*ast.Field)
		if !ok {
			continue
		}
		if msg, failing := s.failures[f.Name]; failing {
			s.writeErrorsLocked(w, msg)
			return
		}
		args, err := arguments(f, req.Variables)
		if err != nil {
			s.writeErrorsLocked(w, err.Error())
			return
		}
		v, err := s.resolve(op.Operation, f.Name, args)
		if err != nil {
			s.writeErrorsLocked(w, err.Error())
			return
		}
		key := f.Alias
		if key == "" {
			key = f.Name
		}
		data[key] = project(v, f.SelectionSet)
	}
	writeJSON(w, http.StatusOK, response{Data: data})
}

func (s *Server) writeErrors(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Errors: []gqlError{{Message: msg}}})
}

func (s *Server) writeErrorsLocked(w http.ResponseWriter, msg string) {
	status := s.ErrorStatus
	if status == 0 {
		status = http.StatusOK
	}
	s.writeErrors(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func arguments(f *ast.Field, vars map[string]interface{}) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	for _, a := range f.Arguments {
		if a.Value == nil {
			continue
		}
		v, err := a.Value.Value(vars)
		if err != nil {
			return nil, err
		}
		out[a.Name] = v
	}
	return out, nil
}

func (s *Server) resolve(kind ast.Operation, field string, args map[string]interface{}) (interface{}, error) {
	if kind == ast.Mutation {
		return s.mutate(field, args)
	}
	switch field {
	case "students":
		out := []interface{}{}
		for _, st := range s.sortedStudents() {
			out = append(out, s.studentObject(st))
		}
		return out, nil
	case "student":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, err
		}
		st, ok := s.students[id]
		if !ok {
			return nil, nil
		}
		return s.studentObject(st), nil
	case "studentsByName":
		name, err := stringArg(args, "name")
		if err != nil {
			return nil, err
		}
		out := []interface{}{}
		for _, st := range s.sortedStudents() {
			if containsFold(st.name, name) {
				out = append(out, s.studentObject(st))
			}
		}
		return out, nil
	case "courses":
		out := []interface{}{}
		for _, c := range s.sortedCourses() {
			out = append(out, s.courseObject(c))
		}
		return out, nil
	case "coursesByName":
		name, err := stringArg(args, "name")
		if err != nil {
			return nil, err
		}
		out := []interface{}{}
		for _, c := range s.sortedCourses() {
			if containsFold(c.name, name) {
				out = append(out, s.courseObject(c))
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("Cannot query field %q on type \"Query\".", field)
}

func (s *Server) mutate(field string, args map[string]interface{}) (interface{}, error) {
	switch field {
	case "addStudent":
		name, err := stringArg(args, "name")
		if err != nil {
			return nil, err
		}
		email, err := stringArg(args, "email")
		if err != nil {
			return nil, err
		}
		if s.emailTaken(email, 0) {
			return nil, fmt.Errorf("UNIQUE constraint failed: students.email")
		}
		st := s.insertStudent(name, email)
		return map[string]interface{}{"student": s.studentObject(st)}, nil
	case "updateStudent":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, err
		}
		st, ok := s.students[id]
		if !ok {
			return nil, fmt.Errorf("Student not found")
		}
		if name, ok := args["name"].(string); ok && name != "" {
			st.name = name
		}
		if email, ok := args["email"].(string); ok && email != "" {
			if s.emailTaken(email, id) {
				return nil, fmt.Errorf("UNIQUE constraint failed: students.email")
			}
			st.email = email
		}
		return map[string]interface{}{"student": s.studentObject(st)}, nil
	case "addCourse":
		name, err := stringArg(args, "name")
		if err != nil {
			return nil, err
		}
		c := s.insertCourse(name)
		return map[string]interface{}{"course": s.courseObject(c)}, nil
	case "updateCourse":
		id, err := intArg(args, "id")
		if err != nil {
			return nil, err
		}
		name, err := stringArg(args, "name")
		if err != nil {
			return nil, err
		}
		c, ok := s.courses[id]
		if !ok {
			return nil, fmt.Errorf("Course not found")
		}
		c.name = name
		return map[string]interface{}{"course": s.courseObject(c)}, nil
	case "enrollStudent", "unenrollStudent":
		sid, err := intArg(args, "studentId")
		if err != nil {
			return nil, err
		}
		cid, err := intArg(args, "courseId")
		if err != nil {
			return nil, err
		}
		st, sok := s.students[sid]
		_, cok := s.courses[cid]
		if !sok || !cok {
			return nil, fmt.Errorf("Student or course not found")
		}
		key := [2]int{sid, cid}
		if field == "enrollStudent" {
			if s.enrolled[key] {
				return nil, fmt.Errorf("Student is already enrolled in this course")
			}
			s.enrolled[key] = true
		} else {
			if !s.enrolled[key] {
				return nil, fmt.Errorf("Student is not enrolled in this course")
			}
			delete(s.enrolled, key)
		}
		return map[string]interface{}{"student": s.studentObject(st)}, nil
	}
	return nil, fmt.Errorf("Cannot query field %q on type \"Mutation\".", field)
}

func (s *Server) insertStudent(name, email string) *student {
	st := &student{id: s.nextStudent, name: name, email: email}
	s.students[st.id] = st
	s.nextStudent = st.id + 1
	return st
}

func (s *Server) insertCourse(name string) *course {
	c := &course{id: s.nextCourse, name: name}
	s.courses[c.id] = c
	s.nextCourse = c.id + 1
	return c
}

func (s *Server) emailTaken(email string, except int) bool {
	for id, st := range s.students {
		if id != except && st.email == email {
			return true
		}
	}
	return false
}

func (s *Server) sortedStudents() []*student {
	out := make([]*student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (s *Server) sortedCourses() []*course {
	out := make([]*course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (s *Server) idValue(id int) interface{} {
	if s.StringIDs {
		return strconv.Itoa(id)
	}
	return id
}

func (s *Server) studentObject(st *student) map[string]interface{} {
	courses := []interface{}{}
	for _, c := range s.sortedCourses() {
		if s.enrolled[[2]int{st.id, c.id}] {
			courses = append(courses, map[string]interface{}{"id": s.idValue(c.id), "name": c.name})
		}
	}
	return map[string]interface{}{"id": s.idValue(st.id), "name": st.name, "email": st.email, "courses": courses}
}

func (s *Server) courseObject(c *course) map[string]interface{} {
	students := []interface{}{}
	for _, st := range s.sortedStudents() {
		if s.enrolled[[2]int{st.id, c.id}] {
			students = append(students, map[string]interface{}{"id": s.idValue(st.id), "name": st.name, "email": st.email})
		}
	}
	return map[string]interface{}{"id": s.idValue(c.id), "name": c.name, "students": students}
}

// project keeps only the selected fields of v.
func project(v interface{}, set ast.SelectionSet) interface{} {
	if len(set) == 0 || v == nil {
		return v
	}
	switch t := v.(type) {
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, item := range t {
			out = append(out, project(item, set))
		}
		return out
	case map[string]interface{}:
		out := map[string]interface{}{}
		for _, sel := range set {
			f, ok := sel.(*ast.Field)
			if !ok {
				continue
			}
			key := f.Alias
			if key == "" {
				key = f.Name
			}
			out[key] = project(t[f.Name], f.SelectionSet)
		}
		return out
	}
	return v
}

func intArg(args map[string]interface{}, name string) (int, error) {
	missing := fmt.Errorf("Variable \"$%s\" of required type \"Int!\" was not provided.", name)
	switch v := args[name].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("Int cannot represent non-integer value: %s", v)
		}
		return int(n), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("Int cannot represent non-integer value: %q", v)
		}
		return n, nil
	}
	return 0, missing
}

func stringArg(args map[string]interface{}, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok {
		return "", fmt.Errorf("Variable \"$%s\" of required type \"String!\" was not provided.", name)
	}
	return v, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
