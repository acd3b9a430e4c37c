package controller

import "github.com/studentcatalog/catalog-web/internal/graphql"

var (
	addStudentDoc = graphql.Document{Operation: "AddStudent", Query: `
mutation AddStudent($name: String!, $email: String!) {
  addStudent(name: $name, email: $email) {
    student { id name email }
  }
}`}

	updateStudentDoc = graphql.Document{Operation: "UpdateStudent", Query: `
mutation UpdateStudent($id: Int!, $name: String, $email: String) {
  updateStudent(id: $id, name: $name, email: $email) {
    student { id name email }
  }
}`}

	studentsDoc = graphql.Document{Operation: "Students", Query: `
query Students {
  students {
    id name email
    courses { id name }
  }
}`}

	addCourseDoc = graphql.Document{Operation: "AddCourse", Query: `
mutation AddCourse($name: String!) {
  addCourse(name: $name) {
    course { id name }
  }
}`}

	updateCourseDoc = graphql.Document{Operation: "UpdateCourse", Query: `
mutation UpdateCourse($id: Int!, $name: String!) {
  updateCourse(id: $id, name: $name) {
    course { id name }
  }
}`}

	coursesDoc = graphql.Document{Operation: "Courses", Query: `
query Courses {
  courses {
    id name
    students { id name email }
  }
}`}

	enrollStudentDoc = graphql.Document{Operation: "EnrollStudent", Query: `
mutation EnrollStudent($studentId: Int!, $courseId: Int!) {
  enrollStudent(studentId: $studentId, courseId: $courseId) {
    student { id name courses { id name } }
  }
}`}

	unenrollStudentDoc = graphql.Document{Operation: "UnenrollStudent", Query: `
mutation UnenrollStudent($studentId: Int!, $courseId: Int!) {
  unenrollStudent(studentId: $studentId, courseId: $courseId) {
    student { id name courses { id name } }
  }
}`}

	studentOptionsDoc = graphql.Document{Operation: "StudentOptions", Query: `
query StudentOptions {
  students { id name }
}`}

	courseOptionsDoc = graphql.Document{Operation: "CourseOptions", Query: `
query CourseOptions {
  courses { id name }
}`}

	getStudentDoc = graphql.Document{Operation: "GetStudent", Query: `
query GetStudent($id: Int!) {
  student(id: $id) {
    id name email
    courses { id name }
  }
}`}

	searchStudentsDoc = graphql.Document{Operation: "SearchStudents", Query: `
query SearchStudents($name: String!) {
  studentsByName(name: $name) {
    id name email
    courses { id name }
  }
}`}

	searchCoursesDoc = graphql.Document{Operation: "SearchCourses", Query: `
query SearchCourses($name: String!) {
  coursesByName(name: $name) {
    id name
    students { id name email }
  }
}`}
)
