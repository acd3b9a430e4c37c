package view

// Element ids of the catalog page.
const (
	// student forms
	AddStudentForm       = "addStudentForm"
	StudentName          = "studentName"
	StudentEmail         = "studentEmail"
	EditStudentContainer = "editStudentContainer"
	EditStudentForm      = "editStudentForm"
	EditStudentID        = "editStudentId"
	EditStudentName      = "editStudentName"
	EditStudentEmail     = "editStudentEmail"

	// course forms
	AddCourseForm       = "addCourseForm"
	CourseName          = "courseName"
	EditCourseContainer = "editCourseContainer"
	EditCourseForm      = "editCourseForm"
	EditCourseID        = "editCourseId"
	EditCourseName      = "editCourseName"

	// enrollment forms; the selects double as option containers
	EnrollForm        = "enrollForm"
	EnrollStudentID   = "enrollStudentId"
	EnrollCourseID    = "enrollCourseId"
	UnenrollForm      = "unenrollForm"
	UnenrollStudentID = "unenrollStudentId"
	UnenrollCourseID  = "unenrollCourseId"

	// search inputs
	SearchStudentID   = "searchStudentId"
	SearchStudentName = "searchStudentName"
	SearchCourseName  = "searchCourseName"

	// containers
	StudentsList  = "studentsList"
	CoursesList   = "coursesList"
	SearchResults = "searchResults"

	// status banner
	Message = "message"
)

// Forms lists the fields each form resets.
var Forms = map[string][]string{
	AddStudentForm:  {StudentName, StudentEmail},
	EditStudentForm: {EditStudentID, EditStudentName, EditStudentEmail},
	AddCourseForm:   {CourseName},
	EditCourseForm:  {EditCourseID, EditCourseName},
	EnrollForm:      {EnrollStudentID, EnrollCourseID},
	UnenrollForm:    {UnenrollStudentID, UnenrollCourseID},
}

var fields = func() map[string]bool {
	m := map[string]bool{
		SearchStudentID:   true,
		SearchStudentName: true,
		SearchCourseName:  true,
	}
	for _, ids := range Forms {
		for _, id := range ids {
			m[id] = true
		}
	}
	return m
}()

// IsField reports whether id names an input the page tracks.
func IsField(id string) bool { return fields[id] }
