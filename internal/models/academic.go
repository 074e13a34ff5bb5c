package models

// Semester is an academic term offered by the institution.
type Semester struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// GradeEntry is one graded subject line on the grades screen.
type GradeEntry struct {
	SubjectCode  string `json:"subject_code"`
	SubjectTitle string `json:"subject_title"`
	Units        int    `json:"units"`
	Grade        string `json:"grade"`
	Remarks      string `json:"remarks"`
}

// RegistrationForm is the per-semester summary of a student's enrollments.
type RegistrationForm struct {
	UserID     int          `json:"user_id"`
	SemesterID int          `json:"semester_id"`
	Semester   string       `json:"semester"`
	Program    string       `json:"program"`
	Courses    []Enrollment `json:"courses"`
	TotalUnits int          `json:"total_units"`
}

// ScheduleEntry is one row of the subjects-schedule page.
type ScheduleEntry struct {
	SubjectCode string `json:"subject_code"`
	Section     string `json:"section"`
	Schedule    string `json:"schedule"`
	Room        string `json:"room"`
	Instructor  string `json:"instructor"`
}
