package models

// PreregStatus is the lifecycle state of a preregistration record.
type PreregStatus string

// The portal only ever stores preregistrations as pending; the record is
// consumed (not transitioned) by the enroll action.
const PreregStatusPending PreregStatus = "pending"

// Preregistration is a server-confirmed course reservation awaiting
// enrollment. Read-only to the client apart from the enroll action.
type Preregistration struct {
	ID           int          `json:"id"`
	UserID       int          `json:"user_id"`
	SemesterID   int          `json:"semester_id"`
	CourseID     int          `json:"course_id"`
	ScheduleID   int          `json:"schedId"`
	Units        int          `json:"units"`
	Section      string       `json:"section"`
	SubjectCode  string       `json:"subject_code"`
	SubjectTitle string       `json:"subject_title"`
	Status       PreregStatus `json:"status"`
}

// CreatePreregRequest is the wire payload for POST /prereg/add. Numeric
// fields are integers on the wire even where the upstream UI held strings.
type CreatePreregRequest struct {
	UserID       int          `json:"user_id" validate:"required"`
	SemesterID   int          `json:"semester_id" validate:"required"`
	CourseID     int          `json:"course_id" validate:"required"`
	ScheduleID   int          `json:"schedId" validate:"required"`
	Units        int          `json:"units"`
	Section      string       `json:"section"`
	SubjectCode  string       `json:"subject_code"`
	SubjectTitle string       `json:"subject_title"`
	Status       PreregStatus `json:"status"`
}
