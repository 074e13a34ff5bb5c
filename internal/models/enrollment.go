package models

// ApprovalStatus represents the server-assigned lifecycle of an enrollment.
type ApprovalStatus string

// Pending is the sole initial state. Approved and rejected are terminal and
// set only by a registrar-side actor; the client's one transition is deleting
// a pending record via cancel.
const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Enrollment is a formal, approval-gated registration created from a
// preregistration.
type Enrollment struct {
	ID           int            `json:"id"`
	UserID       int            `json:"user_id"`
	PreregID     int            `json:"prereg_id"`
	SemesterID   int            `json:"semester_id"`
	CourseID     int            `json:"course_id"`
	ScheduleID   int            `json:"schedId"`
	SubjectCode  string         `json:"subject_code"`
	SubjectTitle string         `json:"subject_title"`
	Section      string         `json:"section"`
	Units        int            `json:"units"`
	Status       ApprovalStatus `json:"status"`
}

// CanCancel reports whether the student may still withdraw the enrollment.
func (e Enrollment) CanCancel() bool {
	return e.Status == ApprovalPending
}
