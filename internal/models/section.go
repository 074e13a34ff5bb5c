package models

// Section represents one offered schedule/section of a subject for a semester.
// Sections are owned by the portal; the client only ever holds copies.
type Section struct {
	ScheduleID     int    `json:"schedId" db:"sched_id"`
	SubjectCode    string `json:"subject_code" db:"subject_code"`
	SubjectTitle   string `json:"subject_title" db:"subject_title"`
	Section        string `json:"section" db:"section"`
	SemesterID     int    `json:"semester_id" db:"semester_id"`
	CourseID       int    `json:"course_id" db:"course_id"`
	Units          int    `json:"units" db:"units"`
	SlotsRemaining int    `json:"slots_remaining" db:"slots_remaining"`
	Schedule       string `json:"schedule" db:"schedule"`
}

// SectionQuery captures the supported filters for listing offered sections.
type SectionQuery struct {
	Search  string
	Page    int
	PerPage int
}

// PageMeta mirrors the pagination metadata returned by catalog endpoints.
type PageMeta struct {
	Page     int `json:"current_page"`
	PerPage  int `json:"per_page"`
	LastPage int `json:"last_page"`
	Total    int `json:"total"`
}

// DisplayedCount returns how many rows the current page should hold given the
// totals, clamped to zero for out-of-range pages.
func (m PageMeta) DisplayedCount() int {
	if m.PerPage <= 0 {
		return 0
	}
	upper := m.Page * m.PerPage
	if upper > m.Total {
		upper = m.Total
	}
	n := upper - (m.Page-1)*m.PerPage
	if n < 0 {
		return 0
	}
	return n
}
