package stub

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/uniport/uniport-portal/internal/models"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

// Account is a login identity known to the stub.
type Account struct {
	ID           int
	Email        string
	Name         string
	PasswordHash []byte
}

// Store holds the stub portal's in-memory state. It exists so the client and
// workflows can be exercised end to end without the real backend.
type Store struct {
	mu          sync.Mutex
	accounts    map[string]*Account
	sections    []models.Section
	preregs     map[int]*models.Preregistration
	enrollments map[int]*models.Enrollment
	semesters   []models.Semester
	profiles    map[int]*models.Profile
	grades      map[int][]models.GradeEntry
	schedule    map[int][]models.ScheduleEntry
	nextID      int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		accounts:    make(map[string]*Account),
		preregs:     make(map[int]*models.Preregistration),
		enrollments: make(map[int]*models.Enrollment),
		profiles:    make(map[int]*models.Profile),
		grades:      make(map[int][]models.GradeEntry),
		schedule:    make(map[int][]models.ScheduleEntry),
		nextID:      1,
	}
}

// AddAccount registers a login with a plaintext password.
func (s *Store) AddAccount(email, name, password string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := &Account{ID: s.nextID, Email: email, Name: name, PasswordHash: hash}
	s.nextID++
	s.accounts[strings.ToLower(email)] = acct
	return acct, nil
}

// Authenticate verifies credentials and returns the matching account.
func (s *Store) Authenticate(email, password string) (*Account, error) {
	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		return nil, appErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	return acct, nil
}

// SetSections replaces the offered-section catalog.
func (s *Store) SetSections(sections []models.Section) {
	s.mu.Lock()
	s.sections = sections
	s.mu.Unlock()
}

// Sections returns one filtered catalog page plus its metadata.
func (s *Store) Sections(search string, page, perPage int) ([]models.Section, models.PageMeta) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Section
	needle := strings.ToLower(search)
	for _, sec := range s.sections {
		if needle == "" ||
			strings.Contains(strings.ToLower(sec.SubjectCode), needle) ||
			strings.Contains(strings.ToLower(sec.SubjectTitle), needle) {
			matched = append(matched, sec)
		}
	}

	total := len(matched)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	out := make([]models.Section, end-start)
	copy(out, matched[start:end])
	meta := models.PageMeta{Page: page, PerPage: perPage, LastPage: lastPage, Total: total}
	return out, meta
}

// AddPrereg records a preregistration, rejecting duplicates per user and
// schedule id.
func (s *Store) AddPrereg(req models.CreatePreregRequest) (*models.Preregistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.preregs {
		if p.UserID == req.UserID && p.ScheduleID == req.ScheduleID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already preregistered")
		}
	}

	prereg := &models.Preregistration{
		ID:           s.nextID,
		UserID:       req.UserID,
		SemesterID:   req.SemesterID,
		CourseID:     req.CourseID,
		ScheduleID:   req.ScheduleID,
		Units:        req.Units,
		Section:      req.Section,
		SubjectCode:  req.SubjectCode,
		SubjectTitle: req.SubjectTitle,
		Status:       models.PreregStatusPending,
	}
	s.nextID++
	s.preregs[prereg.ID] = prereg
	return prereg, nil
}

// PreregsByUser lists a user's preregistrations ordered by id.
func (s *Store) PreregsByUser(userID int) []models.Preregistration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Preregistration
	for _, p := range s.preregs {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EnrollPrereg consumes a preregistration, creating a pending enrollment.
func (s *Store) EnrollPrereg(preregID int) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prereg, ok := s.preregs[preregID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "preregistration not found")
	}
	for _, e := range s.enrollments {
		if e.PreregID == preregID {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already enrolled")
		}
	}

	enrollment := &models.Enrollment{
		ID:           s.nextID,
		UserID:       prereg.UserID,
		PreregID:     prereg.ID,
		SemesterID:   prereg.SemesterID,
		CourseID:     prereg.CourseID,
		ScheduleID:   prereg.ScheduleID,
		SubjectCode:  prereg.SubjectCode,
		SubjectTitle: prereg.SubjectTitle,
		Section:      prereg.Section,
		Units:        prereg.Units,
		Status:       models.ApprovalPending,
	}
	s.nextID++
	s.enrollments[enrollment.ID] = enrollment
	delete(s.preregs, preregID)
	return enrollment, nil
}

// EnrollmentsByUser lists a user's enrollments for a semester (all semesters
// when semesterID is zero), ordered by id.
func (s *Store) EnrollmentsByUser(userID, semesterID int) []models.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Enrollment
	for _, e := range s.enrollments {
		if e.UserID == userID && (semesterID == 0 || e.SemesterID == semesterID) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteEnrollment cancels an enrollment while it is still pending.
func (s *Store) DeleteEnrollment(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.enrollments[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if e.Status != models.ApprovalPending {
		return appErrors.Clone(appErrors.ErrNotPending, fmt.Sprintf("enrollment is already %s", e.Status))
	}
	delete(s.enrollments, id)
	return nil
}

// SetEnrollmentStatus flips an enrollment's approval status, standing in for
// the registrar-side actor.
func (s *Store) SetEnrollmentStatus(id int, status models.ApprovalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	e.Status = status
	return nil
}

// SetSemesters replaces the semester list.
func (s *Store) SetSemesters(semesters []models.Semester) {
	s.mu.Lock()
	s.semesters = semesters
	s.mu.Unlock()
}

// Semesters lists the academic terms.
func (s *Store) Semesters() []models.Semester {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Semester, len(s.semesters))
	copy(out, s.semesters)
	return out
}

// Profile returns a user's profile when present.
func (s *Store) Profile(userID int) (*models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, false
	}
	copied := *p
	return &copied, true
}

// SaveProfile creates or replaces a user's profile.
func (s *Store) SaveProfile(p models.Profile) {
	s.mu.Lock()
	s.profiles[p.UserID] = &p
	s.mu.Unlock()
}

// SetGrades replaces a user's grade lines.
func (s *Store) SetGrades(userID int, grades []models.GradeEntry) {
	s.mu.Lock()
	s.grades[userID] = grades
	s.mu.Unlock()
}

// Grades returns a user's grade lines.
func (s *Store) Grades(userID int) []models.GradeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.GradeEntry, len(s.grades[userID]))
	copy(out, s.grades[userID])
	return out
}

// SetSchedule replaces a user's weekly schedule rows.
func (s *Store) SetSchedule(userID int, entries []models.ScheduleEntry) {
	s.mu.Lock()
	s.schedule[userID] = entries
	s.mu.Unlock()
}

// Schedule returns a user's weekly schedule rows.
func (s *Store) Schedule(userID int) []models.ScheduleEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ScheduleEntry, len(s.schedule[userID]))
	copy(out, s.schedule[userID])
	return out
}

// RegistrationForm assembles the per-semester summary from enrollments.
func (s *Store) RegistrationForm(userID, semesterID int) *models.RegistrationForm {
	courses := s.EnrollmentsByUser(userID, semesterID)

	form := &models.RegistrationForm{
		UserID:     userID,
		SemesterID: semesterID,
		Courses:    courses,
	}
	for _, sem := range s.Semesters() {
		if sem.ID == semesterID {
			form.Semester = sem.Name
			break
		}
	}
	if profile, ok := s.Profile(userID); ok {
		form.Program = profile.Program
	}
	for _, c := range courses {
		form.TotalUnits += c.Units
	}
	return form
}
