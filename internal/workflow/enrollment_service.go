package workflow

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/uniport/uniport-portal/internal/models"
	"github.com/uniport/uniport-portal/internal/session"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

type enrollmentAPI interface {
	Enroll(ctx context.Context, preregID int) error
	Enrollments(ctx context.Context, userID, semesterID int) ([]models.Enrollment, error)
	UserPreregistrations(ctx context.Context, userID int) ([]models.Preregistration, error)
	CancelEnrollment(ctx context.Context, id int) error
}

// EnrollmentService promotes preregistered courses to enrollments and
// cancels pending ones. At most one enroll call may be outstanding per
// preregistration id; distinct ids proceed independently.
type EnrollmentService struct {
	api     enrollmentAPI
	session *session.Session
	logger  *zap.Logger

	mu            sync.Mutex
	inFlight      map[int]struct{}
	preregistered []models.Preregistration
	enrolled      []models.Enrollment
}

// NewEnrollmentService constructs an EnrollmentService bound to one session.
func NewEnrollmentService(api enrollmentAPI, sess *session.Session, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{api: api, session: sess, logger: logger, inFlight: make(map[int]struct{})}
}

// InFlight reports whether an enroll call for the prereg id is outstanding.
func (s *EnrollmentService) InFlight(preregID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inFlight[preregID]
	return busy
}

// Enroll issues one enroll request for the preregistered course. A second
// call for the same id while the first is outstanding returns
// ErrEnrollInFlight without touching the network. On success both the
// preregistered and enrolled lists are re-fetched; on failure all state is
// left untouched and the server's message is carried in the error.
func (s *EnrollmentService) Enroll(ctx context.Context, prereg models.Preregistration) error {
	s.mu.Lock()
	if _, busy := s.inFlight[prereg.ID]; busy {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrEnrollInFlight, fmt.Sprintf("enrollment for %s is still being processed", prereg.SubjectCode))
	}
	s.inFlight[prereg.ID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, prereg.ID)
		s.mu.Unlock()
	}()

	if err := s.api.Enroll(ctx, prereg.ID); err != nil {
		return err
	}

	s.RefreshPreregistered(ctx)
	s.RefreshEnrolled(ctx, prereg.SemesterID)
	return nil
}

// Cancel deletes a pending enrollment. The approval-status guard lives here;
// the explicit user confirmation is the caller's duty. Approved and rejected
// enrollments are registrar-owned and cannot be cancelled.
func (s *EnrollmentService) Cancel(ctx context.Context, e models.Enrollment) error {
	if !e.CanCancel() {
		return appErrors.Clone(appErrors.ErrNotPending, fmt.Sprintf("enrollment is already %s", e.Status))
	}
	if err := s.api.CancelEnrollment(ctx, e.ID); err != nil {
		return err
	}
	s.RefreshEnrolled(ctx, e.SemesterID)
	return nil
}

// Preregistered returns the last fetched preregistered list.
func (s *EnrollmentService) Preregistered() []models.Preregistration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Preregistration, len(s.preregistered))
	copy(out, s.preregistered)
	return out
}

// Enrolled returns the last fetched enrollment list.
func (s *EnrollmentService) Enrolled() []models.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Enrollment, len(s.enrolled))
	copy(out, s.enrolled)
	return out
}

// RefreshPreregistered reloads the preregistered list, degrading to empty on
// fetch errors.
func (s *EnrollmentService) RefreshPreregistered(ctx context.Context) {
	list, err := s.api.UserPreregistrations(ctx, s.session.UserID)
	if err != nil {
		s.logger.Warn("preregistered fetch failed", zap.Error(err))
		list = nil
	}
	s.mu.Lock()
	s.preregistered = list
	s.mu.Unlock()
}

// RefreshEnrolled reloads the enrollment list for a semester, degrading to
// empty on fetch errors.
func (s *EnrollmentService) RefreshEnrolled(ctx context.Context, semesterID int) {
	list, err := s.api.Enrollments(ctx, s.session.UserID, semesterID)
	if err != nil {
		s.logger.Warn("enrollments fetch failed", zap.Error(err))
		list = nil
	}
	s.mu.Lock()
	s.enrolled = list
	s.mu.Unlock()
}
