package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uniport/uniport-portal/internal/models"
	"github.com/uniport/uniport-portal/internal/session"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

type preregAPI interface {
	ListSections(ctx context.Context, q models.SectionQuery) ([]models.Section, *models.PageMeta, error)
	UserPreregistrations(ctx context.Context, userID int) ([]models.Preregistration, error)
	CreatePreregistration(ctx context.Context, req models.CreatePreregRequest) error
}

// PreregConfig tunes the preregistration workflow.
type PreregConfig struct {
	PerPage        int
	SearchDebounce time.Duration
	// PruneSucceeded removes individually succeeded items from the pending
	// list after a partly failed submit. The default keeps the legacy
	// behavior: the list is cleared only when every item succeeded.
	PruneSucceeded bool
}

// PreregService maintains the locally added course list and the offered
// section catalog for one signed-in user, reconciling both against the
// server-confirmed preregistered list.
type PreregService struct {
	api     preregAPI
	session *session.Session
	cfg     PreregConfig
	logger  *zap.Logger

	mu            sync.Mutex
	pending       []models.Section
	preregistered []models.Preregistration
	catalog       []models.Section
	meta          models.PageMeta
	query         string
	page          int
	generation    uint64
	debounce      *time.Timer
}

// NewPreregService constructs a PreregService bound to one session.
func NewPreregService(api preregAPI, sess *session.Session, cfg PreregConfig, logger *zap.Logger) *PreregService {
	if cfg.PerPage <= 0 {
		cfg.PerPage = 10
	}
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreregService{api: api, session: sess, cfg: cfg, logger: logger, page: 1}
}

// Pending returns a copy of the locally added, not yet submitted courses in
// insertion order.
func (s *PreregService) Pending() []models.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Section, len(s.pending))
	copy(out, s.pending)
	return out
}

// Preregistered returns the last fetched server-confirmed list.
func (s *PreregService) Preregistered() []models.Preregistration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Preregistration, len(s.preregistered))
	copy(out, s.preregistered)
	return out
}

// Catalog returns the current catalog page and its pagination metadata.
func (s *PreregService) Catalog() ([]models.Section, models.PageMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Section, len(s.catalog))
	copy(out, s.catalog)
	return out, s.meta
}

// AddCourse appends a section to the pending list. Sections are compared by
// schedule id only; a duplicate against either the pending or the
// preregistered list leaves both untouched and returns ErrDuplicateCourse.
func (s *PreregService) AddCourse(sec models.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.pending {
		if p.ScheduleID == sec.ScheduleID {
			return appErrors.Clone(appErrors.ErrDuplicateCourse, fmt.Sprintf("%s is already in your list", sec.SubjectCode))
		}
	}
	for _, p := range s.preregistered {
		if p.ScheduleID == sec.ScheduleID {
			return appErrors.Clone(appErrors.ErrDuplicateCourse, fmt.Sprintf("%s is already preregistered", sec.SubjectCode))
		}
	}

	s.pending = append(s.pending, sec)
	return nil
}

// SubmitResult records the outcome of one per-item create request.
type SubmitResult struct {
	Section models.Section
	Err     error
}

// SubmitReport aggregates one SubmitAll run.
type SubmitReport struct {
	Succeeded int
	Total     int
	Results   []SubmitResult
}

// AllSucceeded reports whether every submitted item was accepted.
func (r SubmitReport) AllSucceeded() bool {
	return r.Total > 0 && r.Succeeded == r.Total
}

// Summary renders the user-facing aggregate count.
func (r SubmitReport) Summary() string {
	return fmt.Sprintf("%d/%d submitted", r.Succeeded, r.Total)
}

// SubmitAll submits the pending list in insertion order, one request at a
// time. An item's failure does not abort the loop. On full success the
// pending list is cleared; on partial failure it is left untouched unless
// PruneSucceeded is set, in which case exactly the accepted items are
// removed. The preregistered list is re-fetched either way.
func (s *PreregService) SubmitAll(ctx context.Context) *SubmitReport {
	s.mu.Lock()
	items := make([]models.Section, len(s.pending))
	copy(items, s.pending)
	s.mu.Unlock()

	report := &SubmitReport{Total: len(items)}
	if len(items) == 0 {
		return report
	}

	succeeded := make(map[int]bool, len(items))
	for _, sec := range items {
		req := models.CreatePreregRequest{
			UserID:       s.session.UserID,
			SemesterID:   sec.SemesterID,
			CourseID:     sec.CourseID,
			ScheduleID:   sec.ScheduleID,
			Units:        sec.Units,
			Section:      sec.Section,
			SubjectCode:  sec.SubjectCode,
			SubjectTitle: sec.SubjectTitle,
			Status:       models.PreregStatusPending,
		}
		err := s.api.CreatePreregistration(ctx, req)
		if err != nil {
			s.logger.Warn("prereg submit item failed", zap.Int("sched_id", sec.ScheduleID), zap.Error(err))
		} else {
			report.Succeeded++
			succeeded[sec.ScheduleID] = true
		}
		report.Results = append(report.Results, SubmitResult{Section: sec, Err: err})
	}

	s.mu.Lock()
	switch {
	case report.Succeeded == report.Total:
		s.pending = nil
	case s.cfg.PruneSucceeded:
		var kept []models.Section
		for _, sec := range s.pending {
			if !succeeded[sec.ScheduleID] {
				kept = append(kept, sec)
			}
		}
		s.pending = kept
	}
	s.mu.Unlock()

	s.RefreshPreregistered(ctx)
	return report
}

// RefreshPreregistered reloads the server-confirmed list. Fetch errors
// degrade to an empty list with a diagnostic, never a blocking failure.
func (s *PreregService) RefreshPreregistered(ctx context.Context) {
	list, err := s.api.UserPreregistrations(ctx, s.session.UserID)
	if err != nil {
		s.logger.Warn("preregistered fetch failed", zap.Error(err))
		list = nil
	}
	s.mu.Lock()
	s.preregistered = list
	s.mu.Unlock()
}

// SetQuery records a new free-text filter and schedules a debounced catalog
// fetch: rapid successive calls within the quiet period collapse into one
// request using the final query, with the page reset to 1.
func (s *PreregService) SetQuery(q string) {
	s.mu.Lock()
	s.query = q
	s.page = 1
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = time.AfterFunc(s.cfg.SearchDebounce, func() {
		s.Refresh(context.Background())
	})
	s.mu.Unlock()
}

// Search runs an immediate, non-debounced query. Used where keystroke
// debouncing does not apply, e.g. a one-shot CLI invocation.
func (s *PreregService) Search(ctx context.Context, q string) {
	s.SearchPage(ctx, q, 1)
}

// SearchPage runs an immediate query landing directly on a 1-based catalog
// page, as a single fetch.
func (s *PreregService) SearchPage(ctx context.Context, q string, page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.query = q
	s.page = page
	s.mu.Unlock()
	s.Refresh(ctx)
}

// SetPage jumps to a 1-based catalog page and fetches it immediately.
func (s *PreregService) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
	s.Refresh(ctx)
}

// Refresh fetches the current catalog page. Each fetch takes a fresh
// generation number; a response is applied only while its generation is
// still the newest issued, so late responses from superseded fetches are
// discarded instead of clobbering newer state.
func (s *PreregService) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	q := models.SectionQuery{Search: s.query, Page: s.page, PerPage: s.cfg.PerPage}
	s.mu.Unlock()

	sections, meta, err := s.api.ListSections(ctx, q)
	if err != nil {
		s.logger.Warn("catalog fetch failed", zap.Error(err))
		sections = nil
		meta = &models.PageMeta{Page: q.Page, PerPage: q.PerPage}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	s.catalog = sections
	s.meta = *meta
}
