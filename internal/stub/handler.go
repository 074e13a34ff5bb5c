package stub

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/uniport/uniport-portal/internal/models"
	"github.com/uniport/uniport-portal/pkg/config"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
	"github.com/uniport/uniport-portal/pkg/response"
)

// Handler exposes the stub portal endpoints.
type Handler struct {
	store    *Store
	cfg      config.StubConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(store *Store, cfg config.StubConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, cfg: cfg, validate: validator.New(), logger: logger}
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "email and password are required"))
		return
	}

	acct, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}

	token, err := issueToken(acct, h.cfg.JWTSecret, h.cfg.JWTExpiration)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		response.Fail(c, appErrors.ErrInternal)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		Success: true,
		User:    models.LoginUser{UserID: acct.ID, Name: acct.Name, Email: acct.Email},
		Token:   token,
	})
}

// ListSections handles GET /prereg/all-subjects.
func (h *Handler) ListSections(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	sections, meta := h.store.Sections(c.Query("search"), page, perPage)
	response.Paged(c, sections, &meta)
}

// UserPreregs handles GET /prereg/user-courses.
func (h *Handler) UserPreregs(c *gin.Context) {
	userID := h.queryUser(c)
	response.OK(c, h.store.PreregsByUser(userID))
}

// CreatePrereg handles POST /prereg/add.
func (h *Handler) CreatePrereg(c *gin.Context) {
	var req models.CreatePreregRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing preregistration fields"))
		return
	}

	prereg, err := h.store.AddPrereg(req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, prereg)
}

// Enroll handles POST /prereg/enroll.
func (h *Handler) Enroll(c *gin.Context) {
	var req struct {
		PreregID int `json:"prereg_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "prereg_id is required"))
		return
	}

	enrollment, err := h.store.EnrollPrereg(req.PreregID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, enrollment)
}

// ListEnrollments handles GET /enrollments.
func (h *Handler) ListEnrollments(c *gin.Context) {
	userID := h.queryUser(c)
	semesterID, _ := strconv.Atoi(c.Query("semester_id"))
	response.OK(c, h.store.EnrollmentsByUser(userID, semesterID))
}

// CancelEnrollment handles DELETE /enrollments/:id.
func (h *Handler) CancelEnrollment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, appErrors.Clone(appErrors.ErrValidation, "invalid enrollment id"))
		return
	}
	if err := h.store.DeleteEnrollment(id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "enrollment cancelled")
}

// Semesters handles GET /semesters.
func (h *Handler) Semesters(c *gin.Context) {
	response.OK(c, h.store.Semesters())
}

// RegistrationForm handles GET /registration-form.
func (h *Handler) RegistrationForm(c *gin.Context) {
	userID := h.queryUser(c)
	semesterID, _ := strconv.Atoi(c.Query("semester_id"))
	response.OK(c, h.store.RegistrationForm(userID, semesterID))
}

// SubjectsSchedule handles GET /subjects-schedule.
func (h *Handler) SubjectsSchedule(c *gin.Context) {
	response.OK(c, h.store.Schedule(h.queryUser(c)))
}

// Grades handles GET /grades.
func (h *Handler) Grades(c *gin.Context) {
	response.OK(c, h.store.Grades(h.queryUser(c)))
}

// GetProfile handles GET /applicant-profile. A missing profile is a 404 so
// clients know to create instead of update.
func (h *Handler) GetProfile(c *gin.Context) {
	profile, ok := h.store.Profile(h.queryUser(c))
	if !ok {
		response.Fail(c, appErrors.Clone(appErrors.ErrNotFound, "no profile yet"))
		return
	}
	response.OK(c, profile)
}

// UpdateProfile handles PUT /applicant-profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	req, ok := h.bindProfile(c)
	if !ok {
		return
	}
	existing, found := h.store.Profile(req.UserID)
	if !found {
		response.Fail(c, appErrors.Clone(appErrors.ErrNotFound, "no profile yet"))
		return
	}
	h.store.SaveProfile(h.mergeProfile(*existing, req))
	response.Message(c, "profile updated")
}

// CreateProfile handles POST /applicant-profile.
func (h *Handler) CreateProfile(c *gin.Context) {
	req, ok := h.bindProfile(c)
	if !ok {
		return
	}
	h.store.SaveProfile(h.mergeProfile(models.Profile{UserID: req.UserID}, req))
	response.Created(c, nil)
}

func (h *Handler) bindProfile(c *gin.Context) (models.ProfileUpdateRequest, bool) {
	var req models.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		response.Fail(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing profile fields"))
		return req, false
	}
	return req, true
}

func (h *Handler) mergeProfile(base models.Profile, req models.ProfileUpdateRequest) models.Profile {
	base.FirstName = req.FirstName
	base.MiddleName = req.MiddleName
	base.LastName = req.LastName
	base.Email = req.Email
	base.Phone = req.Phone
	base.Address = req.Address
	return base
}

// queryUser prefers the explicit user_id query parameter the legacy portal
// uses, falling back to the token subject.
func (h *Handler) queryUser(c *gin.Context) int {
	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			return id
		}
	}
	return currentUser(c)
}
