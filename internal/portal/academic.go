package portal

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/uniport/uniport-portal/internal/models"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

// Semesters lists the institution's academic terms.
func (c *Client) Semesters(ctx context.Context) ([]models.Semester, error) {
	var env struct {
		Success bool              `json:"success"`
		Data    []models.Semester `json:"data"`
	}
	status, err := c.do(ctx, http.MethodGet, "/semesters", nil, nil, &env)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || !env.Success {
		return nil, appErrors.New(appErrors.ErrInternal.Code, status, "semesters fetch failed")
	}
	return env.Data, nil
}

// RegistrationForm fetches the per-semester registration summary.
func (c *Client) RegistrationForm(ctx context.Context, userID, semesterID int) (*models.RegistrationForm, error) {
	query := userSemesterQuery(userID, semesterID)

	var env struct {
		Success bool                     `json:"success"`
		Data    *models.RegistrationForm `json:"data"`
	}
	status, err := c.do(ctx, http.MethodGet, "/registration-form", query, nil, &env)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || !env.Success || env.Data == nil {
		return nil, appErrors.New(appErrors.ErrInternal.Code, status, "registration form fetch failed")
	}
	return env.Data, nil
}

// SubjectsSchedule fetches the weekly schedule rows for the user's subjects.
func (c *Client) SubjectsSchedule(ctx context.Context, userID, semesterID int) ([]models.ScheduleEntry, error) {
	query := userSemesterQuery(userID, semesterID)

	var env struct {
		Success bool                   `json:"success"`
		Data    []models.ScheduleEntry `json:"data"`
	}
	status, err := c.do(ctx, http.MethodGet, "/subjects-schedule", query, nil, &env)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || !env.Success {
		return nil, appErrors.New(appErrors.ErrInternal.Code, status, "schedule fetch failed")
	}
	return env.Data, nil
}

// Grades fetches the graded subject lines for the grades screen.
func (c *Client) Grades(ctx context.Context, userID int) ([]models.GradeEntry, error) {
	query := url.Values{"user_id": []string{strconv.Itoa(userID)}}

	var env struct {
		Success bool                `json:"success"`
		Data    []models.GradeEntry `json:"data"`
	}
	status, err := c.do(ctx, http.MethodGet, "/grades", query, nil, &env)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || !env.Success {
		return nil, appErrors.New(appErrors.ErrInternal.Code, status, "grades fetch failed")
	}
	return env.Data, nil
}

// Profile fetches the applicant profile. A 404 means the profile does not
// exist yet and is reported as ErrNotFound so the caller can create one.
func (c *Client) Profile(ctx context.Context, userID int) (*models.Profile, error) {
	query := url.Values{"user_id": []string{strconv.Itoa(userID)}}

	var env struct {
		Success bool            `json:"success"`
		Data    *models.Profile `json:"data"`
	}
	status, err := c.do(ctx, http.MethodGet, "/applicant-profile", query, nil, &env)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no profile yet")
	}
	if status != http.StatusOK || !env.Success || env.Data == nil {
		return nil, appErrors.New(appErrors.ErrInternal.Code, status, "profile fetch failed")
	}
	return env.Data, nil
}

// SaveProfile updates the applicant profile, falling back to a create when
// the server reports the record does not exist yet. The payload is validated
// locally before any request is issued.
func (c *Client) SaveProfile(ctx context.Context, req models.ProfileUpdateRequest) error {
	if err := c.checkPayload(req, "first name, last name and a valid email are required"); err != nil {
		return err
	}

	var env ackEnvelope
	status, err := c.do(ctx, http.MethodPut, "/applicant-profile", nil, req, &env)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return c.createProfile(ctx, req)
	}
	if status != http.StatusOK || !env.Success {
		message := env.Message
		if message == "" {
			message = "profile update failed"
		}
		return appErrors.New(appErrors.ErrValidation.Code, status, message)
	}
	return nil
}

func (c *Client) createProfile(ctx context.Context, req models.ProfileUpdateRequest) error {
	var env ackEnvelope
	status, err := c.do(ctx, http.MethodPost, "/applicant-profile", nil, req, &env)
	if err != nil {
		return err
	}
	if (status != http.StatusOK && status != http.StatusCreated) || !env.Success {
		message := env.Message
		if message == "" {
			message = "profile create failed"
		}
		return appErrors.New(appErrors.ErrValidation.Code, status, message)
	}
	return nil
}

func userSemesterQuery(userID, semesterID int) url.Values {
	return url.Values{
		"user_id":     []string{strconv.Itoa(userID)},
		"semester_id": []string{strconv.Itoa(semesterID)},
	}
}
