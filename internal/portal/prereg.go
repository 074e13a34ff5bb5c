package portal

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/uniport/uniport-portal/internal/models"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

type sectionsEnvelope struct {
	Success bool             `json:"success"`
	Data    []models.Section `json:"data"`
	Meta    *models.PageMeta `json:"meta"`
	Message string           `json:"message"`
}

// ListSections fetches one page of the offered-section catalog.
func (c *Client) ListSections(ctx context.Context, q models.SectionQuery) ([]models.Section, *models.PageMeta, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 10
	}

	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	var env sectionsEnvelope
	status, err := c.do(ctx, http.MethodGet, "/prereg/all-subjects", query, nil, &env)
	if err != nil {
		return nil, nil, err
	}
	if status != http.StatusOK || !env.Success {
		return nil, nil, appErrors.New(appErrors.ErrInternal.Code, status, "catalog fetch failed")
	}

	meta := env.Meta
	if meta == nil {
		meta = &models.PageMeta{Page: page, PerPage: perPage, LastPage: 1, Total: len(env.Data)}
	}
	if meta.Page == 0 {
		meta.Page = page
	}
	if meta.PerPage == 0 {
		meta.PerPage = perPage
	}
	return env.Data, meta, nil
}

type preregListEnvelope struct {
	Success bool                     `json:"success"`
	Data    []models.Preregistration `json:"data"`
	Message string                   `json:"message"`
}

// UserPreregistrations fetches the server-confirmed preregistered list.
func (c *Client) UserPreregistrations(ctx context.Context, userID int) ([]models.Preregistration, error) {
	query := url.Values{"user_id": []string{strconv.Itoa(userID)}}

	var env preregListEnvelope
	status, err := c.do(ctx, http.MethodGet, "/prereg/user-courses", query, nil, &env)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || !env.Success {
		return nil, appErrors.New(appErrors.ErrInternal.Code, status, "preregistered fetch failed")
	}
	return env.Data, nil
}

type ackEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreatePreregistration submits one locally added course via POST /prereg/add.
// Incomplete payloads are rejected locally, before any request is issued.
func (c *Client) CreatePreregistration(ctx context.Context, req models.CreatePreregRequest) error {
	if req.Status == "" {
		req.Status = models.PreregStatusPending
	}
	if err := c.checkPayload(req, "incomplete preregistration payload"); err != nil {
		return err
	}

	var env ackEnvelope
	status, err := c.do(ctx, http.MethodPost, "/prereg/add", nil, req, &env)
	if err != nil {
		return err
	}
	if (status != http.StatusOK && status != http.StatusCreated) || !env.Success {
		message := env.Message
		if message == "" {
			message = "preregistration rejected"
		}
		return appErrors.New(appErrors.ErrConflict.Code, status, message)
	}
	return nil
}

// Enroll promotes a preregistered course via POST /prereg/enroll. The server
// message, when present, is surfaced in the returned error.
func (c *Client) Enroll(ctx context.Context, preregID int) error {
	body := map[string]int{"prereg_id": preregID}

	var env ackEnvelope
	status, err := c.do(ctx, http.MethodPost, "/prereg/enroll", nil, body, &env)
	if err != nil {
		return err
	}
	if status != http.StatusOK || !env.Success {
		message := env.Message
		if message == "" {
			message = "enrollment request failed"
		}
		return appErrors.New(appErrors.ErrConflict.Code, status, message)
	}
	return nil
}
