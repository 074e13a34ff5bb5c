package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/uniport/uniport-portal/internal/models"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

// Enrollments fetches the user's enrollments for a semester. Older portal
// deployments return a bare array, newer ones a success envelope; both are
// accepted.
func (c *Client) Enrollments(ctx context.Context, userID, semesterID int) ([]models.Enrollment, error) {
	query := url.Values{
		"user_id":     []string{strconv.Itoa(userID)},
		"semester_id": []string{strconv.Itoa(semesterID)},
	}

	var raw json.RawMessage
	status, err := c.do(ctx, http.MethodGet, "/enrollments", query, nil, &raw)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, appErrors.New(appErrors.ErrInternal.Code, status, "enrollments fetch failed")
	}

	var list []models.Enrollment
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var env struct {
		Success bool                `json:"success"`
		Data    []models.Enrollment `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode enrollments response: %w", err)
	}
	return env.Data, nil
}

// CancelEnrollment deletes a pending enrollment via DELETE /enrollments/{id}.
func (c *Client) CancelEnrollment(ctx context.Context, id int) error {
	var env ackEnvelope
	status, err := c.do(ctx, http.MethodDelete, "/enrollments/"+strconv.Itoa(id), nil, nil, &env)
	if err != nil {
		return err
	}
	if status != http.StatusOK || !env.Success {
		message := env.Message
		if message == "" {
			message = "cancellation failed"
		}
		return appErrors.New(appErrors.ErrConflict.Code, status, message)
	}
	return nil
}
