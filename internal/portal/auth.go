package portal

import (
	"context"
	"net/http"

	"github.com/uniport/uniport-portal/internal/models"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
)

// LoginResult carries the identifiers a successful login yields.
type LoginResult struct {
	UserID int
	Token  string
}

// Login authenticates against POST /login. Empty or malformed credentials
// are rejected locally, before any request is issued.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.checkPayload(req, "email and a password of at least 6 characters are required"); err != nil {
		return nil, err
	}

	var resp models.LoginResponse
	status, err := c.do(ctx, http.MethodPost, "/login", nil, req, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK || resp.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, resp.Message)
	}
	return &LoginResult{UserID: resp.User.EffectiveID(), Token: resp.Token}, nil
}
