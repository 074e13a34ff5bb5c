package models

// LoginRequest is the credential payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginUser is the user object inside a login response. Portal deployments
// disagree on the identifier key, emitting either user_id or id.
type LoginUser struct {
	UserID int    `json:"user_id"`
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// EffectiveID resolves whichever identifier field the server populated.
func (u LoginUser) EffectiveID() int {
	if u.UserID != 0 {
		return u.UserID
	}
	return u.ID
}

// LoginResponse is the wire shape of a login attempt's outcome.
type LoginResponse struct {
	Success bool      `json:"success"`
	User    LoginUser `json:"user"`
	Token   string    `json:"token"`
	Message string    `json:"message,omitempty"`
}
