package models

// Profile is the applicant/student profile record.
type Profile struct {
	UserID     int    `json:"user_id"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Program    string `json:"program"`
	YearLevel  int    `json:"year_level"`
}

// ProfileUpdateRequest carries editable profile fields. Validation mirrors
// the portal's form rules.
type ProfileUpdateRequest struct {
	UserID     int    `json:"user_id" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}
