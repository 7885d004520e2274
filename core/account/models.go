package account

import (
	"encoding/json"
)

type (
	// Credentials is the login form. UserType is advisory only: the server
	// decides the actual role and its answer wins.
	Credentials struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
		UserType string `json:"userType"`
	}

	// LoginResult is the backend's login response. User is kept serialized so
	// the stored identity snapshot matches the server byte for byte.
	LoginResult struct {
		Success  bool            `json:"success"`
		Token    string          `json:"token"`
		UserType string          `json:"userType"`
		User     json.RawMessage `json:"user"`
		Message  string          `json:"message,omitempty"`
	}

	// StudentRegistration is the student sign-up form. ConfirmPassword never
	// leaves the client.
	StudentRegistration struct {
		AccountType     string `json:"accountType"`
		Name            string `json:"studentName" validate:"required"`
		DateOfBirth     string `json:"dateOfBirth" validate:"required"`
		ContactNumber   string `json:"contactNumber,omitempty"`
		ProgrammeCode   string `json:"programmeCode" validate:"required"`
		YearEnrolled    int    `json:"yearEnrolled" validate:"required"`
		Email           string `json:"email" validate:"required,emailshape"`
		Password        string `json:"password" validate:"required"`
		ConfirmPassword string `json:"-"`
	}

	// AdminRegistration is the admin sign-up form.
	AdminRegistration struct {
		AccountType     string `json:"accountType"`
		Name            string `json:"adminName" validate:"required"`
		Faculty         string `json:"faculty" validate:"required"`
		Email           string `json:"email" validate:"required,emailshape"`
		Password        string `json:"password" validate:"required"`
		ConfirmPassword string `json:"-"`
	}

	RegisterResult struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}
)

// Account types on the registration wire format.
const (
	AccountTypeStudent = "student"
	AccountTypeAdmin   = "admin"
)
