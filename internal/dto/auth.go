package dto

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

// passwordBytes enforces MaxPasswordLength in bytes; Length counts runes.
var passwordBytes = validation.By(func(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	}
	if len(s) > MaxPasswordLength {
		return fmt.Errorf("must be at most %d bytes long", MaxPasswordLength)
	}
	return nil
})

// notBlank rejects strings that are only whitespace. Empty values are left
// to Required/NilOrNotEmpty.
var notBlank = validation.By(func(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return nil
	}
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
})

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 250), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength), passwordBytes),
		validation.Field(&r.Username, notBlank, validation.Length(2, 150)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 250), is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginResponse carries either a pending-verification message or a session.
type LoginResponse struct {
	Message     string `json:"message,omitempty"`
	Email       string `json:"email,omitempty"`
	Username    string `json:"username,omitempty"`
	AccessToken string `json:"accessToken,omitempty"`
}

func (r *LoginResponse) Authenticated() bool { return r.AccessToken != "" }

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 250), is.Email),
	)
}

type ResetPasswordRequest struct {
	UserID             int64  `json:"userId"`
	ResetPasswordToken string `json:"resetPasswordToken"`
	NewPassword        string `json:"newPassword"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, validation.Min(0)),
		validation.Field(&r.ResetPasswordToken, validation.Required, validation.Length(10, 0)),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(MinPasswordLength, MaxPasswordLength), passwordBytes),
	)
}

type MessageResponse struct {
	Message string `json:"message"`
}

func Message(msg string) *MessageResponse { return &MessageResponse{Message: msg} }
