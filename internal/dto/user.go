package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"storefront/internal/domain"
)

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.NilOrNotEmpty, notBlank, validation.Length(2, 150)),
		validation.Field(&r.Password, validation.NilOrNotEmpty, validation.Length(MinPasswordLength, MaxPasswordLength), passwordBytes),
	)
}

// UserResponse is the public projection of a user; hashes and pending tokens
// never leave the service.
type UserResponse struct {
	ID                int64       `json:"id"`
	Username          *string     `json:"username"`
	Email             string      `json:"email"`
	UserType          domain.Role `json:"userType"`
	IsAccountVerified bool        `json:"isAccountVerified"`
	ProfileImage      *string     `json:"profileImage"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		UserType:          u.Role,
		IsAccountVerified: u.IsAccountVerified,
		ProfileImage:      u.ProfileImage,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func NewUserList(users []*domain.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}
