package domain

import "errors"

var (
	ErrDuplicateEmail         = errors.New("user already exist")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidLink            = errors.New("invalid link")
	ErrNoVerificationPending  = errors.New("there is no verification token")
	ErrUnauthenticated        = errors.New("access denied, invalid or missing token")
	ErrForbidden              = errors.New("access denied, you are not allowed to perform this action")
	ErrMailDispatchFailed     = errors.New("request timeout, please try again later")
	ErrProductNotFound        = errors.New("product not found")
	ErrReviewNotFound         = errors.New("review not found")
	ErrNoProfileImage         = errors.New("there is not profile image")
	ErrImageNotFound          = errors.New("image not found")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnsupportedContentType = errors.New("unsupported file type")
	ErrFileTooLarge           = errors.New("file too large, the image should be less than 2MB")
)
