package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Required, validation.Min(1.0), validation.Max(5.0)),
		validation.Field(&r.Comment, validation.Required, validation.Length(2, 0)),
	)
}

type UpdateReviewRequest struct {
	Rating  *float64 `json:"rating,omitempty"`
	Comment *string  `json:"comment,omitempty"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.Min(1.0), validation.Max(5.0)),
		validation.Field(&r.Comment, validation.NilOrNotEmpty, validation.Length(2, 0)),
	)
}

type CreateReviewResponse struct {
	ID        int64     `json:"id"`
	Comment   string    `json:"comment"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
}

type Pagination struct {
	PageNumber     int
	ReviewsPerPage int
}

const (
	DefaultPageNumber     = 1
	DefaultReviewsPerPage = 10
)
