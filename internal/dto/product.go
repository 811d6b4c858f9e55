package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateProductRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title should not be empty"), validation.Length(2, 150)),
		validation.Field(&r.Description, validation.Required, validation.Length(5, 0)),
		validation.Field(&r.Price, validation.NotNil, validation.Min(0.0).Error("price should not be less than zero")),
	)
}

type UpdateProductRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}

func (r UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(2, 150)),
		validation.Field(&r.Description, validation.Length(5, 0)),
		validation.Field(&r.Price, validation.Min(0.0)),
	)
}

// ProductFilter holds the raw list query; empty strings mean "not given".
type ProductFilter struct {
	Title    string
	MinPrice *float64
	MaxPrice *float64
}
