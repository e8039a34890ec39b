package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateContentRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Draft bool   `json:"draft"`
}

func (req *CreateContentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Body, validation.Length(0, 10000)),
	)
}

type CreateRatingRequest struct {
	Value int    `json:"value"`
	Body  string `json:"body"`
}

func (req *CreateRatingRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Value, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Body, validation.Length(0, 2000)),
	)
}
