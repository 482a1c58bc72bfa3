// Package dto provides data transfer objects for the help request HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/helpmatch/internal/request/usecase"
	appValidation "github.com/allisson/helpmatch/internal/validation"
)

// CreateRequestRequest is the body of POST /v1/requests.
type CreateRequestRequest struct {
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
}

// Validate checks the request body.
func (r *CreateRequestRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Title, validation.Required, appValidation.NotBlank, validation.Length(1, 200)),
		validation.Field(&r.Category, validation.Required, appValidation.NotBlank, validation.Length(1, 64)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Urgency, validation.Length(0, 32)),
	)
}

// ToInput converts the body to use case input.
func (r *CreateRequestRequest) ToInput() usecase.CreateRequestInput {
	return usecase.CreateRequestInput{
		UserID:      r.UserID,
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		Urgency:     r.Urgency,
	}
}

// CreateOfferRequest is the body of POST /v1/requests/:id/offers.
type CreateOfferRequest struct {
	HelperID int64  `json:"helper_id"`
	Message  string `json:"message"`
}

// Validate checks the request body.
func (r *CreateOfferRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.HelperID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.Message, validation.Length(0, 1000)),
	)
}
