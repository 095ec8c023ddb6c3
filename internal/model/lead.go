package model

import (
	"strings"
	"time"
)

// Lead is an enquiry a visitor leaves on a listing.
type Lead struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LeadInput is the public contact form payload.
type LeadInput struct {
	PropertyID string `json:"property_id" validate:"required"`
	Name       string `json:"name" validate:"required,min=2,max=120"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,min=7,max=32,phone"`
	Message    string `json:"message" validate:"max=2000"`
}

func (in *LeadInput) Normalize() {
	in.PropertyID = strings.TrimSpace(in.PropertyID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
}

func (in LeadInput) Validate() error {
	ve, err := checkStruct(in)
	if err != nil {
		return err
	}
	return ve.orNil()
}
