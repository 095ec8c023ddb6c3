package model

import (
	"errors"
	"fmt"
	"time"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	StatusDraft     ListingStatus = "draft"
	StatusAvailable ListingStatus = "available"
	StatusReserved  ListingStatus = "reserved"
	StatusSold      ListingStatus = "sold"
)

// ListingStatuses lists every status in display order.
var ListingStatuses = []ListingStatus{StatusDraft, StatusAvailable, StatusReserved, StatusSold}

// Valid reports whether s is a known status.
func (s ListingStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// ListingType classifies what is being sold.
type ListingType string

const (
	TypeLand       ListingType = "land"
	TypeHouse      ListingType = "house"
	TypeApartment  ListingType = "apartment"
	TypeCommercial ListingType = "commercial"
	TypeVehicle    ListingType = "vehicle"
	TypeOther      ListingType = "other"
)

// Valid reports whether t is a known listing type.
func (t ListingType) Valid() bool {
	switch t {
	case TypeLand, TypeHouse, TypeApartment, TypeCommercial, TypeVehicle, TypeOther:
		return true
	}
	return false
}

// CurrencyKES is the only currency prices are quoted in.
const CurrencyKES = "KES"

// Coordinates is an optional map pin for a listing.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// Listing is a property (or other asset) offered for sale.  It maps to a row
// in the `properties` table.  Images keep their order and may repeat.
type Listing struct {
	ID              string        `json:"id"`
	Slug            string        `json:"slug"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Type            ListingType   `json:"type"`
	Status          ListingStatus `json:"status"`
	Price           float64       `json:"price"`
	Currency        string        `json:"currency"`
	County          string        `json:"county"`
	Town            string        `json:"town,omitempty"`
	Area            string        `json:"area,omitempty"` // plot size, e.g. "1/8 acre" or "50x100"
	Coordinates     *Coordinates  `json:"coordinates,omitempty"`
	Images          []string      `json:"images"`
	IsFeatured      bool          `json:"is_featured"`
	MetaTitle       string        `json:"meta_title,omitempty"`
	MetaDescription string        `json:"meta_description,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ErrInvalidTransition is returned when a status change is not in the
// transition table.
var ErrInvalidTransition = errors.New("invalid status transition")

// transitions is the listing state machine.  Sold is terminal.
var transitions = map[ListingStatus][]ListingStatus{
	StatusDraft:     {StatusAvailable, StatusReserved},
	StatusAvailable: {StatusSold, StatusReserved},
	StatusReserved:  {StatusAvailable, StatusSold},
	StatusSold:      {},
}

// CanTransition reports whether a listing may move from one status to another.
func CanTransition(from, to ListingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrInvalidTransition, annotated with both states,
// when from -> to is not allowed.
func CheckTransition(from, to ListingStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
