package model

import "strings"

// ListingInput is the full payload accepted when an admin creates a listing.
// Validate must succeed before it is turned into a Listing.
type ListingInput struct {
	Slug            string        `json:"slug" validate:"required,min=5,slug"`
	Title           string        `json:"title" validate:"required,min=5"`
	Description     string        `json:"description" validate:"required,min=20"`
	Type            ListingType   `json:"type" validate:"required,oneof=land house apartment commercial vehicle other"`
	Status          ListingStatus `json:"status" validate:"omitempty,oneof=draft available reserved sold"`
	Price           float64       `json:"price" validate:"gte=0.01,lte=9999999999999.99"` // DECIMAL(15,2)
	Currency        string        `json:"currency" validate:"omitempty,eq=KES"`
	County          string        `json:"county" validate:"required,min=3"`
	Town            string        `json:"town"`
	Area            string        `json:"area"`
	Coordinates     *Coordinates  `json:"coordinates"`
	Images          []string      `json:"images" validate:"min=1,dive,required,url"`
	IsFeatured      bool          `json:"is_featured"`
	MetaTitle       string        `json:"meta_title" validate:"max=120"`
	MetaDescription string        `json:"meta_description" validate:"max=300"`
}

// Normalize trims free text and fills the status and currency defaults.
func (in *ListingInput) Normalize() {
	in.Slug = strings.TrimSpace(in.Slug)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.County = strings.TrimSpace(in.County)
	in.Town = strings.TrimSpace(in.Town)
	in.Area = strings.TrimSpace(in.Area)
	if in.Status == "" {
		in.Status = StatusAvailable
	}
	if in.Currency == "" {
		in.Currency = CurrencyKES
	}
}

// Validate applies the field rules plus the rule that land listings must
// state a plot size.  It returns a *ValidationError on failure.
func (in ListingInput) Validate() error {
	ve, err := checkStruct(in)
	if err != nil {
		return err
	}
	if in.Type == TypeLand && strings.TrimSpace(in.Area) == "" {
		ve.Add("area", "is required for land listings")
	}
	return ve.orNil()
}

// Listing builds an unsaved Listing; identity and timestamps are left to the caller.
func (in ListingInput) Listing() Listing {
	images := make([]string, len(in.Images))
	copy(images, in.Images)
	return Listing{
		Slug:            in.Slug,
		Title:           in.Title,
		Description:     in.Description,
		Type:            in.Type,
		Status:          in.Status,
		Price:           in.Price,
		Currency:        in.Currency,
		County:          in.County,
		Town:            in.Town,
		Area:            in.Area,
		Coordinates:     in.Coordinates,
		Images:          images,
		IsFeatured:      in.IsFeatured,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
	}
}

// Input is the inverse of ListingInput.Listing and lets a merged record be
// re-validated against the create rules.
func (l Listing) Input() ListingInput {
	return ListingInput{
		Slug:            l.Slug,
		Title:           l.Title,
		Description:     l.Description,
		Type:            l.Type,
		Status:          l.Status,
		Price:           l.Price,
		Currency:        l.Currency,
		County:          l.County,
		Town:            l.Town,
		Area:            l.Area,
		Coordinates:     l.Coordinates,
		Images:          l.Images,
		IsFeatured:      l.IsFeatured,
		MetaTitle:       l.MetaTitle,
		MetaDescription: l.MetaDescription,
	}
}

// ListingPatch is a partial update.  Nil fields are left untouched.
type ListingPatch struct {
	Slug            *string        `json:"slug"`
	Title           *string        `json:"title"`
	Description     *string        `json:"description"`
	Type            *ListingType   `json:"type"`
	Status          *ListingStatus `json:"status"`
	Price           *float64       `json:"price"`
	Currency        *string        `json:"currency"`
	County          *string        `json:"county"`
	Town            *string        `json:"town"`
	Area            *string        `json:"area"`
	Coordinates     *Coordinates   `json:"coordinates"`
	Images          *[]string      `json:"images"`
	IsFeatured      *bool          `json:"is_featured"`
	MetaTitle       *string        `json:"meta_title"`
	MetaDescription *string        `json:"meta_description"`
}

// Apply returns a copy of l with every present patch field written over it.
func (p ListingPatch) Apply(l Listing) Listing {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setStr(&l.Slug, p.Slug)
	setStr(&l.Title, p.Title)
	setStr(&l.Description, p.Description)
	setStr(&l.Currency, p.Currency)
	setStr(&l.County, p.County)
	setStr(&l.Town, p.Town)
	setStr(&l.Area, p.Area)
	setStr(&l.MetaTitle, p.MetaTitle)
	setStr(&l.MetaDescription, p.MetaDescription)
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Coordinates != nil {
		c := *p.Coordinates
		l.Coordinates = &c
	}
	if p.Images != nil {
		l.Images = append([]string(nil), (*p.Images)...)
	}
	if p.IsFeatured != nil {
		l.IsFeatured = *p.IsFeatured
	}
	return l
}
