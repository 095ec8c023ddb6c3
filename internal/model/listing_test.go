package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ListingInput {
	return ListingInput{
		Slug:        "three-bedroom-kileleshwa",
		Title:       "Three bedroom maisonette",
		Description: "Spacious maisonette close to schools and shopping.",
		Type:        TypeHouse,
		Price:       1200000,
		County:      "Nairobi",
		Images:      []string{"https://cdn.julin.co.ke/p/1.jpg"},
	}
}

func TestStatusTransitions(t *testing.T) {
	allowed := map[[2]ListingStatus]bool{
		{StatusDraft, StatusAvailable}:     true,
		{StatusDraft, StatusReserved}:      true,
		{StatusAvailable, StatusSold}:      true,
		{StatusAvailable, StatusReserved}:  true,
		{StatusReserved, StatusAvailable}:  true,
		{StatusReserved, StatusSold}:       true,
	}

	for _, from := range ListingStatuses {
		for _, to := range ListingStatuses {
			want := allowed[[2]ListingStatus{from, to}]
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)

			err := CheckTransition(from, to)
			if want {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		}
	}
}

func TestSoldIsTerminal(t *testing.T) {
	for _, to := range ListingStatuses {
		assert.False(t, CanTransition(StatusSold, to), "sold -> %s", to)
	}
}

func TestUnknownStatusHasNoTransitions(t *testing.T) {
	assert.False(t, ListingStatus("archived").Valid())
	assert.False(t, CanTransition("archived", StatusAvailable))
	assert.False(t, CanTransition(StatusDraft, "archived"))
}

func TestCheckTransitionMessage(t *testing.T) {
	err := CheckTransition(StatusSold, StatusAvailable)
	require.Error(t, err)
	assert.Equal(t, "invalid status transition: sold -> available", err.Error())
}

func TestListingInputValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ListingInput)
		field  string
	}{
		{"zero price", func(in *ListingInput) { in.Price = 0 }, "price"},
		{"negative price", func(in *ListingInput) { in.Price = -5 }, "price"},
		{"price rounds to zero", func(in *ListingInput) { in.Price = 0.001 }, "price"},
		{"price overflows column", func(in *ListingInput) { in.Price = 10_000_000_000_000 }, "price"},
		{"no images", func(in *ListingInput) { in.Images = []string{} }, "images"},
		{"nil images", func(in *ListingInput) { in.Images = nil }, "images"},
		{"image not a url", func(in *ListingInput) { in.Images = []string{"not a url"} }, "images[0]"},
		{"slug uppercase", func(in *ListingInput) { in.Slug = "Plot-In-Kitengela" }, "slug"},
		{"slug spaces", func(in *ListingInput) { in.Slug = "plot in kitengela" }, "slug"},
		{"slug too short", func(in *ListingInput) { in.Slug = "abc" }, "slug"},
		{"short title", func(in *ListingInput) { in.Title = "Plot" }, "title"},
		{"short description", func(in *ListingInput) { in.Description = "Too short" }, "description"},
		{"unknown type", func(in *ListingInput) { in.Type = "castle" }, "type"},
		{"unknown status", func(in *ListingInput) { in.Status = "archived" }, "status"},
		{"foreign currency", func(in *ListingInput) { in.Currency = "USD" }, "currency"},
		{"missing county", func(in *ListingInput) { in.County = "" }, "county"},
		{"land without area", func(in *ListingInput) { in.Type = TypeLand; in.Area = "" }, "area"},
		{"bad latitude", func(in *ListingInput) { in.Coordinates = &Coordinates{Lat: 120, Lng: 36.8} }, "lat"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			err := in.Validate()

			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}
}

func TestListingInputValidateAccepts(t *testing.T) {
	in := validInput()
	in.Normalize()
	require.NoError(t, in.Validate())

	land := validInput()
	land.Type = TypeLand
	land.Area = "1/8 acre"
	land.Coordinates = &Coordinates{Lat: -1.2921, Lng: 36.8219}
	assert.NoError(t, land.Validate())
}

func TestNormalizeDefaults(t *testing.T) {
	in := validInput()
	in.Title = "  Three bedroom maisonette  "
	in.Normalize()

	assert.Equal(t, StatusAvailable, in.Status)
	assert.Equal(t, CurrencyKES, in.Currency)
	assert.Equal(t, "Three bedroom maisonette", in.Title)
}

func TestListingPatchApply(t *testing.T) {
	in := validInput()
	in.Normalize()
	base := in.Listing()
	base.ID = "abc"

	title := "  Renovated maisonette "
	sold := StatusSold
	images := []string{"https://cdn.julin.co.ke/p/2.jpg", "https://cdn.julin.co.ke/p/2.jpg"}
	got := ListingPatch{Title: &title, Status: &sold, Images: &images}.Apply(base)

	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, "Renovated maisonette", got.Title)
	assert.Equal(t, StatusSold, got.Status)
	assert.Equal(t, images, got.Images)
	assert.Equal(t, base.Price, got.Price)
	assert.Equal(t, "Three bedroom maisonette", base.Title, "Apply must not mutate its argument")
}

func TestListingPatchEmptyImagesFailsValidation(t *testing.T) {
	in := validInput()
	in.Normalize()
	empty := []string{}

	merged := ListingPatch{Images: &empty}.Apply(in.Listing())

	var ve *ValidationError
	require.ErrorAs(t, merged.Input().Validate(), &ve)
	assert.Contains(t, ve.Fields, "images")
}

func TestValidationErrorString(t *testing.T) {
	ve := &ValidationError{}
	ve.Add("price", "must be greater than 0")
	ve.Add("images", "must contain at least 1 item(s)")
	ve.Add("price", "ignored")

	assert.Equal(t, "validation failed: images must contain at least 1 item(s); price must be greater than 0", ve.Error())
}

func TestLeadAndBlogInputs(t *testing.T) {
	lead := LeadInput{PropertyID: "p1", Name: "Wanjiku", Email: " Wanjiku@Example.com ", Phone: "+254700000000"}
	lead.Normalize()
	assert.Equal(t, "wanjiku@example.com", lead.Email)
	assert.NoError(t, lead.Validate())

	lead.Email = "nope"
	var ve *ValidationError
	require.ErrorAs(t, lead.Validate(), &ve)
	assert.Contains(t, ve.Fields, "email")

	post := BlogInput{Title: "Buying land in Kajiado", Slug: "buying-land-in-kajiado", Content: "Always verify the title deed at the lands registry."}
	assert.NoError(t, post.Validate())
	post.CoverImage = "data:image/png;base64,iVBORw0KGgo="
	assert.NoError(t, post.Validate())
}

func TestLeadPhoneCharacters(t *testing.T) {
	base := LeadInput{PropertyID: "p1", Name: "Wanjiku", Email: "wanjiku@example.com"}

	for _, ok := range []string{"+254700000000", "0712 345 678", "(020) 271-0000"} {
		in := base
		in.Phone = ok
		assert.NoError(t, in.Validate(), ok)
	}
	for _, bad := range []string{"0712345678\n[x] lead_id=FORGED", "0712345678x", "call me 0712"} {
		in := base
		in.Phone = bad
		var ve *ValidationError
		require.ErrorAs(t, in.Validate(), &ve, bad)
		assert.Contains(t, ve.Fields, "phone", bad)
	}
}

func TestListingPriceEdges(t *testing.T) {
	for _, ok := range []float64{0.01, 1_200_000, 9_999_999_999_999.99} {
		in := validInput()
		in.Price = ok
		assert.NoError(t, in.Validate(), "%v", ok)
	}

	in := validInput()
	in.Price = 0.001
	var ve *ValidationError
	require.ErrorAs(t, in.Validate(), &ve)
	assert.Equal(t, "must be at least 0.01", ve.Fields["price"])

	in.Price = 1e13
	require.ErrorAs(t, in.Validate(), &ve)
	assert.Equal(t, "must be at most 9999999999999.99", ve.Fields["price"])
}
