package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/repository"
)

// memListings is an in-memory ListingReader and ListingStore with the same
// ordering and filtering rules as the SQL repository.
type memListings struct {
	mu   sync.Mutex
	rows map[string]*model.Listing
	err  error
}

func newMemListings(ls ...*model.Listing) *memListings {
	m := &memListings{rows: map[string]*model.Listing{}}
	for _, l := range ls {
		m.rows[l.ID] = l
	}
	return m
}

func clone(l *model.Listing) *model.Listing {
	c := *l
	c.Images = append([]string(nil), l.Images...)
	return &c
}

func (m *memListings) sorted() []*model.Listing {
	out := make([]*model.Listing, 0, len(m.rows))
	for _, l := range m.rows {
		out = append(out, clone(l))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *memListings) QueryAvailable(_ context.Context, q repository.ListingQuery) ([]*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []*model.Listing{}
	for _, l := range m.sorted() {
		f := q.Filter
		switch {
		case l.Status != model.StatusAvailable,
			f.County != "" && l.County != f.County,
			f.Type != "" && l.Type != f.Type,
			f.MinPrice != nil && l.Price < *f.MinPrice,
			f.MaxPrice != nil && l.Price > *f.MaxPrice,
			q.Before != nil && !l.CreatedAt.Before(*q.Before):
			continue
		}
		out = append(out, l)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (m *memListings) GetAvailableBySlug(_ context.Context, slug string) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.rows {
		if l.Slug == slug && l.Status == model.StatusAvailable {
			return clone(l), nil
		}
	}
	return nil, repository.ErrListingNotFound
}

func (m *memListings) ListAll(context.Context) ([]*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(), m.err
}

func (m *memListings) GetByID(_ context.Context, id string) (*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	l, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	return clone(l), nil
}

func (m *memListings) slugTaken(slug, exceptID string) bool {
	for _, l := range m.rows {
		if l.Slug == slug && l.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *memListings) Create(_ context.Context, l *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(l.Slug, "") {
		return repository.ErrSlugTaken
	}
	m.rows[l.ID] = clone(l)
	return nil
}

func (m *memListings) Update(_ context.Context, l *model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[l.ID]; !ok {
		return repository.ErrListingNotFound
	}
	if m.slugTaken(l.Slug, l.ID) {
		return repository.ErrSlugTaken
	}
	m.rows[l.ID] = clone(l)
	return nil
}

func (m *memListings) SetStatus(_ context.Context, id string, status model.ListingStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rows[id]
	if !ok {
		return repository.ErrListingNotFound
	}
	l.Status = status
	l.UpdatedAt = at
	return nil
}

func (m *memListings) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrListingNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memListings) CountByStatus(context.Context) (map[model.ListingStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[model.ListingStatus]int{}
	for _, s := range model.ListingStatuses {
		out[s] = 0
	}
	for _, l := range m.rows {
		out[l.Status]++
	}
	return out, nil
}

// fakeImages "uploads" by echoing a deterministic URL.
type fakeImages struct {
	uploads []string
	err     error
}

func (f *fakeImages) UploadDataURL(_ context.Context, dataURL, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, folder)
	return "https://cdn.test/" + folder + "/" + strings.Repeat("x", len(f.uploads)) + ".jpg", nil
}

var baseTime = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

func listingAt(id string, minutes int, mutate ...func(*model.Listing)) *model.Listing {
	l := &model.Listing{
		ID:          id,
		Slug:        "listing-" + id,
		Title:       "Listing " + id + " in Nairobi",
		Description: "A well located property with title deed ready.",
		Type:        model.TypeHouse,
		Status:      model.StatusAvailable,
		Price:       1_000_000,
		Currency:    model.CurrencyKES,
		County:      "Nairobi",
		Images:      []string{"https://cdn.test/" + id + ".jpg"},
		CreatedAt:   baseTime.Add(time.Duration(minutes) * time.Minute),
	}
	l.UpdatedAt = l.CreatedAt
	for _, fn := range mutate {
		fn(l)
	}
	return l
}
