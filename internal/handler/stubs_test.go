package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/repository"
	"github.com/julin-realestate/realestate-api/internal/service"
)

var errBoom = errors.New("boom")

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// stubListings keeps listings newest first and applies only the status and
// cursor rules, which is all these tests exercise.
type stubListings struct {
	mu   sync.Mutex
	rows []*model.Listing
	err  error
}

func (s *stubListings) QueryAvailable(_ context.Context, q repository.ListingQuery) ([]*model.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []*model.Listing{}
	for _, l := range s.rows {
		if l.Status != model.StatusAvailable || (q.Before != nil && !l.CreatedAt.Before(*q.Before)) {
			continue
		}
		if q.Filter.County != "" && l.County != q.Filter.County {
			continue
		}
		out = append(out, l)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (s *stubListings) GetAvailableBySlug(_ context.Context, slug string) (*model.Listing, error) {
	for _, l := range s.rows {
		if l.Slug == slug && l.Status == model.StatusAvailable {
			return l, nil
		}
	}
	return nil, repository.ErrListingNotFound
}

func (s *stubListings) ListAll(context.Context) ([]*model.Listing, error) { return s.rows, s.err }

func (s *stubListings) GetByID(_ context.Context, id string) (*model.Listing, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, l := range s.rows {
		if l.ID == id {
			c := *l
			return &c, nil
		}
	}
	return nil, repository.ErrListingNotFound
}

func (s *stubListings) Create(_ context.Context, l *model.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.Slug == l.Slug {
			return repository.ErrSlugTaken
		}
	}
	c := *l
	s.rows = append([]*model.Listing{&c}, s.rows...)
	return nil
}

func (s *stubListings) Update(_ context.Context, l *model.Listing) error {
	for i, r := range s.rows {
		if r.ID == l.ID {
			c := *l
			s.rows[i] = &c
			return nil
		}
	}
	return repository.ErrListingNotFound
}

func (s *stubListings) SetStatus(_ context.Context, id string, st model.ListingStatus, at time.Time) error {
	for _, r := range s.rows {
		if r.ID == id {
			r.Status, r.UpdatedAt = st, at
			return nil
		}
	}
	return repository.ErrListingNotFound
}

func (s *stubListings) Delete(_ context.Context, id string) error {
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrListingNotFound
}

func (s *stubListings) CountByStatus(context.Context) (map[model.ListingStatus]int, error) {
	out := map[model.ListingStatus]int{}
	for _, r := range s.rows {
		out[r.Status]++
	}
	return out, nil
}

type stubPosts struct {
	posts []*model.BlogPost
}

func (s *stubPosts) published() []*model.BlogPost {
	out := []*model.BlogPost{}
	for _, p := range s.posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out
}

func (s *stubPosts) ListPublished(context.Context) ([]*model.BlogPost, error) { return s.published(), nil }
func (s *stubPosts) ListAll(context.Context) ([]*model.BlogPost, error)       { return s.posts, nil }
func (s *stubPosts) GetPublishedBySlug(_ context.Context, slug string) (*model.BlogPost, error) {
	for _, p := range s.published() {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, repository.ErrPostNotFound
}
func (s *stubPosts) GetByID(_ context.Context, id string) (*model.BlogPost, error) {
	for _, p := range s.posts {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, repository.ErrPostNotFound
}
func (s *stubPosts) Create(_ context.Context, p *model.BlogPost) error {
	s.posts = append(s.posts, p)
	return nil
}
func (s *stubPosts) Update(_ context.Context, p *model.BlogPost) error { return nil }
func (s *stubPosts) SetPublished(_ context.Context, id string, published bool, _ time.Time) error {
	for _, p := range s.posts {
		if p.ID == id {
			p.Published = published
			return nil
		}
	}
	return repository.ErrPostNotFound
}
func (s *stubPosts) Delete(context.Context, string) error { return nil }
func (s *stubPosts) Count(context.Context) (int, error)   { return len(s.posts), nil }

type stubLeads struct {
	leads []*model.Lead
}

func (s *stubLeads) Create(_ context.Context, l *model.Lead) error {
	s.leads = append(s.leads, l)
	return nil
}
func (s *stubLeads) List(context.Context) ([]*model.Lead, error) { return s.leads, nil }
func (s *stubLeads) Count(context.Context) (int, error)          { return len(s.leads), nil }

func listing(id string, minutes int, status model.ListingStatus) *model.Listing {
	created := t0.Add(time.Duration(minutes) * time.Minute)
	return &model.Listing{
		ID:          id,
		Slug:        "plot-" + id,
		Title:       "Plot " + id + " in Kitengela",
		Description: "Quarter acre plot with ready title deed near the tarmac.",
		Type:        model.TypeLand,
		Status:      status,
		Price:       850_000,
		Currency:    model.CurrencyKES,
		County:      "Kajiado",
		Area:        "1/4 acre",
		Images:      []string{"https://cdn.test/" + id + ".jpg"},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

// fixture wires real services over the stubs.
type fixture struct {
	listings *stubListings
	posts    *stubPosts
	leads    *stubLeads
	public   *PublicHandler
	admin    *AdminHandler
	lead     *LeadHandler
}

func newFixture(rows ...*model.Listing) *fixture {
	log := zap.NewNop()
	f := &fixture{
		listings: &stubListings{rows: rows},
		posts:    &stubPosts{},
		leads:    &stubLeads{},
	}
	blog := service.NewBlogService(f.posts, nil, log)
	leads := service.NewLeadService(f.leads, f.listings, nil, nil, log)
	f.public = NewPublicHandler(service.NewPublicReader(f.listings), blog, log)
	f.admin = NewAdminHandler(service.NewAdminWriter(f.listings, nil, log), blog, leads, nil, log)
	f.lead = NewLeadHandler(leads, log)
	return f
}

func do(h echo.HandlerFunc, method, target, body string, setup ...func(echo.Context)) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for _, fn := range setup {
		fn(c)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func withParam(name, value string) func(echo.Context) {
	return func(c echo.Context) {
		c.SetParamNames(name)
		c.SetParamValues(value)
	}
}
