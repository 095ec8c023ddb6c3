package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/queue"
	"github.com/julin-realestate/realestate-api/internal/repository"
)

type memLeads struct {
	mu    sync.Mutex
	leads []*model.Lead
}

func (m *memLeads) Create(_ context.Context, l *model.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = append(m.leads, l)
	return nil
}

func (m *memLeads) List(context.Context) ([]*model.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Lead(nil), m.leads...), nil
}

func (m *memLeads) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.leads), nil
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishLeadCreated(ctx context.Context, ev queue.LeadCreatedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func newTestLeadService(leads LeadStore, props PropertyLookup, pub EventPublisher, onCreated func()) *LeadService {
	s := NewLeadService(leads, props, pub, onCreated, zap.NewNop())
	s.now = func() time.Time { return baseTime }
	s.newID = func() string { return "lead-1" }
	return s
}

func leadInput() model.LeadInput {
	return model.LeadInput{PropertyID: "p", Name: "Akinyi", Email: " Akinyi@Example.com ", Phone: "0722000000", Message: "Call me"}
}

func TestLeadCreatePublishes(t *testing.T) {
	props := newMemListings(listingAt("p", 0, func(l *model.Listing) { l.Status = model.StatusSold }))
	leads := &memLeads{}
	pub := &mockPublisher{}
	pub.On("PublishLeadCreated", mock.Anything, mock.MatchedBy(func(ev queue.LeadCreatedEvent) bool {
		return ev.LeadID == "lead-1" && ev.PropertySlug == "listing-p" && ev.Email == "akinyi@example.com" &&
			ev.CreatedAt == "2026-01-01T09:00:00Z"
	})).Return(nil).Once()
	created := 0

	lead, err := newTestLeadService(leads, props, pub, func() { created++ }).Create(context.Background(), leadInput())
	require.NoError(t, err)
	assert.Equal(t, "akinyi@example.com", lead.Email)
	assert.Equal(t, 1, created)
	n, _ := leads.Count(context.Background())
	assert.Equal(t, 1, n)
	pub.AssertExpectations(t)
}

func TestLeadCreatePublishFailureIsIgnored(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("PublishLeadCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := newTestLeadService(&memLeads{}, newMemListings(listingAt("p", 0)), pub, nil).
		Create(context.Background(), leadInput())
	assert.NoError(t, err)
	pub.AssertNumberOfCalls(t, "PublishLeadCreated", 1)
}

func TestLeadCreateRejects(t *testing.T) {
	leads := &memLeads{}
	s := newTestLeadService(leads, newMemListings(), nil, nil)

	_, err := s.Create(context.Background(), leadInput())
	assert.ErrorIs(t, err, repository.ErrListingNotFound)

	bad := leadInput()
	bad.Email = "not-an-email"
	bad.Phone = "12"
	_, err = s.Create(context.Background(), bad)
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")
	assert.Contains(t, ve.Fields, "phone")

	assert.Empty(t, leads.leads)
}
