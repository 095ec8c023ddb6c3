package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/queue"
	"github.com/julin-realestate/realestate-api/internal/repository"
)

type LeadStore interface {
	Create(ctx context.Context, l *model.Lead) error
	List(ctx context.Context) ([]*model.Lead, error)
	Count(ctx context.Context) (int, error)
}

// PropertyLookup resolves the listing a lead refers to, in any status.
type PropertyLookup interface {
	GetByID(ctx context.Context, id string) (*model.Listing, error)
}

// EventPublisher delivers lead events to the worker.
type EventPublisher interface {
	PublishLeadCreated(ctx context.Context, ev queue.LeadCreatedEvent) error
}

// LeadService stores enquiries and announces them.  Publishing is best
// effort: the lead is already committed when the event is sent.
type LeadService struct {
	leads      LeadStore
	properties PropertyLookup
	events     EventPublisher
	onCreated  func()
	log        *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewLeadService wires the service.  events may be nil; onCreated, when set,
// runs after every stored lead.
func NewLeadService(leads LeadStore, properties PropertyLookup, events EventPublisher, onCreated func(), log *zap.Logger) *LeadService {
	return &LeadService{
		leads:      leads,
		properties: properties,
		events:     events,
		onCreated:  onCreated,
		log:        log,
		now:        func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:      uuid.NewString,
	}
}

// Create validates in, checks the property exists and stores the lead.
func (s *LeadService) Create(ctx context.Context, in model.LeadInput) (*model.Lead, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, in.PropertyID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("look up property %s: %w", in.PropertyID, err)
	}

	lead := &model.Lead{
		ID:         s.newID(),
		PropertyID: property.ID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Message:    in.Message,
		CreatedAt:  s.now(),
	}
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	if s.onCreated != nil {
		s.onCreated()
	}
	s.log.Info("lead created", zap.String("lead_id", lead.ID), zap.String("property_id", lead.PropertyID))

	if s.events != nil {
		ev := queue.LeadCreatedEvent{
			LeadID:        lead.ID,
			PropertyID:    property.ID,
			PropertySlug:  property.Slug,
			PropertyTitle: property.Title,
			Name:          lead.Name,
			Email:         lead.Email,
			Phone:         lead.Phone,
			Message:       lead.Message,
			CreatedAt:     lead.CreatedAt.Format(time.RFC3339),
		}
		if err := s.events.PublishLeadCreated(ctx, ev); err != nil {
			s.log.Warn("lead event not published", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}
	return lead, nil
}

func (s *LeadService) List(ctx context.Context) ([]*model.Lead, error) {
	leads, err := s.leads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

func (s *LeadService) Count(ctx context.Context) (int, error) {
	n, err := s.leads.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}
