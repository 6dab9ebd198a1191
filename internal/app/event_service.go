package app

import (
	"context"
	"log"
	"time"

	"github.com/HexHunters/Tickr-sub001/internal/clock"
	"github.com/HexHunters/Tickr-sub001/internal/domain"
)

// EventRepository is the persistence port for the event aggregate. Save must
// reject concurrent writers with domain.ErrConcurrentModification; the
// aggregate has no merge semantics.
type EventRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, event *domain.Event) error
	Get(ctx context.Context, id string) (*domain.Event, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Event, error)
	Save(ctx context.Context, event *domain.Event) error
	ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error)
	ListEndedPublished(ctx context.Context, now time.Time) ([]string, error)
}

// OrganizerRegistry is the user-validation port consumed from the accounts
// context.
type OrganizerRegistry interface {
	ValidateOrganizer(ctx context.Context, organizerID string) error
	IsEventOwner(ctx context.Context, organizerID, eventID string) (bool, error)
}

// EventPublisher dispatches drained domain events after a committed mutation.
type EventPublisher interface {
	Publish(ctx context.Context, events []domain.DomainEvent) error
}

// EventService runs the event lifecycle use cases: each mutation loads one
// aggregate, applies exactly one operation, saves it, then drains and
// publishes its domain events.
type EventService struct {
	repo       EventRepository
	organizers OrganizerRegistry
	publisher  EventPublisher
	clock      clock.Clock
	logger     *log.Logger
}

func NewEventService(repo EventRepository, organizers OrganizerRegistry, publisher EventPublisher, clk clock.Clock, logger *log.Logger) *EventService {
	if logger == nil {
		logger = log.Default()
	}
	return &EventService{
		repo:       repo,
		organizers: organizers,
		publisher:  publisher,
		clock:      clk,
		logger:     logger,
	}
}

type CreateEventInput struct {
	OrganizerID string
	Title       string
	Description string
	Category    string
	ImageURL    string
	Location    domain.LocationParams
	StartsAt    time.Time
	EndsAt      time.Time
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	if err := s.organizers.ValidateOrganizer(ctx, in.OrganizerID); err != nil {
		return nil, err
	}

	category, err := domain.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	location, err := domain.NewLocation(in.Location)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	dateRange, err := domain.NewDateRange(in.StartsAt, in.EndsAt, now)
	if err != nil {
		return nil, err
	}

	event, err := domain.NewEvent(domain.NewEventParams{
		ID:          newUUID(),
		OrganizerID: in.OrganizerID,
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		ImageURL:    in.ImageURL,
		Location:    location,
		DateRange:   dateRange,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	s.publishDrained(ctx, event)
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.repo.Get(ctx, eventID)
}

func (s *EventService) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	if err := s.organizers.ValidateOrganizer(ctx, organizerID); err != nil {
		return nil, err
	}
	return s.repo.ListByOrganizer(ctx, organizerID)
}

type UpdateEventInput struct {
	OrganizerID string
	EventID     string
	Title       *string
	Description *string
	Category    *string
	ImageURL    *string
	Location    *domain.LocationParams
	StartsAt    *time.Time
	EndsAt      *time.Time
}

func (s *EventService) UpdateEvent(ctx context.Context, in UpdateEventInput) (*domain.Event, error) {
	return s.mutate(ctx, in.OrganizerID, in.EventID, func(event *domain.Event, now time.Time) error {
		params := domain.UpdateEventParams{
			Title:       in.Title,
			Description: in.Description,
			ImageURL:    in.ImageURL,
		}

		if in.Category != nil {
			category, err := domain.ParseCategory(*in.Category)
			if err != nil {
				return err
			}
			params.Category = &category
		}
		if in.Location != nil {
			location, err := domain.NewLocation(*in.Location)
			if err != nil {
				return err
			}
			params.Location = &location
		}
		if (in.StartsAt == nil) != (in.EndsAt == nil) {
			return domain.ErrDateRequired
		}
		if in.StartsAt != nil {
			dateRange, err := domain.NewDateRange(*in.StartsAt, *in.EndsAt, now)
			if err != nil {
				return err
			}
			params.DateRange = &dateRange
		}

		return event.UpdateDetails(params, now)
	})
}

func (s *EventService) UpdateEventImage(ctx context.Context, organizerID, eventID, imageURL string) (*domain.Event, error) {
	return s.mutate(ctx, organizerID, eventID, func(event *domain.Event, now time.Time) error {
		return event.UpdateDetails(domain.UpdateEventParams{ImageURL: &imageURL}, now)
	})
}

func (s *EventService) PublishEvent(ctx context.Context, organizerID, eventID string) (*domain.Event, error) {
	return s.mutate(ctx, organizerID, eventID, func(event *domain.Event, now time.Time) error {
		return event.Publish(now)
	})
}

func (s *EventService) CancelEvent(ctx context.Context, organizerID, eventID, reason string) (*domain.Event, error) {
	return s.mutate(ctx, organizerID, eventID, func(event *domain.Event, now time.Time) error {
		return event.Cancel(reason, now)
	})
}

type AddTicketTypeInput struct {
	OrganizerID string
	EventID     string
	Name        string
	Description string
	PriceAmount float64
	Currency    string
	Quantity    int
	SalesStart  time.Time
	SalesEnd    time.Time
}

func (s *EventService) AddTicketType(ctx context.Context, in AddTicketTypeInput) (*domain.Event, error) {
	return s.mutate(ctx, in.OrganizerID, in.EventID, func(event *domain.Event, now time.Time) error {
		currency, err := domain.ParseCurrency(in.Currency)
		if err != nil {
			return err
		}
		price, err := domain.NewMoney(in.PriceAmount, currency)
		if err != nil {
			return err
		}
		salesPeriod, err := domain.NewSalesPeriod(in.SalesStart, in.SalesEnd)
		if err != nil {
			return err
		}
		if !salesPeriod.EndsBy(event.DateRange().Start()) {
			return domain.ErrSalesEndAfterEventStart
		}

		ticketType, err := domain.NewTicketType(domain.NewTicketTypeParams{
			ID:          newUUID(),
			EventID:     in.EventID,
			Name:        in.Name,
			Description: in.Description,
			Price:       price,
			Quantity:    in.Quantity,
			SalesPeriod: salesPeriod,
		}, now)
		if err != nil {
			return err
		}
		return event.AddTicketType(ticketType, now)
	})
}

type UpdateTicketTypeInput struct {
	OrganizerID  string
	EventID      string
	TicketTypeID string
	Name         *string
	Description  *string
	PriceAmount  *float64
	Currency     *string
	Quantity     *int
	SalesStart   *time.Time
	SalesEnd     *time.Time
	Active       *bool
}

func (s *EventService) UpdateTicketType(ctx context.Context, in UpdateTicketTypeInput) (*domain.Event, error) {
	return s.mutate(ctx, in.OrganizerID, in.EventID, func(event *domain.Event, now time.Time) error {
		params := domain.UpdateTicketTypeParams{
			Name:        in.Name,
			Description: in.Description,
			Quantity:    in.Quantity,
			Active:      in.Active,
		}

		if (in.PriceAmount == nil) != (in.Currency == nil) {
			return domain.ErrUnknownCurrency
		}
		if in.PriceAmount != nil {
			currency, err := domain.ParseCurrency(*in.Currency)
			if err != nil {
				return err
			}
			price, err := domain.NewMoney(*in.PriceAmount, currency)
			if err != nil {
				return err
			}
			params.Price = &price
		}
		if (in.SalesStart == nil) != (in.SalesEnd == nil) {
			return domain.ErrDateRequired
		}
		if in.SalesStart != nil {
			salesPeriod, err := domain.NewSalesPeriod(*in.SalesStart, *in.SalesEnd)
			if err != nil {
				return err
			}
			if !salesPeriod.EndsBy(event.DateRange().Start()) {
				return domain.ErrSalesEndAfterEventStart
			}
			params.SalesPeriod = &salesPeriod
		}

		return event.UpdateTicketType(in.TicketTypeID, params, now)
	})
}

func (s *EventService) RemoveTicketType(ctx context.Context, organizerID, eventID, ticketTypeID string) (*domain.Event, error) {
	return s.mutate(ctx, organizerID, eventID, func(event *domain.Event, now time.Time) error {
		return event.RemoveTicketType(ticketTypeID, now)
	})
}

// RecordSale increments the sold counter for a tier. Called by the checkout
// context, so there is no organizer guard.
func (s *EventService) RecordSale(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error) {
	return s.mutate(ctx, "", eventID, func(event *domain.Event, now time.Time) error {
		return event.IncrementSold(ticketTypeID, quantity, now)
	})
}

// RecordRefund decrements the sold counter for a tier. Called by the refund
// context, so there is no organizer guard.
func (s *EventService) RecordRefund(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error) {
	return s.mutate(ctx, "", eventID, func(event *domain.Event, now time.Time) error {
		return event.DecrementSold(ticketTypeID, quantity, now)
	})
}

// mutate runs one aggregate operation inside a transaction: load with a row
// lock, apply, save with the optimistic version check, then publish the
// drained events once committed.
func (s *EventService) mutate(ctx context.Context, organizerID, eventID string, op func(event *domain.Event, now time.Time) error) (*domain.Event, error) {
	if organizerID != "" {
		owns, err := s.organizers.IsEventOwner(ctx, organizerID, eventID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, domain.ErrNotEventOwner
		}
	}

	now := s.clock.Now()
	var result *domain.Event

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.repo.GetForUpdate(txCtx, eventID)
		if err != nil {
			return err
		}
		if err := op(event, now); err != nil {
			return err
		}
		if err := s.repo.Save(txCtx, event); err != nil {
			return err
		}
		result = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDrained(ctx, result)
	return result, nil
}

// publishDrained empties both event logs. Publishing failures are logged, not
// returned: the mutation is already committed.
func (s *EventService) publishDrained(ctx context.Context, event *domain.Event) {
	events := event.PullEvents()
	events = append(events, event.PullTicketTypeEvents()...)
	if len(events) == 0 || s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events); err != nil {
		s.logger.Printf("WARN: publish domain events for event %s: %v", event.ID(), err)
	}
}
