package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HexHunters/Tickr-sub001/internal/domain"
	"github.com/HexHunters/Tickr-sub001/internal/testutil"
	"github.com/google/uuid"
)

func TestEventRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewEventRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	organizerID := uuid.NewString()

	t.Run("Create and Get round trip", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		event, ticketTypeID := buildEventWithTicketType(t, organizerID)
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.Save(txCtx, event)
		}); err != nil {
			t.Fatalf("save: %v", err)
		}

		loaded, err := repo.Get(ctx, event.ID())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if loaded.Title() != event.Title() || loaded.Status() != domain.StatusDraft {
			t.Fatalf("unexpected event: %s %s", loaded.Title(), loaded.Status())
		}
		if loaded.Version() != 2 {
			t.Fatalf("expected version 2 after save, got %d", loaded.Version())
		}
		if loaded.TotalCapacity() != 100 {
			t.Fatalf("expected capacity 100, got %d", loaded.TotalCapacity())
		}
		tt, ok := loaded.TicketType(ticketTypeID)
		if !ok {
			t.Fatalf("expected ticket type %s", ticketTypeID)
		}
		if tt.Price().Units() != 5000 || tt.Price().Currency() != domain.CurrencyUSD {
			t.Fatalf("unexpected price: %s", tt.Price())
		}

		_, err = repo.Get(ctx, uuid.NewString())
		if !errors.Is(err, domain.ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
		_, err = repo.Get(ctx, "not-a-uuid")
		if !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("Save rejects a stale version", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		event, _ := buildEventWithTicketType(t, organizerID)
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("create: %v", err)
		}

		first, err := repo.Get(ctx, event.ID())
		if err != nil {
			t.Fatalf("get first: %v", err)
		}
		second, err := repo.Get(ctx, event.ID())
		if err != nil {
			t.Fatalf("get second: %v", err)
		}

		now := time.Now().UTC()
		title := "Renamed First"
		if err := first.UpdateDetails(domain.UpdateEventParams{Title: &title}, now); err != nil {
			t.Fatalf("update first: %v", err)
		}
		if err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.Save(txCtx, first)
		}); err != nil {
			t.Fatalf("save first: %v", err)
		}

		title = "Renamed Second"
		if err := second.UpdateDetails(domain.UpdateEventParams{Title: &title}, now); err != nil {
			t.Fatalf("update second: %v", err)
		}
		err = repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.Save(txCtx, second)
		})
		if !errors.Is(err, domain.ErrConcurrentModification) {
			t.Fatalf("expected ErrConcurrentModification, got %v", err)
		}

		loaded, err := repo.Get(ctx, event.ID())
		if err != nil {
			t.Fatalf("get after conflict: %v", err)
		}
		if loaded.Title() != "Renamed First" {
			t.Fatalf("expected first writer to win, got %q", loaded.Title())
		}
	})

	t.Run("Save prunes removed ticket types", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		event, ticketTypeID := buildEventWithTicketType(t, organizerID)
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.Save(txCtx, event)
		}); err != nil {
			t.Fatalf("save: %v", err)
		}

		if err := event.RemoveTicketType(ticketTypeID, time.Now().UTC()); err != nil {
			t.Fatalf("remove ticket type: %v", err)
		}
		if err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.Save(txCtx, event)
		}); err != nil {
			t.Fatalf("save after remove: %v", err)
		}

		loaded, err := repo.Get(ctx, event.ID())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(loaded.TicketTypes()) != 0 {
			t.Fatalf("expected no ticket types, got %d", len(loaded.TicketTypes()))
		}
	})

	t.Run("ListByOrganizer returns only that organizer's events", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		mine, _ := buildEventWithTicketType(t, organizerID)
		theirs, _ := buildEventWithTicketType(t, uuid.NewString())
		for _, event := range []*domain.Event{mine, theirs} {
			if err := repo.Create(ctx, event); err != nil {
				t.Fatalf("create: %v", err)
			}
		}

		events, err := repo.ListByOrganizer(ctx, organizerID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(events) != 1 || events[0].ID() != mine.ID() {
			t.Fatalf("unexpected events: %d", len(events))
		}
	})

	t.Run("ListEndedPublished finds sweep candidates", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		event, _ := buildEventWithTicketType(t, organizerID)
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := event.Publish(time.Now().UTC()); err != nil {
			t.Fatalf("publish: %v", err)
		}
		if err := repo.WithTx(ctx, func(txCtx context.Context) error {
			return repo.Save(txCtx, event)
		}); err != nil {
			t.Fatalf("save: %v", err)
		}

		ids, err := repo.ListEndedPublished(ctx, time.Now().Add(6*time.Hour))
		if err != nil {
			t.Fatalf("list ended: %v", err)
		}
		if len(ids) != 1 || ids[0] != event.ID() {
			t.Fatalf("expected one candidate, got %v", ids)
		}

		ids, err = repo.ListEndedPublished(ctx, time.Now())
		if err != nil {
			t.Fatalf("list ended: %v", err)
		}
		if len(ids) != 0 {
			t.Fatalf("expected no candidates before the end, got %v", ids)
		}
	})
}

func buildEventWithTicketType(t *testing.T, organizerID string) (*domain.Event, string) {
	t.Helper()
	now := time.Now().UTC()

	location, err := domain.NewLocation(domain.LocationParams{
		Address: "Passeig Maritim 1",
		City:    "Barcelona",
		Country: "Spain",
	})
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	dateRange, err := domain.NewDateRange(now.Add(2*time.Hour), now.Add(5*time.Hour), now)
	if err != nil {
		t.Fatalf("date range: %v", err)
	}

	event, err := domain.NewEvent(domain.NewEventParams{
		ID:          uuid.NewString(),
		OrganizerID: organizerID,
		Title:       "Summer Festival",
		Description: "Open air music festival",
		Category:    domain.CategoryFestival,
		Location:    location,
		DateRange:   dateRange,
	}, now)
	if err != nil {
		t.Fatalf("event: %v", err)
	}

	price, err := domain.NewMoney(50, domain.CurrencyUSD)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	salesPeriod, err := domain.NewSalesPeriod(now.Add(-time.Hour), now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("sales period: %v", err)
	}
	ticketTypeID := uuid.NewString()
	ticketType, err := domain.NewTicketType(domain.NewTicketTypeParams{
		ID:          ticketTypeID,
		EventID:     event.ID(),
		Name:        "General Admission",
		Price:       price,
		Quantity:    100,
		SalesPeriod: salesPeriod,
	}, now)
	if err != nil {
		t.Fatalf("ticket type: %v", err)
	}
	if err := event.AddTicketType(ticketType, now); err != nil {
		t.Fatalf("add ticket type: %v", err)
	}
	event.PullEvents()
	return event, ticketTypeID
}
