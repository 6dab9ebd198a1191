package domain

import "time"

// EventSnapshot is the plain projection of an event: every field plus the
// derived values read-side code needs, decoupled from the aggregate's
// internal representation.
type EventSnapshot struct {
	ID                 string               `json:"id"`
	OrganizerID        string               `json:"organizer_id"`
	Title              string               `json:"title"`
	Description        string               `json:"description,omitempty"`
	Category           string               `json:"category"`
	Status             string               `json:"status"`
	ImageURL           string               `json:"image_url,omitempty"`
	Location           LocationSnapshot     `json:"location"`
	StartsAt           time.Time            `json:"starts_at"`
	EndsAt             time.Time            `json:"ends_at"`
	TicketTypes        []TicketTypeSnapshot `json:"ticket_types"`
	TotalCapacity      int                  `json:"total_capacity"`
	SoldTickets        int                  `json:"sold_tickets"`
	AvailableCapacity  int                  `json:"available_capacity"`
	SalesProgress      int                  `json:"sales_progress"`
	SoldOut            bool                 `json:"sold_out"`
	RevenueAmount      float64              `json:"revenue_amount"`
	RevenueUnits       int64                `json:"revenue_units"`
	Currency           string               `json:"currency"`
	Version            int                  `json:"version"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	PublishedAt        *time.Time           `json:"published_at,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	CancellationReason string               `json:"cancellation_reason,omitempty"`
}

type LocationSnapshot struct {
	Address    string   `json:"address,omitempty"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	PostalCode string   `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

type TicketTypeSnapshot struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	PriceAmount  float64   `json:"price_amount"`
	PriceUnits   int64     `json:"price_units"`
	Currency     string    `json:"currency"`
	Quantity     int       `json:"quantity"`
	SoldQuantity int       `json:"sold_quantity"`
	Remaining    int       `json:"remaining"`
	SoldOut      bool      `json:"sold_out"`
	SalesStart   time.Time `json:"sales_start"`
	SalesEnd     time.Time `json:"sales_end"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot projects the aggregate to its plain form.
func (e *Event) Snapshot() EventSnapshot {
	types := make([]TicketTypeSnapshot, 0, len(e.ticketTypes))
	for _, t := range e.ticketTypes {
		types = append(types, t.Snapshot())
	}

	loc := LocationSnapshot{
		Address:    e.location.address,
		City:       e.location.city,
		Country:    e.location.country,
		PostalCode: e.location.postalCode,
	}
	if e.location.hasCoords {
		lat, lng := e.location.latitude, e.location.longitude
		loc.Latitude = &lat
		loc.Longitude = &lng
	}

	return EventSnapshot{
		ID:                 e.id,
		OrganizerID:        e.organizerID,
		Title:              e.title,
		Description:        e.description,
		Category:           e.category.String(),
		Status:             e.status.String(),
		ImageURL:           e.imageURL,
		Location:           loc,
		StartsAt:           e.dateRange.start,
		EndsAt:             e.dateRange.end,
		TicketTypes:        types,
		TotalCapacity:      e.totalCapacity,
		SoldTickets:        e.soldTickets,
		AvailableCapacity:  e.AvailableCapacity(),
		SalesProgress:      e.SalesProgress(),
		SoldOut:            e.IsSoldOut(),
		RevenueAmount:      e.revenue.Amount(),
		RevenueUnits:       e.revenue.Units(),
		Currency:           e.revenue.Currency().String(),
		Version:            e.version,
		CreatedAt:          e.createdAt,
		UpdatedAt:          e.updatedAt,
		PublishedAt:        e.publishedAt,
		CancelledAt:        e.cancelledAt,
		CancellationReason: e.cancellationReason,
	}
}

// Snapshot projects the ticket type to its plain form.
func (t *TicketType) Snapshot() TicketTypeSnapshot {
	return TicketTypeSnapshot{
		ID:           t.id,
		EventID:      t.eventID,
		Name:         t.name,
		Description:  t.description,
		PriceAmount:  t.price.Amount(),
		PriceUnits:   t.price.Units(),
		Currency:     t.price.Currency().String(),
		Quantity:     t.quantity,
		SoldQuantity: t.soldQuantity,
		Remaining:    t.Remaining(),
		SoldOut:      t.IsSoldOut(),
		SalesStart:   t.salesPeriod.start,
		SalesEnd:     t.salesPeriod.end,
		Active:       t.active,
		CreatedAt:    t.createdAt,
		UpdatedAt:    t.updatedAt,
	}
}
