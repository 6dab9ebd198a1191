package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxTicketNameLen = 100

// TicketType is a sellable tier of an event. It is owned exclusively by one
// Event and mutated only through the owning aggregate's methods.
type TicketType struct {
	recorder
	id           string
	eventID      string
	name         string
	description  string
	price        Money
	quantity     int
	soldQuantity int
	salesPeriod  SalesPeriod
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewTicketTypeParams carries the inputs for a new ticket type.
type NewTicketTypeParams struct {
	ID          string
	EventID     string
	Name        string
	Description string
	Price       Money
	Quantity    int
	SalesPeriod SalesPeriod
}

// NewTicketType validates all fields atomically and returns a ready ticket
// type or an error, never a partial instance.
func NewTicketType(p NewTicketTypeParams, now time.Time) (*TicketType, error) {
	if uuid.Validate(p.ID) != nil || uuid.Validate(p.EventID) != nil {
		return nil, ErrInvalidID
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrTicketNameRequired
	}
	if len(name) > maxTicketNameLen {
		return nil, ErrTicketNameTooLong
	}
	if !p.Price.IsPositive() {
		return nil, ErrPriceNotPositive
	}
	if p.Quantity <= 0 {
		return nil, ErrQuantityNotPositive
	}
	if p.SalesPeriod.Start().IsZero() {
		return nil, ErrDateRequired
	}

	now = now.UTC()
	return &TicketType{
		id:          p.ID,
		eventID:     p.EventID,
		name:        name,
		description: strings.TrimSpace(p.Description),
		price:       p.Price,
		quantity:    p.Quantity,
		salesPeriod: p.SalesPeriod,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// TicketTypeState carries already-validated persisted fields.
type TicketTypeState struct {
	ID           string
	EventID      string
	Name         string
	Description  string
	Price        Money
	Quantity     int
	SoldQuantity int
	SalesPeriod  SalesPeriod
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReconstituteTicketType rebuilds a ticket type from storage. It does not
// re-run creation rules but still refuses structurally impossible state.
func ReconstituteTicketType(s TicketTypeState) (*TicketType, error) {
	if s.SoldQuantity < 0 || s.SoldQuantity > s.Quantity {
		return nil, OversoldError(s.ID, s.SoldQuantity, s.Quantity)
	}
	if !s.Price.Currency().valid() {
		return nil, CorruptCurrencyError(s.Price.Currency().String())
	}
	return &TicketType{
		id:           s.ID,
		eventID:      s.EventID,
		name:         s.Name,
		description:  s.Description,
		price:        s.Price,
		quantity:     s.Quantity,
		soldQuantity: s.SoldQuantity,
		salesPeriod:  s.SalesPeriod,
		active:       s.Active,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}, nil
}

func (t *TicketType) ID() string               { return t.id }
func (t *TicketType) EventID() string          { return t.eventID }
func (t *TicketType) Name() string             { return t.name }
func (t *TicketType) Description() string      { return t.description }
func (t *TicketType) Price() Money             { return t.price }
func (t *TicketType) Quantity() int            { return t.quantity }
func (t *TicketType) SoldQuantity() int        { return t.soldQuantity }
func (t *TicketType) SalesPeriod() SalesPeriod { return t.salesPeriod }
func (t *TicketType) IsActive() bool           { return t.active }
func (t *TicketType) CreatedAt() time.Time     { return t.createdAt }
func (t *TicketType) UpdatedAt() time.Time     { return t.updatedAt }

// Remaining returns how many tickets are still sellable.
func (t *TicketType) Remaining() int {
	return t.quantity - t.soldQuantity
}

func (t *TicketType) IsSoldOut() bool {
	return t.soldQuantity >= t.quantity
}

// IsOnSale reports whether the type is active and its sales window contains now.
func (t *TicketType) IsOnSale(now time.Time) bool {
	return t.active && t.salesPeriod.IsActive(now)
}

// Revenue returns price times sold quantity.
func (t *TicketType) Revenue() Money {
	return t.price.MulQty(t.soldQuantity)
}

// UpdateTicketTypeParams carries a partial update; nil fields are untouched.
type UpdateTicketTypeParams struct {
	Name        *string
	Description *string
	Price       *Money
	Quantity    *int
	SalesPeriod *SalesPeriod
	Active      *bool
}

// update applies a partial update. Validation runs before any field is
// written so a failure leaves the type unchanged.
func (t *TicketType) update(p UpdateTicketTypeParams, now time.Time) error {
	var name string
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			return ErrTicketNameRequired
		}
		if len(name) > maxTicketNameLen {
			return ErrTicketNameTooLong
		}
	}
	if p.Price != nil && !p.Price.IsPositive() {
		return ErrPriceNotPositive
	}
	if p.Quantity != nil {
		if *p.Quantity <= 0 {
			return ErrQuantityNotPositive
		}
		if *p.Quantity < t.soldQuantity {
			return ErrQuantityBelowSold
		}
	}

	if p.Name != nil {
		t.name = name
	}
	if p.Description != nil {
		t.description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		t.price = *p.Price
	}
	if p.Quantity != nil {
		t.quantity = *p.Quantity
	}
	if p.SalesPeriod != nil {
		t.salesPeriod = *p.SalesPeriod
	}
	if p.Active != nil {
		t.active = *p.Active
	}
	t.updatedAt = now.UTC()
	return nil
}

// incrementSold adds n sold tickets, refusing to pass the quantity. On
// sellout the type records TicketTypeSoldOut on its own log.
func (t *TicketType) incrementSold(n int, now time.Time) error {
	if n <= 0 {
		return ErrInvalidQuantity
	}
	if t.soldQuantity+n > t.quantity {
		return ErrInsufficientCapacity
	}
	t.soldQuantity += n
	t.updatedAt = now.UTC()
	if t.IsSoldOut() {
		t.record(TicketTypeSoldOut{
			EventID:      t.eventID,
			TicketTypeID: t.id,
			Name:         t.name,
			At:           now.UTC(),
		})
	}
	return nil
}

// decrementSold removes n sold tickets, refusing to go below zero.
func (t *TicketType) decrementSold(n int, now time.Time) error {
	if n <= 0 {
		return ErrInvalidQuantity
	}
	if n > t.soldQuantity {
		return ErrNotEnoughSold
	}
	t.soldQuantity -= n
	t.updatedAt = now.UTC()
	return nil
}
