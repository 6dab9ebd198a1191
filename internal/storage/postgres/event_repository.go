package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/HexHunters/Tickr-sub001/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository persists the event aggregate at aggregate granularity:
// one event row plus its ticket type rows, saved together, with an
// optimistic version check so a losing concurrent writer is rejected rather
// than merged.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const eventColumns = `id, organizer_id, title, description, category, status, image_url,
address, city, country, postal_code, latitude, longitude,
starts_at, ends_at, version, created_at, updated_at,
published_at, cancelled_at, cancellation_reason`

const ticketTypeColumns = `id, event_id, name, description, price_units, currency,
quantity, sold_quantity, sales_start, sales_end, active, created_at, updated_at`

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	s := event.Snapshot()
	const stmt = `
INSERT INTO events (` + eventColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	_, err := r.exec(ctx, stmt,
		s.ID, s.OrganizerID, s.Title, s.Description, s.Category, s.Status, s.ImageURL,
		s.Location.Address, s.Location.City, s.Location.Country, s.Location.PostalCode,
		s.Location.Latitude, s.Location.Longitude,
		s.StartsAt, s.EndsAt, s.Version, s.CreatedAt, s.UpdatedAt,
		s.PublishedAt, s.CancelledAt, s.CancellationReason,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (*domain.Event, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate loads the aggregate with a row lock on the event row, so two
// concurrent mutations serialize at the database.
func (r *EventRepository) GetForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	return r.get(ctx, id, true)
}

func (r *EventRepository) get(ctx context.Context, id string, forUpdate bool) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	row, err := scanEventRow(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	types, err := r.loadTicketTypes(ctx, id)
	if err != nil {
		return nil, err
	}
	return reconstitute(row, types)
}

func (r *EventRepository) loadTicketTypes(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	const query = `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE event_id = $1 ORDER BY created_at, id`

	rows, err := r.query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("load ticket types: %w", err)
	}
	defer rows.Close()

	var types []*domain.TicketType
	for rows.Next() {
		t, err := scanTicketType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load ticket types: %w", err)
	}
	return types, nil
}

// Save writes the aggregate back. The version predicate rejects a stale
// writer with domain.ErrConcurrentModification; ticket type rows are
// reconciled (upsert current, delete removed) in the same transaction.
func (r *EventRepository) Save(ctx context.Context, event *domain.Event) error {
	s := event.Snapshot()
	const stmt = `
UPDATE events SET
	title = $2, description = $3, category = $4, status = $5, image_url = $6,
	address = $7, city = $8, country = $9, postal_code = $10, latitude = $11, longitude = $12,
	starts_at = $13, ends_at = $14, version = version + 1, updated_at = $15,
	published_at = $16, cancelled_at = $17, cancellation_reason = $18
WHERE id = $1 AND version = $19`

	tag, err := r.exec(ctx, stmt,
		s.ID, s.Title, s.Description, s.Category, s.Status, s.ImageURL,
		s.Location.Address, s.Location.City, s.Location.Country, s.Location.PostalCode,
		s.Location.Latitude, s.Location.Longitude,
		s.StartsAt, s.EndsAt, s.UpdatedAt,
		s.PublishedAt, s.CancelledAt, s.CancellationReason,
		s.Version,
	)
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}

	keep := make([]string, 0, len(s.TicketTypes))
	for _, t := range s.TicketTypes {
		keep = append(keep, t.ID)
		const upsert = `
INSERT INTO ticket_types (` + ticketTypeColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name, description = EXCLUDED.description,
	price_units = EXCLUDED.price_units, currency = EXCLUDED.currency,
	quantity = EXCLUDED.quantity, sold_quantity = EXCLUDED.sold_quantity,
	sales_start = EXCLUDED.sales_start, sales_end = EXCLUDED.sales_end,
	active = EXCLUDED.active, updated_at = EXCLUDED.updated_at`

		if _, err := r.exec(ctx, upsert,
			t.ID, t.EventID, t.Name, t.Description, t.PriceUnits, t.Currency,
			t.Quantity, t.SoldQuantity, t.SalesStart, t.SalesEnd, t.Active,
			t.CreatedAt, t.UpdatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateTicketTypeName
			}
			return fmt.Errorf("save ticket type %s: %w", t.ID, err)
		}
	}

	const prune = `DELETE FROM ticket_types WHERE event_id = $1 AND NOT (id = ANY($2))`
	if _, err := r.exec(ctx, prune, s.ID, keep); err != nil {
		return fmt.Errorf("prune ticket types: %w", err)
	}

	event.IncrementVersion()
	return nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY created_at DESC`

	rows, err := r.query(ctx, query, organizerID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidOrganizerID
		}
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var eventRows []eventRow
	for rows.Next() {
		row, err := scanEventRow(rows)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		eventRows = append(eventRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]*domain.Event, 0, len(eventRows))
	for _, row := range eventRows {
		types, err := r.loadTicketTypes(ctx, row.id)
		if err != nil {
			return nil, err
		}
		event, err := reconstitute(row, types)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *EventRepository) ListEndedPublished(ctx context.Context, now time.Time) ([]string, error) {
	const query = `SELECT id FROM events WHERE status = $1 AND ends_at <= $2 ORDER BY ends_at`

	rows, err := r.query(ctx, query, domain.StatusPublished.String(), now)
	if err != nil {
		return nil, fmt.Errorf("list ended published: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list ended published: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ended published: %w", err)
	}
	return ids, nil
}

type eventRow struct {
	id                 string
	organizerID        string
	title              string
	description        string
	category           string
	status             string
	imageURL           string
	address            string
	city               string
	country            string
	postalCode         string
	latitude           *float64
	longitude          *float64
	startsAt           time.Time
	endsAt             time.Time
	version            int
	createdAt          time.Time
	updatedAt          time.Time
	publishedAt        *time.Time
	cancelledAt        *time.Time
	cancellationReason string
}

func scanEventRow(row pgx.Row) (eventRow, error) {
	var e eventRow
	err := row.Scan(
		&e.id, &e.organizerID, &e.title, &e.description, &e.category, &e.status, &e.imageURL,
		&e.address, &e.city, &e.country, &e.postalCode, &e.latitude, &e.longitude,
		&e.startsAt, &e.endsAt, &e.version, &e.createdAt, &e.updatedAt,
		&e.publishedAt, &e.cancelledAt, &e.cancellationReason,
	)
	return e, err
}

func scanTicketType(row pgx.Row) (*domain.TicketType, error) {
	var (
		id, eventID, name, description, currencyCode string
		priceUnits                                   int64
		quantity, soldQuantity                       int
		salesStart, salesEnd                         time.Time
		active                                       bool
		createdAt, updatedAt                         time.Time
	)
	if err := row.Scan(
		&id, &eventID, &name, &description, &priceUnits, &currencyCode,
		&quantity, &soldQuantity, &salesStart, &salesEnd, &active, &createdAt, &updatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan ticket type: %w", err)
	}

	currency, err := domain.ParseCurrency(currencyCode)
	if err != nil {
		return nil, domain.CorruptCurrencyError(currencyCode)
	}
	price, err := domain.NewMoneyFromUnits(priceUnits, currency)
	if err != nil {
		return nil, fmt.Errorf("ticket type %s price: %w", id, err)
	}
	salesPeriod, err := domain.NewSalesPeriod(salesStart, salesEnd)
	if err != nil {
		return nil, fmt.Errorf("ticket type %s sales period: %w", id, err)
	}

	return domain.ReconstituteTicketType(domain.TicketTypeState{
		ID:           id,
		EventID:      eventID,
		Name:         name,
		Description:  description,
		Price:        price,
		Quantity:     quantity,
		SoldQuantity: soldQuantity,
		SalesPeriod:  salesPeriod,
		Active:       active,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	})
}

func reconstitute(row eventRow, types []*domain.TicketType) (*domain.Event, error) {
	status, err := domain.ParseEventStatus(row.status)
	if err != nil {
		return nil, err
	}
	category, err := domain.ParseCategory(row.category)
	if err != nil {
		return nil, domain.CorruptCategoryError(row.category)
	}
	location, err := domain.NewLocation(domain.LocationParams{
		Address:    row.address,
		City:       row.city,
		Country:    row.country,
		PostalCode: row.postalCode,
		Latitude:   row.latitude,
		Longitude:  row.longitude,
	})
	if err != nil {
		return nil, fmt.Errorf("event %s location: %w", row.id, err)
	}
	dateRange, err := domain.ReconstituteDateRange(row.startsAt, row.endsAt)
	if err != nil {
		return nil, fmt.Errorf("event %s date range: %w", row.id, err)
	}

	return domain.ReconstituteEvent(domain.EventState{
		ID:                 row.id,
		OrganizerID:        row.organizerID,
		Title:              row.title,
		Description:        row.description,
		Category:           category,
		Status:             status,
		ImageURL:           row.imageURL,
		Location:           location,
		DateRange:          dateRange,
		TicketTypes:        types,
		Version:            row.version,
		CreatedAt:          row.createdAt,
		UpdatedAt:          row.updatedAt,
		PublishedAt:        row.publishedAt,
		CancelledAt:        row.cancelledAt,
		CancellationReason: row.cancellationReason,
	})
}

func (r *EventRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *EventRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *EventRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
