package postgres

import (
	"context"
	"fmt"

	"github.com/HexHunters/Tickr-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrganizerRegistry answers ownership checks against the events table. A
// real accounts service owns organizer identity; until that is wired in,
// ValidateOrganizer only checks the identifier is well formed.
type OrganizerRegistry struct {
	pool *pgxpool.Pool
}

func NewOrganizerRegistry(pool *pgxpool.Pool) *OrganizerRegistry {
	return &OrganizerRegistry{pool: pool}
}

func (r *OrganizerRegistry) ValidateOrganizer(_ context.Context, organizerID string) error {
	if uuid.Validate(organizerID) != nil {
		return domain.ErrInvalidOrganizerID
	}
	return nil
}

func (r *OrganizerRegistry) IsEventOwner(ctx context.Context, organizerID, eventID string) (bool, error) {
	const query = `SELECT organizer_id FROM events WHERE id = $1`

	var owner string
	err := r.pool.QueryRow(ctx, query, eventID).Scan(&owner)
	if err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return false, domain.ErrEventNotFound
		}
		return false, fmt.Errorf("lookup event owner: %w", err)
	}
	return owner == organizerID, nil
}
