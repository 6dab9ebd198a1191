package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/HexHunters/Tickr-sub001/internal/app"
	"github.com/HexHunters/Tickr-sub001/internal/domain"
)

// organizerHeader carries the caller's organizer identity. Authentication
// middleware (out of scope here) is expected to set it from the session.
const organizerHeader = "X-Organizer-ID"

// EventService is the full application surface the event routes need.
type EventService interface {
	CreateEvent(ctx context.Context, in app.CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, eventID string) (*domain.Event, error)
	ListEventsByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error)
	UpdateEvent(ctx context.Context, in app.UpdateEventInput) (*domain.Event, error)
	UpdateEventImage(ctx context.Context, organizerID, eventID, imageURL string) (*domain.Event, error)
	PublishEvent(ctx context.Context, organizerID, eventID string) (*domain.Event, error)
	CancelEvent(ctx context.Context, organizerID, eventID, reason string) (*domain.Event, error)
}

// HandleEvents serves POST /events and GET /events?organizer_id=...
func HandleEvents(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var req createEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}

			event, err := svc.CreateEvent(r.Context(), app.CreateEventInput{
				OrganizerID: r.Header.Get(organizerHeader),
				Title:       req.Title,
				Description: req.Description,
				Category:    req.Category,
				ImageURL:    req.ImageURL,
				Location: domain.LocationParams{
					Address:    req.Location.Address,
					City:       req.Location.City,
					Country:    req.Location.Country,
					PostalCode: req.Location.PostalCode,
					Latitude:   req.Location.Latitude,
					Longitude:  req.Location.Longitude,
				},
				StartsAt: req.StartsAt,
				EndsAt:   req.EndsAt,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, event.Snapshot())
			return
		case http.MethodGet:
			organizerID := r.URL.Query().Get("organizer_id")
			if organizerID == "" {
				organizerID = r.Header.Get(organizerHeader)
			}
			events, err := svc.ListEventsByOrganizer(r.Context(), organizerID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			resp := make([]domain.EventSnapshot, 0, len(events))
			for _, event := range events {
				resp = append(resp, event.Snapshot())
			}
			writeJSON(w, http.StatusOK, resp)
			return
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
	}
}

// HandleEventByID serves the /events/{id} subtree: detail, partial update,
// publish, cancel, and image replacement.
func HandleEventByID(svc EventService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, action, ok := parseEventPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		organizerID := r.Header.Get(organizerHeader)

		switch {
		case action == "" && r.Method == http.MethodGet:
			event, err := svc.GetEvent(r.Context(), eventID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, event.Snapshot())
		case action == "" && r.Method == http.MethodPatch:
			var req updateEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			event, err := svc.UpdateEvent(r.Context(), req.toInput(organizerID, eventID))
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, event.Snapshot())
		case action == "publish" && r.Method == http.MethodPost:
			event, err := svc.PublishEvent(r.Context(), organizerID, eventID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, event.Snapshot())
		case action == "cancel" && r.Method == http.MethodPost:
			var req cancelEventRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			event, err := svc.CancelEvent(r.Context(), organizerID, eventID, req.Reason)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, event.Snapshot())
		case action == "image" && r.Method == http.MethodPut:
			var req updateImageRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			event, err := svc.UpdateEventImage(r.Context(), organizerID, eventID, req.ImageURL)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, event.Snapshot())
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

type locationRequest struct {
	Address    string   `json:"address,omitempty"`
	City       string   `json:"city"`
	Country    string   `json:"country"`
	PostalCode string   `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

type createEventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url,omitempty"`
	Location    locationRequest `json:"location"`
	StartsAt    time.Time       `json:"starts_at"`
	EndsAt      time.Time       `json:"ends_at"`
}

type updateEventRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	Location    *locationRequest `json:"location,omitempty"`
	StartsAt    *time.Time       `json:"starts_at,omitempty"`
	EndsAt      *time.Time       `json:"ends_at,omitempty"`
}

func (r updateEventRequest) toInput(organizerID, eventID string) app.UpdateEventInput {
	in := app.UpdateEventInput{
		OrganizerID: organizerID,
		EventID:     eventID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
	}
	if r.Location != nil {
		in.Location = &domain.LocationParams{
			Address:    r.Location.Address,
			City:       r.Location.City,
			Country:    r.Location.Country,
			PostalCode: r.Location.PostalCode,
			Latitude:   r.Location.Latitude,
			Longitude:  r.Location.Longitude,
		}
	}
	return in
}

type cancelEventRequest struct {
	Reason string `json:"reason"`
}

type updateImageRequest struct {
	ImageURL string `json:"image_url"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// parseEventPath splits /events/{id}[/{action}] into its parts.
func parseEventPath(path string) (eventID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "events" || parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 3 {
		if parts[2] == "" {
			return "", "", false
		}
		return parts[1], parts[2], true
	}
	return parts[1], "", true
}
