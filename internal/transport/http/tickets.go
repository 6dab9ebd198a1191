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

// TicketTypeService is the application surface the ticket type routes need.
type TicketTypeService interface {
	AddTicketType(ctx context.Context, in app.AddTicketTypeInput) (*domain.Event, error)
	UpdateTicketType(ctx context.Context, in app.UpdateTicketTypeInput) (*domain.Event, error)
	RemoveTicketType(ctx context.Context, organizerID, eventID, ticketTypeID string) (*domain.Event, error)
	RecordSale(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error)
	RecordRefund(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error)
}

// EventRoutes bundles the /events/ subtree: event operations plus the nested
// ticket type collection.
type EventRoutes interface {
	EventService
	TicketTypeService
}

// HandleEventRoutes dispatches the whole /events/{id}... subtree.
func HandleEventRoutes(svc EventRoutes) http.HandlerFunc {
	events := HandleEventByID(svc)
	tickets := handleTicketTypes(svc)
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) >= 3 && parts[2] == "ticket-types" {
			tickets(w, r)
			return
		}
		events(w, r)
	}
}

func handleTicketTypes(svc TicketTypeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, ticketTypeID, action, ok := parseTicketTypePath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}
		organizerID := r.Header.Get(organizerHeader)

		switch {
		case ticketTypeID == "" && r.Method == http.MethodPost:
			var req addTicketTypeRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			event, err := svc.AddTicketType(r.Context(), app.AddTicketTypeInput{
				OrganizerID: organizerID,
				EventID:     eventID,
				Name:        req.Name,
				Description: req.Description,
				PriceAmount: req.Price,
				Currency:    req.Currency,
				Quantity:    req.Quantity,
				SalesStart:  req.SalesStart,
				SalesEnd:    req.SalesEnd,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, event.Snapshot())
		case ticketTypeID != "" && action == "" && r.Method == http.MethodPatch:
			var req updateTicketTypeRequest
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
				return
			}
			event, err := svc.UpdateTicketType(r.Context(), app.UpdateTicketTypeInput{
				OrganizerID:  organizerID,
				EventID:      eventID,
				TicketTypeID: ticketTypeID,
				Name:         req.Name,
				Description:  req.Description,
				PriceAmount:  req.Price,
				Currency:     req.Currency,
				Quantity:     req.Quantity,
				SalesStart:   req.SalesStart,
				SalesEnd:     req.SalesEnd,
				Active:       req.Active,
			})
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, event.Snapshot())
		case ticketTypeID != "" && action == "" && r.Method == http.MethodDelete:
			event, err := svc.RemoveTicketType(r.Context(), organizerID, eventID, ticketTypeID)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, event.Snapshot())
		case action == "sales" && r.Method == http.MethodPost:
			quantity, ok := decodeQuantity(w, r)
			if !ok {
				return
			}
			event, err := svc.RecordSale(r.Context(), eventID, ticketTypeID, quantity)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, event.Snapshot())
		case action == "refunds" && r.Method == http.MethodPost:
			quantity, ok := decodeQuantity(w, r)
			if !ok {
				return
			}
			event, err := svc.RecordRefund(r.Context(), eventID, ticketTypeID, quantity)
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

type addTicketTypeRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Quantity    int       `json:"quantity"`
	SalesStart  time.Time `json:"sales_start"`
	SalesEnd    time.Time `json:"sales_end"`
}

type updateTicketTypeRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty"`
	Currency    *string    `json:"currency,omitempty"`
	Quantity    *int       `json:"quantity,omitempty"`
	SalesStart  *time.Time `json:"sales_start,omitempty"`
	SalesEnd    *time.Time `json:"sales_end,omitempty"`
	Active      *bool      `json:"active,omitempty"`
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

func decodeQuantity(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req quantityRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return 0, false
	}
	return req.Quantity, true
}

// parseTicketTypePath splits /events/{id}/ticket-types[/{ttID}[/sales|/refunds]].
func parseTicketTypePath(path string) (eventID, ticketTypeID, action string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 3 || len(parts) > 5 || parts[0] != "events" || parts[1] == "" || parts[2] != "ticket-types" {
		return "", "", "", false
	}
	eventID = parts[1]
	if len(parts) >= 4 {
		if parts[3] == "" {
			return "", "", "", false
		}
		ticketTypeID = parts[3]
	}
	if len(parts) == 5 {
		if parts[4] != "sales" && parts[4] != "refunds" {
			return "", "", "", false
		}
		action = parts[4]
	}
	return eventID, ticketTypeID, action, true
}
