package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HexHunters/Tickr-sub001/internal/app"
	"github.com/HexHunters/Tickr-sub001/internal/domain"
)

var (
	stubEventID     = "3f2c9a2e-8f57-4c8e-9f1a-6b1d2e3f4a5b"
	stubOrganizerID = "7a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"
	stubNow         = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func stubEvent(t *testing.T) *domain.Event {
	t.Helper()
	location, err := domain.NewLocation(domain.LocationParams{City: "Barcelona", Country: "Spain"})
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	dateRange, err := domain.NewDateRange(stubNow.Add(48*time.Hour), stubNow.Add(54*time.Hour), stubNow)
	if err != nil {
		t.Fatalf("date range: %v", err)
	}
	event, err := domain.NewEvent(domain.NewEventParams{
		ID:          stubEventID,
		OrganizerID: stubOrganizerID,
		Title:       "Summer Festival",
		Category:    domain.CategoryFestival,
		Location:    location,
		DateRange:   dateRange,
	}, stubNow)
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	event.PullEvents()
	return event
}

func TestHandleEvents_Create(t *testing.T) {
	t.Parallel()

	body := `{"title":"Summer Festival","category":"festival","location":{"city":"Barcelona","country":"Spain"},"starts_at":"2025-06-03T12:00:00Z","ends_at":"2025-06-03T18:00:00Z"}`

	tests := []struct {
		name           string
		method         string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "created",
			method:         http.MethodPost,
			body:           body,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"title":"Summer Festival"`,
		},
		{
			name:           "invalid body",
			method:         http.MethodPost,
			body:           `{"title":`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_request_body"`,
		},
		{
			name:           "unknown field",
			method:         http.MethodPost,
			body:           `{"name":"Summer Festival"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "organizer not found",
			method:         http.MethodPost,
			body:           body,
			serviceErr:     domain.ErrOrganizerNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"code":"organizer_not_found"`,
		},
		{
			name:           "start too soon",
			method:         http.MethodPost,
			body:           body,
			serviceErr:     domain.ErrStartTooSoon,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"start_too_soon"`,
		},
		{
			name:           "method not allowed",
			method:         http.MethodDelete,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubEventRoutes{event: stubEvent(t), err: tt.serviceErr}

			req := httptest.NewRequest(tt.method, "/events", strings.NewReader(tt.body))
			req.Header.Set(organizerHeader, stubOrganizerID)
			rec := httptest.NewRecorder()

			HandleEvents(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleEvents_List(t *testing.T) {
	t.Parallel()

	svc := &stubEventRoutes{event: stubEvent(t)}
	req := httptest.NewRequest(http.MethodGet, "/events?organizer_id="+stubOrganizerID, nil)
	rec := httptest.NewRecorder()

	HandleEvents(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.listedOrganizer != stubOrganizerID {
		t.Fatalf("expected list for %s, got %s", stubOrganizerID, svc.listedOrganizer)
	}
	if !strings.Contains(rec.Body.String(), `"id":"`+stubEventID+`"`) {
		t.Fatalf("expected event in body, got %s", rec.Body.String())
	}
}

func TestHandleEventByID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "detail",
			method:         http.MethodGet,
			path:           "/events/" + stubEventID,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"status":"draft"`,
		},
		{
			name:           "detail not found",
			method:         http.MethodGet,
			path:           "/events/" + stubEventID,
			serviceErr:     domain.ErrEventNotFound,
			expectedStatus: http.StatusNotFound,
			expectedSubstr: `"code":"event_not_found"`,
		},
		{
			name:           "update",
			method:         http.MethodPatch,
			path:           "/events/" + stubEventID,
			body:           `{"title":"Renamed"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "update after publish",
			method:         http.MethodPatch,
			path:           "/events/" + stubEventID,
			body:           `{"starts_at":"2025-06-05T12:00:00Z","ends_at":"2025-06-05T18:00:00Z"}`,
			serviceErr:     domain.ErrCannotModifyAfterPublish,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"cannot_modify_after_publish"`,
		},
		{
			name:           "publish",
			method:         http.MethodPost,
			path:           "/events/" + stubEventID + "/publish",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "publish without ticket types",
			method:         http.MethodPost,
			path:           "/events/" + stubEventID + "/publish",
			serviceErr:     domain.ErrMissingTicketTypes,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"missing_ticket_types"`,
		},
		{
			name:           "publish as non-owner",
			method:         http.MethodPost,
			path:           "/events/" + stubEventID + "/publish",
			serviceErr:     domain.ErrNotEventOwner,
			expectedStatus: http.StatusForbidden,
			expectedSubstr: `"code":"not_event_owner"`,
		},
		{
			name:           "cancel",
			method:         http.MethodPost,
			path:           "/events/" + stubEventID + "/cancel",
			body:           `{"reason":"weather"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "cancel without reason",
			method:         http.MethodPost,
			path:           "/events/" + stubEventID + "/cancel",
			body:           `{"reason":""}`,
			serviceErr:     domain.ErrCancellationReasonRequired,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"cancellation_reason_required"`,
		},
		{
			name:           "replace image",
			method:         http.MethodPut,
			path:           "/events/" + stubEventID + "/image",
			body:           `{"image_url":"https://cdn.example.com/poster.jpg"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "concurrent modification",
			method:         http.MethodPost,
			path:           "/events/" + stubEventID + "/publish",
			serviceErr:     domain.ErrConcurrentModification,
			expectedStatus: http.StatusConflict,
			expectedSubstr: `"code":"concurrent_modification"`,
		},
		{
			name:           "unknown action",
			method:         http.MethodPost,
			path:           "/events/" + stubEventID + "/archive",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "empty id",
			method:         http.MethodGet,
			path:           "/events//publish",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubEventRoutes{event: stubEvent(t), err: tt.serviceErr}

			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("{}")
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set(organizerHeader, stubOrganizerID)
			rec := httptest.NewRecorder()

			HandleEventByID(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected body to contain %q, got %s", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleEventByID_IntegrityErrorSurfacesAs500(t *testing.T) {
	t.Parallel()

	svc := &stubEventRoutes{err: domain.CapacityMismatchError(stubEventID, 100, 90)}
	req := httptest.NewRequest(http.MethodGet, "/events/"+stubEventID, nil)
	rec := httptest.NewRecorder()

	HandleEventByID(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"event.capacity_mismatch"`) {
		t.Fatalf("expected integrity code in body, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "does not match") {
		t.Fatalf("integrity detail must not leak, got %s", rec.Body.String())
	}
}

// stubEventRoutes satisfies EventRoutes with canned responses.
type stubEventRoutes struct {
	event           *domain.Event
	err             error
	listedOrganizer string

	saleEventID      string
	saleTicketTypeID string
	saleQuantity     int
}

func (s *stubEventRoutes) CreateEvent(ctx context.Context, in app.CreateEventInput) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	s.listedOrganizer = organizerID
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Event{s.event}, nil
}

func (s *stubEventRoutes) UpdateEvent(ctx context.Context, in app.UpdateEventInput) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) UpdateEventImage(ctx context.Context, organizerID, eventID, imageURL string) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) PublishEvent(ctx context.Context, organizerID, eventID string) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) CancelEvent(ctx context.Context, organizerID, eventID, reason string) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) AddTicketType(ctx context.Context, in app.AddTicketTypeInput) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) UpdateTicketType(ctx context.Context, in app.UpdateTicketTypeInput) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) RemoveTicketType(ctx context.Context, organizerID, eventID, ticketTypeID string) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) RecordSale(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error) {
	s.saleEventID, s.saleTicketTypeID, s.saleQuantity = eventID, ticketTypeID, quantity
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}

func (s *stubEventRoutes) RecordRefund(ctx context.Context, eventID, ticketTypeID string, quantity int) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.event, nil
}
