package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HexHunters/Tickr-sub001/internal/domain"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

// sentinelCodes maps each expected business-rule violation to an HTTP status
// and a stable code clients can dispatch on.
var sentinelCodes = map[error]struct {
	status int
	code   string
}{
	domain.ErrEventNotFound:      {http.StatusNotFound, "event_not_found"},
	domain.ErrTicketTypeNotFound: {http.StatusNotFound, "ticket_type_not_found"},
	domain.ErrOrganizerNotFound:  {http.StatusNotFound, "organizer_not_found"},
	domain.ErrNotEventOwner:      {http.StatusForbidden, "not_event_owner"},

	domain.ErrInvalidStatusTransition:    {http.StatusConflict, "invalid_status_transition"},
	domain.ErrEventNotModifiable:         {http.StatusConflict, "event_not_modifiable"},
	domain.ErrEventNotDraft:              {http.StatusConflict, "event_not_draft"},
	domain.ErrCannotModifyAfterPublish:   {http.StatusConflict, "cannot_modify_after_publish"},
	domain.ErrMissingTicketTypes:         {http.StatusConflict, "missing_ticket_types"},
	domain.ErrNoActiveTicketTypes:        {http.StatusConflict, "no_active_ticket_types"},
	domain.ErrEventDatePassed:            {http.StatusConflict, "event_date_passed"},
	domain.ErrEventAlreadyStarted:        {http.StatusConflict, "event_already_started"},
	domain.ErrTicketTypeLimitReached:     {http.StatusConflict, "ticket_type_limit_reached"},
	domain.ErrDuplicateTicketTypeName:    {http.StatusConflict, "duplicate_ticket_type_name"},
	domain.ErrQuantityBelowSold:          {http.StatusConflict, "quantity_below_sold"},
	domain.ErrTicketTypeHasSales:         {http.StatusConflict, "ticket_type_has_sales"},
	domain.ErrInsufficientCapacity:       {http.StatusConflict, "insufficient_capacity"},
	domain.ErrNotEnoughSold:              {http.StatusConflict, "not_enough_sold"},
	domain.ErrCurrencyMismatch:           {http.StatusConflict, "currency_mismatch"},
	domain.ErrConcurrentModification:     {http.StatusConflict, "concurrent_modification"},

	domain.ErrCancellationReasonRequired: {http.StatusBadRequest, "cancellation_reason_required"},
	domain.ErrInvalidQuantity:            {http.StatusBadRequest, "invalid_quantity"},
	domain.ErrTitleRequired:              {http.StatusBadRequest, "title_required"},
	domain.ErrTitleTooLong:               {http.StatusBadRequest, "title_too_long"},
	domain.ErrDescriptionTooLong:         {http.StatusBadRequest, "description_too_long"},
	domain.ErrInvalidOrganizerID:         {http.StatusBadRequest, "invalid_organizer_id"},
	domain.ErrInvalidCategory:            {http.StatusBadRequest, "invalid_category"},
	domain.ErrInvalidID:                  {http.StatusBadRequest, "invalid_id"},
	domain.ErrCityRequired:               {http.StatusBadRequest, "city_required"},
	domain.ErrCountryRequired:            {http.StatusBadRequest, "country_required"},
	domain.ErrCityTooLong:                {http.StatusBadRequest, "city_too_long"},
	domain.ErrCountryTooLong:             {http.StatusBadRequest, "country_too_long"},
	domain.ErrAddressTooLong:             {http.StatusBadRequest, "address_too_long"},
	domain.ErrPostalCodeTooLong:          {http.StatusBadRequest, "postal_code_too_long"},
	domain.ErrPartialCoordinates:         {http.StatusBadRequest, "partial_coordinates"},
	domain.ErrLatitudeOutOfRange:         {http.StatusBadRequest, "latitude_out_of_range"},
	domain.ErrLongitudeOutOfRange:        {http.StatusBadRequest, "longitude_out_of_range"},
	domain.ErrDateRequired:               {http.StatusBadRequest, "date_required"},
	domain.ErrEndBeforeStart:             {http.StatusBadRequest, "end_before_start"},
	domain.ErrStartTooSoon:               {http.StatusBadRequest, "start_too_soon"},
	domain.ErrSalesEndAfterEventStart:    {http.StatusBadRequest, "sales_end_after_event_start"},
	domain.ErrTicketNameRequired:         {http.StatusBadRequest, "ticket_name_required"},
	domain.ErrTicketNameTooLong:          {http.StatusBadRequest, "ticket_name_too_long"},
	domain.ErrPriceNotPositive:           {http.StatusBadRequest, "price_not_positive"},
	domain.ErrQuantityNotPositive:        {http.StatusBadRequest, "quantity_not_positive"},
	domain.ErrUnknownCurrency:            {http.StatusBadRequest, "unknown_currency"},
	domain.ErrNegativeAmount:             {http.StatusBadRequest, "negative_amount"},
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeDomainError maps a service error to the JSON envelope. Integrity
// errors keep their own code but surface as 500s.
func writeDomainError(w http.ResponseWriter, err error) {
	for sentinel, m := range sentinelCodes {
		if errors.Is(err, sentinel) {
			writeError(w, m.status, m.code, sentinel.Error())
			return
		}
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, domainErr.Code, "internal error")
		return
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
