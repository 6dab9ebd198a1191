package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testEventID      = "3f2c9a2e-8f57-4c8e-9f1a-6b1d2e3f4a5b"
	testOrganizerID  = "7a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"
	testTicketID     = "9c8b7a6d-5e4f-4321-b0a9-8f7e6d5c4b3a"
	testTicketID2    = "1a2b3c4d-5e6f-4788-99aa-bbccddeeff00"
	testOtherEventID = "0f1e2d3c-4b5a-4697-8877-665544332211"
)

func mustMoney(t *testing.T, amount float64, currency Currency) Money {
	t.Helper()
	m, err := NewMoney(amount, currency)
	require.NoError(t, err)
	return m
}

func mustSalesPeriod(t *testing.T, start, end time.Time) SalesPeriod {
	t.Helper()
	p, err := NewSalesPeriod(start, end)
	require.NoError(t, err)
	return p
}

// openSalesPeriod is a window that contains baseTime.
func openSalesPeriod(t *testing.T) SalesPeriod {
	t.Helper()
	return mustSalesPeriod(t, baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
}

func newTestTicketType(t *testing.T, quantity int) *TicketType {
	t.Helper()
	tt, err := NewTicketType(NewTicketTypeParams{
		ID:          testTicketID,
		EventID:     testEventID,
		Name:        "General Admission",
		Price:       mustMoney(t, 50, CurrencyUSD),
		Quantity:    quantity,
		SalesPeriod: openSalesPeriod(t),
	}, baseTime)
	require.NoError(t, err)
	return tt
}

func TestNewTicketType_Validation(t *testing.T) {
	t.Parallel()

	valid := NewTicketTypeParams{
		ID:          testTicketID,
		EventID:     testEventID,
		Name:        "  VIP  ",
		Description: " front row ",
		Price:       mustMoney(t, 120, CurrencyUSD),
		Quantity:    20,
		SalesPeriod: openSalesPeriod(t),
	}

	tt, err := NewTicketType(valid, baseTime)
	require.NoError(t, err)
	require.Equal(t, "VIP", tt.Name())
	require.Equal(t, "front row", tt.Description())
	require.True(t, tt.IsActive())
	require.Equal(t, 0, tt.SoldQuantity())
	require.Equal(t, 20, tt.Remaining())
	require.Equal(t, baseTime, tt.CreatedAt())

	tests := []struct {
		name    string
		mutate  func(p *NewTicketTypeParams)
		wantErr error
	}{
		{"bad id", func(p *NewTicketTypeParams) { p.ID = "not-a-uuid" }, ErrInvalidID},
		{"bad event id", func(p *NewTicketTypeParams) { p.EventID = "42" }, ErrInvalidID},
		{"blank name", func(p *NewTicketTypeParams) { p.Name = "   " }, ErrTicketNameRequired},
		{"long name", func(p *NewTicketTypeParams) { p.Name = string(make([]byte, maxTicketNameLen+1)) }, ErrTicketNameTooLong},
		{"zero price", func(p *NewTicketTypeParams) { p.Price = ZeroMoney(CurrencyUSD) }, ErrPriceNotPositive},
		{"zero quantity", func(p *NewTicketTypeParams) { p.Quantity = 0 }, ErrQuantityNotPositive},
		{"negative quantity", func(p *NewTicketTypeParams) { p.Quantity = -1 }, ErrQuantityNotPositive},
		{"missing sales period", func(p *NewTicketTypeParams) { p.SalesPeriod = SalesPeriod{} }, ErrDateRequired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			_, err := NewTicketType(p, baseTime)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestReconstituteTicketType_RejectsImpossibleState(t *testing.T) {
	t.Parallel()

	state := TicketTypeState{
		ID:           testTicketID,
		EventID:      testEventID,
		Name:         "General Admission",
		Price:        mustMoney(t, 50, CurrencyUSD),
		Quantity:     10,
		SoldQuantity: 11,
		SalesPeriod:  openSalesPeriod(t),
		Active:       true,
		CreatedAt:    baseTime,
		UpdatedAt:    baseTime,
	}

	_, err := ReconstituteTicketType(state)
	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, "ticket_type.oversold", domainErr.Code)

	state.SoldQuantity = 10
	tt, err := ReconstituteTicketType(state)
	require.NoError(t, err)
	require.True(t, tt.IsSoldOut())
	require.Empty(t, tt.PullEvents(), "reconstitution must not record events")
}

func TestTicketType_Update(t *testing.T) {
	t.Parallel()

	tt := newTestTicketType(t, 10)
	require.NoError(t, tt.incrementSold(4, baseTime))

	name := "Early Bird"
	price := mustMoney(t, 35, CurrencyUSD)
	qty := 8
	inactive := false
	require.NoError(t, tt.update(UpdateTicketTypeParams{
		Name:     &name,
		Price:    &price,
		Quantity: &qty,
		Active:   &inactive,
	}, baseTime.Add(time.Minute)))
	require.Equal(t, "Early Bird", tt.Name())
	require.True(t, tt.Price().Equals(price))
	require.Equal(t, 8, tt.Quantity())
	require.False(t, tt.IsActive())
	require.Equal(t, baseTime.Add(time.Minute), tt.UpdatedAt())

	t.Run("quantity below sold", func(t *testing.T) {
		low := 3
		err := tt.update(UpdateTicketTypeParams{Quantity: &low}, baseTime)
		require.ErrorIs(t, err, ErrQuantityBelowSold)
		require.Equal(t, 8, tt.Quantity())
	})

	t.Run("failed update leaves fields untouched", func(t *testing.T) {
		blank := "  "
		newQty := 9
		err := tt.update(UpdateTicketTypeParams{Name: &blank, Quantity: &newQty}, baseTime)
		require.ErrorIs(t, err, ErrTicketNameRequired)
		require.Equal(t, "Early Bird", tt.Name())
		require.Equal(t, 8, tt.Quantity())
	})
}

func TestTicketType_SoldCounters(t *testing.T) {
	t.Parallel()

	tt := newTestTicketType(t, 5)

	require.ErrorIs(t, tt.incrementSold(0, baseTime), ErrInvalidQuantity)
	require.ErrorIs(t, tt.incrementSold(6, baseTime), ErrInsufficientCapacity)
	require.Equal(t, 0, tt.SoldQuantity())

	require.NoError(t, tt.incrementSold(3, baseTime))
	require.Equal(t, 3, tt.SoldQuantity())
	require.Equal(t, 2, tt.Remaining())
	require.True(t, tt.Revenue().Equals(mustMoney(t, 150, CurrencyUSD)))
	require.Empty(t, tt.PullEvents(), "no sellout yet")

	require.ErrorIs(t, tt.decrementSold(4, baseTime), ErrNotEnoughSold)
	require.ErrorIs(t, tt.decrementSold(-1, baseTime), ErrInvalidQuantity)
	require.NoError(t, tt.decrementSold(1, baseTime))
	require.Equal(t, 2, tt.SoldQuantity())
}

func TestTicketType_SoldOutRecordsEvent(t *testing.T) {
	t.Parallel()

	tt := newTestTicketType(t, 3)
	require.NoError(t, tt.incrementSold(3, baseTime))
	require.True(t, tt.IsSoldOut())

	events := tt.PullEvents()
	require.Len(t, events, 1)
	soldOut, ok := events[0].(TicketTypeSoldOut)
	require.True(t, ok)
	require.Equal(t, "ticket_type.sold_out", soldOut.EventType())
	require.Equal(t, testTicketID, soldOut.TicketTypeID)
	require.Equal(t, "General Admission", soldOut.Name)

	require.Empty(t, tt.PullEvents(), "pull drains the log")
}

func TestTicketType_IsOnSale(t *testing.T) {
	t.Parallel()

	tt := newTestTicketType(t, 5)
	require.True(t, tt.IsOnSale(baseTime))
	require.False(t, tt.IsOnSale(baseTime.Add(-2*time.Hour)), "before sales start")
	require.False(t, tt.IsOnSale(baseTime.Add(48*time.Hour)), "after sales end")

	inactive := false
	require.NoError(t, tt.update(UpdateTicketTypeParams{Active: &inactive}, baseTime))
	require.False(t, tt.IsOnSale(baseTime), "inactive types are never on sale")
}
