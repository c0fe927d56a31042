package model

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentTotal(t *testing.T) {
	p := Payment{
		Items: []PaymentItem{
			{Name: "a", RegularPrice: decimal.RequireFromString("10.10"), FinalPrice: decimal.RequireFromString("0.10")},
			{Name: "b", RegularPrice: decimal.RequireFromString("10.20"), FinalPrice: decimal.RequireFromString("0.20")},
		},
	}
	assert.True(t, p.Total().Equal(decimal.RequireFromString("0.30")), "total = %s", p.Total())

	empty := Payment{Items: []PaymentItem{}}
	assert.True(t, empty.Total().IsZero())
}

func TestPaymentEqualAndKey(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	at := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	base := Payment{
		PaidAt: at,
		User:   User{Email: "a@example.com"},
		Items:  []PaymentItem{{Name: "x", RegularPrice: decimal.RequireFromString("1.0"), FinalPrice: decimal.RequireFromString("1")}},
	}

	tests := []struct {
		name  string
		other Payment
		equal bool
	}{
		{
			name: "same instant in another zone, different decimal scale",
			other: Payment{
				PaidAt: at.In(warsaw),
				User:   User{Email: "a@example.com"},
				Items:  []PaymentItem{{Name: "x", RegularPrice: decimal.RequireFromString("1.00"), FinalPrice: decimal.RequireFromString("1.000")}},
			},
			equal: true,
		},
		{
			name: "different user",
			other: Payment{
				PaidAt: at,
				User:   User{Email: "b@example.com"},
				Items:  base.Items,
			},
			equal: false,
		},
		{
			name: "different price",
			other: Payment{
				PaidAt: at,
				User:   base.User,
				Items:  []PaymentItem{{Name: "x", RegularPrice: decimal.RequireFromString("1"), FinalPrice: decimal.RequireFromString("0.99")}},
			},
			equal: false,
		},
		{
			name: "extra item",
			other: Payment{
				PaidAt: at,
				User:   base.User,
				Items:  append(append([]PaymentItem{}, base.Items...), PaymentItem{Name: "y"}),
			},
			equal: false,
		},
		{
			name: "field boundary shift",
			other: Payment{
				PaidAt: at,
				User:   User{Email: "a@example.com|0:"},
				Items:  base.Items,
			},
			equal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, base.Equal(tt.other))
			assert.Equal(t, tt.equal, base.Key() == tt.other.Key())
		})
	}
}

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    YearMonth
		wantErr bool
	}{
		{in: "2024-03", want: YearMonth{Year: 2024, Month: time.March}},
		{in: " 1999-12 ", want: YearMonth{Year: 1999, Month: time.December}},
		{in: "2024-13", wantErr: true},
		{in: "2024-00", wantErr: true},
		{in: "2024-3", wantErr: true},
		{in: "202403", wantErr: true},
		{in: "abcd-03", wantErr: true},
		{in: "+024-03", wantErr: true},
		{in: "-024-03", wantErr: true},
		{in: "2024-+3", wantErr: true},
		{in: "2024--3", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseYearMonth(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidYearMonth)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.String(), got.String())
		})
	}
}

func TestYearMonthContains(t *testing.T) {
	ym := YearMonth{Year: 2024, Month: time.March}

	assert.True(t, ym.Contains(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, ym.Contains(time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, ym.Contains(time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ym.Contains(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)))

	// 2024-03-31 23:30 UTC уже апрель в Варшаве.
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)
	assert.False(t, ym.Contains(time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC).In(warsaw)))
}
