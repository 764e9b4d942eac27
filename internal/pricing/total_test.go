package pricing

import (
	"testing"

	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal_WelcomeScenario(t *testing.T) {
	fees := DefaultFeeSchedule()
	items := []LineItem{{Price: rp(50000), Quantity: 2}, {Price: rp(50000), Quantity: 1}}

	totals, err := fees.ComputeTotal(items, model.ShippingRegular, model.PaymentBankTransfer, rp(10000))
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(rp(150000)))
	assert.True(t, totals.ShippingFee.Equal(rp(15000)))
	assert.True(t, totals.PaymentFee.Equal(rp(4000)))
	assert.True(t, totals.Discount.Equal(rp(10000)))
	// 150,000 - 10,000 + 15,000 + 4,000
	assert.True(t, totals.Total.Equal(rp(159000)), totals.Total.String())
}

func TestComputeTotal_ClampsAtZero(t *testing.T) {
	fees := DefaultFeeSchedule()
	totals, err := fees.ComputeTotal([]LineItem{{Price: rp(1000), Quantity: 1}}, model.ShippingRegular, model.PaymentCOD, rp(1_000_000))
	require.NoError(t, err)
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotal_Validation(t *testing.T) {
	fees := DefaultFeeSchedule()
	cases := map[string]struct {
		items    []LineItem
		shipping model.ShippingOption
		payment  model.PaymentMethod
	}{
		"no items":         {nil, model.ShippingRegular, model.PaymentCOD},
		"zero quantity":    {[]LineItem{{Price: rp(1000), Quantity: 0}}, model.ShippingRegular, model.PaymentCOD},
		"negative price":   {[]LineItem{{Price: rp(-1), Quantity: 1}}, model.ShippingRegular, model.PaymentCOD},
		"unknown shipping": {[]LineItem{{Price: rp(1000), Quantity: 1}}, "drone", model.PaymentCOD},
		"unknown payment":  {[]LineItem{{Price: rp(1000), Quantity: 1}}, model.ShippingExpress, "crypto"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fees.ComputeTotal(tc.items, tc.shipping, tc.payment, rp(0))
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestComputeTotal_NegativeDiscountRejected(t *testing.T) {
	_, err := DefaultFeeSchedule().ComputeTotal([]LineItem{{Price: rp(1000), Quantity: 1}}, model.ShippingSameDay, model.PaymentEWallet, rp(-5))
	assert.ErrorIs(t, err, model.ErrValidation)
}
