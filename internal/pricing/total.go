package pricing

import (
	"fmt"

	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/shopspring/decimal"
)

// FeeSchedule maps shipping options and payment methods to flat fees.
type FeeSchedule struct {
	Shipping map[model.ShippingOption]decimal.Decimal
	Payment  map[model.PaymentMethod]decimal.Decimal
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		Shipping: map[model.ShippingOption]decimal.Decimal{
			model.ShippingRegular: decimal.NewFromInt(15000),
			model.ShippingExpress: decimal.NewFromInt(25000),
			model.ShippingSameDay: decimal.NewFromInt(40000),
		},
		Payment: map[model.PaymentMethod]decimal.Decimal{
			model.PaymentBankTransfer: decimal.NewFromInt(4000),
			model.PaymentEWallet:      decimal.NewFromInt(2500),
			model.PaymentCOD:          decimal.NewFromInt(5000),
		},
	}
}

func (f FeeSchedule) ShippingFee(option model.ShippingOption) (decimal.Decimal, error) {
	fee, ok := f.Shipping[option]
	if !ok {
		return decimal.Zero, model.NewValidationError("shippingOption", fmt.Sprintf("unsupported shipping option %q", option))
	}
	return fee, nil
}

func (f FeeSchedule) PaymentFee(method model.PaymentMethod) (decimal.Decimal, error) {
	fee, ok := f.Payment[method]
	if !ok {
		return decimal.Zero, model.NewValidationError("paymentMethod", fmt.Sprintf("unsupported payment method %q", method))
	}
	return fee, nil
}

type LineItem struct {
	Price    decimal.Decimal
	Quantity int
}

type OrderTotals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	PaymentFee  decimal.Decimal `json:"paymentFee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

func Subtotal(items []LineItem) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, model.NewValidationError("items", "order must contain at least one item")
	}
	subtotal := decimal.Zero
	for i, item := range items {
		if item.Quantity < 1 {
			return decimal.Zero, model.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
		if item.Price.IsNegative() {
			return decimal.Zero, model.NewValidationError(fmt.Sprintf("items[%d].price", i), "must not be negative")
		}
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal, nil
}

// ComputeTotal returns the itemized breakdown. The total is clamped at zero.
func (f FeeSchedule) ComputeTotal(items []LineItem, shipping model.ShippingOption, payment model.PaymentMethod, discount decimal.Decimal) (OrderTotals, error) {
	subtotal, err := Subtotal(items)
	if err != nil {
		return OrderTotals{}, err
	}
	shippingFee, err := f.ShippingFee(shipping)
	if err != nil {
		return OrderTotals{}, err
	}
	paymentFee, err := f.PaymentFee(payment)
	if err != nil {
		return OrderTotals{}, err
	}
	if discount.IsNegative() {
		return OrderTotals{}, model.NewValidationError("discount", "must not be negative")
	}

	total := subtotal.Add(shippingFee).Add(paymentFee).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return OrderTotals{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		PaymentFee:  paymentFee,
		Discount:    discount,
		Total:       total,
	}, nil
}
