package model

type ShippingOption string

const (
	ShippingRegular ShippingOption = "regular"
	ShippingExpress ShippingOption = "express"
	ShippingSameDay ShippingOption = "same_day"
)

// MaxLineQuantity caps the copies of one book per order line or cart line.
const MaxLineQuantity = 1000

type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentEWallet      PaymentMethod = "e_wallet"
	PaymentCOD          PaymentMethod = "cod"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Actor is the already-authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
