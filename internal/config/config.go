package config

import (
	"time"

	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/pricing"
	"github.com/shopspring/decimal"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	Database  Database  `envPrefix:"DATABASE_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	CartStore string    `env:"CART_STORE" envDefault:"db"` // db | redis
	Auth      Auth      `envPrefix:"AUTH_"`
	Fees      Fees      `envPrefix:"FEE_"`
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`

	SeedDemoData bool `env:"SEED_DEMO_DATA" envDefault:"false"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host         string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port         string        `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite | mysql
	URL    string `env:"URL" envDefault:"rebooku.db"`
}

type Redis struct {
	Addr     string        `env:"ADDR" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	CartTTL  time.Duration `env:"CART_TTL" envDefault:"720h"`
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Fees are whole rupiah.
type Fees struct {
	Regular      int64 `env:"SHIPPING_REGULAR" envDefault:"15000"`
	Express      int64 `env:"SHIPPING_EXPRESS" envDefault:"25000"`
	SameDay      int64 `env:"SHIPPING_SAME_DAY" envDefault:"40000"`
	BankTransfer int64 `env:"PAYMENT_BANK_TRANSFER" envDefault:"4000"`
	EWallet      int64 `env:"PAYMENT_E_WALLET" envDefault:"2500"`
	COD          int64 `env:"PAYMENT_COD" envDefault:"5000"`
}

func (f Fees) Schedule() pricing.FeeSchedule {
	return pricing.FeeSchedule{
		Shipping: map[model.ShippingOption]decimal.Decimal{
			model.ShippingRegular: decimal.NewFromInt(f.Regular),
			model.ShippingExpress: decimal.NewFromInt(f.Express),
			model.ShippingSameDay: decimal.NewFromInt(f.SameDay),
		},
		Payment: map[model.PaymentMethod]decimal.Decimal{
			model.PaymentBankTransfer: decimal.NewFromInt(f.BankTransfer),
			model.PaymentEWallet:      decimal.NewFromInt(f.EWallet),
			model.PaymentCOD:          decimal.NewFromInt(f.COD),
		},
	}
}

type RateLimit struct {
	RPS   float64 `env:"RPS" envDefault:"2"`
	Burst int     `env:"BURST" envDefault:"5"`
}
