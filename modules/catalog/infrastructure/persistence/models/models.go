package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Client struct {
	ID          uuid.UUID
	TaxCode     string
	Name        string
	Email       string
	Phone       string
	Address     string
	City        string
	Country     string
	CreditLimit decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Category struct {
	ID          uuid.UUID
	Code        string
	Name        string
	Description string
	ParentID    *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID          uuid.UUID
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        string
	Weight      decimal.Decimal
	Active      bool
	CategoryID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Order struct {
	ID        uuid.UUID
	Number    string
	ClientID  *uuid.UUID
	OrderDate time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	LineNo      int
	ProductID   *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Contact struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Component struct {
	ID        uuid.UUID
	Code      string
	ProductID uuid.UUID
	Name      string
	Quantity  decimal.Decimal
	Unit      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
