package client

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is a trading partner. The tax code is the business key used to
// match externally produced records against the store.
type Client struct {
	id          uuid.UUID
	taxCode     string
	name        string
	email       string
	phone       string
	address     string
	city        string
	country     string
	creditLimit decimal.Decimal
	createdAt   time.Time
	updatedAt   time.Time
}

func New(taxCode, name string) Client {
	return Client{
		taxCode: normalizeTaxCode(taxCode),
		name:    strings.TrimSpace(name),
	}
}

func Hydrate(
	id uuid.UUID,
	taxCode string,
	name string,
	email string,
	phone string,
	address string,
	city string,
	country string,
	creditLimit decimal.Decimal,
	createdAt time.Time,
	updatedAt time.Time,
) Client {
	return Client{
		id:          id,
		taxCode:     normalizeTaxCode(taxCode),
		name:        strings.TrimSpace(name),
		email:       email,
		phone:       phone,
		address:     address,
		city:        city,
		country:     country,
		creditLimit: creditLimit,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c Client) ID() uuid.UUID                { return c.id }
func (c Client) TaxCode() string              { return c.taxCode }
func (c Client) Name() string                 { return c.name }
func (c Client) Email() string                { return c.email }
func (c Client) Phone() string                { return c.phone }
func (c Client) Address() string              { return c.address }
func (c Client) City() string                 { return c.city }
func (c Client) Country() string              { return c.country }
func (c Client) CreditLimit() decimal.Decimal { return c.creditLimit }
func (c Client) CreatedAt() time.Time         { return c.createdAt }
func (c Client) UpdatedAt() time.Time         { return c.updatedAt }
func (c Client) IsZero() bool                 { return c.id == uuid.Nil && c.taxCode == "" }

func normalizeTaxCode(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }
