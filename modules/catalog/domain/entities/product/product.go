package product

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable good identified externally by its SKU.
type Product struct {
	id          uuid.UUID
	sku         string
	name        string
	description string
	price       decimal.Decimal
	unit        string
	weight      decimal.Decimal
	active      bool
	categoryID  *uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

func New(sku, name string) Product {
	return Product{
		sku:    normalizeSKU(sku),
		name:   strings.TrimSpace(name),
		active: true,
	}
}

func Hydrate(
	id uuid.UUID,
	sku string,
	name string,
	description string,
	price decimal.Decimal,
	unit string,
	weight decimal.Decimal,
	active bool,
	categoryID *uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Product {
	return Product{
		id:          id,
		sku:         normalizeSKU(sku),
		name:        strings.TrimSpace(name),
		description: description,
		price:       price,
		unit:        unit,
		weight:      weight,
		active:      active,
		categoryID:  categoryID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p Product) ID() uuid.UUID           { return p.id }
func (p Product) SKU() string             { return p.sku }
func (p Product) Name() string            { return p.name }
func (p Product) Description() string     { return p.description }
func (p Product) Price() decimal.Decimal  { return p.price }
func (p Product) Unit() string            { return p.unit }
func (p Product) Weight() decimal.Decimal { return p.weight }
func (p Product) Active() bool            { return p.active }
func (p Product) CategoryID() *uuid.UUID  { return p.categoryID }
func (p Product) CreatedAt() time.Time    { return p.createdAt }
func (p Product) UpdatedAt() time.Time    { return p.updatedAt }
func (p Product) IsZero() bool            { return p.id == uuid.Nil && p.sku == "" }

func normalizeSKU(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }
