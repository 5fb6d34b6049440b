package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the header an imported line item must attach to. Orders are not
// themselves importable; they come from the sales side of the system.
type Order struct {
	id        uuid.UUID
	number    string
	clientID  *uuid.UUID
	orderDate time.Time
	createdAt time.Time
	updatedAt time.Time
}

func New(number string) Order {
	return Order{number: normalizeNumber(number)}
}

func Hydrate(
	id uuid.UUID,
	number string,
	clientID *uuid.UUID,
	orderDate time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) Order {
	return Order{
		id:        id,
		number:    normalizeNumber(number),
		clientID:  clientID,
		orderDate: orderDate,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (o Order) ID() uuid.UUID        { return o.id }
func (o Order) Number() string       { return o.number }
func (o Order) ClientID() *uuid.UUID { return o.clientID }
func (o Order) OrderDate() time.Time { return o.orderDate }
func (o Order) CreatedAt() time.Time { return o.createdAt }
func (o Order) UpdatedAt() time.Time { return o.updatedAt }
func (o Order) IsZero() bool         { return o.id == uuid.Nil && o.number == "" }

// Item is one line of an order. Its business key is the order number plus
// the line number, which together are unique.
type Item struct {
	id          uuid.UUID
	orderID     uuid.UUID
	lineNo      int
	productID   *uuid.UUID
	description string
	quantity    decimal.Decimal
	unitPrice   decimal.Decimal
	createdAt   time.Time
	updatedAt   time.Time
}

func NewItem(orderID uuid.UUID, lineNo int) Item {
	return Item{orderID: orderID, lineNo: lineNo}
}

func HydrateItem(
	id uuid.UUID,
	orderID uuid.UUID,
	lineNo int,
	productID *uuid.UUID,
	description string,
	quantity decimal.Decimal,
	unitPrice decimal.Decimal,
	createdAt time.Time,
	updatedAt time.Time,
) Item {
	return Item{
		id:          id,
		orderID:     orderID,
		lineNo:      lineNo,
		productID:   productID,
		description: description,
		quantity:    quantity,
		unitPrice:   unitPrice,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (i Item) ID() uuid.UUID              { return i.id }
func (i Item) OrderID() uuid.UUID         { return i.orderID }
func (i Item) LineNo() int                { return i.lineNo }
func (i Item) ProductID() *uuid.UUID      { return i.productID }
func (i Item) Description() string        { return i.description }
func (i Item) Quantity() decimal.Decimal  { return i.quantity }
func (i Item) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i Item) CreatedAt() time.Time       { return i.createdAt }
func (i Item) UpdatedAt() time.Time       { return i.updatedAt }
func (i Item) IsZero() bool               { return i.id == uuid.Nil && i.orderID == uuid.Nil }

func normalizeNumber(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }
