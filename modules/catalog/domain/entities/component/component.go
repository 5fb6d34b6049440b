package component

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Component is a bill-of-materials entry of a product, identified by its
// component code.
type Component struct {
	id        uuid.UUID
	code      string
	productID uuid.UUID
	name      string
	quantity  decimal.Decimal
	unit      string
	createdAt time.Time
	updatedAt time.Time
}

func New(code string, productID uuid.UUID) Component {
	return Component{code: normalizeCode(code), productID: productID}
}

func Hydrate(
	id uuid.UUID,
	code string,
	productID uuid.UUID,
	name string,
	quantity decimal.Decimal,
	unit string,
	createdAt time.Time,
	updatedAt time.Time,
) Component {
	return Component{
		id:        id,
		code:      normalizeCode(code),
		productID: productID,
		name:      strings.TrimSpace(name),
		quantity:  quantity,
		unit:      unit,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c Component) ID() uuid.UUID             { return c.id }
func (c Component) Code() string              { return c.code }
func (c Component) ProductID() uuid.UUID      { return c.productID }
func (c Component) Name() string              { return c.name }
func (c Component) Quantity() decimal.Decimal { return c.quantity }
func (c Component) Unit() string              { return c.unit }
func (c Component) CreatedAt() time.Time      { return c.createdAt }
func (c Component) UpdatedAt() time.Time      { return c.updatedAt }
func (c Component) IsZero() bool              { return c.id == uuid.Nil && c.code == "" }

func normalizeCode(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }
