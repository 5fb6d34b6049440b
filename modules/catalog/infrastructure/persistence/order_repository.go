package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/order"
	"github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence/models"
	"github.com/meridianhq/meridian-erp/pkg/composables"
	"github.com/meridianhq/meridian-erp/pkg/repo"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
)

const (
	orderFindQuery = `
        SELECT
            o.id,
            o.number,
            o.client_id,
            o.order_date,
            o.created_at,
            o.updated_at
        FROM orders o`

	orderCountQuery = `SELECT COUNT(o.id) FROM orders o`

	orderInsertQuery = `
        INSERT INTO orders (number, client_id, order_date)
        VALUES ($1, $2, $3)
        RETURNING id, number, client_id, order_date, created_at, updated_at`

	orderItemFindQuery = `
        SELECT
            i.id,
            i.order_id,
            i.line_no,
            i.product_id,
            i.description,
            i.quantity,
            i.unit_price,
            i.created_at,
            i.updated_at
        FROM order_items i`

	orderItemUpsertQuery = `
        INSERT INTO order_items (order_id, line_no, product_id, description, quantity, unit_price)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (order_id, line_no) DO UPDATE SET
            product_id = EXCLUDED.product_id,
            description = EXCLUDED.description,
            quantity = EXCLUDED.quantity,
            unit_price = EXCLUDED.unit_price,
            updated_at = now()
        RETURNING
            id, order_id, line_no, product_id, description, quantity, unit_price,
            created_at, updated_at, (xmax = 0) AS created`
)

type PgOrderRepository struct{}

func NewOrderRepository() order.Repository {
	return &PgOrderRepository{}
}

func (g *PgOrderRepository) Count(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.QueryRow(ctx, orderCountQuery).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (g *PgOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (order.Order, error) {
	orders, err := g.queryOrders(ctx, repo.Join(orderFindQuery, "WHERE o.id = $1"), id)
	if err != nil {
		return order.Order{}, err
	}
	if len(orders) == 0 {
		return order.Order{}, ErrOrderNotFound
	}
	return orders[0], nil
}

func (g *PgOrderRepository) GetByNumber(ctx context.Context, number string) (order.Order, error) {
	orders, err := g.queryOrders(ctx, repo.Join(orderFindQuery, "WHERE o.number = $1"), number)
	if err != nil {
		return order.Order{}, err
	}
	if len(orders) == 0 {
		return order.Order{}, ErrOrderNotFound
	}
	return orders[0], nil
}

func (g *PgOrderRepository) Create(ctx context.Context, o order.Order) (order.Order, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return order.Order{}, err
	}

	var m models.Order
	err = tx.QueryRow(
		ctx,
		orderInsertQuery,
		o.Number(),
		o.ClientID(),
		o.OrderDate(),
	).Scan(
		&m.ID,
		&m.Number,
		&m.ClientID,
		&m.OrderDate,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "failed to create order")
	}
	return toDomainOrder(m), nil
}

func (g *PgOrderRepository) queryOrders(ctx context.Context, query string, args ...interface{}) ([]order.Order, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query orders")
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		var m models.Order
		if err := rows.Scan(
			&m.ID,
			&m.Number,
			&m.ClientID,
			&m.OrderDate,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan order row")
		}
		orders = append(orders, toDomainOrder(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

type PgOrderItemRepository struct{}

func NewOrderItemRepository() order.ItemRepository {
	return &PgOrderItemRepository{}
}

func (g *PgOrderItemRepository) GetByOrderLine(ctx context.Context, orderID uuid.UUID, lineNo int) (order.Item, error) {
	items, err := g.queryItems(ctx, repo.Join(orderItemFindQuery, "WHERE i.order_id = $1 AND i.line_no = $2"), orderID, lineNo)
	if err != nil {
		return order.Item{}, err
	}
	if len(items) == 0 {
		return order.Item{}, ErrOrderItemNotFound
	}
	return items[0], nil
}

func (g *PgOrderItemRepository) GetByOrder(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	return g.queryItems(ctx, repo.Join(orderItemFindQuery, "WHERE i.order_id = $1 ORDER BY i.line_no"), orderID)
}

func (g *PgOrderItemRepository) Upsert(ctx context.Context, i order.Item) (order.Item, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return order.Item{}, false, err
	}

	var m models.OrderItem
	var created bool
	err = tx.QueryRow(
		ctx,
		orderItemUpsertQuery,
		i.OrderID(),
		i.LineNo(),
		i.ProductID(),
		i.Description(),
		i.Quantity(),
		i.UnitPrice(),
	).Scan(
		&m.ID,
		&m.OrderID,
		&m.LineNo,
		&m.ProductID,
		&m.Description,
		&m.Quantity,
		&m.UnitPrice,
		&m.CreatedAt,
		&m.UpdatedAt,
		&created,
	)
	if err != nil {
		return order.Item{}, false, errors.Wrap(err, "failed to upsert order item")
	}
	return toDomainOrderItem(m), created, nil
}

func (g *PgOrderItemRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]order.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query order items")
	}
	defer rows.Close()

	items := make([]order.Item, 0)
	for rows.Next() {
		var m models.OrderItem
		if err := rows.Scan(
			&m.ID,
			&m.OrderID,
			&m.LineNo,
			&m.ProductID,
			&m.Description,
			&m.Quantity,
			&m.UnitPrice,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan order item row")
		}
		items = append(items, toDomainOrderItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
