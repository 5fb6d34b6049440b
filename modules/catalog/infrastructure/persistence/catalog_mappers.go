package persistence

import (
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/category"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/client"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/component"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/contact"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/order"
	"github.com/meridianhq/meridian-erp/modules/catalog/domain/entities/product"
	"github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence/models"
)

func toDomainClient(m models.Client) client.Client {
	return client.Hydrate(
		m.ID, m.TaxCode, m.Name, m.Email, m.Phone,
		m.Address, m.City, m.Country, m.CreditLimit,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toDomainCategory(m models.Category) category.Category {
	return category.Hydrate(
		m.ID, m.Code, m.Name, m.Description, m.ParentID,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toDomainProduct(m models.Product) product.Product {
	return product.Hydrate(
		m.ID, m.SKU, m.Name, m.Description, m.Price,
		m.Unit, m.Weight, m.Active, m.CategoryID,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toDomainOrder(m models.Order) order.Order {
	return order.Hydrate(
		m.ID, m.Number, m.ClientID, m.OrderDate,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toDomainOrderItem(m models.OrderItem) order.Item {
	return order.HydrateItem(
		m.ID, m.OrderID, m.LineNo, m.ProductID,
		m.Description, m.Quantity, m.UnitPrice,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toDomainContact(m models.Contact) contact.Contact {
	return contact.Hydrate(
		m.ID, m.ClientID, m.Email, m.FirstName, m.LastName,
		m.Phone, m.Role, m.CreatedAt, m.UpdatedAt,
	)
}

func toDomainComponent(m models.Component) component.Component {
	return component.Hydrate(
		m.ID, m.Code, m.ProductID, m.Name, m.Quantity, m.Unit,
		m.CreatedAt, m.UpdatedAt,
	)
}
