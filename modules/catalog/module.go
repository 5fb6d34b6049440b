package catalog

import (
	"embed"

	"github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/catalog/services"
	"github.com/meridianhq/meridian-erp/pkg/application"
)

//go:embed infrastructure/persistence/schema/catalog-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewClientService(persistence.NewClientRepository(), app.EventPublisher()),
		services.NewProductService(persistence.NewProductRepository(), app.EventPublisher()),
		services.NewCategoryService(persistence.NewCategoryRepository(), app.EventPublisher()),
		services.NewOrderService(persistence.NewOrderRepository(), persistence.NewOrderItemRepository(), app.EventPublisher()),
		services.NewContactService(persistence.NewContactRepository(), app.EventPublisher()),
		services.NewComponentService(persistence.NewComponentRepository(), app.EventPublisher()),
	)
	return nil
}

func (m *Module) Name() string {
	return "catalog"
}
