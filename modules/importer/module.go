package importer

import (
	"embed"

	catalogpersistence "github.com/meridianhq/meridian-erp/modules/catalog/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/entities/importjob"
	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
	"github.com/meridianhq/meridian-erp/modules/importer/importers"
	"github.com/meridianhq/meridian-erp/modules/importer/infrastructure/persistence"
	"github.com/meridianhq/meridian-erp/modules/importer/presentation/controllers"
	"github.com/meridianhq/meridian-erp/modules/importer/services"
	"github.com/meridianhq/meridian-erp/pkg/application"
	"github.com/meridianhq/meridian-erp/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/importer-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	var jobs importjob.Repository
	switch conf.Import.JobsBackend {
	case "postgres":
		app.Migrations().RegisterSchema(&MigrationFiles)
		jobs = persistence.NewPgJobRepository(conf.Import.RowDetailLimit)
	default:
		jobs = persistence.NewInMemoryJobRepository(conf.Import.RowDetailLimit)
	}

	clients := catalogpersistence.NewClientRepository()
	products := catalogpersistence.NewProductRepository()
	categories := catalogpersistence.NewCategoryRepository()
	orders := catalogpersistence.NewOrderRepository()
	orderItems := catalogpersistence.NewOrderItemRepository()
	contacts := catalogpersistence.NewContactRepository()
	components := catalogpersistence.NewComponentRepository()

	registry := importer.NewRegistry(
		importers.NewClientImporter(clients),
		importers.NewProductImporter(products, categories),
		importers.NewCategoryImporter(categories),
		importers.NewOrderItemImporter(orders, orderItems, products),
		importers.NewContactImporter(contacts, clients),
		importers.NewComponentImporter(components, products),
	)

	app.RegisterServices(
		services.NewImportService(registry, jobs, app.EventPublisher(), services.Config{
			MaxUploadSize: conf.MaxUploadSize,
			MaxDuration:   conf.Import.MaxDuration,
		}),
	)
	app.RegisterControllers(
		controllers.NewImportAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "importer"
}
