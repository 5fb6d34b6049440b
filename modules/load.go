package modules

import (
	"github.com/meridianhq/meridian-erp/modules/catalog"
	"github.com/meridianhq/meridian-erp/modules/importer"
	"github.com/meridianhq/meridian-erp/pkg/application"
)

// BuiltInModules is the default module set, loaded in dependency order:
// the importer reconciles against catalog tables.
var BuiltInModules = []application.Module{
	catalog.NewModule(),
	importer.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range append(BuiltInModules, externalModules...) {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
