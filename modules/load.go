package modules

import (
	"github.com/talentops/staffmatch/modules/staffing"
	"github.com/talentops/staffmatch/pkg/application"
)

var BuiltInModules = []application.Module{
	staffing.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
