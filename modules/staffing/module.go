package staffing

import (
	"embed"

	"github.com/talentops/staffmatch/modules/staffing/infrastructure/persistence"
	"github.com/talentops/staffmatch/modules/staffing/presentation/controllers"
	"github.com/talentops/staffmatch/modules/staffing/services"
	"github.com/talentops/staffmatch/pkg/application"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/staffing-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	positionRepo := persistence.NewPositionRepository()
	recruiterRepo := persistence.NewRecruiterRepository()
	assignmentRepo := persistence.NewAssignmentRepository()
	auditRepo := persistence.NewAuditRepository()

	app.RegisterServices(
		services.NewPositionService(positionRepo, app.EventPublisher()),
		services.NewRecruiterService(recruiterRepo, app.EventPublisher()),
		services.NewAssignmentService(
			positionRepo,
			recruiterRepo,
			assignmentRepo,
			auditRepo,
			app.EventPublisher(),
		),
	)
	app.RegisterControllers(
		controllers.NewStaffingAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "staffing"
}
