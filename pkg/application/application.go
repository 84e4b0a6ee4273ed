package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gorilla/mux"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/talentops/staffmatch/pkg/eventbus"
)

// Module is a self-contained feature set that registers its services,
// controllers, locale catalogs and schema with the application.
type Module interface {
	Name() string
	Register(app Application) error
}

// Controller registers a set of routes on the root router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

type Application interface {
	Pool() *pgxpool.Pool
	Logger() *logrus.Logger
	EventPublisher() eventbus.EventBus
	Bundle() *i18n.Bundle
	GetSupportedLanguages() []string

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	RegisterControllers(controllers ...Controller)
	Controllers() []Controller
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	Middleware() []mux.MiddlewareFunc
	RegisterLocaleFiles(fs ...*embed.FS)
	Migrations() *SchemaRegistry
}

type ApplicationOptions struct {
	Pool               *pgxpool.Pool
	EventBus           eventbus.EventBus
	Logger             *logrus.Logger
	Bundle             *i18n.Bundle
	SupportedLanguages []string
}

// LoadBundle builds the i18n bundle locale catalogs are merged into.
// Spanish is the default; English is the fallback chain's second hop.
func LoadBundle() *i18n.Bundle {
	bundle := i18n.NewBundle(language.Spanish)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	return bundle
}

func New(options *ApplicationOptions) Application {
	if options.Bundle == nil {
		options.Bundle = LoadBundle()
	}
	if options.SupportedLanguages == nil {
		options.SupportedLanguages = []string{"es", "en"}
	}
	return &application{
		pool:               options.Pool,
		eventPublisher:     options.EventBus,
		logger:             options.Logger,
		bundle:             options.Bundle,
		supportedLanguages: options.SupportedLanguages,
		services:           map[reflect.Type]interface{}{},
		migrations:         &SchemaRegistry{},
	}
}

type application struct {
	pool               *pgxpool.Pool
	eventPublisher     eventbus.EventBus
	logger             *logrus.Logger
	bundle             *i18n.Bundle
	supportedLanguages []string
	services           map[reflect.Type]interface{}
	controllers        []Controller
	middleware         []mux.MiddlewareFunc
	migrations         *SchemaRegistry
}

func (app *application) Pool() *pgxpool.Pool {
	return app.pool
}

func (app *application) Logger() *logrus.Logger {
	return app.logger
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventPublisher
}

func (app *application) Bundle() *i18n.Bundle {
	return app.bundle
}

func (app *application) GetSupportedLanguages() []string {
	return app.supportedLanguages
}

func (app *application) RegisterServices(services ...interface{}) {
	for _, service := range services {
		serviceType := reflect.TypeOf(service).Elem()
		app.services[serviceType] = service
	}
}

// Service returns the registered service with the same type as the argument.
// Panics if the service was never registered.
func (app *application) Service(service interface{}) interface{} {
	svc, ok := app.services[reflect.TypeOf(service)]
	if !ok {
		panic(fmt.Sprintf("service %s not found", reflect.TypeOf(service).Name()))
	}
	return svc
}

func (app *application) RegisterControllers(controllers ...Controller) {
	app.controllers = append(app.controllers, controllers...)
}

func (app *application) Controllers() []Controller {
	return app.controllers
}

func (app *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	app.middleware = append(app.middleware, middleware...)
}

func (app *application) Middleware() []mux.MiddlewareFunc {
	return app.middleware
}

func (app *application) RegisterLocaleFiles(fsList ...*embed.FS) {
	for _, fsys := range fsList {
		if err := loadLocaleFS(app.bundle, fsys); err != nil {
			panic(err)
		}
	}
}

func (app *application) Migrations() *SchemaRegistry {
	return app.migrations
}

func loadLocaleFS(bundle *i18n.Bundle, fsys *embed.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".toml") {
			return nil
		}
		if _, err := bundle.LoadMessageFileFS(fsys, path); err != nil {
			return fmt.Errorf("loading locale file %q: %w", path, err)
		}
		return nil
	})
}

// SchemaRegistry collects embedded schema files and applies them in
// registration order. Statements are idempotent (CREATE ... IF NOT EXISTS).
type SchemaRegistry struct {
	schemas []*embed.FS
}

func (s *SchemaRegistry) RegisterSchema(fsys *embed.FS) {
	s.schemas = append(s.schemas, fsys)
}

func (s *SchemaRegistry) Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, fsys := range s.schemas {
		err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ".sql" {
				return nil
			}
			contents, err := fs.ReadFile(fsys, path)
			if err != nil {
				return err
			}
			if _, err := pool.Exec(ctx, string(contents)); err != nil {
				return fmt.Errorf("applying schema %q: %w", path, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
