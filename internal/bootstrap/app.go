package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "paperflow-backend/internal/auth"
	"paperflow-backend/internal/documents"
	"paperflow-backend/internal/shared/config"
	"paperflow-backend/internal/shared/server"
	"paperflow-backend/internal/shared/storage/db"
	"paperflow-backend/internal/shared/storage/object"
	localstore "paperflow-backend/internal/shared/storage/object/local"
	s3store "paperflow-backend/internal/shared/storage/object/s3"
	"paperflow-backend/internal/templates"
	"paperflow-backend/internal/users"
)

// App holds the wired dependencies behind the HTTP surface.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo     users.Repo
	TemplatesRepo templates.Repo
	DocumentsRepo documents.Repo

	UsersService     *users.Service
	TemplatesService *templates.Service
	DocumentsService *documents.Service

	UsersHandler     *users.Handler
	TemplatesHandler *templates.Handler
	DocumentsHandler *documents.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build wires repositories, services and handlers, then mounts the router.
// Without a reachable database in a dev-like environment it falls back to
// in-memory repositories.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if sqlDB != nil {
		app.UsersRepo = &users.PGRepo{DB: sqlDB}
		app.TemplatesRepo = &templates.PGRepo{DB: sqlDB}
		app.DocumentsRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		templatesRepo := templates.NewMemoryRepo()
		documentsRepo := documents.NewMemoryRepo()
		documentsRepo.TemplateName = func(ctx context.Context, templateID string) (string, bool) {
			tpl, err := templatesRepo.GetByID(ctx, templateID)
			if err != nil {
				return "", false
			}
			return tpl.Name, true
		}
		app.UsersRepo = users.NewMemoryRepo()
		app.TemplatesRepo = templatesRepo
		app.DocumentsRepo = documentsRepo
	}

	secret := []byte(cfg.JWTSecret)
	app.UsersService = users.NewService(app.UsersRepo)
	app.TemplatesService = templates.NewService(app.TemplatesRepo)
	app.DocumentsService = documents.NewService(app.DocumentsRepo, app.Store)

	app.UsersHandler = users.NewHandler(app.UsersService, secret)
	app.TemplatesHandler = templates.NewHandler(app.TemplatesService)
	app.DocumentsHandler = documents.NewHandler(app.DocumentsService)
	app.GoogleAuth = googleauth.NewGoogleService(app.UsersService, secret,
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		UsersHandler:     app.UsersHandler,
		TemplatesHandler: app.TemplatesHandler,
		DocumentsHandler: app.DocumentsHandler,
		GoogleAuth:       app.GoogleAuth,
	})

	return app, nil
}

var (
	connectDB     = db.Connect
	runMigrations = db.RunMigrations
)

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := connectDB(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	// Production schemas are managed through cmd/migrate; dev databases are
	// brought up to date on boot.
	if isDevLike(cfg.Env) {
		if err := runMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, s3store.Options{
			Region:        cfg.AWSRegion,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			KMSKeyID:      cfg.SSEKMSKeyID,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
