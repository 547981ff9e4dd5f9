package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"github.com/secmon-lab/riskregister/pkg/repository/database"
	"github.com/secmon-lab/riskregister/pkg/repository/firestore"
	"github.com/secmon-lab/riskregister/pkg/repository/memory"
	"github.com/secmon-lab/riskregister/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository backends
const (
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
	BackendFirestore = "firestore"
)

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend string

	dbHost     string
	dbPort     int
	dbUser     string
	dbPassword string
	dbName     string
	dbSSLMode  string

	sqlitePath string

	projectID  string
	databaseID string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (postgres, sqlite, memory or firestore)",
			Value:       BackendPostgres,
			Sources:     cli.EnvVars("RISKREG_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "db-host",
			Category:    "PostgreSQL",
			Usage:       "PostgreSQL host",
			Value:       "localhost",
			Sources:     cli.EnvVars("RISKREG_DB_HOST", "DB_HOST"),
			Destination: &r.dbHost,
		},
		&cli.IntFlag{
			Name:        "db-port",
			Category:    "PostgreSQL",
			Usage:       "PostgreSQL port",
			Value:       5432,
			Sources:     cli.EnvVars("RISKREG_DB_PORT", "DB_PORT"),
			Destination: &r.dbPort,
		},
		&cli.StringFlag{
			Name:        "db-user",
			Category:    "PostgreSQL",
			Usage:       "PostgreSQL user",
			Value:       "postgres",
			Sources:     cli.EnvVars("RISKREG_DB_USER", "DB_USER"),
			Destination: &r.dbUser,
		},
		&cli.StringFlag{
			Name:        "db-password",
			Category:    "PostgreSQL",
			Usage:       "PostgreSQL password",
			Value:       "toor",
			Sources:     cli.EnvVars("RISKREG_DB_PASSWORD", "DB_PASSWORD"),
			Destination: &r.dbPassword,
		},
		&cli.StringFlag{
			Name:        "db-name",
			Category:    "PostgreSQL",
			Usage:       "PostgreSQL database name",
			Value:       "risk_management",
			Sources:     cli.EnvVars("RISKREG_DB_NAME", "DB_NAME"),
			Destination: &r.dbName,
		},
		&cli.StringFlag{
			Name:        "db-sslmode",
			Category:    "PostgreSQL",
			Usage:       "PostgreSQL sslmode",
			Value:       "disable",
			Sources:     cli.EnvVars("RISKREG_DB_SSLMODE", "DB_SSLMODE"),
			Destination: &r.dbSSLMode,
		},
		&cli.StringFlag{
			Name:        "sqlite-path",
			Category:    "SQLite",
			Usage:       "SQLite database file (required when using sqlite backend)",
			Value:       "riskregister.db",
			Sources:     cli.EnvVars("RISKREG_SQLITE_PATH"),
			Destination: &r.sqlitePath,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "Firestore",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Sources:     cli.EnvVars("RISKREG_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "Firestore",
			Usage:       "Firestore Database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("RISKREG_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
	}
}

// LogValue omits the database password
func (r Repository) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("backend", r.backend)}
	switch r.backend {
	case BackendPostgres:
		attrs = append(attrs,
			slog.String("host", r.dbHost),
			slog.Int("port", r.dbPort),
			slog.String("user", r.dbUser),
			slog.String("name", r.dbName),
		)
	case BackendSQLite:
		attrs = append(attrs, slog.String("path", r.sqlitePath))
	case BackendFirestore:
		attrs = append(attrs,
			slog.String("project_id", r.projectID),
			slog.String("database_id", r.databaseID),
		)
	}
	return slog.GroupValue(attrs...)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// ProjectID returns the Firestore project ID
func (r *Repository) ProjectID() string {
	return r.projectID
}

// DatabaseID returns the Firestore database ID
func (r *Repository) DatabaseID() string {
	return r.databaseID
}

// PostgresDSN builds a libpq URL from the db-* flags
func (r *Repository) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(r.dbUser, r.dbPassword),
		Host:     fmt.Sprintf("%s:%d", r.dbHost, r.dbPort),
		Path:     "/" + r.dbName,
		RawQuery: url.Values{"sslmode": []string{r.dbSSLMode}}.Encode(),
	}
	return u.String()
}

// OpenDatabase opens the relational backend. It fails for other backends.
func (r *Repository) OpenDatabase(ctx context.Context) (*database.Database, error) {
	switch r.backend {
	case BackendPostgres:
		db, err := database.OpenPostgres(ctx, r.PostgresDSN())
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize postgres repository",
				goerr.V("host", r.dbHost), goerr.V("name", r.dbName))
		}
		return db, nil

	case BackendSQLite:
		db, err := database.OpenSQLite(ctx, r.sqlitePath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize sqlite repository")
		}
		return db, nil

	default:
		return nil, goerr.New("backend is not relational", goerr.V(BackendKey, r.backend))
	}
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendPostgres, BackendSQLite:
		db, err := r.OpenDatabase(ctx)
		if err != nil {
			return nil, err
		}
		logging.Default().Info("Using relational repository", "repository", r)
		return db, nil

	case BackendFirestore:
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingRequired, "firestore-project-id is required when using firestore backend")
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid repository backend", goerr.V(BackendKey, r.backend))
	}
}
