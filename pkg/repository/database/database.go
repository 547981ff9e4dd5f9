package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskregister/pkg/domain/interfaces"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a relational repository on top of gorm. PostgreSQL and SQLite are supported.
type Database struct {
	db   *gorm.DB
	inTx bool
}

var _ interfaces.Repository = &Database{}

func newConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}
}

// New wraps an opened gorm connection
func New(db *gorm.DB) *Database {
	return &Database{db: db}
}

// OpenPostgres connects with a libpq style DSN
func OpenPostgres(ctx context.Context, dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), newConfig())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open postgres database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get sql db")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, goerr.Wrap(err, "failed to connect postgres database")
	}
	return New(db), nil
}

// OpenSQLite opens (and creates) a database file with foreign keys enforced
func OpenSQLite(ctx context.Context, path string) (*Database, error) {
	if path == "" {
		return nil, goerr.New("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create sqlite directory", goerr.V("dir", dir))
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(gormsqlite.Open(dsn), newConfig())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}

	// SQLite allows one writer; a single connection keeps transactions from deadlocking each other
	sqlDB, err := db.DB()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get sql db")
	}
	sqlDB.SetMaxOpenConns(1)

	return New(db), nil
}

// Migrate creates or updates every table
func (d *Database) Migrate(ctx context.Context) error {
	if err := d.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return goerr.Wrap(err, "failed to migrate database")
	}
	return nil
}

type tabler interface {
	TableName() string
}

// MissingTables lists the tables Migrate would create
func (d *Database) MissingTables(ctx context.Context) ([]string, error) {
	migrator := d.db.WithContext(ctx).Migrator()

	var missing []string
	for _, m := range Models() {
		if migrator.HasTable(m) {
			continue
		}
		t, ok := m.(tabler)
		if !ok {
			return nil, goerr.New("model has no table name")
		}
		missing = append(missing, t.TableName())
	}
	return missing, nil
}

func (d *Database) Category() interfaces.CategoryRepository {
	return &categoryRepository{d: d}
}

func (d *Database) Hazard() interfaces.HazardRepository {
	return &hazardRepository{db: d.db}
}

func (d *Database) Risk() interfaces.RiskRepository {
	return &riskRepository{db: d.db}
}

func (d *Database) Department() interfaces.ReferenceRepository {
	return &referenceRepository[departmentRow]{db: d.db, kind: "department"}
}

func (d *Database) Group() interfaces.ReferenceRepository {
	return &referenceRepository[groupRow]{db: d.db, kind: "group"}
}

func (d *Database) RunInTx(ctx context.Context, fn func(ctx context.Context, tx interfaces.Repository) error) error {
	if d.inTx {
		return fn(ctx, d)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Database{db: tx, inTx: true})
	})
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return goerr.Wrap(err, "failed to get sql db")
	}
	return sqlDB.Close()
}

// translateError maps driver errors onto the repository sentinels
func translateError(err error, msg string, opts ...goerr.Option) error {
	opts = append(opts, goerr.V("db_error", err.Error()))
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return goerr.Wrap(interfaces.ErrNotFound, msg, opts...)
	case errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err):
		return goerr.Wrap(interfaces.ErrDuplicate, msg, opts...)
	case errors.Is(err, gorm.ErrForeignKeyViolated) || isForeignKeyViolation(err):
		return goerr.Wrap(interfaces.ErrForeignKey, msg, opts...)
	default:
		return goerr.Wrap(err, msg, opts...)
	}
}

// isUniqueViolation covers drivers that do not implement gorm's error translator
func isUniqueViolation(err error) bool {
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") ||
		strings.Contains(s, "SQLSTATE 23505")
}

func isForeignKeyViolation(err error) bool {
	s := err.Error()
	return strings.Contains(s, "FOREIGN KEY constraint failed") ||
		strings.Contains(s, "SQLSTATE 23503")
}
