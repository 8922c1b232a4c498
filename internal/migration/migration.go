package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	clientdomain "github.com/railzwaylabs/idsrvctl/internal/client/domain"
	"github.com/railzwaylabs/idsrvctl/internal/config"
	scopedomain "github.com/railzwaylabs/idsrvctl/internal/scope/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrateTimeout = 2 * time.Minute

// Models lists every table owned by the tool, parents before children.
func Models() []any {
	return []any{
		&clientdomain.Client{},
		&clientdomain.ClientSecret{},
		&clientdomain.ClientRedirectURI{},
		&clientdomain.ClientPostLogoutRedirectURI{},
		&clientdomain.ClientGrantTypeRestriction{},
		&clientdomain.ClientScopeRestriction{},
		&clientdomain.ClientIdPRestriction{},
		&clientdomain.ClientClaim{},
		&scopedomain.Scope{},
		&scopedomain.ScopeClaim{},
	}
}

// Run brings the schema up to date. Postgres uses the embedded versioned
// migrations; sqlite and mysql are migrated from the gorm models.
func Run(ctx context.Context, conn *gorm.DB, driver string, log *zap.Logger) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	switch driver {
	case config.DriverPostgres:
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(ctx, sqlDB, log)
	default:
		if err := conn.WithContext(ctx).AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("schema migrated", zap.String("driver", driver))
		return nil
	}
}

// RunMigrations applies all embedded postgres migrations under an advisory
// lock and checks the resulting version.
func RunMigrations(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	unlock, err := acquireAdvisoryLock(ctx, db)
	if err != nil {
		return err
	}
	defer func() {
		_ = unlock(context.Background())
	}()

	latestVersion, err := LatestMigrationVersion()
	if err != nil {
		return err
	}
	checksum, err := MigrationsChecksum()
	if err != nil {
		return err
	}

	src, err := newSource()
	if err != nil {
		return err
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	fromVersion, err := ensureNotDirty(migrator)
	if err != nil {
		return err
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}

	currentVersion, err := ensureNotDirty(migrator)
	if err != nil {
		return err
	}

	if currentVersion != latestVersion {
		return fmt.Errorf("schema version mismatch after migrate: got %d want %d", currentVersion, latestVersion)
	}

	log.Info("schema migrated",
		zap.String("driver", config.DriverPostgres),
		zap.Uint("from_version", fromVersion),
		zap.Uint("version", currentVersion),
		zap.String("checksum", checksum),
	)
	return nil
}

// newSource opens the embedded migrations as a golang-migrate source.
func newSource() (source.Driver, error) {
	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	return src, nil
}

func ensureNotDirty(migrator *migrate.Migrate) (uint, error) {
	if migrator == nil {
		return 0, errors.New("migrator is required")
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, nil
		}
		return 0, fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("database migrations are dirty at version %d", version)
	}
	return version, nil
}
