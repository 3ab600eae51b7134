package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending migrations for the handle's dialect.
func (d *DB) Migrate(ctx context.Context) error {
	return d.withMigrate(ctx, func(m *migrate.Migrate) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("db: migrate up: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back the given number of migrations.
func (d *DB) MigrateDown(ctx context.Context, steps int) error {
	if steps < 1 {
		return fmt.Errorf("db: migrate down: steps must be positive, got %d", steps)
	}
	return d.withMigrate(ctx, func(m *migrate.Migrate) error {
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("db: migrate down: %w", err)
		}
		return nil
	})
}

// MigrationVersion reports the applied schema version. version is 0 when
// nothing has been applied yet.
func (d *DB) MigrationVersion(ctx context.Context) (version uint, dirty bool, err error) {
	err = d.withMigrate(ctx, func(m *migrate.Migrate) error {
		var verr error
		version, dirty, verr = m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			return nil
		}
		return verr
	})
	return version, dirty, err
}

// withMigrate builds a migrate instance over the shared pool. Closing the
// migrate database driver must never close d.sqldb, so postgres and mysql run
// on a dedicated *sql.Conn and sqlite3 only releases the source.
func (d *DB) withMigrate(ctx context.Context, fn func(*migrate.Migrate) error) error {
	src, err := iofs.New(migrationsFS, "migrations/"+string(d.dialect))
	if err != nil {
		return fmt.Errorf("db: migration source: %w", err)
	}

	var (
		drv     database.Driver
		release func() error
	)
	switch d.dialect {
	case SQLite:
		drv, err = migratesqlite.WithInstance(d.sqldb, &migratesqlite.Config{})
		release = src.Close
	case Postgres, MySQL:
		conn, cerr := d.sqldb.Conn(ctx)
		if cerr != nil {
			_ = src.Close()
			return mapError(cerr)
		}
		if d.dialect == Postgres {
			drv, err = migratepg.WithConnection(ctx, conn, &migratepg.Config{})
		} else {
			drv, err = migratemysql.WithConnection(ctx, conn, &migratemysql.Config{})
		}
		if err != nil {
			_ = conn.Close()
		}
	}
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("db: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(d.dialect), drv)
	if err != nil {
		_ = src.Close()
		if d.dialect != SQLite {
			_ = drv.Close()
		}
		return fmt.Errorf("db: migrate init: %w", err)
	}
	m.Log = &migrateLogger{}
	if release == nil {
		release = func() error {
			srcErr, dbErr := m.Close()
			return errors.Join(srcErr, dbErr)
		}
	}

	err = fn(m)
	if cerr := release(); cerr != nil {
		slog.Warn("db: releasing migrate resources", "error", cerr)
	}
	return err
}

type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }
