// Package migration applies the print_jobs schema embedded in the binary.
package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

const migrationsDir = "sql"

// Status is the schema version recorded in schema_migrations
type Status struct {
	Version uint
	Dirty   bool
}

// Migrator moves the database between embedded versions
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New wraps an open postgres connection. The caller keeps ownership of
// db until Close.
func New(db *sql.DB, log *zap.Logger) (*Migrator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	src, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	m.Log = migrateLogger{log.Sugar()}
	return &Migrator{m: m, log: log}, nil
}

// Up applies every pending migration
func (g *Migrator) Up(ctx context.Context) error {
	return g.run(ctx, "up", g.m.Up)
}

// Down reverts every applied migration
func (g *Migrator) Down(ctx context.Context) error {
	return g.run(ctx, "down", g.m.Down)
}

// Steps moves n versions, backwards when n is negative
func (g *Migrator) Steps(ctx context.Context, n int) error {
	return g.run(ctx, fmt.Sprintf("steps %d", n), func() error { return g.m.Steps(n) })
}

// Force records version without running anything, which clears a dirty
// flag left by a failed migration
func (g *Migrator) Force(version int) error {
	g.log.Warn("Forcing migration version", zap.Int("version", version))
	if err := g.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Status reports the applied version. A fresh database is version 0.
func (g *Migrator) Status() (Status, error) {
	version, dirty, err := g.m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return Status{}, nil
	case err != nil:
		return Status{}, fmt.Errorf("read migration version: %w", err)
	}
	return Status{Version: version, Dirty: dirty}, nil
}

// Close releases the source and the driver
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr)
}

// run executes op and asks migrate to stop after the current file when
// ctx ends first. ErrNoChange is success.
func (g *Migrator) run(ctx context.Context, name string, op func() error) error {
	stop := context.AfterFunc(ctx, func() {
		select {
		case g.m.GracefulStop <- true:
		default:
		}
	})
	defer stop()

	g.log.Info("Running migrations", zap.String("direction", name))
	err := op()
	if errors.Is(err, migrate.ErrNoChange) {
		g.log.Info("Schema already current", zap.String("direction", name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("migrate %s interrupted: %w", name, ctx.Err())
	}

	st, err := g.Status()
	if err != nil {
		return err
	}
	g.log.Info("Migrations applied", zap.Uint("version", st.Version), zap.Bool("dirty", st.Dirty))
	return nil
}

// List returns the embedded migration names without the direction suffix,
// oldest first
func List() ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".up.sql"); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// migrateLogger routes golang-migrate output through zap at debug level
type migrateLogger struct {
	s *zap.SugaredLogger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.s.Debugf(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool {
	return l.s.Desugar().Core().Enabled(zap.DebugLevel)
}
