package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/dukkan/backend/internal/infrastructure/config"
	"github.com/dukkan/backend/internal/infrastructure/logger"
	"github.com/dukkan/backend/internal/infrastructure/migration"
)

func main() {
	var (
		path        = flag.String("path", "migrations", "path to migration files")
		databaseURL = flag.String("database-url", "", "database URL (overrides config)")
	)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	log, err := logger.NewForEnvironment("development")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	migrator, cleanup, err := newMigrator(*databaseURL, *path, log)
	if err != nil {
		log.Fatal("failed to create migrator", zap.Error(err))
	}
	defer cleanup()

	if err := run(migrator, log, args); err != nil {
		log.Fatal("migration command failed", zap.Error(err))
	}
}

func newMigrator(databaseURL, path string, log *zap.Logger) (*migration.Migrator, func(), error) {
	if databaseURL != "" {
		m, err := migration.NewFromURL(databaseURL, path, log)
		if err != nil {
			return nil, nil, err
		}
		return m, func() { _ = m.Close() }, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	m, err := migration.New(db, path, log)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return m, func() {
		_ = m.Close()
	}, nil
}

func run(m *migration.Migrator, log *zap.Logger, args []string) error {
	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		if len(args) < 2 {
			return fmt.Errorf("steps requires a count, e.g. 'steps -1'")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q: %w", args[1], err)
		}
		return m.Steps(n)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("current migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
		return nil
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force requires a version, e.g. 'force 3'")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		return m.Force(v)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up              apply all pending migrations
  down            roll back all migrations
  steps <n>       apply n migrations (negative rolls back)
  version         print the current migration version
  force <v>       set the version without running migrations

Flags:
`)
	flag.PrintDefaults()
}
