package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ogurasousui/engineer-admin/internal/platform/config"
	"github.com/ogurasousui/engineer-admin/internal/platform/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		configPath    = flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
		migrationsDir = flag.String("dir", "assets/migrations", "directory containing migration files")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] up|down|drop|version|steps N|force V\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load(effectiveConfigPath(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Server.Store != config.StorePostgres {
		log.Fatal().Str("store", cfg.Server.Store).Msg("migrations apply to the postgres store only")
	}

	lg := logger.New(logger.Config{Env: cfg.Logging.Env, Level: cfg.Logging.Level}).Named("migrate")

	if err := runMigration(lg, action, flag.Arg(1), *migrationsDir, cfg.Database.DSN()); err != nil {
		lg.Fatal().Err(err).Str("action", action).Msg("migration failed")
	}

	lg.Info().Str("action", action).Msg("migration completed")
}

func effectiveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("CONFIG_PATH"); env != "" {
		return env
	}
	return "assets/local.yaml"
}

func runMigration(lg *logger.Logger, action, arg, dir, dsn string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	switch action {
	case "up":
		return ignoreNoChange(m.Up())
	case "down":
		return ignoreNoChange(m.Down())
	case "drop":
		return m.Drop()
	case "steps":
		n, err := strconv.Atoi(arg)
		if err != nil || n == 0 {
			return fmt.Errorf("steps requires a non-zero integer, got %q", arg)
		}
		return ignoreNoChange(m.Steps(n))
	case "force":
		v, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("force requires a version, got %q", arg)
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			lg.Info().Msg("no migration applied")
			return nil
		}
		if err != nil {
			return err
		}
		lg.Info().Uint("version", version).Bool("dirty", dirty).Msg("current version")
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
