package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	tournamentmigrations "github.com/Black-And-White-Club/tournament-uploader/app/modules/tournament/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/tournament-uploader/config"
	"github.com/Black-And-White-Club/tournament-uploader/db/bundb"
)

func main() {
	cliApp := &cli.App{
		Name: "bun",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.StringSliceFlag{Name: "env-file", Value: cli.NewStringSlice(".env"), Usage: "dotenv files to load"},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withMigrators connects to the configured database and runs fn with one
// migrator per module.
func withMigrators(c *cli.Context, fn func(migrators map[string]*migrate.Migrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"), c.StringSlice("env-file")...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}

	dbService, err := bundb.NewBunDBService(c.Context, cfg.Postgres, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		return err
	}
	defer dbService.Close()

	return fn(map[string]*migrate.Migrator{
		"tournament": migrate.NewMigrator(dbService.GetDB(), tournamentmigrations.Migrations),
	})
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators map[string]*migrate.Migrator) error {
						for moduleName, migrator := range migrators {
							fmt.Printf("Initializing migrations for module: %s\n", moduleName)
							if err := migrator.Init(c.Context); err != nil {
								return fmt.Errorf("module %s: %w", moduleName, err)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators map[string]*migrate.Migrator) error {
						for moduleName, migrator := range migrators {
							fmt.Printf("Running migrations for module: %s\n", moduleName)
							if err := migrator.Lock(c.Context); err != nil {
								return err
							}
							group, err := migrator.Migrate(c.Context)
							_ = migrator.Unlock(c.Context)
							if err != nil {
								return err
							}
							if group.IsZero() {
								fmt.Printf("No new migrations to run for module: %s\n", moduleName)
							} else {
								fmt.Printf("Migrated module: %s to %s\n", moduleName, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators map[string]*migrate.Migrator) error {
						for moduleName, migrator := range migrators {
							fmt.Printf("Rolling back migrations for module: %s\n", moduleName)
							group, err := migrator.Rollback(c.Context)
							if err != nil {
								return err
							}
							if group.IsZero() {
								fmt.Printf("No groups to roll back for module: %s\n", moduleName)
							} else {
								fmt.Printf("Rolled back module: %s to %s\n", moduleName, group)
							}
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "MODULE NAME...",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators map[string]*migrate.Migrator) error {
						moduleName := c.Args().First()
						migrator, ok := migrators[moduleName]
						if !ok {
							return fmt.Errorf("invalid module name: %s", moduleName)
						}

						name := strings.Join(c.Args().Tail(), "_")
						mf, err := migrator.CreateGoMigration(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "MODULE NAME...",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators map[string]*migrate.Migrator) error {
						moduleName := c.Args().First()
						migrator, ok := migrators[moduleName]
						if !ok {
							return fmt.Errorf("invalid module name: %s", moduleName)
						}

						name := strings.Join(c.Args().Tail(), "_")
						files, err := migrator.CreateSQLMigrations(c.Context, name)
						if err != nil {
							return err
						}
						for _, mf := range files {
							fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
						}
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrators(c, func(migrators map[string]*migrate.Migrator) error {
						for moduleName, migrator := range migrators {
							ms, err := migrator.MigrationsWithStatus(c.Context)
							if err != nil {
								return err
							}
							fmt.Printf("Migrations for module: %s\n", moduleName)
							fmt.Printf("  %s\n", ms)
							fmt.Printf("  Applied: %s\n", ms.Applied())
							fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
						}
						return nil
					})
				},
			},
		},
	}
}
