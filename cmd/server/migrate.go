package main

import (
	"github.com/spf13/cobra"

	"github.com/dentalsupply/inventory/internal/database"
)

// NewMigrateCmd creates the migrate command group.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage MongoDB index migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(cmd *cobra.Command, m *database.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: withMigrator(func(cmd *cobra.Command, m *database.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				return printVersion(cmd, m)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied migration version",
			RunE:  withMigrator(printVersion),
		},
	)

	return cmd
}

// withMigrator loads config, opens a Migrator for fn and closes it after.
func withMigrator(fn func(*cobra.Command, *database.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		m, err := database.NewMigrator(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer m.Close()

		return fn(cmd, m)
	}
}

func printVersion(cmd *cobra.Command, m *database.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	cmd.Printf("version %d (dirty: %t)\n", version, dirty)
	return nil
}
