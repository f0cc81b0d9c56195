package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewMigrateCommand создает команду управления схемой
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(func(svc *Services) error {
				if err := svc.Migrator.Up(); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), rootOpts.Format, svc.Migrator)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(func(svc *Services) error {
				if err := svc.Migrator.Down(); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), rootOpts.Format, svc.Migrator)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.run(func(svc *Services) error {
				return printVersion(cmd.OutOrStdout(), rootOpts.Format, svc.Migrator)
			})
		},
	})

	return cmd
}

func printVersion(w io.Writer, format string, m Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	out := struct {
		Version uint `json:"version"`
		Dirty   bool `json:"dirty"`
	}{version, dirty}

	return printResult(w, format, out, func(w io.Writer) {
		if dirty {
			writeLine(w, "schema version %d (dirty)", version)
			return
		}
		writeLine(w, "schema version %d", version)
	})
}
