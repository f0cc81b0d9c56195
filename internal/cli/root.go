// Package cli implements slotctl, the operator command line for the tee-time service.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-TeeTimeService/internal/config"
	"github.com/m04kA/SMC-TeeTimeService/pkg/logger"
)

// ConnectFunc открывает подключения и собирает сервисы по конфигурации
type ConnectFunc func(cfg *config.Config, log *logger.Logger) (*Services, error)

// RootOptions глобальные флаги всех команд
type RootOptions struct {
	ConfigPath string
	Format     string // "text" | "json"
	LogLevel   string

	connect ConnectFunc
}

// ValidFormats допустимые форматы вывода
var ValidFormats = []string{"text", "json"}

// NewRootCommand создает корневую команду slotctl
func NewRootCommand(connect ConnectFunc) *cobra.Command {
	opts := &RootOptions{connect: connect}

	cmd := &cobra.Command{
		Use:   "slotctl",
		Short: "Operator tool for the tee-time and simulator bay booking service",
		Long: `slotctl runs maintenance operations against the booking database:
schema migrations, slot regeneration, reconciliation of pending releases
and operator cancellations.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.toml", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level for the command run")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewRegenerateCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewCancelCommand(opts))

	return cmd
}

// open загружает конфигурацию и подключается к хранилищу
func (o *RootOptions) open() (*Services, *logger.Logger, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New("", o.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	svc, err := o.connect(cfg, log)
	if err != nil {
		log.Close()
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return svc, log, nil
}

func (o *RootOptions) run(fn func(svc *Services) error) error {
	svc, log, err := o.open()
	if err != nil {
		return err
	}
	defer log.Close()
	defer svc.Close()

	return fn(svc)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
