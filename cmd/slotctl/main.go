package main

import (
	"database/sql"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-TeeTimeService/internal/app"
	"github.com/m04kA/SMC-TeeTimeService/internal/cli"
	"github.com/m04kA/SMC-TeeTimeService/internal/config"
	"github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-TeeTimeService/pkg/logger"
	"github.com/m04kA/SMC-TeeTimeService/pkg/metrics"
)

func main() {
	if err := cli.NewRootCommand(connect).Execute(); err != nil {
		os.Exit(1)
	}
}

// connect собирает сервисы поверх PostgreSQL без метрик
func connect(cfg *config.Config, log *logger.Logger) (*cli.Services, error) {
	db, err := app.OpenDB(
		cfg.Database.DSN(),
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		time.Duration(cfg.Database.ConnMaxLifetime)*time.Second,
	)
	if err != nil {
		return nil, err
	}

	a := app.New(db, metrics.Noop{}, log, app.Options{OperationTimeout: cfg.Booking.Timeout()})

	return &cli.Services{
		Regenerate:  a.RegenerateSlots,
		RollHorizon: a.RollHorizon,
		Reconcile:   a.ReconcileReleases,
		Cancel:      a.CancelBooking,
		Migrator:    migrator{db: db},
		Close:       db.Close,
	}, nil
}

type migrator struct {
	db *sql.DB
}

func (m migrator) Up() error                    { return migrations.Up(m.db) }
func (m migrator) Down() error                  { return migrations.Down(m.db) }
func (m migrator) Version() (uint, bool, error) { return migrations.Version(m.db) }
