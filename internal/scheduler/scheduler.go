// Package scheduler runs the background jobs of the service on gocron.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// Job names
const (
	JobReconciliation = "reconcile-releases"
	JobHorizon        = "roll-horizon"
)

var (
	// ErrInvalidSchedule возвращается при некорректных параметрах расписания
	ErrInvalidSchedule = errors.New("scheduler: invalid schedule")
)

// Service обертка над gocron с задачами сервиса
type Service struct {
	scheduler gocron.Scheduler
	logger    Logger

	// ctx отменяется при Stop, чтобы прервать выполняющиеся задачи
	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
	stopErr  error
}

// New создает планировщик; задачи добавляются до Start
func New(logger Logger) (*Service, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("Scheduler: job %s (%s) panicked: %v", jobName, jobID, recoverData)
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("scheduler: create: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		scheduler: sched,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// AddReconciliation запускает сверку каждые interval, обрабатывая до batchSize задач.
// Следующий запуск пропускается, пока предыдущий не закончился.
func (s *Service) AddReconciliation(r Reconciler, interval time.Duration, batchSize int) error {
	if interval <= 0 || batchSize <= 0 {
		return fmt.Errorf("%w: reconciliation interval and batch size must be positive", ErrInvalidSchedule)
	}

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.runReconciliation(r, batchSize) }),
		gocron.WithName(JobReconciliation),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduler: add %s: %w", JobReconciliation, err)
	}
	s.logger.Info("Scheduler: %s registered every %s, batch=%d", JobReconciliation, interval, batchSize)
	return nil
}

// AddHorizon продлевает слоты всех ресурсов раз в сутки в at (HH:MM, UTC)
func (s *Service) AddHorizon(h HorizonRoller, at string) error {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return fmt.Errorf("%w: horizon time %q: %v", ErrInvalidSchedule, at, err)
	}

	_, err = s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(t.Hour()), uint(t.Minute()), 0))),
		gocron.NewTask(func() { s.runHorizon(h) }),
		gocron.WithName(JobHorizon),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("scheduler: add %s: %w", JobHorizon, err)
	}
	s.logger.Info("Scheduler: %s registered daily at %s UTC", JobHorizon, at)
	return nil
}

// Start запускает задачи
func (s *Service) Start() {
	s.logger.Info("Scheduler: starting")
	s.scheduler.Start()
}

// Stop отменяет выполняющиеся задачи и останавливает планировщик
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		s.logger.Info("Scheduler: stopping")
		s.cancel()
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

func (s *Service) runReconciliation(r Reconciler, batchSize int) {
	result, err := r.Execute(s.ctx, batchSize)
	if err != nil {
		s.logger.Error("Scheduler: %s failed: %v", JobReconciliation, err)
		return
	}
	if result.Processed > 0 {
		s.logger.Info("Scheduler: %s processed=%d released=%d dropped=%d corrupt=%d failed=%d",
			JobReconciliation, result.Processed, result.Released, result.Dropped, result.Corrupt, result.Failed)
	}
}

func (s *Service) runHorizon(h HorizonRoller) {
	result, err := h.Execute(s.ctx)
	if err != nil {
		s.logger.Error("Scheduler: %s failed: %v", JobHorizon, err)
		return
	}
	if len(result.Failed) > 0 {
		s.logger.Warn("Scheduler: %s left %d resources behind: %v", JobHorizon, len(result.Failed), result.Failed)
	}
}
