// Package compensation журнал отмены многошаговых операций записи.
//
// Каждый успешный прямой шаг записывает, как его откатить. При ошибке журнал
// раскручивается в обратном порядке на контексте без отмены, поэтому дедлайн
// вызывающего не оставляет зарезервированную емкость.
package compensation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// StepKind вид отменяющего шага
type StepKind string

const (
	StepRelease       StepKind = "release"
	StepDeleteBooking StepKind = "delete_booking"
	StepDeleteLinks   StepKind = "delete_links"
	StepDeleteLink    StepKind = "delete_link"
	StepRestoreLink   StepKind = "restore_link"
	StepRestoreUnits  StepKind = "restore_units"
)

// Step записанное действие отмены
type Step struct {
	Kind   StepKind
	SlotID int64 // только для release
	Units  int   // только для release
	Undo   func(ctx context.Context) error

	// DeferReleases причина задачи сверки для оставшихся release-шагов, если Undo не удался.
	// Емкость не освобождается, пока строка, которая на нее ссылается, не удалена
	DeferReleases string
}

// Failure действие отмены, которое не применилось
type Failure struct {
	Step Step
	Err  error
}

func (f Failure) Error() string {
	if f.Step.Kind == StepRelease {
		return fmt.Sprintf("%s slot=%d units=%d: %v", f.Step.Kind, f.Step.SlotID, f.Step.Units, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Step.Kind, f.Err)
}

// Journal LIFO-стек шагов отмены одной операции
type Journal struct {
	operation string
	bookingID int64
	steps     []Step

	tasks   TaskRepository
	metrics Metrics
	logger  Logger
}

// NewJournal создает пустой журнал для операции
func NewJournal(operation string, tasks TaskRepository, metrics Metrics, logger Logger) *Journal {
	return &Journal{
		operation: operation,
		tasks:     tasks,
		metrics:   metrics,
		logger:    logger,
	}
}

// SetBookingID привязывает бронирование к журналу (попадает в задачи сверки)
func (j *Journal) SetBookingID(id int64) {
	j.bookingID = id
}

// Record добавляет шаг отмены
func (j *Journal) Record(step Step) {
	j.steps = append(j.steps, step)
}

// RecordRelease добавляет освобождение емкости для успешного резервирования
func (j *Journal) RecordRelease(slotID int64, units int, release func(ctx context.Context, slotID int64, units int) error) {
	j.Record(Step{
		Kind:   StepRelease,
		SlotID: slotID,
		Units:  units,
		Undo: func(ctx context.Context) error {
			return release(ctx, slotID, units)
		},
	})
}

// Len возвращает количество записанных шагов
func (j *Journal) Len() int {
	return len(j.steps)
}

// Commit сбрасывает шаги: операция успешна
func (j *Journal) Commit() {
	j.steps = nil
}

// Unwind выполняет шаги в обратном порядке и очищает журнал.
// Ошибка шага не останавливает раскрутку; неудачное освобождение сохраняется задачей сверки.
// Если не удался шаг с DeferReleases, все последующие освобождения не выполняются,
// а сразу сохраняются задачами сверки с этой причиной
func (j *Journal) Unwind(ctx context.Context, reason string) []Failure {
	ctx = context.WithoutCancel(ctx)

	var failures []Failure
	var deferReason string
	var deferCause error
	for i := len(j.steps) - 1; i >= 0; i-- {
		step := j.steps[i]

		if step.Kind == StepRelease && deferReason != "" {
			j.logger.Warn("%s: release deferred slot=%d units=%d booking=%d", j.operation, step.SlotID, step.Units, j.bookingID)
			j.persistPending(ctx, step.SlotID, step.Units, deferReason, deferCause)
			continue
		}

		err := step.Undo(ctx)
		j.metrics.ObserveCompensation(string(step.Kind), err == nil)
		if err == nil {
			continue
		}

		f := Failure{Step: step, Err: err}
		failures = append(failures, f)
		j.logger.Error("%s: compensation step failed booking=%d: %v", j.operation, j.bookingID, f)

		if step.Kind == StepRelease {
			j.persistPending(ctx, step.SlotID, step.Units, reason, err)
		}
		if step.DeferReleases != "" {
			deferReason = step.DeferReleases
			deferCause = err
		}
	}
	j.steps = nil

	if len(failures) == 0 {
		j.logger.Info("%s: compensation completed", j.operation)
	}
	return failures
}

func (j *Journal) persistPending(ctx context.Context, slotID int64, units int, reason string, cause error) {
	task := NewTask(j.bookingID, slotID, units, reason, cause)
	if err := j.tasks.Create(ctx, task); err != nil {
		j.logger.Error("%s: RECONCILIATION REQUIRED slot=%d units=%d booking=%d, failed to store task: %v",
			j.operation, slotID, units, j.bookingID, err)
		return
	}
	j.logger.Warn("%s: stored reconciliation task=%s slot=%d units=%d", j.operation, task.ID, slotID, units)
}

// NewTask создает задачу сверки для освобождения, которое слот все еще должен получить
func NewTask(bookingID, slotID int64, units int, reason string, cause error) *domain.ReconciliationTask {
	task := &domain.ReconciliationTask{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		SlotID:    slotID,
		Units:     units,
		Reason:    reason,
	}
	if cause != nil {
		msg := cause.Error()
		task.LastError = &msg
	}
	return task
}
