package reconciliation

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/psqlbuilder"
)

// Repository репозиторий задач сверки (невыполненные возвраты емкости)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория задач сверки
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет задачу; ID генерирует вызывающий код
func (r *Repository) Create(ctx context.Context, task *domain.ReconciliationTask) error {
	query, args, err := psqlbuilder.Insert("reconciliation_tasks").
		Columns("id", "booking_id", "slot_id", "units", "reason", "attempts", "last_error").
		Values(task.ID, task.BookingID, task.SlotID, task.Units, task.Reason, task.Attempts, task.LastError).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	task.CreatedAt = createdAt.Time
	task.UpdatedAt = updatedAt.Time

	return nil
}

// ListPending возвращает самые старые задачи, не более limit штук
func (r *Repository) ListPending(ctx context.Context, limit int) ([]*domain.ReconciliationTask, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"slot_id",
		"units",
		"reason",
		"attempts",
		"last_error",
		"created_at",
		"updated_at",
	).
		From("reconciliation_tasks").
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	tasks := make([]*domain.ReconciliationTask, 0)
	for rows.Next() {
		var task domain.ReconciliationTask
		var lastError sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&task.ID,
			&task.BookingID,
			&task.SlotID,
			&task.Units,
			&task.Reason,
			&task.Attempts,
			&lastError,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListPending - scan row: %v", ErrScanRow, err)
		}

		if lastError.Valid {
			task.LastError = &lastError.String
		}
		task.CreatedAt = createdAt.Time
		task.UpdatedAt = updatedAt.Time
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPending - rows error: %v", ErrScanRow, err)
	}

	return tasks, nil
}

// Delete удаляет выполненную задачу
func (r *Repository) Delete(ctx context.Context, id string) error {
	query, args, err := psqlbuilder.Delete("reconciliation_tasks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "Delete", query, args)
}

// MarkAttempt увеличивает счетчик попыток и запоминает последнюю ошибку
func (r *Repository) MarkAttempt(ctx context.Context, id string, lastErr string) error {
	query, args, err := psqlbuilder.Update("reconciliation_tasks").
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", lastErr).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkAttempt - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "MarkAttempt", query, args)
}

func (r *Repository) execOne(ctx context.Context, op, query string, args []interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
