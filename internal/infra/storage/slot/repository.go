package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/psqlbuilder"
)

// insertBatchSize ограничивает число строк в одном INSERT (лимит параметров PostgreSQL 65535)
const insertBatchSize = 500

var slotColumns = []string{
	"id",
	"resource_id",
	"lane",
	"slot_date",
	"start_minute",
	"end_minute",
	"total_capacity",
	"available_count",
	"booked_count",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// ListLane получает слоты одной дорожки на дату в хронологическом порядке
// lane = nil означает общий tee sheet (lane IS NULL)
func (r *Repository) ListLane(ctx context.Context, resourceID int64, lane *int, date time.Time) ([]*domain.Slot, error) {
	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{
			"resource_id": resourceID,
			"lane":        lane,
			"slot_date":   domain.DateOnly(date),
		}).
		OrderBy("start_minute ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListLane - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListLane - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ListByDate получает все слоты ресурса на дату, упорядоченные по дорожке и времени начала
func (r *Repository) ListByDate(ctx context.Context, resourceID int64, date time.Time) ([]*domain.Slot, error) {
	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots").
		Where(squirrel.Eq{
			"resource_id": resourceID,
			"slot_date":   domain.DateOnly(date),
		}).
		OrderBy("lane ASC NULLS FIRST", "start_minute ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Reserve атомарно списывает units единиц емкости со слота
// Условие available_count >= units проверяется в самом UPDATE, без предварительного чтения
// Возвращает false, если условие не выполнилось (или слота нет)
func (r *Repository) Reserve(ctx context.Context, id int64, units int) (bool, error) {
	query, args, err := psqlbuilder.Update("slots").
		Set("available_count", squirrel.Expr("available_count - ?", units)).
		Set("booked_count", squirrel.Expr("booked_count + ?", units)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"available_count": units}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "Reserve", query, args)
}

// Release атомарно возвращает units единиц емкости слоту
// Условие booked_count >= units не дает счетчику уйти в минус
func (r *Repository) Release(ctx context.Context, id int64, units int) (bool, error) {
	query, args, err := psqlbuilder.Update("slots").
		Set("available_count", squirrel.Expr("available_count + ?", units)).
		Set("booked_count", squirrel.Expr("booked_count - ?", units)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"booked_count": units}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	return r.execConditional(ctx, "Release", query, args)
}

// CreateBatch вставляет сгенерированные слоты
// Уже существующие (resource, lane, date, start) пропускаются через ON CONFLICT DO NOTHING
// Возвращает количество реально вставленных строк
func (r *Repository) CreateBatch(ctx context.Context, slots []*domain.Slot) (int, error) {
	inserted := 0

	for start := 0; start < len(slots); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(slots) {
			end = len(slots)
		}

		insertBuilder := psqlbuilder.Insert("slots").
			Columns(
				"resource_id",
				"lane",
				"slot_date",
				"start_minute",
				"end_minute",
				"total_capacity",
				"available_count",
				"booked_count",
			)

		for _, s := range slots[start:end] {
			insertBuilder = insertBuilder.Values(
				s.ResourceID,
				s.Lane,
				domain.DateOnly(s.SlotDate),
				s.StartTime,
				s.EndTime,
				s.TotalCapacity,
				s.AvailableCount,
				s.BookedCount,
			)
		}

		query, args, err := insertBuilder.Suffix("ON CONFLICT DO NOTHING").ToSql()
		if err != nil {
			return inserted, fmt.Errorf("%w: CreateBatch - build insert query: %v", ErrBuildQuery, err)
		}

		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("%w: CreateBatch - execute insert: %v", ErrExecQuery, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("%w: CreateBatch - get rows affected: %v", ErrExecQuery, err)
		}
		inserted += int(rowsAffected)
	}

	return inserted, nil
}

// DeleteUnbooked удаляет слоты ресурса на дату, на которых ничего не забронировано
// Предикат booked_count = 0 и отсутствие связей проверяются в самом DELETE,
// поэтому параллельное бронирование не может потерять свой слот
func (r *Repository) DeleteUnbooked(ctx context.Context, resourceID int64, date time.Time) (int64, error) {
	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{
			"resource_id":  resourceID,
			"slot_date":    domain.DateOnly(date),
			"booked_count": 0,
		}).
		Where("NOT EXISTS (SELECT 1 FROM booking_slots bs WHERE bs.slot_id = slots.id)").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbooked - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbooked - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbooked - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// execConditional выполняет условный UPDATE и сообщает, была ли затронута строка
func (r *Repository) execConditional(ctx context.Context, op, query string, args []interface{}) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	var lane sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ResourceID,
		&lane,
		&s.SlotDate,
		&s.StartTime,
		&s.EndTime,
		&s.TotalCapacity,
		&s.AvailableCount,
		&s.BookedCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lane.Valid {
		l := int(lane.Int64)
		s.Lane = &l
	}
	s.SlotDate = domain.DateOnly(s.SlotDate)
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// scanSlots сканирует результаты запроса в слайс слотов
func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)

	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
