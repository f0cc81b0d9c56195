package booking_slot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/psqlbuilder"
)

// Repository репозиторий связей слот-бронирование (booking_slots)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория связей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает одну связь слота с бронированием
func (r *Repository) Create(ctx context.Context, link *domain.SlotBookingLink) (*domain.SlotBookingLink, error) {
	query, args, err := psqlbuilder.Insert("booking_slots").
		Columns("slot_id", "booking_id", "units").
		Values(link.SlotID, link.BookingID, link.Units).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&link.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	link.CreatedAt = createdAt.Time

	return link, nil
}

// ListByBooking получает связи бронирования, упорядоченные по времени начала слота
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.SlotBookingLink, error) {
	query, args, err := psqlbuilder.Select(
		"bs.id",
		"bs.slot_id",
		"bs.booking_id",
		"bs.units",
		"bs.created_at",
	).
		From("booking_slots bs").
		LeftJoin("slots s ON s.id = bs.slot_id").
		Where(squirrel.Eq{"bs.booking_id": bookingID}).
		OrderBy("s.start_minute ASC", "bs.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	links := make([]*domain.SlotBookingLink, 0)
	for rows.Next() {
		var link domain.SlotBookingLink
		var createdAt sql.NullTime

		if err := rows.Scan(&link.ID, &link.SlotID, &link.BookingID, &link.Units, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan row: %v", ErrScanRow, err)
		}
		link.CreatedAt = createdAt.Time
		links = append(links, &link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %v", ErrScanRow, err)
	}

	return links, nil
}

// CountBySlotIDs возвращает количество связей для каждого слота
// Слоты без связей в результат не попадают
func (r *Repository) CountBySlotIDs(ctx context.Context, slotIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(slotIDs))
	if len(slotIDs) == 0 {
		return counts, nil
	}

	query, args, err := psqlbuilder.Select("slot_id", "COUNT(*)").
		From("booking_slots").
		Where(squirrel.Eq{"slot_id": slotIDs}).
		GroupBy("slot_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountBySlotIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountBySlotIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var slotID int64
		var count int
		if err := rows.Scan(&slotID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountBySlotIDs - scan row: %v", ErrScanRow, err)
		}
		counts[slotID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountBySlotIDs - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// DeleteByBooking удаляет все связи бронирования
// Возвращает фактически удаленные связи (DELETE ... RETURNING); пустой результат ошибкой не считается
// Освобождать емкость нужно ровно по возвращенным строкам: параллельное редактирование
// могло изменить units после предварительного чтения
func (r *Repository) DeleteByBooking(ctx context.Context, bookingID int64) ([]*domain.SlotBookingLink, error) {
	query, args, err := psqlbuilder.Delete("booking_slots").
		Where(squirrel.Eq{"booking_id": bookingID}).
		Suffix("RETURNING id, slot_id, booking_id, units, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByBooking - build delete query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteByBooking - execute delete: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	deleted := make([]*domain.SlotBookingLink, 0)
	for rows.Next() {
		var link domain.SlotBookingLink
		var createdAt sql.NullTime

		if err := rows.Scan(&link.ID, &link.SlotID, &link.BookingID, &link.Units, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: DeleteByBooking - scan row: %v", ErrScanRow, err)
		}
		link.CreatedAt = createdAt.Time
		deleted = append(deleted, &link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: DeleteByBooking - rows error: %v", ErrScanRow, err)
	}

	return deleted, nil
}

// DeleteOne удаляет связь конкретного слота с бронированием
func (r *Repository) DeleteOne(ctx context.Context, bookingID, slotID int64) error {
	query, args, err := psqlbuilder.Delete("booking_slots").
		Where(squirrel.Eq{"booking_id": bookingID, "slot_id": slotID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteOne - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOne - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOne - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// UpdateUnits меняет количество единиц во всех связях бронирования с from на to
// Если ни одна связь не содержит from, возвращается ErrUnitsConflict:
// связи удалены отменой или изменены параллельным редактированием
func (r *Repository) UpdateUnits(ctx context.Context, bookingID int64, from, to int) error {
	query, args, err := psqlbuilder.Update("booking_slots").
		Set("units", to).
		Where(squirrel.Eq{"booking_id": bookingID, "units": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateUnits - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateUnits - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateUnits - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrUnitsConflict
	}

	return nil
}
