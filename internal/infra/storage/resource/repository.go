package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	"github.com/m04kA/SMC-TeeTimeService/pkg/psqlbuilder"
)

// Repository репозиторий конфигураций ресурсов (поля, симуляторы)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигураций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByResourceID получает актуальную конфигурацию ресурса
func (r *Repository) GetByResourceID(ctx context.Context, resourceID int64) (*domain.ResourceConfig, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"resource_id",
		"name",
		"kind",
		"lane_count",
		"slot_interval_minutes",
		"first_minute",
		"last_minute",
		"slot_capacity",
		"booking_horizon_days",
		"max_booking_minutes",
		"max_slots_per_booking",
		"version",
		"created_at",
		"updated_at",
	).
		From("resource_configs").
		Where(squirrel.Eq{"resource_id": resourceID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceID - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.ResourceConfig
	var createdAt, updatedAt sql.NullTime

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.ResourceID,
		&cfg.Name,
		&cfg.Kind,
		&cfg.LaneCount,
		&cfg.SlotIntervalMinutes,
		&cfg.FirstTime,
		&cfg.LastTime,
		&cfg.SlotCapacity,
		&cfg.BookingHorizonDays,
		&cfg.MaxBookingMinutes,
		&cfg.MaxSlotsPerBooking,
		&cfg.Version,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResourceID - scan config: %v", ErrScanRow, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// Upsert создает конфигурацию или заменяет существующую, увеличивая версию
func (r *Repository) Upsert(ctx context.Context, cfg *domain.ResourceConfig) (*domain.ResourceConfig, error) {
	query, args, err := psqlbuilder.Insert("resource_configs").
		Columns(
			"resource_id",
			"name",
			"kind",
			"lane_count",
			"slot_interval_minutes",
			"first_minute",
			"last_minute",
			"slot_capacity",
			"booking_horizon_days",
			"max_booking_minutes",
			"max_slots_per_booking",
		).
		Values(
			cfg.ResourceID,
			cfg.Name,
			cfg.Kind,
			cfg.LaneCount,
			cfg.SlotIntervalMinutes,
			cfg.FirstTime,
			cfg.LastTime,
			cfg.SlotCapacity,
			cfg.BookingHorizonDays,
			cfg.MaxBookingMinutes,
			cfg.MaxSlotsPerBooking,
		).
		Suffix(`ON CONFLICT (resource_id) DO UPDATE SET
			name = EXCLUDED.name,
			kind = EXCLUDED.kind,
			lane_count = EXCLUDED.lane_count,
			slot_interval_minutes = EXCLUDED.slot_interval_minutes,
			first_minute = EXCLUDED.first_minute,
			last_minute = EXCLUDED.last_minute,
			slot_capacity = EXCLUDED.slot_capacity,
			booking_horizon_days = EXCLUDED.booking_horizon_days,
			max_booking_minutes = EXCLUDED.max_booking_minutes,
			max_slots_per_booking = EXCLUDED.max_slots_per_booking,
			version = resource_configs.version + 1,
			updated_at = NOW()
		RETURNING id, version, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ID,
		&cfg.Version,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}

// ListResourceIDs возвращает идентификаторы всех настроенных ресурсов
func (r *Repository) ListResourceIDs(ctx context.Context) ([]int64, error) {
	query, args, err := psqlbuilder.Select("resource_id").
		From("resource_configs").
		OrderBy("resource_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListResourceIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListResourceIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListResourceIDs - scan resource_id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListResourceIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}
