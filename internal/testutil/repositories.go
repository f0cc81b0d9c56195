package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking"
	linkRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/booking_slot"
	taskRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/reconciliation"
	resourceRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/resource"
	slotRepo "github.com/m04kA/SMC-TeeTimeService/internal/infra/storage/slot"
)

// SlotRepository mirrors slot.Repository
type SlotRepository struct{ s *Store }

func (r *SlotRepository) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpSlotGet); err != nil {
		return nil, err
	}
	sl, ok := r.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return copySlot(sl), nil
}

func (r *SlotRepository) ListLane(_ context.Context, resourceID int64, lane *int, date time.Time) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpSlotList); err != nil {
		return nil, err
	}
	out := make([]*domain.Slot, 0)
	for _, sl := range r.s.slots {
		if sl.ResourceID == resourceID && domain.SameLane(sl.Lane, lane) && domain.DateOnly(sl.SlotDate).Equal(domain.DateOnly(date)) {
			out = append(out, copySlot(sl))
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *SlotRepository) ListByDate(_ context.Context, resourceID int64, date time.Time) ([]*domain.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpSlotList); err != nil {
		return nil, err
	}
	out := make([]*domain.Slot, 0)
	for _, sl := range r.s.slots {
		if sl.ResourceID == resourceID && domain.DateOnly(sl.SlotDate).Equal(domain.DateOnly(date)) {
			out = append(out, copySlot(sl))
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *SlotRepository) Reserve(_ context.Context, id int64, units int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpSlotReserve); err != nil {
		return false, err
	}
	sl, ok := r.s.slots[id]
	if !ok || sl.AvailableCount < units {
		return false, nil
	}
	sl.AvailableCount -= units
	sl.BookedCount += units
	return true, nil
}

func (r *SlotRepository) Release(_ context.Context, id int64, units int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpSlotRelease); err != nil {
		return false, err
	}
	sl, ok := r.s.slots[id]
	if !ok || sl.BookedCount < units {
		return false, nil
	}
	sl.AvailableCount += units
	sl.BookedCount -= units
	return true, nil
}

func (r *SlotRepository) CreateBatch(_ context.Context, slots []*domain.Slot) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpSlotCreateBatch); err != nil {
		return 0, err
	}
	inserted := 0
	for _, sl := range slots {
		if r.exists(sl) {
			continue
		}
		r.s.nextSlotID++
		c := copySlot(sl)
		c.ID = r.s.nextSlotID
		c.SlotDate = domain.DateOnly(c.SlotDate)
		r.s.slots[c.ID] = c
		inserted++
	}
	return inserted, nil
}

// exists emulates the (resource, lane, date, start) unique index
func (r *SlotRepository) exists(sl *domain.Slot) bool {
	for _, cur := range r.s.slots {
		if cur.ResourceID == sl.ResourceID && domain.SameLane(cur.Lane, sl.Lane) &&
			domain.DateOnly(cur.SlotDate).Equal(domain.DateOnly(sl.SlotDate)) &&
			cur.StartTime.Equal(sl.StartTime) {
			return true
		}
	}
	return false
}

func (r *SlotRepository) DeleteUnbooked(_ context.Context, resourceID int64, date time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpSlotDeleteUnbooked); err != nil {
		return 0, err
	}
	linked := make(map[int64]bool)
	for _, l := range r.s.links {
		linked[l.SlotID] = true
	}
	var deleted int64
	for id, sl := range r.s.slots {
		if sl.ResourceID == resourceID && domain.DateOnly(sl.SlotDate).Equal(domain.DateOnly(date)) &&
			sl.BookedCount == 0 && !linked[id] {
			delete(r.s.slots, id)
			deleted++
		}
	}
	return deleted, nil
}

func sortSlots(slots []*domain.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		la, lb := laneKey(a.Lane), laneKey(b.Lane)
		if la != lb {
			return la < lb
		}
		return a.StartTime.Minutes() < b.StartTime.Minutes()
	})
}

func laneKey(lane *int) int {
	if lane == nil {
		return 0
	}
	return *lane
}

// BookingRepository mirrors booking.Repository
type BookingRepository struct{ s *Store }

func (r *BookingRepository) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpBookingCreate); err != nil {
		return nil, err
	}
	r.s.nextBookingID++
	b.ID = r.s.nextBookingID
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.s.bookings[b.ID] = copyBooking(b)
	return b, nil
}

func (r *BookingRepository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpBookingGet); err != nil {
		return nil, err
	}
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return copyBooking(b), nil
}

func (r *BookingRepository) ListByRequester(_ context.Context, requesterID string) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpBookingList); err != nil {
		return nil, err
	}
	out := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.RequesterID == requesterID {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *BookingRepository) Update(_ context.Context, b *domain.Booking, prevUnits, prevSlotCount int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpBookingUpdate); err != nil {
		return err
	}
	cur, ok := r.s.bookings[b.ID]
	if !ok || cur.Units != prevUnits || cur.SlotCount != prevSlotCount {
		return bookingRepo.ErrBookingConflict
	}
	cur.Units = b.Units
	cur.SlotCount = b.SlotCount
	cur.EndTime = b.EndTime
	cur.UpdatedAt = time.Now()
	return nil
}

func (r *BookingRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpBookingDelete); err != nil {
		return err
	}
	if _, ok := r.s.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(r.s.bookings, id)
	return nil
}

// LinkRepository mirrors booking_slot.Repository
type LinkRepository struct{ s *Store }

func (r *LinkRepository) Create(_ context.Context, link *domain.SlotBookingLink) (*domain.SlotBookingLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpLinkCreate); err != nil {
		return nil, err
	}
	r.s.nextLinkID++
	link.ID = r.s.nextLinkID
	link.CreatedAt = time.Now()
	c := *link
	r.s.links[c.ID] = &c
	return link, nil
}

func (r *LinkRepository) ListByBooking(_ context.Context, bookingID int64) ([]*domain.SlotBookingLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpLinkList); err != nil {
		return nil, err
	}
	out := make([]*domain.SlotBookingLink, 0)
	for _, l := range r.s.links {
		if l.BookingID == bookingID {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := r.s.slots[out[i].SlotID], r.s.slots[out[j].SlotID]
		if si != nil && sj != nil && !si.StartTime.Equal(sj.StartTime) {
			return si.StartTime.IsBefore(sj.StartTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *LinkRepository) CountBySlotIDs(_ context.Context, slotIDs []int64) (map[int64]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpLinkCount); err != nil {
		return nil, err
	}
	wanted := make(map[int64]bool, len(slotIDs))
	for _, id := range slotIDs {
		wanted[id] = true
	}
	counts := make(map[int64]int)
	for _, l := range r.s.links {
		if wanted[l.SlotID] {
			counts[l.SlotID]++
		}
	}
	return counts, nil
}

func (r *LinkRepository) DeleteByBooking(_ context.Context, bookingID int64) ([]*domain.SlotBookingLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpLinkDeleteByBooking); err != nil {
		return nil, err
	}
	deleted := make([]*domain.SlotBookingLink, 0)
	for id, l := range r.s.links {
		if l.BookingID == bookingID {
			c := *l
			deleted = append(deleted, &c)
			delete(r.s.links, id)
		}
	}
	sort.Slice(deleted, func(i, j int) bool { return deleted[i].ID < deleted[j].ID })
	return deleted, nil
}

func (r *LinkRepository) DeleteOne(_ context.Context, bookingID, slotID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpLinkDeleteOne); err != nil {
		return err
	}
	for id, l := range r.s.links {
		if l.BookingID == bookingID && l.SlotID == slotID {
			delete(r.s.links, id)
			return nil
		}
	}
	return linkRepo.ErrLinkNotFound
}

func (r *LinkRepository) UpdateUnits(_ context.Context, bookingID int64, from, to int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpLinkUpdateUnits); err != nil {
		return err
	}
	found := false
	for _, l := range r.s.links {
		if l.BookingID == bookingID && l.Units == from {
			l.Units = to
			found = true
		}
	}
	if !found {
		return linkRepo.ErrUnitsConflict
	}
	return nil
}

// ResourceRepository mirrors resource.Repository
type ResourceRepository struct{ s *Store }

func (r *ResourceRepository) GetByResourceID(_ context.Context, resourceID int64) (*domain.ResourceConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpResourceGet); err != nil {
		return nil, err
	}
	cfg, ok := r.s.configs[resourceID]
	if !ok {
		return nil, resourceRepo.ErrConfigNotFound
	}
	c := *cfg
	return &c, nil
}

func (r *ResourceRepository) Upsert(_ context.Context, cfg *domain.ResourceConfig) (*domain.ResourceConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpResourceUpsert); err != nil {
		return nil, err
	}
	now := time.Now()
	if cur, ok := r.s.configs[cfg.ResourceID]; ok {
		cfg.ID = cur.ID
		cfg.Version = cur.Version + 1
		cfg.CreatedAt = cur.CreatedAt
	} else {
		r.s.nextConfigID++
		cfg.ID = r.s.nextConfigID
		cfg.Version = 1
		cfg.CreatedAt = now
	}
	cfg.UpdatedAt = now
	c := *cfg
	r.s.configs[cfg.ResourceID] = &c
	return cfg, nil
}

func (r *ResourceRepository) ListResourceIDs(_ context.Context) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpResourceList); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(r.s.configs))
	for id := range r.s.configs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// TaskRepository mirrors reconciliation.Repository
type TaskRepository struct{ s *Store }

func (r *TaskRepository) Create(_ context.Context, task *domain.ReconciliationTask) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpTaskCreate); err != nil {
		return err
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	c := *task
	r.s.tasks[task.ID] = &c
	return nil
}

func (r *TaskRepository) ListPending(_ context.Context, limit int) ([]*domain.ReconciliationTask, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpTaskList); err != nil {
		return nil, err
	}
	out := make([]*domain.ReconciliationTask, 0, len(r.s.tasks))
	for _, t := range r.s.tasks {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].SlotID < out[j].SlotID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *TaskRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpTaskDelete); err != nil {
		return err
	}
	if _, ok := r.s.tasks[id]; !ok {
		return taskRepo.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *TaskRepository) MarkAttempt(_ context.Context, id string, lastErr string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter(OpTaskMark); err != nil {
		return err
	}
	t, ok := r.s.tasks[id]
	if !ok {
		return taskRepo.ErrTaskNotFound
	}
	t.Attempts++
	msg := lastErr
	t.LastError = &msg
	t.UpdatedAt = time.Now()
	return nil
}
