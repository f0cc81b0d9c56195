// Package testutil provides an in-memory implementation of the repositories
// with failure injection, for exercising compensation paths in tests.
package testutil

import (
	"sort"
	"sync"

	"github.com/m04kA/SMC-TeeTimeService/internal/domain"
)

// Operation names accepted by FailAfter.
const (
	OpSlotGet            = "slots.GetByID"
	OpSlotList           = "slots.List"
	OpSlotReserve        = "slots.Reserve"
	OpSlotRelease        = "slots.Release"
	OpSlotCreateBatch    = "slots.CreateBatch"
	OpSlotDeleteUnbooked = "slots.DeleteUnbooked"

	OpBookingCreate = "bookings.Create"
	OpBookingGet    = "bookings.GetByID"
	OpBookingList   = "bookings.ListByRequester"
	OpBookingUpdate = "bookings.Update"
	OpBookingDelete = "bookings.Delete"

	OpLinkCreate          = "links.Create"
	OpLinkList            = "links.ListByBooking"
	OpLinkCount           = "links.CountBySlotIDs"
	OpLinkDeleteByBooking = "links.DeleteByBooking"
	OpLinkDeleteOne       = "links.DeleteOne"
	OpLinkUpdateUnits     = "links.UpdateUnits"

	OpResourceGet    = "resources.GetByResourceID"
	OpResourceUpsert = "resources.Upsert"
	OpResourceList   = "resources.ListResourceIDs"

	OpTaskCreate = "tasks.Create"
	OpTaskList   = "tasks.ListPending"
	OpTaskDelete = "tasks.Delete"
	OpTaskMark   = "tasks.MarkAttempt"
)

type failure struct {
	after int // calls that still succeed before failing
	times int // failures left; < 0 means forever
	err   error
}

// Store keeps every table in memory behind one mutex, so each repository call
// is atomic just like a single-row statement in the real store.
type Store struct {
	mu sync.Mutex

	slots    map[int64]*domain.Slot
	bookings map[int64]*domain.Booking
	links    map[int64]*domain.SlotBookingLink
	configs  map[int64]*domain.ResourceConfig
	tasks    map[string]*domain.ReconciliationTask

	nextSlotID    int64
	nextBookingID int64
	nextLinkID    int64
	nextConfigID  int64

	failures map[string]*failure
	calls    map[string]int

	Slots     *SlotRepository
	Bookings  *BookingRepository
	Links     *LinkRepository
	Resources *ResourceRepository
	Tasks     *TaskRepository
}

// NewStore creates an empty store
func NewStore() *Store {
	s := &Store{
		slots:    make(map[int64]*domain.Slot),
		bookings: make(map[int64]*domain.Booking),
		links:    make(map[int64]*domain.SlotBookingLink),
		configs:  make(map[int64]*domain.ResourceConfig),
		tasks:    make(map[string]*domain.ReconciliationTask),
		failures: make(map[string]*failure),
		calls:    make(map[string]int),
	}
	s.Slots = &SlotRepository{s: s}
	s.Bookings = &BookingRepository{s: s}
	s.Links = &LinkRepository{s: s}
	s.Resources = &ResourceRepository{s: s}
	s.Tasks = &TaskRepository{s: s}
	return s
}

// FailAfter lets the next `after` calls of op succeed and fails every call
// after that with err.
func (s *Store) FailAfter(op string, after int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = &failure{after: after, times: -1, err: err}
}

// FailTimes is FailAfter limited to `times` failures.
func (s *Store) FailTimes(op string, after, times int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = &failure{after: after, times: times, err: err}
}

// Heal removes injected failures for op
func (s *Store) Heal(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, op)
}

// Calls returns how many times op was invoked
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter must be called with mu held.
func (s *Store) enter(op string) error {
	s.calls[op]++
	f, ok := s.failures[op]
	if !ok {
		return nil
	}
	if f.after > 0 {
		f.after--
		return nil
	}
	if f.times == 0 {
		return nil
	}
	if f.times > 0 {
		f.times--
	}
	return f.err
}

// SeedConfig stores a resource config as-is
func (s *Store) SeedConfig(cfg *domain.ResourceConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextConfigID++
	c := *cfg
	c.ID = s.nextConfigID
	if c.Version == 0 {
		c.Version = 1
	}
	s.configs[c.ResourceID] = &c
}

// SeedSlots inserts slots and returns them with their ids assigned
func (s *Store) SeedSlots(slots []*domain.Slot) []*domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Slot, 0, len(slots))
	for _, sl := range slots {
		s.nextSlotID++
		c := copySlot(sl)
		c.ID = s.nextSlotID
		s.slots[c.ID] = c
		out = append(out, copySlot(c))
	}
	return out
}

// Slot returns a snapshot of a slot, or nil
func (s *Store) Slot(id int64) *domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[id]
	if !ok {
		return nil
	}
	return copySlot(sl)
}

// AllSlots returns a snapshot of every slot ordered by id
func (s *Store) AllSlots() []*domain.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Slot, 0, len(s.slots))
	for _, sl := range s.slots {
		out = append(out, copySlot(sl))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BookingCount returns the number of booking rows
func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

// LinkCount returns the number of link rows, optionally for one booking (0 = all)
func (s *Store) LinkCount(bookingID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.links {
		if bookingID == 0 || l.BookingID == bookingID {
			n++
		}
	}
	return n
}

// AllTasks returns every stored reconciliation task
func (s *Store) AllTasks() []*domain.ReconciliationTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.ReconciliationTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotID < out[j].SlotID })
	return out
}

// LinkBooking attaches an existing booking id to a slot without touching
// counters. Used to stage occupancy for allocator tests.
func (s *Store) LinkBooking(slotID, bookingID int64, units int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLinkID++
	s.links[s.nextLinkID] = &domain.SlotBookingLink{
		ID:        s.nextLinkID,
		SlotID:    slotID,
		BookingID: bookingID,
		Units:     units,
	}
}

// SetCounters overwrites a slot's counters. Used to stage corrupt state.
func (s *Store) SetCounters(slotID int64, available, booked int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.slots[slotID]; ok {
		sl.AvailableCount = available
		sl.BookedCount = booked
	}
}

func copySlot(sl *domain.Slot) *domain.Slot {
	c := *sl
	if sl.Lane != nil {
		l := *sl.Lane
		c.Lane = &l
	}
	return &c
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	if b.Lane != nil {
		l := *b.Lane
		c.Lane = &l
	}
	if b.Payload != nil {
		c.Payload = append([]byte(nil), b.Payload...)
	}
	return &c
}
