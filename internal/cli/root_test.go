package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TeeTimeService/internal/config"
	"github.com/m04kA/SMC-TeeTimeService/internal/testutil"
	cancelBooking "github.com/m04kA/SMC-TeeTimeService/internal/usecase/cancel_booking"
	reconcileReleases "github.com/m04kA/SMC-TeeTimeService/internal/usecase/reconcile_releases"
	regenerateSlots "github.com/m04kA/SMC-TeeTimeService/internal/usecase/regenerate_slots"
	rollHorizon "github.com/m04kA/SMC-TeeTimeService/internal/usecase/roll_horizon"
	"github.com/m04kA/SMC-TeeTimeService/pkg/logger"
)

type regeneratorMock struct{ mock.Mock }

func (m *regeneratorMock) Execute(ctx context.Context, req *regenerateSlots.Request) (*regenerateSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*regenerateSlots.Response)
	return resp, args.Error(1)
}

type rollerMock struct{ mock.Mock }

func (m *rollerMock) Execute(ctx context.Context) (*rollHorizon.Result, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*rollHorizon.Result)
	return resp, args.Error(1)
}

type reconcilerMock struct{ mock.Mock }

func (m *reconcilerMock) Execute(ctx context.Context, batchSize int) (*reconcileReleases.Result, error) {
	args := m.Called(ctx, batchSize)
	resp, _ := args.Get(0).(*reconcileReleases.Result)
	return resp, args.Error(1)
}

type cancellerMock struct{ mock.Mock }

func (m *cancellerMock) Execute(ctx context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*cancelBooking.Response)
	return resp, args.Error(1)
}

type migratorMock struct{ mock.Mock }

func (m *migratorMock) Up() error   { return m.Called().Error(0) }
func (m *migratorMock) Down() error { return m.Called().Error(0) }
func (m *migratorMock) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

const testConfig = `
[database]
host = "localhost"
user = "teetime"
dbname = "teetime"
`

// harness собирает корневую команду с подменными сервисами
type harness struct {
	svc    *Services
	closed bool
	out    *bytes.Buffer
	config string
}

func newHarness(t *testing.T, svc *Services) *harness {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	h := &harness{svc: svc, out: &bytes.Buffer{}, config: path}
	svc.Close = func() error {
		h.closed = true
		return nil
	}
	return h
}

func (h *harness) run(args ...string) error {
	cmd := NewRootCommand(func(cfg *config.Config, log *logger.Logger) (*Services, error) {
		return h.svc, nil
	})
	cmd.SetOut(h.out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", h.config}, args...))
	return cmd.Execute()
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand(nil)

	assert.Equal(t, "slotctl", cmd.Use)
	for _, name := range []string{"migrate", "regenerate", "reconcile", "cancel"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "format", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, "config.toml", cmd.PersistentFlags().Lookup("config").DefValue)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	h := newHarness(t, &Services{})

	err := h.run("--format", "yaml", "reconcile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootCommand_MissingConfig(t *testing.T) {
	h := newHarness(t, &Services{})
	h.config = filepath.Join(t.TempDir(), "missing.toml")

	err := h.run("reconcile")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrReadConfig))
}

func TestRootCommand_ConnectFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	cmd := NewRootCommand(func(cfg *config.Config, log *logger.Logger) (*Services, error) {
		return nil, errors.New("connection refused")
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "reconcile"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestMigrateUp(t *testing.T) {
	m := &migratorMock{}
	m.On("Up").Return(nil)
	m.On("Version").Return(uint(2), false, nil)
	h := newHarness(t, &Services{Migrator: m})

	require.NoError(t, h.run("migrate", "up"))

	assert.Equal(t, "schema version 2\n", h.out.String())
	assert.True(t, h.closed)
	m.AssertExpectations(t)
}

func TestMigrateVersion_DirtyJSON(t *testing.T) {
	m := &migratorMock{}
	m.On("Version").Return(uint(1), true, nil)
	h := newHarness(t, &Services{Migrator: m})

	require.NoError(t, h.run("--format", "json", "migrate", "version"))

	var out struct {
		Version uint `json:"version"`
		Dirty   bool `json:"dirty"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
	assert.Equal(t, uint(1), out.Version)
	assert.True(t, out.Dirty)
}

func TestRegenerate_Resource(t *testing.T) {
	regen := &regeneratorMock{}
	regen.On("Execute", mock.Anything, &regenerateSlots.Request{
		ResourceID: 10, From: testutil.Date("2026-11-02"), To: testutil.Date("2026-11-08"),
	}).Return(&regenerateSlots.Response{
		ResourceID: 10, From: testutil.Date("2026-11-02"), To: testutil.Date("2026-11-08"),
		Deleted: 3, Inserted: 336, Preserved: 2,
	}, nil)
	h := newHarness(t, &Services{Regenerate: regen})

	require.NoError(t, h.run("regenerate", "--resource", "10", "--from", "2026-11-02", "--to", "2026-11-08"))

	assert.Contains(t, h.out.String(), "resource 10 2026-11-02..2026-11-08: deleted=3 inserted=336 preserved=2")
	regen.AssertExpectations(t)
}

func TestRegenerate_SingleDayDefaultsTo(t *testing.T) {
	regen := &regeneratorMock{}
	regen.On("Execute", mock.Anything, &regenerateSlots.Request{
		ResourceID: 10, From: testutil.Date("2026-11-02"), To: testutil.Date("2026-11-02"),
	}).Return(&regenerateSlots.Response{ResourceID: 10}, nil)
	h := newHarness(t, &Services{Regenerate: regen})

	require.NoError(t, h.run("regenerate", "--resource", "10", "--from", "2026-11-02"))
	regen.AssertExpectations(t)
}

func TestRegenerate_FlagValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no target", []string{"regenerate"}, "--resource or --all"},
		{"no from", []string{"regenerate", "--resource", "10"}, "--from is required"},
		{"bad date", []string{"regenerate", "--resource", "10", "--from", "02.11.2026"}, "invalid --from"},
		{"both targets", []string{"regenerate", "--resource", "10", "--all"}, "none of the others"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, &Services{})
			err := h.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegenerate_AllReportsFailures(t *testing.T) {
	roller := &rollerMock{}
	roller.On("Execute", mock.Anything).Return(&rollHorizon.Result{
		Resources: 3, Inserted: 120, Failed: []int64{30},
	}, nil)
	h := newHarness(t, &Services{RollHorizon: roller})

	err := h.run("regenerate", "--all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 resources failed")
	assert.Contains(t, h.out.String(), "resources=3 inserted=120")
}

func TestReconcile_UntilDone(t *testing.T) {
	rec := &reconcilerMock{}
	rec.On("Execute", mock.Anything, 2).Return(&reconcileReleases.Result{Processed: 2, Released: 2}, nil).Once()
	rec.On("Execute", mock.Anything, 2).Return(&reconcileReleases.Result{Processed: 1, Released: 1}, nil).Once()
	h := newHarness(t, &Services{Reconcile: rec})

	require.NoError(t, h.run("reconcile", "--batch", "2", "--until-done"))

	assert.Equal(t, "processed=3 released=3 dropped=0 corrupt=0 failed=0\n", h.out.String())
	rec.AssertExpectations(t)
}

func TestReconcile_StopsOnFailure(t *testing.T) {
	rec := &reconcilerMock{}
	rec.On("Execute", mock.Anything, 2).Return(&reconcileReleases.Result{Processed: 2, Released: 1, Failed: 1}, nil).Once()
	h := newHarness(t, &Services{Reconcile: rec})

	require.NoError(t, h.run("reconcile", "--batch", "2", "--until-done"))

	assert.Contains(t, h.out.String(), "failed=1")
	rec.AssertNumberOfCalls(t, "Execute", 1)
}

func TestCancel(t *testing.T) {
	canceller := &cancellerMock{}
	canceller.On("Execute", mock.Anything, &cancelBooking.Request{BookingID: 7}).
		Return(&cancelBooking.Response{BookingID: 7, ReleasedSlotIDs: []int64{1, 2}}, nil)
	h := newHarness(t, &Services{Cancel: canceller})

	require.NoError(t, h.run("cancel", "--booking", "7"))
	assert.Equal(t, "booking 7 cancelled, released slots [1 2]\n", h.out.String())
}

func TestCancel_PartialIsReported(t *testing.T) {
	canceller := &cancellerMock{}
	canceller.On("Execute", mock.Anything, &cancelBooking.Request{BookingID: 7}).
		Return(nil, &cancelBooking.PartialError{BookingID: 7, PendingSlotIDs: []int64{2}, Cause: errors.New("db down")})
	h := newHarness(t, &Services{Cancel: canceller})

	require.NoError(t, h.run("--format", "json", "cancel", "--booking", "7"))

	var out pendingResult
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &out))
	assert.Equal(t, "cancellation_pending", out.Status)
	assert.Equal(t, []int64{2}, out.PendingSlotIDs)
}

func TestCancel_NotFound(t *testing.T) {
	canceller := &cancellerMock{}
	canceller.On("Execute", mock.Anything, mock.Anything).Return(nil, cancelBooking.ErrNotFound)
	h := newHarness(t, &Services{Cancel: canceller})

	err := h.run("cancel", "--booking", "7")
	assert.ErrorIs(t, err, cancelBooking.ErrNotFound)
}
