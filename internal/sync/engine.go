package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/phuclong-auto/dealer-api/internal/domain"
)

// DefaultConflictSkew is the tolerated updatedAt divergence between
// local and remote copies of the same record. Differences within this
// window are treated as clock skew, not as concurrent edits.
const DefaultConflictSkew = 1000 * time.Millisecond

// ErrSyncInProgress is returned when a sync cycle is requested while a
// previous one is still running
var ErrSyncInProgress = errors.New("sync already in progress")

// RemoteStore is the remote persistence surface the engine replays the
// pending queue against and fetches authoritative collections from
type RemoteStore interface {
	Ping(ctx context.Context) error
	Apply(ctx context.Context, action domain.PendingSyncAction) error
	FetchVehicles(ctx context.Context) ([]domain.Vehicle, error)
	FetchStaff(ctx context.Context) ([]domain.Staff, error)
	FetchKpiTargets(ctx context.Context) ([]domain.KpiTarget, error)
	FetchSupportBonuses(ctx context.Context) ([]domain.SupportDepartmentBonus, error)
}

// LocalStore is the subset of the local persistence layer the engine
// needs: the pending queue and a pre-sync backup slot.
type LocalStore interface {
	PendingActions() ([]domain.PendingSyncAction, error)
	ClearPendingActions() error
	SaveBackup(state State) error
}

// State is the full in-memory working set handed to a sync cycle and
// returned merged
type State struct {
	Vehicles       []domain.Vehicle
	Staff          []domain.Staff
	KpiTargets     []domain.KpiTarget
	SupportBonuses []domain.SupportDepartmentBonus
}

// Engine runs sync cycles. A cycle never mutates its input state; the
// caller swaps in the returned state on success.
type Engine struct {
	remote   RemoteStore
	local    LocalStore
	vehicles Resolver[domain.Vehicle]
	staff    Resolver[domain.Staff]
	skew     time.Duration
	logger   *zap.Logger

	syncing atomic.Bool
}

// NewEngine creates a sync engine with last-write-wins conflict
// resolution and the default skew window
func NewEngine(remote RemoteStore, local LocalStore, logger *zap.Logger) *Engine {
	return &Engine{
		remote:   remote,
		local:    local,
		vehicles: LastWriteWins[domain.Vehicle]{},
		staff:    LastWriteWins[domain.Staff]{},
		skew:     DefaultConflictSkew,
		logger:   logger,
	}
}

// IsSyncing reports whether a cycle is currently running
func (e *Engine) IsSyncing() bool {
	return e.syncing.Load()
}

// Sync runs one full cycle: back up the current state, drain the
// pending queue against the remote, fetch the remote collections, merge
// them local-preferring and resolve timestamp conflicts. The pending
// queue is cleared only when the whole cycle succeeded; any fetch
// failure returns the input state untouched so nothing is lost.
func (e *Engine) Sync(ctx context.Context, current State) (State, domain.SyncResult, error) {
	if !e.syncing.CompareAndSwap(false, true) {
		return current, domain.SyncResult{OK: false, Message: ErrSyncInProgress.Error()}, ErrSyncInProgress
	}
	defer e.syncing.Store(false)

	started := time.Now()
	e.logger.Info("sync cycle started")

	if err := e.remote.Ping(ctx); err != nil {
		e.logger.Warn("remote unreachable, keeping local state", zap.Error(err))
		return current, domain.SyncResult{
			OK:          false,
			Message:     "remote unreachable, working offline",
			CompletedAt: time.Now(),
		}, nil
	}

	if err := e.local.SaveBackup(current); err != nil {
		e.logger.Warn("failed to write pre-sync backup", zap.Error(err))
	}

	replayed, skipped, err := e.drainQueue(ctx)
	if err != nil {
		e.logger.Error("failed to load pending actions, keeping queue", zap.Error(err))
		return current, domain.SyncResult{
			OK:          false,
			Message:     fmt.Sprintf("pending queue unreadable: %v", err),
			CompletedAt: time.Now(),
		}, nil
	}

	fetched, err := e.fetch(ctx)
	if err != nil {
		e.logger.Error("remote fetch failed, keeping local state", zap.Error(err))
		return current, domain.SyncResult{
			OK:          false,
			Message:     fmt.Sprintf("fetch failed: %v", err),
			Replayed:    replayed,
			Skipped:     skipped,
			CompletedAt: time.Now(),
		}, nil
	}

	merged, conflicts := e.merge(current, fetched)

	if err := e.local.ClearPendingActions(); err != nil {
		e.logger.Warn("failed to clear pending queue", zap.Error(err))
	}

	e.logger.Info("sync cycle completed",
		zap.Int("replayed", replayed),
		zap.Int("skipped", skipped),
		zap.Int("conflicts", conflicts),
		zap.Duration("elapsed", time.Since(started)))

	return merged, domain.SyncResult{
		OK:          true,
		Message:     "sync completed",
		Replayed:    replayed,
		Skipped:     skipped,
		Conflicts:   conflicts,
		CompletedAt: time.Now(),
	}, nil
}

// drainQueue replays pending actions in enqueue order. A failing action
// is logged and skipped so one poisoned payload cannot wedge the queue.
// An unreadable queue is a hard error: the cycle must abort before it
// reaches the clear step, or unreplayed actions would be lost.
func (e *Engine) drainQueue(ctx context.Context) (replayed, skipped int, err error) {
	actions, err := e.local.PendingActions()
	if err != nil {
		return 0, 0, fmt.Errorf("load pending actions: %w", err)
	}
	for _, action := range actions {
		if err := e.remote.Apply(ctx, action); err != nil {
			e.logger.Warn("pending action replay failed, skipping",
				zap.Uint("actionID", action.ID),
				zap.String("type", string(action.Type)),
				zap.Error(err))
			skipped++
			continue
		}
		replayed++
	}
	return replayed, skipped, nil
}

func (e *Engine) fetch(ctx context.Context) (State, error) {
	var fetched State
	var err error

	if fetched.Vehicles, err = e.remote.FetchVehicles(ctx); err != nil {
		return State{}, fmt.Errorf("fetch vehicles: %w", err)
	}
	if fetched.Staff, err = e.remote.FetchStaff(ctx); err != nil {
		return State{}, fmt.Errorf("fetch staff: %w", err)
	}
	if fetched.KpiTargets, err = e.remote.FetchKpiTargets(ctx); err != nil {
		return State{}, fmt.Errorf("fetch kpi targets: %w", err)
	}
	if fetched.SupportBonuses, err = e.remote.FetchSupportBonuses(ctx); err != nil {
		return State{}, fmt.Errorf("fetch support bonuses: %w", err)
	}
	return fetched, nil
}

// merge combines local and remote collections. Vehicles and staff get
// per-record conflict resolution; kpi targets and support bonuses are
// bulk-replaced per period, so the straight id merge suffices.
func (e *Engine) merge(local, remote State) (State, int) {
	vehicleID := func(v domain.Vehicle) string { return v.ID }
	vehicleUpdated := func(v domain.Vehicle) time.Time { return v.UpdatedAt }
	staffID := func(s domain.Staff) string { return s.ID }
	staffUpdated := func(s domain.Staff) time.Time { return s.UpdatedAt }

	vehicleConflicts := DetectConflicts(local.Vehicles, remote.Vehicles, vehicleID, vehicleUpdated, e.skew)
	staffConflicts := DetectConflicts(local.Staff, remote.Staff, staffID, staffUpdated, e.skew)

	for _, c := range vehicleConflicts {
		e.logger.Warn("vehicle conflict detected",
			zap.String("vehicleID", c.ID),
			zap.Bool("localNewer", c.LocalNewer))
	}
	for _, c := range staffConflicts {
		e.logger.Warn("staff conflict detected",
			zap.String("staffID", c.ID),
			zap.Bool("localNewer", c.LocalNewer))
	}

	merged := State{
		Vehicles:       MergeByID(local.Vehicles, remote.Vehicles, vehicleID),
		Staff:          MergeByID(local.Staff, remote.Staff, staffID),
		KpiTargets:     mergeTargets(local.KpiTargets, remote.KpiTargets),
		SupportBonuses: mergeBonuses(local.SupportBonuses, remote.SupportBonuses),
	}
	merged.Vehicles = ApplyResolutions(merged.Vehicles, vehicleConflicts, vehicleID, e.vehicles)
	merged.Staff = ApplyResolutions(merged.Staff, staffConflicts, staffID, e.staff)

	return merged, len(vehicleConflicts) + len(staffConflicts)
}

func mergeTargets(local, remote []domain.KpiTarget) []domain.KpiTarget {
	return MergeByID(local, remote, func(t domain.KpiTarget) string { return t.ID })
}

func mergeBonuses(local, remote []domain.SupportDepartmentBonus) []domain.SupportDepartmentBonus {
	return MergeByID(local, remote, func(b domain.SupportDepartmentBonus) string { return b.ID })
}
