// Package localstore is the on-device sqlite mirror of the working
// set. Every mutation lands here first so the dashboard keeps working
// with no remote connection; the sync engine drains the pending-action
// queue kept alongside.
package localstore

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phuclong-auto/dealer-api/internal/domain"
	"github.com/phuclong-auto/dealer-api/internal/sync"
)

// backupRecord is a single-slot JSON snapshot of the working set taken
// right before a sync cycle
type backupRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Snapshot  string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (backupRecord) TableName() string {
	return "sync_backups"
}

const backupSlot = 1

type Store struct {
	db *gorm.DB
}

// NewStore opens (and if needed creates) the sqlite database at path
// and migrates the local schema
func NewStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.Vehicle{},
		&domain.Staff{},
		&domain.KpiTarget{},
		&domain.SupportDepartmentBonus{},
		&domain.PendingSyncAction{},
		&backupRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}

	return &Store{db: db}, nil
}

// Load reads the full working set from disk. Empty tables yield empty
// slices, never an error; a fresh install starts with nothing.
func (s *Store) Load() (sync.State, error) {
	var state sync.State
	if err := s.db.Order("id").Find(&state.Vehicles).Error; err != nil {
		return sync.State{}, fmt.Errorf("failed to load vehicles: %w", err)
	}
	if err := s.db.Order("id").Find(&state.Staff).Error; err != nil {
		return sync.State{}, fmt.Errorf("failed to load staff: %w", err)
	}
	if err := s.db.Order("id").Find(&state.KpiTargets).Error; err != nil {
		return sync.State{}, fmt.Errorf("failed to load kpi targets: %w", err)
	}
	if err := s.db.Order("id").Find(&state.SupportBonuses).Error; err != nil {
		return sync.State{}, fmt.Errorf("failed to load support bonuses: %w", err)
	}
	return state, nil
}

// SaveVehicles replaces the stored vehicle collection
func (s *Store) SaveVehicles(vehicles []domain.Vehicle) error {
	return replaceAll(s.db, &domain.Vehicle{}, vehicles)
}

// SaveStaff replaces the stored staff collection
func (s *Store) SaveStaff(staff []domain.Staff) error {
	return replaceAll(s.db, &domain.Staff{}, staff)
}

// SaveKpiTargets replaces the stored kpi target collection
func (s *Store) SaveKpiTargets(targets []domain.KpiTarget) error {
	return replaceAll(s.db, &domain.KpiTarget{}, targets)
}

// SaveSupportBonuses replaces the stored support bonus collection
func (s *Store) SaveSupportBonuses(bonuses []domain.SupportDepartmentBonus) error {
	return replaceAll(s.db, &domain.SupportDepartmentBonus{}, bonuses)
}

// SaveAll persists the whole working set in one transaction, used after
// a completed sync cycle
func (s *Store) SaveAll(state sync.State) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := replaceAll(tx, &domain.Vehicle{}, state.Vehicles); err != nil {
			return err
		}
		if err := replaceAll(tx, &domain.Staff{}, state.Staff); err != nil {
			return err
		}
		if err := replaceAll(tx, &domain.KpiTarget{}, state.KpiTargets); err != nil {
			return err
		}
		return replaceAll(tx, &domain.SupportDepartmentBonus{}, state.SupportBonuses)
	})
}

// replaceAll swaps out a table's contents for the given rows. The local
// collections are small enough (hundreds of rows) that a full rewrite
// is simpler and safer than diffing.
func replaceAll[T any](db *gorm.DB, model *T, rows []T) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear table: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("failed to write rows: %w", err)
		}
		return nil
	})
}

// Enqueue appends a mutation to the pending-action queue. The payload
// is stored as JSON and replayed verbatim against the remote store on
// the next sync cycle.
func (s *Store) Enqueue(actionType domain.SyncActionType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode pending action: %w", err)
	}
	action := domain.PendingSyncAction{
		Type:      actionType,
		Data:      string(data),
		CreatedAt: time.Now().UTC(),
	}
	return s.db.Create(&action).Error
}

// PendingActions returns queued actions in enqueue order
func (s *Store) PendingActions() ([]domain.PendingSyncAction, error) {
	var actions []domain.PendingSyncAction
	if err := s.db.Order("id").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to load pending actions: %w", err)
	}
	return actions, nil
}

// PendingCount returns the queue depth without loading the payloads
func (s *Store) PendingCount() (int64, error) {
	var count int64
	err := s.db.Model(&domain.PendingSyncAction{}).Count(&count).Error
	return count, err
}

// ClearPendingActions drops the whole queue after a completed sync cycle
func (s *Store) ClearPendingActions() error {
	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.PendingSyncAction{}).Error
}

// SaveBackup overwrites the single backup slot with a snapshot of the
// working set
func (s *Store) SaveBackup(state sync.State) error {
	snapshot, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	record := backupRecord{
		ID:        backupSlot,
		Snapshot:  string(snapshot),
		CreatedAt: time.Now().UTC(),
	}
	return s.db.Save(&record).Error
}

// RestoreBackup returns the last pre-sync snapshot, or gorm.ErrRecordNotFound
// when no backup has been taken yet
func (s *Store) RestoreBackup() (sync.State, error) {
	var record backupRecord
	if err := s.db.First(&record, backupSlot).Error; err != nil {
		return sync.State{}, err
	}
	var state sync.State
	if err := json.Unmarshal([]byte(record.Snapshot), &state); err != nil {
		return sync.State{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	return state, nil
}

// HealthCheck verifies the sqlite handle still responds
func (s *Store) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the underlying sqlite handle
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
