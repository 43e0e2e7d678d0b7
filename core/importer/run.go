package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RunStatus is the lifecycle state of an import run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is the provenance record of one pipeline invocation.
// Every entity written by the run carries its ID as VersionID.
type Run struct {
	ID              uuid.UUID  `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Ruleset         string     `gorm:"column:ruleset;size:255;index" json:"ruleset"`
	SourceDirectory string     `gorm:"column:source_directory;size:1024" json:"source_directory"`
	Status          RunStatus  `gorm:"column:status;size:32" json:"status"`
	Error           string     `gorm:"column:error;type:text" json:"error,omitempty"`
	StartedAt       time.Time  `gorm:"column:started_at" json:"started_at"`
	FinishedAt      *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

// TableName overrides the gorm default.
func (Run) TableName() string {
	return "content_import_runs"
}

// RunStore persists provenance records.
type RunStore interface {
	Create(ctx context.Context, run *Run) error
	Finish(ctx context.Context, run *Run) error
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
	List(ctx context.Context, limit int) ([]Run, error)
}

// GormRunStore stores runs with gorm.
type GormRunStore struct {
	db *gorm.DB
}

// NewGormRunStore creates a run store.
func NewGormRunStore(db *gorm.DB) *GormRunStore {
	return &GormRunStore{db: db}
}

func (s *GormRunStore) Create(ctx context.Context, run *Run) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (s *GormRunStore) Finish(ctx context.Context, run *Run) error {
	err := s.db.WithContext(ctx).Model(run).Updates(map[string]any{
		"status":      run.Status,
		"error":       run.Error,
		"finished_at": run.FinishedAt,
	}).Error
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}
	return nil
}

func (s *GormRunStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return &run, nil
}

// List returns the most recent runs first.
func (s *GormRunStore) List(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	query := s.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
