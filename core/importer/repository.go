package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository stores entities of type E in the table of E's model.
// E must be a pointer to a gorm model embedding Base.
type GormRepository[E Entity] struct {
	db *gorm.DB
}

// NewGormRepository creates a repository bound to db, which may be a transaction.
func NewGormRepository[E Entity](db *gorm.DB) *GormRepository[E] {
	return &GormRepository[E]{db: db}
}

// FindByUUID returns ErrNotFound when the row or its table does not exist.
func (r *GormRepository[E]) FindByUUID(ctx context.Context, id uuid.UUID) (E, error) {
	var zero E
	var rows []E
	if !r.hasTable(ctx) {
		return zero, ErrNotFound
	}
	if err := r.db.WithContext(ctx).Where("uuid = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return zero, fmt.Errorf("failed to find %s: %w", id, err)
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return rows[0], nil
}

// ListAll returns every stored entity ordered by UUID. A missing table is empty.
func (r *GormRepository[E]) ListAll(ctx context.Context) ([]E, error) {
	var rows []E
	if !r.hasTable(ctx) {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Order("uuid").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}
	return rows, nil
}

func (r *GormRepository[E]) hasTable(ctx context.Context) bool {
	var rows []E
	return r.db.WithContext(ctx).Migrator().HasTable(&rows)
}

// Save inserts e or overwrites every column of the row with the same UUID.
func (r *GormRepository[E]) Save(ctx context.Context, e E) error {
	e.Meta().UpdatedAt = time.Time{}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(e).Error
}

func (r *GormRepository[E]) Delete(ctx context.Context, e E) error {
	return r.db.WithContext(ctx).Delete(e).Error
}
