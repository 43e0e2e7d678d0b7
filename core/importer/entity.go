package importer

import (
	"time"

	"github.com/google/uuid"
)

// EntityType names one kind of imported content, e.g. "house".
type EntityType string

// Base holds the columns shared by every imported entity.
type Base struct {
	// UUID is the stable identity derived from the identity key.
	UUID uuid.UUID `gorm:"column:uuid;type:varchar(36);primaryKey" json:"uuid"`

	// VersionID is the import run that last wrote the entity.
	VersionID uuid.UUID `gorm:"column:version_id;type:varchar(36);index" json:"version_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta returns the shared columns. Embedding Base satisfies Entity.
func (b *Base) Meta() *Base {
	return b
}

// Entity is any persisted content row.
type Entity interface {
	Meta() *Base
}
