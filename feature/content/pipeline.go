package content

import (
	"fmt"

	"gyrinx-content/core/importer"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewPipeline wires every content type to gorm repositories on db, which may be a
// transaction.
func NewPipeline(db *gorm.DB, logger *zap.Logger) *importer.Pipeline {
	return importer.NewPipeline(importer.NewGormRunStore(db), logger,
		importer.New[*House](newHouseStrategy(), importer.NewGormRepository[*House](db), logger),
		importer.New[*Category](newCategoryStrategy(), importer.NewGormRepository[*Category](db), logger),
		importer.New[*Skill](newSkillStrategy(), importer.NewGormRepository[*Skill](db), logger),
		importer.New[*EquipmentCategory](newEquipmentCategoryStrategy(), importer.NewGormRepository[*EquipmentCategory](db), logger),
		importer.New[*Equipment](newEquipmentStrategy(), importer.NewGormRepository[*Equipment](db), logger),
		importer.New[*Fighter](newFighterStrategy(), importer.NewGormRepository[*Fighter](db), logger),
		importer.New[*FighterSkill](newFighterSkillStrategy(), importer.NewGormRepository[*FighterSkill](db), logger),
		importer.New[*FighterEquipment](newFighterEquipmentStrategy(), importer.NewGormRepository[*FighterEquipment](db), logger),
		importer.New[*Policy](newPolicyStrategy(), importer.NewGormRepository[*Policy](db), logger),
		importer.New[*EquipmentListItem](newEquipmentListStrategy(), importer.NewGormRepository[*EquipmentListItem](db), logger),
	)
}

// ParseTypes converts names to entity types, rejecting unknown names.
func ParseTypes(names []string) ([]importer.EntityType, error) {
	known := make(map[importer.EntityType]struct{})
	for _, t := range Types() {
		known[t] = struct{}{}
	}
	out := make([]importer.EntityType, 0, len(names))
	for _, n := range names {
		t := importer.EntityType(n)
		if _, ok := known[t]; !ok {
			return nil, fmt.Errorf("unknown entity type %q", n)
		}
		out = append(out, t)
	}
	return out, nil
}
