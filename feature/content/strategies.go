package content

import (
	"context"

	"gyrinx-content/core/datasource"
	"gyrinx-content/core/importer"

	"gorm.io/datatypes"
)

// descriptor carries the static part of a strategy.
type descriptor struct {
	entityType importer.EntityType
	source     string
	deps       []importer.EntityType
	removal    bool
}

func (d descriptor) Type() importer.EntityType        { return d.entityType }
func (d descriptor) SourceName() string               { return d.source }
func (d descriptor) DependsOn() []importer.EntityType { return d.deps }
func (d descriptor) AllowRemoval() bool               { return d.removal }

// House

type houseStrategy struct{ descriptor }

func newHouseStrategy() houseStrategy {
	return houseStrategy{descriptor{entityType: TypeHouse, source: "house"}}
}

func (houseStrategy) New() *House { return &House{} }

func (houseStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[houseRecord](rec)
	if err != nil {
		return "", err
	}
	return HouseKey(r.Name), nil
}

func (houseStrategy) Project(_ context.Context, rec datasource.Record, h *House, _ *importer.Index) error {
	r, err := importer.Decode[houseRecord](rec)
	if err != nil {
		return err
	}
	h.Name = r.Name
	h.Legacy = r.Legacy
	h.Generic = r.Generic
	return nil
}

// Category

type categoryStrategy struct{ descriptor }

func newCategoryStrategy() categoryStrategy {
	return categoryStrategy{descriptor{entityType: TypeCategory, source: "category"}}
}

func (categoryStrategy) New() *Category { return &Category{} }

func (categoryStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[categoryRecord](rec)
	if err != nil {
		return "", err
	}
	return CategoryKey(r.Name), nil
}

func (categoryStrategy) Project(_ context.Context, rec datasource.Record, c *Category, _ *importer.Index) error {
	r, err := importer.Decode[categoryRecord](rec)
	if err != nil {
		return err
	}
	c.Name = r.Name
	return nil
}

// Skill

type skillStrategy struct{ descriptor }

func newSkillStrategy() skillStrategy {
	return skillStrategy{descriptor{entityType: TypeSkill, source: "skill"}}
}

func (skillStrategy) New() *Skill { return &Skill{} }

func (skillStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[skillRecord](rec)
	if err != nil {
		return "", err
	}
	return SkillKey(r.Name), nil
}

func (skillStrategy) Project(_ context.Context, rec datasource.Record, s *Skill, _ *importer.Index) error {
	r, err := importer.Decode[skillRecord](rec)
	if err != nil {
		return err
	}
	s.Name = r.Name
	s.Group = r.Group
	return nil
}

// Equipment category

type equipmentCategoryStrategy struct{ descriptor }

func newEquipmentCategoryStrategy() equipmentCategoryStrategy {
	return equipmentCategoryStrategy{descriptor{entityType: TypeEquipmentCategory, source: "equipment_category"}}
}

func (equipmentCategoryStrategy) New() *EquipmentCategory { return &EquipmentCategory{} }

func (equipmentCategoryStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[equipmentCategoryRecord](rec)
	if err != nil {
		return "", err
	}
	return EquipmentCategoryKey(r.Name), nil
}

func (equipmentCategoryStrategy) Project(_ context.Context, rec datasource.Record, c *EquipmentCategory, _ *importer.Index) error {
	r, err := importer.Decode[equipmentCategoryRecord](rec)
	if err != nil {
		return err
	}
	c.Name = r.Name
	c.Group = r.Group
	return nil
}

// Equipment

type equipmentStrategy struct{ descriptor }

func newEquipmentStrategy() equipmentStrategy {
	return equipmentStrategy{descriptor{
		entityType: TypeEquipment,
		source:     "equipment",
		deps:       []importer.EntityType{TypeEquipmentCategory},
	}}
}

func (equipmentStrategy) New() *Equipment { return &Equipment{} }

func (equipmentStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[equipmentRecord](rec)
	if err != nil {
		return "", err
	}
	return EquipmentKey(r.Category, r.Name), nil
}

func (equipmentStrategy) Project(ctx context.Context, rec datasource.Record, e *Equipment, idx *importer.Index) error {
	r, err := importer.Decode[equipmentRecord](rec)
	if err != nil {
		return err
	}
	category, err := importer.Resolve[*EquipmentCategory](ctx, idx, TypeEquipmentCategory, EquipmentCategoryKey(r.Category))
	if err != nil {
		return err
	}
	e.Name = r.Name
	e.CategoryUUID = category.UUID
	e.Cost = r.Cost
	e.Rarity = r.Rarity
	if e.Rarity == "" {
		e.Rarity = "C"
	}
	e.RarityRoll = r.RarityRoll
	return nil
}

// Fighter

type fighterStrategy struct{ descriptor }

func newFighterStrategy() fighterStrategy {
	return fighterStrategy{descriptor{
		entityType: TypeFighter,
		source:     "fighter",
		deps:       []importer.EntityType{TypeHouse, TypeCategory},
	}}
}

func (fighterStrategy) New() *Fighter { return &Fighter{} }

func (fighterStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[fighterRecord](rec)
	if err != nil {
		return "", err
	}
	return FighterKey(r.House, r.Type), nil
}

func (fighterStrategy) Project(ctx context.Context, rec datasource.Record, f *Fighter, idx *importer.Index) error {
	r, err := importer.Decode[fighterRecord](rec)
	if err != nil {
		return err
	}
	house, err := importer.Resolve[*House](ctx, idx, TypeHouse, HouseKey(r.House))
	if err != nil {
		return err
	}
	category, err := importer.Resolve[*Category](ctx, idx, TypeCategory, CategoryKey(r.Category))
	if err != nil {
		return err
	}

	stats := make(datatypes.JSONMap, len(r.Stats))
	for k, v := range r.Stats {
		stats[k] = v
	}

	f.Type = r.Type
	f.HouseUUID = house.UUID
	f.CategoryUUID = category.UUID
	f.Cost = r.Cost
	f.Stats = stats
	return nil
}
