package content

import (
	"fmt"

	"gyrinx-content/core/importer"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entity types, in registration order.
const (
	TypeHouse             importer.EntityType = "house"
	TypeCategory          importer.EntityType = "category"
	TypeSkill             importer.EntityType = "skill"
	TypeEquipmentCategory importer.EntityType = "equipment_category"
	TypeEquipment         importer.EntityType = "equipment"
	TypeFighter           importer.EntityType = "fighter"
	TypeFighterSkill      importer.EntityType = "fighter_skill"
	TypeFighterEquipment  importer.EntityType = "fighter_equipment"
	TypePolicy            importer.EntityType = "policy"
	TypeEquipmentList     importer.EntityType = "equipment_list"
)

// House is a faction fighters belong to.
type House struct {
	importer.Base
	Name    string `gorm:"size:255" json:"name"`
	Legacy  bool   `json:"legacy"`
	Generic bool   `json:"generic"`
}

func (House) TableName() string { return "content_houses" }

// Category is a fighter category such as Leader or Ganger.
type Category struct {
	importer.Base
	Name string `gorm:"size:255" json:"name"`
}

func (Category) TableName() string { return "content_categories" }

// Skill is a fighter skill. Group is the skill tree, e.g. Agility.
type Skill struct {
	importer.Base
	Name  string `gorm:"size:255" json:"name"`
	Group string `gorm:"size:255" json:"group"`
}

func (Skill) TableName() string { return "content_skills" }

// EquipmentCategory groups equipment, e.g. Basic Weapons.
type EquipmentCategory struct {
	importer.Base
	Name  string `gorm:"size:255" json:"name"`
	Group string `gorm:"size:255" json:"group"`
}

func (EquipmentCategory) TableName() string { return "content_equipment_categories" }

// Equipment is a piece of wargear in a category.
type Equipment struct {
	importer.Base
	Name         string    `gorm:"size:255" json:"name"`
	CategoryUUID uuid.UUID `gorm:"type:varchar(36);index" json:"category_uuid"`
	Cost         int       `json:"cost"`
	Rarity       string    `gorm:"size:8" json:"rarity"`
	RarityRoll   *int      `json:"rarity_roll,omitempty"`
}

func (Equipment) TableName() string { return "content_equipment" }

// Fighter is a fighter type available to a house.
type Fighter struct {
	importer.Base
	Type         string            `gorm:"size:255" json:"type"`
	HouseUUID    uuid.UUID         `gorm:"type:varchar(36);index" json:"house_uuid"`
	CategoryUUID uuid.UUID         `gorm:"type:varchar(36);index" json:"category_uuid"`
	Cost         int               `json:"cost"`
	Stats        datatypes.JSONMap `json:"stats"`
}

func (Fighter) TableName() string { return "content_fighters" }

// FighterSkill links a fighter to a skill it starts with.
type FighterSkill struct {
	importer.Base
	FighterUUID uuid.UUID `gorm:"type:varchar(36);index" json:"fighter_uuid"`
	SkillUUID   uuid.UUID `gorm:"type:varchar(36)" json:"skill_uuid"`
}

func (FighterSkill) TableName() string { return "content_fighter_skills" }

// FighterEquipment is default equipment a fighter starts with.
type FighterEquipment struct {
	importer.Base
	FighterUUID   uuid.UUID `gorm:"type:varchar(36);index" json:"fighter_uuid"`
	EquipmentUUID uuid.UUID `gorm:"type:varchar(36)" json:"equipment_uuid"`
}

func (FighterEquipment) TableName() string { return "content_fighter_equipment" }

// PolicyRule allows or denies equipment of one category, optionally limited to named items.
type PolicyRule struct {
	Action       string    `json:"action"`
	Category     string    `json:"category"`
	CategoryUUID uuid.UUID `json:"category_uuid"`
	Names        []string  `json:"names,omitempty"`
}

// Policy is the ordered equipment rule set of a fighter.
type Policy struct {
	importer.Base
	FighterUUID uuid.UUID                       `gorm:"type:varchar(36);uniqueIndex" json:"fighter_uuid"`
	Rules       datatypes.JSONSlice[PolicyRule] `json:"rules"`
}

func (Policy) TableName() string { return "content_policies" }

// EquipmentListItem is equipment a fighter may buy, with an optional cost override.
type EquipmentListItem struct {
	importer.Base
	FighterUUID   uuid.UUID `gorm:"type:varchar(36);index" json:"fighter_uuid"`
	EquipmentUUID uuid.UUID `gorm:"type:varchar(36)" json:"equipment_uuid"`
	Cost          *int      `json:"cost,omitempty"`
}

func (EquipmentListItem) TableName() string { return "content_equipment_list_items" }

// Models returns every content model keyed by entity type.
func Models() map[importer.EntityType]any {
	return map[importer.EntityType]any{
		TypeHouse:             &House{},
		TypeCategory:          &Category{},
		TypeSkill:             &Skill{},
		TypeEquipmentCategory: &EquipmentCategory{},
		TypeEquipment:         &Equipment{},
		TypeFighter:           &Fighter{},
		TypeFighterSkill:      &FighterSkill{},
		TypeFighterEquipment:  &FighterEquipment{},
		TypePolicy:            &Policy{},
		TypeEquipmentList:     &EquipmentListItem{},
	}
}

// Migrate creates or updates the run table and every content table.
func Migrate(db *gorm.DB) error {
	models := []any{&importer.Run{}}
	for _, t := range Types() {
		models = append(models, Models()[t])
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate content tables: %w", err)
	}
	return nil
}

// Types returns the entity types in registration order.
func Types() []importer.EntityType {
	return []importer.EntityType{
		TypeHouse, TypeCategory, TypeSkill, TypeEquipmentCategory, TypeEquipment,
		TypeFighter, TypeFighterSkill, TypeFighterEquipment, TypePolicy, TypeEquipmentList,
	}
}
