package content

import (
	"context"
	"fmt"

	"gyrinx-content/core/datasource"
	"gyrinx-content/core/importer"
)

// The strategies below derive their records from fighter and equipment list records.
// They own their rows completely, so rows whose source entry disappeared are removed.

// Fighter skills

type fighterSkillStrategy struct{ descriptor }

func newFighterSkillStrategy() fighterSkillStrategy {
	return fighterSkillStrategy{descriptor{
		entityType: TypeFighterSkill,
		source:     "fighter",
		deps:       []importer.EntityType{TypeFighter, TypeSkill},
		removal:    true,
	}}
}

func (fighterSkillStrategy) New() *FighterSkill { return &FighterSkill{} }

func (fighterSkillStrategy) Expand(rec datasource.Record) ([]datasource.Record, error) {
	f, err := importer.Decode[fighterRecord](rec)
	if err != nil {
		return nil, err
	}
	out := make([]datasource.Record, 0, len(f.Skills))
	for _, skill := range f.Skills {
		out = append(out, datasource.Record{"house": f.House, "type": f.Type, "skill": skill})
	}
	return out, nil
}

func (fighterSkillStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[fighterSkillRecord](rec)
	if err != nil {
		return "", err
	}
	return FighterSkillKey(r.House, r.Type, r.Skill), nil
}

func (fighterSkillStrategy) Project(ctx context.Context, rec datasource.Record, fs *FighterSkill, idx *importer.Index) error {
	r, err := importer.Decode[fighterSkillRecord](rec)
	if err != nil {
		return err
	}
	fighter, err := importer.Resolve[*Fighter](ctx, idx, TypeFighter, FighterKey(r.House, r.Type))
	if err != nil {
		return err
	}
	skill, err := importer.Resolve[*Skill](ctx, idx, TypeSkill, SkillKey(r.Skill))
	if err != nil {
		return err
	}
	fs.FighterUUID = fighter.UUID
	fs.SkillUUID = skill.UUID
	return nil
}

// Default equipment

type fighterEquipmentStrategy struct{ descriptor }

func newFighterEquipmentStrategy() fighterEquipmentStrategy {
	return fighterEquipmentStrategy{descriptor{
		entityType: TypeFighterEquipment,
		source:     "fighter",
		deps:       []importer.EntityType{TypeFighter, TypeEquipment},
		removal:    true,
	}}
}

func (fighterEquipmentStrategy) New() *FighterEquipment { return &FighterEquipment{} }

func (fighterEquipmentStrategy) Expand(rec datasource.Record) ([]datasource.Record, error) {
	f, err := importer.Decode[fighterRecord](rec)
	if err != nil {
		return nil, err
	}
	out := make([]datasource.Record, 0, len(f.Equipment))
	for _, e := range f.Equipment {
		out = append(out, datasource.Record{"house": f.House, "type": f.Type, "category": e.Category, "name": e.Name})
	}
	return out, nil
}

func (fighterEquipmentStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[fighterEquipmentRecord](rec)
	if err != nil {
		return "", err
	}
	return FighterEquipmentKey(r.House, r.Type, r.Category, r.Name), nil
}

func (fighterEquipmentStrategy) Project(ctx context.Context, rec datasource.Record, fe *FighterEquipment, idx *importer.Index) error {
	r, err := importer.Decode[fighterEquipmentRecord](rec)
	if err != nil {
		return err
	}
	fighter, err := importer.Resolve[*Fighter](ctx, idx, TypeFighter, FighterKey(r.House, r.Type))
	if err != nil {
		return err
	}
	equipment, err := importer.Resolve[*Equipment](ctx, idx, TypeEquipment, EquipmentKey(r.Category, r.Name))
	if err != nil {
		return err
	}
	fe.FighterUUID = fighter.UUID
	fe.EquipmentUUID = equipment.UUID
	return nil
}

// Equipment policy

type policyStrategy struct{ descriptor }

func newPolicyStrategy() policyStrategy {
	return policyStrategy{descriptor{
		entityType: TypePolicy,
		source:     "fighter",
		deps:       []importer.EntityType{TypeFighter, TypeEquipmentCategory},
		removal:    true,
	}}
}

func (policyStrategy) New() *Policy { return &Policy{} }

func (policyStrategy) Expand(rec datasource.Record) ([]datasource.Record, error) {
	f, err := importer.Decode[fighterRecord](rec)
	if err != nil {
		return nil, err
	}
	if f.Policy == nil {
		return nil, nil
	}
	policy := datasource.Record(f.Policy).With("house", f.House).With("type", f.Type)
	return []datasource.Record{policy}, nil
}

func (policyStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[policyRecord](rec)
	if err != nil {
		return "", err
	}
	return PolicyKey(r.House, r.Type), nil
}

func (policyStrategy) Project(ctx context.Context, rec datasource.Record, p *Policy, idx *importer.Index) error {
	r, err := importer.Decode[policyRecord](rec)
	if err != nil {
		return err
	}
	fighter, err := importer.Resolve[*Fighter](ctx, idx, TypeFighter, FighterKey(r.House, r.Type))
	if err != nil {
		return err
	}

	rules := make([]PolicyRule, 0, len(r.Rules))
	for i, rule := range r.Rules {
		category, err := importer.Resolve[*EquipmentCategory](ctx, idx, TypeEquipmentCategory, EquipmentCategoryKey(rule.Category))
		if err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, PolicyRule{
			Action:       rule.Action,
			Category:     rule.Category,
			CategoryUUID: category.UUID,
			Names:        rule.Names,
		})
	}

	p.FighterUUID = fighter.UUID
	p.Rules = rules
	return nil
}

// Equipment lists

type equipmentListStrategy struct{ descriptor }

func newEquipmentListStrategy() equipmentListStrategy {
	return equipmentListStrategy{descriptor{
		entityType: TypeEquipmentList,
		source:     "equipment_list",
		deps:       []importer.EntityType{TypeFighter, TypeEquipment},
		removal:    true,
	}}
}

func (equipmentListStrategy) New() *EquipmentListItem { return &EquipmentListItem{} }

func (equipmentListStrategy) Expand(rec datasource.Record) ([]datasource.Record, error) {
	list, err := importer.Decode[equipmentListRecord](rec)
	if err != nil {
		return nil, err
	}
	out := make([]datasource.Record, 0, len(list.Equipment))
	for _, item := range list.Equipment {
		entry := datasource.Record{
			"house":    list.House,
			"fighter":  list.Fighter,
			"category": item.Category,
			"name":     item.Name,
		}
		if item.Cost != nil {
			entry["cost"] = *item.Cost
		}
		out = append(out, entry)
	}
	return out, nil
}

func (equipmentListStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[equipmentListEntry](rec)
	if err != nil {
		return "", err
	}
	return EquipmentListKey(r.House, r.Fighter, r.Category, r.Name), nil
}

func (equipmentListStrategy) Project(ctx context.Context, rec datasource.Record, item *EquipmentListItem, idx *importer.Index) error {
	r, err := importer.Decode[equipmentListEntry](rec)
	if err != nil {
		return err
	}
	fighter, err := importer.Resolve[*Fighter](ctx, idx, TypeFighter, FighterKey(r.House, r.Fighter))
	if err != nil {
		return err
	}
	equipment, err := importer.Resolve[*Equipment](ctx, idx, TypeEquipment, EquipmentKey(r.Category, r.Name))
	if err != nil {
		return err
	}
	item.FighterUUID = fighter.UUID
	item.EquipmentUUID = equipment.UUID
	item.Cost = r.Cost
	return nil
}
