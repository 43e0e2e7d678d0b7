// Package content imports Gyrinx ruleset content.
//
// It defines the persisted models, one import strategy per entity type and the
// pipeline wiring them together:
//
//	house, category, skill, equipment_category
//	equipment          -> equipment_category
//	fighter            -> house, category
//	fighter_skill      -> fighter, skill               (from fighter.skills)
//	fighter_equipment  -> fighter, equipment           (from fighter.equipment)
//	policy             -> fighter, equipment_category  (from fighter.policy)
//	equipment_list     -> fighter, equipment
//
// Base types never lose rows implicitly. Derived types are owned by their parent
// record, so entries removed from the parent are deleted.
//
// The Service adds the operational surface: loading from a directory or a bucket,
// atomic imports, report publishing, environment checks and deduplicated previews.
package content
