package content

import "strings"

// Identity keys. Every type except house and equipment is namespaced so that keys of
// different types can never collide. Keys built from several names escape ':' and '\'
// in each name, so distinct name tuples always give distinct keys.

var keyEscaper = strings.NewReplacer(`\`, `\\`, ":", `\:`)

func joinKey(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = keyEscaper.Replace(p)
	}
	return strings.Join(escaped, ":")
}

func HouseKey(name string) string { return name }

func CategoryKey(name string) string { return "category:" + name }

func SkillKey(name string) string { return "skill:" + name }

func EquipmentCategoryKey(name string) string { return "equipment-category:" + name }

func EquipmentKey(category, name string) string { return joinKey(category, name) }

func FighterKey(house, fighterType string) string {
	return "fighter:" + joinKey(house, fighterType)
}

func FighterSkillKey(house, fighterType, skill string) string {
	return "fighter-skill:" + joinKey(house, fighterType, skill)
}

func FighterEquipmentKey(house, fighterType, category, name string) string {
	return "fighter-equipment:" + joinKey(house, fighterType, category, name)
}

func PolicyKey(house, fighterType string) string {
	return "policy:" + joinKey(house, fighterType)
}

func EquipmentListKey(house, fighterType, category, name string) string {
	return "equipment-list:" + joinKey(house, fighterType, category, name)
}
