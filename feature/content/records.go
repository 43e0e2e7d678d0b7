package content

// Source records as written by content authors. Keys are snake_case YAML keys.

type houseRecord struct {
	Name    string `mapstructure:"name" validate:"required"`
	Legacy  bool   `mapstructure:"legacy"`
	Generic bool   `mapstructure:"generic"`
}

type categoryRecord struct {
	Name string `mapstructure:"name" validate:"required"`
}

type skillRecord struct {
	Name  string `mapstructure:"name" validate:"required"`
	Group string `mapstructure:"group"`
}

type equipmentCategoryRecord struct {
	Name  string `mapstructure:"name" validate:"required"`
	Group string `mapstructure:"group"`
}

type equipmentRecord struct {
	Name       string `mapstructure:"name" validate:"required"`
	Category   string `mapstructure:"category" validate:"required"`
	Cost       int    `mapstructure:"cost" validate:"gte=0"`
	Rarity     string `mapstructure:"rarity" validate:"omitempty,oneof=C R I E L"`
	RarityRoll *int   `mapstructure:"rarity_roll" validate:"omitempty,gte=0"`
}

type equipmentRef struct {
	Category string `mapstructure:"category" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
}

type policyRuleRecord struct {
	Action   string   `mapstructure:"action" validate:"required,oneof=allow deny"`
	Category string   `mapstructure:"category" validate:"required"`
	Names    []string `mapstructure:"names"`
}

type policyRecord struct {
	House string             `mapstructure:"house" validate:"required"`
	Type  string             `mapstructure:"type" validate:"required"`
	Rules []policyRuleRecord `mapstructure:"rules" validate:"dive"`
}

type fighterRecord struct {
	Type      string            `mapstructure:"type" validate:"required"`
	House     string            `mapstructure:"house" validate:"required"`
	Category  string            `mapstructure:"category" validate:"required"`
	Cost      int               `mapstructure:"cost" validate:"gte=0"`
	Stats     map[string]string `mapstructure:"stats"`
	Skills    []string          `mapstructure:"skills"`
	Equipment []equipmentRef    `mapstructure:"equipment" validate:"dive"`
	Policy    map[string]any    `mapstructure:"policy"`
}

type fighterSkillRecord struct {
	House string `mapstructure:"house" validate:"required"`
	Type  string `mapstructure:"type" validate:"required"`
	Skill string `mapstructure:"skill" validate:"required"`
}

type fighterEquipmentRecord struct {
	House    string `mapstructure:"house" validate:"required"`
	Type     string `mapstructure:"type" validate:"required"`
	Category string `mapstructure:"category" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
}

type equipmentListItemRecord struct {
	Category string `mapstructure:"category" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	Cost     *int   `mapstructure:"cost" validate:"omitempty,gte=0"`
}

type equipmentListRecord struct {
	House     string                    `mapstructure:"house" validate:"required"`
	Fighter   string                    `mapstructure:"fighter" validate:"required"`
	Equipment []equipmentListItemRecord `mapstructure:"equipment" validate:"dive"`
}

type equipmentListEntry struct {
	House    string `mapstructure:"house" validate:"required"`
	Fighter  string `mapstructure:"fighter" validate:"required"`
	Category string `mapstructure:"category" validate:"required"`
	Name     string `mapstructure:"name" validate:"required"`
	Cost     *int   `mapstructure:"cost" validate:"omitempty,gte=0"`
}
