package content

import (
	"os"
	"path/filepath"
	"testing"

	"gyrinx-content/core/database"
	"gyrinx-content/core/datasource"
	"gyrinx-content/core/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const basicsYAML = `
house:
  - name: House of Chains
  - name: House of Blades
category:
  - name: Leader
  - name: Ganger
skill:
  - name: Nerves of Steel
    group: Cool
  - name: True Grit
    group: Ferocity
`

const equipmentYAML = `
equipment_category:
  - name: Basic Weapons
    group: Weapons
  - name: Pistols
    group: Weapons
equipment:
  - name: Lasgun
    category: Basic Weapons
    cost: 15
  - name: Stub gun
    category: Pistols
    cost: 5
    rarity: R
    rarity_roll: 7
`

const fightersYAML = `
fighter:
  - type: Forge Tyrant
    house: House of Chains
    category: Leader
    cost: 125
    stats:
      movement: 4
      weapon_skill: 3+
    skills: [Nerves of Steel]
    equipment:
      - category: Pistols
        name: Stub gun
    policy:
      rules:
        - action: deny
          category: Basic Weapons
        - action: allow
          category: Pistols
          names: [Stub gun]
  - type: Hammersmith
    house: House of Chains
    category: Ganger
    cost: 50
equipment_list:
  - house: House of Chains
    fighter: Forge Tyrant
    equipment:
      - category: Basic Weapons
        name: Lasgun
        cost: 20
      - category: Pistols
        name: Stub gun
`

// fixture is a ruleset on disk plus a fresh database.
type fixture struct {
	root    string
	db      *gorm.DB
	service *Service
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "core", datasource.SchemaDir), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "core", datasource.DataDir), 0o755))

	f := &fixture{root: root}
	f.write(t, files)

	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	f.db = db
	f.service = NewService(db, nil, "", datasource.Config{Source: datasource.SourceFS, Root: root, Ruleset: "core"}, zap.NewNop())
	return f
}

// write replaces the data files of the ruleset.
func (f *fixture) write(t *testing.T, files map[string]string) {
	t.Helper()
	dataDir := filepath.Join(f.root, "core", datasource.DataDir)
	require.NoError(t, os.RemoveAll(dataDir))
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(body), 0o644))
	}
}

func (f *fixture) withStorage(client storage.Client, cfg datasource.Config) {
	f.service = NewService(f.db, client, "content", cfg, zap.NewNop())
}

// count returns the rows of model's table, zero when the table does not exist.
func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if !f.db.Migrator().HasTable(model) {
		return 0
	}
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func fullRuleset() map[string]string {
	return map[string]string{
		"basics.yaml":    basicsYAML,
		"equipment.yaml": equipmentYAML,
		"fighters.yaml":  fightersYAML,
	}
}
