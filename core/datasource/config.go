package datasource

import (
	"path"
	"path/filepath"
)

const (
	// SourceFS reads rulesets from the local filesystem.
	SourceFS = "fs"
	// SourceBucket reads rulesets from object storage.
	SourceBucket = "bucket"

	// DataDir holds the YAML content of a ruleset.
	DataDir = "data"
	// SchemaDir holds the schema files of a ruleset.
	SchemaDir = "schema"
)

// Config describes where ruleset content lives.
type Config struct {
	// Source is either "fs" or "bucket".
	Source string `mapstructure:"source" default:"fs"`
	// Root is the directory containing one sub-directory per ruleset.
	Root string `mapstructure:"root" default:"content"`
	// Prefix is the object prefix containing rulesets when Source is "bucket".
	Prefix string `mapstructure:"prefix" default:"rulesets"`
	// Ruleset is the default ruleset name.
	Ruleset string `mapstructure:"ruleset" default:""`
	// ReportPrefix is the object prefix import reports are published under.
	// Empty disables publishing.
	ReportPrefix string `mapstructure:"report_prefix" default:""`
}

// RulesetDir returns the local directory of a ruleset.
func (c Config) RulesetDir(ruleset string) string {
	return filepath.Join(c.Root, ruleset)
}

// RulesetPrefix returns the object prefix of a ruleset's data files.
func (c Config) RulesetPrefix(ruleset string) string {
	return path.Join(c.Prefix, ruleset, DataDir) + "/"
}
