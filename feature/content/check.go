package content

import (
	"context"
	"fmt"

	"gyrinx-content/core/database"
	"gyrinx-content/core/datasource"
	"gyrinx-content/core/importer"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckReport is the result of an environment check.
type CheckReport struct {
	Ruleset string `json:"ruleset"`
	Source  string `json:"source,omitempty"`

	// Errors are problems that would make an import fail.
	Errors []string `json:"errors"`

	// Warnings are problems an import tolerates.
	Warnings []string `json:"warnings"`

	// Sources lists the loaded source names in discovery order.
	Sources []string `json:"sources"`

	// Records counts loaded records per source name.
	Records map[string]int `json:"records"`

	// MissingTables lists content tables that do not exist yet.
	MissingTables []string `json:"missing_tables,omitempty"`

	// MissingColumns lists absent columns per existing table.
	MissingColumns map[string][]string `json:"missing_columns,omitempty"`
}

// OK reports whether the environment is ready for an import.
func (r *CheckReport) OK() bool {
	return len(r.Errors) == 0
}

// Check verifies the ruleset layout, the database connection and the content tables.
// Missing tables are reported but are not errors, since an import creates them.
func (s *Service) Check(ctx context.Context, ruleset string) (*CheckReport, error) {
	name, err := s.ruleset(ruleset)
	if err != nil {
		return nil, err
	}
	report := &CheckReport{
		Ruleset:        name,
		Records:        map[string]int{},
		MissingColumns: map[string][]string{},
	}

	if s.cfg.Source == datasource.SourceBucket && s.client != nil {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		switch {
		case err != nil:
			report.Errors = append(report.Errors, fmt.Sprintf("storage unreachable: %v", err))
		case !exists:
			report.Errors = append(report.Errors, fmt.Sprintf("bucket %s does not exist", s.bucket))
		}
	}

	set, source, err := s.Load(ctx, name)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
	} else {
		report.Source = source
		report.Sources = set.Names()
		report.Warnings = append(report.Warnings, set.Warnings...)
		for _, f := range set.Failures {
			report.Warnings = append(report.Warnings, "unparsable file "+f.Error())
		}
		for _, src := range set.Sources {
			report.Records[src.Name] += len(src.Payload)
		}
	}

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("database unreachable: %v", err))
		return report, nil
	}

	models := []any{&importer.Run{}}
	for _, t := range Types() {
		models = append(models, Models()[t])
	}
	for _, model := range models {
		table, columns, err := schemaOf(s.db, model)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		if !s.db.Migrator().HasTable(table) {
			report.MissingTables = append(report.MissingTables, table)
			continue
		}
		missing, err := database.MissingColumns(s.db, table, columns)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		if len(missing) > 0 {
			report.MissingColumns[table] = missing
			report.Errors = append(report.Errors, fmt.Sprintf("table %s is missing columns %v", table, missing))
		}
	}

	s.logger.Info("Environment check completed",
		zap.String("ruleset", name),
		zap.Int("errors", len(report.Errors)),
		zap.Int("warnings", len(report.Warnings)),
	)
	return report, nil
}

func schemaOf(db *gorm.DB, model any) (string, []string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return "", nil, fmt.Errorf("failed to parse model %T: %w", model, err)
	}
	return stmt.Schema.Table, stmt.Schema.DBNames, nil
}
