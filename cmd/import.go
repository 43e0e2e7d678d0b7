package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gyrinx-content/core/importer"
	"gyrinx-content/feature/content"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importRuleset string
	importDryRun  bool
	importAtomic  bool
	importOnly    []string
	importReport  string
)

// importCmd imports a ruleset into the content database.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import ruleset content into the database",
	Long: `Import reads the ruleset's data directory, checks it against the stored content
and upserts every entity type in dependency order.

An import fails before writing an entity type when content was removed or renamed and
that type does not allow removals.

Examples:
  # Preview the configured ruleset
  import --dry-run

  # Import a single ruleset in one transaction and keep the report
  import --ruleset core --atomic --report report.json

  # Re-import houses and fighters only
  import --only house,fighter`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importRuleset, "ruleset", "", "Ruleset to import (defaults to content.ruleset)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Plan the import without writing anything")
	importCmd.Flags().BoolVar(&importAtomic, "atomic", false, "Run the whole import in one database transaction")
	importCmd.Flags().StringSliceVar(&importOnly, "only", nil, "Comma separated entity types to import")
	importCmd.Flags().StringVar(&importReport, "report", "", "Write the import report as JSON to this file")

	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	report, err := e.service.Import(ctx, content.ImportRequest{
		Ruleset: importRuleset,
		DryRun:  importDryRun,
		Atomic:  importAtomic,
		Only:    importOnly,
	})
	if report != nil {
		printImportReport(e.logger, report)
		if importReport != "" {
			if werr := writeReport(importReport, report); werr != nil {
				e.logger.Error("Failed to write report", zap.String("file", importReport), zap.Error(werr))
			}
		}
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	if importDryRun {
		e.logger.Info("Dry-run mode: No changes were made.")
	}
	return nil
}

// printImportReport logs one summary line per entity type.
func printImportReport(l *zap.Logger, report *importer.Report) {
	for _, step := range report.Steps {
		l.Info("Entity type summary",
			zap.String("type", string(step.Type)),
			zap.Int("created", step.Created),
			zap.Int("updated", step.Updated),
			zap.Int("removed", step.Removed),
		)
	}
	for _, w := range report.Warnings {
		l.Warn(w)
	}
	created, updated, removed := report.Totals()
	l.Info("Import report",
		zap.String("run_id", report.RunID.String()),
		zap.String("status", string(report.Status)),
		zap.Int("created", created),
		zap.Int("updated", updated),
		zap.Int("removed", removed),
	)
}

func writeReport(file string, report *importer.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return os.WriteFile(file, data, 0o644)
}
