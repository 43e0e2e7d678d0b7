package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkRuleset string

// checkCmd verifies that an import could run.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the ruleset layout and the content database",
	Long: `Check loads the ruleset without importing it, pings the database and compares
the content tables with the expected columns. It exits non-zero when an import would fail.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkRuleset, "ruleset", "", "Ruleset to check (defaults to content.ruleset)")
	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	report, err := e.service.Check(context.Background(), checkRuleset)
	if err != nil {
		return err
	}

	for _, name := range report.Sources {
		e.logger.Info("Records", zap.String("source", name), zap.Int("count", report.Records[name]))
	}
	if len(report.MissingTables) > 0 {
		e.logger.Info("Tables will be created on import", zap.Strings("tables", report.MissingTables))
	}
	for _, w := range report.Warnings {
		e.logger.Warn(w)
	}
	for _, msg := range report.Errors {
		e.logger.Error(msg)
	}

	if !report.OK() {
		return errors.New("check failed: " + strings.Join(report.Errors, "; "))
	}
	e.logger.Info("Check passed", zap.String("ruleset", report.Ruleset), zap.String("source", report.Source))
	return nil
}
