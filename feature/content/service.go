package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"gyrinx-content/core/datasource"
	"gyrinx-content/core/importer"
	"gyrinx-content/core/logger"
	"gyrinx-content/core/metrics"
	"gyrinx-content/core/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ImportRequest describes one import invocation.
type ImportRequest struct {
	// Ruleset defaults to the configured ruleset.
	Ruleset string
	DryRun  bool
	// Atomic runs the whole import in one transaction.
	Atomic bool
	// Only restricts the import to the named types.
	Only []string
}

// Service imports ruleset content and serves the imported data.
type Service struct {
	db       *gorm.DB
	client   storage.Client
	bucket   string
	cfg      datasource.Config
	logger   *zap.Logger
	previews singleflight.Group
	timeout  time.Duration
}

// DefaultPreviewTimeout bounds a preview run.
const DefaultPreviewTimeout = 2 * time.Minute

// NewService creates a content service. client may be nil when storage is not configured.
func NewService(db *gorm.DB, client storage.Client, bucket string, cfg datasource.Config, logger *zap.Logger) *Service {
	return &Service{
		db:      db,
		client:  client,
		bucket:  bucket,
		cfg:     cfg,
		logger:  logger,
		timeout: DefaultPreviewTimeout,
	}
}

// SetPreviewTimeout changes the time limit of preview runs.
func (s *Service) SetPreviewTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

func (s *Service) ruleset(name string) (string, error) {
	if name == "" {
		name = s.cfg.Ruleset
	}
	if name == "" {
		return "", errors.New("no ruleset given and content.ruleset is not set")
	}
	return name, nil
}

// Load reads the content of a ruleset and returns it with the location it came from.
// A missing data directory is an error; a missing schema directory is a warning.
func (s *Service) Load(ctx context.Context, ruleset string) (*datasource.Set, string, error) {
	if s.cfg.Source == datasource.SourceBucket {
		if s.client == nil {
			return nil, "", errors.New("content source is bucket but storage is not configured")
		}
		prefix := s.cfg.RulesetPrefix(ruleset)
		set, err := datasource.LoadBucket(ctx, s.client, s.bucket, prefix)
		if err != nil {
			return nil, "", err
		}
		if len(set.Sources) == 0 && len(set.Failures) == 0 {
			return nil, "", fmt.Errorf("%w: no content under %s/%s", importer.ErrMissingDirectory, s.bucket, prefix)
		}
		return set, s.bucket + "/" + prefix, nil
	}

	root := s.cfg.RulesetDir(ruleset)
	dataDir := filepath.Join(root, datasource.DataDir)
	if !isDir(dataDir) {
		return nil, "", fmt.Errorf("%w: %s", importer.ErrMissingDirectory, dataDir)
	}

	set, err := datasource.LoadDir(ctx, dataDir)
	if err != nil {
		return nil, "", err
	}
	if schemaDir := filepath.Join(root, datasource.SchemaDir); !isDir(schemaDir) {
		set.Warnings = append(set.Warnings, fmt.Sprintf("schema directory %s does not exist, records are not schema-checked", schemaDir))
	}
	return set, dataDir, nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// Import loads and imports a ruleset.
// The report is returned whenever the run started, including failed runs.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*importer.Report, error) {
	start := time.Now()

	ruleset, err := s.ruleset(req.Ruleset)
	if err != nil {
		return nil, err
	}
	only, err := ParseTypes(req.Only)
	if err != nil {
		return nil, err
	}

	l := s.logger.With(zap.String("ruleset", ruleset), zap.Bool("dry_run", req.DryRun))

	set, source, err := s.Load(ctx, ruleset)
	if err != nil {
		return nil, err
	}
	for _, w := range set.Warnings {
		l.Warn(w)
	}
	for _, f := range set.Failures {
		l.Warn("Skipped unparsable content file", zap.String("file", f.Path), zap.Error(f.Err))
	}
	metrics.RecordFileFailures(len(set.Failures))

	// Dry runs leave the schema alone; missing tables read as empty.
	if !req.DryRun {
		if err := Migrate(s.db); err != nil {
			return nil, err
		}
	}

	opts := importer.Options{
		DryRun:  req.DryRun,
		Ruleset: ruleset,
		Source:  source,
		Only:    only,
	}

	var report *importer.Report
	if req.Atomic && !req.DryRun {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var runErr error
			report, runErr = NewPipeline(tx, l).Execute(ctx, set, opts)
			return runErr
		})
	} else {
		report, err = NewPipeline(s.db, l).Execute(ctx, set, opts)
	}

	if report != nil {
		s.record(report)
		l = logger.WithRun(l, report.RunID.String(), ruleset)
		created, updated, removed := report.Totals()
		l.Info("Import finished",
			zap.String("status", string(report.Status)),
			zap.Int("created", created),
			zap.Int("updated", updated),
			zap.Int("removed", removed),
			zap.Duration("duration", time.Since(start)),
		)
		if !req.DryRun {
			if perr := s.publish(ctx, report); perr != nil {
				l.Warn("Failed to publish import report", zap.Error(perr))
			}
		}
	}

	return report, err
}

func (s *Service) record(report *importer.Report) {
	metrics.RecordImport(report.Ruleset, string(report.Status), report.DryRun,
		report.FinishedAt.Sub(report.StartedAt).Seconds())
	for _, step := range report.Steps {
		metrics.RecordRecords(string(step.Type), string(importer.ActionCreated), report.DryRun, step.Created)
		metrics.RecordRecords(string(step.Type), string(importer.ActionUpdated), report.DryRun, step.Updated)
		metrics.RecordRecords(string(step.Type), string(importer.ActionRemoved), report.DryRun, step.Removed)
	}
}

// ReportObjectName returns the object key a run's report is published under.
func (s *Service) ReportObjectName(runID uuid.UUID) string {
	return path.Join(s.cfg.ReportPrefix, runID.String()+".json")
}

// publish uploads the report when a report prefix and storage are configured.
func (s *Service) publish(ctx context.Context, report *importer.Report) error {
	if s.cfg.ReportPrefix == "" || s.client == nil {
		return nil
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return storage.PutBytes(ctx, s.client, s.bucket, s.ReportObjectName(report.RunID), "application/json", data)
}

type previewResult struct {
	report *importer.Report
	err    error
}

// Preview runs a dry-run import. Concurrent previews of the same ruleset share one run,
// which is not cancelled when the caller that started it goes away.
func (s *Service) Preview(ctx context.Context, ruleset string) (*importer.Report, error) {
	name, err := s.ruleset(ruleset)
	if err != nil {
		return nil, err
	}

	v, _, shared := s.previews.Do(name, func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		report, err := s.Import(runCtx, ImportRequest{Ruleset: name, DryRun: true})
		return previewResult{report: report, err: err}, nil
	})
	if shared {
		metrics.PreviewsShared.Inc()
	}
	res := v.(previewResult)
	return res.report, res.err
}

// Runs returns the most recent import runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]importer.Run, error) {
	return importer.NewGormRunStore(s.db).List(ctx, limit)
}

// Run returns one import run.
func (s *Service) Run(ctx context.Context, id uuid.UUID) (*importer.Run, error) {
	return importer.NewGormRunStore(s.db).Get(ctx, id)
}

// List returns every stored entity of a type.
func (s *Service) List(ctx context.Context, entityType string) (any, error) {
	types, err := ParseTypes([]string{entityType})
	if err != nil {
		return nil, err
	}
	switch types[0] {
	case TypeHouse:
		return importer.NewGormRepository[*House](s.db).ListAll(ctx)
	case TypeCategory:
		return importer.NewGormRepository[*Category](s.db).ListAll(ctx)
	case TypeSkill:
		return importer.NewGormRepository[*Skill](s.db).ListAll(ctx)
	case TypeEquipmentCategory:
		return importer.NewGormRepository[*EquipmentCategory](s.db).ListAll(ctx)
	case TypeEquipment:
		return importer.NewGormRepository[*Equipment](s.db).ListAll(ctx)
	case TypeFighter:
		return importer.NewGormRepository[*Fighter](s.db).ListAll(ctx)
	case TypeFighterSkill:
		return importer.NewGormRepository[*FighterSkill](s.db).ListAll(ctx)
	case TypeFighterEquipment:
		return importer.NewGormRepository[*FighterEquipment](s.db).ListAll(ctx)
	case TypePolicy:
		return importer.NewGormRepository[*Policy](s.db).ListAll(ctx)
	default:
		return importer.NewGormRepository[*EquipmentListItem](s.db).ListAll(ctx)
	}
}
