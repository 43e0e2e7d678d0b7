package importer

import (
	"context"
	"fmt"

	"gyrinx-content/core/datasource"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options controls a single run.
type Options struct {
	// DryRun runs every check and projection but issues no writes.
	DryRun bool

	// RunID stamps every touched entity. Set by the pipeline.
	RunID uuid.UUID

	// Ruleset is the name of the imported ruleset.
	Ruleset string

	// Source is the directory or object prefix the content was read from.
	Source string

	// Only restricts the run to the given types. Empty means all.
	Only []EntityType
}

// Repository is the persisted store of one entity type.
type Repository[E Entity] interface {
	// FindByUUID returns ErrNotFound when no entity has the id.
	FindByUUID(ctx context.Context, id uuid.UUID) (E, error)
	ListAll(ctx context.Context) ([]E, error)
	Save(ctx context.Context, e E) error
	Delete(ctx context.Context, e E) error
}

// Step is one entity type of a pipeline.
type Step interface {
	Type() EntityType
	DependsOn() []EntityType
	Find(ctx context.Context, id uuid.UUID) (Entity, error)
	Run(ctx context.Context, set *datasource.Set, idx *Index, opts Options) (*Result, error)
}

// Importer reconciles the records of one entity type against its repository.
type Importer[E Entity] struct {
	strategy Strategy[E]
	repo     Repository[E]
	logger   *zap.Logger
}

// New creates an importer for a strategy.
func New[E Entity](strategy Strategy[E], repo Repository[E], logger *zap.Logger) *Importer[E] {
	return &Importer[E]{
		strategy: strategy,
		repo:     repo,
		logger:   logger.With(zap.String("type", string(strategy.Type()))),
	}
}

// Type returns the imported entity type.
func (im *Importer[E]) Type() EntityType {
	return im.strategy.Type()
}

// DependsOn returns the types that must be imported first.
func (im *Importer[E]) DependsOn() []EntityType {
	return im.strategy.DependsOn()
}

// Find loads a persisted entity; used by the index as a store fallback.
func (im *Importer[E]) Find(ctx context.Context, id uuid.UUID) (Entity, error) {
	e, err := im.repo.FindByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Records gathers the records for this type from a set, expanding parent records when
// the strategy derives its records from another source.
func (im *Importer[E]) Records(set *datasource.Set) ([]datasource.Record, error) {
	records := set.DataFor(im.strategy.SourceName())

	expander, ok := im.strategy.(Expander)
	if !ok {
		return records, nil
	}

	var out []datasource.Record
	for i, rec := range records {
		children, err := expander.Expand(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: %s record %d: %w", im.Type(), im.strategy.SourceName(), i+1, err)
		}
		out = append(out, children...)
	}
	return out, nil
}

type planned[E Entity] struct {
	key      string
	entity   E
	existing bool
}

// Run imports the records of this type.
//
// Structural checks run against the store snapshot before anything is projected. Every
// record is then projected and registered in the index, and only when all projections
// succeed are the entities saved. Entities whose identity left the data are removed when
// the strategy allows it. With DryRun no writes are issued.
func (im *Importer[E]) Run(ctx context.Context, set *datasource.Set, idx *Index, opts Options) (*Result, error) {
	t := im.Type()
	result := &Result{Type: t}

	records, err := im.Records(set)
	if err != nil {
		return result, err
	}

	keys := make([]string, len(records))
	ids := make([]uuid.UUID, len(records))
	incoming := make(map[uuid.UUID]struct{}, len(records))
	for i, rec := range records {
		key, err := im.strategy.Identify(rec)
		if err != nil {
			return result, fmt.Errorf("%s record %d: %w", t, i+1, err)
		}
		keys[i] = key
		ids[i] = StableID(key)
		incoming[ids[i]] = struct{}{}
	}

	snapshot, err := im.repo.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list %s: %w", t, err)
	}
	stored := make(map[uuid.UUID]E, len(snapshot))
	for _, e := range snapshot {
		stored[e.Meta().UUID] = e
	}

	if err := im.check(len(snapshot), len(records), stored, incoming); err != nil {
		return result, err
	}

	var order []*planned[E]
	byID := make(map[uuid.UUID]*planned[E], len(records))
	for i, rec := range records {
		id := ids[i]
		p, dup := byID[id]
		if dup {
			msg := fmt.Sprintf("duplicate %s %q, the later record wins", t, keys[i])
			result.Warnings = append(result.Warnings, msg)
			im.logger.Warn("Duplicate identity", zap.String("key", keys[i]))
		} else {
			e, ok := stored[id]
			if !ok {
				e = im.strategy.New()
				e.Meta().UUID = id
			}
			p = &planned[E]{key: keys[i], entity: e, existing: ok}
			byID[id] = p
			order = append(order, p)
		}

		if err := im.strategy.Project(ctx, rec, p.entity, idx); err != nil {
			return result, fmt.Errorf("%s %q: %w", t, keys[i], err)
		}
		p.entity.Meta().VersionID = opts.RunID
		idx.Put(t, p.entity)
	}

	for _, p := range order {
		action := ActionCreated
		if p.existing {
			action = ActionUpdated
		}
		if !opts.DryRun {
			if err := im.repo.Save(ctx, p.entity); err != nil {
				return result, fmt.Errorf("failed to save %s %q: %w", t, p.key, err)
			}
		}
		im.record(result, RecordReport{
			Type:     t,
			Key:      p.key,
			UUID:     p.entity.Meta().UUID,
			Action:   action,
			Existing: p.existing,
		}, opts.DryRun)
	}

	if !im.strategy.AllowRemoval() {
		return result, nil
	}
	for _, e := range snapshot {
		id := e.Meta().UUID
		if _, keep := byID[id]; keep {
			continue
		}
		if !opts.DryRun {
			if err := im.repo.Delete(ctx, e); err != nil {
				return result, fmt.Errorf("failed to remove %s %s: %w", t, id, err)
			}
		}
		idx.MarkRemoved(t, id)
		im.record(result, RecordReport{Type: t, UUID: id, Action: ActionRemoved, Existing: true}, opts.DryRun)
	}

	return result, nil
}

// check rejects shrinkage and renames for types that do not allow removal.
// A rename is only detected when the counts are equal.
func (im *Importer[E]) check(existing, incoming int, stored map[uuid.UUID]E, ids map[uuid.UUID]struct{}) error {
	if im.strategy.AllowRemoval() {
		return nil
	}
	if existing > incoming {
		return &MismatchError{Type: im.Type(), Kind: ErrRemovalNotAllowed, Existing: existing, Incoming: incoming}
	}
	if existing != incoming {
		return nil
	}

	var missing []uuid.UUID
	for id := range stored {
		if _, ok := ids[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sortIDs(missing)
	return &MismatchError{Type: im.Type(), Kind: ErrIdentityChanged, Existing: existing, Incoming: incoming, Missing: missing}
}

func (im *Importer[E]) record(result *Result, rec RecordReport, dryRun bool) {
	result.add(rec)
	im.logger.Info("Record "+string(rec.Action),
		zap.String("key", rec.Key),
		zap.String("uuid", rec.UUID.String()),
		zap.Bool("existing", rec.Existing),
		zap.Bool("dry_run", dryRun),
	)
}
