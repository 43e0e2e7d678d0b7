package importer

import (
	"context"
	"fmt"

	"gyrinx-content/core/datasource"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// Strategy describes how one entity type is imported.
// Implementations are stateless and reusable across runs.
type Strategy[E Entity] interface {
	// Type returns the entity type handled by this strategy.
	Type() EntityType

	// SourceName returns the top-level YAML key records are read from.
	SourceName() string

	// DependsOn lists entity types that must be imported first.
	DependsOn() []EntityType

	// AllowRemoval reports whether persisted entities absent from the data may be deleted.
	AllowRemoval() bool

	// New returns an empty entity.
	New() E

	// Identify returns the identity key of a record.
	Identify(rec datasource.Record) (string, error)

	// Project overwrites the domain fields of e from rec, resolving references through idx.
	Project(ctx context.Context, rec datasource.Record, e E, idx *Index) error
}

// Expander is implemented by strategies whose records are derived from a parent record,
// such as the skills listed on a fighter.
type Expander interface {
	Expand(rec datasource.Record) ([]datasource.Record, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode converts a record into T, accepting loosely typed values (e.g. "4" for an int),
// and validates the result using `validate` tags.
func Decode[T any](rec datasource.Record) (T, error) {
	var out T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(rec)); err != nil {
		return out, fmt.Errorf("failed to decode record: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		return out, fmt.Errorf("invalid record: %w", err)
	}
	return out, nil
}
