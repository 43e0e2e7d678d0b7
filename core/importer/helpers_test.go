package importer_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	"gyrinx-content/core/datasource"
	"gyrinx-content/core/importer"

	"github.com/google/uuid"
)

const (
	typeMaker  importer.EntityType = "maker"
	typeGadget importer.EntityType = "gadget"
	typePart   importer.EntityType = "part"
)

type Maker struct {
	importer.Base
	Name string
}

type Gadget struct {
	importer.Base
	Name      string
	MakerUUID uuid.UUID `gorm:"type:varchar(36)"`
}

type Part struct {
	importer.Base
	Gadget string
	Name   string
}

type makerRecord struct {
	Name string `mapstructure:"name" validate:"required"`
}

type makerStrategy struct{}

func (makerStrategy) Type() importer.EntityType        { return typeMaker }
func (makerStrategy) SourceName() string               { return "maker" }
func (makerStrategy) DependsOn() []importer.EntityType { return nil }
func (makerStrategy) AllowRemoval() bool               { return false }
func (makerStrategy) New() *Maker                      { return &Maker{} }

func (makerStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[makerRecord](rec)
	if err != nil {
		return "", err
	}
	return r.Name, nil
}

func (makerStrategy) Project(_ context.Context, rec datasource.Record, m *Maker, _ *importer.Index) error {
	r, err := importer.Decode[makerRecord](rec)
	if err != nil {
		return err
	}
	m.Name = r.Name
	return nil
}

type gadgetRecord struct {
	Name  string `mapstructure:"name" validate:"required"`
	Maker string `mapstructure:"maker" validate:"required"`
}

type gadgetStrategy struct {
	removal bool
}

func (gadgetStrategy) Type() importer.EntityType        { return typeGadget }
func (gadgetStrategy) SourceName() string               { return "gadget" }
func (gadgetStrategy) DependsOn() []importer.EntityType { return []importer.EntityType{typeMaker} }
func (s gadgetStrategy) AllowRemoval() bool             { return s.removal }
func (gadgetStrategy) New() *Gadget                     { return &Gadget{} }

func (gadgetStrategy) Identify(rec datasource.Record) (string, error) {
	r, err := importer.Decode[gadgetRecord](rec)
	if err != nil {
		return "", err
	}
	return "gadget:" + r.Name, nil
}

func (gadgetStrategy) Project(ctx context.Context, rec datasource.Record, g *Gadget, idx *importer.Index) error {
	r, err := importer.Decode[gadgetRecord](rec)
	if err != nil {
		return err
	}
	maker, err := importer.Resolve[*Maker](ctx, idx, typeMaker, r.Maker)
	if err != nil {
		return err
	}
	g.Name = r.Name
	g.MakerUUID = maker.UUID
	return nil
}

// partStrategy derives one part per entry of a gadget's "parts" list.
type partStrategy struct{}

func (partStrategy) Type() importer.EntityType        { return typePart }
func (partStrategy) SourceName() string               { return "gadget" }
func (partStrategy) DependsOn() []importer.EntityType { return []importer.EntityType{typeGadget} }
func (partStrategy) AllowRemoval() bool               { return true }
func (partStrategy) New() *Part                       { return &Part{} }

func (partStrategy) Expand(rec datasource.Record) ([]datasource.Record, error) {
	parts, ok := rec["parts"].([]any)
	if !ok {
		return nil, nil
	}
	out := make([]datasource.Record, 0, len(parts))
	for _, p := range parts {
		name, ok := p.(string)
		if !ok {
			return nil, errors.New("parts must be strings")
		}
		out = append(out, datasource.Record{"gadget": rec["name"], "name": name})
	}
	return out, nil
}

func (partStrategy) Identify(rec datasource.Record) (string, error) {
	return fmt.Sprintf("part:%v:%v", rec["gadget"], rec["name"]), nil
}

func (partStrategy) Project(ctx context.Context, rec datasource.Record, p *Part, idx *importer.Index) error {
	if _, err := importer.Resolve[*Gadget](ctx, idx, typeGadget, fmt.Sprintf("gadget:%v", rec["gadget"])); err != nil {
		return err
	}
	p.Gadget = fmt.Sprint(rec["gadget"])
	p.Name = fmt.Sprint(rec["name"])
	return nil
}

// memRepo keeps entities in memory. Reads return copies so unsaved changes never leak
// into the store.
type memRepo[E importer.Entity] struct {
	rows    map[uuid.UUID]E
	clone   func(E) E
	saves   int
	deletes int
	saveErr error
}

func newMemRepo[E importer.Entity](clone func(E) E) *memRepo[E] {
	return &memRepo[E]{rows: make(map[uuid.UUID]E), clone: clone}
}

func (r *memRepo[E]) FindByUUID(_ context.Context, id uuid.UUID) (E, error) {
	e, ok := r.rows[id]
	if !ok {
		var zero E
		return zero, importer.ErrNotFound
	}
	return r.clone(e), nil
}

func (r *memRepo[E]) ListAll(context.Context) ([]E, error) {
	out := make([]E, 0, len(r.rows))
	for _, e := range r.rows {
		out = append(out, r.clone(e))
	}
	slices.SortFunc(out, func(a, b E) int {
		return bytes.Compare(a.Meta().UUID[:], b.Meta().UUID[:])
	})
	return out, nil
}

func (r *memRepo[E]) Save(_ context.Context, e E) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.rows[e.Meta().UUID] = r.clone(e)
	return nil
}

func (r *memRepo[E]) Delete(_ context.Context, e E) error {
	r.deletes++
	delete(r.rows, e.Meta().UUID)
	return nil
}

func (r *memRepo[E]) put(e E) {
	r.rows[e.Meta().UUID] = e
}

func cloneMaker(m *Maker) *Maker    { c := *m; return &c }
func cloneGadget(g *Gadget) *Gadget { c := *g; return &c }
func clonePart(p *Part) *Part       { c := *p; return &c }

func storedMaker(name string) *Maker {
	return &Maker{Base: importer.Base{UUID: importer.StableID(name)}, Name: name}
}

func storedGadget(name string, maker string) *Gadget {
	return &Gadget{
		Base:      importer.Base{UUID: importer.StableID("gadget:" + name)},
		Name:      name,
		MakerUUID: importer.StableID(maker),
	}
}

func set(sources ...datasource.DataSource) *datasource.Set {
	return &datasource.Set{Sources: sources}
}

func source(name string, records ...datasource.Record) datasource.DataSource {
	return datasource.DataSource{Name: name, Origin: name + ".yaml", Payload: records}
}

func names(records ...string) []datasource.Record {
	out := make([]datasource.Record, len(records))
	for i, n := range records {
		out[i] = datasource.Record{"name": n}
	}
	return out
}
