package importer_test

import (
	"context"
	"errors"
	"testing"

	"gyrinx-content/core/datasource"
	"gyrinx-content/core/importer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStableID(t *testing.T) {
	t.Run("Golden", func(t *testing.T) {
		assert.Equal(t, "b384d140-08fb-3c86-f61f-76b6c5d01f33", importer.StableID("House of Chains").String())
		assert.Equal(t, "5158a250-e30f-1fb4-415d-86ded2c8e0c5", importer.StableID("Leader").String())
		assert.Equal(t, "56ca0f19-bea8-6116-c991-9a6cc5509b14", importer.StableID("Basic Weapons:Lasgun").String())
	})

	t.Run("Deterministic", func(t *testing.T) {
		for _, key := range []string{"", "a", "House of Chains", "fighter:House of Chains:Leader"} {
			assert.Equal(t, importer.StableID(key), importer.StableID(key))
		}
	})

	t.Run("DistinctKeys", func(t *testing.T) {
		assert.NotEqual(t, importer.StableID("Leader"), importer.StableID("category:Leader"))
		assert.NotEqual(t, importer.StableID("House of Chains"), importer.StableID("house of chains"))
	})
}

func newMakerImporter(repo *memRepo[*Maker]) *importer.Importer[*Maker] {
	return importer.New[*Maker](makerStrategy{}, repo, zap.NewNop())
}

func TestImporter_BasicImport(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(cloneMaker)
	runID := uuid.New()

	res, err := newMakerImporter(repo).Run(ctx, set(source("maker", names("House of Chains")...)), importer.NewIndex(), importer.Options{RunID: runID})
	require.NoError(t, err)

	require.Len(t, repo.rows, 1)
	stored := repo.rows[importer.StableID("House of Chains")]
	require.NotNil(t, stored)
	assert.Equal(t, "House of Chains", stored.Name)
	assert.Equal(t, runID, stored.VersionID)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, importer.ActionCreated, res.Records[0].Action)
	assert.False(t, res.Records[0].Existing)
	assert.Equal(t, "House of Chains", res.Records[0].Key)
}

func TestImporter_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(cloneMaker)
	im := newMakerImporter(repo)
	data := set(source("maker", names("A", "B", "C")...))

	_, err := im.Run(ctx, data, importer.NewIndex(), importer.Options{RunID: uuid.New()})
	require.NoError(t, err)
	first := map[uuid.UUID]string{}
	for id, m := range repo.rows {
		first[id] = m.Name
	}

	second := uuid.New()
	res, err := im.Run(ctx, data, importer.NewIndex(), importer.Options{RunID: second})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Updated)
	require.Len(t, repo.rows, 3)
	for id, m := range repo.rows {
		assert.Equal(t, first[id], m.Name)
		assert.Equal(t, second, m.VersionID)
	}
}

func TestImporter_ShrinkRejected(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(cloneMaker)
	for _, n := range []string{"A", "B", "C"} {
		repo.put(storedMaker(n))
	}

	_, err := newMakerImporter(repo).Run(ctx, set(source("maker", names("A", "B")...)), importer.NewIndex(), importer.Options{RunID: uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrRemovalNotAllowed)
	assert.Contains(t, err.Error(), "something was removed")

	var mismatch *importer.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, typeMaker, mismatch.Type)
	assert.Equal(t, 3, mismatch.Existing)
	assert.Equal(t, 2, mismatch.Incoming)

	assert.Len(t, repo.rows, 3)
	assert.Zero(t, repo.saves)
	assert.Zero(t, repo.deletes)
}

func TestImporter_ShrinkAccepted(t *testing.T) {
	ctx := context.Background()
	makers := newMemRepo(cloneMaker)
	makers.put(storedMaker("Acme"))
	gadgets := newMemRepo(cloneGadget)
	for _, n := range []string{"A", "B", "C"} {
		gadgets.put(storedGadget(n, "Acme"))
	}

	idx := importer.NewIndex()
	idx.Register(typeMaker, importer.New[*Maker](makerStrategy{}, makers, zap.NewNop()).Find)
	im := importer.New[*Gadget](gadgetStrategy{removal: true}, gadgets, zap.NewNop())

	res, err := im.Run(ctx, set(source("gadget",
		datasource.Record{"name": "A", "maker": "Acme"},
		datasource.Record{"name": "C", "maker": "Acme"},
	)), idx, importer.Options{RunID: uuid.New()})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, 2, res.Updated)
	require.Len(t, gadgets.rows, 2)
	assert.Contains(t, gadgets.rows, importer.StableID("gadget:A"))
	assert.Contains(t, gadgets.rows, importer.StableID("gadget:C"))
	assert.NotContains(t, gadgets.rows, importer.StableID("gadget:B"))

	_, err = importer.Resolve[*Gadget](ctx, idx, typeGadget, "gadget:B")
	assert.ErrorIs(t, err, importer.ErrUnresolvedReference)
}

func TestImporter_RenameRejected(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(cloneMaker)
	for _, n := range []string{"A", "B", "C"} {
		repo.put(storedMaker(n))
	}

	_, err := newMakerImporter(repo).Run(ctx, set(source("maker", names("A", "B", "Cee")...)), importer.NewIndex(), importer.Options{RunID: uuid.New()})
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrIdentityChanged)
	assert.NotErrorIs(t, err, importer.ErrRemovalNotAllowed)
	assert.Contains(t, err.Error(), "was a name changed")

	var mismatch *importer.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []uuid.UUID{importer.StableID("C")}, mismatch.Missing)

	assert.Len(t, repo.rows, 3)
	assert.Equal(t, "C", repo.rows[importer.StableID("C")].Name)
	assert.Zero(t, repo.saves)
}

func TestImporter_GrowthAllowed(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(cloneMaker)
	repo.put(storedMaker("A"))

	res, err := newMakerImporter(repo).Run(ctx, set(source("maker", names("A", "B")...)), importer.NewIndex(), importer.Options{RunID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Len(t, repo.rows, 2)
}

func TestImporter_EqualCountChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("RenamePlusRemovalAndAdditionIsARename", func(t *testing.T) {
		repo := newMemRepo(cloneMaker)
		for _, n := range []string{"A", "B", "C"} {
			repo.put(storedMaker(n))
		}

		_, err := newMakerImporter(repo).Run(ctx, set(source("maker", names("A", "Bee", "D")...)), importer.NewIndex(), importer.Options{RunID: uuid.New()})
		assert.ErrorIs(t, err, importer.ErrIdentityChanged)

		var mismatch *importer.MismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.ElementsMatch(t, []uuid.UUID{importer.StableID("B"), importer.StableID("C")}, mismatch.Missing)
		assert.Zero(t, repo.saves)
	})

	t.Run("RenameWithNetGrowthPasses", func(t *testing.T) {
		repo := newMemRepo(cloneMaker)
		repo.put(storedMaker("A"))
		repo.put(storedMaker("B"))

		res, err := newMakerImporter(repo).Run(ctx, set(source("maker", names("A", "Bee", "Z")...)), importer.NewIndex(), importer.Options{RunID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Created)
		assert.Len(t, repo.rows, 4)
		assert.Contains(t, repo.rows, importer.StableID("B"))
	})
}

func TestImporter_RenameWithRemoval(t *testing.T) {
	ctx := context.Background()
	makers := newMemRepo(cloneMaker)
	makers.put(storedMaker("Acme"))
	gadgets := newMemRepo(cloneGadget)
	gadgets.put(storedGadget("Old", "Acme"))

	idx := importer.NewIndex()
	idx.Register(typeMaker, importer.New[*Maker](makerStrategy{}, makers, zap.NewNop()).Find)

	res, err := importer.New[*Gadget](gadgetStrategy{removal: true}, gadgets, zap.NewNop()).
		Run(ctx, set(source("gadget", datasource.Record{"name": "New", "maker": "Acme"})), idx, importer.Options{RunID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Removed)
	require.Len(t, gadgets.rows, 1)
	assert.Equal(t, "New", gadgets.rows[importer.StableID("gadget:New")].Name)
}

func TestImporter_CrossReference(t *testing.T) {
	ctx := context.Background()

	t.Run("ResolvedInRun", func(t *testing.T) {
		makers := newMemRepo(cloneMaker)
		gadgets := newMemRepo(cloneGadget)
		idx := importer.NewIndex()
		data := set(
			source("maker", names("Acme")...),
			source("gadget", datasource.Record{"name": "Rocket", "maker": "Acme"}),
		)

		_, err := newMakerImporter(makers).Run(ctx, data, idx, importer.Options{DryRun: true})
		require.NoError(t, err)
		_, err = importer.New[*Gadget](gadgetStrategy{}, gadgets, zap.NewNop()).Run(ctx, data, idx, importer.Options{DryRun: true})
		require.NoError(t, err)

		assert.Equal(t, 1, idx.Len(typeGadget))
		g, err := importer.Resolve[*Gadget](ctx, idx, typeGadget, "gadget:Rocket")
		require.NoError(t, err)
		assert.Equal(t, importer.StableID("Acme"), g.MakerUUID)
	})

	t.Run("ResolvedFromStore", func(t *testing.T) {
		makers := newMemRepo(cloneMaker)
		makers.put(storedMaker("Acme"))
		gadgets := newMemRepo(cloneGadget)

		idx := importer.NewIndex()
		idx.Register(typeMaker, newMakerImporter(makers).Find)

		_, err := importer.New[*Gadget](gadgetStrategy{}, gadgets, zap.NewNop()).
			Run(ctx, set(source("gadget", datasource.Record{"name": "Rocket", "maker": "Acme"})), idx, importer.Options{})
		require.NoError(t, err)
		assert.Equal(t, 1, idx.Len(typeMaker))
		assert.Equal(t, importer.StableID("Acme"), gadgets.rows[importer.StableID("gadget:Rocket")].MakerUUID)
	})

	t.Run("Missing", func(t *testing.T) {
		makers := newMemRepo(cloneMaker)
		gadgets := newMemRepo(cloneGadget)
		idx := importer.NewIndex()
		idx.Register(typeMaker, newMakerImporter(makers).Find)

		_, err := importer.New[*Gadget](gadgetStrategy{}, gadgets, zap.NewNop()).
			Run(ctx, set(source("gadget",
				datasource.Record{"name": "Rocket", "maker": "Nobody"},
			)), idx, importer.Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, importer.ErrUnresolvedReference)
		assert.Contains(t, err.Error(), `unknown maker "Nobody"`)

		var ref *importer.ReferenceError
		require.True(t, errors.As(err, &ref))
		assert.Equal(t, "Nobody", ref.Key)
		assert.Empty(t, gadgets.rows)
	})

	t.Run("NothingSavedWhenALaterRecordFails", func(t *testing.T) {
		makers := newMemRepo(cloneMaker)
		makers.put(storedMaker("Acme"))
		gadgets := newMemRepo(cloneGadget)
		idx := importer.NewIndex()
		idx.Register(typeMaker, newMakerImporter(makers).Find)

		_, err := importer.New[*Gadget](gadgetStrategy{}, gadgets, zap.NewNop()).
			Run(ctx, set(source("gadget",
				datasource.Record{"name": "Rocket", "maker": "Acme"},
				datasource.Record{"name": "Saw", "maker": "Nobody"},
			)), idx, importer.Options{})
		require.Error(t, err)
		assert.Zero(t, gadgets.saves)
	})
}

func TestImporter_DryRun(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo(cloneMaker)
	repo.put(storedMaker("A"))
	im := newMakerImporter(repo)
	data := set(source("maker", names("A", "B")...))

	var results []*importer.Result
	for range 2 {
		res, err := im.Run(ctx, data, importer.NewIndex(), importer.Options{DryRun: true, RunID: uuid.New()})
		require.NoError(t, err)
		results = append(results, res)
	}

	assert.Len(t, repo.rows, 1)
	assert.Zero(t, repo.saves)
	assert.Equal(t, uuid.Nil, repo.rows[importer.StableID("A")].VersionID)
	assert.Equal(t, results[0].Records, results[1].Records)
	assert.Equal(t, 1, results[0].Created)
	assert.Equal(t, 1, results[0].Updated)

	repo.put(storedMaker("C"))
	_, err := im.Run(ctx, data, importer.NewIndex(), importer.Options{DryRun: true})
	assert.ErrorIs(t, err, importer.ErrIdentityChanged)
}

func TestImporter_DryRunRemoval(t *testing.T) {
	ctx := context.Background()
	parts := newMemRepo(clonePart)
	stale := &Part{Base: importer.Base{UUID: importer.StableID("part:Rocket:Fin")}, Gadget: "Rocket", Name: "Fin"}
	parts.put(stale)

	res, err := importer.New[*Part](partStrategy{}, parts, zap.NewNop()).
		Run(ctx, set(), importer.NewIndex(), importer.Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)
	assert.Len(t, parts.rows, 1)
	assert.Zero(t, parts.deletes)
}

func TestImporter_DuplicateIdentity(t *testing.T) {
	ctx := context.Background()
	makers := newMemRepo(cloneMaker)
	makers.put(storedMaker("Acme"))
	makers.put(storedMaker("Bolt"))
	gadgets := newMemRepo(cloneGadget)
	idx := importer.NewIndex()
	idx.Register(typeMaker, newMakerImporter(makers).Find)

	res, err := importer.New[*Gadget](gadgetStrategy{}, gadgets, zap.NewNop()).
		Run(ctx, set(source("gadget",
			datasource.Record{"name": "Rocket", "maker": "Acme"},
			datasource.Record{"name": "Rocket", "maker": "Bolt"},
		)), idx, importer.Options{})
	require.NoError(t, err)

	require.Len(t, gadgets.rows, 1)
	assert.Equal(t, importer.StableID("Bolt"), gadgets.rows[importer.StableID("gadget:Rocket")].MakerUUID)
	assert.Len(t, res.Records, 1)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "duplicate gadget")
}

func TestImporter_Expander(t *testing.T) {
	ctx := context.Background()
	makers := newMemRepo(cloneMaker)
	gadgets := newMemRepo(cloneGadget)
	parts := newMemRepo(clonePart)
	parts.put(&Part{Base: importer.Base{UUID: importer.StableID("part:Rocket:Fin")}, Gadget: "Rocket", Name: "Fin"})

	data := set(
		source("maker", names("Acme")...),
		source("gadget", datasource.Record{"name": "Rocket", "maker": "Acme", "parts": []any{"Nose", "Engine"}}),
	)
	idx := importer.NewIndex()
	opts := importer.Options{RunID: uuid.New()}

	_, err := newMakerImporter(makers).Run(ctx, data, idx, opts)
	require.NoError(t, err)
	_, err = importer.New[*Gadget](gadgetStrategy{}, gadgets, zap.NewNop()).Run(ctx, data, idx, opts)
	require.NoError(t, err)

	partImporter := importer.New[*Part](partStrategy{}, parts, zap.NewNop())
	records, err := partImporter.Records(data)
	require.NoError(t, err)
	assert.Equal(t, []datasource.Record{
		{"gadget": "Rocket", "name": "Nose"},
		{"gadget": "Rocket", "name": "Engine"},
	}, records)

	res, err := partImporter.Run(ctx, data, idx, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Removed)
	assert.Len(t, parts.rows, 2)

	bad := set(source("gadget", datasource.Record{"name": "Rocket", "parts": []any{1}}))
	_, err = partImporter.Records(bad)
	assert.ErrorContains(t, err, "gadget record 1: parts must be strings")
}

func TestImporter_InvalidRecord(t *testing.T) {
	repo := newMemRepo(cloneMaker)
	_, err := newMakerImporter(repo).Run(context.Background(),
		set(source("maker", datasource.Record{"title": "no name"})), importer.NewIndex(), importer.Options{})
	assert.ErrorContains(t, err, "maker record 1")
	assert.Empty(t, repo.rows)
}

func TestImporter_SaveError(t *testing.T) {
	repo := newMemRepo(cloneMaker)
	repo.saveErr = errors.New("disk full")

	res, err := newMakerImporter(repo).Run(context.Background(),
		set(source("maker", names("A")...)), importer.NewIndex(), importer.Options{})
	assert.ErrorContains(t, err, `failed to save maker "A": disk full`)
	assert.Empty(t, res.Records)
}
