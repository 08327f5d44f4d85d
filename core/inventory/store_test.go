package inventory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "db", "catalog.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := core.NewRecord(core.FormatWIX)
	rec.SKU = "WL7476"
	rec.Name = "Filtro de aceite WL7476"
	rec.VATID = "PL7770002573"
	rec.Specs = []core.Spec{{Label: "A", MeasureType: core.MeasureMM, Value: "76"}}
	rec.Equivalences = []core.Equivalence{{Brand: "BMW", Code: "11427953125", IsOriginal: true}}

	result, err := store.BulkCreate(ctx, []core.ProductRecord{*rec})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	stored, err := store.Products(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, *rec, stored[0])
}

func TestStoreRollsBackOnDuplicate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records := testRecords()
	dup := records[0]
	records = append(records, dup)

	result, err := store.BulkCreate(ctx, records)
	assert.ErrorIs(t, err, errRolledBack)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Index)
	assert.Equal(t, "WL7476", result.Errors[0].SKU)

	stored, err := store.Products(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestStoreSameSKUDifferentBrand(t *testing.T) {
	store := openTestStore(t)

	a := core.NewRecord(core.FormatWIX)
	a.SKU = "X1"
	b := core.NewRecord(core.FormatAzumi)
	b.SKU = "X1"

	_, err := store.BulkCreate(context.Background(), []core.ProductRecord{*a, *b})
	require.NoError(t, err)
}
