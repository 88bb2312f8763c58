package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/gw2-planner/internal/domain/catalog"
)

const sampleCatalog = `
Copper Ore:
  post_id: 19697
  vendor: null
  recipes: []
Tin Ore:
  post_id: 19698
Bronze Ingot:
  post_id: 19702
  vendor: null
  recipes:
    - Copper Ore: 2
      Tin Ore: 1
Spool of Jute Thread:
  vendor: 8
`

func TestParseDescriptions(t *testing.T) {
	// Act
	store, err := catalog.ParseDescriptions(strings.NewReader(sampleCatalog))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, store.Len())

	copper, ok := store.Get("Copper Ore")
	require.True(t, ok)
	require.NotNil(t, copper.PostID)
	assert.Equal(t, uint32(19697), *copper.PostID)
	assert.Nil(t, copper.Vendor)
	assert.False(t, copper.Craftable())

	ingot, ok := store.Get("Bronze Ingot")
	require.True(t, ok)
	require.Len(t, ingot.Recipes, 1)
	assert.Equal(t, catalog.Recipe{"Copper Ore": 2, "Tin Ore": 1}, ingot.Recipes[0])

	thread, ok := store.Get("Spool of Jute Thread")
	require.True(t, ok)
	price, hasVendor := thread.VendorPrice()
	require.True(t, hasVendor)
	assert.Equal(t, uint32(8), price)
	assert.False(t, thread.OnTradingPost())
}

func TestParseDescriptions_AbsentAndNullAreEquivalent(t *testing.T) {
	doc := `
A:
  post_id: null
  vendor: null
  recipes: null
B: {}
`
	store, err := catalog.ParseDescriptions(strings.NewReader(doc))
	require.NoError(t, err)

	for _, name := range []string{"A", "B"} {
		desc, ok := store.Get(name)
		require.True(t, ok, name)
		assert.Nil(t, desc.PostID, name)
		assert.Nil(t, desc.Vendor, name)
		assert.Empty(t, desc.Recipes, name)
	}
}

func TestParseDescriptions_IgnoresUnknownKeys(t *testing.T) {
	doc := `
A:
  post_id: 7
  rarity: exotic
  notes: [from, the, wiki]
`
	store, err := catalog.ParseDescriptions(strings.NewReader(doc))
	require.NoError(t, err)

	desc, ok := store.Get("A")
	require.True(t, ok)
	require.NotNil(t, desc.PostID)
	assert.Equal(t, uint32(7), *desc.PostID)
}

func TestParseDescriptions_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"post_id is a string", "A:\n  post_id: cheap\n"},
		{"vendor is a sequence", "A:\n  vendor: [1]\n"},
		{"recipes is a scalar", "A:\n  recipes: 3\n"},
		{"negative vendor", "A:\n  vendor: -1\n"},
		{"post_id too large", "A:\n  post_id: 4294967296\n"},
		{"zero recipe quantity", "A:\n  recipes:\n    - B: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.ParseDescriptions(strings.NewReader(tt.doc))

			require.Error(t, err)
			var schemaErr *catalog.SchemaError
			assert.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, "A", schemaErr.Item)
		})
	}
}

func TestParseDescriptions_NotAMapping(t *testing.T) {
	_, err := catalog.ParseDescriptions(strings.NewReader("- just\n- a\n- list\n"))

	require.Error(t, err)
}

func TestCheckCycles(t *testing.T) {
	t.Run("acyclic catalog passes", func(t *testing.T) {
		store, err := catalog.ParseDescriptions(strings.NewReader(sampleCatalog))
		require.NoError(t, err)

		assert.NoError(t, store.CheckCycles())
	})

	t.Run("self-referential recipe is rejected", func(t *testing.T) {
		doc := `
A:
  recipes:
    - A: 1
`
		store, err := catalog.ParseDescriptions(strings.NewReader(doc))
		require.NoError(t, err)

		err = store.CheckCycles()
		require.Error(t, err)
		var cycleErr *catalog.RecipeCycleError
		assert.ErrorAs(t, err, &cycleErr)
	})

	t.Run("longer cycle is rejected", func(t *testing.T) {
		doc := `
A:
  recipes:
    - B: 1
B:
  recipes:
    - C: 2
C:
  recipes:
    - A: 3
`
		store, err := catalog.ParseDescriptions(strings.NewReader(doc))
		require.NoError(t, err)

		err = store.CheckCycles()
		require.Error(t, err)
		var cycleErr *catalog.RecipeCycleError
		require.ErrorAs(t, err, &cycleErr)
		assert.GreaterOrEqual(t, len(cycleErr.Chain), 4)
	})

	t.Run("inputs missing from the catalog are not followed", func(t *testing.T) {
		doc := `
A:
  recipes:
    - Unknown Input: 1
`
		store, err := catalog.ParseDescriptions(strings.NewReader(doc))
		require.NoError(t, err)

		assert.NoError(t, store.CheckCycles())
	})
}

func TestParseTargets(t *testing.T) {
	targets, err := catalog.ParseTargets(strings.NewReader("- Bronze Ingot\n- Copper Ore\n"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Bronze Ingot", "Copper Ore"}, targets)
}

func TestParseTargets_NotASequence(t *testing.T) {
	_, err := catalog.ParseTargets(strings.NewReader("Bronze Ingot: 2\n"))

	require.Error(t, err)
}

func TestStoreNames_Sorted(t *testing.T) {
	store, err := catalog.ParseDescriptions(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, []string{"Bronze Ingot", "Copper Ore", "Spool of Jute Thread", "Tin Ore"}, store.Names())
}
