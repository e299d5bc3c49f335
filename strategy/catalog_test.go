package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutormesh/tutormesh/internal/testutil"
)

func TestNewCatalog(t *testing.T) {
	a := testutil.NewStrategyBuilder("a").Feedback("hi").Build()
	b := testutil.NewStrategyBuilder("b").Feedback("ho").Build()

	catalog, err := NewCatalog(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	got, ok := catalog.Lookup("a")
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = catalog.Lookup("c")
	assert.False(t, ok)
}

func TestNewCatalog_RejectsDuplicates(t *testing.T) {
	a1 := testutil.NewStrategyBuilder("a").Build()
	a2 := testutil.NewStrategyBuilder("a").Build()

	_, err := NewCatalog(a1, a2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate strategy name")
}

func TestNewCatalog_RejectsEmptyName(t *testing.T) {
	_, err := NewCatalog(testutil.NewStrategyBuilder("").Build())
	require.Error(t, err)
}

func TestCatalog_NilSafe(t *testing.T) {
	var c *Catalog
	_, ok := c.Lookup("a")
	assert.False(t, ok)
	assert.Nil(t, c.Strategies())
	assert.Equal(t, 0, c.Len())
}
