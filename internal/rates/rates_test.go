package rates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_RateOf(t *testing.T) {
	table := Default()

	assert.Equal(t, 5000.0, table.RateOf("Loyiha"))
	assert.Equal(t, 1000.0, table.RateOf("Teshib berish"))
	assert.Equal(t, 0.0, table.RateOf("Polishing"), "unknown work types are valueless")
	assert.Equal(t, 0.0, table.RateOf(""))
	assert.False(t, table.Has("Polishing"))
	assert.True(t, table.Has("Kromka"))
}

func TestTable_WorkTypesStableOrder(t *testing.T) {
	table := Default()

	expected := []string{"Loyiha", "Kesish", "Kromka", "Teshib berish", "Sborka", "Ustanovka"}
	assert.Equal(t, expected, table.WorkTypes())
	assert.Equal(t, expected, table.WorkTypes(), "repeated calls return identical results")

	types := table.WorkTypes()
	types[0] = "mutated"
	assert.Equal(t, "Loyiha", table.WorkTypes()[0], "callers cannot mutate the table")
}

func TestNewTable_Duplicates(t *testing.T) {
	table := NewTable([]Rate{
		{WorkType: "A", Price: 1},
		{WorkType: "B", Price: 2},
		{WorkType: "A", Price: 3},
	})

	assert.Equal(t, []string{"A", "B"}, table.WorkTypes())
	assert.Equal(t, 3.0, table.RateOf("A"))
}
