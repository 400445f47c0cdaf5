package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Set(1, Draft{OrderID: "o-1", OrderNumber: "A-1"})
	d, ok := store.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "A-1", d.OrderNumber)
	assert.False(t, d.HasWorkType())

	// a new order selection overwrites the previous draft
	store.Set(1, Draft{OrderID: "o-2", OrderNumber: "A-2"})
	d, _ = store.Get(1)
	assert.Equal(t, "o-2", d.OrderID)

	_, ok = store.Get(2)
	assert.False(t, ok, "drafts are per user")

	store.Delete(1)
	_, ok = store.Get(1)
	assert.False(t, ok)

	store.Delete(1)
}
