package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameTable_SetGet(t *testing.T) {
	table := NewNameTable(nil)
	table.Set(7, "Guild")

	assert.Equal(t, "Guild", table.Get(7))
	assert.Equal(t, 1, table.Len())
}

func TestNameTable_MissReturnsPlaceholder(t *testing.T) {
	var reported []string
	table := NewNameTable(func(msg string) { reported = append(reported, msg) })

	assert.NotPanics(t, func() {
		assert.Equal(t, "default[404]", table.Get(404))
	})
	assert.Len(t, reported, 1)
	assert.Contains(t, reported[0], "404")
}

func TestNameTable_Reset(t *testing.T) {
	table := NewNameTable(func(string) {})
	table.Set(1, "A")
	table.Set(2, "B")
	table.Reset()

	assert.Equal(t, 0, table.Len())
	assert.Equal(t, "default[1]", table.Get(1))
}
