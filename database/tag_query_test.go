package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagQuery_Search(t *testing.T) {
	assert.Empty(t, newTagQuery().Search("   ").predicates)

	q := newTagQuery().Search(`50%_off\`)
	if assert.Len(t, q.predicates, 1) {
		assert.Equal(t, []any{`%50\%\_off\\%`, `%50\%\_off\\%`}, q.predicates[0].vars)
	}
}

func TestTagQuery_Sort(t *testing.T) {
	q := newTagQuery().Sort("DisplayName", "DESC").Sort("unknown", "asc").Sort("name", "")
	if assert.Len(t, q.orderBy, 2) {
		assert.Equal(t, "display_name", q.orderBy[0].Column.Name)
		assert.True(t, q.orderBy[0].Desc)
		assert.Equal(t, "name", q.orderBy[1].Column.Name)
		assert.False(t, q.orderBy[1].Desc)
	}
}

func TestTagQuery_Page(t *testing.T) {
	q := newTagQuery().Page(3, 4)
	assert.True(t, q.windowed)
	assert.Equal(t, 8, q.offset)
	assert.Equal(t, 4, q.limit)

	assert.False(t, newTagQuery().windowed)
}
