package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemTexts(items []ChecklistItem) []string {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text
	}
	return texts
}

func TestAddItem(t *testing.T) {
	s, path := newTestStore(t)
	_, err := s.Create("parent", "", "", nil)
	require.NoError(t, err)

	for i, text := range []string{"one", "two"} {
		item, err := s.AddItem(0, text)
		require.NoError(t, err)
		assert.Equal(t, text, item.Text)
		assert.False(t, item.Done)
		require.NotNil(t, item.Order)
		assert.Equal(t, i, *item.Order)
	}

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = s.AddItem(0, "   ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.AddItem(4, "orphan")
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	tasks, err := s.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, itemTexts(tasks[0].Checklist))
}

func TestUpdateItemField(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Create("parent", "", "", nil)
	require.NoError(t, err)
	_, err = s.AddItem(0, "draft")
	require.NoError(t, err)

	require.NoError(t, s.UpdateItemField(0, 0, ItemText, "final"))
	require.NoError(t, s.UpdateItemField(0, 0, ItemDone, true))

	tasks, err := s.LoadAll()
	require.NoError(t, err)
	item := tasks[0].Checklist[0]
	assert.Equal(t, "final", item.Text)
	assert.True(t, item.Done)
	assert.Equal(t, 1, tasks[0].DoneCount())

	assert.ErrorIs(t, s.UpdateItemField(0, 1, ItemDone, true), ErrNotFound)
	assert.ErrorIs(t, s.UpdateItemField(1, 0, ItemDone, true), ErrNotFound)
	assert.ErrorIs(t, s.UpdateItemField(0, 0, ItemText, ""), ErrValidation)
	assert.ErrorIs(t, s.UpdateItemField(0, 0, ItemField("item"), "x"), ErrValidation)
}

func TestDeleteItem(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Create("parent", "", "", nil)
	require.NoError(t, err)
	for _, text := range []string{"a", "b", "c"} {
		_, err := s.AddItem(0, text)
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteItem(0, 0))
	assert.ErrorIs(t, s.DeleteItem(0, 2), ErrNotFound)

	tasks, err := s.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, itemTexts(tasks[0].Checklist))
}

func TestReorderAfterOrderUpdate(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Create("parent", "", "", nil)
	require.NoError(t, err)
	for _, text := range []string{"a", "b", "c", "d"} {
		_, err := s.AddItem(0, text)
		require.NoError(t, err)
	}

	// move d to the front, tie c with b
	require.NoError(t, s.UpdateItemField(0, 3, ItemOrder, -1))
	require.NoError(t, s.UpdateItemField(0, 2, ItemOrder, 1))
	require.NoError(t, s.Reorder(0))

	tasks, err := s.LoadAll()
	require.NoError(t, err)
	checklist := tasks[0].Checklist
	assert.Equal(t, []string{"d", "a", "b", "c"}, itemTexts(checklist))
	for i := 1; i < len(checklist); i++ {
		assert.LessOrEqual(t, *checklist[i-1].Order, *checklist[i].Order)
	}

	assert.ErrorIs(t, s.Reorder(5), ErrNotFound)
}

func TestSortItemsMissingOrder(t *testing.T) {
	items := []ChecklistItem{
		{Text: "x", Order: intPtr(5)},
		{Text: "y"},
		{Text: "z", Order: intPtr(0)},
	}
	// y defaults to its position 1
	assert.Equal(t, []string{"z", "y", "x"}, itemTexts(sortItems(items)))
}
