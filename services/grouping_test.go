package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/menu-admin/models"
)

func ids(dishes []models.Dish) []models.DishID {
	out := make([]models.DishID, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, d.ID)
	}
	return out
}

func TestGroupByCategory(t *testing.T) {
	catalog := []models.Dish{
		{ID: "1", Category: "Hải sản"},
		{ID: "2", Category: "Món chay"},
		{ID: "3", Category: "Hải sản"},
	}

	groups := GroupByCategory(catalog)

	require.Equal(t, 2, groups.Len())
	assert.Equal(t, []string{"Hải sản", "Món chay"}, groups.Categories())

	seafood, ok := groups.Lookup("Hải sản")
	require.True(t, ok)
	assert.Equal(t, []models.DishID{"1", "3"}, ids(seafood))

	veg, ok := groups.Lookup("Món chay")
	require.True(t, ok)
	assert.Equal(t, []models.DishID{"2"}, ids(veg))

	_, ok = groups.Lookup("Món nướng")
	assert.False(t, ok)
}

func TestGroupByCategoryProperties(t *testing.T) {
	catalog := []models.Dish{
		{ID: "a", Category: "Món nướng"},
		{ID: "b", Category: ""},
		{ID: "c", Category: "Hải sản"},
		{ID: "d", Category: "Món nướng"},
		{ID: "e", Category: ""},
	}

	first := GroupByCategory(catalog)
	second := GroupByCategory(catalog)
	assert.Equal(t, first, second, "grouping must be idempotent")

	assert.Equal(t, []string{"Món nướng", "", "Hải sản"}, first.Categories())

	total := 0
	for _, g := range first {
		for _, d := range g.Dishes {
			assert.Equal(t, g.Category, d.Category)
		}
		total += len(g.Dishes)
	}
	assert.Equal(t, len(catalog), total)
}

func TestGroupByCategoryEmpty(t *testing.T) {
	groups := GroupByCategory(nil)
	assert.Equal(t, 0, groups.Len())
	assert.Empty(t, groups.Categories())
}
