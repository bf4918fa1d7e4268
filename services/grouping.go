package services

import "github.com/yeremiapane/menu-admin/models"

// CategoryGroups is an ordered category -> dishes mapping. Categories keep
// the order they were first seen in, dishes keep source order.
type CategoryGroups []models.CategoryGroup

func GroupByCategory(dishes []models.Dish) CategoryGroups {
	groups := CategoryGroups{}
	index := make(map[string]int)

	for _, d := range dishes {
		i, ok := index[d.Category]
		if !ok {
			i = len(groups)
			index[d.Category] = i
			groups = append(groups, models.CategoryGroup{Category: d.Category})
		}
		groups[i].Dishes = append(groups[i].Dishes, d)
	}
	return groups
}

func (g CategoryGroups) Lookup(category string) ([]models.Dish, bool) {
	for _, group := range g {
		if group.Category == category {
			return group.Dishes, true
		}
	}
	return nil, false
}

func (g CategoryGroups) Len() int { return len(g) }

func (g CategoryGroups) Categories() []string {
	out := make([]string, 0, len(g))
	for _, group := range g {
		out = append(out, group.Category)
	}
	return out
}
