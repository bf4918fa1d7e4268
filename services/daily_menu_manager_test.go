package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/menu-admin/models"
	"github.com/yeremiapane/menu-admin/testutil"
)

func newDailyFixture(t *testing.T) (*testutil.FakeBackend, *DailyMenuManager) {
	fb := testutil.NewFakeBackend(t)
	fb.Seed(t,
		models.DishInput{Name: "Cua rang me", Description: "Cua sốt me", Price: 300000, Category: models.CategorySeafood},
		models.DishInput{Name: "Nấm xào", Description: "Nấm đông cô xào", Price: 50000, Category: models.CategoryVegetarian},
		models.DishInput{Name: "Nghêu hấp", Description: "Nghêu hấp sả", Price: 90000, Category: models.CategorySeafood},
		models.DishInput{Name: "Gà nướng", Description: "Gà nướng lá chanh", Price: 160000, Category: models.CategoryGrilled},
	)
	fb.SeedToday(t, "2")
	return fb, NewDailyMenuManager(NewMenuClient(fb.URL(), 5*time.Second))
}

func TestDailyMenuManager_Load(t *testing.T) {
	_, m := newDailyFixture(t)
	require.NoError(t, m.EnsureLoaded(context.Background()))

	view := m.View()
	assert.Equal(t, models.LoadLoaded, view.Status)
	assert.Equal(t, []models.DishID{"2"}, ids(view.Today))
	assert.Equal(t, []models.DishID{"1", "3", "4"}, ids(view.Available))

	require.Len(t, view.Groups, 3)
	assert.Equal(t, models.CategorySeafood, view.Groups[0].Category)
	assert.Equal(t, models.CategoryVegetarian, view.Groups[1].Category)
	assert.Equal(t, models.CategoryGrilled, view.Groups[2].Category)
	assert.True(t, view.Groups[1].Items[0].OnMenu)
	assert.False(t, view.Groups[0].Items[0].OnMenu)

	groups := m.Groups()
	seafood, ok := groups.Lookup(models.CategorySeafood)
	require.True(t, ok)
	assert.Equal(t, []models.DishID{"1", "3"}, ids(seafood))
}

func TestDailyMenuManager_LoadPartialFailure(t *testing.T) {
	fb, m := newDailyFixture(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	fb.Fail("/api/getDishToday", http.StatusInternalServerError, "boom")
	err := m.Load(ctx)
	require.Error(t, err)

	view := m.View()
	assert.Equal(t, models.LoadFailed, view.Status)
	assert.Equal(t, []models.DishID{"2"}, ids(view.Today), "previous list kept")
	assert.Len(t, view.Groups, 3, "catalog still refreshed")
}

func TestDailyMenuManager_ToggleIsItsOwnInverse(t *testing.T) {
	_, m := newDailyFixture(t)
	require.NoError(t, m.Load(context.Background()))

	before := m.View().Selected
	selected, err := m.Toggle("3")
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, []models.DishID{"3"}, m.View().Selected)

	selected, err = m.Toggle("3")
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Equal(t, before, m.View().Selected)

	_, err = m.Toggle("999")
	assert.ErrorIs(t, err, ErrUnknownDish)
}

func TestDailyMenuManager_ToggleRefusesDishOnMenu(t *testing.T) {
	fb, m := newDailyFixture(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	_, err := m.Toggle("2")
	assert.ErrorIs(t, err, ErrAlreadyOnMenu)
	assert.True(t, IsUserError(err))
	assert.Empty(t, m.View().Selected)

	// a dish selected before it reached today's menu can still be cleared
	selected, err := m.Toggle("3")
	require.NoError(t, err)
	require.True(t, selected)
	fb.SeedToday(t, "3")
	require.NoError(t, m.Load(ctx))

	selected, err = m.Toggle("3")
	require.NoError(t, err)
	assert.False(t, selected)

	_, err = m.AddSelected(ctx)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, 0, fb.Calls("/api/addDishToday"))
}

func TestDailyMenuManager_AddSelected(t *testing.T) {
	fb, m := newDailyFixture(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	_, err := m.AddSelected(ctx)
	assert.ErrorIs(t, err, ErrEmptySelection)

	m.OpenPicker()
	_, _ = m.Toggle("1")
	_, _ = m.Toggle("4")

	res, err := m.AddSelected(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.DishID{"1", "4"}, res.Added)
	assert.Empty(t, res.Rejected)

	view := m.View()
	assert.False(t, view.PickerOpen)
	assert.Empty(t, view.Selected)
	assert.Equal(t, []models.DishID{"2", "1", "4"}, ids(view.Today))
	assert.Equal(t, []models.DishID{"3"}, ids(view.Available))
	assert.Equal(t, fb.TodayIDs(t), ids(view.Today))
}

// A 2xx batch answer that rejects some ids must not drop them from the
// available pool.
func TestDailyMenuManager_AddSelectedPartialReject(t *testing.T) {
	fb, m := newDailyFixture(t)
	fb.ReportBatch = true
	fb.Reject("3")
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	m.OpenPicker()
	_, _ = m.Toggle("1")
	_, _ = m.Toggle("3")

	res, err := m.AddSelected(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.DishID{"1"}, res.Added)
	assert.Equal(t, []models.DishID{"3"}, res.Rejected)

	view := m.View()
	assert.True(t, view.PickerOpen, "picker stays open to retry rejected dishes")
	assert.Equal(t, []models.DishID{"3"}, view.Selected)
	assert.Contains(t, ids(view.Available), models.DishID("3"))
	assert.NotContains(t, ids(view.Available), models.DishID("1"))
	assert.Equal(t, fb.TodayIDs(t), ids(view.Today))
	require.NotNil(t, view.LastBatch)
	assert.Equal(t, []models.DishID{"3"}, view.LastBatch.Rejected)
	assert.Contains(t, view.Notice, "chưa được thêm")
}

func TestDailyMenuManager_AddSelectedFailure(t *testing.T) {
	fb, m := newDailyFixture(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	m.OpenPicker()
	_, _ = m.Toggle("1")
	fb.Fail("/api/addDishToday", http.StatusBadRequest, "invalid dishes")

	_, err := m.AddSelected(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)

	view := m.View()
	assert.True(t, view.PickerOpen)
	assert.Equal(t, []models.DishID{"1"}, view.Selected)
	assert.Equal(t, []models.DishID{"2"}, ids(view.Today))
}

func TestDailyMenuManager_ClosePickerClearsSelection(t *testing.T) {
	_, m := newDailyFixture(t)
	require.NoError(t, m.Load(context.Background()))

	m.OpenPicker()
	_, _ = m.Toggle("1")
	m.ClosePicker()

	view := m.View()
	assert.False(t, view.PickerOpen)
	assert.Empty(t, view.Selected)
}

func TestDailyMenuManager_Remove(t *testing.T) {
	fb, m := newDailyFixture(t)
	ctx := context.Background()
	require.NoError(t, m.Load(ctx))

	require.NoError(t, m.Remove(ctx, "2"))
	view := m.View()
	assert.Empty(t, view.Today)
	assert.Equal(t, []models.DishID{"1", "2", "3", "4"}, ids(view.Available))
	assert.Empty(t, fb.TodayIDs(t))

	err := m.Remove(ctx, "2")
	assert.True(t, IsNotFound(err))
	assert.NotEmpty(t, m.View().Notice)
}
