package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/menu-admin/models"
	"github.com/yeremiapane/menu-admin/utils"
)

type PickerItem struct {
	Dish     models.Dish `json:"dish"`
	Selected bool        `json:"selected"`
	OnMenu   bool        `json:"onMenu"`
}

type PickerGroup struct {
	Category string       `json:"category"`
	Items    []PickerItem `json:"items"`
}

type DailyMenuView struct {
	Today      []models.Dish     `json:"today"`
	Available  []models.Dish     `json:"available"`
	Groups     []PickerGroup     `json:"groups"`
	PickerOpen bool              `json:"pickerOpen"`
	Selected   []models.DishID   `json:"selected"`
	Status     models.LoadStatus `json:"status"`
	Error      string            `json:"error,omitempty"`
	Busy       bool              `json:"busy"`
	Notice     string            `json:"notice,omitempty"`
	LastBatch  *BatchResult      `json:"lastBatch,omitempty"`
}

// DailyMenuManager holds today's-menu screen for one session: today's list,
// the full catalog the picker draws from, and the picker's selection.
type DailyMenuManager struct {
	backend MenuBackend

	mu         sync.Mutex
	today      []models.Dish
	catalog    []models.Dish
	status     models.LoadStatus
	loadErr    string
	generation uint64
	pickerOpen bool
	selection  *models.SelectionSet
	busy       bool
	notice     string
	lastBatch  *BatchResult
}

func NewDailyMenuManager(backend MenuBackend) *DailyMenuManager {
	return &DailyMenuManager{
		backend:   backend,
		today:     []models.Dish{},
		catalog:   []models.Dish{},
		status:    models.LoadIdle,
		selection: models.NewSelectionSet(),
	}
}

func (m *DailyMenuManager) View() DailyMenuView {
	m.mu.Lock()
	defer m.mu.Unlock()

	onMenu := idSet(m.today)
	groups := GroupByCategory(m.catalog)
	pickerGroups := make([]PickerGroup, 0, len(groups))
	for _, g := range groups {
		pg := PickerGroup{Category: g.Category, Items: make([]PickerItem, 0, len(g.Dishes))}
		for _, d := range g.Dishes {
			_, on := onMenu[d.ID]
			pg.Items = append(pg.Items, PickerItem{Dish: d, Selected: m.selection.Has(d.ID), OnMenu: on})
		}
		pickerGroups = append(pickerGroups, pg)
	}

	today := make([]models.Dish, len(m.today))
	copy(today, m.today)

	var lastBatch *BatchResult
	if m.lastBatch != nil {
		b := *m.lastBatch
		lastBatch = &b
	}

	return DailyMenuView{
		Today:      today,
		Available:  m.availableLocked(),
		Groups:     pickerGroups,
		PickerOpen: m.pickerOpen,
		Selected:   m.selection.IDs(),
		Status:     m.status,
		Error:      m.loadErr,
		Busy:       m.busy,
		Notice:     m.notice,
		LastBatch:  lastBatch,
	}
}

// Groups returns the full catalog grouped by category.
func (m *DailyMenuManager) Groups() CategoryGroups {
	m.mu.Lock()
	defer m.mu.Unlock()
	return GroupByCategory(m.catalog)
}

// Available is the catalog minus today's dishes, in catalog order.
func (m *DailyMenuManager) Available() []models.Dish {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.availableLocked()
}

func (m *DailyMenuManager) availableLocked() []models.Dish {
	onMenu := idSet(m.today)
	out := make([]models.Dish, 0, len(m.catalog))
	for _, d := range m.catalog {
		if _, ok := onMenu[d.ID]; !ok {
			out = append(out, d)
		}
	}
	return out
}

func (m *DailyMenuManager) EnsureLoaded(ctx context.Context) error {
	m.mu.Lock()
	idle := m.status == models.LoadIdle
	m.mu.Unlock()

	if !idle {
		return nil
	}
	return m.Load(ctx)
}

// Load fetches today's list and the catalog. Each list is replaced only when
// its own fetch succeeded; failures are logged and returned joined.
func (m *DailyMenuManager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.status = models.LoadLoading
	m.loadErr = ""
	m.mu.Unlock()

	today, todayErr := m.backend.ListTodayDishes(ctx)
	catalog, catalogErr := m.backend.ListDishes(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		utils.InfoLogger.WithField("generation", gen).Debug("discarding superseded daily menu load")
		return nil
	}

	if todayErr == nil {
		m.today = today
	} else {
		utils.ErrorLogger.WithError(todayErr).Error("failed to load today's dishes")
	}
	if catalogErr == nil {
		m.catalog = catalog
	} else {
		utils.ErrorLogger.WithError(catalogErr).Error("failed to load dish catalog")
	}

	err := errors.Join(todayErr, catalogErr)
	if err != nil {
		m.status = models.LoadFailed
		m.loadErr = err.Error()
		return err
	}
	m.status = models.LoadLoaded
	return nil
}

func (m *DailyMenuManager) Flash(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = msg
}

func (m *DailyMenuManager) OpenPicker() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pickerOpen = true
	m.notice = ""
}

// ClosePicker closes the picker and forgets the selection.
func (m *DailyMenuManager) ClosePicker() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pickerOpen = false
	m.selection.Clear()
}

// Toggle flips id's membership in the selection and reports whether it is
// selected afterwards. Dishes already on today's menu cannot be selected,
// but a stale selection can always be cleared.
func (m *DailyMenuManager) Toggle(id models.DishID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	selected := m.selection.Has(id)
	if !selected {
		if indexOf(m.catalog, id) < 0 {
			return false, ErrUnknownDish
		}
		if _, on := idSet(m.today)[id]; on {
			return false, ErrAlreadyOnMenu
		}
	}
	return m.selection.Toggle(id), nil
}

// AddSelected sends the whole selection in one request. Only ids the backend
// accepted move onto today's list; rejected ids stay available and stay
// selected, and the picker remains open so they can be retried.
func (m *DailyMenuManager) AddSelected(ctx context.Context) (BatchResult, error) {
	m.mu.Lock()
	if m.selection.Len() == 0 {
		m.mu.Unlock()
		return BatchResult{}, ErrEmptySelection
	}
	if m.busy {
		m.mu.Unlock()
		return BatchResult{}, ErrBusy
	}
	ids := m.selection.IDs()
	m.busy = true
	m.mu.Unlock()

	res, err := m.backend.AddTodayDishes(ctx, ids)

	m.mu.Lock()
	m.busy = false
	if err != nil {
		m.notice = err.Error()
		m.mu.Unlock()
		utils.ErrorLogger.WithError(err).WithField("dish_ids", ids).Error("failed to add dishes to today's menu")
		return BatchResult{}, err
	}

	refetch := false
	onMenu := idSet(m.today)
	for _, id := range res.Added {
		m.selection.Remove(id)
		if _, ok := onMenu[id]; ok {
			continue
		}
		i := indexOf(m.catalog, id)
		if i < 0 {
			refetch = true
			continue
		}
		m.today = append(m.today, m.catalog[i])
		onMenu[id] = struct{}{}
	}

	if len(res.Rejected) == 0 {
		m.pickerOpen = false
		m.selection.Clear()
		m.notice = ""
	} else {
		m.notice = fmt.Sprintf("%d món ăn chưa được thêm: %v", len(res.Rejected), res.Rejected)
	}
	batch := res
	m.lastBatch = &batch
	m.generation++
	if m.status == models.LoadLoading {
		m.status = models.LoadLoaded
	}
	m.mu.Unlock()

	utils.InfoLogger.WithFields(logrus.Fields{
		"added":    len(res.Added),
		"rejected": len(res.Rejected),
	}).Info("today's menu updated")

	if refetch {
		if err := m.Load(ctx); err != nil {
			utils.ErrorLogger.WithError(err).Warn("dishes added but reloading today's menu failed")
		}
	}
	return res, nil
}

// Remove takes one dish off today's menu.
func (m *DailyMenuManager) Remove(ctx context.Context, id models.DishID) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return ErrBusy
	}
	m.busy = true
	m.mu.Unlock()

	err := m.backend.DeleteTodayDish(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false

	if err != nil {
		m.notice = err.Error()
		utils.ErrorLogger.WithError(err).WithField("dish_id", id).Error("failed to remove dish from today's menu")
		return err
	}

	m.today = without(m.today, id)
	m.generation++
	if m.status == models.LoadLoading {
		m.status = models.LoadLoaded
	}
	m.notice = ""
	utils.InfoLogger.WithField("dish_id", id).Info("dish removed from today's menu")
	return nil
}

func idSet(dishes []models.Dish) map[models.DishID]struct{} {
	set := make(map[models.DishID]struct{}, len(dishes))
	for _, d := range dishes {
		set[d.ID] = struct{}{}
	}
	return set
}
