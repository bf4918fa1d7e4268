package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/menu-admin/models"
	"github.com/yeremiapane/menu-admin/utils"
)

// CatalogView is a point-in-time copy of the catalog screen.
type CatalogView struct {
	Dishes  []models.Dish       `json:"dishes"`
	Status  models.LoadStatus   `json:"status"`
	Error   string              `json:"error,omitempty"`
	Form    models.FormModal    `json:"form"`
	Confirm models.ConfirmModal `json:"confirm"`
	Busy    bool                `json:"busy"`
	Notice  string              `json:"notice,omitempty"`
}

// CatalogManager holds the dish catalog screen for one session: the cached
// dish list, its load status, the create/edit form and the delete
// confirmation. The lock is never held across a network call.
type CatalogManager struct {
	backend  MenuBackend
	uploader AssetUploader

	mu         sync.Mutex
	dishes     []models.Dish
	status     models.LoadStatus
	loadErr    string
	loadedOnce bool
	generation uint64
	form       models.FormModal
	confirm    models.ConfirmModal
	busy       bool
	notice     string
}

func NewCatalogManager(backend MenuBackend, uploader AssetUploader) *CatalogManager {
	return &CatalogManager{
		backend:  backend,
		uploader: uploader,
		dishes:   []models.Dish{},
		status:   models.LoadIdle,
		form:     models.FormModal{Mode: models.ModalClosed},
	}
}

func (m *CatalogManager) View() CatalogView {
	m.mu.Lock()
	defer m.mu.Unlock()

	dishes := make([]models.Dish, len(m.dishes))
	copy(dishes, m.dishes)
	return CatalogView{
		Dishes:  dishes,
		Status:  m.status,
		Error:   m.loadErr,
		Form:    m.form,
		Confirm: m.confirm,
		Busy:    m.busy,
		Notice:  m.notice,
	}
}

// EnsureLoaded loads the list once per session.
func (m *CatalogManager) EnsureLoaded(ctx context.Context) error {
	m.mu.Lock()
	idle := m.status == models.LoadIdle
	m.mu.Unlock()

	if !idle {
		return nil
	}
	return m.Load(ctx)
}

// Load replaces the list with the backend's. On failure the previous list is
// kept and the status records the error. When loads overlap only the most
// recently started one is applied.
func (m *CatalogManager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.status = models.LoadLoading
	m.loadErr = ""
	m.mu.Unlock()

	dishes, err := m.backend.ListDishes(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		utils.InfoLogger.WithField("generation", gen).Debug("discarding superseded catalog load")
		return nil
	}
	if err != nil {
		m.status = models.LoadFailed
		m.loadErr = err.Error()
		utils.ErrorLogger.WithError(err).Error("failed to load dishes")
		return err
	}

	m.dishes = dishes
	m.status = models.LoadLoaded
	m.loadedOnce = true
	return nil
}

// Flash sets the message shown above the catalog on its next render.
func (m *CatalogManager) Flash(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = msg
}

func (m *CatalogManager) OpenCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.OpenCreate()
	m.notice = ""
}

func (m *CatalogManager) OpenEdit(id models.DishID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexOf(m.dishes, id)
	if i < 0 {
		return ErrUnknownDish
	}
	m.form.OpenEdit(m.dishes[i])
	m.notice = ""
	return nil
}

func (m *CatalogManager) CloseForm() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.form.Close()
}

// Save runs the create or update flow for the open form. A new image is
// uploaded first; without one the form's current image URL is kept. Any
// failure leaves the form open with what was submitted.
func (m *CatalogManager) Save(ctx context.Context, in models.DishInput, asset *Asset) (models.Dish, error) {
	m.mu.Lock()
	if !m.form.IsOpen() {
		m.mu.Unlock()
		return models.Dish{}, ErrNotEditing
	}
	if m.busy {
		m.mu.Unlock()
		return models.Dish{}, ErrBusy
	}
	mode, editID := m.form.Mode, m.form.EditID
	if strings.TrimSpace(in.ImageURL) == "" {
		in.ImageURL = m.form.Fields.ImageURL
	}
	m.form.Fields = in
	if p := float64(in.Price); math.IsNaN(p) || math.IsInf(p, 0) {
		// keep the view renderable
		m.form.Fields.Price = 0
	}
	if err := in.Validate(); err != nil {
		m.notice = err.Error()
		m.mu.Unlock()
		return models.Dish{}, err
	}
	m.busy = true
	m.form.Saving = true
	m.mu.Unlock()

	log := utils.InfoLogger.WithFields(logrus.Fields{"mode": mode, "dish_id": editID})

	saved, refetch, err := m.persist(ctx, mode, editID, in, asset)

	m.mu.Lock()
	m.busy = false
	m.form.Saving = false
	if err != nil {
		m.notice = err.Error()
		m.mu.Unlock()
		utils.ErrorLogger.WithError(err).WithFields(logrus.Fields{"mode": mode, "dish_id": editID}).Error("failed to save dish")
		return models.Dish{}, err
	}

	if !refetch {
		m.dishes = upsert(m.dishes, saved)
		m.supersedeLoadsLocked()
	}
	if m.form.Mode == mode && m.form.EditID == editID {
		m.form.Close()
	}
	m.notice = ""
	m.mu.Unlock()

	log.WithField("name", saved.Name).Info("dish saved")

	if refetch {
		if err := m.Load(ctx); err != nil {
			utils.ErrorLogger.WithError(err).Warn("dish created but reloading the list failed")
		}
	}
	return saved, nil
}

func (m *CatalogManager) persist(ctx context.Context, mode models.ModalMode, editID models.DishID, in models.DishInput, asset *Asset) (models.Dish, bool, error) {
	if asset != nil {
		if m.uploader == nil {
			return models.Dish{}, false, ErrNoUploader
		}
		hosted, err := m.uploader.Upload(ctx, *asset)
		if err != nil {
			return models.Dish{}, false, fmt.Errorf("upload image: %w", err)
		}
		in.ImageURL = hosted
	}

	if mode == models.ModalEdit {
		if err := m.backend.UpdateDish(ctx, editID, in); err != nil {
			return models.Dish{}, false, err
		}
		return models.Dish{ID: editID}.WithInput(in), false, nil
	}

	created, err := m.backend.CreateDish(ctx, in)
	if err != nil {
		return models.Dish{}, false, err
	}
	if created == nil {
		return models.Dish{}.WithInput(in), true, nil
	}
	return *created, false, nil
}

func (m *CatalogManager) RequestDelete(id models.DishID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if indexOf(m.dishes, id) < 0 {
		return ErrUnknownDish
	}
	m.confirm.Request(id)
	m.notice = ""
	return nil
}

func (m *CatalogManager) CancelDelete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirm.Close()
}

// ConfirmDelete deletes the dish awaiting confirmation. The confirmation
// closes whatever the outcome; the list only changes on success.
func (m *CatalogManager) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	if !m.confirm.Open {
		m.mu.Unlock()
		return ErrNoDeleteTarget
	}
	if m.busy {
		m.mu.Unlock()
		return ErrBusy
	}
	id := m.confirm.TargetID
	m.busy = true
	m.mu.Unlock()

	err := m.backend.DeleteDish(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy = false
	m.confirm.Close()

	if err != nil {
		m.notice = err.Error()
		utils.ErrorLogger.WithError(err).WithField("dish_id", id).Error("failed to delete dish")
		return err
	}

	m.dishes = without(m.dishes, id)
	m.supersedeLoadsLocked()
	m.notice = ""
	utils.InfoLogger.WithField("dish_id", id).Info("dish deleted")
	return nil
}

// supersedeLoadsLocked makes any load started before a confirmed mutation
// stale, so its older snapshot cannot overwrite the patched list.
func (m *CatalogManager) supersedeLoadsLocked() {
	m.generation++
	if m.status == models.LoadLoading {
		if m.loadedOnce {
			m.status = models.LoadLoaded
		} else {
			m.status = models.LoadIdle
		}
	}
}

func indexOf(dishes []models.Dish, id models.DishID) int {
	for i, d := range dishes {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// upsert replaces the entry with d's id in place, or appends d when absent.
func upsert(dishes []models.Dish, d models.Dish) []models.Dish {
	out := make([]models.Dish, 0, len(dishes)+1)
	found := false
	for _, existing := range dishes {
		if existing.ID == d.ID {
			if !found {
				out = append(out, d)
				found = true
			}
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, d)
	}
	return out
}

func without(dishes []models.Dish, id models.DishID) []models.Dish {
	out := make([]models.Dish, 0, len(dishes))
	for _, d := range dishes {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

// IsUserError reports whether err came from the caller's input rather than
// from the backend or the network.
func IsUserError(err error) bool {
	var vErr *models.ValidationError
	return errors.As(err, &vErr) ||
		errors.Is(err, ErrNotEditing) ||
		errors.Is(err, ErrNoDeleteTarget) ||
		errors.Is(err, ErrEmptySelection) ||
		errors.Is(err, ErrUnknownDish) ||
		errors.Is(err, ErrAlreadyOnMenu) ||
		errors.Is(err, ErrAssetTooLarge) ||
		errors.Is(err, ErrEmptyAsset)
}
