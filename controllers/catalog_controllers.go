package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/menu-admin/models"
	"github.com/yeremiapane/menu-admin/services"
	"github.com/yeremiapane/menu-admin/utils"
)

const catalogPath = "/dishes"

type CatalogController struct {
	// MaxUploadBytes bounds the image part of a save request.
	MaxUploadBytes int64
}

func NewCatalogController(maxUploadBytes int64) *CatalogController {
	return &CatalogController{MaxUploadBytes: maxUploadBytes}
}

func catalogOf(c *gin.Context) (*services.CatalogManager, bool) {
	sess, ok := currentSession(c)
	if !ok {
		return nil, false
	}
	return sess.Catalog, true
}

func catalogView(m *services.CatalogManager) func() interface{} {
	return func() interface{} { return m.View() }
}

// Show renders the catalog, loading it on the session's first visit.
func (cc *CatalogController) Show(c *gin.Context) {
	mgr, ok := catalogOf(c)
	if !ok {
		return
	}
	// a failed first load is shown through the view's error field
	_ = mgr.EnsureLoaded(c.Request.Context())
	render(c, "catalog.html", "Danh sách món ăn", "dishes", mgr.View())
}

func (cc *CatalogController) Refresh(c *gin.Context) {
	mgr, ok := catalogOf(c)
	if !ok {
		return
	}
	err := mgr.Load(c.Request.Context())
	if err != nil && wantsJSON(c) {
		utils.RespondError(c, StatusFor(err), err)
		return
	}
	finish(c, catalogPath, mgr, catalogView(mgr), "Đã tải lại danh sách món ăn", nil)
}

func (cc *CatalogController) OpenCreate(c *gin.Context) {
	mgr, ok := catalogOf(c)
	if !ok {
		return
	}
	mgr.OpenCreate()
	finish(c, catalogPath, mgr, catalogView(mgr), "Thêm món ăn", nil)
}

func (cc *CatalogController) OpenEdit(c *gin.Context) {
	mgr, ok := catalogOf(c)
	if !ok {
		return
	}
	err := mgr.OpenEdit(models.DishID(c.Param("id")))
	finish(c, catalogPath, mgr, catalogView(mgr), "Chỉnh sửa món ăn", err)
}

func (cc *CatalogController) CloseForm(c *gin.Context) {
	mgr, ok := catalogOf(c)
	if !ok {
		return
	}
	mgr.CloseForm()
	finish(c, catalogPath, mgr, catalogView(mgr), "Đã đóng biểu mẫu", nil)
}

// Save accepts the dish form either as multipart (with an optional "image"
// file) or as a JSON record.
func (cc *CatalogController) Save(c *gin.Context) {
	mgr, ok := catalogOf(c)
	if !ok {
		return
	}

	if cc.MaxUploadBytes > 0 {
		// leave room for the text fields around the file
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, cc.MaxUploadBytes+1<<20)
	}

	in, asset, closeAsset, err := readDishForm(c)
	if err != nil {
		finish(c, catalogPath, mgr, catalogView(mgr), "", err)
		return
	}
	defer closeAsset()

	saved, err := mgr.Save(c.Request.Context(), in, asset)
	if err == nil {
		utils.InfoLogger.WithField("dish_id", saved.ID).Debug("save handled")
	}
	finish(c, catalogPath, mgr, catalogView(mgr), "Món ăn đã được lưu!", err)
}

func readDishForm(c *gin.Context) (models.DishInput, *services.Asset, func(), error) {
	noop := func() {}

	if c.ContentType() == gin.MIMEJSON {
		var in models.DishInput
		if err := c.ShouldBindJSON(&in); err != nil {
			return in, nil, noop, &models.ValidationError{Field: "body", Message: err.Error()}
		}
		return in, nil, noop, nil
	}

	price, err := models.ParsePrice(c.PostForm("price"))
	if err != nil {
		return models.DishInput{}, nil, noop, &models.ValidationError{Field: "price", Message: "is not a number"}
	}
	in := models.DishInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		ImageURL:    c.PostForm("imageUrl"),
		Category:    c.PostForm("category"),
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, nil, noop, nil
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return in, nil, noop, services.ErrAssetTooLarge
		}
		return in, nil, noop, &models.ValidationError{Field: "image", Message: err.Error()}
	}
	return openAsset(in, fh)
}

func openAsset(in models.DishInput, fh *multipart.FileHeader) (models.DishInput, *services.Asset, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return in, nil, func() {}, &models.ValidationError{Field: "image", Message: err.Error()}
	}
	asset := &services.Asset{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}
	return in, asset, func() { f.Close() }, nil
}

func (cc *CatalogController) RequestDelete(c *gin.Context) {
	mgr, ok := catalogOf(c)
	if !ok {
		return
	}
	err := mgr.RequestDelete(models.DishID(c.Param("id")))
	finish(c, catalogPath, mgr, catalogView(mgr), "Xác nhận xóa món ăn", err)
}

func (cc *CatalogController) ConfirmDelete(c *gin.Context) {
	mgr, ok := catalogOf(c)
	if !ok {
		return
	}
	err := mgr.ConfirmDelete(c.Request.Context())
	finish(c, catalogPath, mgr, catalogView(mgr), "Món ăn đã được xóa!", err)
}

func (cc *CatalogController) CancelDelete(c *gin.Context) {
	mgr, ok := catalogOf(c)
	if !ok {
		return
	}
	mgr.CancelDelete()
	finish(c, catalogPath, mgr, catalogView(mgr), "Đã hủy xóa món ăn", nil)
}
