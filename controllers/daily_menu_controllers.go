package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/menu-admin/models"
	"github.com/yeremiapane/menu-admin/services"
	"github.com/yeremiapane/menu-admin/utils"
)

const todayPath = "/today"

type DailyMenuController struct{}

func NewDailyMenuController() *DailyMenuController {
	return &DailyMenuController{}
}

func dailyOf(c *gin.Context) (*services.DailyMenuManager, bool) {
	sess, ok := currentSession(c)
	if !ok {
		return nil, false
	}
	return sess.Daily, true
}

func dailyView(m *services.DailyMenuManager) func() interface{} {
	return func() interface{} { return m.View() }
}

func (dc *DailyMenuController) Show(c *gin.Context) {
	mgr, ok := dailyOf(c)
	if !ok {
		return
	}
	_ = mgr.EnsureLoaded(c.Request.Context())
	render(c, "today.html", "Thực đơn hôm nay", "today", mgr.View())
}

func (dc *DailyMenuController) Refresh(c *gin.Context) {
	mgr, ok := dailyOf(c)
	if !ok {
		return
	}
	err := mgr.Load(c.Request.Context())
	if err != nil && wantsJSON(c) {
		utils.RespondError(c, StatusFor(err), err)
		return
	}
	finish(c, todayPath, mgr, dailyView(mgr), "Đã tải lại thực đơn hôm nay", nil)
}

func (dc *DailyMenuController) OpenPicker(c *gin.Context) {
	mgr, ok := dailyOf(c)
	if !ok {
		return
	}
	mgr.OpenPicker()
	finish(c, todayPath, mgr, dailyView(mgr), "Chọn món ăn", nil)
}

func (dc *DailyMenuController) ClosePicker(c *gin.Context) {
	mgr, ok := dailyOf(c)
	if !ok {
		return
	}
	mgr.ClosePicker()
	finish(c, todayPath, mgr, dailyView(mgr), "Đã đóng danh sách chọn món", nil)
}

func (dc *DailyMenuController) Toggle(c *gin.Context) {
	mgr, ok := dailyOf(c)
	if !ok {
		return
	}
	_, err := mgr.Toggle(models.DishID(c.Param("id")))
	finish(c, todayPath, mgr, dailyView(mgr), "Đã cập nhật lựa chọn", err)
}

func (dc *DailyMenuController) AddSelected(c *gin.Context) {
	mgr, ok := dailyOf(c)
	if !ok {
		return
	}
	res, err := mgr.AddSelected(c.Request.Context())
	msg := "Món ăn đã được thêm!"
	if err == nil && len(res.Rejected) > 0 {
		msg = "Một số món ăn chưa được thêm"
	}
	finish(c, todayPath, mgr, dailyView(mgr), msg, err)
}

func (dc *DailyMenuController) Remove(c *gin.Context) {
	mgr, ok := dailyOf(c)
	if !ok {
		return
	}
	err := mgr.Remove(c.Request.Context(), models.DishID(c.Param("id")))
	finish(c, todayPath, mgr, dailyView(mgr), "Đã xóa món ăn khỏi thực đơn hôm nay", err)
}
