package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/menu-admin/middlewares"
	"github.com/yeremiapane/menu-admin/services"
	"github.com/yeremiapane/menu-admin/utils"
)

// flasher is the part of a screen manager that carries a message to the
// next HTML render.
type flasher interface {
	Flash(msg string)
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// StatusFor maps a screen operation error to the HTTP status a JSON client
// receives.
func StatusFor(err error) int {
	var apiErr *services.APIError
	var tErr *services.TransportError
	switch {
	case errors.Is(err, services.ErrBusy):
		return http.StatusConflict
	case services.IsUserError(err):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoUploader):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr), errors.As(err, &tErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func currentSession(c *gin.Context) (*services.Session, bool) {
	sess := middlewares.CurrentSession(c)
	if sess == nil {
		utils.ErrorLogger.WithField("path", c.Request.URL.Path).Error("request reached a screen without a session")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("no session"))
		return nil, false
	}
	return sess, true
}

func render(c *gin.Context, page, title, active string, view interface{}) {
	if wantsJSON(c) {
		utils.RespondJSON(c, http.StatusOK, title, view)
		return
	}
	c.HTML(http.StatusOK, page, gin.H{
		"Title":  title,
		"Active": active,
		"View":   view,
	})
}

// finish answers a screen mutation: JSON clients get the fresh view or a
// mapped error status, browsers are sent back to the screen.
func finish(c *gin.Context, screen string, mgr flasher, view func() interface{}, message string, err error) {
	if err != nil {
		_ = c.Error(err)
		if wantsJSON(c) {
			utils.RespondError(c, StatusFor(err), err)
			return
		}
		mgr.Flash(err.Error())
		c.Redirect(http.StatusSeeOther, screen)
		return
	}

	if wantsJSON(c) {
		utils.RespondJSON(c, http.StatusOK, message, view())
		return
	}
	c.Redirect(http.StatusSeeOther, screen)
}
