package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/menu-admin/config"
	"github.com/yeremiapane/menu-admin/controllers"
	"github.com/yeremiapane/menu-admin/middlewares"
	"github.com/yeremiapane/menu-admin/services"
	"github.com/yeremiapane/menu-admin/views"
)

func SetupRouter(cfg *config.Config, store *services.SessionStore) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = cfg.Upload.MaxBytes

	limiter := middlewares.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(middlewares.OriginOf(cfg.Upload.URL), "https://res.cloudinary.com"))
	r.Use(middlewares.CORSMiddlewares(cfg.CORSAllowOrigin))
	r.Use(limiter.RateLimit())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dishes")
	})

	catalogCtrl := controllers.NewCatalogController(cfg.Upload.MaxBytes)
	dailyCtrl := controllers.NewDailyMenuController()

	screens := r.Group("/")
	screens.Use(middlewares.SessionMiddleware(store, []byte(cfg.Session.Secret), cfg.Session.IdleTimeout))
	screens.Use(middlewares.MutationLogger())

	dishes := screens.Group("/dishes")
	{
		dishes.GET("", catalogCtrl.Show)
		dishes.POST("/refresh", catalogCtrl.Refresh)
		dishes.POST("/new", catalogCtrl.OpenCreate)
		dishes.POST("/:id/edit", catalogCtrl.OpenEdit)
		dishes.POST("/form/close", catalogCtrl.CloseForm)
		dishes.POST("/save", catalogCtrl.Save)
		dishes.POST("/:id/delete", catalogCtrl.RequestDelete)
		dishes.POST("/delete/confirm", catalogCtrl.ConfirmDelete)
		dishes.POST("/delete/cancel", catalogCtrl.CancelDelete)
	}

	today := screens.Group("/today")
	{
		today.GET("", dailyCtrl.Show)
		today.POST("/refresh", dailyCtrl.Refresh)
		today.POST("/picker/open", dailyCtrl.OpenPicker)
		today.POST("/picker/close", dailyCtrl.ClosePicker)
		today.POST("/picker/toggle/:id", dailyCtrl.Toggle)
		today.POST("/picker/save", dailyCtrl.AddSelected)
		today.POST("/:id/delete", dailyCtrl.Remove)
	}

	return r, nil
}
