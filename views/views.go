// Package views holds the console's HTML templates.
package views

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/yeremiapane/menu-admin/models"
	"github.com/yeremiapane/menu-admin/utils"
)

//go:embed templates/*.html
var files embed.FS

var Funcs = template.FuncMap{
	"vnd":        func(p models.Price) string { return utils.FormatVND(float64(p)) },
	"plain":      func(p models.Price) string { return strconv.FormatFloat(float64(p), 'f', -1, 64) },
	"categories": func() []string { return models.MenuCategories },
}

// Templates parses every embedded page.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html")
}
