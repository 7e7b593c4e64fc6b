package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("template.ParseFS -> %w", err)
	}

	return tmpl, nil
}

// Static serves app.js and the stylesheet.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

type page struct {
	Title     string
	Active    string
	APIBase   string
	Employees bool
}

type PageHandler struct {
	apiBase   string
	employees bool
}

// NewPageHandler renders the admin pages. The employees link is only shown
// when the employee routes are mounted.
func NewPageHandler(apiBase string, employees bool) *PageHandler {
	return &PageHandler{
		apiBase:   apiBase,
		employees: employees,
	}
}

func (h *PageHandler) render(ctx *gin.Context, name, title, active string) {
	ctx.HTML(http.StatusOK, name, page{
		Title:     title,
		Active:    active,
		APIBase:   h.apiBase,
		Employees: h.employees,
	})
}

func (h *PageHandler) HandleLogin(ctx *gin.Context) {
	h.render(ctx, "login.html", "Login", "")
}

func (h *PageHandler) HandleDashboard(ctx *gin.Context) {
	h.render(ctx, "dashboard.html", "Products", "dashboard")
}

func (h *PageHandler) HandleSold(ctx *gin.Context) {
	h.render(ctx, "sold.html", "Sold items", "sold")
}

func (h *PageHandler) HandleUsers(ctx *gin.Context) {
	h.render(ctx, "users.html", "Employees", "users")
}
