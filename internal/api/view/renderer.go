// Package view renders the console's HTML pages: the login screen, the
// authenticated shell around each section and the error page.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// Page names accepted by Renderer.Render.
const (
	PageLogin = "login"
	PageShell = "shell"
	PageError = "error"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer satisfies echo.Renderer. Each page is its own template set built
// on the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	base := template.New("layout.html").Funcs(template.FuncMap{
		"initials": initials,
	})

	pages := make(map[string]*template.Template, 3)
	for _, page := range []string{PageLogin, PageShell, PageError} {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templatesFS, "templates/layout.html", "templates/toasts.html", "templates/"+page+".html"); err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", page, err)
		}
		pages[page] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render executes the layout of page name with data.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

func initials(first, last string) string {
	out := make([]rune, 0, 2)
	for _, s := range []string{first, last} {
		for _, r := range s {
			out = append(out, r)
			break
		}
	}
	return string(out)
}
