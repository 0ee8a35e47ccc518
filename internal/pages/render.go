// Package pages renders the storefront's server-side HTML pages.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wanderly-dev/storefront/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// View is the value every page template is executed with
type View struct {
	Title   string
	Session *auth.SessionData
	Notice  string
	Error   string
	Data    any
}

// Renderer holds one parsed template set per page, each sharing the layout
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcMap()).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}

		tmpl, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		if _, err := tmpl.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		pages[strings.TrimSuffix(path.Base(file), ".html")] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// HTML renders page name with view. The session and the notice/error
// query parameters are filled in when view leaves them empty.
func (r *Renderer) HTML(c *gin.Context, status int, name string, view View) {
	tmpl, ok := r.pages[name]
	if !ok {
		c.String(http.StatusInternalServerError, "unknown page %q", name)
		return
	}

	if view.Session == nil {
		view.Session = auth.GetSession(c)
	}
	if view.Notice == "" {
		view.Notice = c.Query("notice")
	}
	if view.Error == "" {
		view.Error = c.Query("error")
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}

	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// NotFound renders the not-found page with status 404
func (r *Renderer) NotFound(c *gin.Context, detail string) {
	var data any
	if detail != "" {
		data = detail
	}
	r.HTML(c, http.StatusNotFound, "not_found", View{Title: "Not found", Data: data})
}

var moneyPrinter = message.NewPrinter(language.Indonesian)

// Money formats an amount in rupiah with thousands separators
func Money(amount float64) string {
	return moneyPrinter.Sprintf("Rp %d", int64(math.Round(amount)))
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"money":      Money,
		"richText":   RichText,
		"embed":      Embed,
		"firstImage": firstImage,
	}
}

func firstImage(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
