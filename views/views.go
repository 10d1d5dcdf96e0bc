package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"

	"scavngr.io/todolist/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed public
var publicFS embed.FS

// Pages rendered inside templates/layout.html.
const (
	PageList      = "list"
	PageDashboard = "dashboard"
	PageView      = "view"
	PageAbout     = "about"
)

var pages = []string{PageList, PageDashboard, PageView, PageAbout}

// Page is the data every template receives. ListName is the value posted
// back in the "list" and "listDeleteName" form fields.
type Page struct {
	Title    string
	ListName string
	Items    []models.Item
	Lists    []models.List
}

// ListPath is the address of a named list page. The name is path-escaped so
// that "/" and "?" stay inside the segment.
func ListPath(name string) string {
	return "/lists/" + url.PathEscape(name)
}

var funcs = template.FuncMap{
	"listPath": ListPath,
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("unable to parse %s template - %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, page string, data Page) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Public holds the static assets served under /public/.
func Public() fs.FS {
	sub, err := fs.Sub(publicFS, "public")
	if err != nil {
		panic(err)
	}
	return sub
}
