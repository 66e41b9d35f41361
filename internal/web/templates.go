package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Bitlatte/suspect/internal/date"
	"github.com/Bitlatte/suspect/internal/model"
)

// Template names looked up by the handlers.
const (
	TemplateLanding  = "index.template.html"
	TemplatePostList = "post_index.template.html"
	TemplatePost     = "post.template.html"
	TemplateTagList  = "tag_index.template.html"
	TemplateTag      = "tag.template.html"
	TemplateNotFound = "404.template.html"

	templateSuffix = ".template.html"
)

// ErrNoTemplate is returned when rendering a template that was not loaded.
var ErrNoTemplate = errors.New("template not found")

// PageTemplate returns the template name for a configured simple page.
func PageTemplate(page string) string {
	return page + templateSuffix
}

// Renderer holds the parsed template set. The set is swapped whole on reload,
// so a render always sees one consistent set.
type Renderer struct {
	dir     string
	current atomic.Pointer[template.Template]
}

// NewRenderer parses every *.html file in dir.
func NewRenderer(dir string) (*Renderer, error) {
	r := &Renderer{dir: dir}
	t, err := r.Parse()
	if err != nil {
		return nil, err
	}
	r.current.Store(t)
	return r, nil
}

var funcs = template.FuncMap{
	// title capitalises a tag for display: "rust tips" -> "Rust Tips".
	"title": func(s any) string {
		return cases.Title(language.English).String(fmt.Sprint(s))
	},
	"isoDate": func(d date.Date) string {
		return d.Time().Format("2006-01-02")
	},
	"joinTags": func(tags []model.Tag, sep string) string {
		parts := make([]string, len(tags))
		for i, t := range tags {
			parts[i] = string(t)
		}
		return strings.Join(parts, sep)
	},
}

// Parse reads the template set from disk without installing it.
func (r *Renderer) Parse() (*template.Template, error) {
	t, err := template.New("").Funcs(funcs).ParseGlob(filepath.Join(r.dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates in %s: %w", r.dir, err)
	}
	return t, nil
}

// Name implements reload.Stage.
func (r *Renderer) Name() string { return "templates" }

// Prepare implements reload.Stage.
func (r *Renderer) Prepare() (func(), error) {
	t, err := r.Parse()
	if err != nil {
		return nil, err
	}
	return func() { r.current.Store(t) }, nil
}

// Has reports whether the live set defines name.
func (r *Renderer) Has(name string) bool {
	return r.current.Load().Lookup(name) != nil
}

// Render executes the named template into w. A failed render may leave
// partial output in w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t := r.current.Load().Lookup(name)
	if t == nil {
		return fmt.Errorf("%w: %s", ErrNoTemplate, name)
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	return nil
}
