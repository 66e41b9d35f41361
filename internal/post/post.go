// Package post turns a single post file into a model.Post.
package post

import (
	"bufio"
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/Bitlatte/suspect/internal/date"
	"github.com/Bitlatte/suspect/internal/frontmatter"
	"github.com/Bitlatte/suspect/internal/model"
)

// Front matter keys.
const (
	KeySlug         = "slug"
	KeyAuthor       = "author"
	KeyTitle        = "title"
	KeyDescription  = "description"
	KeyCreatedDate  = "created_date"
	KeyModifiedDate = "modified_date"
	KeyTags         = "tags"
)

// Loader reads post files. A Loader is safe for concurrent use.
type Loader struct {
	md       goldmark.Markdown
	sanitize *bluemonday.Policy
}

// Option configures a Loader.
type Option func(*Loader)

// WithSanitizer runs rendered HTML through bluemonday's UGC policy, dropping
// scripts and other unsafe markup authors may have inlined.
func WithSanitizer() Option {
	return func(l *Loader) {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Globally()
		p.AllowAttrs("id").Globally()
		p.AllowAttrs("type", "checked", "disabled").OnElements("input")
		p.AllowElements("input")
		l.sanitize = p
	}
}

// NewLoader returns a Loader rendering Markdown with footnotes,
// strikethrough, tables and task lists enabled.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Footnote,
				extension.Strikethrough,
				extension.Table,
				extension.TaskList,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and renders the post file at path.
func (l *Loader) Load(path string) (model.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Post{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	return l.Read(path, f)
}

// Read parses a post from r. path is recorded on the post and in errors.
func (l *Loader) Read(path string, r io.Reader) (model.Post, error) {
	p, err := l.read(bufio.NewReader(r))
	if err != nil {
		return model.Post{}, &LoadError{Path: path, Err: err}
	}
	p.Path = path
	return p, nil
}

func (l *Loader) read(r *bufio.Reader) (model.Post, error) {
	fields, err := frontmatter.Parse(r)
	if err != nil {
		return model.Post{}, err
	}

	p, err := fromFields(fields)
	if err != nil {
		return model.Post{}, err
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return model.Post{}, fmt.Errorf("read body: %w", err)
	}

	var buf bytes.Buffer
	if err := l.md.Convert(body, &buf); err != nil {
		return model.Post{}, fmt.Errorf("render markdown: %w", err)
	}

	html := buf.String()
	if l.sanitize != nil {
		html = l.sanitize.Sanitize(html)
	}
	p.Content = template.HTML(html)

	return p, nil
}

func fromFields(fields map[string]string) (model.Post, error) {
	var p model.Post

	required := []struct {
		key string
		dst *string
		err error
	}{
		{KeySlug, &p.Slug, ErrNoSlug},
		{KeyAuthor, &p.Author, ErrNoAuthor},
		{KeyTitle, &p.Title, ErrNoTitle},
	}
	for _, r := range required {
		value := fields[r.key]
		if value == "" {
			return p, r.err
		}
		*r.dst = value
	}
	created := fields[KeyCreatedDate]
	if created == "" {
		return p, ErrNoCreatedDate
	}

	var err error
	if p.Created, err = date.Parse(created); err != nil {
		return p, &DateError{Key: KeyCreatedDate, Err: err}
	}
	if modified := fields[KeyModifiedDate]; modified != "" {
		d, err := date.Parse(modified)
		if err != nil {
			return p, &DateError{Key: KeyModifiedDate, Err: err}
		}
		p.Modified = &d
	}

	p.Description = fields[KeyDescription]
	p.Tags = model.ParseTags(fields[KeyTags])

	return p, nil
}
