package post_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/suspect/internal/date"
	"github.com/Bitlatte/suspect/internal/frontmatter"
	"github.com/Bitlatte/suspect/internal/model"
	"github.com/Bitlatte/suspect/internal/post"
)

const fullPost = `# header comment
slug=hello-world
author=quat
title=Hello, World
description=The first one
created_date=Jan 3, 2020
modified_date=Feb 10, 2021
tags=meta, misc ,meta
unknown=ignored
---
Some ~~struck~~ text[^1].

| a | b |
|---|---|
| 1 | 2 |

- [x] done
- [ ] todo

<span class="raw">inline html</span>

[^1]: the footnote
`

func writePost(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writePost(t, t.TempDir(), "hello.md", fullPost)

	p, err := post.NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, p.Path)
	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, "quat", p.Author)
	assert.Equal(t, "Hello, World", p.Title)
	assert.Equal(t, "The first one", p.Description)
	assert.Equal(t, date.New(2020, date.January, 3), p.Created)
	require.NotNil(t, p.Modified)
	assert.Equal(t, date.New(2021, date.February, 10), *p.Modified)
	assert.Equal(t, []model.Tag{"meta", "misc", "meta"}, p.Tags)

	html := string(p.Content)
	assert.Contains(t, html, "<del>struck</del>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, `type="checkbox"`)
	assert.Contains(t, html, "footnote")
	assert.Contains(t, html, `<span class="raw">inline html</span>`)
	assert.NotContains(t, html, "slug=")
}

func TestRead_OptionalFields(t *testing.T) {
	src := "slug=a\nauthor=b\ntitle=c\ncreated_date=Jan 1, 2020\n---\nbody\n"
	p, err := post.NewLoader().Read("a.md", strings.NewReader(src))
	require.NoError(t, err)

	assert.Empty(t, p.Description)
	assert.Nil(t, p.Modified)
	assert.Empty(t, p.Tags)
	assert.Equal(t, "<p>body</p>\n", string(p.Content))
}

func TestRead_BodyIsRenderedWhole(t *testing.T) {
	src := "slug=a\nauthor=b\ntitle=c\ncreated_date=Jan 1, 2020\n---\n" +
		"```\ncode\n\nstill code\n```\n"
	p, err := post.NewLoader().Read("a.md", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "<pre><code>code\n\nstill code\n</code></pre>\n", string(p.Content))
}

func TestRead_MissingFields(t *testing.T) {
	base := map[string]string{
		"slug":         "slug=a",
		"author":       "author=b",
		"title":        "title=c",
		"created_date": "created_date=Jan 1, 2020",
	}
	tests := []struct {
		drop string
		want error
	}{
		{"slug", post.ErrNoSlug},
		{"author", post.ErrNoAuthor},
		{"title", post.ErrNoTitle},
		{"created_date", post.ErrNoCreatedDate},
	}

	for _, tt := range tests {
		t.Run(tt.drop, func(t *testing.T) {
			var lines []string
			for _, key := range []string{"slug", "author", "title", "created_date"} {
				if key != tt.drop {
					lines = append(lines, base[key])
				}
			}
			src := strings.Join(lines, "\n") + "\n---\nbody"

			_, err := post.NewLoader().Read("x.md", strings.NewReader(src))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var le *post.LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, "x.md", le.Path)
		})
	}
}

func TestRead_EmptyRequiredValue(t *testing.T) {
	src := "slug=\nauthor=b\ntitle=c\ncreated_date=Jan 1, 2020\n---\n"
	_, err := post.NewLoader().Read("x.md", strings.NewReader(src))
	assert.ErrorIs(t, err, post.ErrNoSlug)
}

func TestRead_BadDates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		key  string
	}{
		{"created", "slug=a\nauthor=b\ntitle=c\ncreated_date=yesterday\n---\n", post.KeyCreatedDate},
		{"modified", "slug=a\nauthor=b\ntitle=c\ncreated_date=Jan 1, 2020\nmodified_date=Smarch 1, 2020\n---\n", post.KeyModifiedDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := post.NewLoader().Read("x.md", strings.NewReader(tt.src))
			require.Error(t, err)

			var de *post.DateError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.key, de.Key)

			var pe *date.ParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestRead_FrontMatterErrors(t *testing.T) {
	_, err := post.NewLoader().Read("x.md", strings.NewReader("slug=a\nnot a pair\n---\n"))
	assert.ErrorIs(t, err, frontmatter.ErrSyntax)

	_, err = post.NewLoader().Read("x.md", strings.NewReader("slug=a\n"))
	assert.ErrorIs(t, err, frontmatter.ErrUnterminated)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := post.NewLoader().Load(filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithSanitizer(t *testing.T) {
	src := "slug=a\nauthor=b\ntitle=c\ncreated_date=Jan 1, 2020\n---\n" +
		"hello <script>alert(1)</script>\n\n~~gone~~\n"

	raw, err := post.NewLoader().Read("a.md", strings.NewReader(src))
	require.NoError(t, err)
	assert.Contains(t, string(raw.Content), "<script>")

	clean, err := post.NewLoader(post.WithSanitizer()).Read("a.md", strings.NewReader(src))
	require.NoError(t, err)
	assert.NotContains(t, string(clean.Content), "<script>")
	assert.Contains(t, string(clean.Content), "gone")
}
