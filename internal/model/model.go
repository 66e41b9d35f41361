package model

import (
	"html/template"
	"strings"

	"github.com/Bitlatte/suspect/internal/date"
)

// Post represents a single blog entry loaded from a post file.
type Post struct {
	Path        string
	Slug        string
	Author      string
	Title       string
	Description string // empty when not given
	Created     date.Date
	Modified    *date.Date
	Tags        []Tag
	Content     template.HTML
}

// HasTag reports whether t is among the post's tags.
func (p *Post) HasTag(t Tag) bool {
	for _, own := range p.Tags {
		if own == t {
			return true
		}
	}
	return false
}

// Tag is a free-form label attached to posts. Tags compare by their trimmed text.
type Tag string

// NewTag trims surrounding whitespace from s.
func NewTag(s string) Tag {
	return Tag(strings.TrimSpace(s))
}

// ParseTags splits a comma separated list, dropping empty items.
func ParseTags(list string) []Tag {
	var tags []Tag
	for _, item := range strings.Split(list, ",") {
		if t := NewTag(item); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (t Tag) String() string { return string(t) }
