// Package content builds and publishes the in-memory index of every post.
//
// A Snapshot is built wholesale from a directory by a Builder and published
// through a Store. Snapshots are never modified after construction, so any
// number of readers may hold one while a newer one is being built.
package content

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Bitlatte/suspect/internal/model"
)

// ErrDuplicateSlug is matched by every *DuplicateSlugError.
var ErrDuplicateSlug = errors.New("duplicate slug")

// DuplicateSlugError reports two posts sharing a slug.
type DuplicateSlugError struct {
	Slug   string
	First  string
	Second string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("duplicate slug %q in %s and %s", e.Slug, e.First, e.Second)
}

func (e *DuplicateSlugError) Is(target error) bool { return target == ErrDuplicateSlug }

// Snapshot is an immutable, fully indexed view of the post corpus.
//
// posts is ordered newest first. bySlug and byTag hold positions into posts.
type Snapshot struct {
	posts  []model.Post
	bySlug map[string]int
	byTag  map[model.Tag][]int
}

// NewSnapshot sorts posts by creation date, newest first, breaking ties by
// slug, and indexes them. The input slice is not modified.
func NewSnapshot(posts []model.Post) (*Snapshot, error) {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b model.Post) int {
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})

	s := &Snapshot{
		posts:  sorted,
		bySlug: make(map[string]int, len(sorted)),
		byTag:  make(map[model.Tag][]int),
	}

	for i, p := range sorted {
		if j, dup := s.bySlug[p.Slug]; dup {
			return nil, &DuplicateSlugError{Slug: p.Slug, First: sorted[j].Path, Second: p.Path}
		}
		s.bySlug[p.Slug] = i

		for _, t := range p.Tags {
			indices := s.byTag[t]
			// a post listing a tag twice is only indexed once
			if n := len(indices); n > 0 && indices[n-1] == i {
				continue
			}
			s.byTag[t] = append(indices, i)
		}
	}

	return s, nil
}

// Empty returns a snapshot with no posts.
func Empty() *Snapshot {
	s, _ := NewSnapshot(nil)
	return s
}

// Len returns the number of posts.
func (s *Snapshot) Len() int { return len(s.posts) }

// Posts returns every post, newest first.
func (s *Snapshot) Posts() []model.Post {
	return slices.Clone(s.posts)
}

// Latest returns at most n posts, newest first.
func (s *Snapshot) Latest(n int) []model.Post {
	if n > len(s.posts) {
		n = len(s.posts)
	}
	if n < 0 {
		n = 0
	}
	return slices.Clone(s.posts[:n])
}

// Post returns the post at position i of Posts.
func (s *Snapshot) Post(i int) model.Post { return s.posts[i] }

// Index returns the position of the post with the given slug.
func (s *Snapshot) Index(slug string) (int, bool) {
	i, ok := s.bySlug[slug]
	return i, ok
}

// BySlug looks up a post by slug.
func (s *Snapshot) BySlug(slug string) (model.Post, bool) {
	i, ok := s.bySlug[slug]
	if !ok {
		return model.Post{}, false
	}
	return s.posts[i], true
}

// TagIndices returns the positions of the posts carrying t, in post order.
func (s *Snapshot) TagIndices(t model.Tag) []int {
	return slices.Clone(s.byTag[t])
}

// ByTag returns the posts carrying t, newest first.
func (s *Snapshot) ByTag(t model.Tag) []model.Post {
	indices := s.byTag[t]
	posts := make([]model.Post, len(indices))
	for k, i := range indices {
		posts[k] = s.posts[i]
	}
	return posts
}

// Tags returns every tag with its post count, sorted by tag.
func (s *Snapshot) Tags() []model.TagCount {
	tags := make([]model.TagCount, 0, len(s.byTag))
	for t, indices := range s.byTag {
		tags = append(tags, model.TagCount{Tag: t, Count: len(indices)})
	}
	slices.SortFunc(tags, func(a, b model.TagCount) int {
		return strings.Compare(string(a.Tag), string(b.Tag))
	})
	return tags
}
