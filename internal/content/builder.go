package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Bitlatte/suspect/internal/model"
)

// Loader loads a single post file.
type Loader interface {
	Load(path string) (model.Post, error)
}

// Builder builds snapshots from the post files in Dir.
type Builder struct {
	Dir    string
	Loader Loader
}

// NewBuilder returns a Builder reading posts from dir.
func NewBuilder(dir string, loader Loader) *Builder {
	return &Builder{Dir: dir, Loader: loader}
}

// Build loads every regular file in the directory and indexes the result.
// Subdirectories and dotfiles are skipped. Any post that fails to load fails
// the whole build.
func (b *Builder) Build() (*Snapshot, error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		return nil, fmt.Errorf("read content directory: %w", err)
	}

	posts := make([]model.Post, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		p, err := b.Loader.Load(filepath.Join(b.Dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return NewSnapshot(posts)
}
