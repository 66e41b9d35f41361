package post

import (
	"errors"
	"fmt"
)

var (
	ErrNoSlug        = errors.New("no post slug specified")
	ErrNoAuthor      = errors.New("no post author specified")
	ErrNoTitle       = errors.New("no post title specified")
	ErrNoCreatedDate = errors.New("no creation date specified")
)

// LoadError wraps any failure to load the post at Path.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load post %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// DateError reports a date field whose value could not be parsed.
type DateError struct {
	Key string
	Err error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }
