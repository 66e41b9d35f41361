// Package frontmatter reads the key=value header at the top of a post file.
//
//	slug=hello-world
//	title=Hello, World
//	# comments and blank lines are skipped
//
//	tags=meta, misc
//	---
//	Markdown body...
package frontmatter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Delimiter ends the header. Any line starting with it counts.
const Delimiter = "---"

var (
	// ErrSyntax is matched by every *SyntaxError.
	ErrSyntax = errors.New("front matter syntax error")
	// ErrUnterminated is returned when the input ends before the delimiter.
	ErrUnterminated = errors.New("front matter not terminated by " + Delimiter)
)

// SyntaxError reports a header line that is not a comment, blank, or key=value pair.
type SyntaxError struct {
	Line int
	Text string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("front matter line %d: missing '=' in %q", e.Line, e.Text)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// Parse consumes header lines from r up to and including the delimiter line
// and returns the key/value pairs found. Keys and values are trimmed; a
// repeated key keeps its last value. On success r is positioned at the first
// byte of the body.
func Parse(r *bufio.Reader) (map[string]string, error) {
	fields := make(map[string]string)

	for n := 1; ; n++ {
		raw, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read front matter: %w", err)
		}
		if raw == "" && errors.Is(err, io.EOF) {
			return nil, ErrUnterminated
		}

		line := strings.TrimRight(raw, "\r\n")
		if strings.HasPrefix(line, Delimiter) {
			return fields, nil
		}

		if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "#") {
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				return nil, &SyntaxError{Line: n, Text: line}
			}
			fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}

		if errors.Is(err, io.EOF) {
			return nil, ErrUnterminated
		}
	}
}
