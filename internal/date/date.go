// Package date implements the calendar date used in post front matter.
//
// Dates are written the way people write them by hand, "Jan 3, 2120", and
// always formatted back as "Jan 03, 2120". No calendar validation is done:
// "Feb 30, 2021" is a perfectly good Date.
package date

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Month is a month of the year, January = 1.
type Month uint8

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var abbreviations = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// String returns the three letter abbreviation of m.
func (m Month) String() string {
	if m < January || m > December {
		return "%!Month(" + strconv.Itoa(int(m)) + ")"
	}
	return abbreviations[m-1]
}

// ParseMonth matches the first three letters of s, case-insensitively,
// against the month abbreviations.
func ParseMonth(s string) (Month, error) {
	prefix := []rune(strings.ToLower(s))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	key := string(prefix)
	for i, abbr := range abbreviations {
		if strings.ToLower(abbr) == key {
			return Month(i + 1), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMonth, key)
}

// Date is a day on the calendar. The zero value is not a valid date.
type Date struct {
	Year  uint16
	Month Month
	Day   uint8
}

// New returns the date for the given year, month and day.
func New(year uint16, month Month, day uint8) Date {
	return Date{Year: year, Month: month, Day: day}
}

var (
	ErrNotThreeParts = errors.New("expected month, day and year")
	ErrUnknownMonth  = errors.New("unknown month")
	ErrDay           = errors.New("invalid day")
	ErrYear          = errors.New("invalid year")
)

// ParseError describes a date that could not be parsed.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse date %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a date of the form "Jan 3, 2120". Punctuation is ignored, so
// "Jan. 3 2120" and "january 03, 2120" parse to the same value.
func Parse(text string) (Date, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)

	parts := strings.Fields(clean)
	if len(parts) != 3 {
		return Date{}, &ParseError{Text: text, Err: fmt.Errorf("%w, got %d parts", ErrNotThreeParts, len(parts))}
	}

	month, err := ParseMonth(parts[0])
	if err != nil {
		return Date{}, &ParseError{Text: text, Err: err}
	}
	day, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		return Date{}, &ParseError{Text: text, Err: fmt.Errorf("%w: %w", ErrDay, err)}
	}
	year, err := strconv.ParseUint(parts[2], 10, 16)
	if err != nil {
		return Date{}, &ParseError{Text: text, Err: fmt.Errorf("%w: %w", ErrYear, err)}
	}

	return Date{Year: uint16(year), Month: month, Day: uint8(day)}, nil
}

// MustParse is like Parse but panics on error. Meant for tests and constants.
func MustParse(text string) Date {
	d, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

// String formats d as "Jan 03, 2120".
func (d Date) String() string {
	return fmt.Sprintf("%s %02d, %d", d.Month, d.Day, d.Year)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other, ordering by year, then month, then day.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmp.Compare(d.Year, other.Year)
	case d.Month != other.Month:
		return cmp.Compare(d.Month, other.Month)
	default:
		return cmp.Compare(d.Day, other.Day)
	}
}

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool { return d == other }

// Before reports whether d comes strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d comes strictly after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Time converts d to midnight UTC. Out-of-range days are normalised by the
// time package, so Feb 30 becomes Mar 2 (or Mar 1 in leap years).
func (d Date) Time() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
