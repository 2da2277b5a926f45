package workload

import (
	"errors"
	"fmt"
	"time"
)

const DateKeyLayout = "2006-01-02"

var ErrInvalidDateKey = errors.New("invalid date key")

type Ordering int

const (
	Before Ordering = -1
	Same   Ordering = 0
	After  Ordering = 1
)

// DateCodec converts between dates and YYYY-MM-DD keys using calendar fields
// only. Keys are never derived from a UTC serialization of the instant.
type DateCodec struct {
	loc   *time.Location
	clock Clock
}

func NewDateCodec(loc *time.Location, clock Clock) *DateCodec {
	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &DateCodec{loc: loc, clock: clock}
}

func (c *DateCodec) Location() *time.Location {
	return c.loc
}

// Key formats t from its own year/month/day fields.
func Key(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

func (c *DateCodec) Key(t time.Time) string {
	return Key(t)
}

// Now is the clock's instant seen in the configured location.
func (c *DateCodec) Now() time.Time {
	return c.clock().In(c.loc)
}

// Today is the key of the current local date, time of day discarded.
func (c *DateCodec) Today() string {
	return Key(c.Midnight(c.Now()))
}

// Midnight returns 00:00 of t's calendar date in the configured location.
func (c *DateCodec) Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// Parse turns a key back into midnight of that date in the configured location.
func (c *DateCodec) Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateKeyLayout, key, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDateKey, key, err)
	}
	if Key(t) != key {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDateKey, key)
	}
	return t, nil
}

// AddDays shifts a key by n calendar days. Arithmetic is anchored at noon so
// DST transitions cannot move the result onto a neighbouring date.
func (c *DateCodec) AddDays(key string, n int) (string, error) {
	t, err := c.Parse(key)
	if err != nil {
		return "", err
	}
	return Key(addDays(t, n, c.loc)), nil
}

func (c *DateCodec) Yesterday() string {
	return Key(addDays(c.Now(), -1, c.loc))
}

// Compare orders two keys. The key format is fixed-width and most significant
// field first, so a string comparison is a date comparison.
func Compare(a, b string) Ordering {
	switch {
	case a < b:
		return Before
	case a > b:
		return After
	default:
		return Same
	}
}

func (c *DateCodec) IsPast(key string) bool {
	return Compare(key, c.Today()) == Before
}

func (c *DateCodec) IsToday(key string) bool {
	return key == c.Today()
}

func (c *DateCodec) IsFuture(key string) bool {
	return Compare(key, c.Today()) == After
}

func addDays(t time.Time, n int, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 12, 0, 0, 0, loc)
}
