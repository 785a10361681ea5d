package logstore

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Category identifies a logical log stream. The set is closed: adding a
// stream means adding a constant here and a row to categoryTable.
type Category int

const (
	// CategoryDebug is the general device/system log.
	CategoryDebug Category = iota
	// CategoryInternal is logcap's own diagnostics log.
	CategoryInternal
)

var categoryTable = [...]struct {
	name string
	stem string
}{
	CategoryDebug:    {name: "debug", stem: "debug_log"},
	CategoryInternal: {name: "internal", stem: "internal_log"},
}

// ErrUnknownCategory is returned by ParseCategory for names outside the set.
var ErrUnknownCategory = errors.New("unknown log category")

// All returns every known category in declaration order.
func All() []Category {
	out := make([]Category, len(categoryTable))
	for i := range categoryTable {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryTable)
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryTable[c].name
}

// FileName returns the managed file name for the given date string.
func (c Category) FileName(date string) string {
	return fmt.Sprintf("%s_%s.log", categoryTable[c].stem, date)
}

// ParseCategory maps a category name (case-insensitive) to its Category.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, info := range categoryTable {
		if info.name == name {
			return Category(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownCategory, "%q", name)
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.Wrapf(ErrUnknownCategory, "%d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
