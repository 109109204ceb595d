package chips

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the display bucket a denomination is rendered in.
type Category int

const (
	Small Category = iota
	Big
	Card
)

var categoryNames = [...]string{"small", "big", "card"}

func (c Category) String() string {
	if c < Small || c > Card {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText renders the category name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseCategory parses "small", "big" or "card".
func ParseCategory(s string) (Category, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == want {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("chips: unknown category %q", s)
}

// Denomination is one rung of a ladder.
type Denomination struct {
	Value    int
	Category Category
	// MaxStack is the tallest stack of this denomination shown before
	// consolidation is attempted.
	MaxStack int
}

// Ladder is a named, strictly ascending set of denominations.
type Ladder struct {
	Name          string
	Denominations []Denomination
}

var errEmptyLadder = errors.New("chips: ladder has no denominations")

// NewLadder validates and returns a ladder.
func NewLadder(name string, denoms ...Denomination) (Ladder, error) {
	l := Ladder{Name: name, Denominations: append([]Denomination(nil), denoms...)}
	if err := l.Validate(); err != nil {
		return Ladder{}, err
	}
	return l, nil
}

// Validate checks that values are positive and strictly ascending and that
// every capacity is positive.
func (l Ladder) Validate() error {
	if len(l.Denominations) == 0 {
		return errEmptyLadder
	}
	prev := 0
	for i, d := range l.Denominations {
		if d.Value <= 0 {
			return fmt.Errorf("chips: ladder %q: denomination %d has non-positive value %d", l.Name, i, d.Value)
		}
		if d.Value <= prev {
			return fmt.Errorf("chips: ladder %q: value %d is not above %d", l.Name, d.Value, prev)
		}
		if d.MaxStack <= 0 {
			return fmt.Errorf("chips: ladder %q: value %d has non-positive max stack %d", l.Name, d.Value, d.MaxStack)
		}
		if d.Category < Small || d.Category > Card {
			return fmt.Errorf("chips: ladder %q: value %d has unknown category %d", l.Name, d.Value, int(d.Category))
		}
		prev = d.Value
	}
	return nil
}

// Smallest returns the lowest denomination value.
func (l Ladder) Smallest() int {
	if len(l.Denominations) == 0 {
		return 0
	}
	return l.Denominations[0].Value
}

// DefaultLadder is the standard casino ladder used when no configuration is
// supplied.
func DefaultLadder() Ladder {
	return Ladder{
		Name: "default",
		Denominations: []Denomination{
			{Value: 1, Category: Small, MaxStack: 20},
			{Value: 5, Category: Small, MaxStack: 20},
			{Value: 25, Category: Small, MaxStack: 20},
			{Value: 100, Category: Small, MaxStack: 20},
			{Value: 500, Category: Big, MaxStack: 15},
			{Value: 1_000, Category: Big, MaxStack: 15},
			{Value: 5_000, Category: Big, MaxStack: 15},
			{Value: 25_000, Category: Big, MaxStack: 15},
			{Value: 100_000, Category: Card, MaxStack: 10},
			{Value: 500_000, Category: Card, MaxStack: 10},
			{Value: 1_000_000, Category: Card, MaxStack: 10},
		},
	}
}
