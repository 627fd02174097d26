package partition

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Strategy selects where a request is placed in the store.
type Strategy int

// The supported placement strategies.
const (
	// FirstFit places a request in the first free run, counted from offset
	// 0, that is large enough.
	FirstFit Strategy = iota

	// NextFit works like FirstFit, but starts scanning from the start of the
	// last placement and wraps around the end of the store.
	NextFit

	// BestFit places a request in the smallest free run that is large
	// enough. Ties go to the lowest offset.
	BestFit
)

// Strategies lists all the strategies in the order they are usually
// reported.
func Strategies() []Strategy {
	return []Strategy{FirstFit, NextFit, BestFit}
}

func (st Strategy) String() string {
	switch st {
	case FirstFit:
		return "first-fit"
	case NextFit:
		return "next-fit"
	case BestFit:
		return "best-fit"
	default:
		return fmt.Sprintf("Strategy(%d)", int(st))
	}
}

// Title returns a human-readable name, such as "First Fit".
func (st Strategy) Title() string {
	switch st {
	case FirstFit:
		return "First Fit"
	case NextFit:
		return "Next Fit"
	case BestFit:
		return "Best Fit"
	default:
		return st.String()
	}
}

// ParseStrategy converts a name such as "first-fit", "firstfit", or "ff" to a
// Strategy.
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer("-", "", "_", "", " ", "").
		Replace(normalized)

	switch normalized {
	case "firstfit", "first", "ff":
		return FirstFit, nil
	case "nextfit", "next", "nf":
		return NextFit, nil
	case "bestfit", "best", "bf":
		return BestFit, nil
	}

	return 0, errors.Errorf("partition: unknown strategy %q", name)
}
