package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSource is returned by ParseSource for names that do not match a source.
var ErrUnknownSource = errors.New("model: unknown GDP source")

// Source identifies one of the GDP-reporting bodies.
type Source int

const (
	// IMF is the International Monetary Fund estimate.
	IMF Source = iota
	// WorldBank is the World Bank estimate.
	WorldBank
	// UN is the United Nations estimate.
	UN
)

// Sources lists every source in picker order.
var Sources = []Source{IMF, UN, WorldBank}

// String returns the display name of the source.
func (s Source) String() string {
	switch s {
	case IMF:
		return "IMF"
	case WorldBank:
		return "World Bank"
	case UN:
		return "UN"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Key returns the machine key of the source (imf, world_bank, un).
func (s Source) Key() string {
	switch s {
	case IMF:
		return "imf"
	case WorldBank:
		return "world_bank"
	case UN:
		return "un"
	default:
		return ""
	}
}

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	return s >= IMF && s <= UN
}

// ParseSource parses a display name or key, ignoring case.
// "United Nations" and "worldbank" are accepted as aliases.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "imf":
		return IMF, nil
	case "world bank", "world_bank", "worldbank", "wb":
		return WorldBank, nil
	case "un", "united nations":
		return UN, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}
