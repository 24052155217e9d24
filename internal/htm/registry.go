package htm

import (
	"fmt"
	"sort"
	"strings"
)

type Factory func(b Base) Variant

var variants = map[string]Factory{
	"musikhin": func(b Base) Variant { return NewMusikhin(b) },
	"liu":      func(b Base) Variant { return NewLiu(b) },
}

// NewVariant builds the variant registered under name (case insensitive).
func NewVariant(name string, b Base) (Variant, error) {
	f, ok := variants[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return f(b), nil
}

func Variants() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
