// Package normalization maps loosely written strings onto enum values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer provides type-safe string-to-enum normalization with error handling.
type Normalizer[T comparable] struct {
	values    map[string]T
	validKeys []string
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// Keys are matched case-insensitively after trimming whitespace.
func NewNormalizer[T comparable](values map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{
		values:    make(map[string]T, len(values)),
		validKeys: make([]string, 0, len(values)),
	}
	for k, v := range values {
		key := normalize(k)
		n.values[key] = v
		n.validKeys = append(n.validKeys, key)
	}
	sort.Strings(n.validKeys)
	return n
}

// NormalizeWithError returns the value for raw or an error listing the valid keys.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.values[normalize(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.validKeys)
}

// ValidKeys returns all valid normalized keys.
func (n *Normalizer[T]) ValidKeys() []string {
	out := make([]string, len(n.validKeys))
	copy(out, n.validKeys)
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
