package micromap

import (
	"github.com/cartoviz/micromap/pkg/errors"
)

// attrSuffix is the fixed suffix appended to an attribute name that collides
// with a dataset column, repeatedly until the name is free.
const attrSuffix = ".1"

// ResolveAttributes validates per-row visual attribute overrides. Each
// attribute must have length 1 (broadcast to all n rows) or length n (one
// value per region); any other length fails with INVALID_ATTRIBUTE_LENGTH.
// Attribute names that collide with an existing dataset column are renamed
// with the fixed ".1" suffix.
//
// The returned map always holds slices of length n.
func ResolveAttributes(attrs map[string][]string, n int, schema Schema) (map[string][]string, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make(map[string][]string, len(attrs))
	for name, values := range attrs {
		switch len(values) {
		case n:
			values = append([]string(nil), values...)
		case 1:
			broadcast := make([]string, n)
			for i := range broadcast {
				broadcast[i] = values[0]
			}
			values = broadcast
		default:
			return nil, errors.New(errors.ErrCodeInvalidAttributeLength,
				"attribute %q has length %d, want 1 or %d", name, len(values), n)
		}

		resolved := name
		for schema != nil && schema.HasColumn(resolved) {
			resolved += attrSuffix
		}
		for _, taken := out[resolved]; taken; _, taken = out[resolved] {
			resolved += attrSuffix
		}
		out[resolved] = values
	}
	return out, nil
}
