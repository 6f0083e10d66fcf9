package micromap

import (
	"github.com/cartoviz/micromap/pkg/errors"
)

// VariableSpec identifies one plotted statistic. Name must exist in the
// dataset schema; XLab and Label default to Name when empty.
type VariableSpec struct {
	Name  string `json:"name" toml:"name"`
	XLab  string `json:"xlab,omitempty" toml:"xlab"`
	Label string `json:"label,omitempty" toml:"label"`
}

// Schema is the dataset collaborator contract needed for variable
// resolution.
type Schema interface {
	HasColumn(name string) bool
	IsNumeric(name string) bool
	IsUnique(name string) bool
}

// ResolveVariables validates and normalizes the variable configuration
// against the dataset schema. It returns the canonical spec list with the
// grouping variable first, followed by the optional variables in their given
// order. Resolution is pure: the dataset is never mutated.
func ResolveVariables(schema Schema, idVar string, grouping VariableSpec, optional []VariableSpec) ([]VariableSpec, error) {
	if idVar == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "id variable is required")
	}
	if !schema.HasColumn(idVar) {
		return nil, errors.New(errors.ErrCodeUnknownVariable, "id variable %q not in dataset", idVar)
	}
	if !schema.IsUnique(idVar) {
		return nil, errors.New(errors.ErrCodeNonUniqueID, "id variable %q has duplicate values", idVar)
	}

	out := make([]VariableSpec, 0, len(optional)+1)

	g, err := resolveOne(schema, grouping, "grouping variable")
	if err != nil {
		return nil, err
	}
	out = append(out, g)

	for _, spec := range optional {
		v, err := resolveOne(schema, spec, "variable")
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// resolveOne validates a single spec and fills defaulted labels.
func resolveOne(schema Schema, spec VariableSpec, kind string) (VariableSpec, error) {
	if spec.Name == "" {
		return VariableSpec{}, errors.New(errors.ErrCodeInvalidConfig, "%s has no name", kind)
	}
	if !schema.HasColumn(spec.Name) {
		return VariableSpec{}, errors.New(errors.ErrCodeUnknownVariable,
			"%s %q not in dataset", kind, spec.Name)
	}
	if !schema.IsNumeric(spec.Name) {
		return VariableSpec{}, errors.New(errors.ErrCodeUnknownVariable,
			"%s %q is not numeric", kind, spec.Name)
	}
	if spec.XLab == "" {
		spec.XLab = spec.Name
	}
	if spec.Label == "" {
		spec.Label = spec.Name
	}
	return spec, nil
}
