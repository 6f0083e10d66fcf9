package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cartoviz/micromap/pkg/dataset"
	"github.com/cartoviz/micromap/pkg/geo"
	"github.com/cartoviz/micromap/pkg/micromap"
)

func inspectorFixture(t *testing.T, nGroups int) InspectorModel {
	t.Helper()

	ds := dataset.New(4)
	if _, err := ds.AddStrings("id", []string{"a", "b", "c", "d"}); err != nil {
		t.Fatalf("AddStrings() error = %v", err)
	}
	if _, err := ds.AddNumeric("rate", []float64{10, 20, 30, 40}); err != nil {
		t.Fatalf("AddNumeric() error = %v", err)
	}

	gc := geo.NewMemoryProvider()
	for _, id := range []string{"a", "b", "c", "d"} {
		gc.Add(id)
	}

	d, err := micromap.New(ds, gc, nil, micromap.Config{
		IDVar:       "id",
		GroupingVar: micromap.VariableSpec{Name: "rate"},
		NGroups:     nGroups,
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return NewInspectorModel(d)
}

func keyPress(m InspectorModel, key string) InspectorModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(InspectorModel)
}

func TestInspectorDecrementStopsAtOneGroup(t *testing.T) {
	m := inspectorFixture(t, 2)

	m = keyPress(m, "-")
	if got := len(m.display.Groups()); got != 1 {
		t.Fatalf("after one decrement: %d groups, want 1", got)
	}

	// A further decrement must hold at one group, not bounce back up via
	// the default heuristic.
	m = keyPress(m, "-")
	if got := len(m.display.Groups()); got != 1 {
		t.Errorf("after decrement at minimum: %d groups, want 1", got)
	}
}

func TestInspectorIncrementAddsGroup(t *testing.T) {
	m := inspectorFixture(t, 1)

	m = keyPress(m, "+")
	if got := len(m.display.Groups()); got != 2 {
		t.Errorf("after increment: %d groups, want 2", got)
	}
}
