package micromap

import (
	"reflect"
	"testing"

	"github.com/cartoviz/micromap/pkg/errors"
)

// makeRegions builds regions with a single "v" statistic.
func makeRegions(vals map[string]float64) []*Region {
	out := make([]*Region, 0, len(vals))
	for name, v := range vals {
		out = append(out, &Region{
			ID:     name,
			Name:   name,
			Values: map[string]float64{"v": v},
		})
	}
	return out
}

func groupIDs(groups []Group) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		for _, r := range g.Regions {
			out[i] = append(out[i], r.ID)
		}
	}
	return out
}

func TestAssignGroups(t *testing.T) {
	tests := []struct {
		name     string
		vals     map[string]float64
		sizes    []int
		want     [][]string
		wantCode errors.Code
	}{
		{
			name:  "DescendingChunks",
			vals:  map[string]float64{"a": 10, "b": 40, "c": 20, "d": 30},
			sizes: []int{2, 2},
			want:  [][]string{{"b", "d"}, {"c", "a"}},
		},
		{
			name:  "TieBrokenByNameAscending",
			vals:  map[string]float64{"zeta": 5, "alpha": 5, "mid": 7},
			sizes: []int{2, 1},
			want:  [][]string{{"mid", "alpha"}, {"zeta"}},
		},
		{
			name:  "SingleGroup",
			vals:  map[string]float64{"a": 1, "b": 2},
			sizes: []int{2},
			want:  [][]string{{"b", "a"}},
		},
		{
			name:     "SizeMismatch",
			vals:     map[string]float64{"a": 1, "b": 2},
			sizes:    []int{3},
			wantCode: errors.ErrCodeInvalidGrouping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regions := makeRegions(tt.vals)
			groups, err := AssignGroups(regions, tt.sizes, "v")
			if tt.wantCode != "" {
				if err == nil {
					t.Fatal("AssignGroups() succeeded, want error")
				}
				if code := errors.GetCode(err); code != tt.wantCode {
					t.Errorf("error code = %s, want %s", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("AssignGroups() error = %v", err)
			}
			if got := groupIDs(groups); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("groups = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignGroupsWritesPositions(t *testing.T) {
	regions := makeRegions(map[string]float64{"a": 3, "b": 2, "c": 1})
	groups, err := AssignGroups(regions, []int{2, 1}, "v")
	if err != nil {
		t.Fatalf("AssignGroups() error = %v", err)
	}

	for gi, g := range groups {
		if g.Number != gi+1 {
			t.Errorf("group number = %d, want %d", g.Number, gi+1)
		}
		for ri, r := range g.Regions {
			if r.Group != g.Number {
				t.Errorf("region %s group = %d, want %d", r.ID, r.Group, g.Number)
			}
			if r.Row != ri+1 {
				t.Errorf("region %s row = %d, want %d", r.ID, r.Row, ri+1)
			}
		}
	}
}

func TestAssignGroupsDeterministic(t *testing.T) {
	vals := map[string]float64{
		"a": 5, "b": 5, "c": 5, "d": 3, "e": 3, "f": 9, "g": 1,
	}
	first, err := AssignGroups(makeRegions(vals), []int{4, 3}, "v")
	if err != nil {
		t.Fatalf("AssignGroups() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := AssignGroups(makeRegions(vals), []int{4, 3}, "v")
		if err != nil {
			t.Fatalf("AssignGroups() error = %v", err)
		}
		if !reflect.DeepEqual(groupIDs(first), groupIDs(again)) {
			t.Fatalf("run %d diverged: %v vs %v", i, groupIDs(first), groupIDs(again))
		}
	}
}

func TestOrderRows(t *testing.T) {
	a := &Region{ID: "a", Name: "a", Values: map[string]float64{"v": 1}}
	b := &Region{ID: "b", Name: "b", Values: map[string]float64{"v": 9}}
	c := &Region{ID: "c", Name: "c", Values: map[string]float64{"v": 5}}
	groups := []Group{{Number: 1, Regions: []*Region{a, b, c}}}

	OrderRows(groups, "v")

	want := []string{"b", "c", "a"}
	for i, r := range groups[0].Regions {
		if r.ID != want[i] {
			t.Errorf("row %d = %s, want %s", i+1, r.ID, want[i])
		}
		if r.Row != i+1 {
			t.Errorf("region %s row = %d, want %d", r.ID, r.Row, i+1)
		}
	}
}
