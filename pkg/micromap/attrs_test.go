package micromap

import (
	"reflect"
	"testing"

	"github.com/cartoviz/micromap/pkg/errors"
)

func TestResolveAttributes(t *testing.T) {
	tests := []struct {
		name     string
		attrs    map[string][]string
		n        int
		want     map[string][]string
		wantCode errors.Code
	}{
		{
			name:  "Empty",
			attrs: nil,
			n:     3,
			want:  nil,
		},
		{
			name:  "Broadcast",
			attrs: map[string][]string{"shape": {"circle"}},
			n:     3,
			want:  map[string][]string{"shape": {"circle", "circle", "circle"}},
		},
		{
			name:  "FullLength",
			attrs: map[string][]string{"shape": {"circle", "square", "cross"}},
			n:     3,
			want:  map[string][]string{"shape": {"circle", "square", "cross"}},
		},
		{
			name:     "WrongLength",
			attrs:    map[string][]string{"shape": {"a", "b", "c", "d", "e"}},
			n:        3,
			wantCode: errors.ErrCodeInvalidAttributeLength,
		},
		{
			name:     "LengthTwoOfThree",
			attrs:    map[string][]string{"shape": {"a", "b"}},
			n:        3,
			wantCode: errors.ErrCodeInvalidAttributeLength,
		},
		{
			name:     "EmptyValues",
			attrs:    map[string][]string{"shape": {}},
			n:        3,
			wantCode: errors.ErrCodeInvalidAttributeLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAttributes(tt.attrs, tt.n, nil)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("ResolveAttributes() = %v, want error code %s", got, tt.wantCode)
				}
				if code := errors.GetCode(err); code != tt.wantCode {
					t.Errorf("error code = %s, want %s", code, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveAttributes() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveAttributes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveAttributesCollisionRename(t *testing.T) {
	schema := fakeSchema{
		numeric: map[string]bool{"poverty": true},
		strings: map[string]bool{"state": true},
	}

	got, err := ResolveAttributes(map[string][]string{
		"poverty": {"hatched"},
		"shape":   {"circle"},
	}, 2, schema)
	if err != nil {
		t.Fatalf("ResolveAttributes() error = %v", err)
	}

	if _, clash := got["poverty"]; clash {
		t.Error("colliding attribute kept the dataset column name")
	}
	if _, ok := got["poverty.1"]; !ok {
		t.Errorf("renamed attribute missing, have %v", got)
	}
	if _, ok := got["shape"]; !ok {
		t.Error("non-colliding attribute renamed")
	}
}

func TestResolveAttributesDetached(t *testing.T) {
	in := map[string][]string{"shape": {"circle", "square"}}
	got, err := ResolveAttributes(in, 2, nil)
	if err != nil {
		t.Fatalf("ResolveAttributes() error = %v", err)
	}

	got["shape"][0] = "mutated"
	if in["shape"][0] != "circle" {
		t.Error("resolved attributes alias the caller's slices")
	}
}
