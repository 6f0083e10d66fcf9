package geo

import (
	"testing"
)

func TestMemoryProviderDrawOrder(t *testing.T) {
	p := NewMemoryProvider()
	p.Add("a", "a.main", "a.island")
	p.Add("b")
	p.Add("c", "c.east", "c.west")

	all := p.AllParts()
	if len(all) != 5 {
		t.Fatalf("AllParts() returned %d parts, want 5", len(all))
	}
	for i, part := range all {
		if part.DrawIndex != i {
			t.Errorf("part %q draw index = %d, want %d", part.ID, part.DrawIndex, i)
		}
	}

	parts, err := p.Parts("a")
	if err != nil {
		t.Fatalf("Parts(a) error = %v", err)
	}
	if len(parts) != 2 || parts[0].ID != "a.main" || parts[1].ID != "a.island" {
		t.Errorf("Parts(a) = %v, want registration order", parts)
	}
	if parts[0].DrawIndex >= parts[1].DrawIndex {
		t.Error("Parts(a) not ordered by draw index")
	}
}

func TestMemoryProviderDefaultsPartID(t *testing.T) {
	p := NewMemoryProvider()
	p.Add("solo")

	parts, err := p.Parts("solo")
	if err != nil {
		t.Fatalf("Parts() error = %v", err)
	}
	if len(parts) != 1 || parts[0].ID != "solo" {
		t.Errorf("Parts(solo) = %v, want single part named after region", parts)
	}
}

func TestMemoryProviderUnknownRegion(t *testing.T) {
	p := NewMemoryProvider()
	if _, err := p.Parts("missing"); err == nil {
		t.Error("Parts() on unknown region succeeded")
	}
}

func TestMemoryProviderPartCount(t *testing.T) {
	p := NewMemoryProvider()
	p.Add("a", "a.1", "a.2", "a.3")

	if got := p.PartCount("a"); got != 3 {
		t.Errorf("PartCount(a) = %d, want 3", got)
	}
	if got := p.PartCount("missing"); got != 0 {
		t.Errorf("PartCount(missing) = %d, want 0", got)
	}
}

func TestMemoryProviderCopies(t *testing.T) {
	p := NewMemoryProvider()
	p.Add("a", "a.1", "a.2")

	parts, _ := p.Parts("a")
	parts[0].ID = "mutated"

	again, _ := p.Parts("a")
	if again[0].ID != "a.1" {
		t.Error("Parts() exposes internal storage")
	}

	all := p.AllParts()
	all[0].ID = "mutated"
	if p.AllParts()[0].ID != "a.1" {
		t.Error("AllParts() exposes internal storage")
	}
}
