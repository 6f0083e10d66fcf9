package micromap

import (
	"sync"

	"github.com/google/uuid"
)

// SyncPolicy controls how a display joining a link group reconciles its
// selection with the group's existing state.
type SyncPolicy string

const (
	// SyncPull adopts the link group's existing selection on join.
	SyncPull SyncPolicy = "pull"

	// SyncPush overwrites the link group's selection with this display's
	// on join.
	SyncPush SyncPolicy = "push"
)

// ValidSync reports whether p names a known synchronization policy.
func ValidSync(p SyncPolicy) bool {
	return p == SyncPull || p == SyncPush
}

// LinkHub couples displays into link groups for cross-display selection.
// Displays sharing a linking-group identifier share one selection set keyed
// by region linking keys. The hub is an explicit value handed to each
// display; there is no process-wide registry.
type LinkHub struct {
	mu     sync.Mutex
	groups map[string]*linkState
}

// linkState is the shared selection of one link group.
type linkState struct {
	mu       sync.Mutex
	selected map[string]bool // by linking key
}

// NewLinkHub creates an empty hub.
func NewLinkHub() *LinkHub {
	return &LinkHub{groups: make(map[string]*linkState)}
}

// NewGroupID returns a fresh linking-group identifier. Displays that are not
// configured with an explicit group get a private one.
func NewGroupID() string {
	return uuid.NewString()
}

// join attaches to a link group, creating it on first use, and reconciles
// selection per the sync policy. A display joins at construction time with
// nothing selected, so push replaces the group's selection with an empty
// set while pull adopts whatever the group already holds.
func (h *LinkHub) join(groupID string, policy SyncPolicy) *linkState {
	h.mu.Lock()
	state, ok := h.groups[groupID]
	if !ok {
		state = &linkState{selected: make(map[string]bool)}
		h.groups[groupID] = state
	}
	h.mu.Unlock()

	if policy == SyncPush {
		state.clear()
	}
	return state
}

// Selected returns the selection of a link group as a sorted-insensitive
// copy, empty if the group does not exist.
func (h *LinkHub) Selected(groupID string) []string {
	h.mu.Lock()
	state, ok := h.groups[groupID]
	h.mu.Unlock()
	if !ok {
		return nil
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	out := make([]string, 0, len(state.selected))
	for k := range state.selected {
		out = append(out, k)
	}
	return out
}

func (s *linkState) set(keys []string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if selected {
			s.selected[k] = true
		} else {
			delete(s.selected, k)
		}
	}
}

func (s *linkState) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]bool)
}

func (s *linkState) isSelected(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected[key]
}
