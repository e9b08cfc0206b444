package domain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotPermutation = errors.New("new order is not a permutation of the current selection")
	ErrPlaceNotFound  = errors.New("place is not in the selection")
	ErrDuplicatePlace = errors.New("place is already in the selection")
)

// Selection is the ordered list of places a user has chosen.
// Insertion order is the route order. No two entries share a resolved
// display name, and the starting location, when present, is first
// unless the user explicitly reorders it.
//
// Selection is safe for concurrent use.
type Selection struct {
	mu     sync.Mutex
	places []Place
	newID  func() string
}

func NewSelection() *Selection {
	return &Selection{newID: uuid.NewString}
}

// Places returns a snapshot of the current order.
func (s *Selection) Places() []Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Place, 0, len(s.places))
	for _, p := range s.places {
		out = append(out, p.clone())
	}
	return out
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.places)
}

// Add appends a place under a fresh id. Any id on the input is ignored.
// It reports false and leaves the list untouched when an existing entry
// resolves to the same display name.
func (s *Selection) Add(p Place) (Place, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := p.DisplayName()
	for _, existing := range s.places {
		if existing.DisplayName() == name {
			return existing.clone(), false
		}
	}

	added := p.clone()
	added.ID = s.newID()
	s.places = append(s.places, added)

	return added.clone(), true
}

// Remove drops the entry with the given id. Absent ids are a no-op.
func (s *Selection) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.places[:0]
	removed := false
	for _, p := range s.places {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.places = kept

	return removed
}

// Replace swaps the entry with the given id for p, keeping its id and
// position. Another entry at the same coordinates or with the same
// display name makes it fail with ErrDuplicatePlace. A replaced starting
// location stays marked as the starting point.
func (s *Selection) Replace(id string, p Place) (Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := -1
	for i, existing := range s.places {
		if existing.ID == id {
			at = i
			break
		}
	}
	if at < 0 {
		return Place{}, fmt.Errorf("replace %q: %w", id, ErrPlaceNotFound)
	}

	name := p.DisplayName()
	for i, existing := range s.places {
		if i == at {
			continue
		}
		if (existing.Lat == p.Lat && existing.Lon == p.Lon) || existing.DisplayName() == name {
			return existing.clone(), fmt.Errorf("replace %q: %w", id, ErrDuplicatePlace)
		}
	}

	next := p.clone()
	next.ID = id
	if id == StartingLocationID {
		next.Tags[TagPlaceType] = PlaceTypeStartingPoint
	}
	s.places[at] = next

	return next.clone(), nil
}

// Reorder replaces the list wholesale. The new order must contain
// exactly the current entries (matched by id); otherwise the state is
// left unchanged and ErrNotPermutation is returned.
func (s *Selection) Reorder(order []Place) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPermutation(order); err != nil {
		return err
	}

	next := make([]Place, 0, len(order))
	for _, p := range order {
		next = append(next, p.clone())
	}
	s.places = next

	return nil
}

// ReorderByID reorders the current entries to follow ids.
func (s *Selection) ReorderByID(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]Place, len(s.places))
	for _, p := range s.places {
		byID[p.ID] = p
	}

	order := make([]Place, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder: unknown id %q: %w", id, ErrNotPermutation)
		}
		order = append(order, p)
	}

	if err := s.checkPermutation(order); err != nil {
		return err
	}
	s.places = order

	return nil
}

// SetStartingLocation replaces any existing starting point and prepends
// a new one.
func (s *Selection) SetStartingLocation(lat, lon float64, displayName string) Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := Place{
		ID:  StartingLocationID,
		Lat: lat,
		Lon: lon,
		Tags: map[string]string{
			TagName:      displayName,
			TagNameVI:    displayName,
			TagPlaceType: PlaceTypeStartingPoint,
		},
	}

	next := make([]Place, 0, len(s.places)+1)
	next = append(next, start)
	for _, p := range s.places {
		if p.ID == StartingLocationID {
			continue
		}
		next = append(next, p)
	}
	s.places = next

	return start.clone()
}

// checkPermutation must be called with s.mu held.
func (s *Selection) checkPermutation(order []Place) error {
	if len(order) != len(s.places) {
		return fmt.Errorf("reorder: got %d places, have %d: %w", len(order), len(s.places), ErrNotPermutation)
	}

	remaining := make(map[string]int, len(s.places))
	for _, p := range s.places {
		remaining[p.ID]++
	}
	for _, p := range order {
		if remaining[p.ID] == 0 {
			return fmt.Errorf("reorder: unexpected id %q: %w", p.ID, ErrNotPermutation)
		}
		remaining[p.ID]--
	}

	return nil
}
