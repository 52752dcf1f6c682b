package sphere

import (
	"fmt"
	"strings"

	"github.com/ivmel/reflecta/internal/errors"
)

// Sphere is a validated life-domain identifier. The zero value is not a
// valid sphere; construct one through Parse.
type Sphere string

const (
	Health        Sphere = "health"
	Relationships Sphere = "relationships"
	Money         Sphere = "money"
	Energy        Sphere = "energy"
	Career        Sphere = "career"
	Other         Sphere = "other"
)

// All lists the known spheres in display order.
var All = []Sphere{Health, Relationships, Money, Energy, Career, Other}

var titles = map[Sphere]string{
	Health:        "Health",
	Relationships: "Relationships",
	Money:         "Money",
	Energy:        "Energy",
	Career:        "Career",
	Other:         "Other",
}

// Parse validates a raw sphere key. Unknown keys are rejected at the
// boundary instead of being passed through silently.
func Parse(raw string) (Sphere, error) {
	s := Sphere(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := titles[s]; !ok {
		return "", errors.NewValidationError("sphere", fmt.Sprintf("unknown sphere %q", raw))
	}
	return s, nil
}

// IsValid reports whether s is one of the known spheres.
func (s Sphere) IsValid() bool {
	_, ok := titles[s]
	return ok
}

// Title returns the human-readable display name for s.
func (s Sphere) Title() string {
	if t, ok := titles[s]; ok {
		return t
	}
	return string(s)
}

func (s Sphere) String() string { return string(s) }

// FocusSet is the ordered set of spheres the user is actively working on.
// A valid set holds one or two spheres; index 0 is the primary sphere. An
// empty set is a degraded but tolerated configuration: question requests
// are then issued without a sphere filter.
type FocusSet struct {
	spheres []Sphere
}

// MaxFocusSpheres caps how many spheres a user can focus on at once.
const MaxFocusSpheres = 2

// NewFocusSet validates raw sphere keys into a FocusSet. Order is
// preserved. Duplicate or unknown keys are rejected.
func NewFocusSet(raw []string) (FocusSet, error) {
	if len(raw) > MaxFocusSpheres {
		return FocusSet{}, errors.NewValidationError("focus_spheres",
			fmt.Sprintf("at most %d spheres allowed, got %d", MaxFocusSpheres, len(raw)))
	}
	seen := make(map[Sphere]bool, len(raw))
	spheres := make([]Sphere, 0, len(raw))
	for _, r := range raw {
		s, err := Parse(r)
		if err != nil {
			return FocusSet{}, err
		}
		if seen[s] {
			return FocusSet{}, errors.NewValidationError("focus_spheres",
				fmt.Sprintf("duplicate sphere %q", r))
		}
		seen[s] = true
		spheres = append(spheres, s)
	}
	return FocusSet{spheres: spheres}, nil
}

// Len returns the number of focus spheres.
func (f FocusSet) Len() int { return len(f.spheres) }

// At returns the sphere at index i, or "" when the index is out of range.
// An out-of-range read maps to an unfiltered question request.
func (f FocusSet) At(i int) Sphere {
	if i < 0 || i >= len(f.spheres) {
		return ""
	}
	return f.spheres[i]
}

// Primary returns the sphere at index 0, or "" for an empty set.
func (f FocusSet) Primary() Sphere { return f.At(0) }

// Keys returns the raw sphere keys in order.
func (f FocusSet) Keys() []string {
	keys := make([]string, len(f.spheres))
	for i, s := range f.spheres {
		keys[i] = string(s)
	}
	return keys
}
