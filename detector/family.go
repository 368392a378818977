package detector

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnknownFamily is returned when a family name does not resolve to
// a known tag family. It aborts the run before any image is processed.
var ErrUnknownFamily = errors.New("unknown tag family")

// Family describes a tag family: the codeword grid dimension and the
// minimum hamming distance between any two codes in the family.
type Family struct {
	Name string
	// Dim is the number of data bits per side (d); the verbose report
	// shows families as d*d h<MinHamming>.
	Dim int
	// MinHamming is the family's minimum inter-code hamming distance.
	MinHamming int
}

// families lists the tag families the harness accepts by name.
var families = map[string]Family{
	"tag16h5":        {Name: "tag16h5", Dim: 4, MinHamming: 5},
	"tag25h7":        {Name: "tag25h7", Dim: 5, MinHamming: 7},
	"tag25h9":        {Name: "tag25h9", Dim: 5, MinHamming: 9},
	"tag36h10":       {Name: "tag36h10", Dim: 6, MinHamming: 10},
	"tag36h11":       {Name: "tag36h11", Dim: 6, MinHamming: 11},
	"tag36artoolkit": {Name: "tag36artoolkit", Dim: 6, MinHamming: 0},
}

// FamilyByName resolves a family name, wrapping ErrUnknownFamily for
// names outside the registry.
func FamilyByName(name string) (Family, error) {
	fam, ok := families[name]
	if !ok {
		return Family{}, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
	return fam, nil
}

// FamilyNames returns the registered family names for help output.
func FamilyNames() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	return names
}
