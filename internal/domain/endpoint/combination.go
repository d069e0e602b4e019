package endpoint

import "strings"

// Pair is one axis assignment inside a combination.
type Pair struct {
	Name  string
	Value string
}

// Combination is one concrete assignment across all axes an endpoint
// requires, in canonical axis order. The zero-length combination is valid
// and means "call once".
type Combination []Pair

// Key serializes the combination into its canonical stable form, used for
// set membership and for the failure ledger.
func (c Combination) Key() string {
	if len(c) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, pair := range c {
		if i > 0 {
			buf.WriteByte('|')
		}
		buf.WriteString(pair.Name)
		buf.WriteByte('=')
		buf.WriteString(pair.Value)
	}
	return buf.String()
}

// Values returns the combination as a map. Mutating the result does not
// affect the combination.
func (c Combination) Values() map[string]string {
	out := make(map[string]string, len(c))
	for _, pair := range c {
		out[pair.Name] = pair.Value
	}
	return out
}

// Space is the full cross product of an endpoint's axes. It is a pure value:
// recomputed on demand, never persisted, and generated in a deterministic
// order so repeated builds against unchanged state are identical.
type Space struct {
	Endpoint string
	Axes     []Axis
	Combos   []Combination
}

func (s Space) Size() int {
	return len(s.Combos)
}

// KeySet returns the membership index of the space.
func (s Space) KeySet() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Combos))
	for _, combo := range s.Combos {
		out[combo.Key()] = struct{}{}
	}
	return out
}

// WorkItem is one resolved candidate combination, ready for the execution
// layer. Params merges the combination values with the contract's static
// parameters.
type WorkItem struct {
	Endpoint    string
	Combination Combination
	Params      map[string]string
}
