// Package persona resolves the list of selectable custom GPTs. Resolution is
// a prioritized chain: remote endpoint, then a static configured list, then
// built-in defaults. Loading never fails; every step logs what it resolved.
package persona

// Persona is a named behavioral preset selectable by the user. Personas are
// unique by ID within a loaded set and immutable once loaded; each reload
// replaces the set wholesale.
type Persona struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Defaults returns the two built-in personas used when no other source
// yields a result.
func Defaults() []Persona {
	return []Persona{
		{ID: "gertrude", Label: "Gertrude (review hawk)"},
		{ID: "ida", Label: "Ida (integrator)"},
	}
}
