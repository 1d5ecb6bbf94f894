package assist

import (
	"fmt"
)

type PersonaKind string

const (
	KindLead       PersonaKind = "lead"
	KindSpecialist PersonaKind = "specialist"
)

// Persona is a named responding identity with fixed instructions, a
// synthesized voice, and a declared tool set. Personas are immutable
// once defined; exactly one is active at a time.
type Persona struct {
	ID           string
	Name         string
	Kind         PersonaKind
	Voice        string
	Instructions string
	Tools        []string
	AutoReturn   bool
}

// Allows reports whether the persona declared the named tool. An
// invocation outside the declared set is a configuration error.
func (p *Persona) Allows(tool string) bool {
	for _, t := range p.Tools {
		if t == tool {
			return true
		}
	}
	return false
}

// ValidatePersonas checks a profile's persona set: exactly one lead,
// unique non-empty ids, and every declared tool known to the catalog.
func ValidatePersonas(personas []*Persona) error {
	if len(personas) == 0 {
		return fmt.Errorf("no personas defined")
	}

	var leads int
	ids := make(map[string]bool)

	for _, p := range personas {
		if p.ID == "" {
			return fmt.Errorf("persona[%s] has no id", p.Name)
		}
		if ids[p.ID] {
			return fmt.Errorf("persona[%s] is defined twice", p.ID)
		}
		ids[p.ID] = true

		switch p.Kind {
		case KindLead:
			leads++
		case KindSpecialist:
		default:
			return fmt.Errorf("persona[%s]: unknown kind[%s]", p.ID, p.Kind)
		}

		for _, tool := range p.Tools {
			if _, exists := LookupTool(tool); !exists {
				return fmt.Errorf("persona[%s]: tool[%s] does not exist", p.ID, tool)
			}
		}
	}

	if leads != 1 {
		return fmt.Errorf("expected exactly one lead persona, got %d", leads)
	}

	return nil
}
