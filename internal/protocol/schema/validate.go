package schema

import (
	"fmt"

	"github.com/danmuck/camelwire/internal/protocol/ber"
)

// ValidationError rejects a schema that could not be decoded
// deterministically.
type ValidationError struct {
	Schema string
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: %s: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("schema: %s field=%s: %s", e.Schema, e.Field, e.Reason)
}

func checkField(owner string, f FieldSpec, seen map[string]struct{}) error {
	if f.Name == "" {
		return ValidationError{Schema: owner, Reason: "field without a name"}
	}
	if _, dup := seen[f.Name]; dup {
		return ValidationError{Schema: owner, Field: f.Name, Reason: "duplicate field name"}
	}
	seen[f.Name] = struct{}{}
	if f.Type == nil {
		return ValidationError{Schema: owner, Field: f.Name, Reason: "field without a type"}
	}
	if f.Tagging == Implicit && (f.Type.form == FormChoice || f.Type.form == FormOpaque) {
		return ValidationError{Schema: owner, Field: f.Name, Reason: "implicit tag on " + f.Type.form.String()}
	}
	if f.Type.form == FormDelegated && f.Type.delegate == "" {
		return ValidationError{Schema: owner, Field: f.Name, Reason: "delegated type without a sub-decoder name"}
	}
	if f.Tagging == NotApplicable && f.Check == Strict {
		return ValidationError{Schema: owner, Field: f.Name, Reason: "strict tag check on an untagged field"}
	}
	return nil
}

// validateSequence requires that an absent OPTIONAL field can always be
// told apart from the fields after it: its tags must not collide with any
// field up to and including the next required one.
func validateSequence(s *Schema) error {
	seen := make(map[string]struct{}, len(s.fields))
	for _, f := range s.fields {
		if err := checkField(s.name, f, seen); err != nil {
			return err
		}
	}
	for i, f := range s.fields {
		if !f.IsOptional() {
			continue
		}
		tags, ok := f.Tags()
		if !ok {
			if i != len(s.fields)-1 {
				return ValidationError{Schema: s.name, Field: f.Name, Reason: "optional field accepting any tag must be last"}
			}
			continue
		}
		for _, g := range s.fields[i+1:] {
			gtags, gok := g.Tags()
			if !gok {
				return ValidationError{Schema: s.name, Field: f.Name, Reason: "optional field precedes " + g.Name + " which accepts any tag"}
			}
			if t, clash := overlap(tags, gtags); clash {
				return ValidationError{
					Schema: s.name,
					Field:  f.Name,
					Reason: fmt.Sprintf("tag %s also accepted by %s", t, g.Name),
				}
			}
			if !g.IsOptional() {
				break
			}
		}
	}
	return nil
}

func validateChoice(s *Schema) error {
	if len(s.fields) == 0 {
		return ValidationError{Schema: s.name, Reason: "choice without alternatives"}
	}
	seen := make(map[string]struct{}, len(s.fields))
	for i, f := range s.fields {
		if err := checkField(s.name, f, seen); err != nil {
			return err
		}
		if f.IsOptional() {
			return ValidationError{Schema: s.name, Field: f.Name, Reason: "optional choice alternative"}
		}
		tags, ok := f.Tags()
		if !ok {
			return ValidationError{Schema: s.name, Field: f.Name, Reason: "alternative accepts any tag"}
		}
		for _, t := range tags {
			if j, dup := s.alts[t]; dup {
				return ValidationError{
					Schema: s.name,
					Field:  f.Name,
					Reason: fmt.Sprintf("tag %s already selects %s", t, s.fields[j].Name),
				}
			}
			s.alts[t] = i
		}
	}
	return nil
}

func validateList(s *Schema) error {
	if s.elem == nil {
		return ValidationError{Schema: s.name, Reason: s.form.String() + " without an element type"}
	}
	return nil
}

func overlap(a, b []ber.Tag) (ber.Tag, bool) {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return x, true
			}
		}
	}
	return ber.Tag{}, false
}
