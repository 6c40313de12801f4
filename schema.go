package esguard

import "slices"

// Schema bundles a root type with its default caps and formats under an id
// such as "search" or "pipeline".
type Schema struct {
	ID      string
	Title   string
	Root    *Type
	Caps    CapPolicy
	Options []ValidatorOption
}

// Validator builds a Validator for s; extra options apply after s.Options.
func (s Schema) Validator(extra ...ValidatorOption) (*Validator, error) {
	return NewValidator(s.Root, s.Caps, slices.Concat(s.Options, extra)...)
}

// WithCaps returns a copy of s using caps.
func (s Schema) WithCaps(caps CapPolicy) Schema {
	s.Caps = caps
	return s
}
