package analysis

import "errors"

// ErrNoSource is returned by Analyze when the source it is given is empty
// (SPEC_FULL.md §7: "fails loudly ... before any analysis begins").
var ErrNoSource = errors.New("analysis: neither source code nor file path provided")

// ErrInvalidLanguage is returned by Analyze when the language selector does
// not match a known language — the InvalidEnumValue sentinel case. The
// analysis refuses to run; no parse producer is selected.
var ErrInvalidLanguage = errors.New("analysis: unknown language selector")

// UnknownFunctionError is returned by (*Analysis).GetFunction when name
// names no function present in the analyzed source.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return "analysis: unknown function: " + e.Name
}
