// Package lang enumerates the source languages the analysis front ends
// accept and the per-language facts the core pipeline needs: whether the
// language has a syscall concept, and (for CPL) its fixed-width numeric
// type table.
package lang

// Language selects which front-end collaborator produced the UAST under
// analysis. The zero value, Unknown, is the InvalidEnumValue sentinel
// (SPEC_FULL.md §7): analysis.Analyze refuses to run for it.
type Language int

const (
	// Unknown is the InvalidEnumValue sentinel: no language selector
	// string matched a known language.
	Unknown Language = iota
	// C is the C-like surface language, routed through an existing C parser.
	C
	// CPL is the in-house C-variant language.
	CPL
)

// String renders the language name the way the CLI's --lang flag accepts it.
func (l Language) String() string {
	switch l {
	case C:
		return "c"
	case CPL:
		return "cpl"
	default:
		return "unknown"
	}
}

// Parse resolves a language selector string. An unrecognized selector
// returns (Unknown, false).
func Parse(selector string) (Language, bool) {
	switch selector {
	case "c", "C":
		return C, true
	case "cpl", "CPL":
		return CPL, true
	default:
		return Unknown, false
	}
}

// HasSyscalls reports whether l's SCALL instructions carry real meaning.
// Both supported languages do: C exposes SCALL through recognized libc
// syscall-wrapper call names, CPL through its explicit `syscall(...)` form.
// Any future language added without syscall semantics should return false
// here so feature.ExtractFunction reports the -1 sentinel instead of a
// count of zero.
func (l Language) HasSyscalls() bool {
	return l == C || l == CPL
}

// NumericType is one entry of CPL's fixed-width numeric type table.
type NumericType struct {
	Name       string `yaml:"name"`
	BitWidth   int    `yaml:"bit_width"`
	Signed     bool   `yaml:"signed"`
	FloatPoint bool   `yaml:"float_point"`
}

// CPLNumericTypes is CPL's fixed-width numeric type table: i8…i64,
// u8…u64, f32, f64. `str` is not a numeric type and is not listed here.
var CPLNumericTypes = []NumericType{
	{Name: "i8", BitWidth: 8, Signed: true},
	{Name: "i16", BitWidth: 16, Signed: true},
	{Name: "i32", BitWidth: 32, Signed: true},
	{Name: "i64", BitWidth: 64, Signed: true},
	{Name: "u8", BitWidth: 8, Signed: false},
	{Name: "u16", BitWidth: 16, Signed: false},
	{Name: "u32", BitWidth: 32, Signed: false},
	{Name: "u64", BitWidth: 64, Signed: false},
	{Name: "f32", BitWidth: 32, FloatPoint: true},
	{Name: "f64", BitWidth: 64, FloatPoint: true},
}

// CPLNumericType looks up a CPL numeric type by its keyword name.
func CPLNumericType(name string) (NumericType, bool) {
	for _, t := range CPLNumericTypes {
		if t.Name == name {
			return t, true
		}
	}
	return NumericType{}, false
}
