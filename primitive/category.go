package primitive

// CategoryEnum selects which implicit-typing rules the coercion engine
// applies on top of the plain spellings (true/false, decimal digits,
// decimal floats).
type CategoryEnum int

const (
	CategoryTextualBool     CategoryEnum = 1 << iota // string -> bool: y, yes, on, n, no, off spellings next to true/false
	CategoryBasePrefix                               // string -> int: 0b binary, 0x hexadecimal, 0 and 0o octal prefixes
	CategorySexagesimal                              // string -> int: colon separated base 60 chunks, 1:02:03
	CategoryDigitSeparators                          // string -> number: '_' digit group separators are ignored
	CategoryFloatSentinels                           // string -> float: .nan, .inf, -.inf special values
	CategoryDuration                                 // string(2h45m) -> time.Duration: textual duration representation
	CategoryNanoseconds                              // int(nanoseconds) -> time.Duration: numerical (integer) duration representation
	CategoryNumericBool                              // string(0, 1) -> bool: numeric representation of boolean values
	CategoryTimestamp                                // int(Unix seconds) -> time.Time: Unix timestamp representation

	CategoryAll  = (1 << iota) - 1 //all categories combined
	CategoryNone = 0               // no categories selected

	// CategoryDefault is the YAML 1.1 implicit typing rule set.
	CategoryDefault = CategoryTextualBool | CategoryBasePrefix | CategorySexagesimal |
		CategoryDigitSeparators | CategoryFloatSentinels | CategoryDuration | CategoryNanoseconds
)

// Has reports whether every category in other is enabled.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}
