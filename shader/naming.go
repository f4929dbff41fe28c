package shader

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TypeName is a declared type name together with every name derived from it.
// All derived forms are pure functions of Name.
type TypeName struct {
	Name  string `json:"name"`
	Snake string `json:"snake"`
	Upper string `json:"upper"`
	Lower string `json:"lower"`
}

func NewTypeName(name string) TypeName {
	return TypeName{
		Name:  name,
		Snake: snakeCase(name),
		Upper: cases.Upper(language.Und).String(name),
		Lower: cases.Lower(language.Und).String(name),
	}
}

func (n TypeName) String() string {
	return n.Name
}

// UniformVar is the module-scope variable holding a uniform.
func (n TypeName) UniformVar() string {
	return n.Lower
}

func (n TypeName) InputArrayVar() string {
	return n.Lower + "_input_array"
}

func (n TypeName) OutputArrayVar() string {
	return n.Lower + "_output_array"
}

func (n TypeName) CounterVar() string {
	return n.Lower + "_counter"
}

// OutputIndexVar is the local holding the slot claimed by a push.
func (n TypeName) OutputIndexVar() string {
	return n.Lower + "_output_array_index"
}

func (n TypeName) InputLengthConst() string {
	return n.Upper + "_INPUT_ARRAY_LENGTH"
}

func (n TypeName) OutputLengthConst() string {
	return n.Upper + "_OUTPUT_ARRAY_LENGTH"
}

// snakeCase converts a Go identifier to snake_case, keeping acronyms together
// ("HTTPServer" becomes "http_server").
func snakeCase(name string) string {
	runes := []rune(name)
	builder := &strings.Builder{}
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 && runes[i-1] != '_' {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				builder.WriteByte('_')
			}
		}
		builder.WriteRune(unicode.ToLower(r))
	}
	return builder.String()
}
