package scanner

import "golang.org/x/exp/constraints"

// Type tags the numeric interpretation of a candidate. The high nibble
// carries the type family and the low nibble the byte width, so the
// width is recoverable without a lookup table.
type Type uint8

const (
	I32 Type = 0x04
	I64 Type = 0x18
	F32 Type = 0x24
	F64 Type = 0x38
)

// maxTypeSize is the widest supported value.
const maxTypeSize = 8

func (t Type) Size() int {
	return int(t & 0x0f)
}

func (t Type) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	}
	return "???"
}

// Comparison is the relational predicate applied during scans and
// refinements. The operand order is always (user value, observed value)
// and the relation reads from the observed side: Lt keeps candidates
// whose observed value is less than the user value.
type Comparison uint8

const (
	Eq Comparison = iota
	Lt
	Le
	Gt
	Ge
)

func (c Comparison) String() string {
	switch c {
	case Eq:
		return "="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	}
	return "?"
}

// compare follows IEEE-754 semantics for the float instantiations: any
// comparison against NaN is false and -0 equals +0.
func compare[T constraints.Ordered](user, observed T, c Comparison) bool {
	switch c {
	case Eq:
		return observed == user
	case Lt:
		return observed < user
	case Le:
		return observed <= user
	case Gt:
		return observed > user
	case Ge:
		return observed >= user
	}
	return false
}
