package filter

// Op is a comparison operator of a filter leaf.
type Op uint8

// Comparison operators.
const (
	OpGT  Op = iota + 1 // >
	OpGTE               // >=
	OpEQ                // =
	OpLTE               // <=
	OpLT                // <
)

// Ops lists every operator in variant order.
var Ops = [...]Op{OpGT, OpGTE, OpEQ, OpLTE, OpLT}

var (
	opSymbols = [...]string{
		OpGT:  ">",
		OpGTE: ">=",
		OpEQ:  "=",
		OpLTE: "<=",
		OpLT:  "<",
	}
	opNames = [...]string{
		OpGT:  "GreaterThan",
		OpGTE: "GreaterEqualThan",
		OpEQ:  "Equal",
		OpLTE: "LowerEqualThan",
		OpLT:  "LowerThan",
	}
)

// Valid reports if o is a known operator.
func (o Op) Valid() bool {
	return o >= OpGT && o <= OpLT
}

// String returns the SQL symbol of the operator.
func (o Op) String() string {
	if !o.Valid() {
		return "?"
	}
	return opSymbols[o]
}

// Name returns the name used as the suffix of a variant, e.g. GreaterEqualThan.
func (o Op) Name() string {
	if !o.Valid() {
		return ""
	}
	return opNames[o]
}
