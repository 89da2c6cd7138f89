package domain

// FilterOp is the kind of a filter tree node.
type FilterOp int

const (
	OpEqual FilterOp = iota
	OpContainsAny
	OpAllOf
)

// Filter is one node of a boolean filter tree: an equality clause, a
// contains-any clause, or a conjunction of child nodes. A nil *Filter means
// no filtering.
type Filter struct {
	Op       FilterOp
	Property string
	Value    string
	Values   []string
	Operands []Filter
}

// Equal builds an equality clause on a single property.
func Equal(property, value string) Filter {
	return Filter{Op: OpEqual, Property: property, Value: value}
}

// ContainsAny builds a clause satisfied when the property's value set
// intersects the given values.
func ContainsAny(property string, values []string) Filter {
	return Filter{Op: OpContainsAny, Property: property, Values: values}
}

// AllOf combines clauses with logical AND.
func AllOf(operands ...Filter) Filter {
	return Filter{Op: OpAllOf, Operands: operands}
}
