package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operator is a comparison operator for field filters.
type Operator string

// Supported filter operators.
const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpIn           Operator = "in"
	OpNotIn        Operator = "not-in"
)

// Direction is an ordering direction.
type Direction string

// Ordering directions.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

type constraintKind int

const (
	kindWhere constraintKind = iota
	kindOrder
	kindLimit
)

// Constraint is a single query constraint: a field filter, an ordering, or a
// result-count limit. Constraints are pure values; structurally equal
// constraints serialize to identical tokens so that logically identical
// queries derive the same cache key.
type Constraint struct {
	kind      constraintKind
	field     string
	op        Operator
	value     interface{}
	direction Direction
	limit     int
}

// Where builds an equality/comparison filter on a field.
func Where(field string, op Operator, value interface{}) Constraint {
	return Constraint{kind: kindWhere, field: field, op: op, value: value}
}

// OrderBy builds an ordering constraint.
func OrderBy(field string, direction Direction) Constraint {
	return Constraint{kind: kindOrder, field: field, direction: direction}
}

// Limit builds a result-count limit constraint.
func Limit(n int) Constraint {
	return Constraint{kind: kindLimit, limit: n}
}

// Token returns a stable serialization of the constraint. Filter values are
// JSON-encoded (map keys are sorted by encoding/json) so equal values always
// produce equal tokens.
func (c Constraint) Token() string {
	switch c.kind {
	case kindWhere:
		raw, err := json.Marshal(c.value)
		if err != nil {
			raw = []byte(fmt.Sprintf("%v", c.value))
		}
		return fmt.Sprintf("w:%s%s%s", c.field, c.op, raw)
	case kindOrder:
		return fmt.Sprintf("o:%s:%s", c.field, c.direction)
	default:
		return fmt.Sprintf("l:%d", c.limit)
	}
}

// Serialize joins the constraint tokens in list order. The serialization is
// order-sensitive: the same constraints in a different order produce a
// different string.
func Serialize(constraints []Constraint) string {
	if len(constraints) == 0 {
		return ""
	}
	tokens := make([]string, len(constraints))
	for i, c := range constraints {
		tokens[i] = c.Token()
	}
	return strings.Join(tokens, "|")
}
