package memstore

import (
	"strings"

	"github.com/spf13/cast"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// Match reports whether rec satisfies every condition. A condition holds
// when the column matches any of its values; NotEqualTo holds when it
// matches none.
func Match(rec types.Record, where []types.Condition) bool {
	for _, c := range where {
		if !matchOne(rec[c.FieldName], c) {
			return false
		}
	}
	return true
}

func matchOne(v any, c types.Condition) bool {
	if c.Operator == types.OpNotEqualTo {
		for _, want := range c.Values {
			if Compare(v, want) == 0 {
				return false
			}
		}
		return true
	}
	for _, want := range c.Values {
		switch c.Operator {
		case types.OpContains:
			if v != nil && strings.Contains(strings.ToLower(cast.ToString(v)), strings.ToLower(cast.ToString(want))) {
				return true
			}
		case types.OpGreaterThan:
			if v != nil && Compare(v, want) > 0 {
				return true
			}
		case types.OpLessThan:
			if v != nil && Compare(v, want) < 0 {
				return true
			}
		default:
			if Compare(v, want) == 0 {
				return true
			}
		}
	}
	return false
}

// Compare orders two column values. Nil sorts before everything; values
// that both parse as numbers compare numerically; anything else compares
// as text.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if _, isBool := a.(bool); !isBool {
		fa, errA := cast.ToFloat64E(a)
		fb, errB := cast.ToFloat64E(b)
		if errA == nil && errB == nil {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(cast.ToString(a), cast.ToString(b))
}
