package mpesa

import (
	"encoding/json"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Params is the flattened view of a gateway key/value list. A key maps to a
// scalar, or to a []any when the key was declared multi-valued and recurred.
type Params map[string]any

// Entries is a key/value list after the gateway's "one or many" encoding has
// been resolved. A bare object is a one-element list.
type Entries []map[string]any

// EntriesOf resolves raw into a list of key/value objects. Elements that are not
// objects or lack either field are dropped.
func EntriesOf(raw any, keyField, valueField string) Entries {
	switch v := raw.(type) {
	case nil:
		return Entries{}
	case map[string]any:
		if isEntry(v, keyField, valueField) {
			return Entries{v}
		}
		return Entries{}
	case []map[string]any:
		return lo.Filter(v, func(item map[string]any, _ int) bool {
			return isEntry(item, keyField, valueField)
		})
	case []any:
		entries := make(Entries, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok || !isEntry(m, keyField, valueField) {
				continue
			}
			entries = append(entries, m)
		}
		return entries
	}
	return Entries{}
}

// Flatten folds the entries into Params. Keys listed in multiValueKeys
// accumulate every occurrence in order; any other key keeps its last value.
func (e Entries) Flatten(keyField, valueField string, multiValueKeys ...string) Params {
	params := make(Params, len(e))
	for _, item := range e {
		if !isEntry(item, keyField, valueField) {
			continue
		}

		key, err := cast.ToStringE(item[keyField])
		if err != nil {
			continue
		}
		value := item[valueField]

		existing, seen := params[key]
		if seen && lo.Contains(multiValueKeys, key) {
			if list, ok := existing.([]any); ok {
				params[key] = append(list, value)
			} else {
				params[key] = []any{existing, value}
			}
			continue
		}
		params[key] = value
	}
	return params
}

// Flatten converts the gateway's [{Key, Value}, ...] encoding (or a bare
// {Key, Value} object) into Params. It never fails; malformed elements are
// skipped.
func Flatten(raw any, keyField, valueField string, multiValueKeys ...string) Params {
	return EntriesOf(raw, keyField, valueField).Flatten(keyField, valueField, multiValueKeys...)
}

func isEntry(m map[string]any, keyField, valueField string) bool {
	if m == nil {
		return false
	}
	key, hasKey := m[keyField]
	_, hasValue := m[valueField]
	return hasKey && hasValue && key != nil
}

// Value returns the raw value for key. A nil value counts as absent.
func (p Params) Value(key string) (any, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the value for key as a string, or nil when absent.
func (p Params) String(key string) *string {
	v, ok := p.Value(key)
	if !ok {
		return nil
	}
	if list, isList := v.([]any); isList {
		if len(list) == 0 {
			return nil
		}
		v = list[len(list)-1]
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil
	}
	return &s
}

// Strings returns every value recorded for key. A scalar yields a
// one-element slice.
func (p Params) Strings(key string) []string {
	v, ok := p.Value(key)
	if !ok {
		return nil
	}
	list, isList := v.([]any)
	if !isList {
		list = []any{v}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, err := cast.ToStringE(item)
		if err != nil || item == nil {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Decimal returns the value for key as a decimal, or nil when absent or not
// numeric.
func (p Params) Decimal(key string) *decimal.Decimal {
	v, ok := p.Value(key)
	if !ok {
		return nil
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch n := v.(type) {
	case float64:
		d = decimal.NewFromFloat(n)
	case float32:
		d = decimal.NewFromFloat32(n)
	case json.Number:
		d, err = decimal.NewFromString(n.String())
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(n))
	case bool, []any, map[string]any:
		return nil
	default:
		var i int64
		i, err = cast.ToInt64E(n)
		d = decimal.NewFromInt(i)
	}
	if err != nil {
		return nil
	}
	return &d
}

// Clone returns a copy that callers may modify freely. Multi-value lists are
// copied too.
func (p Params) Clone() Params {
	return lo.MapValues(p, func(v any, _ string) any {
		if list, ok := v.([]any); ok {
			return append([]any(nil), list...)
		}
		return v
	})
}
