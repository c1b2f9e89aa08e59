package settings

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the type held by a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Value is a setting value: a string, a bool or a sequence of strings.
type Value struct {
	kind Kind
	str  string
	b    bool
	list []string
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// List returns a sequence value holding a copy of items.
func List(items ...string) Value {
	return Value{kind: KindList, list: cloneStrings(items)}
}

// Kind reports the type of v.
func (v Value) Kind() Kind {
	return v.kind
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBool returns the bool held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsList returns a copy of the sequence held by v.
func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return cloneStrings(v.list), true
}

// Equal reports whether v and other hold the same kind and contents.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.b == other.b
	case KindList:
		return slices.Equal(v.list, other.list)
	default:
		return true
	}
}

// Interface returns v as a plain Go value (string, bool or []string), suitable
// for encoding.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindList:
		return cloneStrings(v.list)
	default:
		return nil
	}
}

// GoString renders v for test failure output.
func (v Value) GoString() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		quoted := make([]string, len(v.list))
		for i, item := range v.list {
			quoted[i] = strconv.Quote(item)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return "<invalid>"
	}
}

// FromInterface converts a decoded scalar or sequence into a Value. Numbers are
// kept as their decimal string form.
func FromInterface(raw any) (Value, error) {
	switch x := raw.(type) {
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return String(strconv.Itoa(x)), nil
	case int64:
		return String(strconv.FormatInt(x, 10)), nil
	case float64:
		return String(strconv.FormatFloat(x, 'f', -1, 64)), nil
	case []string:
		return List(x...), nil
	case []any:
		items := make([]string, 0, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				return Value{}, fmt.Errorf("sequence item %d: %w: got %T, want string", i, ErrTypeMismatch, item)
			}
			items = append(items, s)
		}
		return List(items...), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrTypeMismatch, raw)
	}
}

func (v Value) clone() Value {
	if v.kind == KindList {
		v.list = cloneStrings(v.list)
	}
	return v
}

func cloneStrings(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}
