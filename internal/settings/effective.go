package settings

import (
	"fmt"
	"sort"
)

// Effective is the assembled configuration. It is never modified after Apply
// returns, so it may be shared between goroutines without locking.
type Effective struct {
	values map[string]Value
}

// Lookup returns the value bound to name.
func (e *Effective) Lookup(name string) (Value, bool) {
	v, ok := e.values[name]
	if !ok {
		return Value{}, false
	}
	return v.clone(), true
}

// Has reports whether name is bound.
func (e *Effective) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// String returns the string bound to name.
func (e *Effective) String(name string) (string, error) {
	v, err := e.get(name, KindString)
	if err != nil {
		return "", err
	}
	s, _ := v.AsString()
	return s, nil
}

// Bool returns the bool bound to name.
func (e *Effective) Bool(name string) (bool, error) {
	v, err := e.get(name, KindBool)
	if err != nil {
		return false, err
	}
	b, _ := v.AsBool()
	return b, nil
}

// Strings returns a copy of the sequence bound to name.
func (e *Effective) Strings(name string) ([]string, error) {
	v, err := e.get(name, KindList)
	if err != nil {
		return nil, err
	}
	list, _ := v.AsList()
	return list, nil
}

// Names returns the bound names in sorted order.
func (e *Effective) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound names.
func (e *Effective) Len() int {
	return len(e.values)
}

// Settings returns a deep copy of the mapping.
func (e *Effective) Settings() Settings {
	out := make(Settings, len(e.values))
	for name, v := range e.values {
		out[name] = v.clone()
	}
	return out
}

// Map returns the mapping as plain Go values.
func (e *Effective) Map() map[string]any {
	out := make(map[string]any, len(e.values))
	for name, v := range e.values {
		out[name] = v.Interface()
	}
	return out
}

func (e *Effective) get(name string, want Kind) (Value, error) {
	v, ok := e.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownSetting, name)
	}
	if v.kind != want {
		return Value{}, fmt.Errorf("%s: %w: got %s, want %s", name, ErrTypeMismatch, v.kind, want)
	}
	return v, nil
}
