package settings

import (
	"errors"
	"fmt"
	"strings"
)

// Scope resolves names bound so far during evaluation.
type Scope func(name string) (Value, bool)

// Expr produces the value of a declaration.
type Expr interface {
	// Eval computes the value against the names bound in scope.
	Eval(scope Scope) (Value, error)
	// Refs lists the names the expression reads, in order of appearance.
	Refs() []string
	// String renders the expression in ${name} notation.
	String() string
}

// Literal returns an expression that always yields v.
func Literal(v Value) Expr {
	return literalExpr{value: v.clone()}
}

// Ref returns an expression yielding the current value of name, whatever its kind.
func Ref(name string) Expr {
	return refExpr{name: name}
}

// Concat returns an expression joining string literals and string references.
// Use Text for literal fragments.
func Concat(parts ...Expr) Expr {
	return concatExpr{parts: append([]Expr(nil), parts...)}
}

// Text is shorthand for a string literal, mostly used as a Concat fragment.
func Text(s string) Expr {
	return literalExpr{value: String(s)}
}

type literalExpr struct {
	value Value
}

func (e literalExpr) Eval(Scope) (Value, error) {
	return e.value.clone(), nil
}

func (e literalExpr) Refs() []string { return nil }

func (e literalExpr) String() string {
	if s, ok := e.value.AsString(); ok {
		return strings.ReplaceAll(s, "$", "$$")
	}
	return e.value.GoString()
}

type refExpr struct {
	name string
}

func (e refExpr) Eval(scope Scope) (Value, error) {
	v, ok := scope(e.name)
	if !ok {
		return Value{}, &refError{ref: e.name, err: ErrForwardReference}
	}
	return v.clone(), nil
}

func (e refExpr) Refs() []string { return []string{e.name} }

func (e refExpr) String() string { return "${" + e.name + "}" }

type concatExpr struct {
	parts []Expr
}

func (e concatExpr) Eval(scope Scope) (Value, error) {
	var b strings.Builder
	for _, part := range e.parts {
		v, err := part.Eval(scope)
		if err != nil {
			return Value{}, err
		}
		s, ok := v.AsString()
		if !ok {
			err := fmt.Errorf("%w: cannot concatenate %s", ErrTypeMismatch, v.Kind())
			if ref, isRef := part.(refExpr); isRef {
				return Value{}, &refError{ref: ref.name, err: err}
			}
			return Value{}, err
		}
		b.WriteString(s)
	}
	return String(b.String()), nil
}

func (e concatExpr) Refs() []string {
	var refs []string
	for _, part := range e.parts {
		refs = append(refs, part.Refs()...)
	}
	return refs
}

func (e concatExpr) String() string {
	var b strings.Builder
	for _, part := range e.parts {
		b.WriteString(part.String())
	}
	return b.String()
}

// refError carries the referenced name up to Apply, which turns it into a
// ConfigurationError.
type refError struct {
	ref string
	err error
}

func (e *refError) Error() string { return fmt.Sprintf("%s: %v", e.ref, e.err) }

func (e *refError) Unwrap() error { return e.err }

// ParseExpr parses a string that may contain ${name} references. A string made
// of a single reference keeps the referenced value's kind; any other mix of text
// and references concatenates strings. "$$" stands for a literal dollar sign.
func ParseExpr(raw string) (Expr, error) {
	var (
		parts   []Expr
		text    strings.Builder
		hasRefs bool
	)
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, Text(text.String()))
			text.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '$' || i+1 >= len(raw) {
			text.WriteByte(c)
			continue
		}
		switch raw[i+1] {
		case '$':
			text.WriteByte('$')
			i++
		case '{':
			end := strings.IndexByte(raw[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated reference in %q", ErrInvalidExpression, raw)
			}
			name := raw[i+2 : i+2+end]
			if err := validateName(name); err != nil {
				return nil, fmt.Errorf("%w in %q", err, raw)
			}
			flush()
			parts = append(parts, Ref(name))
			hasRefs = true
			i += end + 2
		default:
			text.WriteByte(c)
		}
	}
	flush()

	switch {
	case !hasRefs:
		if len(parts) == 0 {
			return Text(""), nil
		}
		return parts[0], nil
	case len(parts) == 1:
		return parts[0], nil
	default:
		return Concat(parts...), nil
	}
}

// MustParseExpr is ParseExpr for expressions known to be valid.
func MustParseExpr(raw string) Expr {
	expr, err := ParseExpr(raw)
	if err != nil {
		panic(err)
	}
	return expr
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty reference", ErrInvalidExpression)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
		default:
			return fmt.Errorf("%w: illegal character %q in reference %q", ErrInvalidExpression, r, name)
		}
	}
	return nil
}

func asRefError(err error) (*refError, bool) {
	var re *refError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
