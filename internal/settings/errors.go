package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrForwardReference indicates a declaration reads a name that is not bound
	// at that point in the declaration order.
	ErrForwardReference = errors.New("reference to a setting that is not bound yet")
	// ErrTypeMismatch indicates a value of the wrong kind was supplied or requested.
	ErrTypeMismatch = errors.New("setting has the wrong type")
	// ErrUnknownSetting indicates a lookup of a name absent from the effective configuration.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidExpression indicates a malformed ${name} expression.
	ErrInvalidExpression = errors.New("invalid setting expression")
)

// ConfigurationError describes a declaration that could not be evaluated.
type ConfigurationError struct {
	// Source names the overlay that holds the declaration.
	Source string
	// Name is the setting being declared.
	Name string
	// Ref is the referenced setting, when the failure concerns a reference.
	Ref string
	Err error
}

func (e *ConfigurationError) Error() string {
	where := e.Name
	if e.Source != "" {
		where = fmt.Sprintf("%s (%s)", e.Name, e.Source)
	}
	if errors.Is(e.Err, ErrForwardReference) {
		return fmt.Sprintf("configuration error: %s references %q before it is bound", where, e.Ref)
	}
	if e.Ref != "" {
		return fmt.Sprintf("configuration error: %s: reference %q: %v", where, e.Ref, e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %v", where, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
