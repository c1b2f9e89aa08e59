package settings

// Settings is a fully resolved mapping of names to values.
type Settings map[string]Value

// Apply evaluates overlays in order on top of a copy of base. Each declaration
// sees the base plus every declaration evaluated before it. The first
// declaration that cannot be evaluated aborts the pass with a
// *ConfigurationError; no partial configuration is returned.
func Apply(base Settings, overlays ...*Overlay) (*Effective, error) {
	bound := make(map[string]Value, len(base))
	for name, v := range base {
		bound[name] = v.clone()
	}
	scope := func(name string) (Value, bool) {
		v, ok := bound[name]
		return v, ok
	}

	for _, o := range overlays {
		if o == nil {
			continue
		}
		for _, d := range o.decls {
			if d.Expr == nil {
				return nil, &ConfigurationError{Source: o.Source, Name: d.Name, Err: ErrInvalidExpression}
			}
			v, err := d.Expr.Eval(scope)
			if err != nil {
				return nil, configError(o.Source, d.Name, err)
			}
			bound[d.Name] = v
		}
	}

	return &Effective{values: bound}, nil
}

func configError(source, name string, err error) error {
	cfgErr := &ConfigurationError{Source: source, Name: name, Err: err}
	if re, ok := asRefError(err); ok {
		cfgErr.Ref = re.ref
		cfgErr.Err = re.err
	}
	return cfgErr
}
