package settings

// Declaration binds Name to the value produced by Expr.
type Declaration struct {
	Name string
	Expr Expr
}

// Overlay is an ordered list of declarations. A name is declared at most once;
// rebinding a name replaces its expression but keeps its position.
type Overlay struct {
	// Source describes where the declarations came from, e.g. a file path.
	Source string

	decls []Declaration
	index map[string]int
}

// NewOverlay returns an overlay holding decls in order. Later duplicates rebind
// earlier ones.
func NewOverlay(source string, decls ...Declaration) *Overlay {
	o := &Overlay{Source: source}
	for _, d := range decls {
		o.Set(d.Name, d.Expr)
	}
	return o
}

// Set declares name, or rebinds it in place if already declared.
func (o *Overlay) Set(name string, expr Expr) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[name]; ok {
		o.decls[i].Expr = expr
		return
	}
	o.index[name] = len(o.decls)
	o.decls = append(o.decls, Declaration{Name: name, Expr: expr})
}

// SetValue declares name as a literal value.
func (o *Overlay) SetValue(name string, v Value) {
	o.Set(name, Literal(v))
}

// Declares reports whether name is declared.
func (o *Overlay) Declares(name string) bool {
	if o == nil {
		return false
	}
	_, ok := o.index[name]
	return ok
}

// Len returns the number of declarations.
func (o *Overlay) Len() int {
	if o == nil {
		return 0
	}
	return len(o.decls)
}

// Declarations returns a copy of the declarations in evaluation order.
func (o *Overlay) Declarations() []Declaration {
	if o == nil {
		return nil
	}
	return append([]Declaration(nil), o.decls...)
}

// Merge rebinds or appends every declaration of other, in other's order.
// Merging an overlay into an identical one leaves it unchanged.
func (o *Overlay) Merge(other *Overlay) {
	for _, d := range other.Declarations() {
		o.Set(d.Name, d.Expr)
	}
}

// Clone returns an independent copy of o.
func (o *Overlay) Clone() *Overlay {
	if o == nil {
		return NewOverlay("")
	}
	return NewOverlay(o.Source, o.decls...)
}
