package reflector

import "github.com/km-arc/go-container/framework/container"

// ArgSpec describes one constructor parameter at registration time. Go does
// not keep parameter names, so they are declared here in order.
//
//	catalog.Register("Xyzzy", NewXyzzy, reflector.Arg("bar"), reflector.Arg("default").Default("test"))
type ArgSpec struct {
	name       string
	typ        string
	typeSet    bool
	hasDefault bool
	def        any
	nullable   bool
}

// Arg starts a parameter declaration.
func Arg(name string) ArgSpec { return ArgSpec{name: name} }

// Default declares the value used when the parameter has no override and
// cannot be resolved.
func (a ArgSpec) Default(v any) ArgSpec {
	a.hasDefault = true
	a.def = v
	return a
}

// Nullable lets an unresolvable class parameter be passed as nil.
func (a ArgSpec) Nullable() ArgSpec {
	a.nullable = true
	return a
}

// As resolves the parameter by name instead of by its Go type.
func (a ArgSpec) As(name string) ArgSpec {
	a.typ = name
	a.typeSet = true
	return a
}

// Self resolves the parameter as the type being registered.
func (a ArgSpec) Self() ArgSpec { return a.As(container.SelfType) }

// Scalar marks the parameter as a plain value that is never resolved
// from the container.
func (a ArgSpec) Scalar() ArgSpec { return a.As("") }
