// Package reflector describes Go constructors to the container.
//
// Laravel reflects on PHP constructors to auto-wire classes. Go keeps
// parameter types but not parameter names, so a Catalog pairs each
// constructor function with the names (and defaults) of its parameters:
//
//	type Plugh struct{ First, Last string; Number int }
//
//	func NewPlugh(first, last string, number int) *Plugh { ... }
//
//	catalog := reflector.New()
//	catalog.MustRegister("Plugh", NewPlugh,
//	    reflector.Arg("first"), reflector.Arg("last"), reflector.Arg("number"))
//
//	c := container.New(container.WithIntrospector(catalog))
//	v, err := c.Resolve("Plugh", container.Args("kennedy", "osaze", 20))
package reflector
