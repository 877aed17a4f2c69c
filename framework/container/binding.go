package container

import "fmt"

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container. params holds the
// caller's overrides for this resolution (nil when none were supplied).
type Factory func(c *Container, params Parameters) (any, error)

// StrategyKind tags the variant held by a Strategy.
type StrategyKind uint8

const (
	// SelfReference builds the bound name itself as a concrete type.
	SelfReference StrategyKind = iota
	// AliasTo resolves another name and returns its result.
	AliasTo
	// FactoryFunc calls a caller-supplied Factory.
	FactoryFunc
)

func (k StrategyKind) String() string {
	switch k {
	case SelfReference:
		return "self"
	case AliasTo:
		return "alias"
	case FactoryFunc:
		return "factory"
	default:
		return fmt.Sprintf("StrategyKind(%d)", k)
	}
}

// Strategy describes how a binding is built. Concrete is set for
// SelfReference and AliasTo, Factory for FactoryFunc.
type Strategy struct {
	Kind     StrategyKind
	Concrete string
	Factory  Factory
}

// Binding is a registered rule: a name, how to build it, and whether the
// result is shared.
//
//	// Laravel: $app->bind(FooInterface::class, Foo::class)
//	Binding{Name: "FooInterface", Strategy: Strategy{Kind: AliasTo, Concrete: "Foo"}}
type Binding struct {
	Name      string
	Strategy  Strategy
	Singleton bool
}

// strategyFor normalises the concrete argument of Bind into a Strategy.
// Accepted closure shapes mirror the PHP closures Laravel accepts with
// fewer declared arguments.
func strategyFor(name string, concrete any) (Strategy, error) {
	switch v := concrete.(type) {
	case nil:
		return Strategy{Kind: SelfReference, Concrete: name}, nil
	case string:
		if v == name {
			return Strategy{Kind: SelfReference, Concrete: name}, nil
		}
		return Strategy{Kind: AliasTo, Concrete: v}, nil
	case Factory:
		if v == nil {
			break
		}
		return Strategy{Kind: FactoryFunc, Factory: v}, nil
	case func(*Container, Parameters) (any, error):
		if v == nil {
			break
		}
		return Strategy{Kind: FactoryFunc, Factory: v}, nil
	case func(*Container, Parameters) any:
		if v == nil {
			break
		}
		return Strategy{Kind: FactoryFunc, Factory: func(c *Container, p Parameters) (any, error) {
			return v(c, p), nil
		}}, nil
	case func(*Container) any:
		if v == nil {
			break
		}
		return Strategy{Kind: FactoryFunc, Factory: func(c *Container, _ Parameters) (any, error) {
			return v(c), nil
		}}, nil
	case func() any:
		if v == nil {
			break
		}
		return Strategy{Kind: FactoryFunc, Factory: func(*Container, Parameters) (any, error) {
			return v(), nil
		}}, nil
	}
	return Strategy{}, errInvalidBindingType(name, concrete)
}

// ── Overrides ─────────────────────────────────────────────────────────────────

// Parameters are caller-supplied constructor overrides keyed by
// parameter name (string) or position (int).
//
//	c.Resolve("Plugh", container.Parameters{"first": "kennedy", 2: 20})
type Parameters map[any]any

// Args builds positional overrides.
//
//	c.Resolve("Plugh", container.Args("kennedy", "osaze", 20))
func Args(values ...any) Parameters {
	p := make(Parameters, len(values))
	for i, v := range values {
		p[i] = v
	}
	return p
}

// Named builds overrides keyed by parameter name.
func Named(values map[string]any) Parameters {
	p := make(Parameters, len(values))
	for k, v := range values {
		p[k] = v
	}
	return p
}

// ── Type introspection ────────────────────────────────────────────────────────

// SelfType and StaticType name the declaring type when used as a
// Parameter's Type.
const (
	SelfType   = "self"
	StaticType = "static"
)

// Parameter describes one constructor parameter.
//
// Type is empty for non-class parameters (strings, numbers, anything the
// container cannot build by name). Nullable marks a class parameter that
// may be left nil when it cannot be resolved.
type Parameter struct {
	Name       string
	Type       string
	HasDefault bool
	Default    any
	Nullable   bool
}

// Optional reports whether a failed resolution may fall back to Default.
func (p Parameter) Optional() bool { return p.HasDefault || p.Nullable }

func (p Parameter) String() string {
	kind := "required"
	if p.Optional() {
		kind = "optional"
	}
	typ := p.Type
	if typ == "" {
		typ = "untyped"
	}
	return fmt.Sprintf("<%s> %s %s", kind, typ, p.Name)
}

// Constructor is what an Introspector reports for an instantiable type.
// New receives exactly one argument per entry of Params, in order.
type Constructor struct {
	Type   string
	Params []Parameter
	New    func(args []any) (any, error)
}

// Introspector reports constructor signatures for type identifiers.
//
// Inspect fails with ErrNotFound when concrete is unknown and with
// ErrNotInstantiable when it names an abstract type.
type Introspector interface {
	Inspect(concrete string) (*Constructor, error)
}

type noIntrospector struct{}

func (noIntrospector) Inspect(concrete string) (*Constructor, error) {
	return nil, ErrNotFound(concrete)
}
