package reflector

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/km-arc/go-container/framework/container"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// entry is one registered type.
type entry struct {
	name     string
	abstract bool
	typ      reflect.Type // constructor result, or the abstract type

	fn   reflect.Value
	in   []reflect.Type
	args []ArgSpec
}

// Catalog is a container.Introspector backed by explicitly registered
// constructor functions.
//
// A parameter whose Go type is an interface, a struct, or a pointer to a
// struct is a class dependency. It resolves under the name that type was
// registered with, or under container.TypeKey of the type when it was not
// registered. Every other parameter is a plain value.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]*entry
	names   map[reflect.Type]string
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		entries: make(map[string]*entry),
		names:   make(map[reflect.Type]string),
	}
}

// Register records ctor as the constructor of name.
//
// ctor must be a non-variadic function returning one value, or a value
// and an error. args name its parameters in order; missing trailing
// declarations are named arg0, arg1, ...
//
//	catalog.Register("Plugh", NewPlugh, reflector.Arg("first"), reflector.Arg("last"), reflector.Arg("number"))
func (c *Catalog) Register(name string, ctor any, args ...ArgSpec) error {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return errors.Errorf("reflector: constructor for [%s] must be a function, got %T", name, ctor)
	}
	ft := fn.Type()
	if ft.IsVariadic() {
		return errors.Errorf("reflector: constructor for [%s] must not be variadic", name)
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return errors.Errorf("reflector: constructor for [%s] must return (T) or (T, error)", name)
	}
	if len(args) > ft.NumIn() {
		return errors.Errorf("reflector: [%s] declares %d parameter(s) but its constructor takes %d",
			name, len(args), ft.NumIn())
	}

	e := &entry{
		name: name,
		typ:  ft.Out(0),
		fn:   fn,
		in:   make([]reflect.Type, ft.NumIn()),
		args: make([]ArgSpec, ft.NumIn()),
	}
	for i := range e.in {
		e.in[i] = ft.In(i)
		if i < len(args) {
			e.args[i] = args[i]
		} else {
			e.args[i] = Arg(fmt.Sprintf("arg%d", i))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = e
	if classLike(e.typ) {
		c.names[e.typ] = name
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(name string, ctor any, args ...ArgSpec) {
	if err := c.Register(name, ctor, args...); err != nil {
		panic(err)
	}
}

// Abstract records name as a non-instantiable type. iface is a nil
// pointer to the interface, e.g. (*FooInterface)(nil); parameters of that
// interface type then resolve under name.
//
//	catalog.Abstract("FooInterface", (*FooInterface)(nil))
func (c *Catalog) Abstract(name string, iface any) error {
	t := reflect.TypeOf(iface)
	if t == nil || t.Kind() != reflect.Ptr {
		return errors.Errorf("reflector: abstract [%s] must be given as a nil pointer to the type, got %T", name, iface)
	}
	t = t.Elem()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = &entry{name: name, abstract: true, typ: t}
	c.names[t] = name
	return nil
}

// Names returns every registered name, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for name := range c.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Inspect implements container.Introspector.
func (c *Catalog) Inspect(concrete string) (*container.Constructor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[concrete]
	if !ok {
		return nil, container.ErrNotFound(concrete)
	}
	if e.abstract {
		return nil, container.ErrNotInstantiable(concrete)
	}

	params := make([]container.Parameter, len(e.in))
	for i, spec := range e.args {
		typ := spec.typ
		if !spec.typeSet {
			typ = c.className(e.in[i])
		}
		params[i] = container.Parameter{
			Name:       spec.name,
			Type:       typ,
			HasDefault: spec.hasDefault,
			Default:    spec.def,
			Nullable:   spec.nullable,
		}
	}

	return &container.Constructor{Type: concrete, Params: params, New: e.call}, nil
}

// className returns the name a parameter of type t resolves under, or ""
// for plain values. Must hold mu.
func (c *Catalog) className(t reflect.Type) string {
	if !classLike(t) {
		return ""
	}
	if name, ok := c.names[t]; ok {
		return name
	}
	return typeKey(t)
}

// classLike reports whether parameters of type t are resolved from the
// container rather than passed as plain values.
func classLike(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Struct:
		return true
	case reflect.Ptr:
		return t.Elem().Kind() == reflect.Struct
	}
	return false
}

// typeKey matches container.TypeKey for a reflect.Type.
func typeKey(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// call invokes the constructor with args converted to its parameter types.
func (e *entry) call(args []any) (any, error) {
	if len(args) != len(e.in) {
		return nil, container.ErrConstruction(e.name,
			errors.Errorf("expected %d argument(s), got %d", len(e.in), len(args)))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := coerce(arg, e.in[i])
		if err != nil {
			return nil, container.ErrConstruction(e.name, errors.Wrapf(err, "parameter [%s]", e.args[i].name))
		}
		in[i] = v
	}

	out := e.fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, container.ErrConstruction(e.name, out[1].Interface().(error))
	}
	return out[0].Interface(), nil
}

// coerce makes arg usable as a value of type t. Numeric values convert
// between numeric kinds when no information is lost, so untyped overrides
// like 20 fit an int64 but 3.9 never becomes 3. Strings parse into numbers
// and booleans so textual overrides from the command line or a query
// string fit too.
func coerce(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, errors.Errorf("cannot use nil as %s", t)
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if numeric(v.Kind()) && numeric(t.Kind()) {
		if out, ok := convert(v, t); ok {
			return out, nil
		}
		return reflect.Value{}, errors.Errorf("cannot use %s %v as %s without loss", v.Type(), arg, t)
	}
	if v.Kind() == reflect.String {
		if parsed, ok := parse(v.String(), t); ok {
			return parsed, nil
		}
	}
	return reflect.Value{}, errors.Errorf("cannot use %s as %s", v.Type(), t)
}

// parse reads s as a value of the numeric or boolean type t.
func parse(s string, t reflect.Type) (reflect.Value, bool) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	default:
		return reflect.Value{}, false
	}
	return out, true
}

// convert converts the numeric v to t, failing when the value would be
// truncated, wrapped or overflow.
func convert(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	out := reflect.New(t).Elem()
	switch {
	case signed(v.Kind()):
		n := v.Int()
		switch {
		case signed(t.Kind()):
			if out.OverflowInt(n) {
				return reflect.Value{}, false
			}
			out.SetInt(n)
		case unsigned(t.Kind()):
			if n < 0 || out.OverflowUint(uint64(n)) {
				return reflect.Value{}, false
			}
			out.SetUint(uint64(n))
		default:
			out.SetFloat(float64(n))
		}

	case unsigned(v.Kind()):
		u := v.Uint()
		switch {
		case signed(t.Kind()):
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return reflect.Value{}, false
			}
			out.SetInt(int64(u))
		case unsigned(t.Kind()):
			if out.OverflowUint(u) {
				return reflect.Value{}, false
			}
			out.SetUint(u)
		default:
			out.SetFloat(float64(u))
		}

	default:
		f := v.Float()
		switch {
		case signed(t.Kind()):
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
				return reflect.Value{}, false
			}
			out.SetInt(int64(f))
		case unsigned(t.Kind()):
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
				return reflect.Value{}, false
			}
			out.SetUint(uint64(f))
		default:
			if out.OverflowFloat(f) {
				return reflect.Value{}, false
			}
			out.SetFloat(f)
		}
	}
	return out, true
}

func signed(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func unsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func numeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
