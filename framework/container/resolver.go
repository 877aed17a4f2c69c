package container

// dependencyResolver assembles the argument list for one constructor call.
// It borrows the container view to resolve class dependencies and owns no
// container state.
type dependencyResolver struct {
	container *Container
	ctor      *Constructor
	params    Parameters
}

func newDependencyResolver(c *Container, ctor *Constructor, params Parameters) *dependencyResolver {
	return &dependencyResolver{container: c, ctor: ctor, params: params}
}

// normalize rewrites positional override keys to parameter names. Named
// keys are copied first so a positional key for the same parameter wins.
func (r *dependencyResolver) normalize() (map[string]any, error) {
	named := make(map[string]any, len(r.params))
	count := len(r.ctor.Params)

	for key, value := range r.params {
		switch k := key.(type) {
		case string:
			named[k] = value
		case int:
			if k < 0 || k >= count {
				return nil, errInvalidOverrideIndex(r.ctor.Type, k, count)
			}
		default:
			return nil, errInvalidOverrideIndex(r.ctor.Type, key, count)
		}
	}
	for key, value := range r.params {
		if k, ok := key.(int); ok {
			named[r.ctor.Params[k].Name] = value
		}
	}
	return named, nil
}

// dependencies returns one argument per declared parameter, in order.
func (r *dependencyResolver) dependencies() ([]any, error) {
	overrides, err := r.normalize()
	if err != nil {
		return nil, err
	}

	results := make([]any, 0, len(r.ctor.Params))
	for _, param := range r.ctor.Params {
		var value any

		if v, ok := overrides[param.Name]; ok {
			value = v
		} else if class := r.parameterClass(param); class == "" {
			value, err = r.resolveNonClass(param)
		} else {
			value, err = r.resolveClass(class, param)
		}
		if err != nil {
			return nil, err
		}

		results = append(results, value)
	}
	return results, nil
}

// parameterClass returns the name to resolve for param, or "" when param
// is not a class dependency. self and static name the declaring type.
func (r *dependencyResolver) parameterClass(param Parameter) string {
	switch param.Type {
	case SelfType, StaticType:
		return r.ctor.Type
	default:
		return param.Type
	}
}

func (r *dependencyResolver) resolveNonClass(param Parameter) (any, error) {
	if param.HasDefault {
		return param.Default, nil
	}
	return nil, errUnresolvableDependency(param, r.ctor.Type)
}

func (r *dependencyResolver) resolveClass(class string, param Parameter) (any, error) {
	instance, err := r.container.resolve(r.container.Context(), class, nil)
	if err != nil {
		if param.Optional() {
			return param.Default, nil
		}
		return nil, err
	}
	return instance, nil
}
