package container_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/km-arc/go-container/framework/container"
)

// TestProperty_PositionalNamedEquivalence checks that any mix of
// positional and named overrides builds the same value, and that a
// positional key beats a named key for the same parameter.
func TestProperty_PositionalNamedEquivalence(t *testing.T) {
	c := newContainer(t)
	names := []string{"first", "last", "number"}

	rapid.Check(t, func(rt *rapid.T) {
		first := rapid.String().Draw(rt, "first")
		last := rapid.String().Draw(rt, "last")
		number := rapid.Int().Draw(rt, "number")
		values := []any{first, last, number}

		// A positional key may collide with a stale named key for the same
		// parameter; the positional value must always win.
		stale := []any{first + "~", last + "~", number + 1}
		mixed := container.Parameters{}
		for i, v := range values {
			if rapid.Bool().Draw(rt, "positional") {
				mixed[i] = v
				if rapid.Bool().Draw(rt, "collide") {
					mixed[names[i]] = stale[i]
				}
			} else {
				mixed[names[i]] = v
			}
		}

		positional, err := container.Make[*Plugh](c, "Plugh", container.Args(values...))
		if err != nil {
			rt.Fatalf("positional: %v", err)
		}
		got, err := container.Make[*Plugh](c, "Plugh", mixed)
		if err != nil {
			rt.Fatalf("mixed: %v", err)
		}
		if *got != *positional {
			rt.Fatalf("mixed overrides built %+v, positional built %+v", *got, *positional)
		}
	})
}

// TestProperty_SingletonIdentity checks that singletons stay identical
// across interleaved resolutions with and without overrides.
func TestProperty_SingletonIdentity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newContainer(t)
		if err := c.Singleton("qux", func(_ *container.Container, p container.Parameters) (any, error) {
			name, _ := p["name"].(string)
			return &Qux{Name: name}, nil
		}); err != nil {
			rt.Fatal(err)
		}

		var cached any
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			if rapid.Bool().Draw(rt, "override") {
				v, err := c.Resolve("qux", container.Parameters{"name": "fresh"})
				if err != nil {
					rt.Fatal(err)
				}
				if v == cached {
					rt.Fatalf("override returned the cached instance")
				}
				continue
			}
			v, err := c.Get("qux")
			if err != nil {
				rt.Fatal(err)
			}
			if cached == nil {
				cached = v
			} else if v != cached {
				rt.Fatalf("singleton identity lost at step %d", i)
			}
		}
	})
}
