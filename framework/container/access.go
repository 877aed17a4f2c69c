package container

// Map-style sugar mirroring PHP's ArrayAccess on Laravel's container:
//
//	$app['bar'] = fn() => new Bar;   c.Set("bar", func() any { return &Bar{} })
//	isset($app['bar']);              c.Exists("bar")
//	$app['bar'];                     c.Get("bar")
//	unset($app['bar']);              c.Unset("bar")

// Set binds name to concrete.
func (c *Container) Set(name string, concrete any) error { return c.Bind(name, concrete) }

// Exists reports whether name is bound or cached.
func (c *Container) Exists(name string) bool { return c.Has(name) }

// Unset removes both the binding and the cached instance for name.
func (c *Container) Unset(name string) { c.Forget(name) }
