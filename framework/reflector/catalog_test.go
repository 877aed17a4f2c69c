package reflector_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/reflector"
)

type Clock interface{ Now() int64 }

type Service struct {
	Name    string
	Retries int64
	Clock   Clock
	Config  *Config
	Tags    []string
}

type Config struct{ DSN string }

func NewService(name string, retries int64, clock Clock, cfg *Config, tags []string) *Service {
	return &Service{Name: name, Retries: retries, Clock: clock, Config: cfg, Tags: tags}
}

type unregistered struct{}

func newWithUnregistered(u *unregistered) *unregistered { return u }

func TestRegister_Validation(t *testing.T) {
	cat := reflector.New()

	tests := []struct {
		name string
		ctor any
		args []reflector.ArgSpec
	}{
		{"not a func", 42, nil},
		{"nil func", (func() *Config)(nil), nil},
		{"variadic", func(...string) *Config { return nil }, nil},
		{"no result", func() {}, nil},
		{"second result not error", func() (*Config, int) { return nil, 0 }, nil},
		{"too many args", func() *Config { return nil }, []reflector.ArgSpec{reflector.Arg("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, cat.Register("X", tt.ctor, tt.args...))
		})
	}
	assert.Empty(t, cat.Names())
	assert.Panics(t, func() { cat.MustRegister("X", 42) })
}

func TestInspect_Parameters(t *testing.T) {
	cat := reflector.New()
	require.NoError(t, cat.Abstract("clock", (*Clock)(nil)))
	require.NoError(t, cat.Register("config", func() *Config { return &Config{} }))
	require.NoError(t, cat.Register("service", NewService,
		reflector.Arg("name"),
		reflector.Arg("retries").Default(int64(3)),
		reflector.Arg("clock").Nullable(),
	))

	ctor, err := cat.Inspect("service")
	require.NoError(t, err)
	assert.Equal(t, "service", ctor.Type)
	assert.Equal(t, []container.Parameter{
		{Name: "name"},
		{Name: "retries", HasDefault: true, Default: int64(3)},
		{Name: "clock", Type: "clock", Nullable: true},
		{Name: "arg3", Type: "config"},
		{Name: "arg4"},
	}, ctor.Params)
}

func TestInspect_TypeNaming(t *testing.T) {
	cat := reflector.New()
	require.NoError(t, cat.Register("thing", newWithUnregistered,
		reflector.Arg("u")))
	require.NoError(t, cat.Register("named", func(s string, c *Config) string { return s },
		reflector.Arg("s").As("greeting"), reflector.Arg("c").Scalar()))
	require.NoError(t, cat.Register("self", func(s *Config) *Config { return s },
		reflector.Arg("s").Self()))

	ctor, err := cat.Inspect("thing")
	require.NoError(t, err)
	assert.Equal(t, "thing", ctor.Params[0].Type, "registered result type resolves under its name")

	ctor, err = cat.Inspect("named")
	require.NoError(t, err)
	assert.Equal(t, "greeting", ctor.Params[0].Type)
	assert.Equal(t, "", ctor.Params[1].Type)

	ctor, err = cat.Inspect("self")
	require.NoError(t, err)
	assert.Equal(t, container.SelfType, ctor.Params[0].Type)
}

func TestInspect_UnregisteredStructUsesTypeKey(t *testing.T) {
	cat := reflector.New()
	require.NoError(t, cat.Register("x", func(c *Config) *Service { return nil }))

	ctor, err := cat.Inspect("x")
	require.NoError(t, err)
	assert.Equal(t, container.TypeKey(&Config{}), ctor.Params[0].Type)
}

func TestInspect_Errors(t *testing.T) {
	cat := reflector.New()
	require.NoError(t, cat.Abstract("clock", (*Clock)(nil)))
	assert.Error(t, cat.Abstract("bad", Config{}))

	_, err := cat.Inspect("missing")
	assert.ErrorIs(t, err, container.ErrTargetNotFound)

	_, err = cat.Inspect("clock")
	assert.ErrorIs(t, err, container.ErrTargetNotInstantiable)
}

func TestNew_CoercesArguments(t *testing.T) {
	cat := reflector.New()
	require.NoError(t, cat.Register("service", NewService))

	ctor, err := cat.Inspect("service")
	require.NoError(t, err)

	v, err := ctor.New([]any{"svc", 5, nil, nil, nil})
	require.NoError(t, err)
	svc := v.(*Service)
	assert.Equal(t, "svc", svc.Name)
	assert.Equal(t, int64(5), svc.Retries, "int converts to int64")
	assert.Nil(t, svc.Clock)
	assert.Nil(t, svc.Config)

	_, err = ctor.New([]any{42, 5, nil, nil, nil})
	assert.ErrorIs(t, err, container.ErrConstructionFailed)
	assert.Contains(t, err.Error(), "parameter [arg0]")

	_, err = ctor.New([]any{"svc", nil, nil, nil, nil})
	assert.ErrorIs(t, err, container.ErrConstructionFailed)

	_, err = ctor.New([]any{"svc"})
	assert.ErrorIs(t, err, container.ErrConstructionFailed)
}

func TestNew_NumericConversionIsLossless(t *testing.T) {
	cat := reflector.New()
	require.NoError(t, cat.Register("int", func(n int) int { return n }))
	require.NoError(t, cat.Register("int8", func(n int8) int8 { return n }))
	require.NoError(t, cat.Register("uint", func(n uint) uint { return n }))
	require.NoError(t, cat.Register("float32", func(f float32) float32 { return f }))
	require.NoError(t, cat.Register("float64", func(f float64) float64 { return f }))

	tests := []struct {
		name   string
		target string
		arg    any
		want   any
	}{
		{"integral float to int", "int", 3.0, 3},
		{"int64 to int8 in range", "int8", int64(-128), int8(-128)},
		{"int to uint", "uint", 7, uint(7)},
		{"uint64 to int", "int", uint64(42), 42},
		{"int to float64", "float64", 20, 20.0},
		{"float64 to float32", "float32", 1.5, float32(1.5)},
		{"fractional float to int", "int", 3.9, nil},
		{"negative float to uint", "uint", -2.0, nil},
		{"overflowing int8", "int8", 300, nil},
		{"negative to uint", "uint", -1, nil},
		{"huge uint64 to int", "int", uint64(math.MaxUint64), nil},
		{"huge float to int", "int", 1e300, nil},
		{"overflowing float32", "float32", 1e300, nil},
		{"NaN to int", "int", math.NaN(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctor, err := cat.Inspect(tt.target)
			require.NoError(t, err)

			v, err := ctor.New([]any{tt.arg})
			if tt.want == nil {
				assert.ErrorIs(t, err, container.ErrConstructionFailed)
				assert.ErrorContains(t, err, "without loss")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestNew_ParsesStrings(t *testing.T) {
	cat := reflector.New()
	require.NoError(t, cat.Register("limits", func(n int, u uint8, f float64, b bool) []any {
		return []any{n, u, f, b}
	}))

	ctor, err := cat.Inspect("limits")
	require.NoError(t, err)

	v, err := ctor.New([]any{"-3", "7", "1.5", "true"})
	require.NoError(t, err)
	assert.Equal(t, []any{-3, uint8(7), 1.5, true}, v)

	_, err = ctor.New([]any{"x", "7", "1.5", "true"})
	assert.ErrorContains(t, err, "cannot use string as int")

	_, err = ctor.New([]any{"1", "300", "1.5", "true"})
	assert.ErrorContains(t, err, "parameter [arg1]")
}

func TestNew_ConstructorError(t *testing.T) {
	boom := errors.New("boom")
	cat := reflector.New()
	require.NoError(t, cat.Register("failing", func() (*Config, error) { return nil, boom }))
	require.NoError(t, cat.Register("ok", func() (*Config, error) { return &Config{DSN: "x"}, nil }))

	ctor, err := cat.Inspect("failing")
	require.NoError(t, err)
	_, err = ctor.New(nil)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, container.ErrConstructionFailed)

	ctor, err = cat.Inspect("ok")
	require.NoError(t, err)
	v, err := ctor.New(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{DSN: "x"}, v)
}

func TestNames(t *testing.T) {
	cat := reflector.New()
	cat.MustRegister("b", func() *Config { return nil })
	require.NoError(t, cat.Abstract("a", (*Clock)(nil)))

	assert.Equal(t, []string{"a", "b"}, cat.Names())
}
