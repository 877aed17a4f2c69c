package container

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies container failures.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindInvalidBindingType
	KindUnresolvableBinding
	KindTargetNotFound
	KindTargetNotInstantiable
	KindUnresolvableDependency
	KindInvalidOverrideIndex
	KindCircularBinding
	KindConstructionFailed
)

var kindNames = map[ErrorKind]string{
	KindUnknown:                "UNKNOWN",
	KindInvalidBindingType:     "INVALID_BINDING_TYPE",
	KindUnresolvableBinding:    "UNRESOLVABLE_BINDING",
	KindTargetNotFound:         "TARGET_NOT_FOUND",
	KindTargetNotInstantiable:  "TARGET_NOT_INSTANTIABLE",
	KindUnresolvableDependency: "UNRESOLVABLE_DEPENDENCY",
	KindInvalidOverrideIndex:   "INVALID_OVERRIDE_INDEX",
	KindCircularBinding:        "CIRCULAR_BINDING",
	KindConstructionFailed:     "CONSTRUCTION_FAILED",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", k)
}

// Sentinels for errors.Is. Any *Error of the same Kind matches.
var (
	ErrInvalidBindingType     = &Error{Kind: KindInvalidBindingType}
	ErrUnresolvableBinding    = &Error{Kind: KindUnresolvableBinding}
	ErrTargetNotFound         = &Error{Kind: KindTargetNotFound}
	ErrTargetNotInstantiable  = &Error{Kind: KindTargetNotInstantiable}
	ErrUnresolvableDependency = &Error{Kind: KindUnresolvableDependency}
	ErrInvalidOverrideIndex   = &Error{Kind: KindInvalidOverrideIndex}
	ErrCircularBinding        = &Error{Kind: KindCircularBinding}
	ErrConstructionFailed     = &Error{Kind: KindConstructionFailed}
)

// Error is the error type returned by every container operation.
type Error struct {
	Kind    ErrorKind
	Name    string
	Message string
	Cause   error
	Chain   []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("container: ")
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(strings.ToLower(strings.ReplaceAll(e.Kind.String(), "_", " ")))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind ErrorKind, name, message string, cause error) *Error {
	return &Error{Kind: kind, Name: name, Message: message, Cause: cause}
}

func errInvalidBindingType(name string, concrete any) *Error {
	return newError(KindInvalidBindingType, name,
		fmt.Sprintf("concrete for [%s] must be a factory, a string or nil, got %T", name, concrete), nil)
}

func errUnresolvableBinding(name string, cause error) *Error {
	return newError(KindUnresolvableBinding, name,
		fmt.Sprintf("the binding key [%s] does not exist", name), cause)
}

// ErrNotFound reports that concrete is not known to the introspector.
// Introspector implementations return it from Inspect.
func ErrNotFound(concrete string) *Error {
	return newError(KindTargetNotFound, concrete,
		fmt.Sprintf("target [%s] does not exist", concrete), nil)
}

// ErrNotInstantiable reports that concrete is abstract (an interface or
// a type registered without a constructor).
func ErrNotInstantiable(concrete string) *Error {
	return newError(KindTargetNotInstantiable, concrete,
		fmt.Sprintf("target [%s] cannot be instantiated", concrete), nil)
}

func errUnresolvableDependency(param Parameter, declaring string) *Error {
	return newError(KindUnresolvableDependency, declaring,
		fmt.Sprintf("could not resolve the dependency [%s] in [%s]", param, declaring), nil)
}

func errInvalidOverrideIndex(declaring string, key any, count int) *Error {
	return newError(KindInvalidOverrideIndex, declaring,
		fmt.Sprintf("override key [%v] is out of range for [%s] with %d parameter(s)", key, declaring, count), nil)
}

func errCircularBinding(chain []string) *Error {
	e := newError(KindCircularBinding, chain[len(chain)-1],
		fmt.Sprintf("circular binding detected: %s", strings.Join(chain, " -> ")), nil)
	e.Chain = chain
	return e
}

// ErrConstruction wraps a failure raised while calling a constructor.
func ErrConstruction(concrete string, cause error) *Error {
	return newError(KindConstructionFailed, concrete,
		fmt.Sprintf("failed to construct [%s]", concrete), cause)
}

// ── Predicates ───────────────────────────────────────────────────────────────

func isKind(err error, kind ErrorKind) bool {
	return errors.Is(err, &Error{Kind: kind})
}

// IsNotFound reports whether err means the name or type is unknown.
func IsNotFound(err error) bool {
	return isKind(err, KindUnresolvableBinding) || isKind(err, KindTargetNotFound)
}

func IsInvalidBindingType(err error) bool     { return isKind(err, KindInvalidBindingType) }
func IsNotInstantiable(err error) bool        { return isKind(err, KindTargetNotInstantiable) }
func IsUnresolvableDependency(err error) bool { return isKind(err, KindUnresolvableDependency) }
func IsInvalidOverrideIndex(err error) bool   { return isKind(err, KindInvalidOverrideIndex) }
func IsCircular(err error) bool               { return isKind(err, KindCircularBinding) }

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindUnknown when there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
