// Package foundation provides generic utilities for type-safe operations.
package foundation

import "fmt"

// Option represents a value that may or may not be present.
// It replaces truthiness checks on optional input fields with explicit handling.
type Option[T any] struct {
	value   T
	present bool
}

// Some creates an Option with a value.
func Some[T any](value T) Option[T] {
	return Option[T]{
		value:   value,
		present: true,
	}
}

// None creates an empty Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// NonEmpty returns Some(values) when the slice has at least one element, None otherwise.
func NonEmpty[T any](values []T) Option[[]T] {
	if len(values) == 0 {
		return None[[]T]()
	}
	return Some(values)
}

// NonBlank returns Some(s) when s is not the empty string, None otherwise.
func NonBlank(s string) Option[string] {
	if s == "" {
		return None[string]()
	}
	return Some(s)
}

// FromPointer creates an Option from a pointer.
// Returns Some(value) if pointer is non-nil, None if nil.
func FromPointer[T any](ptr *T) Option[T] {
	if ptr != nil {
		return Some(*ptr)
	}
	return None[T]()
}

// IsSome returns true if the Option contains a value.
func (o Option[T]) IsSome() bool {
	return o.present
}

// IsNone returns true if the Option is empty.
func (o Option[T]) IsNone() bool {
	return !o.present
}

// Unwrap returns the value if present, panics if None.
func (o Option[T]) Unwrap() T {
	if !o.present {
		panic("called Unwrap on None option")
	}
	return o.value
}

// UnwrapOr returns the value if present, otherwise returns the fallback.
func (o Option[T]) UnwrapOr(fallback T) T {
	if o.present {
		return o.value
	}
	return fallback
}

// UnwrapOrElse returns the value if present, otherwise calls the function and returns its result.
func (o Option[T]) UnwrapOrElse(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

// Resolve renders a value of type R from the option: onSome when present, onNone otherwise.
func Resolve[T, R any](o Option[T], onSome func(T) R, onNone func() R) R {
	if o.present {
		return onSome(o.value)
	}
	return onNone()
}

// String provides a string representation of the Option.
func (o Option[T]) String() string {
	if o.present {
		return fmt.Sprintf("Some(%v)", o.value)
	}
	return "None"
}
