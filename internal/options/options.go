// Package options provides the generic functional-option plumbing shared by
// all configurable constructors in this module.
package options

// Option configures a value of type T during construction. T is typically a
// pointer to a config struct.
type Option[T any] func(T) error

// New adapts a configuration function that may fail into an Option.
func New[T any](fn func(T) error) Option[T] {
	return Option[T](fn)
}

// NoError adapts a configuration function that cannot fail into an Option.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)

		return nil
	}
}

// Apply runs every option against target in order and stops at the first
// error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}
