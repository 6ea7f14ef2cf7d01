package source

// Result carries a reader's value and whether it came from the source
// (OK) or is the caller's default. Readers never return errors.
type Result[T any] struct {
	Value T
	OK    bool
}

// Found wraps a value read from its source
func Found[T any](v T) Result[T] {
	return Result[T]{Value: v, OK: true}
}

// Default wraps a fallback value
func Default[T any](def T) Result[T] {
	return Result[T]{Value: def}
}

// Ptr returns a pointer to the value, or nil when the read fell back
func (r Result[T]) Ptr() *T {
	if !r.OK {
		return nil
	}
	v := r.Value
	return &v
}
