// Package ptr provides helpers for optional numeric values.
package ptr

// To creates a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// Float64 creates a pointer to the given float64 value.
func Float64(f float64) *float64 {
	return &f
}

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Clone returns a new pointer holding *p, or nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
