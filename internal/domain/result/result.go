// Package result provides the value-or-domain-error type returned by workflows.
package result

// Result carries either a success value or exactly one domain error.
type Result[R any] struct {
	value R
	err   *Error
}

// Success wraps a success value.
func Success[R any](value R) Result[R] {
	return Result[R]{value: value}
}

// Failure wraps a domain error. A nil err is treated as Internal.
func Failure[R any](err *Error) Result[R] {
	if err == nil {
		err = Internal()
	}
	return Result[R]{err: err}
}

// HasError reports whether the result carries an error.
func (r Result[R]) HasError() bool {
	return r.err != nil
}

// Value returns the success value. It panics if the result carries an error.
func (r Result[R]) Value() R {
	if r.err != nil {
		panic("result: Value called on failed result: " + r.err.Error())
	}
	return r.value
}

// Err returns the carried error. It panics if the result is a success.
func (r Result[R]) Err() *Error {
	if r.err == nil {
		panic("result: Err called on successful result")
	}
	return r.err
}

// MapErrorIfKind turns the result into a success when the carried error is of
// the given kind. Successes and other errors pass through unchanged.
func (r Result[R]) MapErrorIfKind(kind Kind, fn func(*Error) R) Result[R] {
	if r.err == nil || r.err.kind != kind {
		return r
	}
	return Success(fn(r.err))
}

// Map transforms the success value and propagates any error unchanged.
func Map[R, S any](r Result[R], fn func(R) S) Result[S] {
	if r.err != nil {
		return Result[S]{err: r.err}
	}
	return Success(fn(r.value))
}

// Fold collapses the result into one value, typically a transport response.
func Fold[R, S any](r Result[R], onSuccess func(R) S, onError func(*Error) S) S {
	if r.err != nil {
		return onError(r.err)
	}
	return onSuccess(r.value)
}
