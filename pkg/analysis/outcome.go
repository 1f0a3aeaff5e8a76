package analysis

// Outcome is the result of a collaborator call: either a value or the error that
// prevented it. Callers decide the fallback by inspecting OK.
type Outcome[T any] struct {
	Value T
	Err   error
}

func Ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v}
}

func Fail[T any](err error) Outcome[T] {
	return Outcome[T]{Err: err}
}

func (o Outcome[T]) OK() bool {
	return o.Err == nil
}
