package fetch

import (
	"context"
	"errors"
)

// ErrUnavailable marks a source that was skipped because it is not configured.
var ErrUnavailable = errors.New("source not configured")

// Source is one tier of the resolver chain. Fetch returns the full dataset
// or an error; the resolver does not distinguish error kinds.
type Source[T any] interface {
	Name() string
	IsAvailable() bool
	Fetch(ctx context.Context) (T, error)
}

// FuncSource adapts a plain function to Source.
type FuncSource[T any] struct {
	name string
	fn   func(ctx context.Context) (T, error)
}

func NewFuncSource[T any](name string, fn func(ctx context.Context) (T, error)) *FuncSource[T] {
	return &FuncSource[T]{name: name, fn: fn}
}

func (s *FuncSource[T]) Name() string      { return s.name }
func (s *FuncSource[T]) IsAvailable() bool { return s.fn != nil }
func (s *FuncSource[T]) Fetch(ctx context.Context) (T, error) {
	return s.fn(ctx)
}

// StaticSource always returns the same value. It backs the "mock" tier.
type StaticSource[T any] struct {
	name  string
	value T
}

func NewStaticSource[T any](name string, value T) *StaticSource[T] {
	return &StaticSource[T]{name: name, value: value}
}

func (s *StaticSource[T]) Name() string      { return s.name }
func (s *StaticSource[T]) IsAvailable() bool { return true }
func (s *StaticSource[T]) Fetch(ctx context.Context) (T, error) {
	return s.value, nil
}

// Attempt records what happened when the resolver consulted one tier. Err
// is nil for the tier that produced the value.
type Attempt struct {
	Source string
	Err    error
}

func (a Attempt) Skipped() bool { return errors.Is(a.Err, ErrUnavailable) }
