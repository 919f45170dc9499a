package specifications

// Specification is the base interface for all specifications.
// It follows the Specification pattern for encapsulating business rules.
type Specification[T any] interface {
	// IsSatisfiedBy checks if the specification is satisfied by the given object
	IsSatisfiedBy(candidate T) bool

	// And creates a composite specification with AND logic
	And(other Specification[T]) Specification[T]

	// Or creates a composite specification with OR logic
	Or(other Specification[T]) Specification[T]

	// Not creates a specification with NOT logic
	Not() Specification[T]
}

// BaseSpecification adapts a predicate into a composable Specification
type BaseSpecification[T any] struct {
	evaluator func(T) bool
}

// NewBaseSpecification creates a new base specification with a custom evaluator
func NewBaseSpecification[T any](evaluator func(T) bool) *BaseSpecification[T] {
	return &BaseSpecification[T]{evaluator: evaluator}
}

// IsSatisfiedBy checks if the specification is satisfied
func (s *BaseSpecification[T]) IsSatisfiedBy(candidate T) bool {
	return s.evaluator(candidate)
}

// And creates an AND composite specification
func (s *BaseSpecification[T]) And(other Specification[T]) Specification[T] {
	return NewBaseSpecification(func(c T) bool {
		return s.IsSatisfiedBy(c) && other.IsSatisfiedBy(c)
	})
}

// Or creates an OR composite specification
func (s *BaseSpecification[T]) Or(other Specification[T]) Specification[T] {
	return NewBaseSpecification(func(c T) bool {
		return s.IsSatisfiedBy(c) || other.IsSatisfiedBy(c)
	})
}

// Not creates a NOT specification
func (s *BaseSpecification[T]) Not() Specification[T] {
	return NewBaseSpecification(func(c T) bool {
		return !s.IsSatisfiedBy(c)
	})
}

// Filter returns the candidates satisfying spec, preserving order
func Filter[T any](spec Specification[T], candidates []T) []T {
	out := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if spec.IsSatisfiedBy(c) {
			out = append(out, c)
		}
	}
	return out
}
