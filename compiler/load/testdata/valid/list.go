package valid

// List is a generic sum type that is not annotated.
type List[T any] interface {
	isList()
	Len() int
}

// Cons is a non-empty list.
type Cons[T any] struct {
	Head T
	Tail List[T]
}

// Nil is the empty list.
type Nil[T any] struct{}

func (Cons[T]) isList()   {}
func (c Cons[T]) Len() int { return 1 + c.Tail.Len() }
func (Nil[T]) isList()    {}
func (Nil[T]) Len() int    { return 0 }

// Partial implements only part of List and is not a variant.
type Partial[T any] struct{}

func (Partial[T]) isList() {}

// Number is a constraint, not a sum type.
type Number interface {
	~int | ~float64
}
