package buildflags

// Shape is a closed set of figures.
//
//boxgen:shorthand
type Shape interface {
	isShape()
}

// Circle is always available.
type Circle struct {
	Radius float64
}

func (Circle) isShape() {}
