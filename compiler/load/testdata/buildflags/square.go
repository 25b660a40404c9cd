//go:build !nosquare

package buildflags

// Square is excluded by the nosquare tag.
type Square struct {
	Side float64
}

func (Square) isShape() {}
