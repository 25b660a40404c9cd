package failure

// Broken does not parse.
//
//boxgen:shorthand
type Broken interface {
	isBroken(
}
