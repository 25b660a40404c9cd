package valid

import "bytes"

// Value is sealed through an embedded helper.
//
//boxgen:shorthand
type Value interface {
	isValue()
	Write(p []byte) (int, error)
}

type sealed struct{}

func (sealed) isValue() {}

// Text gets Write from the embedded buffer.
type Text struct {
	sealed
	*bytes.Buffer
}

// Raw declares Write itself.
type Raw struct {
	*sealed
	Data []byte
}

func (r *Raw) Write(p []byte) (int, error) {
	r.Data = append(r.Data, p...)
	return len(p), nil
}
