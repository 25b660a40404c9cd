package valid

import (
	"time"

	str "strings"
)

// Event is something that happened.
//
//boxgen:shorthand
type Event interface {
	isEvent()
}

// Started marks the beginning of a run.
type Started struct {
	At time.Time
}

// Stopped carries the exit reason.
type Stopped string

// Resized is a width and height pair.
type Resized [2]int

// Tick has no payload.
type Tick struct{}

// Builder is not annotated, but embeds a qualified type.
type Builder struct {
	*str.Builder
	Count int
}

func (Started) isEvent() {}
func (Stopped) isEvent() {}
func (Resized) isEvent() {}
func (*Tick) isEvent()   {}
