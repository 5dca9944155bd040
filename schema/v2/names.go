package v2

import "strconv"

// Namer hands out synthetic instance names for legacy entries that have none.
// Names are instance1, instance2, ... in call order. A Namer belongs to a
// single upgrade; it is not safe for concurrent use.
type Namer struct {
	next int
}

// NewNamer returns a Namer whose first name is instance1
func NewNamer() *Namer {
	return &Namer{next: 1}
}

// Next returns the next unused name
func (n *Namer) Next() string {
	if n.next < 1 {
		n.next = 1
	}
	name := "instance" + strconv.Itoa(n.next)
	n.next++
	return name
}
