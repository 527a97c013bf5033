package domain

import "slices"

// Capability is a permission granted to an actor.
type Capability string

const (
	CapabilityParticipant Capability = "participant"
	CapabilityPorter      Capability = "porter"
	CapabilityAdmin       Capability = "admin"
)

// Actor is the resolved caller of an operation.
type Actor struct {
	ID           string
	Capabilities []Capability
}

// Has reports whether the actor holds c.
func (a Actor) Has(c Capability) bool {
	return slices.Contains(a.Capabilities, c)
}

// IsAdmin reports whether the actor holds the admin capability.
func (a Actor) IsAdmin() bool {
	return a.Has(CapabilityAdmin)
}

// Anonymous reports whether no actor was resolved.
func (a Actor) Anonymous() bool {
	return a.ID == ""
}

// WithCapability returns a copy of the actor that also holds c.
func (a Actor) WithCapability(c Capability) Actor {
	if a.Has(c) {
		return a
	}
	caps := make([]Capability, 0, len(a.Capabilities)+1)
	caps = append(caps, a.Capabilities...)
	a.Capabilities = append(caps, c)
	return a
}

// ParseCapability converts a raw claim value into a Capability.
func ParseCapability(raw string) (Capability, bool) {
	switch c := Capability(raw); c {
	case CapabilityParticipant, CapabilityPorter, CapabilityAdmin:
		return c, true
	default:
		return "", false
	}
}

// WithoutCapability returns a copy of the actor that does not hold c.
func (a Actor) WithoutCapability(c Capability) Actor {
	if !a.Has(c) {
		return a
	}
	caps := make([]Capability, 0, len(a.Capabilities))
	for _, have := range a.Capabilities {
		if have != c {
			caps = append(caps, have)
		}
	}
	a.Capabilities = caps
	return a
}
