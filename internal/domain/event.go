package domain

import "time"

// EventType names a workflow event consumed by the notification channel.
type EventType string

const (
	EventTripSubmitted             EventType = "TripSubmitted"
	EventTripApproved              EventType = "TripApproved"
	EventTripRejected              EventType = "TripRejected"
	EventTripCancelled             EventType = "TripCancelled"
	EventTripCompleted             EventType = "TripCompleted"
	EventRegistrationCreated       EventType = "RegistrationCreated"
	EventRegistrationApproved      EventType = "RegistrationApproved"
	EventRegistrationRejected      EventType = "RegistrationRejected"
	EventPorterApplicationApproved EventType = "PorterApplicationApproved"
	EventPorterApplicationRejected EventType = "PorterApplicationRejected"
	EventPorterRevoked             EventType = "PorterRevoked"
	EventReviewCreated             EventType = "ReviewCreated"
)

// Event is emitted after a transition commits.
type Event struct {
	Type       EventType
	EntityID   string
	Status     string
	ActorID    string
	OccurredAt time.Time
}
