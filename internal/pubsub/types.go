package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. Each
// event type maps to a topic with a push subscription back into the
// service, replacing the document-change triggers of the original design.
type EventType string

const (
	// EventPlayerStatWritten fires whenever a player-stat record is
	// created, updated, or touched. Consumed by the reconciler.
	EventPlayerStatWritten EventType = "player-stat-written"
	// EventMatchUpdated fires on match status transitions. Consumed by the
	// status-transition toucher.
	EventMatchUpdated EventType = "match-updated"
)

// StatEvent identifies a player-stat record that changed. Consumers re-read
// the record from the store, so redelivered or reordered events are safe.
type StatEvent struct {
	MatchID  string `msgpack:"match_id"`
	PlayerID string `msgpack:"player_id"`
}

// MatchEvent carries a match status transition.
type MatchEvent struct {
	MatchID      string `msgpack:"match_id"`
	BeforeStatus string `msgpack:"before_status"`
	AfterStatus  string `msgpack:"after_status"`
}
