// Package events fans server-side lookup and journal events out to push
// transports.
//
// Handlers and client hooks publish to a Broker and every subscriber, such
// as the WebSocket hub, receives each event.
package events

import "time"

// EventType represents the type of server event.
type EventType string

// Event types.
const (
	// FoodReconciled is published after a details lookup builds a record.
	FoodReconciled EventType = "food.reconciled"
	// ProviderFailed is published when a provider answer is dropped.
	ProviderFailed EventType = "provider.failed"

	// JournalEntryAdded is published after a journal entry is stored.
	JournalEntryAdded EventType = "journal.entry_added"
	// ProfileUpdated is published after a needs assessment is stored.
	ProfileUpdated EventType = "profile.updated"

	// ClientConnected is published when an updates client connects.
	ClientConnected EventType = "client.connected"
)

// Event is a timestamped server event.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
