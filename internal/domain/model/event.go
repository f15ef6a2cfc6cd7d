package model

import "time"

// ChangeType names what happened to a collection.
type ChangeType string

// Change types emitted by the store.
const (
	ChangeCreated ChangeType = "task.created"
	ChangeUpdated ChangeType = "task.updated"
	ChangeDeleted ChangeType = "task.deleted"
	ChangeReset   ChangeType = "data.reset"
)

// ChangeEvent describes a successful mutation of the store. It flows from the
// store through the change queue to live-feed subscribers.
type ChangeEvent struct {
	Type       ChangeType `json:"type"`
	Collection Collection `json:"collection,omitempty"`
	ID         string     `json:"id,omitempty"`
	Record     Record     `json:"record,omitempty"`
	At         time.Time  `json:"at"`
}
