// Package ws implements the live change feed.
//
// Hub keeps the set of connected WebSocket clients and fans every change
// event published by the store out to all of them. Messages use a small
// envelope:
//
//	{
//	  "event": "task.updated",
//	  "data":  { "type": "task.updated", "collection": "tasks", "id": "2", "record": {...}, "at": "..." }
//	}
//
// A client receives a "hello" message right after connecting. Slow clients
// whose outgoing buffer fills up are disconnected rather than allowed to
// stall the broadcast.
package ws
