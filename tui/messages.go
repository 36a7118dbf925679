package tui

import "github.com/hsbacot/mercat/client"

// Message types for Bubble Tea state transitions

type reloadCompleteMsg struct {
	snapshot client.Snapshot
	err      error
}

type searchCompleteMsg struct {
	keyword  string
	snapshot client.Snapshot
	err      error
}

type deleteCompleteMsg struct {
	id   int
	resp *client.RemoveResponse
	err  error
}

type createCompleteMsg struct {
	ack *client.ServerAck
	err error
}
