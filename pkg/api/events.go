package api

import "time"

type (
	// EventType tags a flow event with its kind
	EventType string

	// FlowEvent is the notification payload emitted for flow lifecycle
	// changes
	FlowEvent struct {
		Timestamp time.Time     `json:"timestamp"`
		Type      EventType     `json:"type"`
		FlowID    FlowID        `json:"flow_id"`
		ProjectID ProjectID     `json:"project_id"`
		UserID    UserID        `json:"user_id,omitempty"`
		Operation OperationKind `json:"operation,omitempty"`
	}
)

const (
	// EventFlowCreated is emitted after a flow is created
	EventFlowCreated EventType = "flow.created"

	// EventFlowUpdated is emitted before an operation is applied to a flow
	EventFlowUpdated EventType = "flow.updated"

	// EventFlowDeleted is emitted before a flow is deleted
	EventFlowDeleted EventType = "flow.deleted"
)
