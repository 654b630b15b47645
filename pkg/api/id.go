package api

import "github.com/google/uuid"

type (
	// FlowID is a unique identifier for a flow
	FlowID string

	// VersionID is a unique identifier for a flow version
	VersionID string

	// ProjectID is a unique identifier for a project
	ProjectID string

	// FolderID is a unique identifier for a folder within a project
	FolderID string

	// UserID is a unique identifier for a user
	UserID string
)

// NewFlowID generates a random flow identifier
func NewFlowID() FlowID {
	return FlowID(uuid.NewString())
}

// NewVersionID generates a random version identifier
func NewVersionID() VersionID {
	return VersionID(uuid.NewString())
}
