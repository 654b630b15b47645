package flow

import (
	"errors"
	"fmt"

	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

var (
	// ErrFlowExists is returned when creating a flow whose ID is taken
	ErrFlowExists = errors.New("flow already exists")

	// ErrFlowNotFound is returned when a flow lookup misses
	ErrFlowNotFound = errors.New("flow not found")

	// ErrVersionNotFound is returned when a version lookup misses
	ErrVersionNotFound = errors.New("flow version not found")

	// ErrVersionLocked is returned when an operation tries to edit a locked
	// version
	ErrVersionLocked = errors.New("flow version is locked")

	// ErrActionNotFound is returned when an operation names an action that
	// is not in the pipeline
	ErrActionNotFound = errors.New("action not found")

	// ErrInvalidOperation is returned when an operation payload cannot be
	// decoded or fails validation
	ErrInvalidOperation = errors.New("invalid operation request")
)

// InUseError signals that another user edited the flow's current version
// within the conflict window. It carries the conflicting version so the
// caller can report who holds the draft
type InUseError struct {
	VersionID api.VersionID
	UpdatedBy api.UserID
}

func (e *InUseError) Error() string {
	return fmt.Sprintf(
		"flow in use: version %s was recently updated by another user",
		e.VersionID,
	)
}
