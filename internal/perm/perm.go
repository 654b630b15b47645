// Package perm implements the role and permission model for project-scoped
// flow operations
//
// Roles are resolved per project; each operation kind maps to exactly one
// required permission. Operation kinds without a mapping are denied
package perm

import (
	"errors"
	"fmt"

	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

type (
	// Role is a named bundle of permissions granted within a project
	Role string

	// Permission is a named capability checked against a user's role
	Permission string
)

const (
	RoleAdmin    Role = "ADMIN"
	RoleEditor   Role = "EDITOR"
	RoleOperator Role = "OPERATOR"
	RoleViewer   Role = "VIEWER"
)

const (
	PermReadFlow         Permission = "READ_FLOW"
	PermWriteFlow        Permission = "WRITE_FLOW"
	PermUpdateFlowStatus Permission = "UPDATE_FLOW_STATUS"
)

var (
	// ErrPermissionDenied is returned when a role lacks the permission an
	// operation requires
	ErrPermissionDenied = errors.New("permission denied")

	// ErrOperationNotPermitted is returned for operation kinds that have no
	// permission mapping
	ErrOperationNotPermitted = errors.New("operation not permitted")
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleAdmin: {
		PermReadFlow:         true,
		PermWriteFlow:        true,
		PermUpdateFlowStatus: true,
	},
	RoleEditor: {
		PermReadFlow:         true,
		PermWriteFlow:        true,
		PermUpdateFlowStatus: true,
	},
	RoleOperator: {
		PermReadFlow:         true,
		PermUpdateFlowStatus: true,
	},
	RoleViewer: {
		PermReadFlow: true,
	},
}

var operationPermissions = map[api.OperationKind]Permission{
	api.OperationLockAndPublish:  PermUpdateFlowStatus,
	api.OperationChangeStatus:    PermUpdateFlowStatus,
	api.OperationAddAction:       PermWriteFlow,
	api.OperationUpdateAction:    PermWriteFlow,
	api.OperationDeleteAction:    PermWriteFlow,
	api.OperationLockFlow:        PermWriteFlow,
	api.OperationChangeFolder:    PermWriteFlow,
	api.OperationChangeName:      PermWriteFlow,
	api.OperationMoveAction:      PermWriteFlow,
	api.OperationImportFlow:      PermWriteFlow,
	api.OperationUpdateTrigger:   PermWriteFlow,
	api.OperationDuplicateAction: PermWriteFlow,
	api.OperationUseAsDraft:      PermWriteFlow,
}

// Has returns true when the role grants the permission
func Has(role Role, p Permission) bool {
	return rolePermissions[role][p]
}

// Required resolves the permission an operation kind needs. Unknown kinds
// are denied rather than silently allowed
func Required(kind api.OperationKind) (Permission, error) {
	p, ok := operationPermissions[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrOperationNotPermitted, kind)
	}
	return p, nil
}

// Authorize checks that the role may perform the operation kind
func Authorize(role Role, kind api.OperationKind) error {
	p, err := Required(kind)
	if err != nil {
		return err
	}
	if !Has(role, p) {
		return fmt.Errorf("%w: %s requires %s", ErrPermissionDenied, kind, p)
	}
	return nil
}
