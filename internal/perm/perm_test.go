package perm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liuhuapiaoyuan/activepieces/internal/perm"
	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

func TestRequiredStatusOperations(t *testing.T) {
	for _, kind := range []api.OperationKind{
		api.OperationLockAndPublish,
		api.OperationChangeStatus,
	} {
		p, err := perm.Required(kind)
		assert.NoError(t, err)
		assert.Equal(t, perm.PermUpdateFlowStatus, p)
	}
}

func TestRequiredWriteOperations(t *testing.T) {
	for _, kind := range []api.OperationKind{
		api.OperationAddAction,
		api.OperationUpdateAction,
		api.OperationDeleteAction,
		api.OperationLockFlow,
		api.OperationChangeFolder,
		api.OperationChangeName,
		api.OperationMoveAction,
		api.OperationImportFlow,
		api.OperationUpdateTrigger,
		api.OperationDuplicateAction,
		api.OperationUseAsDraft,
	} {
		p, err := perm.Required(kind)
		assert.NoError(t, err)
		assert.Equal(t, perm.PermWriteFlow, p)
	}
}

func TestRequiredUnknownKindDenied(t *testing.T) {
	_, err := perm.Required(api.OperationKind("FROBNICATE"))
	assert.ErrorIs(t, err, perm.ErrOperationNotPermitted)
}

func TestAuthorizeByRole(t *testing.T) {
	tests := []struct {
		name string
		role perm.Role
		kind api.OperationKind
		ok   bool
	}{
		{"admin writes", perm.RoleAdmin, api.OperationAddAction, true},
		{"editor writes", perm.RoleEditor, api.OperationChangeName, true},
		{"editor publishes", perm.RoleEditor, api.OperationLockAndPublish, true},
		{"operator toggles status", perm.RoleOperator, api.OperationChangeStatus, true},
		{"operator cannot write", perm.RoleOperator, api.OperationAddAction, false},
		{"viewer cannot toggle", perm.RoleViewer, api.OperationChangeStatus, false},
		{"viewer cannot write", perm.RoleViewer, api.OperationImportFlow, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := perm.Authorize(tt.role, tt.kind)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, perm.ErrPermissionDenied)
		})
	}
}

func TestHasUnknownRole(t *testing.T) {
	assert.False(t, perm.Has(perm.Role("GHOST"), perm.PermReadFlow))
}
