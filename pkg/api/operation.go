package api

import "encoding/json"

type (
	// OperationKind tags a flow mutation request with its operation type
	OperationKind string

	// FlowOperationRequest is a discriminated mutation command applied to a
	// flow. Request holds the kind-specific payload
	FlowOperationRequest struct {
		Type    OperationKind   `json:"type" binding:"required"`
		Request json.RawMessage `json:"request,omitempty"`
	}

	// ChangeNameRequest renames a flow's draft version
	ChangeNameRequest struct {
		DisplayName string `json:"display_name" binding:"required"`
	}

	// ChangeStatusRequest enables or disables a flow
	ChangeStatusRequest struct {
		Status FlowStatus `json:"status" binding:"required"`
	}

	// ChangeFolderRequest moves a flow into a folder. An empty folder ID
	// moves the flow to the project root
	ChangeFolderRequest struct {
		FolderID FolderID `json:"folder_id"`
	}

	// AddActionRequest appends or inserts an action into the draft version
	AddActionRequest struct {
		Action *Action `json:"action" binding:"required"`
		Index  *int    `json:"index,omitempty"`
	}

	// UpdateActionRequest replaces the named action in the draft version
	UpdateActionRequest struct {
		Action *Action `json:"action" binding:"required"`
	}

	// DeleteActionRequest removes the named action from the draft version
	DeleteActionRequest struct {
		Name string `json:"name" binding:"required"`
	}

	// MoveActionRequest repositions the named action within the pipeline
	MoveActionRequest struct {
		Name  string `json:"name" binding:"required"`
		Index int    `json:"index"`
	}

	// DuplicateActionRequest inserts a copy of the named action right after
	// the original
	DuplicateActionRequest struct {
		Name string `json:"name" binding:"required"`
	}

	// UpdateTriggerRequest replaces the draft version's trigger
	UpdateTriggerRequest struct {
		Trigger *Trigger `json:"trigger" binding:"required"`
	}

	// ImportFlowRequest replaces the draft version's definition wholesale
	ImportFlowRequest struct {
		Trigger     *Trigger  `json:"trigger,omitempty"`
		DisplayName string    `json:"display_name" binding:"required"`
		Actions     []*Action `json:"actions"`
	}

	// UseAsDraftRequest restores a previously locked version as the new
	// draft
	UseAsDraftRequest struct {
		VersionID VersionID `json:"version_id" binding:"required"`
	}
)

const (
	OperationChangeStatus    OperationKind = "CHANGE_STATUS"
	OperationLockAndPublish  OperationKind = "LOCK_AND_PUBLISH"
	OperationLockFlow        OperationKind = "LOCK_FLOW"
	OperationChangeName      OperationKind = "CHANGE_NAME"
	OperationChangeFolder    OperationKind = "CHANGE_FOLDER"
	OperationAddAction       OperationKind = "ADD_ACTION"
	OperationUpdateAction    OperationKind = "UPDATE_ACTION"
	OperationDeleteAction    OperationKind = "DELETE_ACTION"
	OperationMoveAction      OperationKind = "MOVE_ACTION"
	OperationDuplicateAction OperationKind = "DUPLICATE_ACTION"
	OperationUpdateTrigger   OperationKind = "UPDATE_TRIGGER"
	OperationImportFlow      OperationKind = "IMPORT_FLOW"
	OperationUseAsDraft      OperationKind = "USE_AS_DRAFT"
)
