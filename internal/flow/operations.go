package flow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

// applyOperation dispatches a single operation against the flow. Operations
// that edit the version's definition require the current version to still
// be a draft
func (s *Service) applyOperation(
	ctx context.Context, f *api.Flow, op *api.FlowOperationRequest,
) error {
	switch op.Type {
	case api.OperationChangeStatus:
		return changeStatus(f, op)
	case api.OperationChangeFolder:
		return changeFolder(f, op)
	case api.OperationChangeName:
		return changeName(f, op)
	case api.OperationAddAction:
		return addAction(f, op)
	case api.OperationUpdateAction:
		return updateAction(f, op)
	case api.OperationDeleteAction:
		return deleteAction(f, op)
	case api.OperationMoveAction:
		return moveAction(f, op)
	case api.OperationDuplicateAction:
		return duplicateAction(f, op)
	case api.OperationUpdateTrigger:
		return updateTrigger(f, op)
	case api.OperationImportFlow:
		return importFlow(f, op)
	case api.OperationLockFlow:
		f.Version.State = api.VersionLocked
		return nil
	case api.OperationLockAndPublish:
		return s.lockAndPublish(ctx, f)
	case api.OperationUseAsDraft:
		return s.useAsDraft(ctx, f, op)
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrInvalidOperation, op.Type)
	}
}

func changeStatus(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.ChangeStatusRequest](op)
	if err != nil {
		return err
	}
	if req.Status != api.FlowEnabled && req.Status != api.FlowDisabled {
		return fmt.Errorf("%w: status %q", ErrInvalidOperation, req.Status)
	}
	f.Status = req.Status
	return nil
}

func changeFolder(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.ChangeFolderRequest](op)
	if err != nil {
		return err
	}
	f.FolderID = req.FolderID
	return nil
}

func changeName(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.ChangeNameRequest](op)
	if err != nil {
		return err
	}
	if req.DisplayName == "" {
		return fmt.Errorf("%w: display name required", ErrInvalidOperation)
	}
	if err := requireDraft(f); err != nil {
		return err
	}
	f.Version.DisplayName = req.DisplayName
	return nil
}

func addAction(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.AddActionRequest](op)
	if err != nil {
		return err
	}
	if req.Action == nil || req.Action.Name == "" {
		return fmt.Errorf("%w: action required", ErrInvalidOperation)
	}
	if err := requireDraft(f); err != nil {
		return err
	}

	v := f.Version
	idx := len(v.Actions)
	if req.Index != nil {
		idx = clampIndex(*req.Index, len(v.Actions))
	}
	v.Actions = append(v.Actions, nil)
	copy(v.Actions[idx+1:], v.Actions[idx:])
	v.Actions[idx] = req.Action
	return nil
}

func updateAction(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.UpdateActionRequest](op)
	if err != nil {
		return err
	}
	if req.Action == nil || req.Action.Name == "" {
		return fmt.Errorf("%w: action required", ErrInvalidOperation)
	}
	if err := requireDraft(f); err != nil {
		return err
	}

	idx := actionIndex(f.Version, req.Action.Name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrActionNotFound, req.Action.Name)
	}
	f.Version.Actions[idx] = req.Action
	return nil
}

func deleteAction(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.DeleteActionRequest](op)
	if err != nil {
		return err
	}
	if err := requireDraft(f); err != nil {
		return err
	}

	v := f.Version
	idx := actionIndex(v, req.Name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrActionNotFound, req.Name)
	}
	v.Actions = append(v.Actions[:idx], v.Actions[idx+1:]...)
	return nil
}

func moveAction(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.MoveActionRequest](op)
	if err != nil {
		return err
	}
	if err := requireDraft(f); err != nil {
		return err
	}

	v := f.Version
	idx := actionIndex(v, req.Name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrActionNotFound, req.Name)
	}

	action := v.Actions[idx]
	v.Actions = append(v.Actions[:idx], v.Actions[idx+1:]...)
	to := clampIndex(req.Index, len(v.Actions))
	v.Actions = append(v.Actions, nil)
	copy(v.Actions[to+1:], v.Actions[to:])
	v.Actions[to] = action
	return nil
}

func duplicateAction(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.DuplicateActionRequest](op)
	if err != nil {
		return err
	}
	if err := requireDraft(f); err != nil {
		return err
	}

	v := f.Version
	idx := actionIndex(v, req.Name)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrActionNotFound, req.Name)
	}

	cp := *v.Actions[idx]
	cp.Name = copyName(v, cp.Name)
	v.Actions = append(v.Actions, nil)
	copy(v.Actions[idx+2:], v.Actions[idx+1:])
	v.Actions[idx+1] = &cp
	return nil
}

func updateTrigger(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.UpdateTriggerRequest](op)
	if err != nil {
		return err
	}
	if req.Trigger == nil {
		return fmt.Errorf("%w: trigger required", ErrInvalidOperation)
	}
	if err := requireDraft(f); err != nil {
		return err
	}
	f.Version.Trigger = req.Trigger
	return nil
}

func importFlow(f *api.Flow, op *api.FlowOperationRequest) error {
	req, err := decode[api.ImportFlowRequest](op)
	if err != nil {
		return err
	}
	if req.DisplayName == "" {
		return fmt.Errorf("%w: display name required", ErrInvalidOperation)
	}
	if err := requireDraft(f); err != nil {
		return err
	}

	v := f.Version
	v.DisplayName = req.DisplayName
	v.Trigger = req.Trigger
	v.Actions = req.Actions
	if v.Actions == nil {
		v.Actions = []*api.Action{}
	}
	return nil
}

// lockAndPublish locks the current version, snapshots it for later
// retrieval, marks it as the published version, and enables the flow
func (s *Service) lockAndPublish(ctx context.Context, f *api.Flow) error {
	v := f.Version
	v.State = api.VersionLocked
	if err := s.store.SaveVersion(ctx, f.ID, v.Clone()); err != nil {
		return err
	}
	f.PublishedVersionID = v.ID
	f.Status = api.FlowEnabled
	return nil
}

// useAsDraft restores a locked snapshot as a fresh draft version
func (s *Service) useAsDraft(
	ctx context.Context, f *api.Flow, op *api.FlowOperationRequest,
) error {
	req, err := decode[api.UseAsDraftRequest](op)
	if err != nil {
		return err
	}

	snap, err := s.store.GetVersion(ctx, f.ID, req.VersionID)
	if err != nil {
		return err
	}

	draft := snap.Clone()
	draft.ID = api.NewVersionID()
	draft.State = api.VersionDraft
	f.Version = draft
	return nil
}

func requireDraft(f *api.Flow) error {
	if f.Version.State != api.VersionDraft {
		return fmt.Errorf("%w: %s", ErrVersionLocked, f.Version.ID)
	}
	return nil
}

func actionIndex(v *api.FlowVersion, name string) int {
	for i, a := range v.Actions {
		if a.Name == name {
			return i
		}
	}
	return -1
}

func clampIndex(idx, max int) int {
	if idx < 0 {
		return 0
	}
	if idx > max {
		return max
	}
	return idx
}

// copyName appends " copy" suffixes until the name is unique within the
// pipeline
func copyName(v *api.FlowVersion, name string) string {
	candidate := name + " copy"
	for actionIndex(v, candidate) >= 0 {
		candidate += " copy"
	}
	return candidate
}

func decode[T any](op *api.FlowOperationRequest) (*T, error) {
	var req T
	if err := json.Unmarshal(op.Request, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	return &req, nil
}
