package api

import "time"

type (
	// FlowStatus represents whether a flow is running its trigger
	FlowStatus string

	// VersionState represents whether a flow version is still editable
	VersionState string

	// Flow is a stored automation workflow definition. The embedded Version
	// is the current draft (or the last locked version when no draft exists)
	Flow struct {
		Created            time.Time    `json:"created"`
		Updated            time.Time    `json:"updated"`
		Version            *FlowVersion `json:"version"`
		ID                 FlowID       `json:"id"`
		ProjectID          ProjectID    `json:"project_id"`
		FolderID           FolderID     `json:"folder_id,omitempty"`
		Status             FlowStatus   `json:"status"`
		PublishedVersionID VersionID    `json:"published_version_id,omitempty"`
	}

	// FlowVersion is a single revision of a flow's definition
	FlowVersion struct {
		Updated     time.Time    `json:"updated"`
		Trigger     *Trigger     `json:"trigger,omitempty"`
		DisplayName string       `json:"display_name"`
		Actions     []*Action    `json:"actions"`
		ID          VersionID    `json:"id"`
		UpdatedBy   UserID       `json:"updated_by"`
		State       VersionState `json:"state"`
		Valid       bool         `json:"valid"`
	}

	// Action is a single step in a flow's pipeline
	Action struct {
		Settings map[string]any `json:"settings,omitempty"`
		Name     string         `json:"name"`
		Type     string         `json:"type"`
		Valid    bool           `json:"valid"`
	}

	// Trigger starts a flow's execution
	Trigger struct {
		Settings map[string]any `json:"settings,omitempty"`
		Name     string         `json:"name"`
		Type     string         `json:"type"`
		Valid    bool           `json:"valid"`
	}

	// FlowTemplate is a projection of a flow suitable for sharing across
	// projects. It excludes project-identifying fields
	FlowTemplate struct {
		Trigger     *Trigger  `json:"trigger,omitempty"`
		DisplayName string    `json:"display_name"`
		Actions     []*Action `json:"actions"`
	}
)

const (
	// FlowEnabled means the flow's trigger is live
	FlowEnabled FlowStatus = "enabled"

	// FlowDisabled means the flow's trigger is paused
	FlowDisabled FlowStatus = "disabled"
)

const (
	// VersionDraft means the version can still be edited
	VersionDraft VersionState = "draft"

	// VersionLocked means the version is immutable
	VersionLocked VersionState = "locked"
)

// Template returns the shareable projection of the flow's current version
func (f *Flow) Template() *FlowTemplate {
	return &FlowTemplate{
		DisplayName: f.Version.DisplayName,
		Trigger:     f.Version.Trigger,
		Actions:     f.Version.Actions,
	}
}

// Clone returns a deep copy of the version, used when snapshotting a draft
// before locking it
func (v *FlowVersion) Clone() *FlowVersion {
	res := *v
	res.Actions = make([]*Action, len(v.Actions))
	for i, a := range v.Actions {
		cp := *a
		res.Actions[i] = &cp
	}
	if v.Trigger != nil {
		cp := *v.Trigger
		res.Trigger = &cp
	}
	return &res
}
