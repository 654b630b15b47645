package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liuhuapiaoyuan/activepieces/internal/events"
	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
	"github.com/liuhuapiaoyuan/activepieces/pkg/log"
)

type (
	// Clock provides the current time for the edit-conflict guard
	Clock func() time.Time

	// Service implements flow lifecycle operations on top of the store. It
	// emits lifecycle notifications through the injected notifier
	Service struct {
		store    *Store
		notifier events.Notifier
		clock    Clock
		window   time.Duration
	}

	// Option configures a Service
	Option func(*Service)
)

// DefaultConflictWindow is how recently another user must have edited a
// version for a new edit to be rejected as conflicting
const DefaultConflictWindow = time.Minute

// WithClock overrides the service clock, used by tests to control the
// conflict window
func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithConflictWindow overrides the edit-conflict window
func WithConflictWindow(d time.Duration) Option {
	return func(s *Service) {
		s.window = d
	}
}

// NewService creates a flow service
func NewService(
	store *Store, notifier events.Notifier, opts ...Option,
) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		clock:    time.Now,
		window:   DefaultConflictWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new flow with a fresh draft version scoped to the
// caller's project and emits a created event
func (s *Service) Create(
	ctx context.Context, projectID api.ProjectID, userID api.UserID,
	req *api.CreateFlowRequest,
) (*api.Flow, error) {
	now := s.clock()
	f := &api.Flow{
		ID:        api.NewFlowID(),
		ProjectID: projectID,
		FolderID:  req.FolderID,
		Status:    api.FlowDisabled,
		Created:   now,
		Updated:   now,
		Version: &api.FlowVersion{
			ID:          api.NewVersionID(),
			DisplayName: req.DisplayName,
			State:       api.VersionDraft,
			Actions:     []*api.Action{},
			UpdatedBy:   userID,
			Updated:     now,
		},
	}

	if err := s.store.Create(ctx, f); err != nil {
		return nil, err
	}

	s.notify(ctx, &api.FlowEvent{
		Type:      api.EventFlowCreated,
		FlowID:    f.ID,
		ProjectID: projectID,
		UserID:    userID,
		Timestamp: now,
	})
	return f, nil
}

// Apply performs a single operation against the flow's current version. It
// rejects the edit when a different user touched the version within the
// conflict window, and emits an updated event before mutating
func (s *Service) Apply(
	ctx context.Context, projectID api.ProjectID, id api.FlowID,
	actor api.UserID, op *api.FlowOperationRequest,
) (*api.Flow, error) {
	f, err := s.get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	v := f.Version
	if v.UpdatedBy != "" && v.UpdatedBy != actor &&
		now.Sub(v.Updated) <= s.window {
		return nil, &InUseError{VersionID: v.ID, UpdatedBy: v.UpdatedBy}
	}

	s.notify(ctx, &api.FlowEvent{
		Type:      api.EventFlowUpdated,
		FlowID:    f.ID,
		ProjectID: projectID,
		UserID:    actor,
		Operation: op.Type,
		Timestamp: now,
	})

	prevFolder := f.FolderID
	if err := s.applyOperation(ctx, f, op); err != nil {
		return nil, err
	}

	f.Version.UpdatedBy = actor
	f.Version.Updated = now
	f.Updated = now

	if f.FolderID != prevFolder {
		err = s.store.MoveFolder(ctx, f, prevFolder)
	} else {
		err = s.store.Save(ctx, f)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Get retrieves a flow scoped to a project. When versionID is set, the
// returned flow carries that locked snapshot instead of the current version
func (s *Service) Get(
	ctx context.Context, projectID api.ProjectID, id api.FlowID,
	versionID api.VersionID,
) (*api.Flow, error) {
	f, err := s.get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	if versionID == "" || versionID == f.Version.ID {
		return f, nil
	}

	v, err := s.store.GetVersion(ctx, id, versionID)
	if err != nil {
		return nil, err
	}
	f.Version = v
	return f, nil
}

// GetTemplate retrieves the shareable projection of a flow
func (s *Service) GetTemplate(
	ctx context.Context, projectID api.ProjectID, id api.FlowID,
) (*api.FlowTemplate, error) {
	f, err := s.get(ctx, projectID, id)
	if err != nil {
		return nil, err
	}
	return f.Template(), nil
}

// Delete emits a deleted event and removes the flow
func (s *Service) Delete(
	ctx context.Context, projectID api.ProjectID, id api.FlowID,
	userID api.UserID,
) error {
	f, err := s.get(ctx, projectID, id)
	if err != nil {
		return err
	}

	s.notify(ctx, &api.FlowEvent{
		Type:      api.EventFlowDeleted,
		FlowID:    f.ID,
		ProjectID: projectID,
		UserID:    userID,
		Timestamp: s.clock(),
	})
	return s.store.Delete(ctx, f)
}

// List returns a page of the project's flows
func (s *Service) List(
	ctx context.Context, q ListQuery,
) ([]*api.Flow, string, error) {
	return s.store.List(ctx, q)
}

// Count returns the number of flows in the project or folder
func (s *Service) Count(
	ctx context.Context, projectID api.ProjectID, folderID api.FolderID,
) (int64, error) {
	return s.store.Count(ctx, projectID, folderID)
}

// get loads a flow and verifies it belongs to the project. Flows owned by
// other projects are reported as not found
func (s *Service) get(
	ctx context.Context, projectID api.ProjectID, id api.FlowID,
) (*api.Flow, error) {
	f, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.ProjectID != projectID {
		return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, id)
	}
	return f, nil
}

func (s *Service) notify(ctx context.Context, ev *api.FlowEvent) {
	if err := s.notifier.Notify(ctx, ev); err != nil {
		slog.Warn("Failed to notify flow event",
			log.FlowID(ev.FlowID),
			slog.String("event", string(ev.Type)),
			log.Error(err))
	}
}
