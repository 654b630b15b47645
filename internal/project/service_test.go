package project_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuhuapiaoyuan/activepieces/internal/perm"
	"github.com/liuhuapiaoyuan/activepieces/internal/project"
)

func newTestService(t *testing.T) *project.Service {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
	})
	return project.NewService(rdb, "test")
}

func TestOwnerRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetOwner(ctx, "proj-1", "user-1"))

	owner, err := svc.OwnerID(ctx, "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", string(owner))
}

func TestOwnerGetsAdminRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetOwner(ctx, "proj-1", "user-1"))

	role, err := svc.RoleOf(ctx, "proj-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, perm.RoleAdmin, role)
}

func TestOwnerMissingProject(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.OwnerID(context.Background(), "ghost")
	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestRoleRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetRole(ctx, "proj-1", "user-2", perm.RoleViewer))

	role, err := svc.RoleOf(ctx, "proj-1", "user-2")
	require.NoError(t, err)
	assert.Equal(t, perm.RoleViewer, role)
}

func TestRoleMissingMember(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RoleOf(context.Background(), "proj-1", "ghost")
	assert.ErrorIs(t, err, project.ErrMemberNotFound)
}
