// Package project tracks project ownership and per-project role membership
package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/liuhuapiaoyuan/activepieces/internal/perm"
	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

// Service resolves project owners and member roles from Redis
type Service struct {
	rdb    redis.UniversalClient
	prefix string
}

var (
	// ErrProjectNotFound is returned when a project has no recorded owner
	ErrProjectNotFound = errors.New("project not found")

	// ErrMemberNotFound is returned when a user has no role in a project
	ErrMemberNotFound = errors.New("project member not found")
)

// NewService creates a Redis-backed project service with the given key
// prefix
func NewService(rdb redis.UniversalClient, prefix string) *Service {
	return &Service{
		rdb:    rdb,
		prefix: prefix,
	}
}

// OwnerID resolves the owning user of a project. Service principals are
// resolved to this user for permission checks; projects with more than one
// admin would need a richer policy than a single owner
func (s *Service) OwnerID(
	ctx context.Context, id api.ProjectID,
) (api.UserID, error) {
	owner, err := s.rdb.Get(ctx, s.ownerKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	if err != nil {
		return "", err
	}
	return api.UserID(owner), nil
}

// SetOwner records the owning user of a project and grants them the admin
// role
func (s *Service) SetOwner(
	ctx context.Context, id api.ProjectID, userID api.UserID,
) error {
	if err := s.rdb.Set(
		ctx, s.ownerKey(id), string(userID), 0,
	).Err(); err != nil {
		return err
	}
	return s.SetRole(ctx, id, userID, perm.RoleAdmin)
}

// RoleOf resolves a user's role within a project
func (s *Service) RoleOf(
	ctx context.Context, id api.ProjectID, userID api.UserID,
) (perm.Role, error) {
	role, err := s.rdb.HGet(ctx, s.membersKey(id), string(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s in %s", ErrMemberNotFound, userID, id)
	}
	if err != nil {
		return "", err
	}
	return perm.Role(role), nil
}

// SetRole records a user's role within a project
func (s *Service) SetRole(
	ctx context.Context, id api.ProjectID, userID api.UserID, role perm.Role,
) error {
	return s.rdb.HSet(
		ctx, s.membersKey(id), string(userID), string(role),
	).Err()
}

func (s *Service) ownerKey(id api.ProjectID) string {
	return fmt.Sprintf("%s:project:%s:owner", s.prefix, id)
}

func (s *Service) membersKey(id api.ProjectID) string {
	return fmt.Sprintf("%s:project:%s:members", s.prefix, id)
}
