package flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/liuhuapiaoyuan/activepieces/pkg/api"
)

type (
	// Store persists flows and locked version snapshots in Redis. Flows are
	// indexed per project and per folder by creation time so listings can
	// be cursor-paginated newest-first
	Store struct {
		rdb    redis.UniversalClient
		prefix string
	}

	// ListQuery filters a paginated flow listing
	ListQuery struct {
		ProjectID api.ProjectID
		FolderID  api.FolderID
		Status    api.FlowStatus
		Cursor    string
		Limit     int
	}

	// cursor marks the last entry of the previous page. The member is kept
	// alongside the score so flows created in the same millisecond are not
	// skipped across page boundaries
	cursor struct {
		score  int64
		member string
	}
)

// DefaultPageSize caps listings when the caller does not provide a limit
const DefaultPageSize = 10

// ErrInvalidCursor is returned when a pagination cursor cannot be parsed
var ErrInvalidCursor = errors.New("invalid cursor")

// NewStore creates a Redis-backed flow store using the given key prefix
func NewStore(rdb redis.UniversalClient, prefix string) *Store {
	return &Store{
		rdb:    rdb,
		prefix: prefix,
	}
}

// Create persists a new flow and adds it to the project and folder indexes.
// Fails with ErrFlowExists when the ID is already taken
func (s *Store) Create(ctx context.Context, f *api.Flow) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	ok, err := s.rdb.SetNX(ctx, s.flowKey(f.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrFlowExists, f.ID)
	}

	score := float64(f.Created.UnixMilli())
	member := redis.Z{Score: score, Member: string(f.ID)}
	if err := s.rdb.ZAdd(ctx, s.projectKey(f.ProjectID), member).Err(); err != nil {
		return err
	}
	if f.FolderID != "" {
		key := s.folderKey(f.ProjectID, f.FolderID)
		if err := s.rdb.ZAdd(ctx, key, member).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a flow by ID
func (s *Store) Get(ctx context.Context, id api.FlowID) (*api.Flow, error) {
	data, err := s.rdb.Get(ctx, s.flowKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var f api.Flow
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Save overwrites an existing flow's record. Indexes are untouched; use
// MoveFolder when the folder changes
func (s *Store) Save(ctx context.Context, f *api.Flow) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.flowKey(f.ID), data, 0).Err()
}

// MoveFolder saves the flow and reindexes it from its previous folder to
// its current one
func (s *Store) MoveFolder(
	ctx context.Context, f *api.Flow, from api.FolderID,
) error {
	if err := s.Save(ctx, f); err != nil {
		return err
	}
	if from == f.FolderID {
		return nil
	}

	if from != "" {
		key := s.folderKey(f.ProjectID, from)
		if err := s.rdb.ZRem(ctx, key, string(f.ID)).Err(); err != nil {
			return err
		}
	}
	if f.FolderID != "" {
		key := s.folderKey(f.ProjectID, f.FolderID)
		member := redis.Z{
			Score:  float64(f.Created.UnixMilli()),
			Member: string(f.ID),
		}
		if err := s.rdb.ZAdd(ctx, key, member).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the flow, its indexes, and its version snapshots
func (s *Store) Delete(ctx context.Context, f *api.Flow) error {
	if err := s.rdb.Del(
		ctx, s.flowKey(f.ID), s.versionsKey(f.ID),
	).Err(); err != nil {
		return err
	}
	if err := s.rdb.ZRem(
		ctx, s.projectKey(f.ProjectID), string(f.ID),
	).Err(); err != nil {
		return err
	}
	if f.FolderID != "" {
		key := s.folderKey(f.ProjectID, f.FolderID)
		return s.rdb.ZRem(ctx, key, string(f.ID)).Err()
	}
	return nil
}

// SaveVersion stores a locked version snapshot for later retrieval
func (s *Store) SaveVersion(
	ctx context.Context, id api.FlowID, v *api.FlowVersion,
) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.HSet(ctx, s.versionsKey(id), string(v.ID), data).Err()
}

// GetVersion retrieves a locked version snapshot by ID
func (s *Store) GetVersion(
	ctx context.Context, id api.FlowID, vid api.VersionID,
) (*api.FlowVersion, error) {
	data, err := s.rdb.HGet(ctx, s.versionsKey(id), string(vid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, vid)
	}
	if err != nil {
		return nil, err
	}

	var v api.FlowVersion
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns a newest-first page of flows matching the query, plus the
// cursor for the next page. Status filtering happens after the page is
// fetched, so a filtered page may hold fewer than Limit flows
func (s *Store) List(
	ctx context.Context, q ListQuery,
) ([]*api.Flow, string, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	cur, err := parseCursor(q.Cursor)
	if err != nil {
		return nil, "", err
	}

	key := s.indexKey(q.ProjectID, q.FolderID)
	ids, err := s.scanAfter(ctx, key, cur, limit+1)
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(ids) > limit {
		ids = ids[:limit]
		last := ids[len(ids)-1]
		next = formatCursor(int64(last.Score), last.Member.(string))
	}

	res := make([]*api.Flow, 0, len(ids))
	for _, z := range ids {
		f, err := s.Get(ctx, api.FlowID(z.Member.(string)))
		if errors.Is(err, ErrFlowNotFound) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		if q.Status != "" && f.Status != q.Status {
			continue
		}
		res = append(res, f)
	}
	return res, next, nil
}

// scanAfter walks the index newest-first and collects up to n entries
// strictly after the cursor position. The range starts at the cursor score
// inclusively, then entries are skipped until the cursor member passes, so
// members tied on the same score remain reachable on the next page
func (s *Store) scanAfter(
	ctx context.Context, key string, cur *cursor, n int,
) ([]redis.Z, error) {
	max := "+inf"
	if cur != nil {
		max = strconv.FormatInt(cur.score, 10)
	}

	skipping := cur != nil
	var page []redis.Z
	var offset int64
	for {
		batch, err := s.rdb.ZRevRangeByScoreWithScores(
			ctx, key, &redis.ZRangeBy{
				Min:    "-inf",
				Max:    max,
				Offset: offset,
				Count:  int64(n),
			},
		).Result()
		if err != nil {
			return nil, err
		}

		for _, z := range batch {
			if skipping {
				switch {
				case int64(z.Score) < cur.score:
					// cursor member no longer exists; resume at the first
					// entry past its score
					skipping = false
				case z.Member.(string) == cur.member:
					skipping = false
					continue
				default:
					continue
				}
			}
			page = append(page, z)
			if len(page) == n {
				return page, nil
			}
		}

		if len(batch) < n {
			return page, nil
		}
		offset += int64(len(batch))
	}
}

func formatCursor(score int64, member string) string {
	return fmt.Sprintf("%d:%s", score, member)
}

func parseCursor(raw string) (*cursor, error) {
	if raw == "" {
		return nil, nil
	}
	scorePart, member, ok := strings.Cut(raw, ":")
	if !ok || member == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, raw)
	}
	score, err := strconv.ParseInt(scorePart, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, raw)
	}
	return &cursor{score: score, member: member}, nil
}

// Count returns the number of flows in a project, or in one of its folders
func (s *Store) Count(
	ctx context.Context, projectID api.ProjectID, folderID api.FolderID,
) (int64, error) {
	return s.rdb.ZCard(ctx, s.indexKey(projectID, folderID)).Result()
}

func (s *Store) indexKey(
	projectID api.ProjectID, folderID api.FolderID,
) string {
	if folderID != "" {
		return s.folderKey(projectID, folderID)
	}
	return s.projectKey(projectID)
}

func (s *Store) flowKey(id api.FlowID) string {
	return fmt.Sprintf("%s:flow:%s", s.prefix, id)
}

func (s *Store) versionsKey(id api.FlowID) string {
	return fmt.Sprintf("%s:flow:%s:versions", s.prefix, id)
}

func (s *Store) projectKey(id api.ProjectID) string {
	return fmt.Sprintf("%s:project:%s:flows", s.prefix, id)
}

func (s *Store) folderKey(p api.ProjectID, f api.FolderID) string {
	return fmt.Sprintf("%s:project:%s:folder:%s:flows", s.prefix, p, f)
}
